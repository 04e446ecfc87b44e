// Package auth verifies bearer tokens issued by the upstream identity
// service. The engine never issues tokens; it only extracts the acting
// identity and role used for guardrail waivers.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nexerp/backend/internal/domain/shared"
)

// Common verification errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidActor = errors.New("token does not carry a valid actor")
)

// Claims are the JWT claims the engine consumes
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// TokenVerifier validates HS256 tokens against a shared secret
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a TokenVerifier
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Verify parses and validates the token and returns the actor it carries
func (v *TokenVerifier) Verify(tokenString string) (shared.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return shared.Actor{}, ErrTokenExpired
		}
		return shared.Actor{}, ErrInvalidToken
	}
	if !token.Valid {
		return shared.Actor{}, ErrInvalidToken
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return shared.Actor{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return shared.Actor{}, ErrInvalidActor
	}

	actor := shared.NewActor(userID, shared.Role(strings.ToUpper(claims.Role)))
	if !actor.IsValid() {
		return shared.Actor{}, ErrInvalidActor
	}
	return actor, nil
}
