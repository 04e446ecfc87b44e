package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/infrastructure/auth"
	"github.com/nexerp/backend/internal/interfaces/http/dto"
)

// ActorKey is the gin context key holding the authenticated actor
const ActorKey = "actor"

// TokenVerifier verifies a bearer token and returns the actor it carries
type TokenVerifier interface {
	Verify(tokenString string) (shared.Actor, error)
}

// ActorConfig configures the actor middleware
type ActorConfig struct {
	Verifier TokenVerifier
	// SkipPaths are request paths that do not require authentication
	SkipPaths []string
	// AllowHeaderFallback accepts X-User-ID/X-Actor-Role headers when no
	// bearer token is present. Development only.
	AllowHeaderFallback bool
}

// ActorAuth resolves the acting identity for each request. Guardrail
// waivers depend on the actor role, so mutating endpoints refuse
// requests without one.
func ActorAuth(cfg ActorConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		actor, err := resolveActor(c, cfg)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

func resolveActor(c *gin.Context, cfg ActorConfig) (shared.Actor, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			return shared.Actor{}, errors.New("authorization header must use Bearer scheme")
		}
		return cfg.Verifier.Verify(token)
	}

	if cfg.AllowHeaderFallback {
		userID, err := uuid.Parse(c.GetHeader("X-User-ID"))
		if err != nil {
			return shared.Actor{}, errors.New("missing or invalid X-User-ID header")
		}
		actor := shared.NewActor(userID, shared.Role(strings.ToUpper(c.GetHeader("X-Actor-Role"))))
		if !actor.IsValid() {
			return shared.Actor{}, errors.New("invalid X-Actor-Role header")
		}
		return actor, nil
	}

	return shared.Actor{}, errors.New("authorization required")
}

func abortUnauthorized(c *gin.Context, err error) {
	message := "Authentication required"
	if errors.Is(err, auth.ErrTokenExpired) {
		message = "Token expired"
	} else if err != nil {
		message = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}

// GetActor returns the authenticated actor from the gin context
func GetActor(c *gin.Context) (shared.Actor, bool) {
	value, exists := c.Get(ActorKey)
	if !exists {
		return shared.Actor{}, false
	}
	actor, ok := value.(shared.Actor)
	return actor, ok
}
