package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexerp/backend/internal/domain/shared"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubVerifier returns a fixed actor for the token "good" and fails otherwise
type stubVerifier struct {
	actor shared.Actor
}

func (v *stubVerifier) Verify(tokenString string) (shared.Actor, error) {
	if tokenString == "good" {
		return v.actor, nil
	}
	return shared.Actor{}, errors.New("invalid token")
}

func TestRequestID(t *testing.T) {
	t.Run("generates when missing", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/", func(c *gin.Context) {
			assert.NotEmpty(t, GetRequestID(c))
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		generated := w.Header().Get(RequestIDHeader)
		require.NotEmpty(t, generated)
		_, err := uuid.Parse(generated)
		assert.NoError(t, err)
	})

	t.Run("preserves client request id", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "client-id-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "client-id-123", w.Header().Get(RequestIDHeader))
	})
}

func TestActorAuth(t *testing.T) {
	userID := uuid.New()
	verifier := &stubVerifier{actor: shared.NewActor(userID, shared.RoleClerk)}

	newRouter := func(cfg ActorConfig) *gin.Engine {
		router := gin.New()
		router.Use(ActorAuth(cfg))
		router.GET("/protected", func(c *gin.Context) {
			actor, ok := GetActor(c)
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID})
		})
		router.GET("/health", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("valid bearer token", func(t *testing.T) {
		router := newRouter(ActorConfig{Verifier: verifier})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		router := newRouter(ActorConfig{Verifier: verifier})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing authorization", func(t *testing.T) {
		router := newRouter(ActorConfig{Verifier: verifier})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		router := newRouter(ActorConfig{Verifier: verifier})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skip path bypasses auth", func(t *testing.T) {
		router := newRouter(ActorConfig{
			Verifier:  verifier,
			SkipPaths: []string{"/health"},
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("header fallback when enabled", func(t *testing.T) {
		router := newRouter(ActorConfig{
			Verifier:            verifier,
			AllowHeaderFallback: true,
		})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("X-User-ID", uuid.New().String())
		req.Header.Set("X-Actor-Role", "manager")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("header fallback rejects bad role", func(t *testing.T) {
		router := newRouter(ActorConfig{
			Verifier:            verifier,
			AllowHeaderFallback: true,
		})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("X-User-ID", uuid.New().String())
		req.Header.Set("X-Actor-Role", "root")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("header fallback disabled by default", func(t *testing.T) {
		router := newRouter(ActorConfig{Verifier: verifier})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("X-User-ID", uuid.New().String())
		req.Header.Set("X-Actor-Role", "manager")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
