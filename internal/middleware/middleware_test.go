package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/api/internal/config"
	applog "userhub/api/internal/log"
	"userhub/api/internal/models"
	"userhub/api/internal/repository"
	"userhub/api/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUserLoader struct {
	user models.User
	err  error
}

func (f fakeUserLoader) GetActiveByID(ctx context.Context, id int64) (models.User, error) {
	return f.user, f.err
}

func authConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{JWTSecret: "test-secret", JWTTTL: time.Minute},
	}
}

func okHandler(c *gin.Context) {
	c.Status(http.StatusOK)
}

func TestNumericParam_Valid(t *testing.T) {
	router := gin.New()
	router.GET("/users/:id", NumericParam("id"), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNumericParam_Invalid(t *testing.T) {
	router := gin.New()
	router.GET("/users/:id", NumericParam("id"), okHandler)

	for _, id := range []string{"abc", "-1", "0", "1.5"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+id, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	router := gin.New()
	router.GET("/me", Auth(authConfig(), fakeUserLoader{}), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidToken(t *testing.T) {
	token, err := security.GenerateAccessToken("test-secret", 7, "sess-1", time.Minute)
	require.NoError(t, err)

	loader := fakeUserLoader{user: models.User{ID: 7, Status: true}}

	router := gin.New()
	router.GET("/me", Auth(authConfig(), loader), func(c *gin.Context) {
		user, ok := c.Get(ContextUserKey)
		require.True(t, ok)
		assert.Equal(t, int64(7), user.(models.User).ID)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_SoftDeletedUserRejected(t *testing.T) {
	token, err := security.GenerateAccessToken("test-secret", 7, "sess-1", time.Minute)
	require.NoError(t, err)

	loader := fakeUserLoader{err: repository.ErrUserNotFound}

	router := gin.New()
	router.GET("/me", Auth(authConfig(), loader), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSelf_Match(t *testing.T) {
	router := gin.New()
	router.GET("/users/:id", func(c *gin.Context) {
		c.Set(ContextClaimsKey, security.AccessClaims{UserID: 7})
	}, RequireSelf(), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/7", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSelf_OtherUser(t *testing.T) {
	router := gin.New()
	router.GET("/users/:id", func(c *gin.Context) {
		c.Set(ContextClaimsKey, security.AccessClaims{UserID: 7})
	}, RequireSelf(), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/8", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireSelf_NoClaims(t *testing.T) {
	router := gin.New()
	router.GET("/users/:id", RequireSelf(), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/7", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORS_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS(nil))
	router.GET("/ping", okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://app.example.com"}))
	router.GET("/ping", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID_Generated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRequestID_Propagated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
}

func TestRequestID_ReachesRequestContext(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		seen = applog.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "abc-123", seen)
}

func TestLogger_RecordsRequestIDAndUser(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	router := gin.New()
	router.Use(RequestID(), Logger(log))
	router.GET("/ping", func(c *gin.Context) {
		c.Set(ContextUserKey, models.User{ID: 7, Status: true})
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	router.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, `"request_id":"abc-123"`)
	assert.Contains(t, line, `"user_id":7`)
	assert.Contains(t, line, `"status":200`)
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	router := gin.New()
	router.Use(RequestID(), Recovery(log))
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_server_error")

	line := buf.String()
	assert.Contains(t, line, "kaboom")
	assert.Contains(t, line, `"request_id":"abc-123"`)
	assert.Contains(t, line, `"path":"/boom"`)
}
