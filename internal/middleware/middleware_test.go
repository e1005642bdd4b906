package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/museum-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestI18nMiddlewarePicksLanguage(t *testing.T) {
	r := gin.New()
	r.Use(I18nMiddleware("en"))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, utils.GetLangFromContext(c))
	})

	tests := map[string]string{
		"":                       "en",
		"ru-RU,ru;q=0.9,en;q=0.8": "ru",
		"uk":                     "ru",
		"be_BY":                  "ru",
		"en-GB":                  "en",
		"de-DE,ru;q=0.5":         "en",
	}
	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Accept-Language", header)
		}
		assert.Equal(t, want, serve(r, req).Body.String(), "Accept-Language %q", header)
	}
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	limiter := PerMinute(2)
	defer limiter.Stop()

	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	// Other clients keep their own budget
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, http.StatusNoContent, serve(r, req).Code)
}

// staffAccounts is an in-memory AccountChecker keyed by user id.
type staffAccounts map[uint]bool

func (a staffAccounts) IsActiveStaff(userID uint) (bool, error) {
	return a[userID], nil
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetJWTSecret("middleware-secret")

	r := gin.New()
	r.GET("/optional", OptionalAuth(), func(c *gin.Context) {
		id, ok := utils.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
	})
	accounts := staffAccounts{7: true, 9: false}
	r.GET("/staff", AuthRequired(), StaffRequired(accounts), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	staffToken, err := utils.GenerateJWT(7, "curator", true, 1)
	require.NoError(t, err)
	visitorToken, err := utils.GenerateJWT(8, "guest", false, 1)
	require.NoError(t, err)
	disabledToken, err := utils.GenerateJWT(9, "former", true, 1)
	require.NoError(t, err)

	request := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return serve(r, req)
	}

	assert.Equal(t, http.StatusUnauthorized, request("/staff", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request("/staff", "garbage").Code)
	assert.Equal(t, http.StatusForbidden, request("/staff", visitorToken).Code)
	assert.Equal(t, http.StatusNoContent, request("/staff", staffToken).Code)

	// A still-valid token of a disabled account is refused
	assert.Equal(t, http.StatusForbidden, request("/staff", disabledToken).Code)

	assert.JSONEq(t, `{"id":0,"ok":false}`, request("/optional", "garbage").Body.String())
	assert.JSONEq(t, `{"id":7,"ok":true}`, request("/optional", staffToken).Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", serve(r, req).Header().Get(RequestIDHeader))

	assert.NotEmpty(t, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Header().Get(RequestIDHeader))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://museum.example"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://museum.example")
	assert.Equal(t, "https://museum.example", serve(r, req).Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}
