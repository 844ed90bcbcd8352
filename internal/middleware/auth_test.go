package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newRouter(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestMetrics(zap.NewNop()))
	r.GET("/protected", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey), "role": c.GetString(RoleKey)})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserAuthAcceptsValidToken(t *testing.T) {
	r := newRouter(UserAuth(testSecret, zap.NewNop()))
	token := signToken(t, jwt.MapClaims{
		"userId": "u1",
		"role":   "user",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	w := doRequest(r, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
}

func TestUserAuthRejects(t *testing.T) {
	r := newRouter(UserAuth(testSecret, zap.NewNop()))
	expired := signToken(t, jwt.MapClaims{"userId": "u1", "exp": time.Now().Add(-time.Hour).Unix()}, testSecret)
	foreign := signToken(t, jwt.MapClaims{"userId": "u1", "exp": time.Now().Add(time.Hour).Unix()}, "other")
	noUser := signToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, testSecret)

	cases := map[string]string{
		"missing":       "",
		"wrong scheme":  "Basic abc",
		"expired":       "Bearer " + expired,
		"wrong secret":  "Bearer " + foreign,
		"missing claim": "Bearer " + noUser,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, doRequest(r, header).Code)
		})
	}
}

func TestAdminAuthChecksRole(t *testing.T) {
	r := newRouter(AdminAuth(testSecret, zap.NewNop()))
	exp := time.Now().Add(time.Hour).Unix()

	user := signToken(t, jwt.MapClaims{"userId": "u1", "role": "user", "exp": exp}, testSecret)
	admin := signToken(t, jwt.MapClaims{"userId": "a1", "role": "admin", "exp": exp}, testSecret)

	assert.Equal(t, http.StatusForbidden, doRequest(r, "Bearer "+user).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+admin).Code)
}
