package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"constructo/internal/middleware"
	"constructo/internal/models"
	"constructo/internal/store"
)

const testJWTSecret = "test-secret"

type memUsers struct {
	byEmail map[string]*models.User
}

func newMemUsers() *memUsers { return &memUsers{byEmail: map[string]*models.User{}} }

func (m *memUsers) CreateUser(_ context.Context, u *models.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return store.ErrDuplicate
	}
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) FindUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func authRouter(users UserStore) *gin.Engine {
	r := newTestRouter("")
	r.POST("/api/auth/register", Register(users, testJWTSecret, time.Hour))
	r.POST("/api/auth/login", Login(users, testJWTSecret, time.Hour))
	r.GET("/api/auth/me", middleware.UserAuth(testJWTSecret, zap.NewNop()), GetMe(users))
	return r
}

func TestRegisterLoginAndMe(t *testing.T) {
	users := newMemUsers()
	r := authRouter(users)

	w := doJSON(r, http.MethodPost, "/api/auth/register", map[string]string{
		"email": " Ada@Example.com ", "password": "secret1", "name": "Ada",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(testJWTSecret), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, users.byEmail["ada@example.com"].ID, claims["userId"])
	assert.Equal(t, models.RoleUser, claims["role"])

	w = doJSON(r, http.MethodGet, "/api/auth/me", nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@example.com", decodeBody(t, w)["email"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := authRouter(newMemUsers())
	req := map[string]string{"email": "bob@example.com", "password": "secret1", "name": "Bob"}

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/api/auth/register", req, nil).Code)
	w := doJSON(r, http.MethodPost, "/api/auth/register", req, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", decodeBody(t, w)["error"])
}

func TestRegisterValidation(t *testing.T) {
	r := authRouter(newMemUsers())

	w := doJSON(r, http.MethodPost, "/api/auth/register", map[string]string{"email": "not-an-email", "password": "123", "name": "X"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := authRouter(newMemUsers())
	doJSON(r, http.MethodPost, "/api/auth/register", map[string]string{"email": "eve@example.com", "password": "secret1", "name": "Eve"}, nil)

	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{"email": "eve@example.com", "password": "wrong"}, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodPost, "/api/auth/login", map[string]string{"email": "nobody@example.com", "password": "secret1"}, nil).Code)
}

func TestHealth(t *testing.T) {
	r := newTestRouter("")
	r.GET("/ok", Health(func(context.Context) error { return nil }))
	r.GET("/down", Health(func(context.Context) error { return errors.New("no route to host") }))

	w := doJSON(r, http.MethodGet, "/ok", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])

	w = doJSON(r, http.MethodGet, "/down", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", decodeBody(t, w)["status"])
}
