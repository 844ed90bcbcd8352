package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"constructo/internal/models"
	"constructo/internal/store"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func Register(users UserStore, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "password hashing failed")
			return
		}

		user := &models.User{
			ID:           uuid.NewString(),
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: string(hash),
			Name:         strings.TrimSpace(req.Name),
			Phone:        strings.TrimSpace(req.Phone),
			Role:         models.RoleUser,
			CreatedAt:    time.Now().UTC(),
		}
		if err := users.CreateUser(c.Request.Context(), user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondWithError(c, http.StatusBadRequest, route, "Email already registered")
				return
			}
			writeDomainError(c, route, err)
			return
		}

		token, err := issueUserToken(user, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		zap.L().Info("[AUTH] [INFO] user registered", zap.String("user_id", user.ID))
		c.JSON(http.StatusOK, authResponse{User: user, Token: token})
	}
}

func Login(users UserStore, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		user, err := users.FindUserByEmail(c.Request.Context(), email)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusUnauthorized, route, "Invalid credentials")
			return
		}
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "Invalid credentials")
			return
		}

		token, err := issueUserToken(user, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		zap.L().Info("[AUTH] [INFO] user login succeeded", zap.String("user_id", user.ID))
		c.JSON(http.StatusOK, authResponse{User: user, Token: token})
	}
}

// Logout exists for client symmetry. Tokens are stateless and simply expire.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

func GetMe(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/me"
		defer handlePanic(c, route)

		user, err := users.FindUserByID(c.Request.Context(), currentUserID(c))
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func issueUserToken(user *models.User, secret string, accessTTL time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": user.ID,
		"email":  user.Email,
		"role":   user.Role,
		"iat":    now.Unix(),
		"exp":    now.Add(accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
