package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"constructo/internal/checkout"
	"constructo/internal/middleware"
	"constructo/internal/models"
	"constructo/internal/payment"
	"constructo/internal/store"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		zap.L().Error("panic recovered", zap.String("route", route), zap.Any("panic", r))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	fields := []zap.Field{zap.String("route", route), zap.Int("status", status), zap.String("error", message)}
	if status >= http.StatusInternalServerError {
		zap.L().Error("returning error", fields...)
	} else {
		zap.L().Info("returning error", fields...)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func respondValidationError(c *gin.Context, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := snakeCase(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		zap.L().Info("validation failed", zap.String("route", route), zap.Strings("details", details))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	respondWithError(c, http.StatusBadRequest, route, "invalid request body")
}

func snakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

// writeDomainError maps service errors to HTTP responses. Anything it does not
// recognise is a 500.
func writeDomainError(c *gin.Context, route string, err error) {
	var (
		intentErr    *payment.PaymentIntentError
		linkageErr   *payment.OrderLinkageError
		malformedErr *store.MalformedRecordError
	)

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondWithError(c, http.StatusBadRequest, route, "Cart is empty")
	case errors.Is(err, checkout.ErrInvalidPaymentMethod):
		respondWithError(c, http.StatusBadRequest, route, err.Error())
	case errors.Is(err, checkout.ErrConcurrentModification),
		errors.Is(err, checkout.ErrRequestInProgress),
		errors.Is(err, payment.ErrPaymentConflict),
		errors.Is(err, payment.ErrPaymentOrderMismatch),
		errors.Is(err, store.ErrVersionConflict),
		errors.Is(err, models.ErrInvalidTransition):
		respondWithError(c, http.StatusConflict, route, err.Error())
	case errors.As(err, &intentErr):
		respondWithError(c, http.StatusBadGateway, route, intentErr.Error())
	case errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrInvalidSignature),
		errors.Is(err, payment.ErrMalformedWebhook):
		respondWithError(c, http.StatusBadRequest, route, err.Error())
	case errors.Is(err, payment.ErrPaymentOwnership):
		respondWithError(c, http.StatusForbidden, route, err.Error())
	case errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, payment.ErrOrderNotFound),
		errors.Is(err, store.ErrNotFound):
		respondWithError(c, http.StatusNotFound, route, notFoundMessage(err))
	case errors.As(err, &linkageErr):
		zap.L().Error("payment recorded without order confirmation",
			zap.String("route", route), zap.Error(linkageErr))
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":          "payment recorded but order could not be confirmed",
			"reconciliation": linkageErr.Error(),
		})
	case errors.As(err, &malformedErr):
		zap.L().Error("malformed record", zap.String("route", route), zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, route, "stored data is corrupted")
	default:
		zap.L().Error("unhandled error", zap.String("route", route), zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
	}
}

func notFoundMessage(err error) string {
	if errors.Is(err, store.ErrNotFound) {
		return "not found"
	}
	return err.Error()
}
