package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"constructo/internal/checkout"
	"constructo/internal/models"
)

const (
	defaultOrderLimit = 100
	maxOrderLimit     = 100

	idempotencyHeader = "Idempotency-Key"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, in checkout.CreateOrderInput) (*models.Order, error)
	CancelOrder(ctx context.Context, userID, orderID string) (*models.Order, error)
	AdvanceStatus(ctx context.Context, orderID string, next models.OrderStatus) (*models.Order, error)
}

type OrderReader interface {
	FindOrder(ctx context.Context, id, userID string) (*models.Order, error)
	ListOrders(ctx context.Context, userID string, limit int64) ([]models.Order, error)
}

type createOrderRequest struct {
	ShippingAddress *models.ShippingAddress `json:"shipping_address" binding:"required"`
	PaymentMethod   string                  `json:"payment_method" binding:"omitempty,oneof=cod razorpay"`
}

type updateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func CreateOrder(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		order, err := orders.CreateOrder(c.Request.Context(), currentUserID(c), checkout.CreateOrderInput{
			ShippingAddress: *req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			IdempotencyKey:  strings.TrimSpace(c.GetHeader(idempotencyHeader)),
		})
		if err != nil {
			writeDomainError(c, route, err)
			return
		}

		zap.L().Info("[ORDER] [INFO] order placed",
			zap.String("order_id", order.ID),
			zap.String("user_id", order.UserID),
		)
		c.JSON(http.StatusCreated, order)
	}
}

func GetOrders(orders OrderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		limit, err := parseLimit(c.Query("limit"), defaultOrderLimit, maxOrderLimit)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		list, err := orders.ListOrders(c.Request.Context(), currentUserID(c), limit)
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetOrder(orders OrderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		order, err := orders.FindOrder(c.Request.Context(), c.Param("id"), currentUserID(c))
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func CancelOrder(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/:id/cancel"
		defer handlePanic(c, route)

		order, err := orders.CancelOrder(c.Request.Context(), currentUserID(c), c.Param("id"))
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func UpdateOrderStatus(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/orders/:id/status"
		defer handlePanic(c, route)

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		order, err := orders.AdvanceStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			writeDomainError(c, route, err)
			return
		}

		zap.L().Info("[ORDER] [INFO] status changed",
			zap.String("order_id", order.ID),
			zap.String("status", string(order.Status)),
			zap.String("admin_id", currentUserID(c)),
		)
		c.JSON(http.StatusOK, order)
	}
}
