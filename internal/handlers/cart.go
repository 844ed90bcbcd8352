package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"constructo/internal/models"
	"constructo/internal/store"
)

type CartStore interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	Reset(ctx context.Context, userID string) error
}

type cartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"min=0"`
}

type cartLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   *models.Product `json:"product"`
}

type cartView struct {
	Items []cartLine `json:"items"`
	Total float64    `json:"total"`
}

// GetCart returns the cart hydrated with live product data. Lines whose
// product has disappeared are left out, as checkout would skip them too.
func GetCart(carts CartStore, catalog CatalogReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		ctx := c.Request.Context()
		view := cartView{Items: make([]cartLine, 0)}

		cart, err := carts.GetCart(ctx, currentUserID(c))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, view)
			return
		}
		if err != nil {
			writeDomainError(c, route, err)
			return
		}

		total := decimal.Zero
		for _, item := range cart.Items {
			product, err := catalog.GetProduct(ctx, item.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				writeDomainError(c, route, err)
				return
			}
			decorateProduct(product)
			view.Items = append(view.Items, cartLine{ProductID: item.ProductID, Quantity: item.Quantity, Product: product})
			total = total.Add(decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		view.Total = total.Round(2).InexactFloat64()
		c.JSON(http.StatusOK, view)
	}
}

func AddToCart(carts CartStore, catalog CatalogReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/add"
		defer handlePanic(c, route)

		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		if req.Quantity < 1 {
			respondWithError(c, http.StatusBadRequest, route, "quantity must be at least 1")
			return
		}

		if _, err := catalog.GetProduct(c.Request.Context(), req.ProductID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(c, http.StatusNotFound, route, "Product not found")
				return
			}
			writeDomainError(c, route, err)
			return
		}

		if err := carts.AddItem(c.Request.Context(), currentUserID(c), req.ProductID, req.Quantity); err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
	}
}

// UpdateCart sets a line's quantity. Zero removes the line.
func UpdateCart(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/update"
		defer handlePanic(c, route)

		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		if err := carts.SetQuantity(c.Request.Context(), currentUserID(c), req.ProductID, req.Quantity); err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
	}
}

func RemoveFromCart(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/remove/:product_id"
		defer handlePanic(c, route)

		if err := carts.RemoveItem(c.Request.Context(), currentUserID(c), c.Param("product_id")); err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

func ClearCart(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/clear"
		defer handlePanic(c, route)

		if err := carts.Reset(c.Request.Context(), currentUserID(c)); err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
