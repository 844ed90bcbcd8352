package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"constructo/internal/logging"
	"constructo/internal/metrics"
	"constructo/internal/models"
	"constructo/internal/store"
)

// ProductResolver looks products up by id and returns store.ErrNotFound for
// unknown ids.
type ProductResolver interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// ShippingPolicy charges FlatFee below FreeThreshold. A subtotal equal to the
// threshold ships free.
type ShippingPolicy struct {
	FreeThreshold float64
	FlatFee       float64
}

func (p ShippingPolicy) Fee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThan(decimal.NewFromFloat(p.FreeThreshold)) {
		return decimal.NewFromFloat(p.FlatFee)
	}
	return decimal.Zero
}

// Draft is a priced order that has not been persisted.
type Draft struct {
	Items       []models.OrderItem
	Subtotal    float64
	ShippingFee float64
	Total       float64
	// Skipped lists cart product ids that no longer resolve.
	Skipped []string
}

type Builder struct {
	catalog  ProductResolver
	shipping ShippingPolicy
	logger   *zap.Logger
}

func NewBuilder(catalog ProductResolver, shipping ShippingPolicy, logger *zap.Logger) *Builder {
	return &Builder{catalog: catalog, shipping: shipping, logger: logging.OrNop(logger)}
}

// Build prices cart items at current catalog prices. Products that no longer
// exist are dropped; any other lookup failure aborts the build.
func (b *Builder) Build(ctx context.Context, items []models.CartItem) (*Draft, error) {
	draft := &Draft{Items: make([]models.OrderItem, 0, len(items))}
	subtotal := decimal.Zero

	for _, item := range items {
		product, err := b.catalog.GetProduct(ctx, item.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			b.logger.Warn("[CHECKOUT] [WARN] skipping unknown product",
				zap.String("product_id", item.ProductID),
			)
			metrics.CheckoutSkippedItemsTotal.Inc()
			draft.Skipped = append(draft.Skipped, item.ProductID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve product %s: %w", item.ProductID, err)
		}

		line := decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
		draft.Items = append(draft.Items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    item.Quantity,
		})
	}

	if len(draft.Items) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal = subtotal.Round(2)
	fee := b.shipping.Fee(subtotal).Round(2)
	draft.Subtotal = subtotal.InexactFloat64()
	draft.ShippingFee = fee.InexactFloat64()
	draft.Total = subtotal.Add(fee).InexactFloat64()
	return draft, nil
}
