package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"constructo/internal/models"
)

const (
	defaultProductLimit = 50
	featuredLimit       = 8
)

// ProductQuery filters the catalog listing. Zero values mean "no filter".
type ProductQuery struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
	Limit    int64
}

// sortFields maps public sort keys to document fields and direction.
var sortFields = map[string]bson.E{
	"price":      {Key: "price", Value: 1},
	"name":       {Key: "name", Value: 1},
	"rating":     {Key: "rating", Value: -1},
	"created_at": {Key: "createdAt", Value: -1},
}

type CatalogStore struct {
	db *mongo.Database
}

func NewCatalogStore(db *mongo.Database) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var product models.Product
	res := s.db.Collection(productsCollection).FindOne(ctx, bson.M{"id": id})
	if err := decodeSingle(productsCollection, res, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *CatalogStore) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Search != "" {
		pattern := bson.M{"$regex": q.Search, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"brand": pattern},
		}
	}
	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	sort, ok := sortFields[q.SortBy]
	if !ok {
		sort = sortFields["created_at"]
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultProductLimit
	}

	return s.findProducts(ctx, filter, options.Find().SetSort(bson.D{sort}).SetLimit(limit))
}

func (s *CatalogStore) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}}).SetLimit(featuredLimit)
	return s.findProducts(ctx, bson.M{}, opts)
}

func (s *CatalogStore) findProducts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := s.db.Collection(productsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	products := make([]models.Product, 0)
	err = decodeAll(ctx, productsCollection, cursor, func(raw bson.Raw) error {
		var p models.Product
		if err := decodeRaw(productsCollection, raw, &p); err != nil {
			return err
		}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := s.db.Collection(categoriesCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, &MalformedRecordError{Collection: categoriesCollection, Err: err}
	}
	return categories, nil
}

// Seed inserts categories and products unless the catalog already has
// products. It reports whether anything was written.
func (s *CatalogStore) Seed(ctx context.Context, categories []models.Category, products []models.Product) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	count, err := s.db.Collection(productsCollection).CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	cats := make([]interface{}, 0, len(categories))
	for _, c := range categories {
		cats = append(cats, c)
	}
	if _, err := s.db.Collection(categoriesCollection).InsertMany(ctx, cats); err != nil {
		return false, fmt.Errorf("insert categories: %w", err)
	}

	prods := make([]interface{}, 0, len(products))
	for _, p := range products {
		prods = append(prods, p)
	}
	if _, err := s.db.Collection(productsCollection).InsertMany(ctx, prods); err != nil {
		return false, fmt.Errorf("insert products: %w", err)
	}
	return true, nil
}
