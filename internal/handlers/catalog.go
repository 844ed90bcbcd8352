package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"constructo/internal/models"
	"constructo/internal/store"
)

const (
	defaultProductLimit = 50
	maxProductLimit     = 200
)

type CatalogReader interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, q store.ProductQuery) ([]models.Product, error)
	FeaturedProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type CatalogSeeder interface {
	Seed(ctx context.Context, categories []models.Category, products []models.Product) (bool, error)
}

/*
GET /products
category, search, min_price, max_price, sort_by and limit are all optional.
*/
func GetProducts(catalog CatalogReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		minPrice, err := parseOptionalFloat(c.Query("min_price"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid min_price")
			return
		}
		maxPrice, err := parseOptionalFloat(c.Query("max_price"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid max_price")
			return
		}
		limit, err := parseLimit(c.Query("limit"), defaultProductLimit, maxProductLimit)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		products, err := catalog.ListProducts(c.Request.Context(), store.ProductQuery{
			Category: strings.TrimSpace(c.Query("category")),
			Search:   strings.TrimSpace(c.Query("search")),
			MinPrice: minPrice,
			MaxPrice: maxPrice,
			SortBy:   c.Query("sort_by"),
			Limit:    limit,
		})
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, decorateProducts(products))
	}
}

func GetFeaturedProducts(catalog CatalogReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/featured"
		defer handlePanic(c, route)

		products, err := catalog.FeaturedProducts(c.Request.Context())
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, decorateProducts(products))
	}
}

func GetProduct(catalog CatalogReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		product, err := catalog.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		decorateProduct(product)
		c.JSON(http.StatusOK, product)
	}
}

func GetCategories(catalog CatalogReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		categories, err := catalog.ListCategories(c.Request.Context())
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// SeedCatalog loads the starter catalogue into an empty database.
func SeedCatalog(seeder CatalogSeeder) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /seed"
		defer handlePanic(c, route)

		categories := store.DefaultCategories()
		products := store.DefaultProducts(time.Now().UTC())

		seeded, err := seeder.Seed(c.Request.Context(), categories, products)
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		if !seeded {
			c.JSON(http.StatusOK, gin.H{"message": "Database already seeded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "Database seeded successfully",
			"categories": len(categories),
			"products":   len(products),
		})
	}
}
