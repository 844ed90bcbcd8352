package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"constructo/internal/config"
	"constructo/internal/handlers"
	"constructo/internal/middleware"
	"constructo/internal/payment"
	"constructo/internal/store"
)

type routeDeps struct {
	cfg    config.Config
	logger *zap.Logger
	ping   func(ctx context.Context) error

	catalog      *store.CatalogStore
	carts        *store.CartStore
	orders       *store.OrderStore
	users        *store.UserStore
	reviews      *store.ReviewStore
	orchestrator handlers.OrderService

	// nil when Razorpay is not configured
	intents    *payment.IntentService
	reconciler *payment.Reconciler
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	userAuth := middleware.UserAuth(d.cfg.JWTSecret, d.logger)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/", handlers.Root())
	api.GET("/health", handlers.Health(d.ping))
	api.POST("/seed", handlers.SeedCatalog(d.catalog))

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register(d.users, d.cfg.JWTSecret, d.cfg.AccessTokenTTL))
		auth.POST("/login", handlers.Login(d.users, d.cfg.JWTSecret, d.cfg.AccessTokenTTL))
		auth.POST("/logout", handlers.Logout())
		auth.GET("/me", userAuth, handlers.GetMe(d.users))
	}

	api.GET("/categories", handlers.GetCategories(d.catalog))
	api.GET("/products", handlers.GetProducts(d.catalog))
	api.GET("/products/featured", handlers.GetFeaturedProducts(d.catalog))
	api.GET("/products/:id", handlers.GetProduct(d.catalog))
	api.GET("/products/:id/reviews", handlers.GetProductReviews(d.reviews))
	api.POST("/reviews", userAuth, handlers.CreateReview(d.reviews, d.catalog, d.users))

	cart := api.Group("/cart", userAuth)
	{
		cart.GET("", handlers.GetCart(d.carts, d.catalog))
		cart.POST("/add", handlers.AddToCart(d.carts, d.catalog))
		cart.PUT("/update", handlers.UpdateCart(d.carts))
		cart.DELETE("/remove/:product_id", handlers.RemoveFromCart(d.carts))
		cart.DELETE("/clear", handlers.ClearCart(d.carts))
	}

	orders := api.Group("/orders", userAuth)
	{
		orders.POST("", handlers.CreateOrder(d.orchestrator))
		orders.GET("", handlers.GetOrders(d.orders))
		orders.GET("/:id", handlers.GetOrder(d.orders))
		orders.POST("/:id/cancel", handlers.CancelOrder(d.orchestrator))
	}

	payments := api.Group("/payments")
	if d.intents != nil && d.reconciler != nil {
		payments.GET("/key", handlers.GetPaymentKey(d.intents))
		payments.POST("/webhook", handlers.PaymentWebhook(d.reconciler))
		payments.POST("/create-order", userAuth, handlers.CreatePaymentOrder(d.intents))
		payments.POST("/verify", userAuth, handlers.VerifyPayment(d.reconciler))
	} else {
		unavailable := handlers.PaymentsUnavailable()
		payments.GET("/key", unavailable)
		payments.POST("/webhook", unavailable)
		payments.POST("/create-order", unavailable)
		payments.POST("/verify", unavailable)
	}

	admin := api.Group("/admin", middleware.AdminAuth(d.cfg.JWTSecret, d.logger))
	admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(d.orchestrator))
}
