package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/shared/middleware"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCatalogRoutes(v1, c)
		setupCartRoutes(v1, c)
		setupCouponRoutes(v1, c)
		setupOrderRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// CATALOG ROUTES (public)
// ========================================
func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	products := v1.Group("/products")
	{
		products.GET("", c.CatalogPublicHandler.ListProducts)
		products.GET("/:id", c.CatalogPublicHandler.GetProduct)
	}

	v1.GET("/categories", c.CatalogPublicHandler.ListCategories)
}

// ========================================
// CART ROUTES
// ========================================
// Reading the cart works without a token and returns an empty cart;
// every mutation requires an identity.
func setupCartRoutes(v1 *gin.RouterGroup, c *container.Container) {
	cart := v1.Group("/cart")
	{
		cart.GET("", middleware.OptionalAuthMiddleware(c.JWTManager), c.CartHandler.GetCart)

		authed := cart.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.POST("/items", c.CartHandler.AddItem)
			authed.PATCH("/items/:productId", c.CartHandler.UpdateItem)
			authed.DELETE("/items/:productId", c.CartHandler.RemoveItem)
			authed.DELETE("", c.CartHandler.ClearCart)

			authed.POST("/coupon", c.CouponHandler.ApplyCoupon)
			authed.DELETE("/coupon", c.CouponHandler.RemoveCoupon)
		}
	}
}

// ========================================
// COUPON ROUTES (public listing)
// ========================================
func setupCouponRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/coupons", c.CouponHandler.ListCoupons)
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/checkout", middleware.AuthMiddleware(c.JWTManager), c.OrderHandler.Checkout)

	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		orders.GET("", c.OrderHandler.ListMyOrders)
		orders.GET("/:id", c.OrderHandler.GetMyOrder)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		products := admin.Group("/products")
		{
			products.GET("", c.CatalogAdminHandler.ListAllProducts)
			products.POST("", c.CatalogAdminHandler.CreateProduct)
			products.PATCH("/:id", c.CatalogAdminHandler.UpdateProduct)
			products.DELETE("/:id", c.CatalogAdminHandler.DeleteProduct)
			products.POST("/:id/images", c.CatalogAdminHandler.UploadImage)
			products.POST("/import", c.CatalogAdminHandler.ImportProducts)
			products.GET("/export", c.CatalogAdminHandler.ExportProducts)
		}

		categories := admin.Group("/categories")
		{
			categories.POST("", c.CatalogAdminHandler.CreateCategory)
			categories.DELETE("/:id", c.CatalogAdminHandler.DeleteCategory)
		}

		coupons := admin.Group("/coupons")
		{
			coupons.GET("", c.CouponAdminHandler.ListCoupons)
			coupons.POST("", c.CouponAdminHandler.CreateCoupon)
			coupons.PATCH("/:id", c.CouponAdminHandler.UpdateCoupon)
			coupons.DELETE("/:id", c.CouponAdminHandler.DeleteCoupon)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", c.OrderAdminHandler.ListOrders)
			orders.GET("/:id", c.OrderAdminHandler.GetOrder)
			orders.PATCH("/:id/status", c.OrderAdminHandler.UpdateStatus)
			orders.PATCH("/:id/message", c.OrderAdminHandler.UpdateMessage)
		}
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := gin.H{
			"service": c.Config.App.Name,
			"version": c.Config.App.Version,
			"status":  "ok",
		}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			ctx.JSON(http.StatusServiceUnavailable, status)
			return
		}
		if err := c.Redis.HealthCheck(ctx.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["redis"] = err.Error()
			ctx.JSON(http.StatusServiceUnavailable, status)
			return
		}

		response.Success(ctx, http.StatusOK, status)
	}
}
