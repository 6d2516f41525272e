package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"homeservice.backend/internal/interfaces/http/handlers"
	"homeservice.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	catalogHandler *handlers.CatalogHandler
	addressHandler *handlers.AddressHandler
	orderHandler   *handlers.OrderHandler
	adminHandler   *handlers.AdminHandler
	authMiddleware gin.HandlerFunc
	sendCodeLimit  gin.HandlerFunc
	idempotency    gin.HandlerFunc
	metrics        http.Handler
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	if d.metrics != nil {
		r.GET("/metrics", gin.WrapH(d.metrics))
	}

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/send-code", d.sendCodeLimit, d.authHandler.SendCode)
			auth.GET("/check-phone", d.authHandler.CheckPhone)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/password-reset", d.authHandler.ResetPassword)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/logout", d.authMiddleware, d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
		}

		// Catalog routes (public)
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/categories", d.catalogHandler.ListCategories)
			catalog.GET("/services", d.catalogHandler.ListServices)
			catalog.GET("/services/:id", d.catalogHandler.GetService)
		}

		// Address book routes (protected)
		addresses := v1.Group("/addresses")
		addresses.Use(d.authMiddleware)
		{
			addresses.GET("", d.addressHandler.ListAddresses)
			addresses.POST("", d.addressHandler.AddAddress)
			addresses.PUT("/:id/default", d.addressHandler.SetDefault)
			addresses.DELETE("/:id", d.addressHandler.RemoveAddress)
		}

		// Order routes (protected)
		orders := v1.Group("/orders")
		orders.Use(d.authMiddleware)
		{
			orders.POST("", d.idempotency, d.orderHandler.CreateOrder)
			orders.GET("", d.orderHandler.ListOrders)
			orders.GET("/:id", d.orderHandler.GetOrder)
			orders.POST("/:id/payments", d.idempotency, d.orderHandler.ConfirmPayment)
			orders.GET("/:id/payments", d.orderHandler.ListPayments)
			orders.POST("/:id/complete", d.orderHandler.Complete)
			orders.POST("/:id/cancel", d.orderHandler.Cancel)
			orders.POST("/:id/after-sales", d.orderHandler.OpenAfterSales)
			orders.POST("/:id/reviews", d.orderHandler.SubmitReview)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.PUT("/after-sales/:id", d.adminHandler.ResolveAfterSales)
			admin.PUT("/reviews/:id", d.adminHandler.ModerateReview)
			admin.PUT("/users/:id/status", d.adminHandler.SetUserStatus)
			admin.DELETE("/users/:id", d.adminHandler.DeleteUser)
		}
	}
}
