package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"shelf-market.backend/internal/interfaces/http/handlers"
	"shelf-market.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	companyHandler      *handlers.CompanyHandler
	orderHandler        *handlers.OrderHandler
	transferFormHandler *handlers.TransferFormHandler
	notificationHandler *handlers.NotificationHandler
	authMiddleware      gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/login", d.authHandler.Login)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		// Company catalog (public read, admin write)
		companies := v1.Group("/companies")
		{
			companies.GET("", d.companyHandler.ListCompanies)
			companies.GET("/:id", d.companyHandler.GetCompany)
			companies.POST("", d.authMiddleware, middleware.RequireAdmin(), d.companyHandler.CreateCompany)
		}

		// Orders. Customers create and track orders by orderId without an
		// account; status changes and refund resolution are admin actions.
		orders := v1.Group("/orders")
		{
			orders.POST("", middleware.IdempotencyMiddleware(), d.orderHandler.CreateOrder)
			orders.GET("/:id", d.orderHandler.GetOrder)
			orders.PATCH("/:id", d.orderHandler.UpdateOrder)
			orders.POST("/:id/refund", d.orderHandler.RequestRefund)

			orders.GET("", d.authMiddleware, middleware.RequireAdmin(), d.orderHandler.ListOrders)
			orders.PATCH("/:id/status", d.authMiddleware, middleware.RequireAdmin(), d.orderHandler.UpdateOrderStatus)
			orders.POST("/:id/refund/resolve", d.authMiddleware, middleware.RequireAdmin(), d.orderHandler.ResolveRefund)
		}

		// Transfer forms. Same split: submission and editing are customer
		// facing, the review workflow is admin only.
		forms := v1.Group("/transfer-forms")
		{
			forms.POST("", d.transferFormHandler.CreateForm)
			forms.GET("/:id", d.transferFormHandler.GetForm)
			forms.PATCH("/:id", d.transferFormHandler.UpdateForm)
			forms.POST("/:id/comments", d.transferFormHandler.AddComment)
			forms.POST("/:id/attachments", d.transferFormHandler.AddAttachment)
			forms.DELETE("/:id/attachments/:attachmentId", d.transferFormHandler.DeleteAttachment)

			forms.GET("", d.authMiddleware, middleware.RequireAdmin(), d.transferFormHandler.ListForms)
			forms.PATCH("/:id/status", d.authMiddleware, middleware.RequireAdmin(), d.transferFormHandler.UpdateFormStatus)
		}

		// Notification delivery audit (admin only)
		notifications := v1.Group("/notifications")
		notifications.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			notifications.GET("", d.notificationHandler.ListDeliveries)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, Idempotency-Key")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "shelf-market-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
