package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker-backend/internal/auth/delivery"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.authHandler.Register)
			auth.POST("/login", h.authHandler.Login)
			auth.GET("/me", delivery.AuthMiddleware(h.authUsecase), h.authHandler.Me)
		}

		// Notification settings (protected)
		settings := api.Group("/settings")
		settings.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			settings.GET("", h.authHandler.GetSettings)
			settings.PUT("", h.authHandler.UpdateSettings)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			tasks.GET("", h.taskHandler.GetTasks)
			tasks.POST("", h.taskHandler.CreateTask)
			tasks.GET("/:id", h.taskHandler.GetTaskByID)
			tasks.PUT("/:id", h.taskHandler.UpdateTask)
			tasks.DELETE("/:id", h.taskHandler.DeleteTask)
			tasks.GET("/:id/reminders", h.reminderHandler.GetTaskReminders)
		}

		// Reminder routes (protected)
		reminders := api.Group("/reminders")
		reminders.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			reminders.GET("", h.reminderHandler.GetReminders)
			reminders.POST("", h.reminderHandler.CreateReminder)
			reminders.PUT("/:id", h.reminderHandler.UpdateReminder)
			reminders.DELETE("/:id", h.reminderHandler.DeleteReminder)
		}

		// Operator routes, gated by a shared admin token
		admin := api.Group("/admin")
		admin.Use(delivery.AdminMiddleware(h.config.AdminToken))
		{
			admin.POST("/broadcast", h.adminHandler.Broadcast)
			admin.POST("/message", h.adminHandler.Message)
		}

		// Manual dispatch trigger, same gate as the operator routes
		internal := api.Group("/internal")
		internal.Use(delivery.AdminMiddleware(h.config.AdminToken))
		{
			internal.POST("/dispatch", h.dispatchHandler.Run)
		}

		// Telegram webhook (Telegram cannot send an auth header)
		api.POST("/telegram/webhook", h.webhookHandler.Handle)
	}
}
