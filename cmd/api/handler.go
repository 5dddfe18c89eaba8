package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	authDelivery "tasktracker-backend/internal/auth/delivery"
	authUsecasePkg "tasktracker-backend/internal/auth/usecase"
	"tasktracker-backend/internal/broadcast"
	"tasktracker-backend/internal/dispatch"
	reminderDelivery "tasktracker-backend/internal/reminder/delivery"
	reminderUsecasePkg "tasktracker-backend/internal/reminder/usecase"
	taskDelivery "tasktracker-backend/internal/task/delivery"
	taskUsecasePkg "tasktracker-backend/internal/task/usecase"
	"tasktracker-backend/pkg/config"
	"tasktracker-backend/pkg/telegram"
)

type Handler struct {
	authUsecase     authUsecasePkg.AuthUsecase
	config          *config.Config
	log             zerolog.Logger
	authHandler     *authDelivery.AuthHandler
	taskHandler     *taskDelivery.TaskHandler
	reminderHandler *reminderDelivery.ReminderHandler
	dispatchHandler *DispatchHandler
	adminHandler    *AdminHandler
	webhookHandler  *WebhookHandler
}

func NewHandler(
	authUc authUsecasePkg.AuthUsecase,
	taskUc taskUsecasePkg.TaskUsecase,
	reminderUc reminderUsecasePkg.ReminderUsecase,
	coordinator *dispatch.Coordinator,
	broadcaster *broadcast.Service,
	telegramClient *telegram.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		authUsecase:     authUc,
		config:          cfg,
		log:             log,
		authHandler:     authDelivery.NewAuthHandler(authUc),
		taskHandler:     taskDelivery.NewTaskHandler(taskUc),
		reminderHandler: reminderDelivery.NewReminderHandler(reminderUc),
		dispatchHandler: NewDispatchHandler(coordinator),
		adminHandler:    NewAdminHandler(broadcaster),
		webhookHandler:  NewWebhookHandler(telegramClient, log),
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Admin-Token, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)

	return r.Run(addr)
}
