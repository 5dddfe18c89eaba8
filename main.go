package main

import (
	api "tasktracker-backend/cmd/api"
	authdomain "tasktracker-backend/internal/auth/domain"
	authRepo "tasktracker-backend/internal/auth/repository"
	authUsecase "tasktracker-backend/internal/auth/usecase"
	"tasktracker-backend/internal/broadcast"
	"tasktracker-backend/internal/dispatch"
	reminderdomain "tasktracker-backend/internal/reminder/domain"
	reminderRepo "tasktracker-backend/internal/reminder/repository"
	reminderUsecase "tasktracker-backend/internal/reminder/usecase"
	taskdomain "tasktracker-backend/internal/task/domain"
	taskRepo "tasktracker-backend/internal/task/repository"
	taskUsecase "tasktracker-backend/internal/task/usecase"
	"tasktracker-backend/pkg/config"
	"tasktracker-backend/pkg/database"
	"tasktracker-backend/pkg/logger"
	"tasktracker-backend/pkg/mailer"
	"tasktracker-backend/pkg/telegram"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &taskdomain.Task{}, &reminderdomain.Reminder{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	reminderRepository := reminderRepo.NewGormReminderRepository(db)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, cfg)
	taskUsecaseInstance := taskUsecase.NewTaskUsecase(taskRepository, reminderRepository)
	reminderUsecaseInstance := reminderUsecase.NewReminderUsecase(reminderRepository, taskRepository)

	// Outbound notification clients. Either may be unconfigured; the
	// matching channel then skips its sends.
	telegramClient := telegram.NewClient(cfg.TelegramBotToken)
	if !telegramClient.Configured() {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set, telegram delivery disabled")
	}
	mailerClient := mailer.NewClient(cfg.ResendAPIKey, cfg.FromEmail)
	if !mailerClient.Configured() {
		log.Warn().Msg("RESEND_API_KEY not set, email delivery disabled")
	}

	// Dispatch engine
	channels := []dispatch.Channel{
		dispatch.NewTelegramChannel(telegramClient),
		dispatch.NewEmailChannel(mailerClient),
	}
	coordinator := dispatch.NewCoordinator(reminderRepository, channels, cfg.SendTimeout, log)

	trigger, err := dispatch.NewCronTrigger(coordinator, cfg.DispatchCron, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up dispatch trigger")
	}
	trigger.Start()
	defer trigger.Stop()

	// Operator broadcasts
	broadcaster := broadcast.NewService(userRepository, telegramClient, log)

	// Initialize HTTP handler
	handler := api.NewHandler(
		authUsecaseInstance,
		taskUsecaseInstance,
		reminderUsecaseInstance,
		coordinator,
		broadcaster,
		telegramClient,
		cfg,
		log,
	)

	// Start server
	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
