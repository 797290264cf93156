package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/telebot.v3"

	"github.com/asysc2020/relationship-manager-project/internal/app"
	"github.com/asysc2020/relationship-manager-project/internal/domain/notify"
	"github.com/asysc2020/relationship-manager-project/internal/infra/config"
	idb "github.com/asysc2020/relationship-manager-project/internal/infra/database"
	"github.com/asysc2020/relationship-manager-project/internal/infra/logger"
	"github.com/asysc2020/relationship-manager-project/internal/infra/metrics"
	infraNotify "github.com/asysc2020/relationship-manager-project/internal/infra/notify"
	"github.com/asysc2020/relationship-manager-project/internal/infra/scheduler"
	"github.com/asysc2020/relationship-manager-project/internal/infra/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLog := logger.Get().WithField("component", "main")
	mainLog.Infof("configuration loaded, environment: %s", cfg.Environment)

	// Database
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := idb.NewPostgresConnection(dbCtx, cfg.DatabaseURL)
	dbCancel()
	if err != nil {
		mainLog.Fatalf("could not connect to database: %v", err)
	}
	defer db.Close()
	mainLog.Info("database connection established")

	// Repositories
	userRepo := idb.NewPostgresUserRepository(db)
	relRepo := idb.NewPostgresRelationshipRepository(db)
	eventRepo := idb.NewPostgresEventRepository(db)
	recRepo := idb.NewPostgresRecommendationRepository(db)

	m := metrics.New()

	// Application services
	authService := app.NewAuthService(userRepo)
	contactService := app.NewContactService(relRepo, recRepo)
	scheduleService := app.NewScheduleService(relRepo, eventRepo, m, logger.Get().WithField("component", "schedule_service"))

	// Reminder delivery channel: Telegram when a token is configured, the
	// application log otherwise.
	var notifier notify.Notifier
	if cfg.TelegramToken != "" {
		bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
		if err != nil {
			mainLog.Fatalf("could not create telegram bot: %v", err)
		}
		notifier = infraNotify.NewTelebotNotifier(bot)
		mainLog.Info("telegram notifier configured")
	} else {
		notifier = infraNotify.NewLogNotifier(logger.Get().WithField("component", "reminder"))
		mainLog.Info("no telegram token set, reminders go to the log")
	}

	reminderService := app.NewReminderServiceImpl(eventRepo, notifier, m, logger.Get().WithField("component", "reminder_service"))

	reminderScheduler := scheduler.NewReminderScheduler(
		reminderService,
		logger.Get().WithField("component", "scheduler"),
		cfg.CronSpecDispatch,
	)
	reminderScheduler.Start()

	server := web.NewServer(cfg, web.Services{
		Auth:     authService,
		Contacts: contactService,
		Schedule: scheduleService,
	}, m, logger.Get().WithField("component", "http"))

	go func() {
		if err := server.Start(); err != nil {
			mainLog.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLog.Info("shutting down application")
	reminderScheduler.Stop()
	if err := server.Stop(); err != nil {
		mainLog.Errorf("HTTP shutdown error: %v", err)
	}
	mainLog.Info("application shut down gracefully")
}
