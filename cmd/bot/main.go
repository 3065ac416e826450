package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"routine_bot/internal/app"
	"routine_bot/internal/domain/activity"
	"routine_bot/internal/domain/reminder"
	"routine_bot/internal/infra/config"
	idb "routine_bot/internal/infra/database"
	"routine_bot/internal/infra/logger"
	"routine_bot/internal/infra/scheduler"
	"routine_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get().WithField("component", "main")
	log.Infof("Configuration loaded. Timezone: %s, Environment: %s", cfg.Timezone, cfg.Environment)

	// Database and repositories
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	activityRepo := idb.NewPostgresActivityRepository(db, cfg.Timezone)
	userRepo := idb.NewPostgresUserRepository(db)

	// Telegram bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Get().WithField("component", "telebot").WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("Bot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	telegramClient := telegram.NewTelebotAdapter(bot)

	// Application services
	template := activity.DefaultTemplate()
	planner, err := app.NewPlannerService(template, activityRepo, cfg.Timezone,
		logger.Get().WithField("component", "planner"))
	if err != nil {
		log.Fatalf("FATAL: Could not build planner service: %v", err)
	}
	reports := app.NewReportService(template, activityRepo, cfg.Timezone,
		logger.Get().WithField("component", "reports"))
	reminders := app.NewReminderService(telegramClient, reports,
		logger.Get().WithField("component", "reminders"))

	// Reminder scheduler, reconciled from the current user registry
	remindScheduler := scheduler.NewReminderScheduler(
		reminder.DefaultPlan(template),
		reminders,
		cfg.Timezone,
		logger.Get().WithField("component", "scheduler"),
	)
	remindScheduler.Start()

	ctx := context.Background()
	enabledUsers, err := userRepo.ListEnabled(ctx)
	if err != nil {
		log.Fatalf("FATAL: Could not load users for initial reconciliation: %v", err)
	}
	if err := remindScheduler.Reconcile(enabledUsers); err != nil {
		log.Fatalf("FATAL: Could not schedule reminder jobs: %v", err)
	}

	// Handlers
	handlerLogger := logger.Get().WithField("component", "handlers")
	telegram.RegisterBotCommands(ctx, bot, planner, reports, userRepo, remindScheduler, cfg.Timezone, handlerLogger)
	telegram.RegisterCompletionHandlers(ctx, bot, planner)
	log.Info("Command handlers registered. Bot is starting...")

	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	bot.Stop()
	remindScheduler.Stop()
	log.Info("Application shut down gracefully")
}
