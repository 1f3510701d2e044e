package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"task_reminder_bot/internal/app"
	"task_reminder_bot/internal/infra/config"
	idb "task_reminder_bot/internal/infra/database"
	"task_reminder_bot/internal/infra/logger"
	"task_reminder_bot/internal/infra/scheduler"
	"task_reminder_bot/internal/infra/telegram"

	"github.com/coreos/go-systemd/v22/daemon"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Storage: %s, Timezone: %s",
		cfg.LogLevel, cfg.Environment, cfg.StorageDriver, cfg.Location)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Task Store
	dsn := cfg.DatabaseURL
	if cfg.StorageDriver == config.StorageDriverSQLite {
		dsn = cfg.SQLitePath
	}
	taskStore, err := idb.OpenTaskStore(ctx, cfg.StorageDriver, dsn, cfg.Location)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not open task store: %v", err)
	}
	defer taskStore.Close()
	mainLogger.Info("Task store initialized.")

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:   cfg.TelegramToken,
		Poller:  &telebot.LongPoller{Timeout: cfg.TelegramPollTimeout},
		Client:  &http.Client{Timeout: cfg.TelegramPollTimeout + cfg.TelegramSendTimeout},
		OnError: telegram.ErrorHandler(logger.Component("telebot")),
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	telegramClient := telegram.NewTelebotAdapter(bot, cfg.TelegramRatePerSec)

	// Initialize Services
	parser := app.NewMessageParser(cfg.Location)
	intakeService := app.NewIntakeService(parser, taskStore, telegramClient, logger.Component("intake"))
	deliveryService := app.NewDeliveryService(taskStore, telegramClient, logger.Component("delivery"))

	// Initialize DeliveryScheduler
	deliveryScheduler := scheduler.NewDeliveryScheduler(
		deliveryService,
		logger.Component("scheduler"),
		cfg.Location,
		cfg.CronSpecDelivery,
		cfg.DeliveryTickTimeout,
	)
	if err := deliveryScheduler.Start(); err != nil {
		mainLogger.Fatalf("FATAL: Could not start delivery scheduler: %v", err)
	}

	// Register Handlers
	telegram.RegisterIntakeHandlers(ctx, bot, intakeService, logger.Component("telegram"))
	mainLogger.Info("Intake handlers registered.")
	if err := telegram.PublishBotCommands(bot, logger.Component("telegram")); err != nil {
		mainLogger.WithError(err).Warn("Bot command menu was not updated")
	}

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		mainLogger.WithError(err).Warn("Could not notify systemd")
	}
	mainLogger.Info("Application setup complete. Bot and Scheduler are running.")

	<-ctx.Done() // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	bot.Stop()
	deliveryScheduler.Stop()
	// taskStore.Close() is handled by defer
	mainLogger.Info("Application shut down gracefully.")
}
