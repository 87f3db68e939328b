package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"permission_slip_reminder/internal/app"
	idb "permission_slip_reminder/internal/infra/database"
	"permission_slip_reminder/internal/infra/config"
	"permission_slip_reminder/internal/infra/email"
	"permission_slip_reminder/internal/infra/httpapi"
	"permission_slip_reminder/internal/infra/logger"
	"permission_slip_reminder/internal/infra/ratelimit"
	"permission_slip_reminder/internal/infra/scheduler"
	"permission_slip_reminder/internal/infra/telegram"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const shutdownTimeout = 15 * time.Second

func main() {
	applySchema := flag.Bool("apply-schema", false, "create the database tables before starting")
	runOnce := flag.Bool("once", false, "run the reminder job once and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Component("main")

	log.WithFields(logrus.Fields{
		"environment":        cfg.Environment,
		"scheduler_enabled":  cfg.SchedulerEnabled,
		"channel_configured": cfg.ChannelConfigured(),
		"telegram_enabled":   cfg.TelegramEnabled(),
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	if *applySchema {
		if err := idb.ApplySchema(ctx, db); err != nil {
			log.WithError(err).Fatal("Could not apply database schema")
		}
		log.Info("Database schema applied.")
	}

	formRepo := idb.NewPostgresFormRepository(db)
	sender := email.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridHost, cfg.EmailFromName, cfg.EmailFromAddress, cfg.AppBaseURL)

	reminderService := app.NewReminderService(formRepo, sender, logger.Component("app"), app.ReminderServiceConfig{
		Tolerance:  cfg.ReminderTolerance,
		Lookahead:  cfg.ReminderLookahead,
		BatchSize:  cfg.ReminderBatchSize,
		BatchDelay: cfg.ReminderBatchDelay,
	})
	trigger := app.NewReminderTrigger(reminderService, cfg.CronSecret, cfg.ChannelConfigured(), logger.Component("app"))

	if *runOnce {
		runCtx, cancel := context.WithTimeout(ctx, cfg.ReminderJobTimeout)
		outcome := trigger.Run(runCtx)
		cancel()
		log.WithFields(logrus.Fields{
			"status":       outcome.Status,
			"reason":       outcome.Reason,
			"total_sent":   outcome.Result.TotalSent,
			"total_errors": outcome.Result.TotalErrors,
		}).Info("Reminder run finished")
		if outcome.Status == app.StatusFailed {
			db.Close()
			os.Exit(1)
		}
		return
	}

	// Rate limiting: Redis when configured so replicas share limits, in-memory otherwise.
	var (
		store       ratelimit.Store
		memoryStore *ratelimit.MemoryStore
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		store = ratelimit.NewRedisStore(rdb, time.Now)
		log.WithField("addr", cfg.RedisAddr).Info("Using Redis rate limit store")
	} else {
		memoryStore = ratelimit.NewMemoryStore()
		store = memoryStore
	}
	limiter := ratelimit.NewLimiter(store, cfg.RateLimitRequests, cfg.RateLimitWindow, logger.Component("http"))

	// Initialize Telegram Bot
	var (
		bot      *telebot.Bot
		reporter scheduler.RunReporter
	)
	if cfg.TelegramEnabled() {
		botLog := logger.Component("telebot")
		bot, err = telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) {
				entry := botLog.WithError(err)
				if c != nil && c.Sender() != nil && c.Chat() != nil {
					entry = entry.WithFields(logrus.Fields{"sender_id": c.Sender().ID, "chat_id": c.Chat().ID})
				}
				entry.Error("Telegram handler error")
			},
		})
		if err != nil {
			log.WithError(err).Fatal("Could not create Telegram bot")
		}
		commands := telegram.NewAdminCommands(trigger, cfg.AdminTelegramID, cfg.ReminderJobTimeout, logger.Component("telegram"))
		telegram.RegisterAdminHandlers(ctx, bot, commands)
		reporter = telegram.NewSummaryReporter(telegram.NewTelebotAdapter(bot), cfg.AdminTelegramID, logger.Component("telegram"))
		log.Info("Admin command handlers registered.")
	}

	var reminderScheduler *scheduler.ReminderScheduler
	if cfg.SchedulerEnabled {
		reminderScheduler = scheduler.NewReminderScheduler(trigger, logger.Component("scheduler"), cfg.CronSpecReminders, cfg.ReminderJobTimeout)
		if reporter != nil {
			reminderScheduler.WithReporter(reporter)
		}
		if memoryStore != nil {
			reminderScheduler.WithCleanup(memoryStore, cfg.CronSpecRateLimitCleanup)
		}
		if err := reminderScheduler.Start(); err != nil {
			log.WithError(err).Fatal("Could not start scheduler")
		}
	}

	handler := httpapi.NewReminderHandler(trigger, logger.Component("http"))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, limiter, cfg.TrustProxyHeaders),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP server stopped unexpectedly")
			stop()
		}
	}()

	if bot != nil {
		go bot.Start()
	}

	log.Info("Application setup complete.")
	<-ctx.Done()

	log.Info("Shutting down application...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown did not complete cleanly")
	}
	if bot != nil {
		bot.Stop()
	}
	if reminderScheduler != nil {
		reminderScheduler.Stop()
	}
	log.Info("Application shut down gracefully.")
}
