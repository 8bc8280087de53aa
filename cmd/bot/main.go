package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"

	groupbuyer "github.com/set-night/groupbuyer"
	"github.com/set-night/groupbuyer/internal/config"
	"github.com/set-night/groupbuyer/internal/currency"
	"github.com/set-night/groupbuyer/internal/handler"
	"github.com/set-night/groupbuyer/internal/httpapi"
	"github.com/set-night/groupbuyer/internal/middleware"
	"github.com/set-night/groupbuyer/internal/probe"
	"github.com/set-night/groupbuyer/internal/probe/mtproto"
	"github.com/set-night/groupbuyer/internal/probe/preview"
	"github.com/set-night/groupbuyer/internal/repository"
	"github.com/set-night/groupbuyer/internal/service"
	"github.com/set-night/groupbuyer/internal/sweeper"
	"github.com/set-night/groupbuyer/internal/telegram"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the ledger
	migrationsFS, err := fs.Sub(groupbuyer.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	store, err := repository.Open(ctx, cfg.StorageDriver, cfg.DatabaseURL, repository.PoolConfig{
		MaxConns: config.DBMaxConns,
		MinConns: config.DBMinConns,
	}, migrationsFS)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	conv, err := currency.NewConverter(cfg.CurrencyRates)
	if err != nil {
		slog.Error("failed to build currency converter", "error", err)
		os.Exit(1)
	}

	// Automation account
	supervisor := mtproto.NewSupervisor(mtproto.SupervisorConfig{
		AppID:          cfg.TelegramAppID,
		AppHash:        cfg.TelegramAppHash,
		SessionFile:    cfg.SessionFile,
		InitialBackoff: config.ProbeInitialBackoff,
		MaxBackoff:     config.ProbeMaxBackoff,
		WaitTimeout:    config.ProbeWaitTimeout,
	})
	var p probe.Probe = mtproto.New(supervisor)
	if cfg.PreviewCheck {
		p = preview.NewGuard(p, preview.NewChecker(preview.WithTimeout(config.PreviewTimeout)))
	}

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	userLocks := service.NewUserLocks()
	var userService *service.UserService

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			// Services are built after the bot, so resolve the loader per update
			func(next bot.HandlerFunc) bot.HandlerFunc {
				return func(ctx context.Context, b *bot.Bot, update *models.Update) {
					middleware.UserLoader(userService)(next)(ctx, b, update)
				}
			},
			middleware.RateLimit(middleware.NewLimiter(config.RateLimitPerMinute)),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil || update.Message == nil {
				return
			}
			h.HandleText(ctx, b, update)
		}),
	}
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Initialize telegram logger
	tgLogger := telegram.NewTelegramLogger(b, cfg)

	// Initialize services
	audit := service.NewAuditService(store, tgLogger)
	userService = service.NewUserService(store, userLocks, conv, config.Languages, audit)
	verification := service.NewVerification(store, p, cfg.RewardPolicy(), userLocks, audit, service.VerificationConfig{
		OwnerUsername: cfg.OwnerUsername,
		StepTimeout:   config.ProbeStepTimeout,
		PendingTTL:    config.PendingTTL,
	})
	ledger := service.NewLedgerService(store, userLocks, conv, audit, service.LedgerConfig{
		DefaultCurrency:  cfg.DefaultCurrency,
		WithdrawCurrency: cfg.WithdrawCurrency,
		MinBalance:       cfg.MinWithdrawBalance,
		MinAmount:        cfg.MinWithdrawAmount,
	})
	stats := service.NewStatsService(store, conv, cfg.DefaultCurrency)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:          b,
		Cfg:          cfg,
		Users:        userService,
		Verification: verification,
		Ledger:       ledger,
		Stats:        stats,
		Audit:        audit,
		Currencies:   conv.Codes(),
		TgLogger:     tgLogger,
	})

	// Register all handlers
	h.Register()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := supervisor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("automation account stopped", "error", err)
			tgLogger.LogError(err, "automation account supervisor")
		}
	}()

	sw := sweeper.New(p, store, verification, sweeper.Config{
		Schedule: cfg.SweepSchedule,
		Grace:    cfg.SweepGrace,
		Keep:     cfg.SweepKeepIDs,
		Timeout:  config.SweepTimeout,
	})
	if err := sw.Start(ctx); err != nil {
		slog.Error("failed to start sweeper", "error", err)
		os.Exit(1)
	}
	defer sw.Stop()

	srv := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewRouter(stats, audit, store, logger), logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx); err != nil {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	// Start bot
	slog.Info("starting bot")
	b.Start(ctx)

	wg.Wait()

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
