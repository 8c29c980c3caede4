// Package app assembles the bot, the storage layer and the ops HTTP
// server into a single runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/Kayszu18/yandex-market-bot/internal/bot"
	"github.com/Kayszu18/yandex-market-bot/internal/config"
	"github.com/Kayszu18/yandex-market-bot/internal/lifecycle"
	"github.com/Kayszu18/yandex-market-bot/internal/logger"
	"github.com/Kayszu18/yandex-market-bot/internal/mediaclient"
	"github.com/Kayszu18/yandex-market-bot/internal/server"
	"github.com/Kayszu18/yandex-market-bot/internal/server/router"
	"github.com/Kayszu18/yandex-market-bot/internal/storage"
	"github.com/Kayszu18/yandex-market-bot/internal/storage/inmemory"
	"github.com/Kayszu18/yandex-market-bot/internal/storage/pgstorage"
)

type Application struct {
	log    *slog.Logger
	store  storage.Storage
	bot    *bot.Bot
	server *server.Server
}

func New() (*Application, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("config.NewConfig: %w", err)
	}

	logLevel, err := logger.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger.ParseLogLevel: %w", err)
	}

	logg := logger.NewLogger(
		logger.WithLevel(logLevel),
		logger.WithFormat(logger.LogFormatJSON),
		logger.WithAddSource(false),
	)

	store, err := newStore(cfg.DatabaseURI)
	if err != nil {
		return nil, err
	}

	svc := lifecycle.NewService(store,
		lifecycle.WithLogger(logg),
		lifecycle.WithOrderReward(decimal.NewFromFloat(cfg.OrderReward)),
		lifecycle.WithReferralPercent(decimal.NewFromFloat(cfg.ReferralPercent)),
		lifecycle.WithMinWithdrawal(decimal.NewFromFloat(cfg.MinWithdrawal)),
	)

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("tgbotapi.NewBotAPI: %w", err)
	}

	tgbot := bot.NewBot(api, svc,
		bot.WithLogger(logg),
		bot.WithAdminIDs(cfg.AdminIDs),
	)

	media := mediaclient.New(cfg.BotToken,
		mediaclient.WithLogger(logg),
	)

	r := router.NewRouter(svc, store,
		router.WithLogger(logg),
		router.WithSecret([]byte(cfg.JWTSecretKey)),
		router.WithPasswordHash(cfg.AdminPasswordHash),
		router.WithMedia(media),
	)

	srv := server.NewServer(cfg.ServerAddr, r,
		server.WithLogger(logg),
	)

	return &Application{
		log:    logg,
		store:  store,
		bot:    tgbot,
		server: srv,
	}, nil
}

// newStore picks the postgres backend when a DSN is configured and
// falls back to the in-memory one otherwise.
func newStore(databaseURI string) (storage.Storage, error) {
	if databaseURI == "" {
		return storage.NewStorage(inmemory.NewStorage()), nil
	}

	pgstore, err := pgstorage.NewStorage(databaseURI)
	if err != nil {
		return nil, fmt.Errorf("pgstorage.NewStorage: %w", err)
	}

	if err := pgstore.Bootstrap(context.Background()); err != nil {
		return nil, fmt.Errorf("pgstorage.Bootstrap: %w", err)
	}

	return storage.NewStorage(pgstore), nil
}

func (a *Application) Run() error {
	errChan := make(chan error, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := a.server.Start(); err != nil {
			errChan <- fmt.Errorf("server.Start: %w", err)
		}
	}()

	go func() {
		if err := a.bot.Run(ctx); err != nil {
			errChan <- fmt.Errorf("bot.Run: %w", err)
		}
	}()

	// Graceful shutdown handler
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case err := <-errChan:
			return err

		case <-quit:
			a.log.Info("Gracefully shutting down application...")

			cancel()

			if err := a.server.Shutdown(context.Background()); err != nil {
				a.log.Error("server.Shutdown", slog.Any("error", err))
			}

			if err := a.store.Close(); err != nil {
				a.log.Error("storage.Close", slog.Any("error", err))
			}

			return nil
		}
	}
}
