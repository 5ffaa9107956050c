package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/NasaVasa/earnwatch/internal/config"
	"github.com/NasaVasa/earnwatch/internal/delivery/rest"
	"github.com/NasaVasa/earnwatch/internal/delivery/telegram"
	"github.com/NasaVasa/earnwatch/internal/infra/db"
	"github.com/NasaVasa/earnwatch/internal/infra/email"
	"github.com/NasaVasa/earnwatch/internal/infra/finnhub"
	"github.com/NasaVasa/earnwatch/internal/infra/log"
	"github.com/NasaVasa/earnwatch/internal/usecase"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type App struct {
	daily           *usecase.DailyOrchestrator
	server          *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
	cleanupFn       func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(log.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	cleanup := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	userRepo := db.NewUserRepository(dbConn)
	alertRepo := db.NewAlertRepository(dbConn, logger)
	tickerRepo := db.NewTickerRepository(dbConn)

	emailClient := email.NewClient(cfg.EmailAPIBaseURL, cfg.EmailAPIKey, cfg.EmailFrom, cfg.EmailTimeout, logger)
	finnhubClient := finnhub.NewClient(cfg.FinnhubBaseURL, cfg.FinnhubAPIKey, cfg.FinnhubTimeout, cfg.EarningsLookahead, logger)

	beforeScheduler := usecase.NewBeforeAlertScheduler(emailClient, cfg.BeforeSendHour, nil, logger)
	alertUC := usecase.NewAlertUsecase(userRepo, alertRepo, finnhubClient, emailClient, beforeScheduler, nil, logger)
	earningsUC := usecase.NewEarningsUsecase(finnhubClient, finnhubClient, nil)
	afterProcessor := usecase.NewAfterAlertProcessor(alertRepo, userRepo, emailClient, finnhubClient, finnhubClient, nil, logger)
	tickerSync := usecase.NewTickerSyncJob(
		tickerRepo,
		finnhubClient,
		usecase.TickerSyncConfig{
			Exchanges:  cfg.SyncExchanges,
			BatchSize:  cfg.EnrichBatchSize,
			Delay:      cfg.EnrichDelay,
			RetryAfter: cfg.EnrichRetryAfter,
		},
		nil,
		usecase.ContextSleep,
		logger,
	)

	var reporter usecase.SummaryReporter
	if cfg.TelegramBotToken != "" {
		api, err := telegram.NewAPI(cfg.TelegramBotToken, tgbotapi.APIEndpoint, cfg.TelegramTimeout)
		if err != nil {
			// The ops summary is optional; the service runs without it.
			logger.Warn("telegram unavailable, summaries will not be posted", zap.Error(err))
		} else {
			reporter = telegram.NewNotifier(api, cfg.TelegramOpsChatID, logger)
		}
	}

	daily := usecase.NewDailyOrchestrator(
		afterProcessor,
		tickerSync,
		reporter,
		usecase.TriggerConfig{Secret: cfg.CronSecret, SecretRequired: cfg.CronSecretRequired},
		nil,
		logger,
	)

	gin.SetMode(gin.ReleaseMode)
	router := rest.NewRouter(rest.NewHandler(daily, alertUC, earningsUC, logger))
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		daily:           daily,
		server:          server,
		shutdownTimeout: cfg.HTTPShutdownTimeout,
		logger:          logger,
		cleanupFn:       cleanup,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("earnwatch service starting", zap.String("addr", a.server.Addr))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("earnwatch service stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}

// RunDaily performs one daily sweep in-process, bypassing the trigger secret.
func (a *App) RunDaily(ctx context.Context) error {
	summary := a.daily.Run(ctx)
	if summary.Failed {
		return errors.New("daily run failed: " + summary.AlertsError + "; " + summary.TickersError)
	}
	return nil
}

func (a *App) Shutdown() {
	a.logger.Info("earnwatch service shutting down")
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
