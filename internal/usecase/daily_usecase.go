package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/NasaVasa/earnwatch/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrUnauthorized          = errors.New("trigger secret mismatch")
	ErrTriggerSecretRequired = errors.New("trigger secret required but not configured")
)

type AlertJob interface {
	Run(ctx context.Context) (domain.AlertRunStats, error)
}

type TickerJob interface {
	Run(ctx context.Context) (domain.TickerSyncStats, error)
}

type SummaryReporter interface {
	Report(ctx context.Context, summary domain.DailySummary) error
}

type TriggerConfig struct {
	Secret         string
	SecretRequired bool
}

type DailyOrchestrator struct {
	alerts   AlertJob
	tickers  TickerJob
	reporter SummaryReporter
	trigger  TriggerConfig
	now      func() time.Time
	logger   *zap.Logger
}

func NewDailyOrchestrator(alerts AlertJob, tickers TickerJob, reporter SummaryReporter, trigger TriggerConfig, now func() time.Time, logger *zap.Logger) *DailyOrchestrator {
	if now == nil {
		now = time.Now
	}
	return &DailyOrchestrator{alerts: alerts, tickers: tickers, reporter: reporter, trigger: trigger, now: now, logger: logger}
}

// Authorize checks the secret presented by the external trigger.
func (o *DailyOrchestrator) Authorize(provided string) error {
	if o.trigger.Secret == "" {
		if o.trigger.SecretRequired {
			return ErrTriggerSecretRequired
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(o.trigger.Secret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Trigger authorizes and then runs the daily sweep. A rejected trigger has no
// side effects.
func (o *DailyOrchestrator) Trigger(ctx context.Context, providedSecret string) (domain.DailySummary, error) {
	if err := o.Authorize(providedSecret); err != nil {
		o.logger.Warn("daily trigger rejected", zap.Error(err))
		return domain.DailySummary{}, err
	}
	return o.Run(ctx), nil
}

// Run executes the alert sweep and the ticker sync, each isolated from the
// other's failure, and always returns a summary.
func (o *DailyOrchestrator) Run(ctx context.Context) domain.DailySummary {
	start := o.now()
	var summary domain.DailySummary

	o.logger.Info("daily run start")

	alertStats, err := runGuarded(ctx, o.alerts.Run)
	summary.AlertsProcessed = alertStats.Processed
	summary.EmailsSent = alertStats.Sent
	summary.AlertsRenewed = alertStats.Renewed
	if err != nil {
		summary.AlertsFailed = true
		summary.AlertsError = err.Error()
		o.logger.Error("after alert sweep failed", zap.Error(err))
	}

	tickerStats, err := runGuarded(ctx, o.tickers.Run)
	summary.NewTickers = tickerStats.New
	summary.DelistedTickers = tickerStats.Delisted
	summary.EnrichedTickers = tickerStats.Enriched
	if err != nil {
		summary.TickersFailed = true
		summary.TickersError = err.Error()
		o.logger.Error("ticker sync failed", zap.Error(err))
	}

	summary.Failed = summary.AlertsFailed && summary.TickersFailed
	summary.DurationMs = o.now().Sub(start).Milliseconds()

	o.logger.Info(
		"daily run complete",
		zap.Int("alerts_processed", summary.AlertsProcessed),
		zap.Int("emails_sent", summary.EmailsSent),
		zap.Int("alerts_renewed", summary.AlertsRenewed),
		zap.Int("new_tickers", summary.NewTickers),
		zap.Int("delisted_tickers", summary.DelistedTickers),
		zap.Int("enriched_tickers", summary.EnrichedTickers),
		zap.Int64("duration_ms", summary.DurationMs),
		zap.Bool("failed", summary.Failed),
	)

	if o.reporter != nil {
		if err := o.reporter.Report(ctx, summary); err != nil {
			o.logger.Warn("failed to report daily summary", zap.Error(err))
		}
	}
	return summary
}

func runGuarded[T any](ctx context.Context, job func(context.Context) (T, error)) (stats T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job(ctx)
}
