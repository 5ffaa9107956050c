package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/NasaVasa/earnwatch/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultEnrichBatchSize  = 50
	DefaultEnrichDelay      = 1100 * time.Millisecond
	DefaultEnrichRetryAfter = 30 * 24 * time.Hour
)

var ErrAllExchangesFailed = errors.New("no exchange listing could be fetched")

type TickerSyncConfig struct {
	Exchanges  []string
	BatchSize  int
	Delay      time.Duration
	RetryAfter time.Duration
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type TickerSyncJob struct {
	tickers   domain.TickerRepository
	directory domain.ExchangeDirectory
	cfg       TickerSyncConfig
	now       func() time.Time
	sleep     SleepFunc
	logger    *zap.Logger
}

func NewTickerSyncJob(tickers domain.TickerRepository, directory domain.ExchangeDirectory, cfg TickerSyncConfig, now func() time.Time, sleep SleepFunc, logger *zap.Logger) *TickerSyncJob {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultEnrichBatchSize
	}
	if cfg.Delay < 0 {
		cfg.Delay = DefaultEnrichDelay
	}
	if cfg.RetryAfter <= 0 {
		cfg.RetryAfter = DefaultEnrichRetryAfter
	}
	if now == nil {
		now = time.Now
	}
	if sleep == nil {
		sleep = ContextSleep
	}
	return &TickerSyncJob{tickers: tickers, directory: directory, cfg: cfg, now: now, sleep: sleep, logger: logger}
}

// Run reconciles the stored ticker universe with the exchange directory and
// enriches one bounded batch. The returned error only flags a job-level
// failure; per-exchange and per-symbol failures are logged and counted.
func (j *TickerSyncJob) Run(ctx context.Context) (domain.TickerSyncStats, error) {
	var stats domain.TickerSyncStats
	var errs []error

	if err := j.reconcile(ctx, &stats); err != nil {
		errs = append(errs, err)
	}
	if err := j.enrich(ctx, &stats); err != nil {
		errs = append(errs, err)
	}

	j.logger.Info(
		"ticker sync complete",
		zap.Int("new", stats.New),
		zap.Int("delisted", stats.Delisted),
		zap.Int("enriched", stats.Enriched),
		zap.Int("enrich_failed", stats.EnrichFailed),
		zap.Int("exchange_errors", stats.ExchangeErrors),
	)
	return stats, errors.Join(errs...)
}

func (j *TickerSyncJob) reconcile(ctx context.Context, stats *domain.TickerSyncStats) error {
	remote := make(map[string]domain.Ticker)
	fetched := make(map[string]bool, len(j.cfg.Exchanges))

	for _, exchange := range j.cfg.Exchanges {
		listed, err := j.directory.ListSymbols(ctx, exchange)
		if err == nil && len(listed) == 0 {
			err = fmt.Errorf("empty listing")
		}
		if err != nil {
			stats.ExchangeErrors++
			j.logger.Warn("exchange listing failed", zap.String("exchange", exchange), zap.Error(err))
			continue
		}
		fetched[exchange] = true
		for _, item := range listed {
			symbol := domain.NormalizeSymbol(item.Symbol)
			if symbol == "" {
				continue
			}
			if _, seen := remote[symbol]; seen {
				continue
			}
			remote[symbol] = domain.Ticker{Symbol: symbol, Exchange: exchange, Description: item.Description, IsActive: true}
		}
		j.logger.Info("exchange listing fetched", zap.String("exchange", exchange), zap.Int("symbols", len(listed)))
	}

	if len(fetched) == 0 {
		if len(j.cfg.Exchanges) == 0 {
			return nil
		}
		return ErrAllExchangesFailed
	}

	stored, err := j.tickers.ActiveSymbols(ctx)
	if err != nil {
		return fmt.Errorf("load active symbols: %w", err)
	}

	for _, symbol := range sortedKeys(remote) {
		if _, ok := stored[symbol]; ok {
			continue
		}
		ticker := remote[symbol]
		if err := j.tickers.Upsert(ctx, &ticker); err != nil {
			j.logger.Warn("failed to insert ticker", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		stats.New++
	}

	for _, symbol := range sortedKeys(stored) {
		if _, ok := remote[symbol]; ok {
			continue
		}
		// A symbol is only delisted when its own exchange answered this run.
		if !fetched[stored[symbol]] {
			continue
		}
		if err := j.tickers.MarkInactive(ctx, symbol); err != nil {
			j.logger.Warn("failed to mark ticker inactive", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		stats.Delisted++
	}
	return nil
}

func (j *TickerSyncJob) enrich(ctx context.Context, stats *domain.TickerSyncStats) error {
	batch, err := j.tickers.ListNeedingEnrichment(ctx, j.now(), j.cfg.RetryAfter, j.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("load enrichment batch: %w", err)
	}

	for i := range batch {
		if i > 0 {
			if err := j.sleep(ctx, j.cfg.Delay); err != nil {
				j.logger.Warn("enrichment interrupted", zap.Int("remaining", len(batch)-i), zap.Error(err))
				return nil
			}
		}

		ticker := &batch[i]
		industry, found, err := j.directory.Classify(ctx, ticker.Symbol)
		if err != nil {
			stats.EnrichFailed++
			j.logger.Warn("ticker classification failed", zap.String("symbol", ticker.Symbol), zap.Error(err))
			if isRateLimited(err) {
				j.logger.Warn("classification rate limited, stopping batch", zap.Int("remaining", len(batch)-i-1))
				return nil
			}
			if !isPermanentProviderError(err) {
				continue
			}
			// The provider will never classify this symbol; record the attempt
			// so it waits out the retry period instead of heading every batch.
			industry, found = "", false
		}

		if !found {
			industry = ""
		}
		ticker.Classify(industry, j.now())
		if err := j.tickers.UpdateProfile(ctx, ticker); err != nil {
			j.logger.Warn("failed to store ticker profile", zap.String("symbol", ticker.Symbol), zap.Error(err))
			continue
		}
		if found {
			stats.Enriched++
		}
	}
	return nil
}

func isRateLimited(err error) bool {
	var perr *domain.ProviderError
	return errors.As(err, &perr) && perr.Status == http.StatusTooManyRequests
}

func isPermanentProviderError(err error) bool {
	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		return false
	}
	return perr.Status >= 400 && perr.Status < 500 && perr.Status != http.StatusTooManyRequests
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
