package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NasaVasa/earnwatch/internal/domain"
	"go.uber.org/zap"
)

type alertJobStub struct {
	stats domain.AlertRunStats
	err   error
	panic bool
	calls int
}

func (s *alertJobStub) Run(ctx context.Context) (domain.AlertRunStats, error) {
	s.calls++
	if s.panic {
		panic("boom")
	}
	return s.stats, s.err
}

type tickerJobStub struct {
	stats domain.TickerSyncStats
	err   error
	panic bool
	calls int
}

func (s *tickerJobStub) Run(ctx context.Context) (domain.TickerSyncStats, error) {
	s.calls++
	if s.panic {
		panic("boom")
	}
	return s.stats, s.err
}

type reporterStub struct {
	reports []domain.DailySummary
	err     error
}

func (s *reporterStub) Report(ctx context.Context, summary domain.DailySummary) error {
	s.reports = append(s.reports, summary)
	return s.err
}

func steppingClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func TestDailyTriggerAuthorization(t *testing.T) {
	cases := []struct {
		name     string
		trigger  TriggerConfig
		provided string
		wantErr  error
	}{
		{"matching secret", TriggerConfig{Secret: "s3cret", SecretRequired: true}, "s3cret", nil},
		{"wrong secret", TriggerConfig{Secret: "s3cret", SecretRequired: true}, "guess", ErrUnauthorized},
		{"missing header", TriggerConfig{Secret: "s3cret"}, "", ErrUnauthorized},
		{"secret required but unset", TriggerConfig{SecretRequired: true}, "anything", ErrTriggerSecretRequired},
		{"open trigger", TriggerConfig{}, "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alerts := &alertJobStub{}
			tickers := &tickerJobStub{}
			orchestrator := NewDailyOrchestrator(alerts, tickers, nil, tc.trigger, nil, zap.NewNop())

			_, err := orchestrator.Trigger(context.Background(), tc.provided)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Trigger error = %v, want %v", err, tc.wantErr)
			}
			wantCalls := 1
			if tc.wantErr != nil {
				wantCalls = 0
			}
			if alerts.calls != wantCalls || tickers.calls != wantCalls {
				t.Fatalf("job calls = %d/%d, want %d", alerts.calls, tickers.calls, wantCalls)
			}
		})
	}
}

func TestDailyRunBuildsSummary(t *testing.T) {
	alerts := &alertJobStub{stats: domain.AlertRunStats{Processed: 4, Sent: 3, Renewed: 2}}
	tickers := &tickerJobStub{stats: domain.TickerSyncStats{New: 5, Delisted: 1, Enriched: 7}}
	reporter := &reporterStub{}

	orchestrator := NewDailyOrchestrator(alerts, tickers, reporter, TriggerConfig{}, steppingClock(at(2024, time.June, 1, 6), 1500*time.Millisecond), zap.NewNop())
	summary := orchestrator.Run(context.Background())

	want := domain.DailySummary{
		AlertsProcessed: 4,
		EmailsSent:      3,
		AlertsRenewed:   2,
		NewTickers:      5,
		DelistedTickers: 1,
		EnrichedTickers: 7,
		DurationMs:      1500,
	}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
	if len(reporter.reports) != 1 || reporter.reports[0] != want {
		t.Fatalf("reporter got %+v", reporter.reports)
	}
}

func TestDailyRunIsolatesJobFailures(t *testing.T) {
	t.Run("alert sweep fails", func(t *testing.T) {
		alerts := &alertJobStub{err: errors.New("db down")}
		tickers := &tickerJobStub{stats: domain.TickerSyncStats{New: 1}}
		summary := NewDailyOrchestrator(alerts, tickers, nil, TriggerConfig{}, nil, zap.NewNop()).Run(context.Background())

		if tickers.calls != 1 || summary.NewTickers != 1 {
			t.Fatalf("ticker sync should still run: %+v", summary)
		}
		if !summary.AlertsFailed || summary.TickersFailed || summary.Failed {
			t.Fatalf("unexpected flags: %+v", summary)
		}
		if summary.AlertsError != "db down" {
			t.Fatalf("AlertsError = %q", summary.AlertsError)
		}
	})

	t.Run("ticker sync panics", func(t *testing.T) {
		alerts := &alertJobStub{stats: domain.AlertRunStats{Sent: 2}}
		tickers := &tickerJobStub{panic: true}
		summary := NewDailyOrchestrator(alerts, tickers, nil, TriggerConfig{}, nil, zap.NewNop()).Run(context.Background())

		if summary.EmailsSent != 2 || !summary.TickersFailed || summary.Failed {
			t.Fatalf("unexpected summary: %+v", summary)
		}
	})

	t.Run("both fail", func(t *testing.T) {
		alerts := &alertJobStub{panic: true}
		tickers := &tickerJobStub{err: ErrAllExchangesFailed}
		reporter := &reporterStub{err: errors.New("telegram down")}
		summary := NewDailyOrchestrator(alerts, tickers, reporter, TriggerConfig{}, nil, zap.NewNop()).Run(context.Background())

		if !summary.Failed || summary.AlertsProcessed != 0 || summary.NewTickers != 0 {
			t.Fatalf("unexpected summary: %+v", summary)
		}
		if len(reporter.reports) != 1 {
			t.Fatalf("a failed run is still reported")
		}
	})
}
