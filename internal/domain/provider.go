package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ProviderError struct {
	Provider string
	Status   int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s error: status %d", e.Provider, e.Status)
}

type EmailMessage struct {
	To             string
	Subject        string
	Text           string
	IdempotencyKey string
}

// EmailScheduler hands messages to the delivery provider. A nil sendAt means
// send immediately; otherwise sendAt must lie in the future.
type EmailScheduler interface {
	Schedule(ctx context.Context, msg EmailMessage, sendAt *time.Time) (string, error)
	Cancel(ctx context.Context, id string) error
}

type EarningsCalendar interface {
	// NextEarningsDate returns the first known earnings date strictly after
	// the given date.
	NextEarningsDate(ctx context.Context, symbol string, after time.Time) (time.Time, bool, error)
}

type ListedSymbol struct {
	Symbol      string
	Description string
}

type ExchangeDirectory interface {
	ListSymbols(ctx context.Context, exchange string) ([]ListedSymbol, error)
	// Classify returns the industry label for a symbol; false when the
	// provider has no classification.
	Classify(ctx context.Context, symbol string) (string, bool, error)
}

type EarningsReport struct {
	Symbol          string
	Period          time.Time
	Actual          *decimal.Decimal
	Estimate        *decimal.Decimal
	SurprisePercent *decimal.Decimal
}

type ReportProvider interface {
	LatestReport(ctx context.Context, symbol string) (*EarningsReport, error)
}
