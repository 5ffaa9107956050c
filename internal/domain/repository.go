package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type UserRepository interface {
	GetByID(ctx context.Context, userID uint) (*User, error)
}

type AlertRepository interface {
	Create(ctx context.Context, alert *Alert) error
	GetByID(ctx context.Context, alertID uuid.UUID) (*Alert, error)
	Update(ctx context.Context, alert *Alert) error
	Delete(ctx context.Context, alertID uuid.UUID) error
	ListByUser(ctx context.Context, userID uint) ([]Alert, error)
	ListByStatusAndType(ctx context.Context, status AlertStatus, alertType AlertType) ([]Alert, error)
}

type TickerRepository interface {
	// ActiveSymbols maps every active symbol to its exchange.
	ActiveSymbols(ctx context.Context) (map[string]string, error)
	// ListNeedingEnrichment returns at most limit tickers for which
	// Ticker.NeedsEnrichment(now, retryAfter) holds, oldest attempts first.
	ListNeedingEnrichment(ctx context.Context, now time.Time, retryAfter time.Duration, limit int) ([]Ticker, error)
	// Upsert inserts the ticker as active, or reactivates an existing row and
	// refreshes its listing fields while keeping its classification.
	Upsert(ctx context.Context, ticker *Ticker) error
	MarkInactive(ctx context.Context, symbol string) error
	UpdateProfile(ctx context.Context, ticker *Ticker) error
}
