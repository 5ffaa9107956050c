// Package memory provides in-memory implementations of the domain
// repositories. They are safe for concurrent use and hold no global state;
// each value is an independent store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NasaVasa/earnwatch/internal/domain"
	"github.com/google/uuid"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[uint]domain.User
}

func NewUserRepository(users ...domain.User) *UserRepository {
	r := &UserRepository{users: make(map[uint]domain.User, len(users))}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *UserRepository) GetByID(ctx context.Context, userID uint) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) Put(user domain.User) {
	r.mu.Lock()
	r.users[user.ID] = user
	r.mu.Unlock()
}

func (r *UserRepository) Remove(userID uint) {
	r.mu.Lock()
	delete(r.users, userID)
	r.mu.Unlock()
}

type AlertRepository struct {
	mu     sync.RWMutex
	alerts map[uuid.UUID]domain.Alert
	now    func() time.Time
}

func NewAlertRepository(alerts ...domain.Alert) *AlertRepository {
	r := &AlertRepository{alerts: make(map[uuid.UUID]domain.Alert, len(alerts)), now: time.Now}
	for _, a := range alerts {
		r.alerts[a.ID] = a
	}
	return r
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	alert.CreatedAt = now
	alert.UpdatedAt = now
	r.alerts[alert.ID] = *alert
	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, alertID uuid.UUID) (*domain.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	alert, ok := r.alerts[alertID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &alert, nil
}

func (r *AlertRepository) Update(ctx context.Context, alert *domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[alert.ID]; !ok {
		return domain.ErrNotFound
	}
	alert.UpdatedAt = r.now()
	r.alerts[alert.ID] = *alert
	return nil
}

func (r *AlertRepository) Delete(ctx context.Context, alertID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[alertID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.alerts, alertID)
	return nil
}

func (r *AlertRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Alert, error) {
	return r.filter(func(a domain.Alert) bool { return a.UserID == userID }), nil
}

func (r *AlertRepository) ListByStatusAndType(ctx context.Context, status domain.AlertStatus, alertType domain.AlertType) ([]domain.Alert, error) {
	return r.filter(func(a domain.Alert) bool { return a.Status == status && a.Type == alertType }), nil
}

func (r *AlertRepository) filter(keep func(domain.Alert) bool) []domain.Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Alert, 0, len(r.alerts))
	for _, a := range r.alerts {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EarningsDate.Equal(out[j].EarningsDate) {
			return out[i].EarningsDate.Before(out[j].EarningsDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

type TickerRepository struct {
	mu      sync.RWMutex
	tickers map[string]domain.Ticker
}

func NewTickerRepository(tickers ...domain.Ticker) *TickerRepository {
	r := &TickerRepository{tickers: make(map[string]domain.Ticker, len(tickers))}
	for _, t := range tickers {
		r.tickers[t.Symbol] = t
	}
	return r
}

func (r *TickerRepository) Get(symbol string) (domain.Ticker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tickers[symbol]
	return t, ok
}

func (r *TickerRepository) ActiveSymbols(ctx context.Context) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string)
	for symbol, t := range r.tickers {
		if t.IsActive {
			out[symbol] = t.Exchange
		}
	}
	return out, nil
}

func (r *TickerRepository) ListNeedingEnrichment(ctx context.Context, now time.Time, retryAfter time.Duration, limit int) ([]domain.Ticker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Ticker
	for _, t := range r.tickers {
		if t.IsActive && t.NeedsEnrichment(now, retryAfter) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].ProfileFetchedAt, out[j].ProfileFetchedAt
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		}
		return out[i].Symbol < out[j].Symbol
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *TickerRepository) Upsert(ctx context.Context, ticker *domain.Ticker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.tickers[ticker.Symbol]; ok {
		existing.Exchange = ticker.Exchange
		existing.Description = ticker.Description
		existing.IsActive = true
		r.tickers[ticker.Symbol] = existing
		ticker.IsActive = true
		return nil
	}
	ticker.IsActive = true
	r.tickers[ticker.Symbol] = *ticker
	return nil
}

func (r *TickerRepository) MarkInactive(ctx context.Context, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickers[symbol]
	if !ok {
		return domain.ErrNotFound
	}
	t.IsActive = false
	r.tickers[symbol] = t
	return nil
}

func (r *TickerRepository) UpdateProfile(ctx context.Context, ticker *domain.Ticker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickers[ticker.Symbol]
	if !ok {
		return domain.ErrNotFound
	}
	t.Industry = ticker.Industry
	t.Sector = ticker.Sector
	t.ProfileFetchedAt = ticker.ProfileFetchedAt
	r.tickers[ticker.Symbol] = t
	return nil
}
