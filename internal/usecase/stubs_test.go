package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/NasaVasa/earnwatch/internal/domain"
	"github.com/NasaVasa/earnwatch/internal/infra/memory"
)

type scheduledEmail struct {
	msg    domain.EmailMessage
	sendAt *time.Time
}

type emailStub struct {
	mu        sync.Mutex
	sent      []scheduledEmail
	cancelled []string
	err       error
	cancelErr error
}

func (s *emailStub) Schedule(ctx context.Context, msg domain.EmailMessage, sendAt *time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, scheduledEmail{msg: msg, sendAt: sendAt})
	return fmt.Sprintf("email-%d", len(s.sent)), nil
}

func (s *emailStub) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, id)
	return s.cancelErr
}

func (s *emailStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type calendarStub struct {
	dates map[string][]time.Time
	err   error
	calls int
}

func (s *calendarStub) NextEarningsDate(ctx context.Context, symbol string, after time.Time) (time.Time, bool, error) {
	s.calls++
	if s.err != nil {
		return time.Time{}, false, s.err
	}
	for _, date := range s.dates[symbol] {
		if date.After(datemath.Day(after)) {
			return date, true, nil
		}
	}
	return time.Time{}, false, nil
}

type reportStub struct {
	report *domain.EarningsReport
	err    error
}

func (s *reportStub) LatestReport(ctx context.Context, symbol string) (*domain.EarningsReport, error) {
	return s.report, s.err
}

type directoryStub struct {
	listings    map[string][]domain.ListedSymbol
	listErr     map[string]error
	industries  map[string]string
	classifyErr map[string]error
	classified  []string
}

func (s *directoryStub) ListSymbols(ctx context.Context, exchange string) ([]domain.ListedSymbol, error) {
	if err := s.listErr[exchange]; err != nil {
		return nil, err
	}
	return s.listings[exchange], nil
}

func (s *directoryStub) Classify(ctx context.Context, symbol string) (string, bool, error) {
	s.classified = append(s.classified, symbol)
	if err := s.classifyErr[symbol]; err != nil {
		return "", false, err
	}
	industry, ok := s.industries[symbol]
	return industry, ok, nil
}

// failingUsers returns an error for selected users and defers to the
// wrapped store otherwise.
type failingUsers struct {
	*memory.UserRepository
	errFor map[uint]error
}

func (f failingUsers) GetByID(ctx context.Context, userID uint) (*domain.User, error) {
	if err := f.errFor[userID]; err != nil {
		return nil, err
	}
	return f.UserRepository.GetByID(ctx, userID)
}

type failingAlerts struct {
	*memory.AlertRepository
	listErr   error
	updateErr error
}

func (f failingAlerts) ListByStatusAndType(ctx context.Context, status domain.AlertStatus, alertType domain.AlertType) ([]domain.Alert, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.AlertRepository.ListByStatusAndType(ctx, status, alertType)
}

func (f failingAlerts) Update(ctx context.Context, alert *domain.Alert) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.AlertRepository.Update(ctx, alert)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func subscriber(id uint) domain.User {
	return domain.User{ID: id, Email: fmt.Sprintf("user%d@example.com", id), Name: "Ada", EmailNotifications: true}
}
