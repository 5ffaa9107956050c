package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/NasaVasa/earnwatch/internal/domain"
	"github.com/shopspring/decimal"
)

func TestEarningsOutlook(t *testing.T) {
	calendar := &calendarStub{dates: map[string][]time.Time{"AAPL": {datemath.Date(2024, time.June, 1), datemath.Date(2024, time.August, 1)}}}
	actual := decimal.RequireFromString("1.53")
	reports := &reportStub{report: &domain.EarningsReport{Symbol: "AAPL", Actual: &actual}}

	uc := NewEarningsUsecase(calendar, reports, fixedNow(at(2024, time.June, 1, 20)))
	outlook, err := uc.Outlook(context.Background(), " aapl")
	if err != nil {
		t.Fatalf("Outlook: %v", err)
	}
	if outlook.Symbol != "AAPL" || !outlook.NextEarnings.Equal(datemath.Date(2024, time.June, 1)) {
		t.Fatalf("unexpected outlook: %+v", outlook)
	}
	if outlook.LastReport == nil || outlook.LastReport.Actual.String() != "1.53" {
		t.Fatalf("report not attached: %+v", outlook.LastReport)
	}
}

func TestEarningsOutlookErrors(t *testing.T) {
	uc := NewEarningsUsecase(&calendarStub{}, &reportStub{err: errors.New("down")}, fixedNow(at(2024, time.June, 1, 20)))
	if _, err := uc.Outlook(context.Background(), ""); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("expected ErrInvalidSymbol, got %v", err)
	}
	if _, err := uc.Outlook(context.Background(), "AAPL"); !errors.Is(err, ErrNoEarningsDate) {
		t.Fatalf("expected ErrNoEarningsDate, got %v", err)
	}

	failing := NewEarningsUsecase(&calendarStub{err: errors.New("timeout")}, nil, nil)
	if _, err := failing.Outlook(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected calendar error")
	}
}
