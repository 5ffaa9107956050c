package usecase

import (
	"context"
	"time"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/NasaVasa/earnwatch/internal/domain"
)

type EarningsOutlook struct {
	Symbol       string
	NextEarnings time.Time
	LastReport   *domain.EarningsReport
}

type EarningsUsecase struct {
	calendar domain.EarningsCalendar
	reports  domain.ReportProvider
	now      func() time.Time
}

func NewEarningsUsecase(calendar domain.EarningsCalendar, reports domain.ReportProvider, now func() time.Time) *EarningsUsecase {
	if now == nil {
		now = time.Now
	}
	return &EarningsUsecase{calendar: calendar, reports: reports, now: now}
}

// Outlook returns the next earnings date on or after today and, when
// available, the most recent reported quarter.
func (u *EarningsUsecase) Outlook(ctx context.Context, symbol string) (*EarningsOutlook, error) {
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}

	yesterday := datemath.Today(u.now()).AddDate(0, 0, -1)
	next, ok, err := u.calendar.NextEarningsDate(ctx, symbol, yesterday)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoEarningsDate
	}

	outlook := &EarningsOutlook{Symbol: symbol, NextEarnings: next}
	if u.reports != nil {
		// Report figures are decoration; the date alone answers the request.
		if report, err := u.reports.LatestReport(ctx, symbol); err == nil {
			outlook.LastReport = report
		}
	}
	return outlook, nil
}
