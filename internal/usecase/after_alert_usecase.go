package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/NasaVasa/earnwatch/internal/domain"
	"go.uber.org/zap"
)

type AfterAlertProcessor struct {
	alerts   domain.AlertRepository
	users    domain.UserRepository
	email    domain.EmailScheduler
	calendar domain.EarningsCalendar
	reports  domain.ReportProvider
	now      func() time.Time
	logger   *zap.Logger
}

func NewAfterAlertProcessor(alerts domain.AlertRepository, users domain.UserRepository, email domain.EmailScheduler, calendar domain.EarningsCalendar, reports domain.ReportProvider, now func() time.Time, logger *zap.Logger) *AfterAlertProcessor {
	if now == nil {
		now = time.Now
	}
	return &AfterAlertProcessor{
		alerts:   alerts,
		users:    users,
		email:    email,
		calendar: calendar,
		reports:  reports,
		now:      now,
		logger:   logger,
	}
}

type afterOutcome struct {
	sent    bool
	renewed bool
	closed  bool
}

// Run sweeps every active After alert once. Only a failure to list alerts is
// returned; failures on a single alert are logged and the sweep moves on.
func (p *AfterAlertProcessor) Run(ctx context.Context) (domain.AlertRunStats, error) {
	var stats domain.AlertRunStats

	alerts, err := p.alerts.ListByStatusAndType(ctx, domain.AlertActive, domain.AlertAfter)
	if err != nil {
		return stats, fmt.Errorf("list active after alerts: %w", err)
	}

	today := datemath.Today(p.now())
	p.logger.Info("after alert sweep start", zap.Int("candidates", len(alerts)), zap.String("today", datemath.Format(today)))

	for i := range alerts {
		alert := &alerts[i]
		if !datemath.IsDue(alert.TriggerDate(), today) {
			stats.Skipped++
			continue
		}

		stats.Processed++
		outcome, err := p.processSafely(ctx, alert)
		if outcome.sent {
			stats.Sent++
		}
		if err != nil {
			stats.Failed++
			p.logger.Warn(
				"after alert processing failed",
				zap.String("alert_id", alert.ID.String()),
				zap.String("symbol", alert.Symbol),
				zap.Error(err),
			)
			continue
		}
		if outcome.renewed {
			stats.Renewed++
		}
		if outcome.closed {
			stats.Closed++
		}
	}

	p.logger.Info(
		"after alert sweep complete",
		zap.Int("processed", stats.Processed),
		zap.Int("sent", stats.Sent),
		zap.Int("renewed", stats.Renewed),
		zap.Int("closed", stats.Closed),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (p *AfterAlertProcessor) processSafely(ctx context.Context, alert *domain.Alert) (outcome afterOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing alert: %v", r)
		}
	}()
	return p.process(ctx, alert)
}

func (p *AfterAlertProcessor) process(ctx context.Context, alert *domain.Alert) (afterOutcome, error) {
	var outcome afterOutcome

	user, err := p.users.GetByID(ctx, alert.UserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		p.logger.Info("alert owner missing, skipping send", zap.String("alert_id", alert.ID.String()), zap.Uint("user_id", alert.UserID))
		user = nil
	case err != nil:
		return outcome, fmt.Errorf("load user %d: %w", alert.UserID, err)
	}

	if user != nil && user.WantsEmail() {
		outcome.sent = p.send(ctx, alert, user)
	} else if user != nil {
		p.logger.Info("alert owner opted out of email", zap.String("alert_id", alert.ID.String()), zap.Uint("user_id", user.ID))
	}

	if alert.Recurring {
		next, found, err := p.calendar.NextEarningsDate(ctx, alert.Symbol, alert.EarningsDate)
		if err != nil {
			return outcome, fmt.Errorf("next earnings date for %s: %w", alert.Symbol, err)
		}
		if found {
			alert.RollForward(next)
			outcome.renewed = true
		} else {
			alert.MarkSent()
			outcome.closed = true
		}
	} else {
		alert.MarkSent()
		outcome.closed = true
	}

	if err := p.alerts.Update(ctx, alert); err != nil {
		return afterOutcome{sent: outcome.sent}, fmt.Errorf("store alert transition: %w", err)
	}

	if outcome.renewed {
		p.logger.Info(
			"recurring alert rolled forward",
			zap.String("alert_id", alert.ID.String()),
			zap.String("earnings_date", datemath.Format(alert.EarningsDate)),
		)
	}
	return outcome, nil
}

// send delivers the after-earnings email immediately. Report figures are
// optional and their absence only trims the message.
func (p *AfterAlertProcessor) send(ctx context.Context, alert *domain.Alert, user *domain.User) bool {
	var report *domain.EarningsReport
	if p.reports != nil {
		r, err := p.reports.LatestReport(ctx, alert.Symbol)
		if err != nil {
			p.logger.Debug("report data unavailable", zap.String("symbol", alert.Symbol), zap.Error(err))
		} else {
			report = r
		}
	}

	msg := afterAlertMessage(alert, user, report)
	id, err := p.email.Schedule(ctx, msg, nil)
	if err != nil {
		p.logger.Warn(
			"failed to send after alert email",
			zap.String("alert_id", alert.ID.String()),
			zap.String("symbol", alert.Symbol),
			zap.Error(err),
		)
		return false
	}

	p.logger.Info("after alert email sent", zap.String("alert_id", alert.ID.String()), zap.String("email_id", id))
	return true
}
