package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/NasaVasa/earnwatch/internal/domain"
	"go.uber.org/zap"
)

// ScheduleResult is the outcome of scheduling a Before alert. Scheduled is
// false when no email was queued, which is an expected outcome.
type ScheduleResult struct {
	EmailID   string
	Scheduled bool
	SendAt    time.Time
}

type BeforeAlertScheduler struct {
	email       domain.EmailScheduler
	sendHourUTC int
	now         func() time.Time
	logger      *zap.Logger
}

func NewBeforeAlertScheduler(email domain.EmailScheduler, sendHourUTC int, now func() time.Time, logger *zap.Logger) *BeforeAlertScheduler {
	if now == nil {
		now = time.Now
	}
	return &BeforeAlertScheduler{email: email, sendHourUTC: sendHourUTC, now: now, logger: logger}
}

// Schedule queues the forward-dated reminder for a Before alert and records
// the provider id on the alert. Provider failures are logged and reported as
// not scheduled; they never fail the caller.
func (s *BeforeAlertScheduler) Schedule(ctx context.Context, alert *domain.Alert, user *domain.User) (ScheduleResult, error) {
	daysBefore, ok := alert.DaysBefore()
	if !ok {
		return ScheduleResult{}, fmt.Errorf("%w: alert %s is not a before alert", domain.ErrInvalidAlert, alert.ID)
	}

	sendDate := datemath.ScheduledSendDate(alert.EarningsDate, daysBefore)
	sendAt := datemath.SendInstant(sendDate, s.sendHourUTC)
	result := ScheduleResult{SendAt: sendAt}

	if !datemath.IsFuture(sendAt, s.now()) {
		s.logger.Info(
			"before alert send time already passed",
			zap.String("alert_id", alert.ID.String()),
			zap.String("symbol", alert.Symbol),
			zap.Time("send_at", sendAt),
		)
		return result, nil
	}
	if user == nil || !user.WantsEmail() {
		s.logger.Info("before alert not scheduled, email disabled", zap.String("alert_id", alert.ID.String()))
		return result, nil
	}

	msg := beforeAlertMessage(alert, user, daysBefore)
	id, err := s.email.Schedule(ctx, msg, &sendAt)
	if err != nil {
		s.logger.Warn(
			"failed to schedule before alert email",
			zap.String("alert_id", alert.ID.String()),
			zap.String("symbol", alert.Symbol),
			zap.Error(err),
		)
		return result, nil
	}

	alert.ScheduledEmailID = id
	result.EmailID = id
	result.Scheduled = true
	s.logger.Info(
		"before alert email scheduled",
		zap.String("alert_id", alert.ID.String()),
		zap.String("email_id", id),
		zap.Time("send_at", sendAt),
	)
	return result, nil
}
