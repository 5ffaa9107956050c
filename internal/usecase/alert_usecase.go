package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/NasaVasa/earnwatch/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxOffsetDays = 365

var (
	ErrUserNotRegistered = errors.New("user not registered")
	ErrAlertNotFound     = errors.New("alert not found")
	ErrAlertClosed       = errors.New("alert is no longer active")
	ErrInvalidOffset     = errors.New("invalid day offset")
	ErrInvalidSymbol     = errors.New("invalid symbol")
	ErrNoEarningsDate    = errors.New("no upcoming earnings date")
)

type AlertInput struct {
	Symbol       string
	Type         domain.AlertType
	Days         int
	Recurring    bool
	EarningsDate *time.Time
}

// AlertUpdate carries the editable fields; nil leaves a field unchanged.
type AlertUpdate struct {
	Days         *int
	Recurring    *bool
	EarningsDate *time.Time
}

type AlertUsecase struct {
	users     domain.UserRepository
	alerts    domain.AlertRepository
	calendar  domain.EarningsCalendar
	email     domain.EmailScheduler
	scheduler *BeforeAlertScheduler
	now       func() time.Time
	logger    *zap.Logger
}

func NewAlertUsecase(users domain.UserRepository, alerts domain.AlertRepository, calendar domain.EarningsCalendar, email domain.EmailScheduler, scheduler *BeforeAlertScheduler, now func() time.Time, logger *zap.Logger) *AlertUsecase {
	if now == nil {
		now = time.Now
	}
	return &AlertUsecase{users: users, alerts: alerts, calendar: calendar, email: email, scheduler: scheduler, now: now, logger: logger}
}

func (u *AlertUsecase) AddAlert(ctx context.Context, userID uint, input AlertInput) (*domain.Alert, error) {
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	symbol := domain.NormalizeSymbol(input.Symbol)
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	if input.Days < 0 || input.Days > MaxOffsetDays {
		return nil, ErrInvalidOffset
	}

	earningsDate, err := u.resolveEarningsDate(ctx, symbol, input.EarningsDate)
	if err != nil {
		return nil, err
	}

	var alert *domain.Alert
	switch input.Type {
	case domain.AlertBefore:
		if input.Recurring {
			return nil, fmt.Errorf("%w: only after alerts can recur", domain.ErrInvalidAlert)
		}
		alert, err = domain.NewBeforeAlert(user.ID, symbol, earningsDate, input.Days)
	case domain.AlertAfter:
		alert, err = domain.NewAfterAlert(user.ID, symbol, earningsDate, input.Days, input.Recurring)
	default:
		err = fmt.Errorf("%w: unknown alert type %q", domain.ErrInvalidAlert, input.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := u.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}

	if alert.Type == domain.AlertBefore {
		u.scheduleBefore(ctx, alert, user)
	}

	return alert, nil
}

func (u *AlertUsecase) ListAlerts(ctx context.Context, userID uint) ([]domain.Alert, error) {
	if _, err := u.loadUser(ctx, userID); err != nil {
		return nil, err
	}
	return u.alerts.ListByUser(ctx, userID)
}

func (u *AlertUsecase) UpdateAlert(ctx context.Context, userID uint, alertID uuid.UUID, update AlertUpdate) (*domain.Alert, error) {
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	alert, err := u.loadOwnedAlert(ctx, userID, alertID)
	if err != nil {
		return nil, err
	}
	if !alert.IsActive() {
		return nil, ErrAlertClosed
	}

	previousDate := alert.EarningsDate
	previousDays := alert.Offset()

	if update.Days != nil {
		if *update.Days < 0 || *update.Days > MaxOffsetDays {
			return nil, ErrInvalidOffset
		}
		if err := alert.SetOffset(*update.Days); err != nil {
			return nil, err
		}
	}
	if update.EarningsDate != nil {
		alert.EarningsDate = datemath.Day(*update.EarningsDate)
	}
	if update.Recurring != nil {
		if *update.Recurring && alert.Type != domain.AlertAfter {
			return nil, fmt.Errorf("%w: only after alerts can recur", domain.ErrInvalidAlert)
		}
		alert.Recurring = *update.Recurring
	}

	reschedule := alert.Type == domain.AlertBefore &&
		(!alert.EarningsDate.Equal(previousDate) || alert.Offset() != previousDays)
	if reschedule {
		// The previous send stays with the provider; it is not cancelled.
		alert.ScheduledEmailID = ""
	}

	if err := u.alerts.Update(ctx, alert); err != nil {
		return nil, err
	}
	if reschedule {
		u.scheduleBefore(ctx, alert, user)
	}
	return alert, nil
}

func (u *AlertUsecase) DeleteAlert(ctx context.Context, userID uint, alertID uuid.UUID) error {
	if _, err := u.loadUser(ctx, userID); err != nil {
		return err
	}
	alert, err := u.loadOwnedAlert(ctx, userID, alertID)
	if err != nil {
		return err
	}

	if err := u.alerts.Delete(ctx, alert.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}

	if alert.IsActive() {
		u.cancelScheduled(ctx, alert)
	}
	return nil
}

// CancelAlert closes an active alert without removing it, so it stays in the
// user's history as cancelled. A pending scheduled send is cancelled best effort.
func (u *AlertUsecase) CancelAlert(ctx context.Context, userID uint, alertID uuid.UUID) (*domain.Alert, error) {
	if _, err := u.loadUser(ctx, userID); err != nil {
		return nil, err
	}
	alert, err := u.loadOwnedAlert(ctx, userID, alertID)
	if err != nil {
		return nil, err
	}
	if !alert.IsActive() {
		return nil, ErrAlertClosed
	}

	alert.Cancel()
	if err := u.alerts.Update(ctx, alert); err != nil {
		return nil, err
	}
	u.cancelScheduled(ctx, alert)
	return alert, nil
}

// scheduleBefore persists the alert with whatever the scheduler produced. A
// failed write of the email id is logged only: the alert already exists.
func (u *AlertUsecase) scheduleBefore(ctx context.Context, alert *domain.Alert, user *domain.User) {
	result, err := u.scheduler.Schedule(ctx, alert, user)
	if err != nil {
		u.logger.Warn("before alert scheduling rejected", zap.String("alert_id", alert.ID.String()), zap.Error(err))
		return
	}
	if !result.Scheduled {
		return
	}
	if err := u.alerts.Update(ctx, alert); err != nil {
		u.logger.Warn("failed to store scheduled email id", zap.String("alert_id", alert.ID.String()), zap.Error(err))
	}
}

func (u *AlertUsecase) cancelScheduled(ctx context.Context, alert *domain.Alert) {
	if alert.ScheduledEmailID == "" {
		return
	}
	if err := u.email.Cancel(ctx, alert.ScheduledEmailID); err != nil {
		u.logger.Warn(
			"failed to cancel scheduled email",
			zap.String("alert_id", alert.ID.String()),
			zap.String("email_id", alert.ScheduledEmailID),
			zap.Error(err),
		)
	}
}

func (u *AlertUsecase) resolveEarningsDate(ctx context.Context, symbol string, given *time.Time) (time.Time, error) {
	if given != nil {
		return datemath.Day(*given), nil
	}
	yesterday := datemath.Today(u.now()).AddDate(0, 0, -1)
	next, ok, err := u.calendar.NextEarningsDate(ctx, symbol, yesterday)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, ErrNoEarningsDate
	}
	return next, nil
}

func (u *AlertUsecase) loadUser(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotRegistered
		}
		return nil, err
	}
	return user, nil
}

func (u *AlertUsecase) loadOwnedAlert(ctx context.Context, userID uint, alertID uuid.UUID) (*domain.Alert, error) {
	alert, err := u.alerts.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	if alert.UserID != userID {
		return nil, ErrAlertNotFound
	}
	return alert, nil
}
