package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/google/uuid"
)

var ErrInvalidAlert = errors.New("invalid alert")

type AlertType string

const (
	AlertBefore AlertType = "before"
	AlertAfter  AlertType = "after"
)

func ParseAlertType(value string) (AlertType, error) {
	switch AlertType(strings.ToLower(strings.TrimSpace(value))) {
	case AlertBefore:
		return AlertBefore, nil
	case AlertAfter:
		return AlertAfter, nil
	default:
		return "", fmt.Errorf("%w: unknown alert type %q", ErrInvalidAlert, value)
	}
}

type AlertStatus string

const (
	AlertActive    AlertStatus = "active"
	AlertSent      AlertStatus = "sent"
	AlertCancelled AlertStatus = "cancelled"
)

// Alert is either a Before or an After alert. The single day offset is read
// through DaysBefore or DaysAfter, whichever matches Type, so the two offsets
// can never both be set.
type Alert struct {
	ID               uuid.UUID
	UserID           uint
	Symbol           string
	Type             AlertType
	offset           int
	Recurring        bool
	EarningsDate     time.Time
	ScheduledEmailID string
	Status           AlertStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewBeforeAlert(userID uint, symbol string, earningsDate time.Time, daysBefore int) (*Alert, error) {
	return newAlert(userID, symbol, AlertBefore, earningsDate, daysBefore, false)
}

func NewAfterAlert(userID uint, symbol string, earningsDate time.Time, daysAfter int, recurring bool) (*Alert, error) {
	return newAlert(userID, symbol, AlertAfter, earningsDate, daysAfter, recurring)
}

// RestoreAlert rebuilds an alert from persisted columns. Exactly one of the
// offsets must be present and it must match alertType.
func RestoreAlert(alertType AlertType, daysBefore, daysAfter *int) (Alert, error) {
	switch alertType {
	case AlertBefore:
		if daysBefore == nil || daysAfter != nil || *daysBefore < 0 {
			return Alert{}, fmt.Errorf("%w: before alert needs only days_before", ErrInvalidAlert)
		}
		return Alert{Type: AlertBefore, offset: *daysBefore}, nil
	case AlertAfter:
		if daysAfter == nil || daysBefore != nil || *daysAfter < 0 {
			return Alert{}, fmt.Errorf("%w: after alert needs only days_after", ErrInvalidAlert)
		}
		return Alert{Type: AlertAfter, offset: *daysAfter}, nil
	default:
		return Alert{}, fmt.Errorf("%w: unknown alert type %q", ErrInvalidAlert, alertType)
	}
}

func newAlert(userID uint, symbol string, alertType AlertType, earningsDate time.Time, offset int, recurring bool) (*Alert, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidAlert)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidAlert)
	}
	if earningsDate.IsZero() {
		return nil, fmt.Errorf("%w: earnings date is required", ErrInvalidAlert)
	}
	if alertType == AlertBefore && recurring {
		return nil, fmt.Errorf("%w: only after alerts can recur", ErrInvalidAlert)
	}
	return &Alert{
		ID:           uuid.New(),
		UserID:       userID,
		Symbol:       symbol,
		Type:         alertType,
		offset:       offset,
		Recurring:    recurring,
		EarningsDate: datemath.Day(earningsDate),
		Status:       AlertActive,
	}, nil
}

func (a *Alert) DaysBefore() (int, bool) {
	if a.Type != AlertBefore {
		return 0, false
	}
	return a.offset, true
}

func (a *Alert) DaysAfter() (int, bool) {
	if a.Type != AlertAfter {
		return 0, false
	}
	return a.offset, true
}

// Offset is the day offset regardless of variant.
func (a *Alert) Offset() int {
	return a.offset
}

// SetOffset replaces the day offset of an existing alert without changing its
// variant.
func (a *Alert) SetOffset(days int) error {
	if days < 0 {
		return fmt.Errorf("%w: offset must not be negative", ErrInvalidAlert)
	}
	a.offset = days
	return nil
}

func (a *Alert) SendDate() time.Time {
	return datemath.ScheduledSendDate(a.EarningsDate, a.offset)
}

func (a *Alert) TriggerDate() time.Time {
	return datemath.TriggerDate(a.EarningsDate, a.offset)
}

func (a *Alert) IsActive() bool {
	return a.Status == AlertActive
}

func (a *Alert) MarkSent() {
	a.Status = AlertSent
}

func (a *Alert) Cancel() {
	a.Status = AlertCancelled
}

// RollForward re-targets a recurring alert at its next earnings date.
func (a *Alert) RollForward(next time.Time) {
	a.EarningsDate = datemath.Day(next)
	a.Status = AlertActive
}

// IdempotencyKey identifies one delivery of this alert: the send date for a
// Before alert, the earnings date for an After alert. Providers use it to drop
// duplicate sends.
func (a *Alert) IdempotencyKey() string {
	date := a.EarningsDate
	if a.Type == AlertBefore {
		date = a.SendDate()
	}
	return fmt.Sprintf("%s:%s:%s", a.ID, a.Type, datemath.Format(date))
}

func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
