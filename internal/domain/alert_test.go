package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/NasaVasa/earnwatch/internal/datemath"
)

func TestNewBeforeAlert(t *testing.T) {
	earnings := datemath.Date(2024, time.March, 1)
	alert, err := NewBeforeAlert(7, " aapl ", earnings, 2)
	if err != nil {
		t.Fatalf("NewBeforeAlert: %v", err)
	}
	if alert.Symbol != "AAPL" || alert.Status != AlertActive || alert.Recurring {
		t.Fatalf("unexpected alert: %+v", alert)
	}
	if days, ok := alert.DaysBefore(); !ok || days != 2 {
		t.Fatalf("DaysBefore = %d, %v", days, ok)
	}
	if _, ok := alert.DaysAfter(); ok {
		t.Fatalf("before alert must not expose DaysAfter")
	}
	if got := alert.SendDate(); !got.Equal(datemath.Date(2024, time.February, 28)) {
		t.Fatalf("SendDate = %s", datemath.Format(got))
	}
}

func TestNewAlertRejectsInvalidInput(t *testing.T) {
	earnings := datemath.Date(2024, time.March, 1)
	cases := []struct {
		name string
		make func() (*Alert, error)
	}{
		{"empty symbol", func() (*Alert, error) { return NewAfterAlert(1, "  ", earnings, 1, false) }},
		{"negative offset", func() (*Alert, error) { return NewBeforeAlert(1, "AAPL", earnings, -1) }},
		{"zero date", func() (*Alert, error) { return NewAfterAlert(1, "AAPL", time.Time{}, 1, false) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.make(); !errors.Is(err, ErrInvalidAlert) {
				t.Fatalf("expected ErrInvalidAlert, got %v", err)
			}
		})
	}
}

func TestRestoreAlertEnforcesSingleOffset(t *testing.T) {
	one, two := 1, 2
	if _, err := RestoreAlert(AlertBefore, &one, &two); !errors.Is(err, ErrInvalidAlert) {
		t.Fatalf("both offsets should be rejected, got %v", err)
	}
	if _, err := RestoreAlert(AlertAfter, &one, nil); !errors.Is(err, ErrInvalidAlert) {
		t.Fatalf("mismatched offset should be rejected, got %v", err)
	}
	alert, err := RestoreAlert(AlertAfter, nil, &two)
	if err != nil {
		t.Fatalf("RestoreAlert: %v", err)
	}
	if days, ok := alert.DaysAfter(); !ok || days != 2 {
		t.Fatalf("DaysAfter = %d, %v", days, ok)
	}
}

func TestRollForwardReactivates(t *testing.T) {
	alert, err := NewAfterAlert(1, "AAPL", datemath.Date(2024, time.December, 15), 1, true)
	if err != nil {
		t.Fatalf("NewAfterAlert: %v", err)
	}
	alert.MarkSent()
	alert.RollForward(time.Date(2025, time.March, 15, 20, 30, 0, 0, time.UTC))
	if !alert.IsActive() {
		t.Fatalf("rolled alert should be active")
	}
	if !alert.EarningsDate.Equal(datemath.Date(2025, time.March, 15)) {
		t.Fatalf("EarningsDate = %s", datemath.Format(alert.EarningsDate))
	}
	if days, _ := alert.DaysAfter(); days != 1 {
		t.Fatalf("offset changed to %d", days)
	}
}

func TestIdempotencyKey(t *testing.T) {
	before, _ := NewBeforeAlert(1, "AAPL", datemath.Date(2024, time.March, 1), 2)
	if got, want := before.IdempotencyKey(), before.ID.String()+":before:2024-02-28"; got != want {
		t.Fatalf("key = %s, want %s", got, want)
	}
	first := before.IdempotencyKey()
	_ = before.SetOffset(3)
	if before.IdempotencyKey() == first {
		t.Fatalf("rescheduled before alert should get a new key")
	}

	after, _ := NewAfterAlert(1, "AAPL", datemath.Date(2024, time.December, 15), 1, true)
	if got, want := after.IdempotencyKey(), after.ID.String()+":after:2024-12-15"; got != want {
		t.Fatalf("key = %s, want %s", got, want)
	}
}

func TestParseAlertType(t *testing.T) {
	if got, err := ParseAlertType(" After "); err != nil || got != AlertAfter {
		t.Fatalf("ParseAlertType = %q, %v", got, err)
	}
	if _, err := ParseAlertType("during"); !errors.Is(err, ErrInvalidAlert) {
		t.Fatalf("expected ErrInvalidAlert, got %v", err)
	}
}
