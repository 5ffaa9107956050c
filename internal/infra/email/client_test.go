package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NasaVasa/earnwatch/internal/domain"
	"go.uber.org/zap"
)

func TestScheduleForwardDated(t *testing.T) {
	var got sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key-1" {
			t.Errorf("missing bearer token")
		}
		if r.Header.Get("Idempotency-Key") != "abc:before:2024-02-28" {
			t.Errorf("idempotency key = %q", r.Header.Get("Idempotency-Key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"em_123"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-1", "Alerts <alerts@example.com>", time.Second, zap.NewNop())
	sendAt := time.Date(2024, time.February, 28, 13, 0, 0, 0, time.UTC)
	id, err := client.Schedule(context.Background(), domain.EmailMessage{
		To:             "ada@example.com",
		Subject:        "AAPL reports earnings in 2 days",
		Text:           "body",
		IdempotencyKey: "abc:before:2024-02-28",
	}, &sendAt)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if id != "em_123" {
		t.Fatalf("id = %q", id)
	}
	if got.ScheduledAt != "2024-02-28T13:00:00Z" || len(got.To) != 1 || got.To[0] != "ada@example.com" || got.From != "Alerts <alerts@example.com>" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestScheduleImmediateOmitsSendTime(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = w.Write([]byte(`{"id":"em_1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-1", "alerts@example.com", time.Second, zap.NewNop())
	if _, err := client.Schedule(context.Background(), domain.EmailMessage{To: "ada@example.com"}, nil); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, ok := raw["scheduled_at"]; ok {
		t.Fatalf("immediate send must not carry scheduled_at: %v", raw)
	}
}

func TestScheduleErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"rejected", http.StatusUnprocessableEntity, `{"message":"invalid"}`, func(err error) bool {
			var perr *domain.ProviderError
			return errors.As(err, &perr) && perr.Status == http.StatusUnprocessableEntity
		}},
		{"missing id", http.StatusOK, `{}`, func(err error) bool { return errors.Is(err, ErrMissingID) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "key-1", "alerts@example.com", time.Second, zap.NewNop())
			_, err := client.Schedule(context.Background(), domain.EmailMessage{To: "ada@example.com"}, nil)
			if !tc.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCancel(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-1", "alerts@example.com", time.Second, zap.NewNop())
	if err := client.Cancel(context.Background(), "em_123"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if path != "/emails/em_123/cancel" {
		t.Fatalf("path = %q", path)
	}
}
