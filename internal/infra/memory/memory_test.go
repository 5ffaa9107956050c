package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/NasaVasa/earnwatch/internal/domain"
)

func TestAlertRepositoryStoresCopies(t *testing.T) {
	repo := NewAlertRepository()
	ctx := context.Background()
	alert, _ := domain.NewAfterAlert(1, "AAPL", datemath.Date(2024, time.December, 15), 1, true)
	if err := repo.Create(ctx, alert); err != nil {
		t.Fatalf("Create: %v", err)
	}

	alert.MarkSent()
	got, _ := repo.GetByID(ctx, alert.ID)
	if got.Status != domain.AlertActive {
		t.Fatalf("mutating the caller's value must not change the store")
	}
	if days, ok := got.DaysAfter(); !ok || days != 1 {
		t.Fatalf("offset lost: %d, %v", days, ok)
	}

	if err := repo.Delete(ctx, alert.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Update(ctx, alert); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTickerRepositoryEnrichmentOrder(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -45)
	older := now.AddDate(0, 0, -60)
	repo := NewTickerRepository(
		domain.Ticker{Symbol: "B", IsActive: true, ProfileFetchedAt: &old},
		domain.Ticker{Symbol: "A", IsActive: true, ProfileFetchedAt: &older},
		domain.Ticker{Symbol: "C", IsActive: true},
		domain.Ticker{Symbol: "D", IsActive: false},
	)

	got, err := repo.ListNeedingEnrichment(context.Background(), now, 30*24*time.Hour, 0)
	if err != nil {
		t.Fatalf("ListNeedingEnrichment: %v", err)
	}
	if len(got) != 3 || got[0].Symbol != "C" || got[1].Symbol != "A" || got[2].Symbol != "B" {
		t.Fatalf("unexpected order: %+v", got)
	}
}
