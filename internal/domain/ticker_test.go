package domain

import (
	"testing"
	"time"
)

func TestNeedsEnrichment(t *testing.T) {
	now := time.Date(2024, time.June, 1, 6, 0, 0, 0, time.UTC)
	retry := 30 * 24 * time.Hour
	tenDaysAgo := now.AddDate(0, 0, -10)
	fortyDaysAgo := now.AddDate(0, 0, -40)

	cases := []struct {
		name   string
		ticker Ticker
		want   bool
	}{
		{"never fetched", Ticker{Symbol: "NEW"}, true},
		{"classified", Ticker{Symbol: "AAPL", Industry: "Technology", ProfileFetchedAt: &fortyDaysAgo}, false},
		{"unclassified recently", Ticker{Symbol: "XYZ", ProfileFetchedAt: &tenDaysAgo}, false},
		{"unclassified long ago", Ticker{Symbol: "XYZ", ProfileFetchedAt: &fortyDaysAgo}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ticker.NeedsEnrichment(now, retry); got != tc.want {
				t.Fatalf("NeedsEnrichment = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClassifyDerivesSector(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	ticker := Ticker{Symbol: "NVDA"}
	ticker.Classify("Semiconductors", now)
	if ticker.Sector != "Information Technology" {
		t.Fatalf("Sector = %q", ticker.Sector)
	}
	if ticker.ProfileFetchedAt == nil || !ticker.ProfileFetchedAt.Equal(now) {
		t.Fatalf("ProfileFetchedAt not stamped")
	}

	ticker.Classify("", now)
	if ticker.Industry != "" || ticker.Sector != "" {
		t.Fatalf("empty classification should clear sector, got %+v", ticker)
	}
}

func TestSectorForIndustry(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"Pharmaceuticals": "Health Care",
		"  media ":        "Communication Services",
		"Quantum Widgets": SectorOther,
	}
	for industry, want := range cases {
		if got := SectorForIndustry(industry); got != want {
			t.Fatalf("SectorForIndustry(%q) = %q, want %q", industry, got, want)
		}
	}
}
