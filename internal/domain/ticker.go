package domain

import "time"

type Ticker struct {
	Symbol           string
	Exchange         string
	Description      string
	Industry         string
	Sector           string
	IsActive         bool
	ProfileFetchedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NeedsEnrichment reports whether the ticker is due a classification lookup:
// never attempted, or attempted without result at least retryAfter ago.
func (t *Ticker) NeedsEnrichment(now time.Time, retryAfter time.Duration) bool {
	if t.ProfileFetchedAt == nil {
		return true
	}
	if t.Industry != "" {
		return false
	}
	return !t.ProfileFetchedAt.After(now.Add(-retryAfter))
}

// Classify sets industry and the sector derived from it.
func (t *Ticker) Classify(industry string, fetchedAt time.Time) {
	t.Industry = industry
	t.Sector = SectorForIndustry(industry)
	fetched := fetchedAt
	t.ProfileFetchedAt = &fetched
}
