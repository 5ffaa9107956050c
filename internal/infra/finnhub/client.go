package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/NasaVasa/earnwatch/internal/domain"
	"go.uber.org/zap"
)

const providerName = "finnhub"

var errNoContent = errors.New("finnhub: not found")

type Client struct {
	baseURL   string
	token     string
	lookahead time.Duration
	client    *http.Client
	logger    *zap.Logger
}

func NewClient(baseURL, token string, timeout, lookahead time.Duration, logger *zap.Logger) *Client {
	if lookahead <= 0 {
		lookahead = 365 * 24 * time.Hour
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		lookahead: lookahead,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// NextEarningsDate looks up the calendar window (after, after+lookahead] and
// returns the earliest scheduled date strictly after the given day.
func (c *Client) NextEarningsDate(ctx context.Context, symbol string, after time.Time) (time.Time, bool, error) {
	from := datemath.Day(after).AddDate(0, 0, 1)
	to := datemath.Day(after.Add(c.lookahead))
	if to.Before(from) {
		to = from
	}

	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("from", datemath.Format(from))
	query.Set("to", datemath.Format(to))

	var payload calendarResponse
	if err := c.get(ctx, "/calendar/earnings", query, &payload); err != nil {
		if errors.Is(err, errNoContent) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}

	var next time.Time
	found := false
	for _, entry := range payload.EarningsCalendar {
		if entry.Symbol != "" && !strings.EqualFold(entry.Symbol, symbol) {
			continue
		}
		date, err := datemath.Parse(entry.Date)
		if err != nil {
			c.logger.Warn("skipping malformed calendar entry", zap.String("symbol", symbol), zap.String("date", entry.Date))
			continue
		}
		if !date.After(datemath.Day(after)) {
			continue
		}
		if !found || date.Before(next) {
			next = date
			found = true
		}
	}
	return next, found, nil
}

func (c *Client) ListSymbols(ctx context.Context, exchange string) ([]domain.ListedSymbol, error) {
	query := url.Values{}
	query.Set("exchange", "US")
	query.Set("mic", exchange)

	var payload []symbolEntry
	if err := c.get(ctx, "/stock/symbol", query, &payload); err != nil {
		if errors.Is(err, errNoContent) {
			return nil, nil
		}
		return nil, err
	}

	listed := make([]domain.ListedSymbol, 0, len(payload))
	for _, entry := range payload {
		symbol := entry.Symbol
		if symbol == "" {
			symbol = entry.DisplaySymbol
		}
		if symbol == "" {
			continue
		}
		listed = append(listed, domain.ListedSymbol{Symbol: symbol, Description: entry.Description})
	}
	return listed, nil
}

func (c *Client) Classify(ctx context.Context, symbol string) (string, bool, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	var payload profileResponse
	if err := c.get(ctx, "/stock/profile2", query, &payload); err != nil {
		if errors.Is(err, errNoContent) {
			return "", false, nil
		}
		return "", false, err
	}

	industry := strings.TrimSpace(payload.FinnhubIndustry)
	if industry == "" || strings.EqualFold(industry, "N/A") {
		return "", false, nil
	}
	return industry, true, nil
}

// LatestReport returns the most recent reported quarter, or nil when the
// provider has none.
func (c *Client) LatestReport(ctx context.Context, symbol string) (*domain.EarningsReport, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("limit", "1")

	var payload []earningsEntry
	if err := c.get(ctx, "/stock/earnings", query, &payload); err != nil {
		if errors.Is(err, errNoContent) {
			return nil, nil
		}
		return nil, err
	}

	var latest *domain.EarningsReport
	for _, entry := range payload {
		period, err := datemath.Parse(entry.Period)
		if err != nil {
			continue
		}
		if latest != nil && !period.After(latest.Period) {
			continue
		}
		latest = &domain.EarningsReport{
			Symbol:          symbol,
			Period:          period,
			Actual:          entry.Actual.Ptr(),
			Estimate:        entry.Estimate.Ptr(),
			SurprisePercent: entry.SurprisePercent.Ptr(),
		}
	}
	return latest, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + query.Encode()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	// The token travels as a header so it never lands in the logged url.
	request.Header.Set("X-Finnhub-Token", c.token)
	request.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logger.Debug("finnhub request start", zap.String("url", endpoint))
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("finnhub request failed", zap.String("url", endpoint), zap.Error(err))
		return err
	}
	defer response.Body.Close()

	c.logger.Info(
		"finnhub request complete",
		zap.String("url", endpoint),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode == http.StatusNotFound {
		return errNoContent
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &domain.ProviderError{Provider: providerName, Status: response.StatusCode}
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
