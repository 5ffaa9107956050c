package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NasaVasa/earnwatch/internal/domain"
	"go.uber.org/zap"
)

const providerName = "email"

var ErrMissingID = errors.New("email provider returned no id")

type Client struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey, from string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type sendRequest struct {
	From        string   `json:"from"`
	To          []string `json:"to"`
	Subject     string   `json:"subject"`
	Text        string   `json:"text"`
	ScheduledAt string   `json:"scheduled_at,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// Schedule submits the message. A nil sendAt sends immediately.
func (c *Client) Schedule(ctx context.Context, msg domain.EmailMessage, sendAt *time.Time) (string, error) {
	payload := sendRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
	}
	if sendAt != nil {
		payload.ScheduledAt = sendAt.UTC().Format(time.RFC3339)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	headers := http.Header{}
	if msg.IdempotencyKey != "" {
		headers.Set("Idempotency-Key", msg.IdempotencyKey)
	}

	var out sendResponse
	if err := c.do(ctx, http.MethodPost, "/emails", body, headers, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", ErrMissingID
	}
	return out.ID, nil
}

func (c *Client) Cancel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/emails/"+url.PathEscape(id)+"/cancel", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, headers http.Header, out any) error {
	endpoint := c.baseURL + path
	request, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	for key, values := range headers {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	c.logger.Info("email request start", zap.String("method", method), zap.String("url", endpoint))
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("email request failed", zap.String("url", endpoint), zap.Error(err))
		return err
	}
	defer response.Body.Close()

	c.logger.Info(
		"email request complete",
		zap.String("method", method),
		zap.String("url", endpoint),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &domain.ProviderError{Provider: providerName, Status: response.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
