package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/NasaVasa/earnwatch/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NewAPI connects to the Bot API at endpoint (tgbotapi.APIEndpoint in
// production). Every call, including the initial getMe, is bounded by timeout.
func NewAPI(token, endpoint string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: timeout})
}

// Notifier posts the daily run summary to an operations chat.
type Notifier struct {
	api    sender
	chatID int64
	logger *zap.Logger
}

func NewNotifier(api sender, chatID int64, logger *zap.Logger) *Notifier {
	return &Notifier{api: api, chatID: chatID, logger: logger}
}

func (n *Notifier) Report(ctx context.Context, summary domain.DailySummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := formatSummary(summary)
	n.logger.Info("telegram summary send", zap.Int64("chat_id", n.chatID))
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Warn("failed to send summary", zap.Int64("chat_id", n.chatID), zap.Error(err))
		return err
	}
	return nil
}

func formatSummary(summary domain.DailySummary) string {
	var b strings.Builder
	switch {
	case summary.Failed:
		b.WriteString("Daily run FAILED\n")
	case summary.AlertsFailed || summary.TickersFailed:
		b.WriteString("Daily run completed with errors\n")
	default:
		b.WriteString("Daily run completed\n")
	}

	fmt.Fprintf(&b, "Alerts processed: %d\n", summary.AlertsProcessed)
	fmt.Fprintf(&b, "Emails sent: %d\n", summary.EmailsSent)
	fmt.Fprintf(&b, "Alerts renewed: %d\n", summary.AlertsRenewed)
	fmt.Fprintf(&b, "New tickers: %d\n", summary.NewTickers)
	fmt.Fprintf(&b, "Delisted tickers: %d\n", summary.DelistedTickers)
	fmt.Fprintf(&b, "Enriched tickers: %d\n", summary.EnrichedTickers)
	fmt.Fprintf(&b, "Duration: %dms", summary.DurationMs)

	if summary.AlertsError != "" {
		fmt.Fprintf(&b, "\nAlert sweep error: %s", summary.AlertsError)
	}
	if summary.TickersError != "" {
		fmt.Fprintf(&b, "\nTicker sync error: %s", summary.TickersError)
	}
	return b.String()
}
