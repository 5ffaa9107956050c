package usecase

import (
	"fmt"
	"strings"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/NasaVasa/earnwatch/internal/domain"
)

func beforeAlertMessage(alert *domain.Alert, user *domain.User, daysBefore int) domain.EmailMessage {
	var when string
	switch daysBefore {
	case 0:
		when = "today"
	case 1:
		when = "tomorrow"
	default:
		when = fmt.Sprintf("in %d days", daysBefore)
	}

	var body strings.Builder
	body.WriteString(greeting(user))
	body.WriteString(fmt.Sprintf("%s reports earnings %s, on %s.\n", alert.Symbol, when, datemath.Format(alert.EarningsDate)))

	return domain.EmailMessage{
		To:             user.Email,
		Subject:        fmt.Sprintf("%s reports earnings %s", alert.Symbol, when),
		Text:           body.String(),
		IdempotencyKey: alert.IdempotencyKey(),
	}
}

func afterAlertMessage(alert *domain.Alert, user *domain.User, report *domain.EarningsReport) domain.EmailMessage {
	var body strings.Builder
	body.WriteString(greeting(user))
	body.WriteString(fmt.Sprintf("%s reported earnings on %s.\n", alert.Symbol, datemath.Format(alert.EarningsDate)))

	if report != nil {
		if report.Actual != nil {
			body.WriteString(fmt.Sprintf("EPS: %s", report.Actual.StringFixed(2)))
			if report.Estimate != nil {
				body.WriteString(fmt.Sprintf(" (estimate %s)", report.Estimate.StringFixed(2)))
			}
			body.WriteString("\n")
		}
		if report.SurprisePercent != nil {
			body.WriteString(fmt.Sprintf("Surprise: %s%%\n", report.SurprisePercent.StringFixed(2)))
		}
	} else {
		body.WriteString("Report figures are not available yet.\n")
	}

	return domain.EmailMessage{
		To:             user.Email,
		Subject:        fmt.Sprintf("%s earnings are out", alert.Symbol),
		Text:           body.String(),
		IdempotencyKey: alert.IdempotencyKey(),
	}
}

func greeting(user *domain.User) string {
	name := strings.TrimSpace(user.Name)
	if name == "" {
		return "Hi,\n\n"
	}
	return fmt.Sprintf("Hi %s,\n\n", name)
}
