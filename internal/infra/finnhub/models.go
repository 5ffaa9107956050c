package finnhub

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

type calendarResponse struct {
	EarningsCalendar []calendarEntry `json:"earningsCalendar"`
}

type calendarEntry struct {
	Date        string          `json:"date"`
	Hour        string          `json:"hour"`
	Symbol      string          `json:"symbol"`
	Quarter     int             `json:"quarter"`
	Year        int             `json:"year"`
	EpsEstimate NullableDecimal `json:"epsEstimate"`
	EpsActual   NullableDecimal `json:"epsActual"`
}

type symbolEntry struct {
	Symbol        string `json:"symbol"`
	DisplaySymbol string `json:"displaySymbol"`
	Description   string `json:"description"`
	Mic           string `json:"mic"`
	Type          string `json:"type"`
}

type profileResponse struct {
	Ticker          string `json:"ticker"`
	Name            string `json:"name"`
	FinnhubIndustry string `json:"finnhubIndustry"`
}

type earningsEntry struct {
	Symbol          string          `json:"symbol"`
	Period          string          `json:"period"`
	Actual          NullableDecimal `json:"actual"`
	Estimate        NullableDecimal `json:"estimate"`
	SurprisePercent NullableDecimal `json:"surprisePercent"`
}

// NullableDecimal accepts numbers, quoted numbers and null.
type NullableDecimal struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (n *NullableDecimal) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || bytes.Equal([]byte(trimmed), []byte("null")) {
		n.Valid = false
		return nil
	}
	trimmed = strings.Trim(trimmed, "\"")
	if trimmed == "" {
		n.Valid = false
		return nil
	}
	dec, err := decimal.NewFromString(trimmed)
	if err != nil {
		n.Valid = false
		return err
	}
	n.Decimal = dec
	n.Valid = true
	return nil
}

func (n NullableDecimal) Ptr() *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	value := n.Decimal
	return &value
}
