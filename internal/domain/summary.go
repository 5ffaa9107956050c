package domain

type DailySummary struct {
	AlertsProcessed int    `json:"alertsProcessed"`
	EmailsSent      int    `json:"emailsSent"`
	AlertsRenewed   int    `json:"alertsRenewed"`
	NewTickers      int    `json:"newTickers"`
	DelistedTickers int    `json:"delistedTickers"`
	EnrichedTickers int    `json:"enrichedTickers"`
	DurationMs      int64  `json:"durationMs"`
	AlertsFailed    bool   `json:"alertsFailed"`
	TickersFailed   bool   `json:"tickersFailed"`
	Failed          bool   `json:"failed"`
	AlertsError     string `json:"alertsError,omitempty"`
	TickersError    string `json:"tickersError,omitempty"`
}

type AlertRunStats struct {
	Processed int
	Sent      int
	Renewed   int
	Closed    int
	Skipped   int
	Failed    int
}

type TickerSyncStats struct {
	New            int
	Delisted       int
	Enriched       int
	EnrichFailed   int
	ExchangeErrors int
}
