package models

// View models returned by the dashboard API. Numeric fields are pre-formatted
// strings; missing values render as "—".

type RegimeCard struct {
	Available       bool        `json:"available"`
	Reason          string      `json:"reason,omitempty"`
	Regime          RegimeLabel `json:"regime,omitempty"`
	Label           string      `json:"label,omitempty"`
	CalculationDate string      `json:"calculation_date,omitempty"`
	TargetDate      string      `json:"target_date,omitempty"`
	Action          string      `json:"action,omitempty"`
	Shibor2W        string      `json:"shibor_2w"`
	RSI5            string      `json:"rsi_5"`
	UpdatedAt       string      `json:"updated_at,omitempty"`
}

type SignalView struct {
	Rank       int    `json:"rank"`
	Symbol     string `json:"symbol"`
	AlphaScore string `json:"alpha_score"`
	Return1D   string `json:"return_1d"`
	Return20D  string `json:"return_20d"`
	Size       string `json:"size"`
	Liquidity  string `json:"liquidity"`
}

type SignalsView struct {
	Unlocked  bool         `json:"unlocked"`
	Available bool         `json:"available"`
	Reason    string       `json:"reason,omitempty"`
	Rows      []SignalView `json:"rows"`
	Total     int          `json:"total"`
	// Hidden is the number of rows withheld from a locked preview.
	Hidden    int    `json:"hidden"`
	Watermark string `json:"watermark"`
}

type ChartOption struct {
	Rank     int    `json:"rank"`
	Symbol   string `json:"symbol"`
	TVSymbol string `json:"tv_symbol"`
}

type ChartView struct {
	Symbol    string        `json:"symbol,omitempty"`
	TVSymbol  string        `json:"tv_symbol,omitempty"`
	Options   []ChartOption `json:"options"`
	Regime    RegimeLabel   `json:"regime,omitempty"`
	Watermark string        `json:"watermark"`
}

type HistoryEntry struct {
	CalculationDate string      `json:"calculation_date"`
	EffectiveDate   string      `json:"effective_date"`
	Regime          RegimeLabel `json:"regime"`
	Label           string      `json:"label"`
	RSI5            string      `json:"rsi_5"`
	Shibor2W        string      `json:"shibor_2w"`
	PriceChange     string      `json:"price_change"`
}

type HistoryStats struct {
	TotalDays   int `json:"total_days"`
	RiskOnDays  int `json:"risk_on_days"`
	RiskOffDays int `json:"risk_off_days"`
}

type HistoryView struct {
	Available bool           `json:"available"`
	Reason    string         `json:"reason,omitempty"`
	Records   []HistoryEntry `json:"records"`
	Stats     HistoryStats   `json:"stats"`
	Current   RegimeLabel    `json:"current"`
	Watermark string         `json:"watermark"`
}

type AccessStatus struct {
	Unlocked      bool   `json:"unlocked"`
	KeyMask       string `json:"key_mask,omitempty"`
	FirstSeen     string `json:"first_seen,omitempty"`
	DaysRemaining int    `json:"days_remaining,omitempty"`
	Watermark     string `json:"watermark"`
}
