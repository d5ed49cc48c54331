package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryRecord is one trading day's regime reading.
// EffectiveDate is always CalculationDate + 1 calendar day.
type HistoryRecord struct {
	CalculationDate time.Time
	EffectiveDate   time.Time
	Shibor2W        decimal.NullDecimal
	PriceChangePct  decimal.NullDecimal
	RSI5            decimal.NullDecimal
	RiskOn          bool
	// UpdateTime is only present in the latest-reading file.
	UpdateTime string
}

func (h HistoryRecord) Regime() RegimeLabel { return RegimeFromFlag(h.RiskOn) }
