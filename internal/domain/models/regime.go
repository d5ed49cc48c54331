package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RegimeLabel is the categorical market-state judgment.
type RegimeLabel string

const (
	RiskOn  RegimeLabel = "risk_on"
	RiskOff RegimeLabel = "risk_off"
)

// ParseRegimeLabel matches "Risk On" / "risk_on" case-insensitively; anything else is RiskOff.
func ParseRegimeLabel(s string) RegimeLabel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "risk on", "risk_on", "risk-on", "riskon":
		return RiskOn
	default:
		return RiskOff
	}
}

// RegimeFromFlag maps the 0/1 risk_on column.
func RegimeFromFlag(on bool) RegimeLabel {
	if on {
		return RiskOn
	}
	return RiskOff
}

// Display returns the human label ("Risk On" / "Risk Off").
func (r RegimeLabel) Display() string {
	if r == RiskOn {
		return "Risk On"
	}
	return "Risk Off"
}

// RegimeSnapshot is the single most recent regime record produced offline.
type RegimeSnapshot struct {
	CalculationDate time.Time
	TargetDate      time.Time
	Regime          RegimeLabel
	Action          string
	Shibor2W        decimal.NullDecimal
	RSI5            decimal.NullDecimal
	LastUpdated     string
}
