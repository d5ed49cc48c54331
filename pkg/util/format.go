package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder is rendered wherever a value is missing or unparsable.
const Placeholder = "—"

// ParseDecimal parses a numeric cell. Empty, "nan" and "null" cells are invalid (null).
func ParseDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "-", Placeholder:
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParsePercent parses a percent cell that may or may not carry a '%' suffix or '+' sign.
func ParsePercent(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "+")
	return ParseDecimal(s)
}

// FormatPercent renders a signed percent with two decimals: "+3.25%", "-3.25%", "0.00%".
func FormatPercent(v decimal.NullDecimal) string {
	return FormatPercentPlaces(v, 2)
}

// FormatPercentPlaces is FormatPercent with a custom number of decimals.
func FormatPercentPlaces(v decimal.NullDecimal, places int32) string {
	if !v.Valid {
		return Placeholder
	}
	sign := ""
	if v.Decimal.IsPositive() {
		sign = "+"
	}
	return sign + v.Decimal.StringFixed(places) + "%"
}

// FormatPercentRaw parses and re-renders a raw percent cell.
func FormatPercentRaw(raw string) string {
	return FormatPercent(ParsePercent(raw))
}

// FormatFixed renders a decimal with a fixed number of places, or the placeholder.
func FormatFixed(v decimal.NullDecimal, places int32) string {
	if !v.Valid {
		return Placeholder
	}
	return v.Decimal.StringFixed(places)
}

// FormatScore renders an alpha score with two decimals.
func FormatScore(v decimal.NullDecimal) string {
	return FormatFixed(v, 2)
}

// FormatRate renders an interest rate with three decimals and a percent sign: "1.525%".
func FormatRate(v decimal.NullDecimal) string {
	if !v.Valid {
		return Placeholder
	}
	return v.Decimal.StringFixed(3) + "%"
}
