package models

import "github.com/shopspring/decimal"

// SignalRow is one ranked trading candidate from the top-10 file.
type SignalRow struct {
	Rank       int
	Symbol     string
	AlphaScore decimal.NullDecimal
	Return1D   decimal.NullDecimal
	Return20D  decimal.NullDecimal
	Size       string
	Liquidity  string
}
