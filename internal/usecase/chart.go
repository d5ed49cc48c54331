package usecase

import (
	"context"
	"strings"

	"EigenFlow/internal/domain/models"
	"EigenFlow/pkg/util"
)

var (
	shanghaiPrefixes = []string{"600", "601", "603", "605", "688"}
	shenzhenPrefixes = []string{"000", "001", "002", "003", "300", "301"}
)

// TradingViewSymbol maps a mainland stock code to its exchange-qualified chart symbol.
// Unknown prefixes default to Shanghai.
func TradingViewSymbol(code string) string {
	code = util.PadCode(code)
	for _, p := range shenzhenPrefixes {
		if strings.HasPrefix(code, p) {
			return "SZSE:" + code
		}
	}
	for _, p := range shanghaiPrefixes {
		if strings.HasPrefix(code, p) {
			return "SSE:" + code
		}
	}
	return "SSE:" + code
}

// Chart returns the chart view for an unlocked session. Symbol options come from the
// top-10 list; an explicit symbol may be any 6-digit code.
func (uc *DashboardUseCase) Chart(ctx context.Context, sess *models.Session, symbol string) (models.ChartView, error) {
	mask, ok := uc.unlocked(sess)
	if !ok {
		return models.ChartView{}, ErrLocked
	}

	view := models.ChartView{Options: []models.ChartOption{}, Watermark: Watermark(mask)}
	if res := uc.data.LoadTopSignals(ctx); res.OK() {
		for _, r := range res.Value {
			if r.Symbol == "" {
				continue
			}
			view.Options = append(view.Options, models.ChartOption{
				Rank:     r.Rank,
				Symbol:   r.Symbol,
				TVSymbol: TradingViewSymbol(r.Symbol),
			})
		}
	}
	if latest := uc.data.LoadLatest(ctx); latest.OK() {
		view.Regime = latest.Value.Regime()
	}

	if symbol = strings.TrimSpace(symbol); symbol != "" {
		code := util.PadCode(symbol)
		if len(code) != 6 || !util.IsDigits(code) {
			return models.ChartView{}, ErrInvalidSymbol
		}
		view.Symbol = code
	} else if len(view.Options) > 0 {
		view.Symbol = view.Options[0].Symbol
	}
	if view.Symbol != "" {
		view.TVSymbol = TradingViewSymbol(view.Symbol)
	}
	return view, nil
}
