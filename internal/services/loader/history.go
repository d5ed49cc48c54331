package loader

import (
	"context"
	"fmt"
	"strings"

	"EigenFlow/internal/domain/models"
	"EigenFlow/pkg/util"

	"github.com/shopspring/decimal"
)

// Column names of the history and latest files.
var (
	colDate        = []string{"date", "calculation_date"}
	colShibor      = []string{"shibor_2w"}
	colPriceChange = []string{"涨跌", "price_change_pct", "change"}
	colRSI         = []string{"rsi_5"}
	colRiskOn      = []string{"risk_on"}
	colUpdateTime  = []string{"update_time"}
)

// LoadHistory reads the full regime history in file order.
// Every record gets EffectiveDate = CalculationDate + 1 calendar day.
func (l *Loader) LoadHistory(ctx context.Context) Result[[]models.HistoryRecord] {
	name := l.files.History
	b, err := l.fetch(ctx, "history", name, l.ttl.History)
	if err != nil {
		return finish(l, "history", fetchErr[[]models.HistoryRecord](err, name))
	}
	return finish(l, "history", parseHistory(b, name))
}

// LoadLatest reads the first row of the latest-reading file.
func (l *Loader) LoadLatest(ctx context.Context) Result[models.HistoryRecord] {
	name := l.files.Latest
	if name == "" {
		return empty[models.HistoryRecord](name)
	}
	b, err := l.fetch(ctx, "latest", name, l.ttl.Snapshot)
	if err != nil {
		return finish(l, "latest", fetchErr[models.HistoryRecord](err, name))
	}
	r := parseHistory(b, name)
	if !r.OK() {
		return finish(l, "latest", Result[models.HistoryRecord]{Status: r.Status, Err: r.Err, Source: name})
	}
	return finish(l, "latest", ok(r.Value[0], name))
}

func parseHistory(b []byte, name string) Result[[]models.HistoryRecord] {
	t, err := readTable(b)
	if err != nil {
		return failed[[]models.HistoryRecord](err, name)
	}
	if t == nil {
		return empty[[]models.HistoryRecord](name)
	}
	iDate := t.col(colDate...)
	if iDate < 0 {
		return failed[[]models.HistoryRecord](fmt.Errorf("%w: date", ErrMissingColumn), name)
	}
	if len(t.rows) == 0 {
		return empty[[]models.HistoryRecord](name)
	}

	var (
		iShibor = t.col(colShibor...)
		iChange = t.col(colPriceChange...)
		iRSI    = t.col(colRSI...)
		iRisk   = t.col(colRiskOn...)
		iUpdate = t.col(colUpdateTime...)
	)

	out := make([]models.HistoryRecord, 0, len(t.rows))
	for n, rec := range t.rows {
		calc, err := util.ParseDate(cell(rec, iDate))
		if err != nil {
			return failed[[]models.HistoryRecord](fmt.Errorf("row %d: %w", n+1, err), name)
		}
		out = append(out, models.HistoryRecord{
			CalculationDate: calc,
			EffectiveDate:   util.EffectiveDate(calc),
			Shibor2W:        util.ParseDecimal(cell(rec, iShibor)),
			PriceChangePct:  util.ParsePercent(cell(rec, iChange)),
			RSI5:            util.ParseDecimal(cell(rec, iRSI)),
			RiskOn:          parseFlag(cell(rec, iRisk)),
			UpdateTime:      cell(rec, iUpdate),
		})
	}
	return ok(out, name)
}

// parseFlag reads a 0/1 column; "1", "1.0" and "true" are on, anything else is off.
func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes":
		return true
	}
	v := util.ParseDecimal(s)
	return v.Valid && v.Decimal.Equal(decimal.NewFromInt(1))
}
