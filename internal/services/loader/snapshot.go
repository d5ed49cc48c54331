package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"EigenFlow/internal/domain/models"
	"EigenFlow/pkg/util"

	"github.com/shopspring/decimal"
)

// LoadSnapshot reads the regime snapshot JSON object.
func (l *Loader) LoadSnapshot(ctx context.Context) Result[models.RegimeSnapshot] {
	name := l.resolve(ctx, l.files.Snapshot)
	b, err := l.fetch(ctx, "snapshot", name, l.ttl.Snapshot)
	if err != nil {
		return finish(l, "snapshot", fetchErr[models.RegimeSnapshot](err, name))
	}
	return finish(l, "snapshot", parseSnapshot(b, name))
}

func parseSnapshot(b []byte, name string) Result[models.RegimeSnapshot] {
	b = stripBOM(b)
	if len(strings.TrimSpace(string(b))) == 0 {
		return empty[models.RegimeSnapshot](name)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return failed[models.RegimeSnapshot](fmt.Errorf("decode snapshot: %w", err), name)
	}
	if len(raw) == 0 {
		return empty[models.RegimeSnapshot](name)
	}

	field := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := raw[k]; ok {
				if s := scalar(v); s != "" {
					return s
				}
			}
		}
		return ""
	}

	var snap models.RegimeSnapshot
	if s := field("calculation_date", "date"); s != "" {
		d, err := util.ParseDate(s)
		if err != nil {
			return failed[models.RegimeSnapshot](fmt.Errorf("calculation_date: %w", err), name)
		}
		snap.CalculationDate = d
	}
	if s := field("target_date"); s != "" {
		d, err := util.ParseDate(s)
		if err != nil {
			return failed[models.RegimeSnapshot](fmt.Errorf("target_date: %w", err), name)
		}
		snap.TargetDate = d
	} else if !snap.CalculationDate.IsZero() {
		snap.TargetDate = util.EffectiveDate(snap.CalculationDate)
	}

	switch {
	case field("market_regime", "risk_flag") != "":
		snap.Regime = models.ParseRegimeLabel(field("market_regime", "risk_flag"))
	default:
		v := util.ParseDecimal(field("risk_value", "risk_on"))
		snap.Regime = models.RegimeFromFlag(v.Valid && v.Decimal.Equal(decimal.NewFromInt(1)))
	}

	snap.Action = field("action")
	snap.Shibor2W = util.ParseDecimal(field("shibor_2w"))
	snap.RSI5 = util.ParseDecimal(field("rsi_5"))
	snap.LastUpdated = field("last_updated", "update_time")

	return ok(snap, name)
}

// scalar renders a JSON string, number or bool as text; null and composites are "".
func scalar(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		if b {
			return "1"
		}
		return "0"
	}
	return ""
}
