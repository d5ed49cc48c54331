package loader

import (
	"context"
	"fmt"
	"strconv"

	"EigenFlow/internal/domain/models"
	"EigenFlow/pkg/util"
)

// Column names of the top-10 file, preferred name first.
var (
	colRank      = []string{"Rank"}
	colSymbol    = []string{"Symbol", "Code"}
	colScore     = []string{"Alpha Score", "Score"}
	colReturn1D  = []string{"1D Return", "Return_1D"}
	colReturn20D = []string{"20D Momentum", "Return_20D"}
	colSize      = []string{"Size"}
	colLiquidity = []string{"Liquidity"}
)

// LoadTopSignals reads the ranked signal list. Rows keep file order.
func (l *Loader) LoadTopSignals(ctx context.Context) Result[[]models.SignalRow] {
	name := l.resolve(ctx, l.files.Top10)
	b, err := l.fetch(ctx, "signals", name, l.ttl.Signals)
	if err != nil {
		return finish(l, "signals", fetchErr[[]models.SignalRow](err, name))
	}
	return finish(l, "signals", parseSignals(b, name))
}

func parseSignals(b []byte, name string) Result[[]models.SignalRow] {
	t, err := readTable(b)
	if err != nil {
		return failed[[]models.SignalRow](err, name)
	}
	if t == nil {
		return empty[[]models.SignalRow](name)
	}
	if !t.has("Rank") {
		return failed[[]models.SignalRow](fmt.Errorf("%w: Rank", ErrMissingColumn), name)
	}
	if len(t.rows) == 0 {
		return empty[[]models.SignalRow](name)
	}

	var (
		iRank  = t.col(colRank...)
		iSym   = t.col(colSymbol...)
		iScore = t.col(colScore...)
		i1D    = t.col(colReturn1D...)
		i20D   = t.col(colReturn20D...)
		iSize  = t.col(colSize...)
		iLiq   = t.col(colLiquidity...)
	)

	rows := make([]models.SignalRow, 0, len(t.rows))
	seen := make(map[int]struct{}, len(t.rows))
	for n, rec := range t.rows {
		rank := n + 1
		if v := cell(rec, iRank); v != "" {
			r, err := parseRank(v)
			if err != nil {
				return failed[[]models.SignalRow](fmt.Errorf("row %d: %w", n+1, err), name)
			}
			rank = r
		}
		if rank < 1 {
			return failed[[]models.SignalRow](fmt.Errorf("row %d: %w: %d", n+1, ErrInvalidRank, rank), name)
		}
		if _, dup := seen[rank]; dup {
			return failed[[]models.SignalRow](fmt.Errorf("row %d: %w: %d repeated", n+1, ErrInvalidRank, rank), name)
		}
		seen[rank] = struct{}{}
		row := models.SignalRow{
			Rank:       rank,
			AlphaScore: util.ParseDecimal(cell(rec, iScore)),
			Return1D:   util.ParsePercent(cell(rec, i1D)),
			Return20D:  util.ParsePercent(cell(rec, i20D)),
			Size:       orPlaceholder(cell(rec, iSize)),
			Liquidity:  orPlaceholder(cell(rec, iLiq)),
		}
		if sym := cell(rec, iSym); sym != "" {
			row.Symbol = util.PadCode(sym)
		}
		rows = append(rows, row)
	}
	return ok(rows, name)
}

// parseRank accepts "3" and the float form "3.0" some CSV writers emit.
func parseRank(s string) (int, error) {
	if r, err := strconv.Atoi(s); err == nil {
		return r, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid rank %q", s)
	}
	return int(f), nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return util.Placeholder
	}
	return s
}
