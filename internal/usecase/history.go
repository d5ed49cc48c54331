package usecase

import (
	"context"

	"EigenFlow/internal/domain/models"
	"EigenFlow/pkg/util"
)

// History returns the most recent limit records, newest first, with on/off day counts.
// The configured history limit is both the default and the ceiling.
func (uc *DashboardUseCase) History(ctx context.Context, sess *models.Session, limit int) models.HistoryView {
	if limit <= 0 || limit > uc.opts.HistoryLimit {
		limit = uc.opts.HistoryLimit
	}
	mask, _ := uc.unlocked(sess)
	view := models.HistoryView{Records: []models.HistoryEntry{}, Current: models.RiskOff, Watermark: Watermark(mask)}

	res := uc.data.LoadHistory(ctx)
	latest := uc.data.LoadLatest(ctx)

	if !res.OK() {
		view.Reason = res.Reason()
		if latest.OK() {
			view.Current = latest.Value.Regime()
		}
		return view
	}
	view.Available = true

	recent := res.Value
	if len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}
	for i := len(recent) - 1; i >= 0; i-- {
		r := recent[i]
		view.Records = append(view.Records, historyEntry(r))
		if r.RiskOn {
			view.Stats.RiskOnDays++
		}
	}
	view.Stats.TotalDays = len(recent)
	view.Stats.RiskOffDays = view.Stats.TotalDays - view.Stats.RiskOnDays

	switch {
	case latest.OK():
		view.Current = latest.Value.Regime()
	case len(recent) > 0:
		view.Current = recent[len(recent)-1].Regime()
	}
	return view
}

func historyEntry(r models.HistoryRecord) models.HistoryEntry {
	regime := r.Regime()
	return models.HistoryEntry{
		CalculationDate: util.FormatDate(r.CalculationDate),
		EffectiveDate:   util.FormatDate(r.EffectiveDate),
		Regime:          regime,
		Label:           regime.Display(),
		RSI5:            util.FormatFixed(r.RSI5, 1),
		Shibor2W:        util.FormatRate(r.Shibor2W),
		PriceChange:     util.FormatPercentPlaces(r.PriceChangePct, 1),
	}
}
