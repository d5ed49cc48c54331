package usecase

import (
	"context"
	"errors"
	"sync"

	"EigenFlow/internal/domain/models"
	"EigenFlow/internal/service/ratelimit"
	"EigenFlow/internal/services/access"
	"EigenFlow/internal/services/loader"
	"EigenFlow/pkg/logger"
	"EigenFlow/pkg/util"
)

var (
	ErrLocked          = errors.New("content is locked")
	ErrInvalidKey      = errors.New("invalid or expired access key")
	ErrKeyExpired      = errors.New("access key expired")
	ErrTooManyAttempts = errors.New("too many access attempts")
	ErrInvalidSymbol   = errors.New("symbol must be a 6-digit code")
)

// DataLoader is the read side of the data files.
type DataLoader interface {
	LoadSnapshot(ctx context.Context) loader.Result[models.RegimeSnapshot]
	LoadTopSignals(ctx context.Context) loader.Result[[]models.SignalRow]
	LoadHistory(ctx context.Context) loader.Result[[]models.HistoryRecord]
	LoadLatest(ctx context.Context) loader.Result[models.HistoryRecord]
}

type Options struct {
	// PreviewLimit is how many signal rows a locked session sees.
	PreviewLimit int
	// HistoryLimit is the default number of history records shown.
	HistoryLimit int
	// DistinctExpiryMessage tells an expired key apart from an unknown one.
	DistinctExpiryMessage bool
}

// DashboardUseCase composes the loader and the access validator into page views.
type DashboardUseCase struct {
	data      DataLoader
	validator *access.Validator
	limiter   *ratelimit.Guard
	opts      Options
	log       *logger.Logger
}

func NewDashboardUseCase(data DataLoader, validator *access.Validator, limiter *ratelimit.Guard, opts Options, log *logger.Logger) *DashboardUseCase {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 30
	}
	if opts.PreviewLimit < 0 {
		opts.PreviewLimit = 0
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{data: data, validator: validator, limiter: limiter, opts: opts, log: log}
}

// Regime builds the regime card from the snapshot and, when present, the latest reading.
func (uc *DashboardUseCase) Regime(ctx context.Context) models.RegimeCard {
	var (
		wg     sync.WaitGroup
		snap   loader.Result[models.RegimeSnapshot]
		latest loader.Result[models.HistoryRecord]
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		snap = uc.data.LoadSnapshot(ctx)
	}()
	go func() {
		defer wg.Done()
		latest = uc.data.LoadLatest(ctx)
	}()
	wg.Wait()

	return regimeCard(snap, latest)
}

func regimeCard(snap loader.Result[models.RegimeSnapshot], latest loader.Result[models.HistoryRecord]) models.RegimeCard {
	card := models.RegimeCard{Shibor2W: util.Placeholder, RSI5: util.Placeholder}
	if !snap.OK() && !latest.OK() {
		card.Reason = snap.Reason()
		return card
	}
	card.Available = true

	if snap.OK() {
		s := snap.Value
		card.Regime = s.Regime
		card.CalculationDate = util.FormatDate(s.CalculationDate)
		card.TargetDate = util.FormatDate(s.TargetDate)
		card.Action = s.Action
		card.Shibor2W = util.FormatRate(s.Shibor2W)
		card.RSI5 = util.FormatFixed(s.RSI5, 1)
		card.UpdatedAt = util.DatePart(s.LastUpdated)
	}

	if latest.OK() {
		l := latest.Value
		card.Regime = l.Regime()
		if l.Shibor2W.Valid {
			card.Shibor2W = util.FormatRate(l.Shibor2W)
		}
		if l.RSI5.Valid {
			card.RSI5 = util.FormatFixed(l.RSI5, 1)
		}
		if u := util.DatePart(l.UpdateTime); u != "" {
			card.UpdatedAt = u
		}
		if card.CalculationDate == "" {
			card.CalculationDate = util.FormatDate(l.CalculationDate)
			card.TargetDate = util.FormatDate(l.EffectiveDate)
		}
	}

	card.Label = card.Regime.Display()
	return card
}

// Signals returns the full table for an unlocked session and a short preview otherwise.
func (uc *DashboardUseCase) Signals(ctx context.Context, sess *models.Session) models.SignalsView {
	mask, unlocked := uc.unlocked(sess)
	view := models.SignalsView{Unlocked: unlocked, Rows: []models.SignalView{}, Watermark: Watermark(mask)}

	res := uc.data.LoadTopSignals(ctx)
	if !res.OK() {
		view.Reason = res.Reason()
		return view
	}
	view.Available = true
	view.Total = len(res.Value)

	rows := res.Value
	if !unlocked && len(rows) > uc.opts.PreviewLimit {
		rows = rows[:uc.opts.PreviewLimit]
	}
	view.Hidden = view.Total - len(rows)
	for _, r := range rows {
		view.Rows = append(view.Rows, signalView(r))
	}
	return view
}

func signalView(r models.SignalRow) models.SignalView {
	return models.SignalView{
		Rank:       r.Rank,
		Symbol:     r.Symbol,
		AlphaScore: util.FormatScore(r.AlphaScore),
		Return1D:   util.FormatPercent(r.Return1D),
		Return20D:  util.FormatPercent(r.Return20D),
		Size:       r.Size,
		Liquidity:  r.Liquidity,
	}
}

// unlocked reports whether sess holds a key that is still inside its window.
// An unlocked session whose key has since expired is locked again.
func (uc *DashboardUseCase) unlocked(sess *models.Session) (mask string, ok bool) {
	if sess == nil {
		return "", false
	}
	key, mask := sess.Verified()
	if key == "" {
		return "", false
	}
	if !uc.validator.Recheck(sess, key).Valid {
		sess.Lock()
		return "", false
	}
	return mask, true
}

// Watermark is the footer text shown under gated content.
func Watermark(mask string) string {
	if mask == "" {
		return "EigenFlow Research"
	}
	return "Access key " + mask + " | personal research use only"
}
