package access

import (
	"time"

	"EigenFlow/internal/domain/models"
	domrepo "EigenFlow/internal/domain/repository"
	"EigenFlow/pkg/logger"
	"EigenFlow/pkg/util"
)

const (
	OutcomeValid     = "valid"
	OutcomeInvalid   = "invalid"
	OutcomeExpired   = "expired"
	OutcomeThrottled = "throttled"
)

// Validator checks access keys against an allow-list and a validity window
// that starts the first time a key is used in a session.
type Validator struct {
	allowed      map[string]struct{}
	validityDays int
	loc          *time.Location
	now          domrepo.Clock
	metrics      domrepo.Metrics
	log          *logger.Logger
}

// Option configures Validator.
type Option func(*Validator)

func WithClock(now domrepo.Clock) Option {
	return func(v *Validator) { v.now = now }
}

// WithLocation sets the timezone whose calendar days are counted.
func WithLocation(loc *time.Location) Option {
	return func(v *Validator) {
		if loc != nil {
			v.loc = loc
		}
	}
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(v *Validator) { v.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.log = l
		}
	}
}

func NewValidator(keys []string, validityDays int, opts ...Option) *Validator {
	v := &Validator{
		allowed:      make(map[string]struct{}, len(keys)),
		validityDays: validityDays,
		loc:          time.UTC,
		now:          time.Now,
		log:          logger.Nop(),
	}
	for _, k := range keys {
		if k = Normalize(k); k != "" {
			v.allowed[k] = struct{}{}
		}
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Today is the current calendar day in the validator's timezone.
func (v *Validator) Today() time.Time {
	return util.CalendarDate(v.now().In(v.loc))
}

// Validate checks raw against the allow-list and the session's first-use record.
// The first sight of an allowed key records today as its first-use date.
func (v *Validator) Validate(sess *models.Session, raw string) models.ValidationResult {
	res := v.evaluate(sess, Normalize(raw))
	switch {
	case res.Valid:
		v.record(OutcomeValid, res.KeyMask)
	case res.Expired:
		v.record(OutcomeExpired, MaskKey(Normalize(raw)))
	default:
		v.record(OutcomeInvalid, "")
	}
	return res
}

// Recheck evaluates a key already unlocked in sess. Nothing is recorded.
func (v *Validator) Recheck(sess *models.Session, key string) models.ValidationResult {
	return v.evaluate(sess, key)
}

func (v *Validator) evaluate(sess *models.Session, key string) models.ValidationResult {
	if _, ok := v.allowed[key]; !ok || sess == nil {
		return models.ValidationResult{}
	}

	today := v.Today()
	first, _ := sess.FirstSeen(key, today)
	elapsed := util.DaysBetween(first, today)
	if elapsed >= v.validityDays {
		return models.ValidationResult{Expired: true, FirstSeen: first}
	}
	return models.ValidationResult{
		Valid:         true,
		KeyMask:       MaskKey(key),
		FirstSeen:     first,
		DaysRemaining: v.validityDays - elapsed,
	}
}

// RecordThrottled counts a submission rejected before validation.
func (v *Validator) RecordThrottled() {
	v.record(OutcomeThrottled, "")
}

func (v *Validator) record(outcome, mask string) {
	if v.metrics != nil {
		v.metrics.RecordValidation(outcome)
	}
	v.log.Debug("access key checked", logger.String("outcome", outcome), logger.String("key", mask))
}
