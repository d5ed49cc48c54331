package usecase

import (
	"context"

	"EigenFlow/internal/domain/models"
	"EigenFlow/internal/services/access"
	"EigenFlow/pkg/logger"
	"EigenFlow/pkg/util"
)

// Unlock validates raw and, when it passes, unlocks sess with the normalized key.
// Attempts are throttled per session and per client address.
func (uc *DashboardUseCase) Unlock(_ context.Context, sess *models.Session, client, raw string) (models.AccessStatus, error) {
	if uc.limiter != nil && !uc.limiter.Allow(sess.ID, client) {
		uc.validator.RecordThrottled()
		uc.log.Warn("access attempts throttled",
			logger.String("session", sess.ID),
			logger.String("client", client),
		)
		return models.AccessStatus{}, ErrTooManyAttempts
	}

	res := uc.validator.Validate(sess, raw)
	if !res.Valid {
		if res.Expired && uc.opts.DistinctExpiryMessage {
			return models.AccessStatus{}, ErrKeyExpired
		}
		return models.AccessStatus{}, ErrInvalidKey
	}

	sess.Unlock(access.Normalize(raw), res.KeyMask)
	uc.log.Info("session unlocked",
		logger.String("session", sess.ID),
		logger.String("key", res.KeyMask),
		logger.Int("days_remaining", res.DaysRemaining),
	)
	return accessStatus(res), nil
}

// Status reports the current unlock state of sess.
func (uc *DashboardUseCase) Status(_ context.Context, sess *models.Session) models.AccessStatus {
	if _, ok := uc.unlocked(sess); !ok {
		return models.AccessStatus{Watermark: Watermark("")}
	}
	key, _ := sess.Verified()
	return accessStatus(uc.validator.Recheck(sess, key))
}

// Lock clears the unlocked key. First-use dates are kept, so a later unlock
// continues the same validity window.
func (uc *DashboardUseCase) Lock(_ context.Context, sess *models.Session) models.AccessStatus {
	sess.Lock()
	return models.AccessStatus{Watermark: Watermark("")}
}

func accessStatus(res models.ValidationResult) models.AccessStatus {
	return models.AccessStatus{
		Unlocked:      true,
		KeyMask:       res.KeyMask,
		FirstSeen:     util.FormatDate(res.FirstSeen),
		DaysRemaining: res.DaysRemaining,
		Watermark:     Watermark(res.KeyMask),
	}
}
