package access

import (
	"bytes"
	"testing"
	"time"

	"EigenFlow/internal/domain/models"
	"EigenFlow/pkg/logger"
	"EigenFlow/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeys = []string{"EF-26Q1-A9F4KZ2M", "EF-26Q1-B3H8LP5N", "ef-26q1-c7j2mr9r "}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestValidator(c *clock) *Validator {
	return NewValidator(testKeys, 30, WithClock(c.now))
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestValidateUnknownKey(t *testing.T) {
	c := &clock{t: time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)}
	v := newTestValidator(c)
	sess := models.NewSession("s1", c.t)

	for _, k := range []string{"", "EF-0000-00000000", "EF-26Q1-A9F4KZ2", "hello"} {
		res := v.Validate(sess, k)
		assert.False(t, res.Valid, k)
		assert.False(t, res.Expired, k)
	}
}

func TestValidateFirstUse(t *testing.T) {
	c := &clock{t: time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)}
	v := newTestValidator(c)
	sess := models.NewSession("s1", c.t)

	res := v.Validate(sess, "  ef-26q1-a9f4kz2m ")
	require.True(t, res.Valid)
	assert.Equal(t, day(2026, 2, 9), res.FirstSeen)
	assert.Equal(t, "EF-26Q1-****KZ2M", res.KeyMask)
	assert.Equal(t, 30, res.DaysRemaining)

	c.t = c.t.Add(5 * time.Hour)
	again := v.Validate(sess, "EF-26Q1-A9F4KZ2M")
	require.True(t, again.Valid)
	assert.Equal(t, res.FirstSeen, again.FirstSeen)

	// config entries are normalized too
	assert.True(t, v.Validate(sess, "EF-26Q1-C7J2MR9R").Valid)
}

func TestValidateExpiryWindow(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	v := newTestValidator(c)
	sess := models.NewSession("s1", c.t)

	require.True(t, v.Validate(sess, "EF-26Q1-B3H8LP5N").Valid)

	c.t = time.Date(2026, 1, 30, 23, 0, 0, 0, time.UTC) // 29 days later
	res := v.Validate(sess, "EF-26Q1-B3H8LP5N")
	require.True(t, res.Valid)
	assert.Equal(t, 1, res.DaysRemaining)

	c.t = time.Date(2026, 1, 31, 0, 30, 0, 0, time.UTC) // 30 days later
	res = v.Validate(sess, "EF-26Q1-B3H8LP5N")
	assert.False(t, res.Valid)
	assert.True(t, res.Expired)
	assert.Equal(t, day(2026, 1, 1), res.FirstSeen)
	assert.Empty(t, res.KeyMask)
}

func TestValidateSeededFirstSeen(t *testing.T) {
	c := &clock{t: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	v := newTestValidator(c)
	sess := models.NewSession("s1", c.t)

	sess.SetFirstSeen("EF-26Q1-A9F4KZ2M", day(2026, 1, 10)) // 30 days before
	res := v.Validate(sess, "EF-26Q1-A9F4KZ2M")
	assert.True(t, res.Expired)

	sess.SetFirstSeen("EF-26Q1-B3H8LP5N", day(2026, 1, 11)) // 29 days before
	res = v.Validate(sess, "EF-26Q1-B3H8LP5N")
	assert.True(t, res.Valid)
	assert.Equal(t, 1, res.DaysRemaining)
}

func TestValidateSessionsAreIsolated(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	v := newTestValidator(c)
	a := models.NewSession("a", c.t)
	require.True(t, v.Validate(a, "EF-26Q1-A9F4KZ2M").Valid)

	c.t = c.t.AddDate(0, 0, 31)
	assert.True(t, v.Validate(a, "EF-26Q1-A9F4KZ2M").Expired)

	b := models.NewSession("b", c.t)
	res := v.Validate(b, "EF-26Q1-A9F4KZ2M")
	assert.True(t, res.Valid)
	assert.Equal(t, 30, res.DaysRemaining)
}

func TestValidateUsesConfiguredTimezone(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	// 2026-02-09 17:00 UTC is already 2026-02-10 in Shanghai
	c := &clock{t: time.Date(2026, 2, 9, 17, 0, 0, 0, time.UTC)}
	v := NewValidator(testKeys, 30, WithClock(c.now), WithLocation(shanghai))
	res := v.Validate(models.NewSession("s", c.t), "EF-26Q1-A9F4KZ2M")
	require.True(t, res.Valid)
	assert.Equal(t, day(2026, 2, 10), res.FirstSeen)
}

func TestRecheck(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	v := newTestValidator(c)
	sess := models.NewSession("s", c.t)
	require.True(t, v.Validate(sess, "EF-26Q1-A9F4KZ2M").Valid)

	c.t = c.t.AddDate(0, 0, 10)
	res := v.Recheck(sess, "EF-26Q1-A9F4KZ2M")
	assert.True(t, res.Valid)
	assert.Equal(t, 20, res.DaysRemaining)
	assert.False(t, v.Recheck(sess, "").Valid)
	assert.False(t, v.Recheck(sess, "EF-0000-00000000").Valid)

	c.t = c.t.AddDate(0, 0, 20)
	assert.True(t, v.Recheck(sess, "EF-26Q1-A9F4KZ2M").Expired)
}

func TestValidateRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.NewWithRegistry(reg)
	c := &clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	v := NewValidator(testKeys, 30, WithClock(c.now), WithMetrics(rec))
	sess := models.NewSession("s", c.t)

	v.Validate(sess, "nope")
	v.Validate(sess, "EF-26Q1-A9F4KZ2M")
	v.RecordThrottled()

	mfs, err := reg.Gather()
	require.NoError(t, err)
	outcomes := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "eigenflow_access_validations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			outcomes[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"invalid": 1, "valid": 1, "throttled": 1}, outcomes)
}

func TestValidateLogsMaskOnly(t *testing.T) {
	var buf bytes.Buffer
	c := &clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	v := NewValidator(testKeys, 30, WithClock(c.now), WithLogger(logger.NewWriter(&buf, zerolog.DebugLevel)))
	sess := models.NewSession("s", c.t)

	v.Validate(sess, "ef-26q1-a9f4kz2m")
	c.t = c.t.AddDate(0, 0, 30)
	v.Validate(sess, "EF-26Q1-A9F4KZ2M")

	out := buf.String()
	assert.Contains(t, out, `"outcome":"valid"`)
	assert.Contains(t, out, `"outcome":"expired"`)
	assert.Contains(t, out, "EF-26Q1-****KZ2M")
	assert.NotContains(t, out, "A9F4KZ2M")
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "EF-26Q1-****KZ2M", MaskKey("EF-26Q1-A9F4KZ2M"))
	assert.Equal(t, "EF-26Q****", MaskKey("EF-26Q1-A9"))
	assert.Equal(t, "ABCD-EFG****WXYZ", MaskKey("ABCD-EFGHIJWXYZ"))
}
