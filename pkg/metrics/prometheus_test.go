package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordLoad("history", "ok")
	r.RecordLoad("history", "ok")
	r.RecordLoad("snapshot", "failed")
	r.RecordCache("history", true)
	r.RecordValidation("expired")
	r.SetSessions(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.loadsTotal.WithLabelValues("history", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.loadsTotal.WithLabelValues("snapshot", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("history", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.validationsTotal.WithLabelValues("expired")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.sessions))
}
