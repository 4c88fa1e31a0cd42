package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestEngineLifecycleGauge(t *testing.T) {
	before := testutil.ToFloat64(EnginesLive)
	okBefore := testutil.ToFloat64(EngineCreationsTotal.WithLabelValues("ok"))

	EngineCreated()
	EngineCreated()
	EngineReleased()

	assert.Equal(t, before+1, testutil.ToFloat64(EnginesLive))
	assert.Equal(t, okBefore+2, testutil.ToFloat64(EngineCreationsTotal.WithLabelValues("ok")))
}

func TestIncSessionError_EmptyKind(t *testing.T) {
	before := testutil.ToFloat64(SessionErrorsTotal.WithLabelValues("unknown"))
	IncSessionError("")
	assert.Equal(t, before+1, testutil.ToFloat64(SessionErrorsTotal.WithLabelValues("unknown")))
}
