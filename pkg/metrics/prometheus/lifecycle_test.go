package prometheus

import (
	"testing"
	"time"

	"github.com/dicengine/dice/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLifecycleMetrics_Disabled(t *testing.T) {
	metrics.ResetRegistry()

	assert.Nil(t, NewLifecycleMetrics())
	assert.Nil(t, metrics.NewLifecycleMetrics())
}

func TestLifecycleMetrics(t *testing.T) {
	metrics.InitRegistry()
	defer metrics.ResetRegistry()

	m := metrics.NewLifecycleMetrics()
	require.NotNil(t, m)
	lm := m.(*lifecycleMetrics)

	m.ObserveTransition("initialize", true, 3*time.Millisecond)
	m.ObserveTransition("finalize", false, time.Millisecond)
	m.SetRank(2, 4)
	m.ObserveCopyRejection("processor_name")

	assert.Equal(t, 1.0, testutil.ToFloat64(lm.transitions.WithLabelValues("initialize", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(lm.transitions.WithLabelValues("finalize", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(lm.rank))
	assert.Equal(t, 4.0, testutil.ToFloat64(lm.worldSize))
	assert.Equal(t, 1.0, testutil.ToFloat64(lm.copyRejections.WithLabelValues("processor_name")))

	count, err := testutil.GatherAndCount(metrics.GetRegistry(), "dice_lifecycle_transition_duration_milliseconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
