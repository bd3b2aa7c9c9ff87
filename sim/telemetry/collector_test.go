package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/haul-sim/sim"
)

func sampleSnapshot() sim.Snapshot {
	return sim.Snapshot{
		RunID:     "run-1",
		Elapsed:   3600,
		Remaining: 1800,
		Trucks: []sim.TruckSnapshot{
			{ID: 1, State: sim.TruckMining, TotalUnloaded: 300, Cycles: 1},
			{ID: 2, State: sim.TruckInQueue, TotalUnloaded: 0},
			{ID: 3, State: sim.TruckMining, TotalUnloaded: 600, Cycles: 2},
		},
		Stations: []sim.StationSnapshot{
			{ID: 4, QueueTime: 300, QueueLen: 1, TotalUnloadingTime: 900, Served: 3},
		},
		Stalled:          1,
		GlobalEfficiency: 0.25,
	}
}

func TestCollector_Observe_SetsGauges(t *testing.T) {
	// GIVEN a collector on a private registry
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	// WHEN a snapshot is observed
	c.Observe(sampleSnapshot())

	// THEN gauges reflect it
	assert.Equal(t, 1800.0, testutil.ToFloat64(c.Remaining))
	assert.Equal(t, 3600.0, testutil.ToFloat64(c.Elapsed))
	assert.Equal(t, 0.25, testutil.ToFloat64(c.GlobalEfficiency))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StalledTrucks))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Observations))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.TrucksByState.WithLabelValues("mining")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.TrucksByState.WithLabelValues("in_queue")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.TrucksByState.WithLabelValues("unloading")))
	assert.Equal(t, 600.0, testutil.ToFloat64(c.TruckUnloaded.WithLabelValues("3")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.TruckCycles.WithLabelValues("3")))
	assert.Equal(t, 300.0, testutil.ToFloat64(c.StationQueue.WithLabelValues("4")))
	assert.Equal(t, 900.0, testutil.ToFloat64(c.StationUnloaded.WithLabelValues("4")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.StationServed.WithLabelValues("4")))
}

func TestCollector_Observe_DropsEntitiesFromPreviousRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.Observe(sampleSnapshot())
	c.Observe(sim.Snapshot{Trucks: []sim.TruckSnapshot{{ID: 9}}})

	assert.Equal(t, 1, testutil.CollectAndCount(c.TruckUnloaded))
	assert.Equal(t, 0, testutil.CollectAndCount(c.StationQueue))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Observations))
}

func TestNewCollector_ReusesRegisteredCollectors(t *testing.T) {
	// GIVEN a collector already registered
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)

	// WHEN a second collector is created on the same registry
	second, err := NewCollector(reg)
	require.NoError(t, err)

	// THEN both share the same underlying metrics
	first.Observe(sampleSnapshot())
	assert.Equal(t, 3600.0, testutil.ToFloat64(second.Elapsed))
}

func TestCollector_WriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)
	c.Observe(sampleSnapshot())

	path := filepath.Join(t.TempDir(), "haul.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, "haul_global_efficiency_ratio 0.25"))
	assert.Contains(t, text, `haul_station_queue_seconds{station="4"} 300`)
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() { c.Observe(sampleSnapshot()) })
	assert.Nil(t, c.Gatherer())
}
