package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/haul-sim/sim/internal/testutil"
)

func TestEfficiency_ZeroElapsed_AllZero(t *testing.T) {
	// GIVEN a run that has not ticked
	o := startTestOrchestrator(testConfig(3, 2))

	// WHEN the report is built
	r := o.Efficiency()

	// THEN every figure is zero and sequences follow registry order
	assert.Equal(t, 0.0, r.Global)
	assert.Equal(t, []float64{0, 0, 0}, r.PerTruck)
	assert.Equal(t, []float64{0, 0}, r.PerStation)
	assert.Equal(t, []EntityID{1, 2, 3}, r.TruckIDs)
	assert.Equal(t, []EntityID{4, 5}, r.StationIDs)
	assert.Equal(t, 0.0, r.MeanTruckEfficiency())
}

func TestEfficiency_Ratios(t *testing.T) {
	// GIVEN one truck, one station, 300s unloading after ~0s mining
	cfg := testConfig(1, 1)
	cfg.MiningHours = DurationRange{Min: 0.0001, Max: 0.0001}
	cfg.Horizon = 1000
	o := startTestOrchestrator(cfg)

	// WHEN 600 ticks have run (one full unload, then more)
	for i := 0; i < 600; i++ {
		o.Tick(1)
	}
	r := o.Efficiency()

	// THEN truck and station ratios are unloaded time over elapsed time
	unloaded := o.Trucks()[0].TotalUnloaded()
	testutil.AssertFloat64Equal(t, "per-truck", unloaded/600, r.PerTruck[0], 1e-12)
	testutil.AssertFloat64Equal(t, "per-station", o.Stations()[0].TotalUnloadingTime()/600, r.PerStation[0], 1e-12)
	testutil.AssertFloat64Equal(t, "global", r.PerStation[0], r.Global, 1e-12)
	assert.Equal(t, 600.0, r.Elapsed)
	assert.GreaterOrEqual(t, r.TruckCycles[0], 1)
}

func TestEfficiencyReport_Means(t *testing.T) {
	r := EfficiencyReport{
		PerTruck:    []float64{0.1, 0.3},
		PerStation:  []float64{0.5},
		TruckCycles: []int{2, 3},
	}
	assert.InDelta(t, 0.2, r.MeanTruckEfficiency(), 1e-12)
	assert.InDelta(t, 0.5, r.MeanStationEfficiency(), 1e-12)
	assert.Equal(t, 5, r.TotalCycles())
	assert.Equal(t, 0.0, EfficiencyReport{}.MeanStationEfficiency())
}

func TestEfficiencyReport_Print(t *testing.T) {
	// GIVEN a report
	r := EfficiencyReport{
		RunID:         "run-1",
		Elapsed:       7200,
		Global:        0.25,
		TruckIDs:      []EntityID{1},
		PerTruck:      []float64{0.25},
		TruckCycles:   []int{6},
		StationIDs:    []EntityID{2},
		PerStation:    []float64{0.25},
		StationServed: []int{1},
	}

	// WHEN printed
	var buf bytes.Buffer
	r.Print(&buf)
	out := buf.String()

	// THEN the headline figures are present
	require.NotEmpty(t, out)
	assert.Contains(t, out, "=== Efficiency Report ===")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "7,200")
	assert.Contains(t, out, "25.00%")
	assert.Contains(t, out, "6 cycles")
	assert.Contains(t, out, "1 truck served")
}

func TestEfficiencyReport_Print_SingularAndPlural(t *testing.T) {
	// GIVEN one truck with a single cycle and a station that served two trucks
	r := EfficiencyReport{
		Elapsed:       3600,
		TruckIDs:      []EntityID{1},
		PerTruck:      []float64{0.1},
		TruckCycles:   []int{1},
		StationIDs:    []EntityID{2},
		PerStation:    []float64{0.2},
		StationServed: []int{2},
	}

	// WHEN printed
	var buf bytes.Buffer
	r.Print(&buf)

	// THEN counts agree in number with their nouns
	assert.Contains(t, buf.String(), "1 cycle\n")
	assert.Contains(t, buf.String(), "2 trucks served")
}
