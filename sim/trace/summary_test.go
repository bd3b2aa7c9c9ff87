package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_EmptyTrace(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	assert.Equal(t, 0, summary.TotalRoutings)
	assert.Equal(t, 0, summary.Stalls)
	assert.Equal(t, 0, summary.UniqueStations)
	assert.Equal(t, 0.0, summary.MeanRegret)
}

func TestSummarize_NilTrace(t *testing.T) {
	summary := Summarize(nil)
	assert.NotNil(t, summary)
	assert.Equal(t, 0, summary.TotalRoutings)
	assert.NotNil(t, summary.StationDistribution)
}

func TestSummarize_CountsByKindAndStation(t *testing.T) {
	// GIVEN a trace with site and station routings to two stations
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelCycles})
	st.RecordRouting(RoutingRecord{TruckID: 1, Kind: RoutingSite, Chosen: 20})
	st.RecordRouting(RoutingRecord{TruckID: 1, Kind: RoutingStation, Chosen: 11, Regret: 0})
	st.RecordRouting(RoutingRecord{TruckID: 2, Kind: RoutingStation, Chosen: 12, Regret: 300})
	st.RecordRouting(RoutingRecord{TruckID: 3, Kind: RoutingStation, Chosen: 11, Regret: 0})
	st.RecordStall(StallRecord{TruckID: 4})
	st.RecordCycle(CycleRecord{TruckID: 1, StationID: 11})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts, regret and distribution reflect the records
	assert.Equal(t, 4, summary.TotalRoutings)
	assert.Equal(t, 1, summary.SiteRoutings)
	assert.Equal(t, 3, summary.StationRoutings)
	assert.Equal(t, 1, summary.Stalls)
	assert.Equal(t, 1, summary.Cycles)
	assert.Equal(t, 2, summary.UniqueStations)
	assert.Equal(t, 2, summary.StationDistribution[11])
	assert.Equal(t, 1, summary.StationDistribution[12])
	assert.InDelta(t, 100.0, summary.MeanRegret, 1e-9)
	assert.Equal(t, 300.0, summary.MaxRegret)
}
