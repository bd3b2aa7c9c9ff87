package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inference-sim/haul-sim/sim/geometry"
)

// recordingSink captures signals without acting on them.
type recordingSink struct {
	signals []Signal
}

func (r *recordingSink) Dispatch(s Signal) { r.signals = append(r.signals, s) }

// testConfig is a small deterministic operation with fixed durations.
func testConfig(trucks, stations int) Config {
	return Config{
		Trucks:           trucks,
		Stations:         stations,
		MiningHours:      DurationRange{Min: 0.1, Max: 0.1},
		UnloadingMinutes: DurationRange{Min: 5, Max: 5},
		Horizon:          20000,
		Step:             1,
		Dilation:         1,
		TruckSpeed:       1,
		Seed:             42,
	}
}

// startTestOrchestrator starts cfg on a fresh orchestrator with straight-line
// geometry.
func startTestOrchestrator(cfg Config) *Orchestrator {
	o := NewOrchestrator()
	o.SetPathPlanner(geometry.StraightLine{})
	o.Start(cfg)
	return o
}

// newTestTruck builds a truck with a seeded RNG and a recording sink.
func newTestTruck(mining, unloading DurationRange) (*Truck, *recordingSink) {
	sink := &recordingSink{}
	truck := NewTruck(1, geometry.Vector{}, TruckParams{
		MiningHours:      mining,
		UnloadingMinutes: unloading,
		RNG:              rand.New(rand.NewSource(7)),
		Sink:             sink,
	})
	return truck, sink
}

// assertInvariants checks the cross-entity consistency rules that must hold
// between ticks.
func assertInvariants(t *testing.T, o *Orchestrator) {
	t.Helper()
	for _, truck := range o.Trucks() {
		require.LessOrEqual(t, o.Ledgers().Occurrences(truck.ID()), 1, "truck %v in several ledgers", truck.ID())
		require.GreaterOrEqual(t, truck.MiningTimeLeft(), 0.0)
		require.GreaterOrEqual(t, truck.UnloadingTimeLeft(), 0.0)

		kind, inLedger := o.Ledgers().Where(truck.ID())
		switch truck.State() {
		case TruckIdle:
			require.False(t, inLedger, "idle truck %v still in %s", truck.ID(), kind)
		case TruckMining:
			require.Equal(t, LedgerMining, kind)
		case TruckInQueue:
			require.Equal(t, LedgerPendingUnload, kind)
		case TruckUnloading:
			require.Equal(t, LedgerUnloading, kind)
		}
	}
	for _, s := range o.Stations() {
		if s.ActiveTruck() != NoEntity {
			truck, ok := o.Truck(s.ActiveTruck())
			require.True(t, ok)
			require.Contains(t, []TruckState{TruckMovingToStation, TruckUnloading}, truck.State())
		}
		if s.State() == StationUnloading {
			require.NotEqual(t, NoEntity, s.ActiveTruck(), "station %v unloading without a truck", s.ID())
		}
		require.GreaterOrEqual(t, s.QueueTime(), 0.0)
	}
	for _, site := range o.Sites() {
		holders := 0
		for _, kind := range []LedgerKind{LedgerMovingToSite, LedgerMining} {
			for _, truck := range o.Trucks() {
				if target, ok := o.Ledgers().Lookup(kind, truck.ID()); ok && target == site.ID() {
					holders++
				}
			}
		}
		require.LessOrEqual(t, holders, 1, "site %v reserved by %d trucks", site.ID(), holders)
		if site.State() == SiteIdle {
			require.Zero(t, holders)
		}
	}
}
