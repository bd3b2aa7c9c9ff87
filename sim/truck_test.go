package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/haul-sim/sim/geometry"
)

func TestTruck_SetState_SameStateDoesNotResample(t *testing.T) {
	// GIVEN a mining truck with a 1-5h range
	truck, _ := newTestTruck(DurationRange{Min: 1, Max: 5}, DurationRange{Min: 5, Max: 5})
	truck.SetState(TruckMining)
	first := truck.MiningTimeLeft()

	// WHEN Mining is set again
	truck.SetState(TruckMining)

	// THEN the timer is unchanged
	assert.Equal(t, first, truck.MiningTimeLeft())
	assert.GreaterOrEqual(t, first, 3600.0)
	assert.LessOrEqual(t, first, 5*3600.0)
}

func TestTruck_SampleDurations_ConvertUnits(t *testing.T) {
	truck, _ := newTestTruck(DurationRange{Min: 2, Max: 2}, DurationRange{Min: 5, Max: 5})
	assert.Equal(t, 7200.0, truck.SampleMiningDuration())
	assert.Equal(t, 300.0, truck.SampleUnloadDuration())
	assert.Equal(t, 300.0, truck.UnloadingTimeLeft())
}

func TestTruck_Tick_MiningCompletesAndClamps(t *testing.T) {
	// GIVEN a truck with 1800s of mining left
	truck, sink := newTestTruck(DurationRange{Min: 0.5, Max: 0.5}, DurationRange{Min: 5, Max: 5})
	truck.SetState(TruckMining)

	// WHEN it ticks once
	truck.Tick(1000)

	// THEN mining continues silently
	assert.Equal(t, 800.0, truck.MiningTimeLeft())
	assert.Empty(t, sink.signals)

	// WHEN it ticks past the end
	truck.Tick(1000)

	// THEN the timer is clamped and completion is raised
	assert.Equal(t, 0.0, truck.MiningTimeLeft())
	require.Len(t, sink.signals, 1)
	assert.Equal(t, MiningCompleted{TruckID: truck.ID()}, sink.signals[0])
}

func TestTruck_Tick_UnloadRaisesProgressThenCompletion(t *testing.T) {
	// GIVEN an unloading truck with 30s left
	truck, sink := newTestTruck(DurationRange{}, DurationRange{Min: 0.5, Max: 0.5})
	truck.SampleUnloadDuration()
	truck.SetState(TruckUnloading)

	// WHEN it ticks twice for 15s
	truck.Tick(15)
	truck.Tick(15)

	// THEN each tick reports progress and the last also completes, after progress
	require.Len(t, sink.signals, 3)
	assert.Equal(t, UnloadProgress{TruckID: truck.ID(), Delta: 15}, sink.signals[0])
	assert.Equal(t, UnloadProgress{TruckID: truck.ID(), Delta: 15}, sink.signals[1])
	assert.Equal(t, UnloadingCompleted{TruckID: truck.ID()}, sink.signals[2])
	assert.Equal(t, 30.0, truck.TotalUnloaded())
	assert.Equal(t, 0.0, truck.UnloadingTimeLeft())
	assert.Equal(t, 1, truck.Cycles())
}

func TestTruck_Tick_OtherStatesConsumeNothing(t *testing.T) {
	truck, sink := newTestTruck(DurationRange{Min: 1, Max: 1}, DurationRange{Min: 5, Max: 5})
	for _, s := range []TruckState{TruckIdle, TruckMovingToSite, TruckMovingToQueue, TruckInQueue, TruckMovingToStation} {
		truck.SetState(s)
		truck.Tick(10)
	}
	assert.Empty(t, sink.signals)
	assert.Equal(t, 0.0, truck.TotalUnloaded())
}

func TestTruck_MoveTo_RelocatesAndSetsSpeed(t *testing.T) {
	// GIVEN a truck at the origin
	truck, sink := newTestTruck(DurationRange{}, DurationRange{})
	dest := geometry.Vector{X: 3600}

	// WHEN it moves to a site 3600 units away
	truck.MoveTo(TargetSite, dest)

	// THEN it is relocated, speed covers the leg in the reference time,
	// and arrival is raised immediately
	assert.Equal(t, dest, truck.Location())
	assert.Equal(t, 2.0, truck.TravelSpeed())
	require.Len(t, sink.signals, 1)
	assert.Equal(t, MoveCompleted{TruckID: truck.ID(), Target: TargetSite}, sink.signals[0])

	// WHEN it enters a bay
	truck.MoveTo(TargetStation, geometry.Vector{})

	// THEN the travel speed is kept
	assert.Equal(t, 2.0, truck.TravelSpeed())
	assert.Equal(t, MoveCompleted{TruckID: truck.ID(), Target: TargetStation}, sink.signals[1])
}

func TestTruck_SpeedMultiplier(t *testing.T) {
	truck, _ := newTestTruck(DurationRange{}, DurationRange{})
	truck.MoveTo(TargetSite, geometry.Vector{X: 1800})
	truck.SetSpeedMultiplier(3)
	assert.Equal(t, 3.0, truck.EffectiveSpeed())
	truck.SetSpeedMultiplier(-1)
	assert.Equal(t, 0.0, truck.SpeedMultiplier())
}

func TestNewTruck_NilRNG_Panics(t *testing.T) {
	assert.Panics(t, func() {
		NewTruck(1, geometry.Vector{}, TruckParams{})
	})
}

func TestTruckState_String(t *testing.T) {
	assert.Equal(t, "moving_to_queue", TruckMovingToQueue.String())
	assert.Equal(t, "unknown", TruckState(99).String())
	assert.Len(t, TruckStates, 7)
}
