package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// BDD: Same key+name produces same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 3; i++ {
		assert.Equal(t,
			rng1.ForSubsystem(SubsystemTruck(0)).Float64(),
			rng2.ForSubsystem(SubsystemTruck(0)).Float64(),
			"value %d", i)
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// BDD: Drawing from one truck's stream doesn't affect another's
	rngA := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemTruck(0)).Float64()
	}
	aFirst := rngA.ForSubsystem(SubsystemTruck(1)).Float64()

	fresh := NewPartitionedRNG(NewSimulationKey(42))
	expectedFirst := fresh.ForSubsystem(SubsystemTruck(1)).Float64()

	assert.Equal(t, expectedFirst, aFirst, "isolation broken")
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	// BDD: Same name returns same *rand.Rand instance
	rng := NewPartitionedRNG(NewSimulationKey(42))
	assert.Same(t, rng.ForSubsystem(SubsystemLayout), rng.ForSubsystem(SubsystemLayout))
}

func TestPartitionedRNG_Key(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(12345))
	assert.Equal(t, SimulationKey(12345), rng.Key())
}

func TestPartitionedRNG_DeriveSeed_DiffersPerSubsystem(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	assert.NotEqual(t, rng.DeriveSeed(SubsystemLayout), rng.DeriveSeed(SubsystemGeometry))
	assert.Equal(t, rng.DeriveSeed(SubsystemGeometry), NewPartitionedRNG(NewSimulationKey(42)).DeriveSeed(SubsystemGeometry))
}

func TestPartitionedRNG_MinInt64Seed(t *testing.T) {
	// BDD: MinInt64 seed works correctly
	rng := NewPartitionedRNG(NewSimulationKey(math.MinInt64))
	val := rng.ForSubsystem(SubsystemTruck(3)).Float64()
	assert.GreaterOrEqual(t, val, 0.0)
	assert.Less(t, val, 1.0)
}

func TestPartitionedRNG_LazyInitialization(t *testing.T) {
	// BDD: Subsystems map is empty until ForSubsystem is called
	rng := NewPartitionedRNG(NewSimulationKey(42))
	assert.Empty(t, rng.subsystems)
	rng.ForSubsystem(SubsystemLayout)
	assert.Len(t, rng.subsystems, 1)
}

func TestSubsystemTruck_Names(t *testing.T) {
	assert.Equal(t, "truck_0", SubsystemTruck(0))
	assert.Equal(t, "truck_12", SubsystemTruck(12))
}
