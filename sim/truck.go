package sim

import (
	"math/rand"

	"github.com/inference-sim/haul-sim/sim/geometry"
)

// TruckState is the lifecycle state of a truck.
type TruckState int

const (
	TruckIdle            TruckState = iota // waiting for a site assignment
	TruckMovingToSite                      // travelling to a reserved site
	TruckMining                            // mining timer running
	TruckMovingToQueue                     // travelling to a station's queue
	TruckInQueue                           // waiting for the bay
	TruckMovingToStation                   // entering the bay
	TruckUnloading                         // unloading timer running
)

var truckStateNames = [...]string{
	TruckIdle:            "idle",
	TruckMovingToSite:    "moving_to_site",
	TruckMining:          "mining",
	TruckMovingToQueue:   "moving_to_queue",
	TruckInQueue:         "in_queue",
	TruckMovingToStation: "moving_to_station",
	TruckUnloading:       "unloading",
}

// TruckStates lists every state in lifecycle order.
var TruckStates = []TruckState{
	TruckIdle, TruckMovingToSite, TruckMining, TruckMovingToQueue,
	TruckInQueue, TruckMovingToStation, TruckUnloading,
}

func (s TruckState) String() string {
	if s < 0 || int(s) >= len(truckStateNames) {
		return "unknown"
	}
	return truckStateNames[s]
}

// TruckParams carries the per-truck collaborators.
type TruckParams struct {
	MiningHours      DurationRange
	UnloadingMinutes DurationRange
	RNG              *rand.Rand           // duration sampling; must not be nil
	Planner          geometry.PathPlanner // nil uses a straight line
	Sink             SignalSink           // nil drops signals
}

// Truck is a mobile extraction unit. It owns its mining and unloading
// timers and reports their expiry, plus every completed move, as signals.
//
// Time is the commodity: one second of unloading is one unit delivered.
type Truck struct {
	Entity

	state             TruckState
	miningTimeLeft    float64
	unloadingTimeLeft float64
	totalUnloaded     float64
	cycles            int

	travelSpeed     float64
	speedMultiplier float64

	miningHours      DurationRange
	unloadingMinutes DurationRange
	rng              *rand.Rand
	planner          geometry.PathPlanner
	sink             SignalSink
}

// NewTruck creates an idle truck at loc.
func NewTruck(id EntityID, loc geometry.Vector, p TruckParams) *Truck {
	if p.RNG == nil {
		panic("NewTruck: RNG must not be nil")
	}
	planner := p.Planner
	if planner == nil {
		planner = geometry.StraightLine{}
	}
	return &Truck{
		Entity:           Entity{id: id, location: loc},
		state:            TruckIdle,
		travelSpeed:      1,
		speedMultiplier:  1,
		miningHours:      p.MiningHours,
		unloadingMinutes: p.UnloadingMinutes,
		rng:              p.RNG,
		planner:          planner,
		sink:             p.Sink,
	}
}

// State returns the truck's lifecycle state.
func (t *Truck) State() TruckState { return t.state }

// MiningTimeLeft returns the remaining mining time in seconds.
func (t *Truck) MiningTimeLeft() float64 { return t.miningTimeLeft }

// UnloadingTimeLeft returns the remaining unloading time in seconds.
func (t *Truck) UnloadingTimeLeft() float64 { return t.unloadingTimeLeft }

// TotalUnloaded returns the seconds spent unloading over the whole run,
// across every station visited.
func (t *Truck) TotalUnloaded() float64 { return t.totalUnloaded }

// Cycles returns how many unloads the truck has completed.
func (t *Truck) Cycles() int { return t.cycles }

// TravelSpeed returns the speed derived from the last planned path.
func (t *Truck) TravelSpeed() float64 { return t.travelSpeed }

// SpeedMultiplier returns the operator-set travel multiplier.
func (t *Truck) SpeedMultiplier() float64 { return t.speedMultiplier }

// EffectiveSpeed is the travel speed scaled by the operator multiplier.
func (t *Truck) EffectiveSpeed() float64 { return t.travelSpeed * t.speedMultiplier }

// SetSpeedMultiplier sets the travel multiplier; negative values become 0.
func (t *Truck) SetSpeedMultiplier(m float64) {
	if m < 0 {
		m = 0
	}
	t.speedMultiplier = m
}

// SetState changes state. Setting the current state is a no-op; entering
// Mining samples a fresh mining timer.
func (t *Truck) SetState(s TruckState) {
	if s == t.state {
		return
	}
	t.state = s
	if s == TruckMining {
		t.SampleMiningDuration()
	}
}

// SampleMiningDuration draws the mining timer from the hours range.
func (t *Truck) SampleMiningDuration() float64 {
	hours := t.miningHours.Sample(t.rng.Float64())
	t.miningTimeLeft = hours * 60 * 60
	return t.miningTimeLeft
}

// SampleUnloadDuration draws the unloading timer from the minutes range.
// It is drawn when the truck leaves for a station so the station can count
// it in its queue estimate before the truck arrives.
func (t *Truck) SampleUnloadDuration() float64 {
	minutes := t.unloadingMinutes.Sample(t.rng.Float64())
	t.unloadingTimeLeft = minutes * 60
	return t.unloadingTimeLeft
}

// Tick advances whichever timer the current state owns. Other states do not
// consume time: movement resolves inside MoveTo.
func (t *Truck) Tick(deltaTime float64) {
	switch t.state {
	case TruckMining:
		t.mine(deltaTime)
	case TruckUnloading:
		t.unload(deltaTime)
	}
}

func (t *Truck) mine(deltaTime float64) {
	t.miningTimeLeft -= deltaTime
	if t.miningTimeLeft <= 0 {
		t.miningTimeLeft = 0
		t.emit(MiningCompleted{TruckID: t.id})
	}
}

func (t *Truck) unload(deltaTime float64) {
	t.unloadingTimeLeft -= deltaTime
	t.totalUnloaded += deltaTime
	t.emit(UnloadProgress{TruckID: t.id, Delta: deltaTime})
	if t.unloadingTimeLeft <= 0 {
		t.unloadingTimeLeft = 0
		t.cycles++
		t.emit(UnloadingCompleted{TruckID: t.id})
	}
}

// MoveTo sends the truck to dest. A travel speed that would cover the
// planned path in ReferenceTravelSeconds is recorded (except when entering
// the bay from the queue), the truck is relocated, and MoveCompleted is
// raised before MoveTo returns: arrival latency is zero, since cycle time is
// dominated by the mining and unloading timers.
func (t *Truck) MoveTo(target MoveTarget, dest geometry.Vector) {
	if target != TargetStation {
		distance := t.planner.PathLength(t.location, dest)
		t.travelSpeed = distance / ReferenceTravelSeconds
	}
	t.location = dest
	t.emit(MoveCompleted{TruckID: t.id, Target: target})
}

func (t *Truck) emit(s Signal) {
	if t.sink != nil {
		t.sink.Dispatch(s)
	}
}
