package sim

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/haul-sim/sim/geometry"
)

// Spawn radii, in world units around the origin.
const (
	TruckRingRadius   = 5000.0
	StationRingRadius = 45000.0
	SiteMinRadius     = 10000.0
	SiteMaxRadius     = 30000.0

	// pathJitter is the lateral wander of a synthetic haul road.
	pathJitter = 400.0
)

// Start spawns a run from cfg. Any previous run is torn down first. Every
// spawned truck is immediately offered a site.
func (o *Orchestrator) Start(cfg Config) {
	if len(o.truckOrder)+len(o.stationOrder)+len(o.siteOrder) > 0 {
		o.Teardown()
	}
	o.base = cfg
	o.config = cfg.Normalize()
	o.pendingTrucks = o.config.Trucks
	o.pendingStations = o.config.Stations
	o.truckSpeed = o.config.TruckSpeed
	o.complete = false
	o.ticks = 0
	o.runID = uuid.NewString()

	o.clock.SetHorizon(o.config.Horizon)
	o.clock.SetDilation(o.config.Dilation)

	o.rng = NewPartitionedRNG(NewSimulationKey(o.config.Seed))
	planner := o.planner
	if planner == nil {
		planner = geometry.NewNoisePath(o.rng.DeriveSeed(SubsystemGeometry), pathJitter)
	}

	for i, loc := range geometry.CircularLayout(o.config.Trucks, TruckRingRadius) {
		t := NewTruck(o.ids.Next(), loc, TruckParams{
			MiningHours:      o.config.MiningHours,
			UnloadingMinutes: o.config.UnloadingMinutes,
			RNG:              o.rng.ForSubsystem(SubsystemTruck(i)),
			Planner:          planner,
			Sink:             o,
		})
		t.SetSpeedMultiplier(o.truckSpeed)
		o.trucks[t.ID()] = t
		o.truckOrder = append(o.truckOrder, t.ID())
	}
	for _, loc := range geometry.CircularLayout(o.config.Stations, StationRingRadius) {
		s := NewUnloadingStation(o.ids.Next(), loc, o)
		o.stations[s.ID()] = s
		o.stationOrder = append(o.stationOrder, s.ID())
	}
	layout := o.rng.ForSubsystem(SubsystemLayout)
	for _, loc := range geometry.AnnulusLayout(o.config.SiteCount(), SiteMinRadius, SiteMaxRadius, layout) {
		s := NewExtractionSite(o.ids.Next(), loc)
		o.sites[s.ID()] = s
		o.siteOrder = append(o.siteOrder, s.ID())
	}

	if o.trace != nil {
		o.trace.Reset(o.runID)
	}
	logrus.Infof("Starting run %s: %d trucks, %d stations, %d sites, horizon %.0fs, seed %d",
		o.runID, len(o.truckOrder), len(o.stationOrder), len(o.siteOrder), o.config.Horizon, o.config.Seed)

	for _, id := range o.truckOrder {
		o.routeToSite(o.trucks[id])
	}
}

// Run ticks the current run with the configured step until the horizon is
// reached, then returns the report. The run is left in place.
func (o *Orchestrator) Run() EfficiencyReport {
	return o.RunWithProgress(0, nil)
}

// RunWithProgress is Run with a callback invoked every `every` simulated
// seconds (never when every <= 0 or progress is nil).
func (o *Orchestrator) RunWithProgress(every float64, progress func(Snapshot)) EfficiencyReport {
	step := o.config.Step
	if step <= 0 {
		step = 1
	}
	next := every
	for !o.Tick(step) {
		if progress != nil && every > 0 && o.clock.Elapsed() >= next {
			progress(o.Snapshot())
			for next <= o.clock.Elapsed() {
				next += every
			}
		}
	}
	return o.Efficiency()
}

// Teardown reports on the current run and destroys every entity and ledger
// entry. The id allocator keeps counting.
func (o *Orchestrator) Teardown() EfficiencyReport {
	report := o.Efficiency()
	logrus.Infof("Tearing down run %s after %.0fs: global efficiency %.2f%%",
		o.runID, report.Elapsed, report.Global*100)

	o.ledgers.Clear()
	clear(o.trucks)
	clear(o.sites)
	clear(o.stations)
	o.truckOrder = nil
	o.siteOrder = nil
	o.stationOrder = nil
	o.parked = nil
	clear(o.stalled)
	return report
}

// Restart tears the run down and starts a new one from the configuration
// last passed to Start, with the pending truck and station counts. Truck
// speed returns to 1 and dilation to the configured value.
func (o *Orchestrator) Restart() EfficiencyReport {
	report := o.Teardown()
	cfg := o.base
	cfg.Trucks = o.pendingTrucks
	cfg.Stations = o.pendingStations
	cfg.TruckSpeed = 1
	o.Start(cfg)
	return report
}

// === Live controls ===

// IncreaseTruckSpeed raises the fleet speed multiplier by one.
func (o *Orchestrator) IncreaseTruckSpeed() { o.SetTruckSpeed(o.truckSpeed + 1) }

// DecreaseTruckSpeed lowers the fleet speed multiplier by one, not below
// MinTruckSpeed.
func (o *Orchestrator) DecreaseTruckSpeed() { o.SetTruckSpeed(o.truckSpeed - 1) }

// SetTruckSpeed sets the fleet speed multiplier and applies it to every truck.
func (o *Orchestrator) SetTruckSpeed(m float64) {
	o.truckSpeed = ClampTruckSpeed(m)
	for _, id := range o.truckOrder {
		o.trucks[id].SetSpeedMultiplier(o.truckSpeed)
	}
	logrus.Debugf("truck speed multiplier %.1f", o.truckSpeed)
}

// TruckSpeed returns the fleet speed multiplier.
func (o *Orchestrator) TruckSpeed() float64 { return o.truckSpeed }

// IncreasePlaybackSpeed raises the clock dilation by one, up to MaxDilation.
func (o *Orchestrator) IncreasePlaybackSpeed() { o.SetDilation(o.clock.Dilation() + 1) }

// DecreasePlaybackSpeed lowers the clock dilation by one, down to MinDilation.
func (o *Orchestrator) DecreasePlaybackSpeed() { o.SetDilation(o.clock.Dilation() - 1) }

// SetDilation sets the clock dilation, clamped to [MinDilation, MaxDilation].
func (o *Orchestrator) SetDilation(f float64) {
	o.clock.SetDilation(ClampDilation(f))
	logrus.Debugf("playback speed x%.0f", o.clock.Dilation())
}

// ChangeTruckCount adjusts the truck count used by the next Restart.
// The count never drops below 1.
func (o *Orchestrator) ChangeTruckCount(delta int) {
	o.pendingTrucks = max(1, o.pendingTrucks+delta)
}

// ChangeStationCount adjusts the station count used by the next Restart.
// The count never drops below 1.
func (o *Orchestrator) ChangeStationCount(delta int) {
	o.pendingStations = max(1, o.pendingStations+delta)
}

// PendingTruckCount returns the truck count the next Restart will spawn.
func (o *Orchestrator) PendingTruckCount() int { return o.pendingTrucks }

// PendingStationCount returns the station count the next Restart will spawn.
func (o *Orchestrator) PendingStationCount() int { return o.pendingStations }
