// sim/orchestrator.go
package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/haul-sim/sim/geometry"
	"github.com/inference-sim/haul-sim/sim/trace"
)

// StallReason explains why a truck could not be routed.
type StallReason string

const (
	StallNoIdleSite StallReason = "no idle extraction site"
	StallNoStation  StallReason = "no unloading station"
)

// Orchestrator owns every entity and every pending-transition ledger, reacts
// to entity signals, and drives the tick loop.
//
// Entities are kept in three typed registries. Each registry pairs a map with
// an insertion-ordered id slice, so iteration order is stable for the whole
// run and queue admission stays deterministic.
type Orchestrator struct {
	clock   *Clock
	ids     IDAllocator
	rng     *PartitionedRNG
	ledgers *Ledgers

	trucks       map[EntityID]*Truck
	truckOrder   []EntityID
	sites        map[EntityID]*ExtractionSite
	siteOrder    []EntityID
	stations     map[EntityID]*UnloadingStation
	stationOrder []EntityID

	siteSelector    SiteSelector
	stationSelector StationSelector
	planner         geometry.PathPlanner // nil: a NoisePath seeded per run
	trace           *trace.SimulationTrace

	// parked holds idle trucks that found no free site, in parking order.
	// They are offered a site again at the start of every tick.
	parked  []EntityID
	stalled map[EntityID]StallReason

	base            Config // as passed to Start, before normalisation
	config          Config
	runID           string
	ticks           int64
	complete        bool
	truckSpeed      float64
	pendingTrucks   int
	pendingStations int
}

// NewOrchestrator creates an orchestrator with the default routing policies.
// Call Start to spawn a run.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		clock:           NewClock(0),
		ledgers:         NewLedgers(),
		trucks:          make(map[EntityID]*Truck),
		sites:           make(map[EntityID]*ExtractionSite),
		stations:        make(map[EntityID]*UnloadingStation),
		siteSelector:    FirstIdleSite{},
		stationSelector: ShortestQueue{},
		stalled:         make(map[EntityID]StallReason),
		truckSpeed:      1,
	}
}

// SetTrace attaches a decision trace. nil disables tracing.
func (o *Orchestrator) SetTrace(st *trace.SimulationTrace) { o.trace = st }

// SetPathPlanner overrides the geometry collaborator for subsequent runs.
func (o *Orchestrator) SetPathPlanner(p geometry.PathPlanner) { o.planner = p }

// SetSiteSelector overrides the site routing policy.
func (o *Orchestrator) SetSiteSelector(s SiteSelector) { o.siteSelector = s }

// SetStationSelector overrides the station routing policy.
func (o *Orchestrator) SetStationSelector(s StationSelector) { o.stationSelector = s }

// Dispatch implements SignalSink. The handler runs before Dispatch returns.
func (o *Orchestrator) Dispatch(s Signal) {
	logrus.Debugf("<< %T truck=%v at %.2fs", s, s.Truck(), o.clock.Elapsed())
	s.Deliver(o)
}

// Tick advances the run by deltaTime (scaled by the clock dilation) and
// reports whether the horizon has been reached. On the completing tick no
// entity is ticked.
func (o *Orchestrator) Tick(deltaTime float64) bool {
	scaled := deltaTime * o.clock.Dilation()
	if o.clock.Advance(deltaTime) {
		if !o.complete {
			o.complete = true
			logrus.Infof("[%.0fs] Simulation horizon reached after %d ticks", o.clock.Elapsed(), o.ticks)
		}
		return true
	}
	o.ticks++

	o.retryParked()

	for _, id := range o.truckOrder {
		o.trucks[id].Tick(scaled)
	}
	// sites have no timers
	for _, id := range o.stationOrder {
		o.stations[id].Tick(scaled)
	}
	return false
}

// === Routing ===

// routeToSite reserves the first available site for an idle truck and sends
// the truck there. Without a free site the truck is parked.
func (o *Orchestrator) routeToSite(t *Truck) bool {
	decision, ok := o.siteSelector.SelectSite(t.ID(), o.siteSnapshots())
	if !ok {
		o.park(t.ID())
		return false
	}
	site, ok := o.sites[decision.Target]
	if !ok {
		logrus.Warnf("site selector returned unknown site %v for truck %v", decision.Target, t.ID())
		o.park(t.ID())
		return false
	}
	o.unpark(t.ID())

	site.SetState(SiteTruckEnRoute)
	o.ledgers.Record(LedgerMovingToSite, t.ID(), site.ID())
	t.SetState(TruckMovingToSite)
	o.recordRouting(t.ID(), trace.RoutingSite, decision)
	logrus.Debugf("truck %v → site %v (%s)", t.ID(), site.ID(), decision.Reason)

	t.MoveTo(TargetSite, site.Location())
	return true
}

func (o *Orchestrator) retryParked() {
	if len(o.parked) == 0 {
		return
	}
	waiting := append([]EntityID(nil), o.parked...)
	for _, id := range waiting {
		t, ok := o.trucks[id]
		if !ok || t.State() != TruckIdle {
			o.unpark(id)
			continue
		}
		if !o.routeToSite(t) {
			// first-fit: if this truck found nothing, neither will the rest
			return
		}
	}
}

func (o *Orchestrator) park(id EntityID) {
	for _, p := range o.parked {
		if p == id {
			o.markStalled(id, StallNoIdleSite)
			return
		}
	}
	o.parked = append(o.parked, id)
	o.markStalled(id, StallNoIdleSite)
}

func (o *Orchestrator) unpark(id EntityID) {
	for i, p := range o.parked {
		if p == id {
			o.parked = append(o.parked[:i], o.parked[i+1:]...)
			break
		}
	}
	o.clearStall(id)
}

func (o *Orchestrator) markStalled(id EntityID, reason StallReason) {
	if _, already := o.stalled[id]; already {
		return
	}
	o.stalled[id] = reason
	logrus.Warnf("[%.0fs] truck %v stalled: %s", o.clock.Elapsed(), id, reason)
	if o.trace.Enabled() {
		o.trace.RecordStall(trace.StallRecord{
			TruckID: uint64(id),
			Clock:   o.clock.Elapsed(),
			Reason:  string(reason),
		})
	}
}

func (o *Orchestrator) clearStall(id EntityID) {
	if _, ok := o.stalled[id]; ok {
		delete(o.stalled, id)
		logrus.Infof("[%.0fs] truck %v resumed", o.clock.Elapsed(), id)
	}
}

func (o *Orchestrator) recordRouting(truck EntityID, kind trace.RoutingKind, d RoutingDecision) {
	if !o.trace.Enabled() {
		return
	}
	var scores map[uint64]float64
	if d.Scores != nil {
		scores = make(map[uint64]float64, len(d.Scores))
		for id, s := range d.Scores {
			scores[uint64(id)] = s
		}
	}
	o.trace.RecordRouting(trace.RoutingRecord{
		TruckID: uint64(truck),
		Clock:   o.clock.Elapsed(),
		Kind:    kind,
		Chosen:  uint64(d.Target),
		Reason:  d.Reason,
		Scores:  scores,
		Regret:  trace.ComputeRegret(uint64(d.Target), scores),
	})
}

// === Signal handlers ===
//
// Each handler first checks that the truck is in the ledger it expects and
// that the correlated entity still resolves. Anything else is a stale signal
// and is dropped.

func (o *Orchestrator) resolveSiteLeg(kind LedgerKind, truckID EntityID) (*Truck, *ExtractionSite, bool) {
	siteID, ok := o.ledgers.Lookup(kind, truckID)
	if !ok {
		logrus.Debugf("stale signal: truck %v not in %s ledger", truckID, kind)
		return nil, nil, false
	}
	site, ok := o.sites[siteID]
	if !ok {
		logrus.Debugf("stale signal: site %v for truck %v not registered", siteID, truckID)
		return nil, nil, false
	}
	truck, ok := o.trucks[truckID]
	if !ok {
		logrus.Debugf("stale signal: truck %v not registered", truckID)
		return nil, nil, false
	}
	return truck, site, true
}

func (o *Orchestrator) resolveStationLeg(kind LedgerKind, truckID EntityID) (*Truck, *UnloadingStation, bool) {
	stationID, ok := o.ledgers.Lookup(kind, truckID)
	if !ok {
		logrus.Debugf("stale signal: truck %v not in %s ledger", truckID, kind)
		return nil, nil, false
	}
	station, ok := o.stations[stationID]
	if !ok {
		logrus.Debugf("stale signal: station %v for truck %v not registered", stationID, truckID)
		return nil, nil, false
	}
	truck, ok := o.trucks[truckID]
	if !ok {
		logrus.Debugf("stale signal: truck %v not registered", truckID)
		return nil, nil, false
	}
	return truck, station, true
}

// onArrivedAtSite starts mining at the reserved site.
func (o *Orchestrator) onArrivedAtSite(truckID EntityID) {
	truck, site, ok := o.resolveSiteLeg(LedgerMovingToSite, truckID)
	if !ok {
		return
	}
	o.ledgers.Transfer(LedgerMovingToSite, LedgerMining, truckID, site.ID())
	truck.SetState(TruckMining)
	site.SetState(SiteActivelyMined)
}

// onMiningCompleted sends the loaded truck to the station with the shortest
// queue. The unload duration is drawn now so the station's estimate includes
// it before the truck arrives. With no station the truck stays parked at its
// site, still mining-complete, and retries on its next tick.
func (o *Orchestrator) onMiningCompleted(truckID EntityID) {
	truck, site, ok := o.resolveSiteLeg(LedgerMining, truckID)
	if !ok {
		return
	}
	decision, ok := o.stationSelector.SelectStation(truckID, o.stationSnapshots())
	if !ok {
		o.markStalled(truckID, StallNoStation)
		return
	}
	station, ok := o.stations[decision.Target]
	if !ok {
		logrus.Warnf("station selector returned unknown station %v for truck %v", decision.Target, truckID)
		return
	}
	o.clearStall(truckID)

	estimate := truck.SampleUnloadDuration()
	station.Enqueue(truckID, estimate)
	o.ledgers.Transfer(LedgerMining, LedgerMovingToQueue, truckID, station.ID())
	truck.SetState(TruckMovingToQueue)
	site.SetState(SiteIdle)
	o.recordRouting(truckID, trace.RoutingStation, decision)
	logrus.Debugf("truck %v → station %v (%s, unload %.0fs)", truckID, station.ID(), decision.Reason, estimate)

	truck.MoveTo(TargetQueue, station.Location())
}

// onArrivedAtQueue parks the truck in the station queue until the station
// admits it.
func (o *Orchestrator) onArrivedAtQueue(truckID EntityID) {
	truck, station, ok := o.resolveStationLeg(LedgerMovingToQueue, truckID)
	if !ok {
		return
	}
	o.ledgers.Transfer(LedgerMovingToQueue, LedgerPendingUnload, truckID, station.ID())
	truck.SetState(TruckInQueue)
}

// onUnloadRequested moves the admitted truck from the queue into the bay.
func (o *Orchestrator) onUnloadRequested(stationID, truckID EntityID) {
	truck, station, ok := o.resolveStationLeg(LedgerPendingUnload, truckID)
	if !ok {
		o.revokeAdmission(stationID, truckID)
		return
	}
	if station.ID() != stationID {
		logrus.Debugf("stale signal: station %v admitted truck %v queued at %v", stationID, truckID, station.ID())
		o.revokeAdmission(stationID, truckID)
		return
	}
	o.ledgers.Transfer(LedgerPendingUnload, LedgerMovingToStation, truckID, station.ID())
	truck.SetState(TruckMovingToStation)
	truck.MoveTo(TargetStation, station.Location())
}

// revokeAdmission frees a bay whose admission was rejected as stale.
func (o *Orchestrator) revokeAdmission(stationID, truckID EntityID) {
	station, ok := o.stations[stationID]
	if !ok {
		return
	}
	if station.Revoke(truckID) {
		logrus.Debugf("station %v released rejected admission of truck %v", stationID, truckID)
	}
}

// onArrivedAtStation starts unloading. From here until completion the
// truck's UnloadProgress signals are credited to this station.
func (o *Orchestrator) onArrivedAtStation(truckID EntityID) {
	truck, station, ok := o.resolveStationLeg(LedgerMovingToStation, truckID)
	if !ok {
		return
	}
	o.ledgers.Transfer(LedgerMovingToStation, LedgerUnloading, truckID, station.ID())
	truck.SetState(TruckUnloading)
	station.SetState(StationUnloading)
}

// onUnloadProgress credits unloaded time to the occupied station.
func (o *Orchestrator) onUnloadProgress(truckID EntityID, delta float64) {
	_, station, ok := o.resolveStationLeg(LedgerUnloading, truckID)
	if !ok {
		return
	}
	station.ApplyUnload(delta)
}

// onUnloadingCompleted frees the bay and sends the empty truck back out.
func (o *Orchestrator) onUnloadingCompleted(truckID EntityID) {
	truck, station, ok := o.resolveStationLeg(LedgerUnloading, truckID)
	if !ok {
		return
	}
	o.ledgers.Remove(LedgerUnloading, truckID)
	station.SetState(StationIdle)
	station.Finish(truckID)
	truck.SetState(TruckIdle)
	if o.trace.Enabled() {
		o.trace.RecordCycle(trace.CycleRecord{
			TruckID:   uint64(truckID),
			StationID: uint64(station.ID()),
			Clock:     o.clock.Elapsed(),
			Unloaded:  truck.TotalUnloaded(),
		})
	}

	o.routeToSite(truck)
}

// === Registry views ===

func (o *Orchestrator) siteSnapshots() []SiteSnapshot {
	out := make([]SiteSnapshot, 0, len(o.siteOrder))
	for _, id := range o.siteOrder {
		out = append(out, SiteSnapshot{ID: id, State: o.sites[id].State()})
	}
	return out
}

func (o *Orchestrator) stationSnapshots() []StationSnapshot {
	out := make([]StationSnapshot, 0, len(o.stationOrder))
	for _, id := range o.stationOrder {
		s := o.stations[id]
		out = append(out, StationSnapshot{
			ID:                 id,
			State:              s.State(),
			QueueTime:          s.QueueTime(),
			QueueLen:           s.QueueLen(),
			ActiveTruck:        s.ActiveTruck(),
			TotalUnloadingTime: s.TotalUnloadingTime(),
			Served:             s.Served(),
		})
	}
	return out
}

// Trucks returns every truck in registry order.
func (o *Orchestrator) Trucks() []*Truck {
	out := make([]*Truck, 0, len(o.truckOrder))
	for _, id := range o.truckOrder {
		out = append(out, o.trucks[id])
	}
	return out
}

// Sites returns every extraction site in registry order.
func (o *Orchestrator) Sites() []*ExtractionSite {
	out := make([]*ExtractionSite, 0, len(o.siteOrder))
	for _, id := range o.siteOrder {
		out = append(out, o.sites[id])
	}
	return out
}

// Stations returns every unloading station in registry order.
func (o *Orchestrator) Stations() []*UnloadingStation {
	out := make([]*UnloadingStation, 0, len(o.stationOrder))
	for _, id := range o.stationOrder {
		out = append(out, o.stations[id])
	}
	return out
}

// Truck looks up a truck by id.
func (o *Orchestrator) Truck(id EntityID) (*Truck, bool) {
	t, ok := o.trucks[id]
	return t, ok
}

// Site looks up an extraction site by id.
func (o *Orchestrator) Site(id EntityID) (*ExtractionSite, bool) {
	s, ok := o.sites[id]
	return s, ok
}

// Station looks up an unloading station by id.
func (o *Orchestrator) Station(id EntityID) (*UnloadingStation, bool) {
	s, ok := o.stations[id]
	return s, ok
}

// Ledgers exposes the pending-transition ledgers. Read only.
func (o *Orchestrator) Ledgers() *Ledgers { return o.ledgers }

// Clock exposes the run clock.
func (o *Orchestrator) Clock() *Clock { return o.clock }

// Ticks returns the number of entity ticks executed in this run.
func (o *Orchestrator) Ticks() int64 { return o.ticks }

// RunID identifies the current run.
func (o *Orchestrator) RunID() string { return o.runID }

// Config returns the normalised configuration of the current run.
func (o *Orchestrator) Config() Config { return o.config }

// StalledTrucks returns the trucks that could not be routed, in registry order.
func (o *Orchestrator) StalledTrucks() []EntityID {
	var out []EntityID
	for _, id := range o.truckOrder {
		if _, ok := o.stalled[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// StallReasonOf returns why truck is stalled, if it is.
func (o *Orchestrator) StallReasonOf(truck EntityID) (StallReason, bool) {
	r, ok := o.stalled[truck]
	return r, ok
}
