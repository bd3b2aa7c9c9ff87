package sim

// TruckSnapshot is a point-in-time view of one truck.
type TruckSnapshot struct {
	ID                EntityID
	State             TruckState
	MiningTimeLeft    float64
	UnloadingTimeLeft float64
	TotalUnloaded     float64
	Cycles            int
}

// Snapshot is a point-in-time view of a whole run, used for progress
// reporting and telemetry. It holds copies; mutating it has no effect.
type Snapshot struct {
	RunID     string
	Elapsed   float64
	Remaining float64
	Dilation  float64
	Ticks     int64

	Trucks   []TruckSnapshot
	Stations []StationSnapshot
	Sites    []SiteSnapshot
	Stalled  int

	GlobalEfficiency float64
}

// TrucksIn counts the trucks in state s.
func (s Snapshot) TrucksIn(state TruckState) int {
	n := 0
	for _, t := range s.Trucks {
		if t.State == state {
			n++
		}
	}
	return n
}

// Snapshot captures the current run.
func (o *Orchestrator) Snapshot() Snapshot {
	snap := Snapshot{
		RunID:     o.runID,
		Elapsed:   o.clock.Elapsed(),
		Remaining: o.clock.Remaining(),
		Dilation:  o.clock.Dilation(),
		Ticks:     o.ticks,
		Trucks:    make([]TruckSnapshot, 0, len(o.truckOrder)),
		Stations:  o.stationSnapshots(),
		Sites:     o.siteSnapshots(),
		Stalled:   len(o.stalled),
	}
	total := 0.0
	for _, st := range snap.Stations {
		total += st.TotalUnloadingTime
	}
	snap.GlobalEfficiency = ratio(total, snap.Elapsed)
	for _, id := range o.truckOrder {
		t := o.trucks[id]
		snap.Trucks = append(snap.Trucks, TruckSnapshot{
			ID:                id,
			State:             t.State(),
			MiningTimeLeft:    t.MiningTimeLeft(),
			UnloadingTimeLeft: t.UnloadingTimeLeft(),
			TotalUnloaded:     t.TotalUnloaded(),
			Cycles:            t.Cycles(),
		})
	}
	return snap
}
