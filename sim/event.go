package sim

// Signal is a completion notice raised by an entity. Signals are delivered
// synchronously: Dispatch runs the matching Orchestrator handler before the
// entity call that raised it returns.
type Signal interface {
	// Truck returns the truck the signal concerns.
	Truck() EntityID
	// Deliver runs the Orchestrator handler for this transition.
	Deliver(o *Orchestrator)
}

// SignalSink receives signals from entities.
type SignalSink interface {
	Dispatch(Signal)
}

// MoveTarget names the destination kind of a truck movement.
type MoveTarget int

const (
	TargetSite    MoveTarget = iota // an extraction site
	TargetQueue                     // the waiting area of an unloading station
	TargetStation                   // the unloading bay itself
)

func (t MoveTarget) String() string {
	switch t {
	case TargetSite:
		return "site"
	case TargetQueue:
		return "queue"
	case TargetStation:
		return "station"
	}
	return "unknown"
}

// MoveCompleted is raised when a truck reaches its movement target.
type MoveCompleted struct {
	TruckID EntityID
	Target  MoveTarget
}

// Truck returns the moving truck.
func (s MoveCompleted) Truck() EntityID { return s.TruckID }

// Deliver routes the arrival to the handler for its target.
func (s MoveCompleted) Deliver(o *Orchestrator) {
	switch s.Target {
	case TargetSite:
		o.onArrivedAtSite(s.TruckID)
	case TargetQueue:
		o.onArrivedAtQueue(s.TruckID)
	case TargetStation:
		o.onArrivedAtStation(s.TruckID)
	}
}

// MiningCompleted is raised when a truck's mining timer runs out.
type MiningCompleted struct {
	TruckID EntityID
}

func (s MiningCompleted) Truck() EntityID         { return s.TruckID }
func (s MiningCompleted) Deliver(o *Orchestrator) { o.onMiningCompleted(s.TruckID) }

// UnloadProgress is raised on every unloading tick with the time unloaded.
type UnloadProgress struct {
	TruckID EntityID
	Delta   float64
}

func (s UnloadProgress) Truck() EntityID         { return s.TruckID }
func (s UnloadProgress) Deliver(o *Orchestrator) { o.onUnloadProgress(s.TruckID, s.Delta) }

// UnloadingCompleted is raised when a truck's unloading timer runs out.
type UnloadingCompleted struct {
	TruckID EntityID
}

func (s UnloadingCompleted) Truck() EntityID         { return s.TruckID }
func (s UnloadingCompleted) Deliver(o *Orchestrator) { o.onUnloadingCompleted(s.TruckID) }

// UnloadRequested is raised by a station's queue processor when the bay is
// free and TruckID is at the head of its queue.
type UnloadRequested struct {
	StationID EntityID
	TruckID   EntityID
}

func (s UnloadRequested) Truck() EntityID { return s.TruckID }
func (s UnloadRequested) Deliver(o *Orchestrator) {
	o.onUnloadRequested(s.StationID, s.TruckID)
}
