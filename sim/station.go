package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/haul-sim/sim/geometry"
)

// StationState is the occupancy state of an unloading station's bay.
type StationState int

const (
	StationIdle      StationState = iota // bay free
	StationUnloading                     // a truck is unloading
)

func (s StationState) String() string {
	switch s {
	case StationIdle:
		return "idle"
	case StationUnloading:
		return "unloading"
	}
	return "unknown"
}

// UnloadingStation is a shared facility with a single unloading bay and a
// FIFO of waiting trucks.
//
// Every truck the station knows about (queued, on its way into the bay, or
// unloading) is in the tracked set exactly once. The aggregate queue time is
// the sum of the unload estimates of all tracked trucks, reduced as unloading
// progresses; it is the load signal used to pick the shortest queue.
type UnloadingStation struct {
	Entity

	state       StationState
	queue       TruckQueue
	tracked     map[EntityID]struct{}
	activeTruck EntityID

	aggregateQueueTime float64
	totalUnloadingTime float64
	served             int

	sink SignalSink
}

// NewUnloadingStation creates an idle station at loc. sink receives the
// UnloadRequested signals raised by ProcessQueue.
func NewUnloadingStation(id EntityID, loc geometry.Vector, sink SignalSink) *UnloadingStation {
	return &UnloadingStation{
		Entity:  Entity{id: id, location: loc},
		tracked: make(map[EntityID]struct{}),
		sink:    sink,
	}
}

// State returns the bay state.
func (s *UnloadingStation) State() StationState { return s.state }

// SetState changes the bay state.
func (s *UnloadingStation) SetState(state StationState) {
	if state != s.state {
		s.state = state
	}
}

// Enqueue appends a truck to the queue with its estimated unload time.
// A truck that is already tracked is ignored and false is returned.
func (s *UnloadingStation) Enqueue(truck EntityID, estimatedUnloadSeconds float64) bool {
	if truck == NoEntity {
		return false
	}
	if _, ok := s.tracked[truck]; ok {
		logrus.Debugf("station %v: truck %v already tracked, enqueue ignored", s.id, truck)
		return false
	}
	s.queue.Enqueue(truck)
	s.tracked[truck] = struct{}{}
	s.aggregateQueueTime += estimatedUnloadSeconds
	return true
}

// Tick runs the queue processor.
func (s *UnloadingStation) Tick(deltaTime float64) {
	s.ProcessQueue()
}

// ProcessQueue admits the truck at the head of the queue when the bay is
// free, recording it as the active truck and raising UnloadRequested.
func (s *UnloadingStation) ProcessQueue() {
	if s.state != StationIdle || s.activeTruck != NoEntity {
		return
	}
	if s.queue.Len() == 0 {
		return
	}
	s.activeTruck = s.queue.Dequeue()
	if s.sink != nil {
		s.sink.Dispatch(UnloadRequested{StationID: s.id, TruckID: s.activeTruck})
	}
}

// ApplyUnload accounts deltaTime of unloading by the active truck.
func (s *UnloadingStation) ApplyUnload(deltaTime float64) {
	s.totalUnloadingTime += deltaTime
	s.aggregateQueueTime -= deltaTime
	if s.aggregateQueueTime <= 0 {
		s.aggregateQueueTime = 0
	}
}

// Finish releases the bay held by truck. Calls for any other truck are
// ignored and return false. The aggregate queue time is only reset once no
// truck remains tracked; it is not amortised truck by truck.
func (s *UnloadingStation) Finish(truck EntityID) bool {
	if truck == NoEntity || truck != s.activeTruck {
		return false
	}
	s.activeTruck = NoEntity
	delete(s.tracked, truck)
	s.served++
	if len(s.tracked) == 0 {
		s.aggregateQueueTime = 0
	}
	return true
}

// Revoke undoes an admission the orchestrator rejected, freeing the bay
// for the next queued truck. It only applies while the bay has not started
// unloading.
func (s *UnloadingStation) Revoke(truck EntityID) bool {
	if truck == NoEntity || truck != s.activeTruck || s.state != StationIdle {
		return false
	}
	s.activeTruck = NoEntity
	delete(s.tracked, truck)
	if len(s.tracked) == 0 {
		s.aggregateQueueTime = 0
	}
	return true
}

// QueueTime returns the aggregate unload estimate of every tracked truck.
func (s *UnloadingStation) QueueTime() float64 { return s.aggregateQueueTime }

// QueueLen returns the number of trucks waiting (excluding the bay).
func (s *UnloadingStation) QueueLen() int { return s.queue.Len() }

// Queue returns the waiting trucks in admission order. Read only.
func (s *UnloadingStation) Queue() []EntityID { return s.queue.Items() }

// Tracks reports whether truck is queued, entering, or unloading here.
func (s *UnloadingStation) Tracks(truck EntityID) bool {
	_, ok := s.tracked[truck]
	return ok
}

// TrackedCount returns the number of tracked trucks.
func (s *UnloadingStation) TrackedCount() int { return len(s.tracked) }

// ActiveTruck returns the truck admitted to the bay, or NoEntity.
func (s *UnloadingStation) ActiveTruck() EntityID { return s.activeTruck }

// TotalUnloadingTime returns the seconds of unloading done at this station.
func (s *UnloadingStation) TotalUnloadingTime() float64 { return s.totalUnloadingTime }

// Served returns how many trucks have finished unloading here.
func (s *UnloadingStation) Served() int { return s.served }
