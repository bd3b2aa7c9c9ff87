package sim

import "fmt"

// SiteSnapshot is a lightweight view of an extraction site for routing.
type SiteSnapshot struct {
	ID    EntityID
	State SiteState
}

// StationSnapshot is a lightweight view of an unloading station for routing
// and reporting.
type StationSnapshot struct {
	ID                 EntityID
	State              StationState
	QueueTime          float64 // aggregate unload estimate, seconds
	QueueLen           int
	ActiveTruck        EntityID
	TotalUnloadingTime float64
	Served             int
}

// RoutingDecision is the outcome of a site or station selection.
type RoutingDecision struct {
	Target EntityID             // must match a snapshot ID
	Reason string               // human-readable explanation
	Scores map[EntityID]float64 // candidate → score, lower is better (nil if unscored)
}

// SiteSelector picks an extraction site for an idle truck. ok is false when
// no site can take it.
type SiteSelector interface {
	SelectSite(truck EntityID, sites []SiteSnapshot) (decision RoutingDecision, ok bool)
}

// StationSelector picks an unloading station for a loaded truck. ok is false
// when there is no station at all.
type StationSelector interface {
	SelectStation(truck EntityID, stations []StationSnapshot) (decision RoutingDecision, ok bool)
}

// FirstIdleSite returns the first idle site in registry order. Sites are
// interchangeable and inexhaustible, so no load balancing is attempted.
type FirstIdleSite struct{}

// SelectSite implements SiteSelector for FirstIdleSite.
func (FirstIdleSite) SelectSite(truck EntityID, sites []SiteSnapshot) (RoutingDecision, bool) {
	for i, s := range sites {
		if s.State == SiteIdle {
			return RoutingDecision{
				Target: s.ID,
				Reason: fmt.Sprintf("first-idle[%d]", i),
			}, true
		}
	}
	return RoutingDecision{}, false
}

// ShortestQueue routes to the station with the minimum aggregate queue time.
// Ties are broken by first occurrence in registry order.
type ShortestQueue struct{}

// SelectStation implements StationSelector for ShortestQueue.
func (ShortestQueue) SelectStation(truck EntityID, stations []StationSnapshot) (RoutingDecision, bool) {
	if len(stations) == 0 {
		return RoutingDecision{}, false
	}
	scores := make(map[EntityID]float64, len(stations))
	best := stations[0]
	for _, s := range stations {
		scores[s.ID] = s.QueueTime
		if s.QueueTime < best.QueueTime {
			best = s
		}
	}
	return RoutingDecision{
		Target: best.ID,
		Reason: fmt.Sprintf("shortest-queue (queue=%.1fs)", best.QueueTime),
		Scores: scores,
	}, true
}
