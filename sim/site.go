package sim

import "github.com/inference-sim/haul-sim/sim/geometry"

// SiteState is the reservation state of an extraction site.
type SiteState int

const (
	SiteIdle          SiteState = iota // free to be reserved
	SiteTruckEnRoute                   // reserved by a travelling truck
	SiteActivelyMined                  // a truck is mining it
)

func (s SiteState) String() string {
	switch s {
	case SiteIdle:
		return "idle"
	case SiteTruckEnRoute:
		return "truck_en_route"
	case SiteActivelyMined:
		return "actively_mined"
	}
	return "unknown"
}

// ExtractionSite is an inexhaustible location a single truck mines at a
// time. It has no timers and no agency; the Orchestrator drives it.
type ExtractionSite struct {
	Entity
	state SiteState
}

// NewExtractionSite creates an idle site at loc.
func NewExtractionSite(id EntityID, loc geometry.Vector) *ExtractionSite {
	return &ExtractionSite{Entity: Entity{id: id, location: loc}}
}

// State returns the site state.
func (s *ExtractionSite) State() SiteState { return s.state }

// SetState changes the site state.
func (s *ExtractionSite) SetState(state SiteState) {
	if state != s.state {
		s.state = state
	}
}
