// Package trace provides decision-trace recording for post-run analysis of
// routing behaviour. This package has no dependencies on sim/; it stores
// pure data types keyed by raw entity ids.
package trace

// RoutingKind distinguishes site assignments from station assignments.
type RoutingKind string

const (
	RoutingSite    RoutingKind = "site"
	RoutingStation RoutingKind = "station"
)

// RoutingRecord captures a single routing decision.
type RoutingRecord struct {
	TruckID uint64             `json:"truck_id"`
	Clock   float64            `json:"clock"` // elapsed simulated seconds
	Kind    RoutingKind        `json:"kind"`
	Chosen  uint64             `json:"chosen"`
	Reason  string             `json:"reason"`
	Scores  map[uint64]float64 `json:"scores,omitempty"` // lower is better (may be nil)
	Regret  float64            `json:"regret"`           // score(chosen) - min(scores); 0 if chosen is best
}

// StallRecord captures a truck that could not be routed.
type StallRecord struct {
	TruckID uint64  `json:"truck_id"`
	Clock   float64 `json:"clock"`
	Reason  string  `json:"reason"`
}

// CycleRecord captures a completed unload.
type CycleRecord struct {
	TruckID   uint64  `json:"truck_id"`
	StationID uint64  `json:"station_id"`
	Clock     float64 `json:"clock"`
	Unloaded  float64 `json:"unloaded"` // truck total after this cycle, seconds
}

// ComputeRegret returns score(chosen) - min(scores) for a lower-is-better
// score map. Returns 0 if scores is empty or chosen is missing.
func ComputeRegret(chosen uint64, scores map[uint64]float64) float64 {
	chosenScore, ok := scores[chosen]
	if !ok {
		return 0
	}
	best := chosenScore
	for _, s := range scores {
		if s < best {
			best = s
		}
	}
	return chosenScore - best
}
