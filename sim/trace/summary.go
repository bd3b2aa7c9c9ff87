package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalRoutings       int
	SiteRoutings        int
	StationRoutings     int
	Stalls              int
	Cycles              int
	MeanRegret          float64
	MaxRegret           float64
	UniqueStations      int
	StationDistribution map[uint64]int // station ID → count of trucks routed
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		StationDistribution: make(map[uint64]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalRoutings = len(st.Routings)
	summary.Stalls = len(st.Stalls)
	summary.Cycles = len(st.Cycles)

	totalRegret := 0.0
	for _, r := range st.Routings {
		switch r.Kind {
		case RoutingSite:
			summary.SiteRoutings++
		case RoutingStation:
			summary.StationRoutings++
			summary.StationDistribution[r.Chosen]++
			totalRegret += r.Regret
			if r.Regret > summary.MaxRegret {
				summary.MaxRegret = r.Regret
			}
		}
	}
	if summary.StationRoutings > 0 {
		summary.MeanRegret = totalRegret / float64(summary.StationRoutings)
	}

	summary.UniqueStations = len(summary.StationDistribution)

	return summary
}
