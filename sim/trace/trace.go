package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures routing decisions and stalls.
	TraceLevelDecisions TraceLevel = "decisions"
	// TraceLevelCycles additionally captures every completed unload.
	TraceLevelCycles TraceLevel = "cycles"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	TraceLevelCycles:    true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during a run.
type SimulationTrace struct {
	Config   TraceConfig
	RunID    string
	Routings []RoutingRecord
	Stalls   []StallRecord
	Cycles   []CycleRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:   config,
		Routings: make([]RoutingRecord, 0),
		Stalls:   make([]StallRecord, 0),
		Cycles:   make([]CycleRecord, 0),
	}
}

// Enabled reports whether decisions should be recorded. Safe on nil.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level != TraceLevelNone && st.Config.Level != ""
}

// RecordRouting appends a routing decision record.
func (st *SimulationTrace) RecordRouting(record RoutingRecord) {
	st.Routings = append(st.Routings, record)
}

// RecordStall appends a stall record.
func (st *SimulationTrace) RecordStall(record StallRecord) {
	st.Stalls = append(st.Stalls, record)
}

// RecordCycle appends a cycle record when the level asks for cycles.
func (st *SimulationTrace) RecordCycle(record CycleRecord) {
	if st.Config.Level != TraceLevelCycles {
		return
	}
	st.Cycles = append(st.Cycles, record)
}

// Reset drops every record and tags the trace with a new run id.
func (st *SimulationTrace) Reset(runID string) {
	st.RunID = runID
	st.Routings = st.Routings[:0]
	st.Stalls = st.Stalls[:0]
	st.Cycles = st.Cycles[:0]
}
