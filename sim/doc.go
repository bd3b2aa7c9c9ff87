// Package sim provides the discrete-event engine for the haulage simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - truck.go: Truck lifecycle (idle → site → mining → queue → station → unloading) and timers
//   - station.go: UnloadingStation FIFO admission and aggregate queue-time estimate
//   - event.go: Signal types raised by entities and delivered to the Orchestrator
//   - orchestrator.go: registries, pending-transition ledgers, signal handlers and the tick loop
//
// # Architecture
//
// Entities never reference each other. Every timer expiry or completed move
// raises a Signal which the Orchestrator dispatches synchronously to one of
// its handlers; the handler updates the ledgers and commands the next state.
// Signals therefore re-enter the Orchestrator while it is still inside a
// Tick, and every handler validates the ledger entry it expects before
// acting.
//
// Leaf packages carry no dependency on sim:
//   - sim/geometry/: vectors, spawn layout and the synthetic path planner
//   - sim/trace/: routing, stall and cycle records plus JSONL export
//
// sim/telemetry/ consumes Orchestrator snapshots and exposes them as
// Prometheus metrics.
//
// # Key Interfaces
//
//   - SiteSelector: pick an extraction site for an idle truck (first idle by default)
//   - StationSelector: pick an unloading station for a loaded truck (shortest queue by default)
//   - geometry.PathPlanner: synthetic travel distance used to derive truck speed
//   - SignalSink: receiver for entity signals (the Orchestrator)
package sim
