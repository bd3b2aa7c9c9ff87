package cmd

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/haul-sim/sim"
	"github.com/inference-sim/haul-sim/sim/telemetry"
	"github.com/inference-sim/haul-sim/sim/trace"
)

// resolveConfig builds the run configuration: defaults, then the scenario
// file, then every flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if scenarioPath != "" {
		sc, err := sim.LoadScenario(scenarioPath)
		if err != nil {
			return cfg, fmt.Errorf("loading scenario %s: %w", scenarioPath, err)
		}
		sc.Apply(&cfg)
	}

	flags := cmd.Flags()
	if flags.Changed("trucks") {
		cfg.Trucks = numTrucks
	}
	if flags.Changed("stations") {
		cfg.Stations = numStations
	}
	if flags.Changed("sites") {
		cfg.Sites = numSites
	}
	if flags.Changed("mining-min-hours") {
		cfg.MiningHours.Min = miningMinHours
	}
	if flags.Changed("mining-max-hours") {
		cfg.MiningHours.Max = miningMaxHours
	}
	if flags.Changed("unload-min-minutes") {
		cfg.UnloadingMinutes.Min = unloadMinMinutes
	}
	if flags.Changed("unload-max-minutes") {
		cfg.UnloadingMinutes.Max = unloadMaxMinutes
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizonSeconds
	}
	if flags.Changed("step") {
		cfg.Step = stepSeconds
	}
	if flags.Changed("dilation") {
		cfg.Dilation = dilation
	}
	if flags.Changed("truck-speed") {
		cfg.TruckSpeed = truckSpeed
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

// writeMetrics exports one snapshot through a private registry.
func writeMetrics(path string, snap sim.Snapshot) error {
	reg := prometheus.NewRegistry()
	c, err := telemetry.NewCollector(reg)
	if err != nil {
		return fmt.Errorf("creating metrics collector: %w", err)
	}
	c.Observe(snap)
	return c.WriteTextfile(path)
}

func printTraceSummary(w io.Writer, st *trace.SimulationTrace) {
	s := trace.Summarize(st)
	fmt.Fprintln(w, "=== Decision Trace ===")
	fmt.Fprintf(w, "Routing Decisions    : %d (%d site, %d station)\n", s.TotalRoutings, s.SiteRoutings, s.StationRoutings)
	fmt.Fprintf(w, "Stalls               : %d\n", s.Stalls)
	fmt.Fprintf(w, "Recorded Cycles      : %d\n", s.Cycles)
	fmt.Fprintf(w, "Mean Station Regret  : %.1fs (max %.1fs)\n", s.MeanRegret, s.MaxRegret)
	fmt.Fprintf(w, "Stations Used        : %d\n", s.UniqueStations)
}
