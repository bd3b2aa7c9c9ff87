package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/haul-sim/sim"
	"github.com/inference-sim/haul-sim/sim/trace"
)

var (
	// Fleet and timing
	seed             int64   // Seed for duration sampling and site layout
	logLevel         string  // Log verbosity level
	numTrucks        int     // Trucks in the fleet
	numStations      int     // Unloading stations
	numSites         int     // Extraction sites (0 = one per truck)
	miningMinHours   float64 // Shortest mining time per cycle, hours
	miningMaxHours   float64 // Longest mining time per cycle, hours
	unloadMinMinutes float64 // Shortest unloading time per cycle, minutes
	unloadMaxMinutes float64 // Longest unloading time per cycle, minutes
	horizonSeconds   float64 // Simulated run length, seconds
	stepSeconds      float64 // Tick size, seconds
	dilation         float64 // Playback multiplier applied to every tick
	truckSpeed       float64 // Travel speed multiplier

	// Inputs and outputs
	scenarioPath string  // YAML scenario file
	traceOutPath string  // Decision trace JSONL (.zst compresses)
	traceLevel   string  // Decision trace detail
	metricsOut   string  // Prometheus textfile
	reportEvery  float64 // Progress log interval, simulated seconds
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "haul-sim",
	Short: "Discrete-event simulator for a mining truck fleet",
}

// runCmd executes one simulation using parameters from the scenario file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the haulage simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q; valid: none, decisions, cycles", traceLevel)
		}

		o := sim.NewOrchestrator()
		st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})
		if !st.Enabled() {
			st = nil
		}
		o.SetTrace(st)

		startTime := time.Now()
		o.Start(cfg)
		report := o.RunWithProgress(reportEvery, logProgress)
		logrus.Infof("Run %s finished in %v (%d ticks)", o.RunID(), time.Since(startTime).Round(time.Millisecond), o.Ticks())

		report.Print(os.Stdout)

		if st != nil {
			printTraceSummary(os.Stdout, st)
			if traceOutPath != "" {
				if err := trace.WriteJSONL(traceOutPath, st); err != nil {
					logrus.Fatalf("%v", err)
				}
				logrus.Infof("Decision trace written to %s", traceOutPath)
			}
		}
		if metricsOut != "" {
			if err := writeMetrics(metricsOut, o.Snapshot()); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Metrics written to %s", metricsOut)
		}

		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func logProgress(s sim.Snapshot) {
	logrus.Infof("[%.0fs] mining=%d queued=%d unloading=%d stalled=%d efficiency=%.2f%%",
		s.Elapsed, s.TrucksIn(sim.TruckMining), s.TrucksIn(sim.TruckInQueue),
		s.TrucksIn(sim.TruckUnloading), s.Stalled, s.GlobalEfficiency*100)
}

// registerConfigFlags adds the flags shared by run and sweep.
func registerConfigFlags(cmd *cobra.Command) {
	def := sim.DefaultConfig()
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "Seed for duration sampling and site layout")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().IntVar(&numTrucks, "trucks", def.Trucks, "Number of trucks")
	cmd.Flags().IntVar(&numStations, "stations", def.Stations, "Number of unloading stations")
	cmd.Flags().IntVar(&numSites, "sites", def.Sites, "Number of extraction sites (0 = one per truck)")
	cmd.Flags().Float64Var(&miningMinHours, "mining-min-hours", def.MiningHours.Min, "Shortest mining time per cycle (hours)")
	cmd.Flags().Float64Var(&miningMaxHours, "mining-max-hours", def.MiningHours.Max, "Longest mining time per cycle (hours)")
	cmd.Flags().Float64Var(&unloadMinMinutes, "unload-min-minutes", def.UnloadingMinutes.Min, "Shortest unloading time per cycle (minutes)")
	cmd.Flags().Float64Var(&unloadMaxMinutes, "unload-max-minutes", def.UnloadingMinutes.Max, "Longest unloading time per cycle (minutes)")
	cmd.Flags().Float64Var(&horizonSeconds, "horizon", def.Horizon, "Simulated run length (seconds)")
	cmd.Flags().Float64Var(&stepSeconds, "step", def.Step, "Tick size (seconds)")
	cmd.Flags().Float64Var(&dilation, "dilation", def.Dilation, "Playback multiplier applied to every tick (1-5)")
	cmd.Flags().Float64Var(&truckSpeed, "truck-speed", def.TruckSpeed, "Truck travel speed multiplier (min 0.5)")
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file; flags set explicitly override it")
}

// init sets up CLI flags and subcommands
func init() {
	registerConfigFlags(runCmd)
	runCmd.Flags().StringVar(&traceOutPath, "trace-out", "", "Write the decision trace as JSONL to this path (.zst compresses)")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace detail (none, decisions, cycles)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write final Prometheus metrics to this textfile")
	runCmd.Flags().Float64Var(&reportEvery, "report-every", 0, "Log progress every N simulated seconds (0 disables)")

	registerConfigFlags(sweepCmd)
	registerSweepFlags(sweepCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}
