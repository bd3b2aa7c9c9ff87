package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/haul-sim/sim"
)

var (
	sweepTrucks   []int // Fleet sizes to try
	sweepStations []int // Station counts to try
)

// SweepResult is one cell of a sweep.
type SweepResult struct {
	Trucks   int
	Stations int
	Report   sim.EfficiencyReport
}

// sweepCmd runs the same scenario across fleet and station sizes: more
// trucks against fixed stations, and fewer trucks against more stations.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compare efficiency across truck and station counts",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		base, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if len(sweepTrucks) == 0 || len(sweepStations) == 0 {
			logrus.Fatalf("sweep needs at least one truck count and one station count")
		}
		results := runSweep(base, sweepTrucks, sweepStations)
		printSweep(os.Stdout, results)
	},
}

func registerSweepFlags(cmd *cobra.Command) {
	cmd.Flags().IntSliceVar(&sweepTrucks, "truck-counts", []int{5, 10, 20, 40}, "Comma-separated fleet sizes")
	cmd.Flags().IntSliceVar(&sweepStations, "station-counts", []int{1, 2, 3, 5}, "Comma-separated station counts")
}

// runSweep runs every (trucks, stations) pair sequentially with the same
// seed, so cells differ only in fleet shape.
func runSweep(base sim.Config, trucks, stations []int) []SweepResult {
	results := make([]SweepResult, 0, len(trucks)*len(stations))
	o := sim.NewOrchestrator()
	for _, nt := range trucks {
		for _, ns := range stations {
			cfg := base
			cfg.Trucks = nt
			cfg.Stations = ns
			if cfg.Sites > 0 && cfg.Sites < nt {
				logrus.Warnf("sweep: %d sites for %d trucks, some trucks will park", cfg.Sites, nt)
			}
			o.Start(cfg)
			results = append(results, SweepResult{Trucks: nt, Stations: ns, Report: o.Run()})
		}
	}
	o.Teardown()
	return results
}

func printSweep(w io.Writer, results []SweepResult) {
	fmt.Fprintln(w, "=== Sweep ===")
	fmt.Fprintf(w, "%8s %9s %10s %12s %14s %8s\n", "trucks", "stations", "global", "truck-mean", "station-mean", "cycles")
	var best *SweepResult
	for i := range results {
		r := &results[i]
		fmt.Fprintf(w, "%8d %9d %9.2f%% %11.2f%% %13.2f%% %8s\n",
			r.Trucks, r.Stations, r.Report.Global*100,
			r.Report.MeanTruckEfficiency()*100, r.Report.MeanStationEfficiency()*100,
			humanize.Comma(int64(r.Report.TotalCycles())))
		if best == nil || r.Report.MeanTruckEfficiency() > best.Report.MeanTruckEfficiency() {
			best = r
		}
	}
	if best != nil {
		fmt.Fprintf(w, "Best per-truck efficiency: %d trucks, %d stations (%.2f%%)\n",
			best.Trucks, best.Stations, best.Report.MeanTruckEfficiency()*100)
	}
}
