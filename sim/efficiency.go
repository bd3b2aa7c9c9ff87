// Projects a run's unloading totals into efficiency figures:
// per truck, per station, and for the whole operation.

package sim

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"gonum.org/v1/gonum/stat"
)

// EfficiencyReport is a read-only projection of a run. Every figure is the
// fraction of elapsed simulated time spent unloading. Sequences follow
// registry (spawn) order.
type EfficiencyReport struct {
	RunID   string
	Elapsed float64 // simulated seconds

	// Global is the summed station unloading time over elapsed time. With
	// more than one station it can exceed 1.
	Global float64

	TruckIDs    []EntityID
	PerTruck    []float64
	TruckCycles []int

	StationIDs    []EntityID
	PerStation    []float64
	StationServed []int
}

// Efficiency builds the report for the current run without changing it.
func (o *Orchestrator) Efficiency() EfficiencyReport {
	elapsed := o.clock.Elapsed()
	r := EfficiencyReport{
		RunID:         o.runID,
		Elapsed:       elapsed,
		TruckIDs:      make([]EntityID, 0, len(o.truckOrder)),
		PerTruck:      make([]float64, 0, len(o.truckOrder)),
		TruckCycles:   make([]int, 0, len(o.truckOrder)),
		StationIDs:    make([]EntityID, 0, len(o.stationOrder)),
		PerStation:    make([]float64, 0, len(o.stationOrder)),
		StationServed: make([]int, 0, len(o.stationOrder)),
	}

	for _, id := range o.truckOrder {
		t := o.trucks[id]
		r.TruckIDs = append(r.TruckIDs, id)
		r.PerTruck = append(r.PerTruck, ratio(t.TotalUnloaded(), elapsed))
		r.TruckCycles = append(r.TruckCycles, t.Cycles())
	}

	total := 0.0
	for _, id := range o.stationOrder {
		s := o.stations[id]
		total += s.TotalUnloadingTime()
		r.StationIDs = append(r.StationIDs, id)
		r.PerStation = append(r.PerStation, ratio(s.TotalUnloadingTime(), elapsed))
		r.StationServed = append(r.StationServed, s.Served())
	}
	r.Global = ratio(total, elapsed)
	return r
}

func ratio(part, elapsed float64) float64 {
	if elapsed <= 0 {
		return 0
	}
	return part / elapsed
}

// MeanTruckEfficiency returns the unweighted mean of PerTruck (0 when empty).
func (r EfficiencyReport) MeanTruckEfficiency() float64 {
	if len(r.PerTruck) == 0 {
		return 0
	}
	return stat.Mean(r.PerTruck, nil)
}

// MeanStationEfficiency returns the unweighted mean of PerStation (0 when empty).
func (r EfficiencyReport) MeanStationEfficiency() float64 {
	if len(r.PerStation) == 0 {
		return 0
	}
	return stat.Mean(r.PerStation, nil)
}

// TotalCycles sums completed unload cycles across the fleet.
func (r EfficiencyReport) TotalCycles() int {
	n := 0
	for _, c := range r.TruckCycles {
		n += c
	}
	return n
}

// Print writes the report in a fixed-width text layout.
func (r EfficiencyReport) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Efficiency Report ===")
	if r.RunID != "" {
		fmt.Fprintf(w, "Run                  : %s\n", r.RunID)
	}
	fmt.Fprintf(w, "Simulated Time       : %s s (%.1f h)\n", humanize.Commaf(r.Elapsed), r.Elapsed/3600)
	fmt.Fprintf(w, "Global Efficiency    : %.2f%%\n", r.Global*100)
	fmt.Fprintf(w, "Completed Cycles     : %s\n", humanize.Comma(int64(r.TotalCycles())))
	if len(r.PerTruck) > 0 {
		fmt.Fprintf(w, "Mean Truck Eff.      : %.2f%%\n", r.MeanTruckEfficiency()*100)
	}
	if len(r.PerStation) > 0 {
		fmt.Fprintf(w, "Mean Station Eff.    : %.2f%%\n", r.MeanStationEfficiency()*100)
	}

	fmt.Fprintln(w, "--- Trucks ---")
	for i, id := range r.TruckIDs {
		fmt.Fprintf(w, "  truck %-6v %6.2f%%  %s\n", id, r.PerTruck[i]*100,
			english.Plural(r.TruckCycles[i], "cycle", "cycles"))
	}
	fmt.Fprintln(w, "--- Stations ---")
	for i, id := range r.StationIDs {
		fmt.Fprintf(w, "  station %-4v %6.2f%%  %s served\n", id, r.PerStation[i]*100,
			english.Plural(r.StationServed[i], "truck", "trucks"))
	}
}
