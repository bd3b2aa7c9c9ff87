// Package telemetry exposes run snapshots as Prometheus metrics.
//
// The simulator has no wall-clock server loop, so metrics are pushed in by
// Observe and exported with WriteTextfile (node_exporter textfile format)
// rather than scraped.
package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inference-sim/haul-sim/sim"
)

// Collector holds the haul-sim gauges.
type Collector struct {
	gatherer prometheus.Gatherer

	Remaining        prometheus.Gauge
	Elapsed          prometheus.Gauge
	GlobalEfficiency prometheus.Gauge
	StalledTrucks    prometheus.Gauge
	Observations     prometheus.Counter

	TrucksByState   *prometheus.GaugeVec
	TruckUnloaded   *prometheus.GaugeVec
	TruckCycles     *prometheus.GaugeVec
	StationQueue    *prometheus.GaugeVec
	StationQueueLen *prometheus.GaugeVec
	StationUnloaded *prometheus.GaugeVec
	StationServed   *prometheus.GaugeVec
}

// NewCollector registers the haul-sim metrics against reg (the default
// registerer when nil). Registering twice on the same registry reuses the
// existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	c := &Collector{gatherer: gatherer}

	var err error
	gauges := []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{&c.Remaining, "haul_sim_remaining_seconds", "Simulated seconds left before the horizon."},
		{&c.Elapsed, "haul_sim_elapsed_seconds", "Simulated seconds consumed by the run."},
		{&c.GlobalEfficiency, "haul_global_efficiency_ratio", "Summed station unloading time over elapsed time."},
		{&c.StalledTrucks, "haul_stalled_trucks", "Trucks that could not be routed to a site or station."},
	}
	for _, g := range gauges {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: g.name, Help: g.help})
		if *g.dst, err = registerGauge(reg, gauge, g.name); err != nil {
			return nil, err
		}
	}

	observations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "haul_observations_total",
		Help: "Snapshots fed to the collector.",
	})
	if c.Observations, err = registerCounter(reg, observations, "haul_observations_total"); err != nil {
		return nil, err
	}

	vecs := []struct {
		dst   **prometheus.GaugeVec
		name  string
		help  string
		label string
	}{
		{&c.TrucksByState, "haul_trucks", "Trucks per lifecycle state.", "state"},
		{&c.TruckUnloaded, "haul_truck_unloaded_seconds", "Seconds each truck has spent unloading.", "truck"},
		{&c.TruckCycles, "haul_truck_cycles", "Unload cycles completed by each truck.", "truck"},
		{&c.StationQueue, "haul_station_queue_seconds", "Aggregate unload estimate of the trucks tracked by each station.", "station"},
		{&c.StationQueueLen, "haul_station_queue_length", "Trucks waiting in each station queue.", "station"},
		{&c.StationUnloaded, "haul_station_unloading_seconds", "Seconds of unloading performed at each station.", "station"},
		{&c.StationServed, "haul_station_served", "Trucks that finished unloading at each station.", "station"},
	}
	for _, v := range vecs {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: v.name, Help: v.help}, []string{v.label})
		if *v.dst, err = registerGaugeVec(reg, vec, v.name); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Observe sets every gauge from snap. Per-truck and per-station series are
// reset first so entities from a previous run do not linger.
func (c *Collector) Observe(snap sim.Snapshot) {
	if c == nil {
		return
	}
	c.Observations.Inc()
	c.Remaining.Set(snap.Remaining)
	c.Elapsed.Set(snap.Elapsed)
	c.GlobalEfficiency.Set(snap.GlobalEfficiency)
	c.StalledTrucks.Set(float64(snap.Stalled))

	for _, state := range sim.TruckStates {
		c.TrucksByState.WithLabelValues(state.String()).Set(float64(snap.TrucksIn(state)))
	}

	c.TruckUnloaded.Reset()
	c.TruckCycles.Reset()
	for _, t := range snap.Trucks {
		id := label(t.ID)
		c.TruckUnloaded.WithLabelValues(id).Set(t.TotalUnloaded)
		c.TruckCycles.WithLabelValues(id).Set(float64(t.Cycles))
	}

	c.StationQueue.Reset()
	c.StationQueueLen.Reset()
	c.StationUnloaded.Reset()
	c.StationServed.Reset()
	for _, s := range snap.Stations {
		id := label(s.ID)
		c.StationQueue.WithLabelValues(id).Set(s.QueueTime)
		c.StationQueueLen.WithLabelValues(id).Set(float64(s.QueueLen))
		c.StationUnloaded.WithLabelValues(id).Set(s.TotalUnloadingTime)
		c.StationServed.WithLabelValues(id).Set(float64(s.Served))
	}
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

func label(id sim.EntityID) string {
	return fmt.Sprintf("%d", uint64(id))
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
