package sim

import "github.com/sirupsen/logrus"

const (
	// MinDilation and MaxDilation bound the playback multiplier.
	MinDilation = 1.0
	MaxDilation = 5.0

	// MinTruckSpeed is the lowest truck speed multiplier accepted.
	MinTruckSpeed = 0.5

	// ReferenceTravelSeconds is the nominal duration of every leg between a
	// site and a station (30 simulated minutes).
	ReferenceTravelSeconds = 1800.0

	// DefaultHorizonSeconds is a 72 hour run.
	DefaultHorizonSeconds = 259200.0
)

// DurationRange is an inclusive [Min, Max] sampling interval. The unit is
// fixed by the field that holds it (hours for mining, minutes for unloading).
type DurationRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample interpolates the range with lambda in [0,1). A degenerate range
// returns Min exactly.
func (r DurationRange) Sample(lambda float64) float64 {
	return r.Min + lambda*(r.Max-r.Min)
}

// Config holds everything needed to start a run.
type Config struct {
	Trucks   int // fleet size
	Stations int // unloading stations
	Sites    int // extraction sites; 0 spawns one per truck

	MiningHours      DurationRange // per-cycle mining time, hours
	UnloadingMinutes DurationRange // per-cycle unloading time, minutes

	Horizon    float64 // run length, simulated seconds
	Step       float64 // tick size used by Run, simulated seconds
	Dilation   float64 // playback multiplier, clamped to [MinDilation, MaxDilation]
	TruckSpeed float64 // travel speed multiplier, at least MinTruckSpeed
	Seed       int64
}

// DefaultConfig returns the reference operation: 10 trucks, 3 stations,
// 1-5 hour mining, 5 minute unloading over 72 hours.
func DefaultConfig() Config {
	return Config{
		Trucks:           10,
		Stations:         3,
		MiningHours:      DurationRange{Min: 1, Max: 5},
		UnloadingMinutes: DurationRange{Min: 5, Max: 5},
		Horizon:          DefaultHorizonSeconds,
		Step:             1,
		Dilation:         1,
		TruckSpeed:       1,
		Seed:             42,
	}
}

// SiteCount returns the number of extraction sites the config spawns.
func (c Config) SiteCount() int {
	if c.Sites <= 0 {
		return c.Trucks
	}
	return c.Sites
}

// Normalize clamps out-of-range values to their documented minimums.
// Nothing is rejected: the engine degrades instead of failing.
func (c Config) Normalize() Config {
	if c.Trucks < 0 {
		logrus.Warnf("truck count %d clamped to 0", c.Trucks)
		c.Trucks = 0
	}
	if c.Stations < 0 {
		logrus.Warnf("station count %d clamped to 0", c.Stations)
		c.Stations = 0
	}
	if c.Sites < 0 {
		logrus.Warnf("site count %d treated as one site per truck", c.Sites)
		c.Sites = 0
	}
	c.MiningHours = normalizeRange("mining hours", c.MiningHours)
	c.UnloadingMinutes = normalizeRange("unloading minutes", c.UnloadingMinutes)
	if c.Horizon < 0 {
		logrus.Warnf("horizon %.2fs clamped to 0", c.Horizon)
		c.Horizon = 0
	}
	if c.Step <= 0 {
		c.Step = 1
	}
	if c.Dilation == 0 {
		c.Dilation = MinDilation
	} else if clamped := ClampDilation(c.Dilation); clamped != c.Dilation {
		logrus.Warnf("dilation %.2f clamped to %.2f", c.Dilation, clamped)
		c.Dilation = clamped
	}
	if c.TruckSpeed == 0 {
		c.TruckSpeed = 1
	} else if c.TruckSpeed < MinTruckSpeed {
		logrus.Warnf("truck speed %.2f clamped to %.2f", c.TruckSpeed, MinTruckSpeed)
		c.TruckSpeed = MinTruckSpeed
	}
	return c
}

func normalizeRange(name string, r DurationRange) DurationRange {
	if r.Min < 0 {
		logrus.Warnf("%s min %.4f clamped to 0", name, r.Min)
		r.Min = 0
	}
	if r.Max < r.Min {
		logrus.Warnf("%s max %.4f raised to min %.4f", name, r.Max, r.Min)
		r.Max = r.Min
	}
	return r
}

// ClampDilation bounds a playback multiplier to [MinDilation, MaxDilation].
func ClampDilation(f float64) float64 {
	if f < MinDilation {
		return MinDilation
	}
	if f > MaxDilation {
		return MaxDilation
	}
	return f
}

// ClampTruckSpeed bounds a truck speed multiplier below by MinTruckSpeed.
func ClampTruckSpeed(f float64) float64 {
	if f < MinTruckSpeed {
		return MinTruckSpeed
	}
	return f
}
