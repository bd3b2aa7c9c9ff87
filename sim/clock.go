package sim

// Clock tracks the simulated time horizon of a run.
// All values are in simulated seconds.
type Clock struct {
	horizon   float64
	remaining float64
	dilation  float64
}

// NewClock creates a clock with the given horizon and a dilation of 1.
func NewClock(horizon float64) *Clock {
	c := &Clock{dilation: 1}
	c.SetHorizon(horizon)
	return c
}

// SetHorizon resets the clock to a fresh run of the given length.
// Negative horizons are treated as zero.
func (c *Clock) SetHorizon(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	c.horizon = seconds
	c.remaining = seconds
}

// Advance consumes deltaTime*dilation seconds and reports whether the horizon
// has been reached. Once complete, further calls keep returning true and
// never drive the remaining time below zero.
func (c *Clock) Advance(deltaTime float64) bool {
	if c.remaining <= 0 {
		c.remaining = 0
		return true
	}
	c.remaining -= deltaTime * c.dilation
	if c.remaining <= 0 {
		c.remaining = 0
		return true
	}
	return false
}

// Remaining returns the simulated seconds left before the horizon.
func (c *Clock) Remaining() float64 { return c.remaining }

// Elapsed returns the simulated seconds consumed so far.
func (c *Clock) Elapsed() float64 { return c.horizon - c.remaining }

// Horizon returns the configured run length.
func (c *Clock) Horizon() float64 { return c.horizon }

// SetDilation sets the multiplier applied to every Advance.
// Bounds are the caller's policy (see ClampDilation).
func (c *Clock) SetDilation(factor float64) { c.dilation = factor }

// Dilation returns the current time multiplier.
func (c *Clock) Dilation() float64 { return c.dilation }
