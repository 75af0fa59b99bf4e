package testutil

const (
	defaultStartMillis int64 = 1000
)

// Clock implements clock.Clock, but each call to UptimeMillis() advances
// the reading. The first call returns Start and every subsequent call is
// incremented by the step, e.g. ten milliseconds at a time.
type Clock struct {
	Start int64
	step  int64
	last  int64
	used  bool
}

// UptimeMillis implements clock.Clock.
func (c *Clock) UptimeMillis() int64 {
	if !c.used {
		c.last = c.Start
		c.used = true
	} else {
		c.last += c.step
	}
	return c.last
}

// Add moves the clock forward by ms without consuming a reading.
func (c *Clock) Add(ms int64) int64 {
	if !c.used {
		c.last = c.Start
		c.used = true
	}
	c.last += ms
	return c.last
}

// Last returns the last reading that was used.
func (c *Clock) Last() int64 {
	if !c.used {
		return c.Start
	}
	return c.last
}

func NewClock(step int64) *Clock {
	return &Clock{
		Start: defaultStartMillis,
		step:  step,
	}
}
