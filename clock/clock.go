package clock

var (
	Uptime Clock = &uptimeClock{}
)

// Clock reports the device uptime in milliseconds. Values are monotonic
// and unrelated to wall-clock time.
type Clock interface {
	UptimeMillis() int64
}

type uptimeClock struct{}

func (c *uptimeClock) UptimeMillis() int64 {
	return uptimeMillis()
}
