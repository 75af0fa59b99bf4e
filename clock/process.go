package clock

import "time"

var processStart = time.Now()

// processUptimeMillis uses the monotonic reading carried by processStart.
func processUptimeMillis() int64 {
	return time.Since(processStart).Milliseconds()
}
