//go:build unix

package clock

import "golang.org/x/sys/unix"

// uptimeMillis reads CLOCK_MONOTONIC, which does not advance while the
// device is suspended.
func uptimeMillis() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return processUptimeMillis()
	}
	return ts.Nano() / 1e6
}
