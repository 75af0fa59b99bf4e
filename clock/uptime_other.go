//go:build !unix

package clock

func uptimeMillis() int64 {
	return processUptimeMillis()
}
