package a11y

import (
	"github.com/bruth/a11y/clock"
)

type interpreterOption func(o *Interpreter) error

func (f interpreterOption) addOption(o *Interpreter) error {
	return f(o)
}

// Option models an option when creating an Interpreter.
type Option interface {
	addOption(o *Interpreter) error
}

// Clock sets the clock used to stamp synthetic events. Default is clock.Uptime.
func Clock(c clock.Clock) Option {
	return interpreterOption(func(o *Interpreter) error {
		if c == nil {
			return ErrInvalidArgument
		}
		o.clock = c
		return nil
	})
}

// Interpreter constructs events. Synthetic events are stamped with the
// interpreter's clock at construction time.
type Interpreter struct {
	clock clock.Clock
}

// Event returns an event derived from a platform event that occurred at
// uptimeMillis.
func (i *Interpreter) Event(uptimeMillis int64, snapshot Snapshot, source SnapshotView) (*Event, error) {
	return NewEvent(uptimeMillis, snapshot, source)
}

// Synthetic returns an event generated internally for the snapshot.
func (i *Interpreter) Synthetic(snapshot Snapshot) (*Event, error) {
	return newEvent(KindSynthetic, i.clock.UptimeMillis(), snapshot, nil)
}

// SnapshotDone returns a synthetic event signalling the snapshot is complete.
func (i *Interpreter) SnapshotDone(snapshot Snapshot) (*Event, error) {
	return newEvent(KindSnapshotDone, i.clock.UptimeMillis(), snapshot, nil)
}

// New initializes an Interpreter.
func New(opts ...Option) (*Interpreter, error) {
	i := &Interpreter{
		clock: clock.Uptime,
	}

	for _, o := range opts {
		if err := o.addOption(i); err != nil {
			return nil, err
		}
	}

	return i, nil
}

var std = &Interpreter{clock: clock.Uptime}

// NewSynthetic returns a synthetic event stamped with the device uptime.
func NewSynthetic(snapshot Snapshot) (*Event, error) {
	return std.Synthetic(snapshot)
}

// NewSnapshotDone returns a SnapshotDone event stamped with the device uptime.
func NewSnapshotDone(snapshot Snapshot) (*Event, error) {
	return std.SnapshotDone(snapshot)
}
