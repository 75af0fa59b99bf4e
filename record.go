package a11y

// Record is the serialized form of an Event. Snapshots and views are
// referenced by ID only.
type Record struct {
	ID           string `msgpack:"id" json:"id"`
	Kind         string `msgpack:"kind" json:"kind"`
	UptimeMillis int64  `msgpack:"uptime" json:"uptime"`
	Snapshot     string `msgpack:"snapshot" json:"snapshot"`
	Source       string `msgpack:"source,omitempty" json:"source,omitempty"`

	// Seq is the stream sequence of a loaded record.
	Seq uint64 `msgpack:"-" json:"-"`
}

func NewRecord(e *Event) *Record {
	r := &Record{
		ID:           e.ID().String(),
		Kind:         e.kind.String(),
		UptimeMillis: e.uptimeMillis,
		Snapshot:     e.snapshot.SnapshotID(),
	}
	if e.source != nil {
		r.Source = e.source.ViewID()
	}
	return r
}

// EventID returns the correlation key of the recorded event.
func (r *Record) EventID() ID {
	return ID{
		ClassName:    r.Kind,
		UptimeMillis: r.UptimeMillis,
	}
}
