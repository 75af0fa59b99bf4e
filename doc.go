/*
Package a11y models interpreted accessibility events and streams them to
metrics consumers over NATS.

# Events

An Event is an accessibility occurrence interpreted against a Snapshot of
the UI element tree. Events derived from platform events carry the platform
event time and, optionally, the view that triggered them.

	snap, _ := snapshot.New(root)
	view, _ := snap.View("ok-button")

	e, err := a11y.NewEvent(eventUptime, snap, view)

Synthetic events are generated by interpreters. They are stamped with the
current uptime and never carry a source.

	done, err := a11y.NewSnapshotDone(snap)

Every constructor fails with ErrInvalidArgument if the snapshot is nil.

# Identity

Event.ID combines the variant name with the event's own uptime, for example
"SnapshotDone:86400123". The ID is fixed at construction so it can be used
to de-duplicate the same logical event across consumers.

# Variants

Kind is a closed set. Consumers switch on Event.Kind or implement Handler
and call Dispatch to handle every variant.

# EventStore

Append publishes events as Records on a JetStream stream, using the event ID
as the message ID so the server drops repeated appends. The store therefore
keeps at most one event per ID within the stream's duplicate window. Two
events of the same kind stamped in the same uptime millisecond collapse into
the first one appended, even if their snapshots differ.

	es, err := a11y.NewEventStore(nc, "a11y")
	err = es.Create(&nats.StreamConfig{Storage: nats.FileStorage})

	seq, err := es.Append(ctx, []*a11y.Event{e, done})

	records, lastSeq, err := es.Load(ctx, "", a11y.AfterSequence(seq))
*/
package a11y
