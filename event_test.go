package a11y

import (
	"testing"

	"github.com/bruth/a11y/snapshot"
	"github.com/bruth/a11y/testutil"
)

func newSnapshot(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	s, err := snapshot.New(&snapshot.Node{
		ID: "root",
		Children: []*snapshot.Node{
			{ID: "ok", ClassName: "android.widget.Button", Text: "OK"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewEvent(t *testing.T) {
	is := testutil.NewIs(t)

	snap := newSnapshot(t)
	view, _ := snap.View("ok")

	e, err := NewEvent(1234, snap, view)
	is.NoErr(err)
	is.Equal(e.Kind(), KindInterpreted)
	is.Equal(e.UptimeMillis(), int64(1234))
	is.True(e.Snapshot() == Snapshot(snap))
	is.True(e.Source() == SnapshotView(view))

	e, err = NewEvent(1234, snap, nil)
	is.NoErr(err)
	is.True(e.Source() == nil)

	// A typed nil source is treated as absent.
	var nv *snapshot.View
	e, err = NewEvent(1234, snap, nv)
	is.NoErr(err)
	is.True(e.Source() == nil)
}

func TestNewEventRequiresSnapshot(t *testing.T) {
	is := testutil.NewIs(t)

	_, err := NewEvent(1234, nil, nil)
	is.Err(err, ErrInvalidArgument)

	var s *snapshot.Snapshot
	_, err = NewEvent(1234, s, nil)
	is.Err(err, ErrInvalidArgument)

	_, err = NewSynthetic(nil)
	is.Err(err, ErrInvalidArgument)

	_, err = NewSnapshotDone(nil)
	is.Err(err, ErrInvalidArgument)
}

func TestSynthetic(t *testing.T) {
	is := testutil.NewIs(t)

	c := testutil.NewClock(10)
	i, err := New(Clock(c))
	is.NoErr(err)

	snap := newSnapshot(t)

	e, err := i.Synthetic(snap)
	is.NoErr(err)
	is.Equal(e.Kind(), KindSynthetic)
	is.Equal(e.UptimeMillis(), int64(1000))
	is.True(e.Source() == nil)

	d, err := i.SnapshotDone(snap)
	is.NoErr(err)
	is.Equal(d.Kind(), KindSnapshotDone)
	is.True(d.Kind().IsSynthetic())
	is.Equal(d.UptimeMillis(), int64(1010))
	is.True(d.Snapshot() == Snapshot(snap))
	is.True(d.Source() == nil)

	e, err = NewSnapshotDone(snap)
	is.NoErr(err)
	is.True(e.Source() == nil)

	_, err = New(Clock(nil))
	is.Err(err, ErrInvalidArgument)
}

func TestIDStable(t *testing.T) {
	is := testutil.NewIs(t)

	c := testutil.NewClock(10)
	i, _ := New(Clock(c))

	e, err := i.SnapshotDone(newSnapshot(t))
	is.NoErr(err)

	// Advancing the clock must not change the key.
	id1 := e.ID()
	c.Add(500)
	id2 := e.ID()
	is.Equal(id1, id2)
	is.Equal(id1, ID{ClassName: "SnapshotDone", UptimeMillis: 1000})
	is.Equal(id1.String(), "SnapshotDone:1000")
}

func TestIDEquality(t *testing.T) {
	is := testutil.NewIs(t)

	a := ID{ClassName: "Synthetic", UptimeMillis: 5}
	b := ID{ClassName: "Synthetic", UptimeMillis: 5}
	c := ID{ClassName: "SnapshotDone", UptimeMillis: 5}
	d := ID{ClassName: "Synthetic", UptimeMillis: 6}

	is.True(a == b)
	is.False(a == c)
	is.False(a == d)

	m := map[ID]int{a: 1}
	m[b]++
	m[c]++
	is.Equal(m[a], 2)
	is.Equal(len(m), 2)
}

func TestString(t *testing.T) {
	is := testutil.NewIs(t)

	snap := newSnapshot(t)
	view, _ := snap.View("ok")

	e, _ := NewEvent(0, snap, nil)
	is.Equal(e.String(), "Event{}")

	e, _ = NewEvent(1234, snap, nil)
	is.Equal(e.String(), "Event{uptime=1234}")

	e, _ = NewEvent(1234, snap, view)
	is.Equal(e.String(), `Event{uptime=1234, source={id=ok, class=android.widget.Button, text="OK"}}`)

	i, _ := New(Clock(testutil.NewClock(1)))
	d, _ := i.SnapshotDone(snap)
	is.Equal(d.String(), "SnapshotDone{uptime=1000}")
}

func TestKind(t *testing.T) {
	is := testutil.NewIs(t)

	for _, k := range []Kind{KindInterpreted, KindSynthetic, KindSnapshotDone} {
		is.True(k.Valid())
		p, err := ParseKind(k.String())
		is.NoErr(err)
		is.Equal(p, k)
	}

	is.False(KindInterpreted.IsSynthetic())
	is.False(Kind(0).Valid())
	is.Equal(Kind(9).String(), "Kind(9)")

	_, err := ParseKind("ViewFocused")
	is.Err(err, ErrUnknownKind)
}

type kindCounter struct {
	counts map[Kind]int
}

func (h *kindCounter) HandleEvent(e *Event) error {
	h.counts[e.Kind()]++
	return nil
}

func (h *kindCounter) HandleSynthetic(e *Event) error {
	h.counts[e.Kind()]++
	return nil
}

func (h *kindCounter) HandleSnapshotDone(e *Event) error {
	if e.Source() != nil {
		return ErrInvalidArgument
	}
	h.counts[e.Kind()]++
	return nil
}

func TestDispatch(t *testing.T) {
	is := testutil.NewIs(t)

	snap := newSnapshot(t)
	view, _ := snap.View("ok")
	i, _ := New(Clock(testutil.NewClock(1)))

	e1, _ := i.Event(5, snap, view)
	e2, _ := i.Synthetic(snap)
	e3, _ := i.SnapshotDone(snap)

	h := &kindCounter{counts: map[Kind]int{}}
	for _, e := range []*Event{e1, e2, e3, e3} {
		is.NoErr(Dispatch(e, h))
	}
	is.Equal(h.counts, map[Kind]int{
		KindInterpreted:  1,
		KindSynthetic:    1,
		KindSnapshotDone: 2,
	})

	is.Err(Dispatch(&Event{kind: Kind(42)}, h), ErrUnknownKind)
}

func TestRecord(t *testing.T) {
	is := testutil.NewIs(t)

	snap := newSnapshot(t)
	view, _ := snap.View("ok")

	e, _ := NewEvent(77, snap, view)
	r := NewRecord(e)
	is.Equal(r, &Record{
		ID:           "Event:77",
		Kind:         "Event",
		UptimeMillis: 77,
		Snapshot:     snap.SnapshotID(),
		Source:       "ok",
	})
	is.Equal(r.EventID(), e.ID())
}
