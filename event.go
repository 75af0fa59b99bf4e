package a11y

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

var (
	ErrInvalidArgument = errors.New("a11y: invalid argument")
	ErrUnknownKind     = errors.New("a11y: unknown event kind")
)

// Snapshot is a consistency checkpoint of the UI element tree. Events are
// interpreted against exactly one snapshot.
type Snapshot interface {
	fmt.Stringer

	// SnapshotID identifies the snapshot when an event is serialized.
	SnapshotID() string
}

// SnapshotView references one element inside a Snapshot.
type SnapshotView interface {
	fmt.Stringer

	ViewID() string
}

// Kind is the closed set of event variants.
type Kind uint8

const (
	// KindInterpreted is an event derived from a platform accessibility event.
	KindInterpreted Kind = iota + 1

	// KindSynthetic is an event generated by interpreters rather than
	// forwarded from the platform.
	KindSynthetic

	// KindSnapshotDone is a synthetic event signalling a completed snapshot.
	KindSnapshotDone
)

var kindNames = map[Kind]string{
	KindInterpreted:  "Event",
	KindSynthetic:    "Synthetic",
	KindSnapshotDone: "SnapshotDone",
}

// String returns the variant name, which is also the ID class name.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// IsSynthetic reports whether the variant is, or specializes, Synthetic.
func (k Kind) IsSynthetic() bool {
	return k == KindSynthetic || k == KindSnapshotDone
}

// ParseKind returns the Kind for a variant name.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ID is a key used to correlate and de-duplicate events in metrics. It is
// comparable and can be used as a map key.
type ID struct {
	ClassName    string
	UptimeMillis int64
}

func (id ID) String() string {
	return id.ClassName + ":" + strconv.FormatInt(id.UptimeMillis, 10)
}

// Event is an interpreted accessibility event paired with the snapshot it
// was interpreted against. Events are immutable once constructed.
type Event struct {
	kind Kind

	// Consistent with the platform event time, in uptime milliseconds.
	uptimeMillis int64

	snapshot Snapshot
	source   SnapshotView
}

// NewEvent returns an event derived from a platform event. The snapshot is
// required. The source may be nil and, if set, must belong to the snapshot.
func NewEvent(uptimeMillis int64, snapshot Snapshot, source SnapshotView) (*Event, error) {
	return newEvent(KindInterpreted, uptimeMillis, snapshot, source)
}

func newEvent(kind Kind, uptimeMillis int64, snapshot Snapshot, source SnapshotView) (*Event, error) {
	if isNil(snapshot) {
		return nil, fmt.Errorf("%w: %s requires a snapshot", ErrInvalidArgument, kind)
	}
	if isNil(source) {
		source = nil
	}
	if kind.IsSynthetic() && source != nil {
		return nil, fmt.Errorf("%w: %s cannot have a source", ErrInvalidArgument, kind)
	}
	return &Event{
		kind:         kind,
		uptimeMillis: uptimeMillis,
		snapshot:     snapshot,
		source:       source,
	}, nil
}

// isNil catches typed nil pointers stored in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func (e *Event) Kind() Kind {
	return e.kind
}

func (e *Event) UptimeMillis() int64 {
	return e.uptimeMillis
}

func (e *Event) Snapshot() Snapshot {
	return e.snapshot
}

// Source returns the view that triggered the event or nil.
func (e *Event) Source() SnapshotView {
	return e.source
}

// ID returns the correlation key of the event. The key is derived from the
// stored event time so every call on the same event returns the same ID.
func (e *Event) ID() ID {
	return ID{
		ClassName:    e.kind.String(),
		UptimeMillis: e.uptimeMillis,
	}
}

func (e *Event) String() string {
	return e.kind.String() + "{" + joinFields(
		optionalInt("uptime", e.uptimeMillis, 0),
		optionalSubObj("source", e.source),
	) + "}"
}

// Handler receives an event by variant. Implementations must handle every
// variant; synthetic variants never carry a source.
type Handler interface {
	HandleEvent(e *Event) error
	HandleSynthetic(e *Event) error
	HandleSnapshotDone(e *Event) error
}

// Dispatch calls the Handler method matching the event's variant.
func Dispatch(e *Event, h Handler) error {
	switch e.kind {
	case KindInterpreted:
		return h.HandleEvent(e)
	case KindSynthetic:
		return h.HandleSynthetic(e)
	case KindSnapshotDone:
		return h.HandleSnapshotDone(e)
	}
	return fmt.Errorf("%w: %s", ErrUnknownKind, e.kind)
}
