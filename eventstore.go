package a11y

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bruth/a11y/codec"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	eventKindHdr  = "A11y-Event-Kind"
	eventCodecHdr = "A11y-Codec"

	defaultDuplicateWindow = 2 * time.Minute
)

var (
	ErrNoEvents = errors.New("a11y: no events to append")
)

type eventStoreOption func(o *EventStore) error

func (f eventStoreOption) addOption(o *EventStore) error {
	return f(o)
}

// EventStoreOption models an option when creating an event store.
type EventStoreOption interface {
	addOption(o *EventStore) error
}

// RecordCodec sets the codec used to encode records. Default is codec.Default.
func RecordCodec(name string) EventStoreOption {
	return eventStoreOption(func(o *EventStore) error {
		c, err := codec.Registry.Get(name)
		if err != nil {
			return err
		}
		o.codec = c
		return nil
	})
}

// Logger sets the logger of the event store.
func Logger(l *zap.Logger) EventStoreOption {
	return eventStoreOption(func(o *EventStore) error {
		o.logger = l
		return nil
	})
}

// Pack a record into a NATS message. The event ID is used as the message
// ID so the server drops repeated appends of the same logical event within
// the duplicate window.
func (s *EventStore) packRecord(r *Record) (*nats.Msg, error) {
	data, err := s.codec.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("pack: %s: %w", r.ID, err)
	}

	msg := nats.NewMsg(fmt.Sprintf("%s.%s", s.name, r.Kind))
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, r.ID)
	msg.Header.Set(eventKindHdr, r.Kind)
	msg.Header.Set(eventCodecHdr, s.codec.Name())
	return msg, nil
}

// Unpack a record from a NATS message.
func unpackRecord(msg *nats.Msg) (*Record, error) {
	c, err := codec.Registry.Get(msg.Header.Get(eventCodecHdr))
	if err != nil {
		return nil, fmt.Errorf("unpack: %w", err)
	}

	var r Record
	if err := c.Unmarshal(msg.Data, &r); err != nil {
		return nil, fmt.Errorf("unpack: %w", err)
	}

	if msg.Reply != "" {
		md, err := msg.Metadata()
		if err != nil {
			return nil, fmt.Errorf("unpack: failed to get metadata: %w", err)
		}
		r.Seq = md.Sequence.Stream
	}

	return &r, nil
}

type loadOpts struct {
	afterSeq *uint64
}

type loadOptFn func(o *loadOpts) error

func (f loadOptFn) loadOpt(o *loadOpts) error {
	return f(o)
}

// LoadOption is an option for the event store Load operation.
type LoadOption interface {
	loadOpt(o *loadOpts) error
}

// AfterSequence only loads records with a stream sequence greater than seq.
// This is useful when a consumer already processed records up to seq.
func AfterSequence(seq uint64) LoadOption {
	return loadOptFn(func(o *loadOpts) error {
		o.afterSeq = &seq
		return nil
	})
}

type natsApiError struct {
	Code        int    `json:"code"`
	ErrCode     uint16 `json:"err_code"`
	Description string `json:"description"`
}

type natsGetMsgRequest struct {
	LastBySubject string `json:"last_by_subj"`
}

type natsGetMsgResponse struct {
	Type    string         `json:"type"`
	Error   *natsApiError  `json:"error"`
	Message *natsStoredMsg `json:"message"`
}

type natsStoredMsg struct {
	Sequence uint64 `json:"seq"`
}

// EventStore appends event records to a JetStream stream so downstream
// metrics and logging consumers can process the event stream.
type EventStore struct {
	name   string
	nc     *nats.Conn
	js     nats.JetStreamContext
	codec  codec.Codec
	logger *zap.Logger
}

// NewEventStore returns an event store backed by the stream name. Records
// are published on "<name>.<kind>".
func NewEventStore(nc *nats.Conn, name string, opts ...EventStoreOption) (*EventStore, error) {
	if nc == nil || name == "" {
		return nil, fmt.Errorf("%w: event store requires a connection and name", ErrInvalidArgument)
	}

	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}

	s := &EventStore{
		name:   name,
		nc:     nc,
		js:     js,
		codec:  codec.Default,
		logger: zap.NewNop(),
	}

	for _, o := range opts {
		if err := o.addOption(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Name returns the stream name.
func (s *EventStore) Name() string {
	return s.name
}

// Subject returns the subject records of kind are published on.
func (s *EventStore) Subject(kind Kind) string {
	return fmt.Sprintf("%s.%s", s.name, kind)
}

// Create creates the underlying stream. Name and subjects are set from the
// event store if not specified.
func (s *EventStore) Create(config *nats.StreamConfig) error {
	if config == nil {
		config = &nats.StreamConfig{}
	}
	cfg := *config
	cfg.Name = s.name
	if len(cfg.Subjects) == 0 {
		cfg.Subjects = []string{fmt.Sprintf("%s.>", s.name)}
	}
	if cfg.Duplicates == 0 {
		cfg.Duplicates = defaultDuplicateWindow
	}

	_, err := s.js.AddStream(&cfg)
	return err
}

// Delete deletes the underlying stream.
func (s *EventStore) Delete() error {
	return s.js.DeleteStream(s.name)
}

// Append publishes the events in order and returns the stream sequence of
// the last one. The store keeps at most one event per ID within the
// duplicate window: an event whose ID matches one already appended is
// dropped and the original sequence is reported instead. Distinct events
// of the same kind stamped in the same uptime millisecond share an ID, so
// only the first of them is stored.
func (s *EventStore) Append(ctx context.Context, events []*Event) (uint64, error) {
	if len(events) == 0 {
		return 0, ErrNoEvents
	}

	popts := []nats.PubOpt{
		nats.Context(ctx),
		nats.ExpectStream(s.name),
	}

	var seq uint64
	for _, e := range events {
		if e == nil {
			return 0, fmt.Errorf("%w: nil event", ErrInvalidArgument)
		}

		msg, err := s.packRecord(NewRecord(e))
		if err != nil {
			return 0, err
		}

		ack, err := s.js.PublishMsg(msg, popts...)
		if err != nil {
			return 0, err
		}

		if ack.Duplicate {
			s.logger.Debug("duplicate event",
				zap.Stringer("id", e.ID()),
				zap.Uint64("seq", ack.Sequence))
		}
		seq = ack.Sequence
	}

	return seq, nil
}

// lastMsgForSubject queries the JS API for the latest message on a subject.
// This is used as a best-guess indicator of the current end of the history.
func (s *EventStore) lastMsgForSubject(ctx context.Context, subject string) (*natsStoredMsg, error) {
	rsubject := fmt.Sprintf("$JS.API.STREAM.MSG.GET.%s", s.name)

	data, _ := json.Marshal(&natsGetMsgRequest{
		LastBySubject: subject,
	})

	msg, err := s.nc.RequestWithContext(ctx, rsubject, data)
	if err != nil {
		return nil, err
	}

	var rep natsGetMsgResponse
	err = json.Unmarshal(msg.Data, &rep)
	if err != nil {
		return nil, err
	}

	if rep.Error != nil {
		if rep.Error.Code == 404 {
			return &natsStoredMsg{}, nil
		}
		return nil, fmt.Errorf("%s (%d)", rep.Error.Description, rep.Error.Code)
	}

	return rep.Message, nil
}

// lastSeq returns the sequence of the last message on subject. An empty
// subject means the whole stream. The returned flag is false when no message
// matches; the sequence is then the stream's last assigned one, which may
// point at a purged or deleted message.
func (s *EventStore) lastSeq(ctx context.Context, subject string) (uint64, bool, error) {
	if subject == "" {
		info, err := s.js.StreamInfo(s.name, nats.Context(ctx))
		if err != nil {
			return 0, false, err
		}
		st := info.State
		if st.Msgs == 0 || st.LastSeq < st.FirstSeq {
			return st.LastSeq, false, nil
		}
		return st.LastSeq, true, nil
	}

	msg, err := s.lastMsgForSubject(ctx, subject)
	if err != nil {
		return 0, false, err
	}
	return msg.Sequence, msg.Sequence > 0, nil
}

// Load fetches the records on subject, or on the whole stream if subject is
// empty. Subjects must not contain wildcards. It returns the records and
// the sequence of the last one. If the whole stream is loaded and nothing
// is left, the sequence is the last one the stream assigned, so it can be
// passed to AfterSequence.
func (s *EventStore) Load(ctx context.Context, subject string, opts ...LoadOption) ([]*Record, uint64, error) {
	var o loadOpts
	for _, opt := range opts {
		if err := opt.loadOpt(&o); err != nil {
			return nil, 0, err
		}
	}

	last, ok, err := s.lastSeq(ctx, subject)
	if err != nil {
		return nil, 0, err
	}

	if !ok {
		return nil, last, nil
	}

	filter := subject
	if filter == "" {
		filter = fmt.Sprintf("%s.>", s.name)
	}

	// Ephemeral ordered consumer.. read as fast as possible with least overhead.
	sopts := []nats.SubOpt{
		nats.OrderedConsumer(),
	}

	if o.afterSeq != nil {
		if last <= *o.afterSeq {
			return nil, last, nil
		}
		sopts = append(sopts, nats.StartSequence(*o.afterSeq+1))
	} else {
		sopts = append(sopts, nats.DeliverAll())
	}

	sub, err := s.js.SubscribeSync(filter, sopts...)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = sub.Unsubscribe()
	}()

	// The last sequence may belong to a deleted message. Ask the consumer how
	// many messages it has to deliver in total before blocking on any of them.
	ci, err := sub.ConsumerInfo()
	if err != nil {
		return nil, 0, err
	}
	if ci.NumPending+ci.Delivered.Consumer == 0 {
		return nil, last, nil
	}

	var records []*Record
	for {
		msg, err := sub.NextMsgWithContext(ctx)
		if err != nil {
			return nil, 0, err
		}

		r, err := unpackRecord(msg)
		if err != nil {
			return nil, 0, err
		}

		records = append(records, r)

		md, err := msg.Metadata()
		if err != nil {
			return nil, 0, err
		}
		if md.NumPending == 0 || r.Seq >= last {
			break
		}
	}

	return records, records[len(records)-1].Seq, nil
}
