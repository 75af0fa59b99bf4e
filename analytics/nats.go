package analytics

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bruth/a11y/id"
	"github.com/bruth/a11y/types"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATS is a Backend publishing each call as a record on
// "<subject>.<record type>".
type NATS struct {
	nc      *nats.Conn
	owned   bool
	subject string
	types   *types.Registry
	id      id.ID
	logger  *zap.Logger

	closed atomic.Bool
	once   sync.Once
}

var _ Backend = (*NATS)(nil)

// NewNATS returns a backend publishing on nc. If owned is true, Close also
// closes the connection.
func NewNATS(nc *nats.Conn, owned bool, subject string, reg *types.Registry, gen id.ID, logger *zap.Logger) (*NATS, error) {
	if nc == nil || reg == nil || gen == nil {
		return nil, fmt.Errorf("analytics: nats backend requires a connection, registry and id generator")
	}
	if subject == "" {
		return nil, fmt.Errorf("analytics: nats backend requires a subject")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATS{
		nc:      nc,
		owned:   owned,
		subject: subject,
		types:   reg,
		id:      gen,
		logger:  logger,
	}, nil
}

// Subject returns the subject records of type t are published on.
func (n *NATS) Subject(t string) string {
	return n.subject + "." + t
}

func (n *NATS) publish(v any) {
	if n.closed.Load() {
		n.logger.Debug("analytics backend closed, dropping record", zap.Any("record", v))
		return
	}

	t, err := n.types.Lookup(v)
	if err != nil {
		n.logger.Error("unregistered analytics record", zap.Error(err))
		return
	}

	data, err := n.types.Marshal(v)
	if err != nil {
		n.logger.Error("failed to encode analytics record", zap.String("type", t), zap.Error(err))
		return
	}

	msg := nats.NewMsg(n.Subject(t))
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, n.id.New())
	msg.Header.Set(recordTypeHdr, t)
	msg.Header.Set(recordCodecHdr, n.types.Codec().Name())

	if err := n.nc.PublishMsg(msg); err != nil {
		n.logger.Warn("failed to publish analytics record", zap.String("type", t), zap.Error(err))
	}
}

func (n *NATS) LogStartedEvent(device string, inputCode, outputCode Code) {
	n.publish(&Started{Device: device, InputCode: inputCode, OutputCode: outputCode})
}

func (n *NATS) LogTypingBrailleCharacter(count int) {
	n.publish(&TypingCharacters{Count: count})
}

func (n *NATS) LogReadingBrailleCharacter(count int) {
	n.publish(&ReadingCharacters{Count: count})
}

func (n *NATS) LogBrailleInputCodeSetting(code Code) {
	n.publish(&InputCodeSetting{Code: code})
}

func (n *NATS) LogBrailleOutputCodeSetting(code Code) {
	n.publish(&OutputCodeSetting{Code: code})
}

func (n *NATS) LogWordWrappingSetting(enabled bool) {
	n.publish(&WordWrappingSetting{Enabled: enabled})
}

// Close flushes pending records.
func (n *NATS) Close() error {
	var err error
	n.once.Do(func() {
		n.closed.Store(true)
		err = n.nc.Flush()
		if n.owned {
			n.nc.Close()
		}
	})
	return err
}
