package analytics

import (
	"fmt"
	"strings"

	"github.com/bruth/a11y/id"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	BackendNop        = "nop"
	BackendPrometheus = "prometheus"
	BackendNATS       = "nats"
)

// Config selects and configures the analytics backend.
type Config struct {
	Backend string `env:"BACKEND" envDefault:"nop"`
	NATSURL string `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	Subject string `env:"SUBJECT" envDefault:"braille.analytics"`
	Codec   string `env:"CODEC" envDefault:"msgpack"`
}

type openOpts struct {
	logger *zap.Logger
	reg    prometheus.Registerer
	nc     *nats.Conn
	id     id.ID
}

type openOptFn func(o *openOpts)

func (f openOptFn) openOpt(o *openOpts) {
	f(o)
}

// OpenOption is an option for Open.
type OpenOption interface {
	openOpt(o *openOpts)
}

func WithLogger(l *zap.Logger) OpenOption {
	return openOptFn(func(o *openOpts) {
		o.logger = l
	})
}

// WithRegisterer sets the Prometheus registerer. Default is
// prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer) OpenOption {
	return openOptFn(func(o *openOpts) {
		o.reg = reg
	})
}

// WithConn publishes on an existing connection instead of dialing
// Config.NATSURL. The connection is not closed by the backend.
func WithConn(nc *nats.Conn) OpenOption {
	return openOptFn(func(o *openOpts) {
		o.nc = nc
	})
}

// WithIDGen sets the record message ID generator. Default is id.NUID.
func WithIDGen(gen id.ID) OpenOption {
	return openOptFn(func(o *openOpts) {
		o.id = gen
	})
}

// Open returns the backend named by cfg.Backend. The caller owns the
// backend and must Close it at shutdown.
func Open(cfg Config, opts ...OpenOption) (Backend, error) {
	o := openOpts{
		logger: zap.NewNop(),
		reg:    prometheus.DefaultRegisterer,
		id:     id.NUID,
	}
	for _, opt := range opts {
		opt.openOpt(&o)
	}

	logger := o.logger.With(zap.String("backend", cfg.Backend))

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendNop:
		return Nop{}, nil

	case BackendPrometheus:
		p, err := NewPrometheus(o.reg, logger)
		if err != nil {
			return nil, err
		}
		return p, nil

	case BackendNATS:
		reg, err := NewRecordRegistry(cfg.Codec)
		if err != nil {
			return nil, err
		}

		nc, owned := o.nc, false
		if nc == nil {
			nc, err = nats.Connect(cfg.NATSURL, nats.Name("braille-analytics"))
			if err != nil {
				return nil, fmt.Errorf("analytics: connect %s: %w", cfg.NATSURL, err)
			}
			owned = true
		}

		b, err := NewNATS(nc, owned, cfg.Subject, reg, o.id, logger)
		if err != nil {
			if owned {
				nc.Close()
			}
			return nil, err
		}
		return b, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}
