package analytics

import (
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const namespace = "braille_display"

const (
	// maxDevices bounds the distinct values of the device label. Devices
	// seen after the limit is reached are reported as otherDevice.
	maxDevices    = 32
	maxDeviceLen  = 64
	unknownDevice = "unknown"
	otherDevice   = "other"
)

// Prometheus is a Backend exporting analytics as Prometheus metrics.
type Prometheus struct {
	reg    prometheus.Registerer
	logger *zap.Logger

	StartedTotal    *prometheus.CounterVec
	CharactersTotal *prometheus.CounterVec
	InputCode       *prometheus.GaugeVec
	OutputCode      *prometheus.GaugeVec
	WordWrapping    prometheus.Gauge

	mu      sync.Mutex
	devices map[string]struct{}

	closed atomic.Bool
	once   sync.Once
}

var _ Backend = (*Prometheus)(nil)

// NewPrometheus registers the analytics metrics with reg.
func NewPrometheus(reg prometheus.Registerer, logger *zap.Logger) (*Prometheus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Prometheus{
		reg:     reg,
		logger:  logger,
		devices: make(map[string]struct{}),
		StartedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "started_total",
			Help:      "Total number of braille display sessions started.",
		}, []string{"device", "input_code", "output_code"}),
		CharactersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "characters_total",
			Help:      "Total number of braille characters by direction.",
		}, []string{"direction"}), // direction: typed, read
		InputCode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "input_code",
			Help:      "Currently selected braille input code (1 for the active code).",
		}, []string{"code"}),
		OutputCode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "output_code",
			Help:      "Currently selected braille output code (1 for the active code).",
		}, []string{"code"}),
		WordWrapping: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "word_wrapping_enabled",
			Help:      "Indicates if word wrapping is enabled (1 for enabled, 0 for disabled).",
		}),
	}

	for _, c := range p.collectors() {
		if err := reg.Register(c); err != nil {
			p.unregister()
			return nil, err
		}
	}

	return p, nil
}

func (p *Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		p.StartedTotal,
		p.CharactersTotal,
		p.InputCode,
		p.OutputCode,
		p.WordWrapping,
	}
}

func (p *Prometheus) unregister() {
	for _, c := range p.collectors() {
		p.reg.Unregister(c)
	}
}

func (p *Prometheus) LogStartedEvent(device string, inputCode, outputCode Code) {
	if p.closed.Load() {
		return
	}
	p.StartedTotal.WithLabelValues(p.deviceLabel(device), inputCode.label(), outputCode.label()).Inc()
}

// deviceLabel maps a device name to a label value. Blank names are unknown;
// overlong names and names beyond the first maxDevices are other.
func (p *Prometheus) deviceLabel(device string) string {
	device = strings.TrimSpace(device)
	switch {
	case device == "":
		return unknownDevice
	case len(device) > maxDeviceLen || !utf8.ValidString(device):
		return otherDevice
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.devices[device]; ok {
		return device
	}
	if len(p.devices) >= maxDevices {
		p.logger.Debug("device label limit reached", zap.String("device", device))
		return otherDevice
	}
	p.devices[device] = struct{}{}
	return device
}

func (p *Prometheus) addCharacters(direction string, count int) {
	if p.closed.Load() {
		return
	}
	if count <= 0 {
		p.logger.Debug("ignoring non-positive character count",
			zap.String("direction", direction),
			zap.Int("count", count))
		return
	}
	p.CharactersTotal.WithLabelValues(direction).Add(float64(count))
}

func (p *Prometheus) LogTypingBrailleCharacter(count int) {
	p.addCharacters("typed", count)
}

func (p *Prometheus) LogReadingBrailleCharacter(count int) {
	p.addCharacters("read", count)
}

func setActive(g *prometheus.GaugeVec, code Code) {
	g.Reset()
	g.WithLabelValues(code.label()).Set(1)
}

func (p *Prometheus) LogBrailleInputCodeSetting(code Code) {
	if p.closed.Load() {
		return
	}
	setActive(p.InputCode, code)
}

func (p *Prometheus) LogBrailleOutputCodeSetting(code Code) {
	if p.closed.Load() {
		return
	}
	setActive(p.OutputCode, code)
}

func (p *Prometheus) LogWordWrappingSetting(enabled bool) {
	if p.closed.Load() {
		return
	}
	if enabled {
		p.WordWrapping.Set(1)
	} else {
		p.WordWrapping.Set(0)
	}
}

// Close unregisters the metrics.
func (p *Prometheus) Close() error {
	p.once.Do(func() {
		p.closed.Store(true)
		p.unregister()
	})
	return nil
}
