package metrics

import (
	"container/list"
	"sync"

	"github.com/bruth/a11y"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "a11y"

	// DefaultWindow is the number of recent event IDs remembered.
	DefaultWindow = 4096
)

// TrackerMetrics holds the Prometheus metrics of a Tracker.
type TrackerMetrics struct {
	EventsTotal     *prometheus.CounterVec
	DuplicatesTotal *prometheus.CounterVec
	WindowSize      prometheus.Gauge
}

func newTrackerMetrics(reg prometheus.Registerer) *TrackerMetrics {
	f := promauto.With(reg)
	return &TrackerMetrics{
		EventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "total",
			Help:      "Total number of distinct interpreted events by class.",
		}, []string{"class"}),
		DuplicatesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "duplicates_total",
			Help:      "Total number of events dropped because their ID was already seen.",
		}, []string{"class"}),
		WindowSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "dedup_window_size",
			Help:      "Number of event IDs currently remembered for de-duplication.",
		}),
	}
}

// Tracker counts events by class, dropping events whose ID was seen within
// the last window IDs. It is safe for concurrent use.
type Tracker struct {
	metrics *TrackerMetrics
	window  int

	mu    sync.Mutex
	seen  map[a11y.ID]*list.Element
	order *list.List
}

// NewTracker registers the tracker metrics with reg. A window of zero or
// less uses DefaultWindow.
func NewTracker(reg prometheus.Registerer, window int) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		metrics: newTrackerMetrics(reg),
		window:  window,
		seen:    make(map[a11y.ID]*list.Element),
		order:   list.New(),
	}
}

func (t *Tracker) Metrics() *TrackerMetrics {
	return t.metrics
}

// Observe records id and reports whether it is new.
func (t *Tracker) Observe(id a11y.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; ok {
		t.metrics.DuplicatesTotal.WithLabelValues(id.ClassName).Inc()
		return false
	}

	t.seen[id] = t.order.PushBack(id)
	if t.order.Len() > t.window {
		oldest := t.order.Front()
		t.order.Remove(oldest)
		delete(t.seen, oldest.Value.(a11y.ID))
	}

	t.metrics.EventsTotal.WithLabelValues(id.ClassName).Inc()
	t.metrics.WindowSize.Set(float64(t.order.Len()))
	return true
}

func (t *Tracker) ObserveEvent(e *a11y.Event) bool {
	return t.Observe(e.ID())
}

func (t *Tracker) ObserveRecord(r *a11y.Record) bool {
	return t.Observe(r.EventID())
}

// Seen reports whether id is in the current window.
func (t *Tracker) Seen(id a11y.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[id]
	return ok
}
