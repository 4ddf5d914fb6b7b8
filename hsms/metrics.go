package hsms

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exposes per-session counters as a prometheus
// Collector, in the shape of a registry keyed by the monitored object
// (there, a net.Conn; here, a Session) with Add/Remove lifecycle
// methods and a Collect pass over the live set.
type MetricsCollector struct {
	mu       sync.Mutex
	sessions map[*Session][]string // session -> label values

	selects    *prometheus.Desc
	separates  *prometheus.Desc
	rejects    *prometheus.Desc
	state      *prometheus.Desc
	labelNames []string
}

// NewMetricsCollector returns a Collector tracking sessions added with
// Add. labelNames are the label keys supplied per-session via Add's
// labelValues.
func NewMetricsCollector(labelNames []string) *MetricsCollector {
	return &MetricsCollector{
		sessions:   make(map[*Session][]string),
		labelNames: labelNames,
		selects: prometheus.NewDesc("hsms_selects_total",
			"Cumulative select.req/select.rsp handshakes completed.",
			labelNames, nil),
		separates: prometheus.NewDesc("hsms_separates_total",
			"Cumulative separate.req messages sent or received.",
			labelNames, nil),
		rejects: prometheus.NewDesc("hsms_rejects_total",
			"Cumulative reject.req messages sent.",
			labelNames, nil),
		state: prometheus.NewDesc("hsms_session_state",
			"Current connection state (0=not-connected, 1=not-selected, 2=selected).",
			labelNames, nil),
	}
}

// Add registers s for collection under labelValues, positionally
// matching NewMetricsCollector's labelNames.
func (c *MetricsCollector) Add(s *Session, labelValues []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s] = labelValues
}

// Remove stops collecting s.
func (c *MetricsCollector) Remove(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, s)
}

// Describe implements prometheus.Collector.
func (c *MetricsCollector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.selects
	descs <- c.separates
	descs <- c.rejects
	descs <- c.state
}

// Collect implements prometheus.Collector.
func (c *MetricsCollector) Collect(metrics chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for s, labels := range c.sessions {
		metrics <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, float64(s.State()), labels...)
		metrics <- prometheus.MustNewConstMetric(c.selects, prometheus.CounterValue, float64(s.selectCount()), labels...)
		metrics <- prometheus.MustNewConstMetric(c.separates, prometheus.CounterValue, float64(s.separateCount()), labels...)
		metrics <- prometheus.MustNewConstMetric(c.rejects, prometheus.CounterValue, float64(s.rejectCount()), labels...)
	}
}
