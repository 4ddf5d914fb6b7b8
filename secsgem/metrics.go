package secsgem

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts GEM-layer activity for export via prometheus,
// grounded on the same Collector shape as hsms.MetricsCollector
// (itself modelled on the sockstats exporter's TCPInfoCollector).
type Metrics struct {
	ceTriggers   int64
	alarmSets    int64
	alarmClears  int64
	rcmdDispatch int64

	labels     []string
	labelNames []string

	triggers *prometheus.Desc
	alarms   *prometheus.Desc
	rcmds    *prometheus.Desc
	control  *prometheus.Desc

	state *StateMachine
}

// NewMetrics returns a Collector bound to handler state; labelNames
// and labelValues are attached to every exported sample, e.g. an
// equipment id.
func NewMetrics(sm *StateMachine, labelNames, labelValues []string) *Metrics {
	return &Metrics{
		labelNames: labelNames,
		labels:     labelValues,
		state:      sm,
		triggers: prometheus.NewDesc("secsgem_ce_triggers_total",
			"Collection events triggered.", labelNames, nil),
		alarms: prometheus.NewDesc("secsgem_alarm_transitions_total",
			"Alarm set/clear transitions.", append(append([]string{}, labelNames...), "transition"), nil),
		rcmds: prometheus.NewDesc("secsgem_remote_commands_total",
			"Remote commands dispatched.", labelNames, nil),
		control: prometheus.NewDesc("secsgem_control_state",
			"Current GEM control state id (1 Init .. 5 OnlineRemote).", labelNames, nil),
	}
}

// RecordTrigger increments the collection-event trigger counter.
func (m *Metrics) RecordTrigger() { atomic.AddInt64(&m.ceTriggers, 1) }

// RecordAlarmSet increments the alarm-set counter.
func (m *Metrics) RecordAlarmSet() { atomic.AddInt64(&m.alarmSets, 1) }

// RecordAlarmClear increments the alarm-clear counter.
func (m *Metrics) RecordAlarmClear() { atomic.AddInt64(&m.alarmClears, 1) }

// RecordRemoteCommand increments the remote-command dispatch counter.
func (m *Metrics) RecordRemoteCommand() { atomic.AddInt64(&m.rcmdDispatch, 1) }

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(descs chan<- *prometheus.Desc) {
	descs <- m.triggers
	descs <- m.alarms
	descs <- m.rcmds
	descs <- m.control
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(metrics chan<- prometheus.Metric) {
	metrics <- prometheus.MustNewConstMetric(m.triggers, prometheus.CounterValue,
		float64(atomic.LoadInt64(&m.ceTriggers)), m.labels...)
	metrics <- prometheus.MustNewConstMetric(m.alarms, prometheus.CounterValue,
		float64(atomic.LoadInt64(&m.alarmSets)), append(append([]string{}, m.labels...), "set")...)
	metrics <- prometheus.MustNewConstMetric(m.alarms, prometheus.CounterValue,
		float64(atomic.LoadInt64(&m.alarmClears)), append(append([]string{}, m.labels...), "clear")...)
	metrics <- prometheus.MustNewConstMetric(m.rcmds, prometheus.CounterValue,
		float64(atomic.LoadInt64(&m.rcmdDispatch)), m.labels...)
	if m.state != nil {
		metrics <- prometheus.MustNewConstMetric(m.control, prometheus.GaugeValue,
			float64(m.state.ControlStateID()), m.labels...)
	}
}
