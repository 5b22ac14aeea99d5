package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dnsfailover"

// Skip reasons reported when a failover attempt stops without an update.
const (
	SkipNoZone       = "no_zone"
	SkipNoLiveRecord = "no_live_record"
	SkipNoCandidate  = "no_candidate"
)

type Metrics struct {
	mutex     sync.RWMutex
	registry  *prometheus.Registry
	records   map[string]*RecordStatus
	cycles    int64
	lastCycle time.Time
	startTime time.Time

	checkFailures       *prometheus.CounterVec
	consecutiveFailures *prometheus.GaugeVec
	switches            *prometheus.CounterVec
	skipped             *prometheus.CounterVec
	recordErrors        *prometheus.CounterVec
	cyclesTotal         prometheus.Counter
}

type Switch struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	At   time.Time `json:"at"`
}

type RecordStatus struct {
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastFailure         string    `json:"last_failure,omitempty"`
	LastSkip            string    `json:"last_skip,omitempty"`
	LastError           string    `json:"last_error,omitempty"`
	Switches            int64     `json:"switches"`
	LastSwitch          *Switch   `json:"last_switch,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type Snapshot struct {
	Uptime    time.Duration           `json:"uptime"`
	Cycles    int64                   `json:"cycles"`
	LastCycle time.Time               `json:"last_cycle,omitempty"`
	Names     []string                `json:"names"`
	Records   map[string]RecordStatus `json:"records"`
}

func (m *Metrics) RecordCheckFailure(name, check, kind, reason string) {
	m.checkFailures.WithLabelValues(name, check, kind).Inc()

	m.mutex.Lock()
	defer m.mutex.Unlock()
	rs := m.status(name)
	rs.LastFailure = check + ": " + reason
}

func (m *Metrics) SetConsecutiveFailures(name string, count int) {
	m.consecutiveFailures.WithLabelValues(name).Set(float64(count))

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.status(name).ConsecutiveFailures = count
}

func (m *Metrics) RecordSkip(name, reason string) {
	m.skipped.WithLabelValues(name, reason).Inc()

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.status(name).LastSkip = reason
}

func (m *Metrics) RecordSwitch(name, from, to string, at time.Time) {
	m.switches.WithLabelValues(name).Inc()
	m.consecutiveFailures.WithLabelValues(name).Set(0)

	m.mutex.Lock()
	defer m.mutex.Unlock()
	rs := m.status(name)
	rs.Switches++
	rs.ConsecutiveFailures = 0
	rs.LastSwitch = &Switch{From: from, To: to, At: at}
}

func (m *Metrics) RecordError(name string, err error) {
	m.recordErrors.WithLabelValues(name).Inc()

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err != nil {
		m.status(name).LastError = err.Error()
	}
}

func (m *Metrics) RecordCycle(at time.Time) {
	m.cyclesTotal.Inc()

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.cycles++
	m.lastCycle = at
}

// Registry exposes the private Prometheus registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:    time.Since(m.startTime),
		Cycles:    m.cycles,
		LastCycle: m.lastCycle,
		Names:     make([]string, 0, len(m.records)),
		Records:   make(map[string]RecordStatus, len(m.records)),
	}

	for name, rs := range m.records {
		snap.Names = append(snap.Names, name)
		snap.Records[name] = *rs
	}
	sort.Strings(snap.Names)

	return snap
}

// status must be called with the mutex held.
func (m *Metrics) status(name string) *RecordStatus {
	rs, ok := m.records[name]
	if !ok {
		rs = &RecordStatus{}
		m.records[name] = rs
	}
	rs.UpdatedAt = time.Now()
	return rs
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry:  prometheus.NewRegistry(),
		records:   make(map[string]*RecordStatus),
		startTime: time.Now(),

		checkFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "check_failures_total",
				Help:      "Failed health checks by record, check type and failure kind",
			},
			[]string{"name", "check", "kind"},
		),
		consecutiveFailures: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "consecutive_failures",
				Help:      "Current consecutive failed cycles per record",
			},
			[]string{"name"},
		),
		switches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "record_switches_total",
				Help:      "DNS records rewritten to a pool candidate",
			},
			[]string{"name"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failover_skipped_total",
				Help:      "Failover attempts that stopped before an update",
			},
			[]string{"name", "reason"},
		),
		recordErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "record_errors_total",
				Help:      "Errors caught at the per-record boundary",
			},
			[]string{"name"},
		),
		cyclesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "Completed evaluation cycles",
			},
		),
	}

	m.registry.MustRegister(
		m.checkFailures,
		m.consecutiveFailures,
		m.switches,
		m.skipped,
		m.recordErrors,
		m.cyclesTotal,
	)

	return m
}
