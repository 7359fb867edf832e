package dispatch

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes the dispatch counters to a prometheus registry.
// Pass the result to WithMetrics; an engine without metrics simply
// skips the counting.
type Metrics struct {
	emitted       *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	writeFailures *prometheus.CounterVec
}

// NewMetrics builds the counter set and registers it with reg when
// reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		emitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "logfan",
				Subsystem: "dispatch",
				Name:      "records_emitted_total",
				Help:      "Records accepted past their logger's level gate",
			},
			[]string{"severity"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "logfan",
				Subsystem: "dispatch",
				Name:      "records_dropped_total",
				Help:      "Records and handler deliveries dropped by level gates or unknown loggers",
			},
			[]string{"reason"},
		),
		writeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "logfan",
				Subsystem: "dispatch",
				Name:      "sink_write_failures_total",
				Help:      "Swallowed sink write errors per handler",
			},
			[]string{"handler"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.emitted, m.dropped, m.writeFailures)
	}
	return m
}
