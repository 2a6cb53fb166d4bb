package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/salesstack/sales-sentinel/internal/models"
)

const (
	// OutcomeSuccess labels scans that ran to completion.
	OutcomeSuccess = "success"
	// OutcomeError labels scans aborted by a configuration, read or write failure.
	OutcomeError = "error"
)

var (
	scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sales_sentinel",
			Name:      "scans_total",
			Help:      "Total number of detection runs, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	scanDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sales_sentinel",
			Name:      "scan_seconds",
			Help:      "Detection run latency in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	incidentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sales_sentinel",
			Name:      "incidents_total",
			Help:      "Incidents fired by the detector set, partitioned by kind and severity.",
		},
		[]string{"kind", "severity"},
	)

	sinkWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sales_sentinel",
			Name:      "sink_writes_total",
			Help:      "Incident persistence attempts, partitioned by sink and outcome.",
		},
		[]string{"sink", "outcome"},
	)
)

// Register attaches sales-sentinel collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		scansTotal,
		scanDurationSeconds,
		incidentsTotal,
		sinkWritesTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveScan records a run duration and outcome label.
func ObserveScan(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	scansTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	scanDurationSeconds.Observe(duration.Seconds())
}

// CountIncident records one fired incident.
func CountIncident(kind models.Kind, severity models.Severity) {
	incidentsTotal.WithLabelValues(string(kind), string(severity)).Inc()
}

// CountSinkWrite records one persistence attempt.
func CountSinkWrite(sink string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	sinkWritesTotal.WithLabelValues(sink, outcome).Inc()
}

// Push delivers the accumulated counters to a Pushgateway. Batch runs exit
// right after the scan, so scraping a listener is not an option.
func Push(gateway, job string, gatherer prometheus.Gatherer) error {
	return push.New(gateway, job).Gatherer(gatherer).Push()
}
