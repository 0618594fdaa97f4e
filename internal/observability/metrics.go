// Package observability holds the Prometheus collectors for race analysis.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	racesAnalyzed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "osplits",
		Subsystem: "analysis",
		Name:      "races_total",
		Help:      "Races analyzed, by outcome.",
	}, []string{"outcome"})
	runnersAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "osplits",
		Subsystem: "analysis",
		Name:      "runners_accepted_total",
		Help:      "Runners admitted to a race's results.",
	})
	runnersExcluded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "osplits",
		Subsystem: "analysis",
		Name:      "runners_excluded_total",
		Help:      "Runners left out of a race's results, by reason.",
	}, []string{"reason"})
	analysisSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "osplits",
		Subsystem: "analysis",
		Name:      "duration_seconds",
		Help:      "Wall time spent analyzing one race.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	})
	cacheEvictions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "osplits",
		Subsystem: "cache",
		Name:      "evictions_total",
		Help:      "Analyses dropped from the in-memory cache after their TTL.",
	})
)

func init() {
	prometheus.MustRegister(racesAnalyzed, runnersAccepted, runnersExcluded, analysisSeconds, cacheEvictions)
}

// RecordAnalysis counts one analysis run and how long it took.
func RecordAnalysis(err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	racesAnalyzed.WithLabelValues(outcome).Inc()
	analysisSeconds.Observe(elapsed.Seconds())
}

func RecordRunnersAccepted(n int) {
	runnersAccepted.Add(float64(n))
}

// RecordRunnerExcluded counts an excluded runner. reason should be a short
// stable label, not an error message.
func RecordRunnerExcluded(reason string) {
	runnersExcluded.WithLabelValues(reason).Inc()
}

func RecordCacheEvictions(n int) {
	if n <= 0 {
		return
	}
	cacheEvictions.Add(float64(n))
}
