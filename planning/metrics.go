package planning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer receives progress notifications from ComputeWithObserver. It
// exists so a caller can wire the scheduler into Prometheus (or any other
// sink) without Compute itself taking a dependency on global state: the
// zero-value noopObserver is what Compute uses internally.
type Observer interface {
	OnJobScheduled(fragmentCount int)
	OnScheduleSucceeded()
	OnScheduleFailed()
}

type noopObserver struct{}

func (noopObserver) OnJobScheduled(int)   {}
func (noopObserver) OnScheduleSucceeded() {}
func (noopObserver) OnScheduleFailed()    {}

// Metrics is a Prometheus-backed Observer, grounded on the counters
// registered in Tempo's backendscheduler (metricSchedulingCycles,
// metricJobsCreated, metricJobsActive): a cycle counter split by outcome,
// a jobs-scheduled counter, a fragments-emitted counter, and a duration
// histogram. Metrics are never registered against the global default
// registry — the caller supplies one — so Compute's pure-function
// contract is unaffected unless the caller explicitly opts in via
// ComputeWithObserver.
type Metrics struct {
	jobsScheduled    prometheus.Counter
	fragmentsEmitted prometheus.Counter
	cycles           *prometheus.CounterVec
	duration         prometheus.Histogram

	start time.Time
}

// NewMetrics registers the scheduler's metrics with reg and returns an
// Observer ready to pass to ComputeWithObserver.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planning_jobs_scheduled_total",
			Help: "Number of jobs the scheduler has assigned a fragment list to.",
		}),
		fragmentsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planning_fragments_emitted_total",
			Help: "Number of job fragments the scheduler has emitted, excluding delivery/wait fragments.",
		}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planning_scheduling_cycles_total",
			Help: "Number of Compute invocations, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planning_schedule_duration_seconds",
			Help:    "Wall-clock time spent inside a single Compute call.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.jobsScheduled, m.fragmentsEmitted, m.cycles, m.duration)
	return m
}

// Start resets the call timer. ComputeWithObserver does not call this
// itself — Compute is a pure function with no notion of wall-clock time —
// so a caller that wants duration.Observe should call Start immediately
// before ComputeWithObserver and rely on OnScheduleSucceeded/Failed to
// record it.
func (m *Metrics) Start() *Metrics {
	m.start = time.Now()
	return m
}

func (m *Metrics) OnJobScheduled(fragmentCount int) {
	m.jobsScheduled.Inc()
	m.fragmentsEmitted.Add(float64(fragmentCount))
}

func (m *Metrics) OnScheduleSucceeded() {
	m.cycles.WithLabelValues("success").Inc()
	m.observeDuration()
}

func (m *Metrics) OnScheduleFailed() {
	m.cycles.WithLabelValues("failed").Inc()
	m.observeDuration()
}

func (m *Metrics) observeDuration() {
	if m.start.IsZero() {
		return
	}
	m.duration.Observe(time.Since(m.start).Seconds())
	m.start = time.Time{}
}
