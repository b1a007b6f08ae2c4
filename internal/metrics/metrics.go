// Package metrics counts fixture files, fixtures and run outcomes in a
// Prometheus registry. A Recorder is a dbseed.Observer, so it is fed by the
// reader and loader directly; the CLI writes the registry to a node_exporter
// textfile when asked to.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vvka-141/dbseed/pkg/dbseed"
)

var _ dbseed.Observer = (*Recorder)(nil)

// Recorder holds the seeding metrics in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	filesRead      prometheus.Counter
	fixturesRead   prometheus.Counter
	fixturesLoaded *prometheus.CounterVec

	runDuration  prometheus.Gauge
	runSuccess   prometheus.Gauge
	runTimestamp prometheus.Gauge

	mu sync.Mutex
}

// New creates a Recorder with all collectors registered.
func New() (*Recorder, error) {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.filesRead = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dbseed_files_read_total",
		Help: "Fixture files read and parsed",
	})
	r.fixturesRead = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dbseed_fixtures_read_total",
		Help: "Fixtures produced by the reader",
	})
	r.fixturesLoaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbseed_fixtures_loaded_total",
			Help: "Fixtures inserted, by table",
		},
		[]string{"table"},
	)
	r.runDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dbseed_run_duration_seconds",
		Help: "Duration of the last seeding run",
	})
	r.runSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dbseed_run_success",
		Help: "1 if the last seeding run succeeded, 0 otherwise",
	})
	r.runTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dbseed_run_timestamp_seconds",
		Help: "Unix time the last seeding run finished",
	})

	collectors := []prometheus.Collector{
		r.filesRead,
		r.fixturesRead,
		r.fixturesLoaded,
		r.runDuration,
		r.runSuccess,
		r.runTimestamp,
	}
	for _, c := range collectors {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return r, nil
}

// Registry exposes the underlying registry, e.g. for promhttp or tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) FileReading(string) {}

func (r *Recorder) FileRead(_ string, count int) {
	r.filesRead.Inc()
	r.fixturesRead.Add(float64(count))
}

func (r *Recorder) FixtureLoaded(_ int, fixture dbseed.Fixture) {
	r.fixturesLoaded.WithLabelValues(fixture.Table).Inc()
}

// ObserveRun records the outcome of a finished run.
func (r *Recorder) ObserveRun(duration time.Duration, err error, finishedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runDuration.Set(duration.Seconds())
	r.runTimestamp.Set(float64(finishedAt.Unix()))
	if err != nil {
		r.runSuccess.Set(0)
	} else {
		r.runSuccess.Set(1)
	}
}

// WriteTextfile writes the registry in the text exposition format to path,
// atomically, for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("%w: metrics textfile path is empty", dbseed.ErrInvalidArgument)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
