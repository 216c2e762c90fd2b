package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName groups pushed metrics on the Pushgateway.
const JobName = "coin_filter"

// Recorder collects the metrics of a single run on its own registry.
type Recorder struct {
	registry    *prometheus.Registry
	fetched     prometheus.Gauge
	exported    prometheus.Gauge
	rejected    prometheus.Gauge
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coinfilter_coins_fetched",
			Help: "Coins returned by the market-data source in the last run.",
		}),
		exported: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coinfilter_coins_exported",
			Help: "Coins written to the output in the last run.",
		}),
		rejected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coinfilter_coins_rejected",
			Help: "Coins excluded by the filter bounds in the last run.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coinfilter_run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coinfilter_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}),
	}
	r.registry.MustRegister(r.fetched, r.exported, r.rejected, r.duration, r.lastSuccess)
	return r
}

// ObserveFilter records how many coins were fetched and how many survived the filters.
func (r *Recorder) ObserveFilter(fetched, exported int) {
	r.fetched.Set(float64(fetched))
	r.exported.Set(float64(exported))
	r.rejected.Set(float64(fetched - exported))
}

// ObserveRun records the run duration, and the completion time when it succeeded.
func (r *Recorder) ObserveRun(started time.Time, success bool) {
	r.duration.Set(time.Since(started).Seconds())
	if success {
		r.lastSuccess.SetToCurrentTime()
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Push sends the registry to the Pushgateway at url, replacing the job's previous metrics.
func (r *Recorder) Push(ctx context.Context, url string) error {
	return push.New(url, JobName).Gatherer(r.registry).PushContext(ctx)
}
