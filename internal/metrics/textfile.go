package metrics

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/auto-dns/github-host-sync/internal/core"
)

const namespace = "github_host_sync"

// TextfileRecorder writes run results in the Prometheus text format for the
// node_exporter textfile collector.
type TextfileRecorder struct {
	path   string
	logger zerolog.Logger

	registry      *prometheus.Registry
	lastRun       prometheus.Gauge
	lastSuccess   prometheus.Gauge
	outcome       *prometheus.GaugeVec
	hostEntries   prometheus.Gauge
	fetchDuration prometheus.Gauge
	markerChanged prometheus.Gauge
}

func NewTextfileRecorder(path string, logger zerolog.Logger) *TextfileRecorder {
	r := &TextfileRecorder{
		path:     path,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run updated or skipped, 0 otherwise.",
		}),
		outcome: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_outcome",
			Help:      "1 for the outcome of the last run, 0 for the others.",
		}, []string{"outcome"}),
		hostEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "host_entries",
			Help:      "Host entries written by the last update.",
		}),
		fetchDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the last remote fetch.",
		}),
		markerChanged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "marker_changed",
			Help:      "1 if the last run found a new update time.",
		}),
	}
	r.registry.MustRegister(r.lastRun, r.lastSuccess, r.outcome, r.hostEntries, r.fetchDuration, r.markerChanged)
	return r
}

// Record sets the gauges from res and rewrites the textfile. Failures are
// logged only.
func (r *TextfileRecorder) Record(res core.Result) {
	r.lastRun.Set(float64(res.FinishedAt.Unix()))
	r.lastSuccess.Set(boolToFloat(res.Outcome.Succeeded()))
	for _, o := range core.AllOutcomes {
		r.outcome.WithLabelValues(o.String()).Set(boolToFloat(o == res.Outcome))
	}
	r.fetchDuration.Set(res.FetchDuration.Seconds())
	r.markerChanged.Set(boolToFloat(res.Outcome == core.OutcomeUpdated))
	if res.Outcome == core.OutcomeUpdated {
		r.hostEntries.Set(float64(res.Entries))
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		r.logger.Warn().Err(err).Str("path", r.path).Msg("Failed to create metrics directory")
		return
	}
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		r.logger.Warn().Err(err).Str("path", r.path).Msg("Failed to write metrics textfile")
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
