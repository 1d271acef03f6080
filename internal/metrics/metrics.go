package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	PhotosProcessed *prometheus.CounterVec
	ParseFailures   prometheus.Counter
	UnlinkedRegions *prometheus.GaugeVec
	ResolveSeconds  prometheus.Histogram
	ActiveWorkers   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		PhotosProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gazetteer_photos_processed_total",
			Help: "Total number of processed photos by classification bucket.",
		}, []string{"bucket"}),
		ParseFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "gazetteer_boundary_parse_failures_total",
			Help: "Total number of boundary documents that failed to parse.",
		}),
		UnlinkedRegions: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "gazetteer_unlinked_regions",
			Help: "Number of regions left without a parent after linking.",
		}, []string{"level"}),
		ResolveSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "gazetteer_resolve_duration_seconds",
			Help:    "Duration of point-in-region resolution per photo.",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "gazetteer_active_workers",
			Help: "Current number of active workers classifying photos.",
		}),
	}
}
