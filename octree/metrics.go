package octree

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	constructCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadphase_octree_builds_total",
		Help: "The total number of octree constructions.",
	})

	constructDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "broadphase_octree_build_duration_seconds",
		Help:    "The time taken to construct an octree.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	octantGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "broadphase_octree_octants",
		Help: "The number of octants in the most recently constructed octree.",
	})
)

func instrumentConstruct(elapsed time.Duration, octants uint32) {
	constructCount.Inc()
	constructDuration.Observe(elapsed.Seconds())
	octantGauge.Set(float64(octants))
}
