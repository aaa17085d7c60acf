package builder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChunksBuilt   prometheus.Counter
	PointsWritten prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ChunksBuilt: factory.NewCounter(prometheus.CounterOpts{
			Name: "chunktree_chunks_built_total",
			Help: "Chunks built and written to the object store.",
		}),
		PointsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "chunktree_points_written_total",
			Help: "Points written across all built chunks.",
		}),
	}
}
