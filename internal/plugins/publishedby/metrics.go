package publishedby

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "published_by_resolutions_total",
			Help: "Publisher resolutions by the signal that produced the result",
		},
		[]string{"source"},
	)

	recordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "published_by_records_total",
			Help: "Publish transitions handled by the recorder",
		},
		[]string{"result"},
	)
)

// recorder results
const (
	recordWritten = "written"
	recordNoActor = "no_actor"
	recordFailed  = "failed"
)
