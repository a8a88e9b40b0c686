// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the extraction metrics. It is separate from the default
// registry so the textfile dump contains only pipeline series.
var Registry = prometheus.NewRegistry()

var (
	pagesTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftgraph_pages_total",
			Help: "Pages processed by the extractor, by page kind and status",
		},
		[]string{"page_kind", "status"},
	)

	transformationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftgraph_transformations_total",
			Help: "Transformations emitted, by transformation kind",
		},
		[]string{"kind"},
	)

	duplicatesTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftgraph_duplicates_suppressed_total",
			Help: "Candidate transformations dropped as duplicates within a page",
		},
		[]string{"page_kind"},
	)

	pageDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "craftgraph_page_extract_duration_seconds",
			Help:    "Time spent extracting one page",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"page_kind"},
	)
)

// WriteMetrics dumps the extraction metrics in Prometheus text format to path,
// for pickup by a node-exporter textfile collector.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
