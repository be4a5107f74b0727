// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RowsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "export_rows_written_total",
			Help: "Total number of rows written to the output table",
		},
	)

	RowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_rows_skipped_total",
			Help: "Total number of documents skipped without emitting a row",
		},
		[]string{"reason"},
	)

	RowWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "export_row_write_failures_total",
			Help: "Total number of rows rejected by the CSV sink",
		},
	)

	PostProcessPasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_postprocess_passes_total",
			Help: "Total number of column-shaping passes executed",
		},
		[]string{"pass"},
	)
)
