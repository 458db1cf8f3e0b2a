// Package metrics exposes Prometheus counters for batch runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	batchItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billing",
		Name:      "batch_items_total",
		Help:      "Batch items processed, by outcome and category.",
	}, []string{"outcome", "category"})

	batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "billing",
		Name:      "batch_duration_seconds",
		Help:      "Wall time of a full batch run.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	pdfRenders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billing",
		Name:      "pdf_renders_total",
		Help:      "PDF conversion attempts, by tier and outcome.",
	}, []string{"tier", "outcome"})

	uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billing",
		Name:      "uploads_total",
		Help:      "Artifact uploads, by outcome.",
	}, []string{"outcome"})

	ledgerRows = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "billing",
		Name:      "ledger_rows_total",
		Help:      "Rows appended to aggregation ledgers.",
	})
)

func init() {
	registry.MustRegister(batchItems, batchDuration, pdfRenders, uploads, ledgerRows)
}

func BatchItem(outcome, category string) {
	batchItems.WithLabelValues(outcome, category).Inc()
}

func BatchDuration(seconds float64) {
	batchDuration.Observe(seconds)
}

func PDFRender(tier, outcome string) {
	pdfRenders.WithLabelValues(tier, outcome).Inc()
}

func Upload(outcome string) {
	uploads.WithLabelValues(outcome).Inc()
}

func LedgerRows(n int) {
	if n > 0 {
		ledgerRows.Add(float64(n))
	}
}

// Registry is exposed for tests.
func Registry() *prometheus.Registry { return registry }

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
