package trecsearch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	DocumentsScanned prometheus.Counter
	IndexTerms       prometheus.Gauge
	IndexDocuments   prometheus.Gauge
	Queries          *prometheus.CounterVec
	QueryDuration    *prometheus.HistogramVec
	FeedbackScans    prometheus.Counter
	DocumentLookups  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trecsearch",
			Name:      "documents_scanned_total",
			Help:      "Documents closed by the tag scanner during index builds.",
		}),
		IndexTerms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "trecsearch",
			Name:      "index_terms",
			Help:      "Distinct terms in the loaded index.",
		}),
		IndexDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "trecsearch",
			Name:      "index_documents",
			Help:      "Document count N used for IDF.",
		}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trecsearch",
			Name:      "queries_total",
			Help:      "Queries served, by method.",
		}, []string{"method"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trecsearch",
			Name:      "query_duration_seconds",
			Help:      "Query latency, by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		FeedbackScans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trecsearch",
			Name:      "feedback_scans_total",
			Help:      "Collection re-scans performed for pseudo-relevance feedback.",
		}),
		DocumentLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trecsearch",
			Name:      "document_lookups_total",
			Help:      "Document lookups, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.DocumentsScanned,
		m.IndexTerms,
		m.IndexDocuments,
		m.Queries,
		m.QueryDuration,
		m.FeedbackScans,
		m.DocumentLookups,
	)
	return m
}

func (m *Metrics) observeIndex(idx *InvertedIndex) {
	if m == nil {
		return
	}
	m.IndexTerms.Set(float64(idx.Len()))
	m.IndexDocuments.Set(float64(idx.TotalNumOfDoc))
}

func (m *Metrics) observeScan(documents int) {
	if m == nil {
		return
	}
	m.DocumentsScanned.Add(float64(documents))
}

func (m *Metrics) observeQuery(method string, started time.Time) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(method).Inc()
	m.QueryDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())
}

func (m *Metrics) observeFeedbackScan() {
	if m == nil {
		return
	}
	m.FeedbackScans.Inc()
}

func (m *Metrics) observeLookup(outcome string) {
	if m == nil {
		return
	}
	m.DocumentLookups.WithLabelValues(outcome).Inc()
}
