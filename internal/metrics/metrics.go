// Package metrics defines Prometheus metrics for mkmprice.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mkmprice"

// API client metrics.
var (
	APICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_calls_total",
		Help:      "Total number of Cardmarket API requests issued.",
	})

	APIErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_errors_total",
		Help:      "Total number of Cardmarket API requests that failed.",
	}, []string{"status"})

	PagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_fetched_total",
		Help:      "Total number of result pages retrieved by the paginator.",
	})

	QuotaUsed = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "quota_used",
		Help:      "Advisory request-quota usage reported by the API.",
	})

	QuotaLimit = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "quota_limit",
		Help:      "Advisory request-quota maximum reported by the API.",
	})
)

// Repricing metrics.
var (
	RepriceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reprice_duration_seconds",
		Help:      "Duration of full-stock repricing runs in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	PriceChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_changes_total",
		Help:      "Total number of recommended price changes produced.",
	})

	ArticlesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_skipped_total",
		Help:      "Total number of stock articles skipped because no price could be computed.",
	})

	StockValue = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stock_value",
		Help:      "Aggregate stock valuation from the most recent repricing run.",
	})
)
