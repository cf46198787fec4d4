package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the Prometheus instruments used across the service.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	quotesCreated   prometheus.Counter
	quoteItemsAdded prometheus.Counter
	quoteAmount     *prometheus.HistogramVec
	pricingPreviews prometheus.Counter
}

// NewMetrics registers and returns the Prometheus instruments.
func NewMetrics() *Metrics {
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "preventivo_http_requests_total",
		Help: "Counts HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "preventivo_http_request_duration_seconds",
		Help:    "HTTP request latency per method/route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	quotesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "preventivo_quotes_created_total",
		Help: "Counts created quotes.",
	})

	quoteItemsAdded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "preventivo_quote_items_added_total",
		Help: "Counts line items added to quotes.",
	})

	quoteAmount := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "preventivo_quote_grand_total",
		Help:    "Distribution of quote grand totals by currency.",
		Buckets: []float64{50, 100, 500, 1000, 5000, 10000, 50000, 100000},
	}, []string{"currency"})

	pricingPreviews := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "preventivo_pricing_previews_total",
		Help: "Counts stateless pricing preview requests.",
	})

	prometheus.MustRegister(
		httpRequests,
		httpDuration,
		quotesCreated,
		quoteItemsAdded,
		quoteAmount,
		pricingPreviews,
	)

	return &Metrics{
		httpRequests:    httpRequests,
		httpDuration:    httpDuration,
		quotesCreated:   quotesCreated,
		quoteItemsAdded: quoteItemsAdded,
		quoteAmount:     quoteAmount,
		pricingPreviews: pricingPreviews,
	}
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// QuoteCreated increments the created-quote counter.
func (m *Metrics) QuoteCreated() {
	if m == nil {
		return
	}
	m.quotesCreated.Inc()
}

// QuoteItemAdded increments the added-item counter.
func (m *Metrics) QuoteItemAdded() {
	if m == nil {
		return
	}
	m.quoteItemsAdded.Inc()
}

// ObserveQuoteAmount records a recalculated quote grand total.
func (m *Metrics) ObserveQuoteAmount(currency string, amount float64) {
	if m == nil {
		return
	}
	m.quoteAmount.WithLabelValues(currency).Observe(amount)
}

// PricingPreview increments the preview counter.
func (m *Metrics) PricingPreview() {
	if m == nil {
		return
	}
	m.pricingPreviews.Inc()
}
