package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records pricing and submission activity.
type QuoteMetrics struct {
	pricingDuration *prometheus.HistogramVec
	priced          *prometheus.CounterVec
	submitted       prometheus.Counter
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	pricingDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_pricing_duration_seconds",
		Help:    "Duration of quote pricing calculations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	priced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_pricing_total",
		Help: "Quote pricing attempts by outcome.",
	}, []string{"outcome"})
	submitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quote_submissions_total",
		Help: "Quotes submitted to the ERP pipeline.",
	})
	reg.MustRegister(pricingDuration, priced, submitted)
	return &QuoteMetrics{
		pricingDuration: pricingDuration,
		priced:          priced,
		submitted:       submitted,
	}
}

// ObservePricing records the duration of the named pricing operation.
func (q *QuoteMetrics) ObservePricing(operation string, duration time.Duration) {
	if q == nil || q.pricingDuration == nil {
		return
	}
	q.pricingDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncPriced increments the pricing counter for the given outcome.
func (q *QuoteMetrics) IncPriced(outcome string) {
	if q == nil || q.priced == nil {
		return
	}
	q.priced.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncSubmitted increments the submission counter.
func (q *QuoteMetrics) IncSubmitted() {
	if q == nil || q.submitted == nil {
		return
	}
	q.submitted.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
