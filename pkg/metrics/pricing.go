package metrics

import "github.com/prometheus/client_golang/prometheus"

// PricingMetrics counts the work done by discounted price recomputation.
type PricingMetrics struct {
	batches  prometheus.Counter
	products prometheus.Counter
	updated  prometheus.Counter
	skipped  *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing counters on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	batches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_batches_total",
		Help: "Product batches processed by discounted price recomputation.",
	})
	products := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_products_total",
		Help: "Products whose discounted prices were recomputed.",
	})
	updated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_listings_updated_total",
		Help: "Product channel listings written with a new discounted price.",
	})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_listings_skipped_total",
		Help: "Product channel listings left untouched because their prices could not be combined.",
	}, []string{"reason"})
	reg.MustRegister(batches, products, updated, skipped)
	return &PricingMetrics{
		batches:  batches,
		products: products,
		updated:  updated,
		skipped:  skipped,
	}
}

// ObserveBatch records one written batch.
func (p *PricingMetrics) ObserveBatch(products, updated int) {
	if p == nil || p.batches == nil {
		return
	}
	p.batches.Inc()
	p.products.Add(float64(products))
	p.updated.Add(float64(updated))
}

// IncSkipped counts a listing left untouched for the given reason.
func (p *PricingMetrics) IncSkipped(reason string) {
	if p == nil || p.skipped == nil {
		return
	}
	p.skipped.WithLabelValues(normalizeLabel(reason)).Inc()
}
