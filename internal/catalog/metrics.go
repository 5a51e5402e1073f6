package catalog

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Loads    *prometheus.CounterVec
	Searches prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_loads_total",
				Help: "Catalog loads by source (store, seed, error)",
			},
			[]string{"source"},
		),
		Searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_searches_total",
			Help: "Live search queries answered",
		}),
	}
	reg.MustRegister(m.Loads, m.Searches)
	return m
}

func (m *Metrics) observeLoad(source string) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(source).Inc()
}

func (m *Metrics) observeSearch() {
	if m == nil {
		return
	}
	m.Searches.Inc()
}
