package auth

import "github.com/prometheus/client_golang/prometheus"

const (
	opLogin    = "login"
	opRegister = "register"

	resultOK     = "ok"
	resultDenied = "denied"
	resultError  = "error"
)

type Metrics struct {
	Attempts *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_attempts_total",
				Help: "Login and registration attempts by outcome",
			},
			[]string{"op", "result"},
		),
	}
	reg.MustRegister(m.Attempts)
	return m
}

func (m *Metrics) observe(op, result string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(op, result).Inc()
}
