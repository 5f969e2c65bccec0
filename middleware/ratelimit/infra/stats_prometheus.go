package infra

import (
	"context"

	"study-gateway/middleware/ratelimit/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// PromStatsStore expõe as decisões como contador Prometheus.
// A chave do cliente não vira label (cardinalidade); só decisão e rota.
type PromStatsStore struct {
	decisions *prometheus.CounterVec
}

func NewPromStatsStore(reg prometheus.Registerer) (*PromStatsStore, error) {
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "study_ratelimit_decisions_total",
		Help: "Decisões do rate limit por resultado e rota.",
	}, []string{"decision", "route"})

	if err := reg.Register(decisions); err != nil {
		return nil, err
	}
	return &PromStatsStore{decisions: decisions}, nil
}

func (s *PromStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	decision := "denied"
	if ev.Allowed {
		decision = "allowed"
	}
	s.decisions.WithLabelValues(decision, ev.Method+" "+ev.Path).Inc()
	return nil
}
