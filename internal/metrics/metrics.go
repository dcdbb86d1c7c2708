package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts the money-moving operations of the engine.
type Metrics struct {
	VisitsCreated      *prometheus.CounterVec
	CashbackEarned     prometheus.Counter
	CashbackRedeemed   prometheus.Counter
	SettlementsCreated prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		VisitsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drivio",
			Name:      "visits_created_total",
			Help:      "Completed visits by transaction mode.",
		}, []string{"mode"}),
		CashbackEarned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "drivio",
			Name:      "cashback_earned_total",
			Help:      "Cashback credited to customers, in minor currency units.",
		}),
		CashbackRedeemed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "drivio",
			Name:      "cashback_redeemed_total",
			Help:      "Cashback spent by customers, in minor currency units.",
		}),
		SettlementsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "drivio",
			Name:      "settlements_created_total",
			Help:      "Settlement rows produced by aggregation runs.",
		}),
	}
}

func (m *Metrics) RecordVisit(mode string, cashback, redeemed int64) {
	if m == nil {
		return
	}
	m.VisitsCreated.WithLabelValues(mode).Inc()
	if cashback > 0 {
		m.CashbackEarned.Add(float64(cashback))
	}
	if redeemed > 0 {
		m.CashbackRedeemed.Add(float64(redeemed))
	}
}

func (m *Metrics) RecordSettlements(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.SettlementsCreated.Add(float64(count))
}
