package referral

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	commissionsPaid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_commissions_paid_total",
			Help: "Commissions successfully credited, by kind",
		},
		[]string{"kind"},
	)
	creditFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_credit_failures_total",
			Help: "Commission credits that failed, by kind",
		},
		[]string{"kind"},
	)
	cycleStops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_walk_aborts_total",
			Help: "Upline walks stopped by the cycle guard or hop ceiling",
		},
	)
)

func init() {
	prometheus.MustRegister(commissionsPaid)
	prometheus.MustRegister(creditFailures)
	prometheus.MustRegister(cycleStops)
}
