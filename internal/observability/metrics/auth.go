package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Total number of registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tokens_issued_total",
			Help: "Total number of session tokens issued",
		},
	)

	TokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_verifications_total",
			Help: "Total number of bearer token verifications by result",
		},
		[]string{"result"},
	)
)
