package service

import (
	"github.com/aljannat-dev/aljannat/shared/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var authOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "aljannat",
		Name:      "auth_operations_total",
		Help:      "Auth operations by outcome.",
	},
	[]string{"operation", "outcome"},
)

func recordAuth(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = errors.KindOf(err).String()
	}
	authOperations.WithLabelValues(operation, outcome).Inc()
}
