package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_auth_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	rotationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_auth_token_rotations_total",
		Help: "Refresh token rotations by outcome.",
	}, []string{"outcome"})

	replaysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_auth_token_replays_total",
		Help: "Refresh token reuse attempts rejected as revoked.",
	})

	authzDenialsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_authz_denials_total",
		Help: "Authorization denials across permission and role guards.",
	})
)
