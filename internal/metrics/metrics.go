// Package metrics defines the Prometheus instruments exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SigninAttempts counts sign-ins by outcome (ok, rejected, error).
	SigninAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_signin_attempts_total",
		Help: "Sign-in attempts by outcome.",
	}, []string{"outcome"})

	// Registrations counts registration attempts by outcome.
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_registrations_total",
		Help: "Registration attempts by outcome.",
	}, []string{"outcome"})

	// PasswordResets counts unauthenticated password resets.
	PasswordResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_password_resets_total",
		Help: "Completed password resets.",
	})

	// NoticeDeliveries counts worker email deliveries by kind and outcome.
	NoticeDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_notice_deliveries_total",
		Help: "Notification email deliveries by kind and outcome.",
	}, []string{"kind", "outcome"})
)
