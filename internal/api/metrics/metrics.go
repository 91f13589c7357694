// Package metrics defines and registers the custom Prometheus metrics for
// the casos API. It is the single source of truth for metric names, labels,
// and help strings. Metrics self-register with the default registry via
// promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "casos"

// CasosCreatedTotal counts casos created through POST /casos.
var CasosCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of casos created.",
	},
)

// EstadoTransitionsTotal counts successful status transitions.
// Label:
//   - estado: the new estado applied (e.g. "Supervisado")
var EstadoTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estado_transitions_total",
		Help:      "Total number of successful estado transitions, by target estado.",
	},
	[]string{"estado"},
)

// EntregasConfirmadasTotal counts delivery confirmations.
var EntregasConfirmadasTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entregas_confirmadas_total",
		Help:      "Total number of casos marked as delivered.",
	},
)

// CasosDeletedTotal counts password-gated deletions.
var CasosDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of casos permanently deleted.",
	},
)

// UploadsRejectedTotal counts attachment uploads rejected at intake.
// Label:
//   - reason: "mime" or "size"
var UploadsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_rejected_total",
		Help:      "Total number of attachment uploads rejected, by reason.",
	},
	[]string{"reason"},
)

// LoginFailuresTotal counts failed credential checks.
var LoginFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_failures_total",
		Help:      "Total number of failed login attempts.",
	},
)
