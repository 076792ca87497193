// Package metrics defines and registers all custom Prometheus metrics for
// the authgate service. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authgate"

// ── Guard metrics ─────────────────────────────────────────────────────────────

// RouteGuardDecisionsTotal counts edge-layer guard outcomes.
// Labels:
//   - decision: "pass", "redirect_login", "redirect_landing"
//   - class: route classification ("public_auth", "protected", "unclassified")
var RouteGuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "route_guard_decisions_total",
		Help:      "Total number of edge-layer route guard decisions.",
	},
	[]string{"decision", "class"},
)

// GuardDecisionsTotal counts render-layer guard outcomes.
// Label:
//   - decision: "allow", "redirect_login", "redirect_forbidden"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of render-layer guard decisions.",
	},
	[]string{"decision"},
)

// TokenValidationFailuresTotal counts tokens rejected during gating.
// Label:
//   - reason: "malformed", "expired", or "mismatch" (token differs from
//     the one persisted for its claimed session)
var TokenValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validation_failures_total",
		Help:      "Total number of bearer tokens rejected during gating.",
	},
	[]string{"reason"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsRestoredTotal counts successful auth-state restores from the
// session store.
var SessionsRestoredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_restored_total",
		Help:      "Total number of auth states rebuilt from persisted sessions.",
	},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "invalid_credentials", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// LogoutsTotal counts completed logouts.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logouts.",
	},
)
