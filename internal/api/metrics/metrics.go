// Package metrics defines and registers the custom Prometheus metrics shared by
// the platform services. It is the single source of truth for metric names,
// labels, and help strings.
//
// Every variable is registered with the default registry through promauto, so
// importing the package is enough; echoprometheus serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "venuehub"

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokensIssuedTotal counts bearer tokens issued at login.
// Label:
//   - role: the role claim embedded in the token
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued.",
	},
	[]string{"role"},
)

// TokensRevokedTotal counts explicit revocations (logout).
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of bearer tokens revoked.",
	},
)

// EdgeRejectionsTotal counts requests refused at the gateway.
// Label:
//   - reason: "invalid" (signature or expiry) or "revoked" (not in the active set)
var EdgeRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "edge_rejections_total",
		Help:      "Total number of requests rejected at the edge with 401.",
	},
	[]string{"reason"},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthorizationDenialsTotal counts ownership and role checks that failed.
// Labels:
//   - kind: entity kind being protected (e.g. "resource", "feedback")
//   - check: the check that denied (e.g. "owner_or_admin", "remote_owner")
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of authorization checks that denied access.",
	},
	[]string{"kind", "check"},
)

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// StatusTransitionsTotal counts status requests by outcome.
// Labels:
//   - kind: entity kind (e.g. "Resource")
//   - changed: "true" when applied, "false" for the reported no-op
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of lifecycle status requests, labelled by whether they changed anything.",
	},
	[]string{"kind", "changed"},
)

// ── Cascade metrics ───────────────────────────────────────────────────────────

// CascadeTotal counts remote propagation steps.
// Labels:
//   - step: cascade step name (e.g. "set_remote_status", "push_aggregate")
//   - result: "applied" or "failed"
var CascadeTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_total",
		Help:      "Total number of cascade steps, labelled by result.",
	},
	[]string{"step", "result"},
)

// RemoteCallDuration measures synchronous service-to-service calls.
// Labels:
//   - target: the remote service (e.g. "profile", "resource")
//   - outcome: "ok", "not_found" or "error"
var RemoteCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_call_duration_seconds",
		Help:      "Duration of synchronous calls to peer services.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"target", "outcome"},
)
