// Package authz implements role-based authorization for gateway routes.
//
// Authorization is a flat allow-list check: the request is allowed when the
// principal holds at least one of the route's required roles. There is no
// hierarchy or inheritance between roles; each role is an independent
// capability tag.
package authz

import (
	"context"

	"github.com/HCMUS-Project/saas-gateway/internal/auth"
	"github.com/HCMUS-Project/saas-gateway/internal/observability"
)

// Decision represents an authorization decision.
type Decision struct {
	// Allowed indicates if the request is allowed.
	Allowed bool

	// Reason is the reason for the decision.
	Reason string
}

// Evaluator authorizes verified principals against route role requirements.
type Evaluator interface {
	// Evaluate returns the decision for a principal against the route's
	// required roles. A route with no required roles allows any verified
	// principal.
	Evaluate(ctx context.Context, principal *auth.Principal, requiredRoles []string) Decision
}

// evaluator implements the Evaluator interface.
type evaluator struct {
	logger  observability.Logger
	metrics *Metrics
}

// EvaluatorOption is a functional option for the evaluator.
type EvaluatorOption func(*evaluator)

// WithEvaluatorLogger sets the logger.
func WithEvaluatorLogger(logger observability.Logger) EvaluatorOption {
	return func(e *evaluator) {
		e.logger = logger
	}
}

// WithEvaluatorMetrics sets the metrics.
func WithEvaluatorMetrics(metrics *Metrics) EvaluatorOption {
	return func(e *evaluator) {
		e.metrics = metrics
	}
}

// NewEvaluator creates a new role evaluator.
func NewEvaluator(opts ...EvaluatorOption) Evaluator {
	e := &evaluator{
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.metrics == nil {
		e.metrics = NewMetrics("gateway")
	}

	return e
}

// Evaluate returns the decision for a principal against required roles.
func (e *evaluator) Evaluate(ctx context.Context, principal *auth.Principal, requiredRoles []string) Decision {
	if len(requiredRoles) == 0 {
		e.metrics.RecordDecision("allowed")
		return Decision{Allowed: true, Reason: "no role requirement"}
	}

	if principal != nil && principal.HasAnyRole(requiredRoles...) {
		e.metrics.RecordDecision("allowed")
		e.logger.WithContext(ctx).Debug("authorization allowed",
			observability.String("role", principal.PrimaryRole()),
			observability.Strings("required", requiredRoles))
		return Decision{Allowed: true, Reason: "role matched"}
	}

	e.metrics.RecordDecision("denied")
	role := ""
	if principal != nil {
		role = principal.PrimaryRole()
	}
	e.logger.WithContext(ctx).Debug("authorization denied",
		observability.String("role", role),
		observability.Strings("required", requiredRoles))

	return Decision{Allowed: false, Reason: "role not permitted"}
}

// Ensure evaluator implements Evaluator.
var _ Evaluator = (*evaluator)(nil)
