package authz

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/HCMUS-Project/saas-gateway/internal/auth"
)

func newTestEvaluator() Evaluator {
	return NewEvaluator(WithEvaluatorMetrics(
		NewMetricsWithRegisterer("test", prometheus.NewRegistry())))
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()

	tests := []struct {
		name     string
		roles    []string
		required []string
		allowed  bool
	}{
		{name: "no requirement allows any principal", roles: []string{"USER"}, required: nil, allowed: true},
		{name: "role in required set", roles: []string{"TENANT"}, required: []string{"TENANT"}, allowed: true},
		{name: "one of several required", roles: []string{"USER"}, required: []string{"TENANT", "USER"}, allowed: true},
		{name: "admin is not tenant", roles: []string{"ADMIN"}, required: []string{"TENANT"}, allowed: false},
		{name: "no roles", roles: nil, required: []string{"USER"}, allowed: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &auth.Principal{Roles: tt.roles}
			decision := e.Evaluate(context.Background(), p, tt.required)
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.NotEmpty(t, decision.Reason)
		})
	}
}

func TestEvaluate_NilPrincipal(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator()

	decision := e.Evaluate(context.Background(), nil, []string{"USER"})
	assert.False(t, decision.Allowed)

	// No requirement allows even a nil principal; the route opted out of
	// role checks entirely.
	decision = e.Evaluate(context.Background(), nil, nil)
	assert.True(t, decision.Allowed)
}
