package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/HCMUS-Project/saas-gateway/internal/auth"
	"github.com/HCMUS-Project/saas-gateway/internal/config"
	"github.com/HCMUS-Project/saas-gateway/internal/observability"
)

// rpcTracer is the OTEL tracer for downstream calls.
var rpcTracer = otel.Tracer("saas-gateway/rpc")

// ErrUnknownBackend indicates that the operation names a backend that is not
// configured.
var ErrUnknownBackend = errors.New("unknown backend")

// Adapter invokes named downstream operations with the verified principal
// attached.
type Adapter interface {
	// Invoke calls the downstream operation with the given payload. The
	// principal, when non-nil, is attached to the outgoing payload under the
	// "user" key. On failure the returned Failure is non-nil and the result
	// is nil.
	Invoke(ctx context.Context, operation string, payload any, principal *auth.Principal) (json.RawMessage, *Failure)

	// Close releases the underlying connections.
	Close() error
}

// transport abstracts the wire invocation for testing.
type transport interface {
	invoke(ctx context.Context, target, fullMethod string, req []byte) ([]byte, error)
}

// backend holds the per-service call state.
type backend struct {
	cfg     *config.BackendConfig
	breaker *gobreaker.CircuitBreaker
}

// client implements the Adapter interface.
type client struct {
	backends  map[string]*backend
	pool      *ConnectionPool
	transport transport
	logger    observability.Logger
	metrics   *Metrics
}

// ClientOption is a functional option for the client.
type ClientOption func(*client)

// WithClientLogger sets the logger for the client.
func WithClientLogger(logger observability.Logger) ClientOption {
	return func(c *client) {
		c.logger = logger
	}
}

// WithClientMetrics sets the metrics for the client.
func WithClientMetrics(metrics *Metrics) ClientOption {
	return func(c *client) {
		c.metrics = metrics
	}
}

// withTransport overrides the wire transport. Used by tests.
func withTransport(t transport) ClientOption {
	return func(c *client) {
		c.transport = t
	}
}

// NewClient creates a new remote call adapter over the given connection pool.
func NewClient(backends []config.BackendConfig, pool *ConnectionPool, opts ...ClientOption) (Adapter, error) {
	if pool == nil {
		return nil, errors.New("connection pool is required")
	}

	c := &client{
		backends: make(map[string]*backend, len(backends)),
		pool:     pool,
		logger:   observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.metrics == nil {
		c.metrics = NewMetrics("gateway")
	}
	if c.transport == nil {
		c.transport = &grpcTransport{pool: pool}
	}

	for i := range backends {
		cfg := &backends[i]
		b := &backend{cfg: cfg}
		if cfg.CircuitBreaker.Enabled {
			b.breaker = newBreaker(cfg, c.logger)
		}
		c.backends[cfg.Name] = b
	}

	return c, nil
}

// newBreaker builds the per-backend circuit breaker.
func newBreaker(cfg *config.BackendConfig, logger observability.Logger) *gobreaker.CircuitBreaker {
	threshold := cfg.CircuitBreaker.Threshold
	if threshold <= 0 {
		threshold = config.DefaultBreakerRequests
	}
	timeout := cfg.CircuitBreaker.Timeout.Duration()
	if timeout <= 0 {
		timeout = config.DefaultBreakerTimeout
	}

	thresholdU32 := uint32(threshold) //nolint:gosec // bounded by config validation

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     cfg.Name,
		Interval: timeout,
		Timeout:  timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= thresholdU32 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				observability.String("backend", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()))
		},
	})
}

// Invoke calls the downstream operation with the given payload.
func (c *client) Invoke(
	ctx context.Context, operation string, payload any, principal *auth.Principal,
) (json.RawMessage, *Failure) {
	start := time.Now()

	service, method, err := splitOperation(operation)
	if err != nil {
		c.metrics.RecordCall(operation, "invalid_operation", time.Since(start))
		return nil, TransportFailure(err.Error())
	}

	b, ok := c.backends[service]
	if !ok {
		c.metrics.RecordCall(operation, "unknown_backend", time.Since(start))
		return nil, TransportFailure(fmt.Sprintf("%v: %s", ErrUnknownBackend, service))
	}

	reqBytes, err := c.buildRequest(payload, principal)
	if err != nil {
		c.metrics.RecordCall(operation, "marshal_error", time.Since(start))
		return nil, TransportFailure("failed to encode request: " + err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.GetEffectiveTimeout())
	defer cancel()

	ctx, span := rpcTracer.Start(ctx, "rpc.invoke",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.operation", operation),
			attribute.String("rpc.backend", service),
		),
	)
	defer span.End()

	fullMethod := "/" + service + "/" + method

	respBytes, err := c.call(ctx, b, fullMethod, reqBytes)
	if err != nil {
		failure := c.classify(err)
		outcome := "rejected"
		if failure.Transport {
			outcome = "transport_error"
		}
		c.metrics.RecordCall(operation, outcome, time.Since(start))
		c.logger.WithContext(ctx).Warn("downstream call failed",
			observability.String("operation", operation),
			observability.Bool("transport", failure.Transport),
			observability.Error(err))
		return nil, failure
	}

	c.metrics.RecordCall(operation, "success", time.Since(start))
	c.logger.WithContext(ctx).Debug("downstream call succeeded",
		observability.String("operation", operation),
		observability.Duration("duration", time.Since(start)))

	return respBytes, nil
}

// call performs the wire invocation, through the breaker when configured.
func (c *client) call(ctx context.Context, b *backend, fullMethod string, req []byte) ([]byte, error) {
	if b.breaker == nil {
		return c.transport.invoke(ctx, b.cfg.Target, fullMethod, req)
	}

	resp, err := b.breaker.Execute(func() (interface{}, error) {
		return c.transport.invoke(ctx, b.cfg.Target, fullMethod, req)
	})
	if err != nil {
		return nil, err
	}
	return resp.([]byte), nil
}

// buildRequest marshals the payload and attaches the principal's identity
// fields under the "user" key so downstream services can re-derive
// authorization context without re-verifying the token.
func (c *client) buildRequest(payload any, principal *auth.Principal) ([]byte, error) {
	body := make(map[string]any)

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
	}

	if principal != nil {
		body["user"] = map[string]any{
			"email":       principal.Email,
			"domain":      principal.Domain,
			"role":        principal.PrimaryRole(),
			"accessToken": principal.AccessToken,
		}
	}

	return json.Marshal(body)
}

// classify converts a wire error into a Failure. Breaker and transport-level
// errors are marked Transport; status errors carrying a downstream payload
// keep their detail for the translator.
func (c *client) classify(err error) *Failure {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return TransportFailure("circuit breaker open")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TransportFailure("downstream call timed out")
	}

	st, ok := status.FromError(err)
	if !ok {
		return TransportFailure(err.Error())
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.Unimplemented:
		return TransportFailure(st.Message())
	default:
		return &Failure{Detail: st.Message()}
	}
}

// Close releases the underlying connections.
func (c *client) Close() error {
	return c.pool.Close()
}

// splitOperation splits "service/Method" into its parts.
func splitOperation(operation string) (service, method string, err error) {
	parts := strings.SplitN(operation, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid operation name: %q", operation)
	}
	return parts[0], parts[1], nil
}

// grpcTransport performs calls over pooled gRPC connections.
type grpcTransport struct {
	pool *ConnectionPool
}

// invoke performs a unary call with the passthrough codec.
func (t *grpcTransport) invoke(ctx context.Context, target, fullMethod string, req []byte) ([]byte, error) {
	conn, err := t.pool.Get(target)
	if err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	resp := &Frame{}
	if err := conn.Invoke(ctx, fullMethod, NewFrame(req), resp); err != nil {
		return nil, err
	}
	return resp.Payload(), nil
}

// Ensure client implements Adapter.
var _ Adapter = (*client)(nil)
