package rpc

import (
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/HCMUS-Project/saas-gateway/internal/observability"
)

// ConnectionPool manages one long-lived gRPC client connection per downstream
// service. Connections are created on first use, shared across all requests,
// and torn down once at shutdown.
type ConnectionPool struct {
	conns    map[string]*grpc.ClientConn
	mu       sync.RWMutex
	dialOpts []grpc.DialOption
	logger   observability.Logger
}

// PoolOption is a functional option for configuring the connection pool.
type PoolOption func(*ConnectionPool)

// WithPoolLogger sets the logger for the connection pool.
func WithPoolLogger(logger observability.Logger) PoolOption {
	return func(p *ConnectionPool) {
		p.logger = logger
	}
}

// WithDialOptions sets the dial options for the connection pool.
func WithDialOptions(opts ...grpc.DialOption) PoolOption {
	return func(p *ConnectionPool) {
		p.dialOpts = append(p.dialOpts, opts...)
	}
}

// NewConnectionPool creates a new connection pool.
func NewConnectionPool(opts ...PoolOption) *ConnectionPool {
	p := &ConnectionPool{
		conns:  make(map[string]*grpc.ClientConn),
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if len(p.dialOpts) == 0 {
		p.dialOpts = defaultDialOptions()
	}

	return p
}

// defaultDialOptions returns default gRPC dial options.
func defaultDialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.ForceCodec(&rawCodec{}),
		),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                30 * time.Second,
			Timeout:             10 * time.Second,
			PermitWithoutStream: true,
		}),
	}
}

// Get returns the shared connection to the target, creating one if necessary.
func (p *ConnectionPool) Get(target string) (*grpc.ClientConn, error) {
	p.mu.RLock()
	conn, exists := p.conns[target]
	p.mu.RUnlock()

	if exists && conn != nil && conn.GetState() != connectivity.Shutdown {
		return conn, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock.
	conn, exists = p.conns[target]
	if exists && conn != nil && conn.GetState() != connectivity.Shutdown {
		return conn, nil
	}

	conn, err := grpc.NewClient(target, p.dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", target, err)
	}

	p.conns[target] = conn

	p.logger.Info("created gRPC connection",
		observability.String("target", target))

	return conn, nil
}

// Warm dials every given target so startup failures surface before the first
// request.
func (p *ConnectionPool) Warm(targets []string) error {
	for _, target := range targets {
		if _, err := p.Get(target); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all connections in the pool.
func (p *ConnectionPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for target, conn := range p.conns {
		if err := conn.Close(); err != nil {
			p.logger.Error("failed to close connection",
				observability.String("target", target),
				observability.Error(err))
			lastErr = err
		}
	}

	p.conns = make(map[string]*grpc.ClientConn)
	return lastErr
}

// Size returns the number of connections in the pool.
func (p *ConnectionPool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns)
}
