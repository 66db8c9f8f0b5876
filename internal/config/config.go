package config

import (
	"errors"
	"fmt"
	"time"
)

// Default configuration values.
const (
	DefaultListenAddr      = ":3000"
	DefaultShutdownTimeout = 15 * time.Second
	DefaultCallTimeout     = 10 * time.Second
	DefaultClockSkew       = 30 * time.Second
	DefaultBreakerRequests = 5
	DefaultBreakerTimeout  = 30 * time.Second
)

// GatewayConfig is the root configuration for the gateway process.
type GatewayConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Auth      AuthConfig      `yaml:"auth"`
	Liveness  LivenessConfig  `yaml:"liveness"`
	Backends  []BackendConfig `yaml:"backends"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"readTimeout"`
	WriteTimeout    Duration `yaml:"writeTimeout"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	Organization string `yaml:"organization"`
	Application  string `yaml:"application"`
	Context      string `yaml:"context"`
}

// TracingConfig configures OTLP tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OTLPEndpoint string  `yaml:"otlpEndpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// AuthConfig configures token verification. Access and refresh tokens are
// signed with distinct secrets.
type AuthConfig struct {
	AccessSecret  string   `yaml:"accessSecret"`
	RefreshSecret string   `yaml:"refreshSecret"`
	Issuer        string   `yaml:"issuer"`
	ClockSkew     Duration `yaml:"clockSkew"`
}

// GetEffectiveClockSkew returns the configured clock skew or the default.
func (c *AuthConfig) GetEffectiveClockSkew() time.Duration {
	if c == nil || c.ClockSkew <= 0 {
		return DefaultClockSkew
	}
	return c.ClockSkew.Duration()
}

// LivenessConfig configures the token liveness store connection.
type LivenessConfig struct {
	URL            string   `yaml:"url"`
	ConnectTimeout Duration `yaml:"connectTimeout"`
	ReadTimeout    Duration `yaml:"readTimeout"`
	WriteTimeout   Duration `yaml:"writeTimeout"`
	PoolSize       int      `yaml:"poolSize"`
}

// BackendConfig configures one downstream RPC service.
type BackendConfig struct {
	// Name is the logical service name used as the operation prefix.
	Name string `yaml:"name"`

	// Target is the gRPC dial target (host:port).
	Target string `yaml:"target"`

	// Timeout bounds a single downstream call.
	Timeout Duration `yaml:"timeout"`

	// CircuitBreaker configures the per-backend breaker.
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// GetEffectiveTimeout returns the configured call timeout or the default.
func (b *BackendConfig) GetEffectiveTimeout() time.Duration {
	if b == nil || b.Timeout <= 0 {
		return DefaultCallTimeout
	}
	return b.Timeout.Duration()
}

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Threshold int      `yaml:"threshold"`
	Timeout   Duration `yaml:"timeout"`
}

// RateLimitConfig configures the per-client rate limiter.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	Rate    float64 `yaml:"rate"`
	Burst   int     `yaml:"burst"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *GatewayConfig {
	return &GatewayConfig{
		Server: ServerConfig{
			Addr:            DefaultListenAddr,
			ShutdownTimeout: Duration(DefaultShutdownTimeout),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// ValidateConfig validates a loaded configuration.
func ValidateConfig(cfg *GatewayConfig) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}
	if cfg.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return errors.New("auth.accessSecret is required")
	}
	if cfg.Auth.RefreshSecret == "" {
		return errors.New("auth.refreshSecret is required")
	}
	if cfg.Liveness.URL == "" {
		return errors.New("liveness.url is required")
	}

	seen := make(map[string]bool, len(cfg.Backends))
	for i := range cfg.Backends {
		b := &cfg.Backends[i]
		if b.Name == "" {
			return fmt.Errorf("backends[%d].name is required", i)
		}
		if b.Target == "" {
			return fmt.Errorf("backend %s: target is required", b.Name)
		}
		if seen[b.Name] {
			return fmt.Errorf("backend %s: duplicate name", b.Name)
		}
		seen[b.Name] = true
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.Rate <= 0 {
			return errors.New("rateLimit.rate must be positive")
		}
		if cfg.RateLimit.Burst <= 0 {
			return errors.New("rateLimit.burst must be positive")
		}
	}

	return nil
}

// Backend returns the backend configuration for the given name.
func (c *GatewayConfig) Backend(name string) (*BackendConfig, bool) {
	for i := range c.Backends {
		if c.Backends[i].Name == name {
			return &c.Backends[i], true
		}
	}
	return nil, false
}
