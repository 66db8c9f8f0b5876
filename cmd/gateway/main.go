// Package main is the entry point for the API gateway.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HCMUS-Project/saas-gateway/internal/auth"
	"github.com/HCMUS-Project/saas-gateway/internal/authz"
	"github.com/HCMUS-Project/saas-gateway/internal/config"
	"github.com/HCMUS-Project/saas-gateway/internal/errormap"
	"github.com/HCMUS-Project/saas-gateway/internal/gateway"
	"github.com/HCMUS-Project/saas-gateway/internal/health"
	"github.com/HCMUS-Project/saas-gateway/internal/liveness"
	"github.com/HCMUS-Project/saas-gateway/internal/observability"
	"github.com/HCMUS-Project/saas-gateway/internal/rpc"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	cfg := loadConfig(flags.configPath)

	logger := initLogger(flags, cfg)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting gateway",
		observability.String("version", version),
		observability.String("config", flags.configPath))

	run(cfg, flags.configPath, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("GATEWAY_CONFIG_PATH", "configs/gateway.yaml"),
		"Path to configuration file")
	logLevel := flag.String("log-level", getEnvOrDefault("GATEWAY_LOG_LEVEL", ""),
		"Log level override (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("GATEWAY_LOG_FORMAT", ""),
		"Log format override (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("saas-gateway version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadConfig loads and validates the configuration.
func loadConfig(path string) *config.GatewayConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// initLogger builds the process logger. Flags override the config file.
func initLogger(flags cliFlags, cfg *config.GatewayConfig) observability.Logger {
	logCfg := observability.LogConfig{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       cfg.Logging.Output,
		Organization: cfg.Logging.Organization,
		Application:  cfg.Logging.Application,
		Context:      cfg.Logging.Context,
	}
	if flags.logLevel != "" {
		logCfg.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		logCfg.Format = flags.logFormat
	}

	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	observability.SetGlobalLogger(logger)
	return logger
}

// run wires every component and serves until a termination signal arrives.
func run(cfg *config.GatewayConfig, configPath string, logger observability.Logger) {
	tracer, err := observability.NewTracer(observability.TracerConfig{
		ServiceName:  "saas-gateway",
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SamplingRate: cfg.Tracing.SamplingRate,
		Enabled:      cfg.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal("failed to initialize tracing", observability.Error(err))
	}

	store, err := liveness.New(&cfg.Liveness, logger)
	if err != nil {
		logger.Fatal("failed to connect to liveness store", observability.Error(err))
	}

	verifier, err := auth.NewVerifier(&cfg.Auth, store, auth.WithVerifierLogger(logger))
	if err != nil {
		logger.Fatal("failed to initialize verifier", observability.Error(err))
	}

	evaluator := authz.NewEvaluator(authz.WithEvaluatorLogger(logger))

	pool := rpc.NewConnectionPool(rpc.WithPoolLogger(logger))
	targets := make([]string, 0, len(cfg.Backends))
	for _, b := range cfg.Backends {
		targets = append(targets, b.Target)
	}
	if err := pool.Warm(targets); err != nil {
		logger.Fatal("failed to establish downstream connections", observability.Error(err))
	}

	adapter, err := rpc.NewClient(cfg.Backends, pool, rpc.WithClientLogger(logger))
	if err != nil {
		logger.Fatal("failed to initialize call adapter", observability.Error(err))
	}

	routes := gateway.Routes()
	table, err := gateway.BuildTable(routes)
	if err != nil {
		logger.Fatal("invalid route table", observability.Error(err))
	}
	translator := errormap.NewTranslator(table, errormap.WithTranslatorLogger(logger))

	checker := health.NewChecker(version)
	checker.RegisterCheck("liveness-store", func(ctx context.Context) error {
		_, err := store.Exists(ctx, "readiness-probe")
		return err
	})

	server, err := gateway.NewServer(cfg, verifier, evaluator, adapter, translator,
		gateway.WithServerLogger(logger),
		gateway.WithHealthChecker(checker),
		gateway.WithRoutes(routes))
	if err != nil {
		logger.Fatal("failed to build server", observability.Error(err))
	}

	watcher := startWatcher(configPath, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", observability.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", observability.Error(err))
		}
	}

	shutdown(server, watcher, adapter, store, tracer, logger)
}

// startWatcher starts the config file watcher. Reload failures are logged
// and the last good configuration stays in effect.
func startWatcher(configPath string, logger observability.Logger) *config.Watcher {
	watcher, err := config.NewWatcher(configPath, func(cfg *config.GatewayConfig) {
		logger.Info("configuration file changed; restart to apply listener or backend changes")
	}, config.WithWatcherLogger(logger))
	if err != nil {
		logger.Warn("config watcher unavailable", observability.Error(err))
		return nil
	}
	if err := watcher.Start(context.Background()); err != nil {
		logger.Warn("config watcher failed to start", observability.Error(err))
		return nil
	}
	return watcher
}

// shutdown tears the process down in dependency order.
func shutdown(
	server *gateway.Server,
	watcher *config.Watcher,
	adapter rpc.Adapter,
	store liveness.Store,
	tracer *observability.Tracer,
	logger observability.Logger,
) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", observability.Error(err))
	}
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			logger.Warn("config watcher stop failed", observability.Error(err))
		}
	}
	if err := adapter.Close(); err != nil {
		logger.Warn("call adapter close failed", observability.Error(err))
	}
	if err := store.Close(); err != nil {
		logger.Warn("liveness store close failed", observability.Error(err))
	}
	if err := tracer.Shutdown(ctx); err != nil {
		logger.Warn("tracer shutdown failed", observability.Error(err))
	}

	logger.Info("gateway stopped")
}
