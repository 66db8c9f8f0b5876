// Package observability provides structured logging, correlation context
// propagation, and distributed tracing for the gateway.
//
// The Logger interface wraps zap and automatically enriches log entries with
// the ambient correlation id when used through WithContext. The tracer wraps
// the OpenTelemetry SDK with an optional OTLP/gRPC exporter.
package observability
