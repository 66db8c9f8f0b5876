package errormap

import (
	"context"
	"net/http"

	"github.com/HCMUS-Project/saas-gateway/internal/observability"
	"github.com/HCMUS-Project/saas-gateway/internal/rpc"
)

// Messages for failures that do not resolve through the mapping table.
const (
	msgNotRecognized = "Error not recognized"
	msgUnhandled     = "Unhandled error type: "
)

// Translator converts downstream failures into HTTP errors using the
// mapping table.
type Translator struct {
	table   *Table
	logger  observability.Logger
	metrics *Metrics
}

// TranslatorOption is a functional option for the translator.
type TranslatorOption func(*Translator)

// WithTranslatorLogger sets the logger for the translator.
func WithTranslatorLogger(logger observability.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = logger
	}
}

// WithTranslatorMetrics sets the metrics for the translator.
func WithTranslatorMetrics(metrics *Metrics) TranslatorOption {
	return func(t *Translator) {
		t.metrics = metrics
	}
}

// NewTranslator creates a translator over the given mapping table.
func NewTranslator(table *Table, opts ...TranslatorOption) *Translator {
	t := &Translator{
		table:  table,
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.metrics == nil {
		t.metrics = NewMetrics("gateway")
	}

	return t
}

// Translate converts a downstream failure into an HTTP error. It is total:
// every failure, including one whose detail is not valid structured data,
// yields a well-formed HTTP error.
//
// An unparseable detail maps to a 404-class "Error not recognized" response.
// That status is kept for compatibility with the established client-facing
// behavior even when the underlying cause is transport-level.
func (t *Translator) Translate(ctx context.Context, operation string, failure *rpc.Failure) *HTTPError {
	if failure == nil {
		t.metrics.RecordTranslation(operation, "nil_failure")
		return &HTTPError{
			Status:  http.StatusNotFound,
			Kind:    KindDownstreamUnrecognized,
			Message: msgNotRecognized,
		}
	}

	code, message, parsed := failure.Parse()
	if !parsed {
		kind := KindDownstreamUnrecognized
		outcome := "unparseable"
		if failure.Transport {
			kind = KindTransportFailure
			outcome = "transport"
		}
		t.metrics.RecordTranslation(operation, outcome)
		t.logger.WithContext(ctx).Warn("downstream failure not recognized",
			observability.String("operation", operation),
			observability.Bool("transport", failure.Transport),
			observability.String("detail", failure.Detail))
		return &HTTPError{
			Status:  http.StatusNotFound,
			Kind:    kind,
			Message: msgNotRecognized,
		}
	}

	entry, ok := t.table.Lookup(operation, code)
	if !ok {
		t.metrics.RecordTranslation(operation, "unmapped")
		t.logger.WithContext(ctx).Warn("downstream error code not mapped",
			observability.String("operation", operation),
			observability.String("code", code))
		return &HTTPError{
			Status:  http.StatusNotFound,
			Kind:    KindDownstreamUnrecognized,
			Message: msgUnhandled + code,
		}
	}

	t.metrics.RecordTranslation(operation, "mapped")

	msg := entry.Message
	if msg == "" {
		msg = message
	}
	if msg == "" {
		msg = code
	}

	return &HTTPError{
		Status:  entry.Status,
		Kind:    KindDownstreamRejected,
		Message: msg,
	}
}
