package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observedLogger returns a Logger writing into an in-memory observer.
func observedLogger(t *testing.T) (Logger, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	return &zapLogger{logger: zap.New(core)}, logs
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultLogConfig()},
		{name: "console format", cfg: LogConfig{Level: "debug", Format: "console"}},
		{name: "stderr output", cfg: LogConfig{Level: "warn", Output: "stderr"}},
		{name: "invalid level", cfg: LogConfig{Level: "chatty"}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestLogger_WithContextAddsCorrelation(t *testing.T) {
	t.Parallel()

	logger, logs := observedLogger(t)

	ctx := ContextWithCorrelationID(context.Background(), "corr-1")
	logger.WithContext(ctx).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "corr-1", fields["correlation_id"])
}

func TestLogger_WithContextNoCorrelation(t *testing.T) {
	t.Parallel()

	logger, logs := observedLogger(t)

	logger.WithContext(context.Background()).Info("plain")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].ContextMap())
}

func TestLogger_Emergency(t *testing.T) {
	t.Parallel()

	logger, logs := observedLogger(t)

	logger.Emergency("system down")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, true, entries[0].ContextMap()["emergency"])
}

func TestLogger_Profile(t *testing.T) {
	t.Parallel()

	logger, logs := observedLogger(t)

	stop := logger.Profile("expensive section")
	stop()

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "expensive section: start", entries[0].Message)
	assert.Equal(t, "expensive section: stop", entries[1].Message)
	assert.Contains(t, entries[1].ContextMap(), "elapsed")
}

func TestGlobalLogger(t *testing.T) {
	logger := NopLogger()
	SetGlobalLogger(logger)

	assert.Equal(t, logger, GetGlobalLogger())
	assert.Equal(t, logger, L())
}

func TestCorrelationContext(t *testing.T) {
	t.Parallel()

	id := NewCorrelationID()
	assert.NotEmpty(t, id)
	assert.NotEqual(t, id, NewCorrelationID())

	ctx := ContextWithCorrelationID(context.Background(), "corr")
	ctx = ContextWithParentID(ctx, "parent")

	assert.Equal(t, "corr", CorrelationIDFromContext(ctx))
	assert.Equal(t, "parent", ParentIDFromContext(ctx))
	assert.Equal(t, "", CorrelationIDFromContext(context.Background()))

	fields := CorrelationFields(ctx)
	assert.Len(t, fields, 2)
}
