package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) *SlogAdapter {
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogAdapter(slog.New(handler))
}

func TestNopLogger(t *testing.T) {
	l := NopLogger{}
	assert.NotPanics(t, func() {
		l.Debug("m", "k", "v")
		l.Info("m")
		l.Warn("m")
		l.Error("m")
	})
	_, ok := l.With("k", "v").(NopLogger)
	assert.True(t, ok)
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, NopLogger{}, OrNop(nil))

	var buf bytes.Buffer
	l := newBufferLogger(&buf)
	assert.Same(t, l, OrNop(l))
}

func TestSlogAdapter(t *testing.T) {
	t.Run("nil uses default", func(t *testing.T) {
		adapter := NewSlogAdapter(nil)
		require.NotNil(t, adapter.logger)
	})

	levels := []struct {
		name  string
		log   func(Logger, string, ...any)
		level string
	}{
		{"debug", Logger.Debug, "level=DEBUG"},
		{"info", Logger.Info, "level=INFO"},
		{"warn", Logger.Warn, "level=WARN"},
		{"error", Logger.Error, "level=ERROR"},
	}
	for _, tt := range levels {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newBufferLogger(&buf), "loaded contract", "name", "getUser")
			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), "loaded contract")
			assert.Contains(t, buf.String(), "name=getUser")
		})
	}

	t.Run("With prepends attributes", func(t *testing.T) {
		var buf bytes.Buffer
		l := newBufferLogger(&buf).With("component", "bridge")
		l.Info("mounted")
		assert.Contains(t, buf.String(), "component=bridge")
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("adds context attributes", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := ContextWith(context.Background(), "request_id", "abc")
		ctx = ContextWith(ctx, "contract", "getUser")

		l := NewContextLogger(ctx, newBufferLogger(&buf))
		l.Warn("slow handler")
		assert.Contains(t, buf.String(), "request_id=abc")
		assert.Contains(t, buf.String(), "contract=getUser")
		assert.Equal(t, ctx, l.Context())
	})

	t.Run("ContextWith does not alias parent attributes", func(t *testing.T) {
		parent := ContextWith(context.Background(), "a", 1)
		child := ContextWith(parent, "b", 2)
		assert.Equal(t, []any{"a", 1}, AttrsFrom(parent))
		assert.Equal(t, []any{"a", 1, "b", 2}, AttrsFrom(child))
	})

	t.Run("nil logger is a nop", func(t *testing.T) {
		l := NewContextLogger(context.Background(), nil)
		assert.NotPanics(t, func() { l.With("k", "v").Error("m") })
	})

	t.Run("nil context carries nothing", func(t *testing.T) {
		//nolint:staticcheck // exercising the nil guard
		assert.Nil(t, AttrsFrom(nil))
	})
}
