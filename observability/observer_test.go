package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/localstate/observability"
)

type captureObserver struct {
	events *[]observability.Event
}

func (c *captureObserver) OnEvent(ctx context.Context, event observability.Event) {
	*c.events = append(*c.events, event)
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		name  string
		level observability.Level
		want  string
	}{
		{name: "trace range", level: 1, want: "TRACE"},
		{name: "verbose maps to DEBUG", level: observability.LevelVerbose, want: "DEBUG"},
		{name: "info maps to INFO", level: observability.LevelInfo, want: "INFO"},
		{name: "warning maps to WARN", level: observability.LevelWarning, want: "WARN"},
		{name: "error maps to ERROR", level: observability.LevelError, want: "ERROR"},
		{name: "fatal range", level: 21, want: "FATAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.String())
		})
	}
}

func TestLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level observability.Level
		want  slog.Level
	}{
		{name: "verbose maps to Debug", level: observability.LevelVerbose, want: slog.LevelDebug},
		{name: "info maps to Info", level: observability.LevelInfo, want: slog.LevelInfo},
		{name: "warning maps to Warn", level: observability.LevelWarning, want: slog.LevelWarn},
		{name: "error maps to Error", level: observability.LevelError, want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.SlogLevel())
		})
	}
}

func TestLevel_OTelAlignment(t *testing.T) {
	assert.Equal(t, observability.Level(5), observability.LevelVerbose, "OTel DEBUG range")
	assert.Equal(t, observability.Level(9), observability.LevelInfo, "OTel INFO range")
	assert.Equal(t, observability.Level(13), observability.LevelWarning, "OTel WARN range")
	assert.Equal(t, observability.Level(17), observability.LevelError, "OTel ERROR range")
}

func TestNoOpObserver(t *testing.T) {
	obs := observability.NoOpObserver{}
	assert.NotPanics(t, func() {
		obs.OnEvent(context.Background(), observability.Event{
			Type:      "state.set",
			Level:     observability.LevelInfo,
			Timestamp: time.Now(),
			Source:    "state.Set",
			Data:      map[string]any{"keys": []string{"x"}},
		})
	})
}

func TestMultiObserver(t *testing.T) {
	var events1, events2 []observability.Event

	multi := observability.NewMultiObserver(
		&captureObserver{events: &events1},
		&captureObserver{events: &events2},
	)

	multi.OnEvent(context.Background(), observability.Event{
		Type:      "state.create",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "state.New",
	})

	require.Len(t, events1, 1)
	require.Len(t, events2, 1)
	assert.Equal(t, observability.EventType("state.create"), events1[0].Type)
}

func TestMultiObserver_NilFiltering(t *testing.T) {
	var events []observability.Event
	multi := observability.NewMultiObserver(nil, &captureObserver{events: &events}, nil)

	multi.OnEvent(context.Background(), observability.Event{
		Type:  "state.set",
		Level: observability.LevelInfo,
	})

	assert.Len(t, events, 1, "nil observers should be filtered")
}

func TestSlogObserver_LevelMapping(t *testing.T) {
	tests := []struct {
		name      string
		level     observability.Level
		minLevel  slog.Level
		expectLog bool
	}{
		{name: "verbose at debug handler", level: observability.LevelVerbose, minLevel: slog.LevelDebug, expectLog: true},
		{name: "verbose at info handler", level: observability.LevelVerbose, minLevel: slog.LevelInfo, expectLog: false},
		{name: "info at info handler", level: observability.LevelInfo, minLevel: slog.LevelInfo, expectLog: true},
		{name: "info at warn handler", level: observability.LevelInfo, minLevel: slog.LevelWarn, expectLog: false},
		{name: "warning at warn handler", level: observability.LevelWarning, minLevel: slog.LevelWarn, expectLog: true},
		{name: "error at error handler", level: observability.LevelError, minLevel: slog.LevelError, expectLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
				Level: tt.minLevel,
			}))

			obs := observability.NewSlogObserver(logger)
			obs.OnEvent(context.Background(), observability.Event{
				Type:      "state.set",
				Level:     tt.level,
				Timestamp: time.Now(),
				Source:    "state.Set",
			})

			assert.Equal(t, tt.expectLog, buf.Len() > 0, "buf: %q", buf.String())
		})
	}
}

func TestSlogObserver_EventTypeAsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	obs := observability.NewSlogObserver(logger)
	obs.OnEvent(context.Background(), observability.Event{
		Type:      "state.create",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "state.New",
		Data: map[string]any{
			"key_count": 42,
		},
	})

	output := buf.String()
	assert.Contains(t, output, "state.create")
	assert.Contains(t, output, "source=state.New")
	assert.Contains(t, output, "key_count=42")
}

func TestSlogObserver_EventTime(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	obs := observability.NewSlogObserver(logger)
	obs.OnEvent(context.Background(), observability.Event{
		Type:      "state.set",
		Level:     observability.LevelVerbose,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Source:    "state.Set",
	})

	assert.Contains(t, buf.String(), "event_time=2026-01-02T03:04:05.000Z")
}

func TestSlogObserver_NilLoggerUsesDefault(t *testing.T) {
	obs := observability.NewSlogObserver(nil)
	assert.NotPanics(t, func() {
		obs.OnEvent(context.Background(), observability.Event{
			Type:  "state.set",
			Level: observability.LevelVerbose,
		})
	})
}

func TestRegistry_GetObserver(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "noop exists", key: "noop"},
		{name: "slog exists", key: "slog"},
		{name: "zerolog exists", key: "zerolog"},
		{name: "unknown fails", key: "nonexistent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, err := observability.GetObserver(tt.key)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown observer")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, obs)
		})
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	var events []observability.Event
	observability.RegisterObserver("test-custom", &captureObserver{events: &events})

	obs, err := observability.GetObserver("test-custom")
	require.NoError(t, err)

	obs.OnEvent(context.Background(), observability.Event{
		Type:  "state.set",
		Level: observability.LevelInfo,
	})

	assert.Len(t, events, 1)
}
