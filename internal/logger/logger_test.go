package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

// TestNewLogger_Fields verifies that every entry carries role, time and the
// caller function name.
func TestNewLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "janitor")

	l.Info().Msg("tick")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "janitor", entry["role"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry["func"], "TestNewLogger_Fields")
	assert.Equal(t, "func", zerolog.CallerFieldName)
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	tests := []struct {
		name    string
		level   string
		want    zerolog.Level
		wantErr bool
	}{
		{name: "info", level: "info", want: zerolog.InfoLevel},
		{name: "warn", level: "warn", want: zerolog.WarnLevel},
		{name: "empty keeps current", level: "", want: zerolog.WarnLevel},
		{name: "unknown", level: "loud", want: zerolog.WarnLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SetLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

// TestSetLevel_FiltersEntries verifies that entries below the global level are dropped.
func TestSetLevel_FiltersEntries(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "server")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	require.NoError(t, SetLevel("error"))
	l.Info().Msg("hidden")

	assert.Empty(t, buf.String())
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("should be discarded")

	assert.Empty(t, buf.String())
}

// TestGetChildLogger_InheritsFields verifies that fields added to the child
// do not leak into the parent.
func TestGetChildLogger_InheritsFields(t *testing.T) {
	var parentBuf, childBuf bytes.Buffer
	parent := newLogger(&parentBuf, "server")

	child := parent.GetChildLogger()
	child.Logger = child.Output(&childBuf).With().Str("trace_id", "abc").Logger()
	require.NotSame(t, parent, child)

	child.Info().Msg("child")
	parent.Info().Msg("parent")

	childEntry := decodeEntry(t, &childBuf)
	assert.Equal(t, "server", childEntry["role"])
	assert.Equal(t, "abc", childEntry["trace_id"])

	parentEntry := decodeEntry(t, &parentBuf)
	assert.NotContains(t, parentEntry, "trace_id")
}

func TestFromContext_NotNil(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
}

// TestFromRequest_ReturnsAttachedLogger verifies that FromRequest returns the
// logger attached to the request's context.
func TestFromRequest_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("trace_id", "req-1").Logger()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	req = req.WithContext(zl.WithContext(req.Context()))

	FromRequest(req).Info().Msg("from request")

	assert.Equal(t, "req-1", decodeEntry(t, &buf)["trace_id"])
}
