package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "match-roles"})

	log.Warn("unknown categories", map[string]interface{}{
		"categories": []string{"hobbies"},
		"cause":      errors.New("boom"),
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "unknown categories", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "match-roles", ctx["taskType"])
	assert.Equal(t, "boom", ctx["cause"])
	assert.Equal(t, []interface{}{"hobbies"}, ctx["categories"])
}

func TestMapToZapFields_Sorted(t *testing.T) {
	fields := mapToZapFields(map[string]interface{}{"b": 1, "a": 2, "c": 3})
	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "c", fields[2].Key)
	assert.Nil(t, mapToZapFields(nil))
}

func TestNewStructured(t *testing.T) {
	l := NewStructured("debug", "console", "stderr")
	assert.NotNil(t, l)
	l.WithError(errors.New("x")).Debug("ok", nil)
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "sam.jones@example.org", want: "s***@example.org"},
		{in: "+447700900123", want: "***123"},
		{in: "12", want: "***"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Redact(tt.in), tt.in)
	}
}

func TestZapAdapter_RedactsContactDetails(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	NewZapAdapter(zap.New(core)).Info("result summary sent", map[string]interface{}{
		"email":   "sam.jones@example.org",
		"Phone":   "+447700900123",
		"channel": "email",
	})

	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "s***@example.org", ctx["email"])
	assert.Equal(t, "***123", ctx["Phone"])
	assert.Equal(t, "email", ctx["channel"])
}
