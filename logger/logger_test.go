package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWithSink(t *testing.T) {
	buffer := &bytes.Buffer{}
	log := NewWithSink("trader", "warn", zapcore.AddSync(buffer))

	log.Info("dropped")
	log.Warn("retrying", zap.String("op", "buy"), zap.Int("attempt", 2))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))

	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "retrying", entry["msg"])
	assert.Equal(t, "trader", entry["service"])
	assert.Equal(t, "buy", entry["op"])
	assert.Equal(t, 2.0, entry["attempt"])
	assert.Contains(t, entry, "ts")
}

func TestUnknownLevelIsInfo(t *testing.T) {
	buffer := &bytes.Buffer{}
	log := NewWithSink("trader", "loud", zapcore.AddSync(buffer))

	log.Debug("hidden")
	assert.Zero(t, buffer.Len())

	log.Info("shown")
	assert.Contains(t, buffer.String(), `"level":"INFO"`)
}
