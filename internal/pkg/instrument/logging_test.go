package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_MasksAndStampsCorrelation(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, Config{
		ServiceName: "bazaar",
		LogLevel:    "debug",
		MaskFields:  []string{"password", " Code "},
	}, nil))
	ctx := SetCorrelationID(context.Background(), "cid-1")

	// Act
	logger.With("password", "P@ssw0rd!").DebugContext(ctx, "issued otp",
		"identity", "a@x.com",
		slog.Group("challenge", "code", "012345", "purpose", "register"),
	)

	// Assert
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "***", line["password"])
	assert.Equal(t, "a@x.com", line["identity"])
	assert.Equal(t, map[string]any{"code": "***", "purpose": "register"}, line["challenge"])
	assert.Equal(t, "cid-1", line["_cID"])
	assert.Equal(t, "bazaar", line["service"])
	assert.Equal(t, "DEBUG", line["severity"])
	assert.Contains(t, line, "ts")
}

func TestHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, Config{LogLevel: "warn"}, nil))

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "abc", GetCorrelationID(SetCorrelationID(context.Background(), "abc")))
}

func TestNew_Disabled(t *testing.T) {
	ins, err := New(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	_, span := ins.Tracer("test").Start(context.Background(), "op")
	span.End()
	assert.NoError(t, ins.Shutdown(context.Background()))
}
