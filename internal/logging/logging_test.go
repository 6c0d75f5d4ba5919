package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/excmd/internal/config"
)

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{config.FormatJSON, `"msg":"hello"`},
		{config.FormatLogfmt, "msg=hello"},
		{config.FormatText, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(config.LoggingConfig{Level: "info", Format: tt.format}, &buf)
			logger.Info("hello", "line", "%d")
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "warn", Prefix: "ex"}, &buf)

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "ex")
}

func TestNew_BadLevelFallsBack(t *testing.T) {
	logger := New(config.LoggingConfig{Level: "chatty"}, nil)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
}

func TestSetLevel(t *testing.T) {
	logger := Discard()
	require.NoError(t, SetLevel(logger, "debug"))
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	assert.Error(t, SetLevel(logger, "nope"))
}
