package logx_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_WithFieldsDoesNotLeakIntoBase(t *testing.T) {
	var buf bytes.Buffer
	logger := logx.NewLogger(&logx.Config{Level: logx.LevelInfo, Format: logx.FormatText, Output: &buf})

	base := logger.WithField("run", "r1")
	base.WithField("to", "a@x.com").Info("sent")
	base.Info("finished")

	assert.Equal(t, "INFO - sent run=r1 to=a@x.com\nINFO - finished run=r1\n", buf.String())
}

func TestConsoleFormatter_SortedFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := logx.NewLogger(&logx.Config{Level: logx.LevelDebug, Format: logx.FormatConsole, Output: &buf})

	logger.WithFields(logx.Fields{"b": 2, "a": 1}).WithError(errors.New("boom")).Warn("retrying")

	assert.Equal(t, "[WARN ] retrying a=1 b=2 error=boom\n", buf.String())
}

func TestJSONFormatter_NestsReservedKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := logx.NewLogger(&logx.Config{Level: logx.LevelInfo, Format: logx.FormatJSON, Output: &buf})

	logger.WithFields(logx.Fields{"message": "shadow", "sender": "a@x.com"}).Info("campaign started")

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "INFO", out["level"])
	assert.Equal(t, "campaign started", out["message"])
	assert.Equal(t, "a@x.com", out["sender"])
	assert.Equal(t, "shadow", out["fields"].(map[string]interface{})["message"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logx.LevelWarn, logx.ParseLevel("warning"))
	assert.Equal(t, logx.LevelError, logx.ParseLevel(" error "))
	assert.Equal(t, logx.LevelDebug, logx.ParseLevel("trace"))
	assert.Equal(t, logx.LevelInfo, logx.ParseLevel("bogus"))
	assert.False(t, logx.LevelOff.Enabled(logx.LevelFatal))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_COLOR", "0")
	t.Setenv("LOG_TIME_FORMAT", "unixmilli")

	cfg := logx.LoadFromEnv()
	assert.Equal(t, logx.LevelDebug, cfg.Level)
	assert.Equal(t, logx.FormatJSON, cfg.Format)
	assert.False(t, cfg.EnableColors)
	assert.Equal(t, "unixmilli", cfg.TimeFormat)
}
