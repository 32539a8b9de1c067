package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONLogger(t *testing.T) {
	// Setup a buffer to capture output
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Debug("Upstream request", map[string]interface{}{
		"source": "frankfurter",
	})

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)

	assert.NoError(t, err)
	assert.Equal(t, "DEBUG", logEntry["level"])
	assert.Equal(t, "Upstream request", logEntry["message"])
	assert.Equal(t, "frankfurter", logEntry["source"])
	assert.Contains(t, logEntry, "timestamp")
	assert.Contains(t, logEntry, "file")
	assert.Contains(t, logEntry, "line")
	assert.Contains(t, logEntry["file"], "logger_test.go")

	// Levels below the threshold are dropped
	buf.Reset()
	warnLogger := NewJSONLogger(&buf, WarnLevel)

	warnLogger.Debug("Should not appear", nil)
	warnLogger.Info("Should not appear", nil)
	assert.Equal(t, "", buf.String())

	warnLogger.Warn("Warning message", nil)
	assert.Contains(t, buf.String(), "Warning message")

	// WithField
	buf.Reset()
	fieldLogger := logger.WithField("component", "memo")
	fieldLogger.Info("With field", nil)

	logEntry = map[string]interface{}{}
	err = json.Unmarshal(buf.Bytes(), &logEntry)

	assert.NoError(t, err)
	assert.Equal(t, "memo", logEntry["component"])
	assert.Equal(t, "With field", logEntry["message"])

	// WithFields, with per-call fields overriding context fields
	buf.Reset()
	fieldsLogger := logger.WithFields(map[string]interface{}{
		"source":    "worldbank",
		"operation": "global_inflation",
	})
	fieldsLogger.Info("With fields", map[string]interface{}{"operation": "country_inflation"})

	logEntry = map[string]interface{}{}
	err = json.Unmarshal(buf.Bytes(), &logEntry)

	assert.NoError(t, err)
	assert.Equal(t, "worldbank", logEntry["source"])
	assert.Equal(t, "country_inflation", logEntry["operation"])
	assert.Equal(t, "With fields", logEntry["message"])

	// The parent logger is unchanged
	buf.Reset()
	logger.Info("Parent", nil)
	assert.NotContains(t, buf.String(), "worldbank")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel(" ERROR "))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
}

func TestSetDefaultLogger(t *testing.T) {
	originalLogger := GetDefaultLogger()
	defer SetDefaultLogger(originalLogger)

	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	GetDefaultLogger().Info("through default", nil)
	assert.Contains(t, buf.String(), "through default")

	// nil is ignored
	SetDefaultLogger(nil)
	assert.NotNil(t, GetDefaultLogger())
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Error("discarded", map[string]interface{}{"k": "v"})
	})
}
