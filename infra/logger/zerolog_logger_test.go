package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestNewWithWriterFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("abstraction", &buf, "debug")
	l.Debugw("step", map[string]any{"node": "avpp", "step": 2})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abstraction", entry["component"])
	assert.Equal(t, "avpp", entry["node"])
	assert.Equal(t, float64(2), entry["step"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewWithWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("cli", &buf, "")
	l.Debugf("hidden")
	assert.Empty(t, buf.String())
	l.Warnf("shown %d", 1)
	assert.True(t, strings.Contains(buf.String(), "shown 1"))
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Infof("nothing")
}

func TestConfigure(t *testing.T) {
	defer Configure("info", "json")
	Configure("debug", "console")
	l, ok := NewZerologLogger("cli").(*ZerologLogger)
	require.True(t, ok)
	assert.Equal(t, "debug", l.log.GetLevel().String())

	// empty values keep the current settings
	Configure("", "")
	l = NewZerologLogger("cli").(*ZerologLogger)
	assert.Equal(t, "debug", l.log.GetLevel().String())
}
