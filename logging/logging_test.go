package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/lotplan/logging"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"trace": zapcore.Level(-2),
		"DEBUG": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
		" warn": zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for name, want := range cases {
		got, err := logging.ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	l, err := logging.New("info", false)
	require.NoError(t, err)
	assert.True(t, l.Enabled())
	assert.False(t, l.V(logging.DEBUG).Enabled())

	l, err = logging.New("debug", true)
	require.NoError(t, err)
	assert.True(t, l.V(logging.DEBUG).Enabled())
	assert.False(t, l.V(logging.TRACE).Enabled())

	_, err = logging.New("nope", false)
	assert.Error(t, err)
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.NewWriter(&buf, "info")
	require.NoError(t, err)

	l.WithName("planning").Info("plan solved", "objective", 7242.5)
	l.V(logging.DEBUG).Info("hidden")

	out := buf.String()
	assert.Contains(t, out, "planning")
	assert.Contains(t, out, "plan solved")
	assert.Contains(t, out, "7242.5")
	assert.NotContains(t, out, "hidden")
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewTestLogger(&buf)
	l.V(logging.TRACE).Info("deep")
	assert.Contains(t, buf.String(), "deep")
}
