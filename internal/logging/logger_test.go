package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	l := New(level, NewWriterOutput(buf, format))
	l.now = func() time.Time { return fixedNow }
	return l, buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{" error ", LevelError},
		{"", LevelInfo},
		{"trace", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestTextOutput(t *testing.T) {
	l, buf := newTestLogger(LevelInfo, FormatText)

	l.Info("project created", F("id", 3), F("name", "Charger"))

	assert.Equal(t, "2025/01/15 10:30:00 [INFO] project created id=3 name=Charger\n", buf.String())
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newTestLogger(LevelWarn, FormatText)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)

	l.SetLevel(LevelDebug)
	l.Debugf("now %s", "visible")
	assert.Contains(t, buf.String(), "[DEBUG] now visible")
}

func TestJSONOutput(t *testing.T) {
	l, buf := newTestLogger(LevelInfo, FormatJSON)

	l.Infof("listening on %s", ":4000")

	var e Entry
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &e))
	assert.Equal(t, "INFO", e.Level)
	assert.Equal(t, "listening on :4000", e.Message)
	assert.True(t, e.Timestamp.Equal(fixedNow))
}

func TestWithSharesOutputsAndLevel(t *testing.T) {
	l, buf := newTestLogger(LevelInfo, FormatText)
	child := l.With(F("component", "api"))

	child.Info("request", F("status", 200))
	l.Info("plain")

	out := buf.String()
	assert.Contains(t, out, "request component=api status=200")
	assert.Contains(t, out, "[INFO] plain\n")

	l.SetLevel(LevelError)
	child.Info("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestContext(t *testing.T) {
	l, buf := newTestLogger(LevelInfo, FormatText)
	ctx := NewContext(context.Background(), l.With(F("request_id", "abc")))

	FromContext(ctx).Info("handled")

	assert.Contains(t, buf.String(), "request_id=abc")
	assert.Equal(t, Default(), FromContext(context.Background()))
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evdash.log")
	out, err := NewFileOutput(path, FormatText)
	require.NoError(t, err)

	l := New(LevelInfo, out)
	l.Info("first")
	l.Info("second")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestFileOutputBadPath(t *testing.T) {
	_, err := NewFileOutput(filepath.Join(t.TempDir(), "missing", "x.log"), FormatText)
	assert.Error(t, err)
}

func TestInitInstallsDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "app.log")
	l, err := Init(Options{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)
	assert.Same(t, l, Default())

	Default().Debug("booted")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"booted"`)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}
