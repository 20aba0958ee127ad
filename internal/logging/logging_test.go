package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	clog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want clog.Level
	}{
		{"debug", clog.DebugLevel},
		{"INFO", clog.InfoLevel},
		{" warn ", clog.WarnLevel},
		{"warning", clog.WarnLevel},
		{"error", clog.ErrorLevel},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Config{Level: "debug", Output: &buf, Prefix: "td"})
	require.NoError(t, err)
	defer closer.Close()

	Component(logger, "pane").Debug("tick", "panes", 3)

	out := buf.String()
	assert.Contains(t, out, "td")
	assert.Contains(t, out, "tick")
	assert.Contains(t, out, "component=pane")
	assert.Contains(t, out, "panes=3")
}

func TestNewFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Level: "warn", Output: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "termdesk.log")
	logger, closer, err := New(Config{Level: "info", File: path})
	require.NoError(t, err)

	logger.Info("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "started")
}

func TestNewInvalidLevel(t *testing.T) {
	_, _, err := New(Config{Level: "nope"})
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	t.Cleanup(func() { SetDefault(nil) })

	require.NotNil(t, Default())

	var buf bytes.Buffer
	logger, _, err := New(Config{Level: "info", Output: &buf})
	require.NoError(t, err)
	SetDefault(logger)

	Default().Info("hello")
	assert.Contains(t, buf.String(), "hello")
}
