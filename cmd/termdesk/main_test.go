package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/termdesk/internal/config"
	"github.com/dshills/termdesk/internal/layout"
)

const shellShortcut = `
name = "Shell"
logo = "$"
command = "sh"

[window]
size = { width = 60, height = 15 }

[[taskbar.additional_commands]]
name = "Login shell"
command = "sh"
args = ["-l"]
`

// isolate keeps the user's config file and environment out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"LOG_LEVEL", "LOG_FILE", "SHORTCUT_DIR", "ARRANGEMENT", "TICK_INTERVAL"} {
		key := config.EnvPrefix + name
		if v, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, v) })
		}
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shell.toml"), []byte(shellShortcut), 0o644))

	out, err := execute(t, "check", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "config ok: tick 25ms, arrangement none")
	assert.Contains(t, out, "Shell\tsh \t60x15 (pane 58x13)")
	assert.Contains(t, out, "  + Login shell\tsh -l")
	assert.True(t, strings.HasSuffix(out, "1 shortcuts\n"), out)
}

func TestCheckBadShortcut(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.toml"), []byte("name = \n"), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "shell.toml"), []byte(shellShortcut), 0o644))

	out, err := execute(t, "check", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.toml")
	assert.Contains(t, out, "1 shortcuts")
}

func TestCheckConfigFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("tick_interval = \"50ms\"\ndefault_arrangement = \"grid\"\n"), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "shell.toml"), []byte(shellShortcut), 0o644))

	out, err := execute(t, "--config", path, "check", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "config ok: tick 50ms, arrangement grid")
	assert.Contains(t, out, "1 shortcuts")
}

func TestCheckConfigFileInWorkingDir(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("log_level = \"warn\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shell.toml"), []byte(shellShortcut), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, err := execute(t, "--config", "./config.toml", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "1 shortcuts")
}

func TestCheckMissingConfigFile(t *testing.T) {
	isolate(t)

	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "check", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckInvalidLogLevel(t *testing.T) {
	isolate(t)

	_, err := execute(t, "--log-level", "loud", "check", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestLoadConfigFlags(t *testing.T) {
	isolate(t)

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--tick", "10ms",
		"--arrangement", "vertical",
		"--log-level", "debug",
	}))

	var opts options
	opts.tick = 10 * time.Millisecond
	opts.arrangement = "vertical"
	opts.logLevel = "debug"

	cfg, err := loadConfig(cmd, opts, []string{"/srv/shortcuts"})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, cfg.TickInterval.Duration)
	assert.Equal(t, layout.Vertical, cfg.Arrangement())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/srv/shortcuts", cfg.ShortcutDir)
}

func TestLoadConfigUnchangedFlagsKeepFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("log_level = \"warn\"\n"), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := loadConfig(cmd, options{configPath: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, config.DefaultTickInterval, cfg.TickInterval.Duration)
}

func TestVersion(t *testing.T) {
	isolate(t)

	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "termdesk dev")
}

func TestRunReportsErrors(t *testing.T) {
	isolate(t)
	assert.Equal(t, 1, run([]string{"check", filepath.Join(t.TempDir(), "missing")}))
}
