package shortcut

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const editorTOML = `
name = "Editor"
logo = "E"
command = "vim"
args = ["<FILE_PATH>"]

[window]
size = { width = 80, height = 20 }
resizable = false
fixed_position = true

[terminal]
padding = [2, 1]

[[taskbar.additional_commands]]
name = "Scratch"
command = "vim"
args = ["-n"]
`

const shellYAML = `
name: Shell
command: sh
args: ["-l"]
window:
  close_button: false
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseTOML(t *testing.T) {
	s, err := Parse("editor.toml", []byte(editorTOML))
	require.NoError(t, err)

	assert.Equal(t, "Editor", s.Name)
	assert.Equal(t, "E", s.Logo)
	assert.Equal(t, "vim", s.Command)
	assert.Equal(t, []string{"<FILE_PATH>"}, s.Args)
	assert.Equal(t, Size{Width: 80, Height: 20}, s.Window.Size)
	assert.False(t, s.Window.Resizable)
	assert.True(t, s.Window.CloseButton)
	assert.True(t, s.Window.FixedPosition)
	assert.Equal(t, Terminal{PaddingX: 2, PaddingY: 1}, s.Terminal)
	require.Len(t, s.AdditionalCommands, 1)
	assert.Equal(t, Command{Name: "Scratch", Command: "vim", Args: []string{"-n"}}, s.AdditionalCommands[0])
	assert.Equal(t, "editor.toml", s.Source)
}

func TestParseYAML(t *testing.T) {
	s, err := Parse("shell.yml", []byte(shellYAML))
	require.NoError(t, err)

	assert.Equal(t, "Shell", s.Name)
	assert.Equal(t, []string{"-l"}, s.Args)
	assert.Equal(t, Size{Width: DefaultWidth, Height: DefaultHeight}, s.Window.Size)
	assert.True(t, s.Window.Resizable)
	assert.False(t, s.Window.CloseButton)
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse("top.toml", []byte(`name = "Top"
command = "top"`))
	require.NoError(t, err)

	assert.Equal(t, Size{Width: DefaultWidth, Height: DefaultHeight}, s.Window.Size)
	assert.True(t, s.Window.Resizable)
	assert.True(t, s.Window.CloseButton)
	assert.False(t, s.Window.FixedPosition)
	assert.Equal(t, Terminal{}, s.Terminal)
	assert.Empty(t, s.AdditionalCommands)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
	}{
		{"unknown toml field", "a.toml", "name = \"a\"\ncommand = \"sh\"\ncolour = 1\n"},
		{"unknown yaml field", "a.yaml", "name: a\ncommand: sh\ncolour: 1\n"},
		{"bad padding", "a.toml", "name = \"a\"\ncommand = \"sh\"\n[terminal]\npadding = [1]\n"},
		{"missing command", "a.toml", "name = \"a\"\n"},
		{"unsupported", "a.json", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.path, []byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("broken.toml", []byte("name = \"a\"\ncommand = = \"sh\"\n"))
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "broken.toml", perr.Path)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Error(), "line 2")
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.toml"))
	assert.True(t, Supported("a.YAML"))
	assert.True(t, Supported("dir/a.yml"))
	assert.False(t, Supported("a.json"))
	assert.False(t, Supported("README"))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b-editor.toml", editorTOML)
	writeFile(t, dir, "a-shell.yaml", shellYAML)
	writeFile(t, dir, "nested/top.toml", "name = \"Top\"\ncommand = \"top\"\n")
	writeFile(t, dir, "notes.txt", "ignored")
	// Same name as the earlier editor file; the first one wins.
	writeFile(t, dir, "c-editor.toml", "name = \"Editor\"\ncommand = \"nano\"\n")

	shortcuts, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, shortcuts, 3)

	assert.Equal(t, "Shell", shortcuts[0].Name)
	assert.Equal(t, "Editor", shortcuts[1].Name)
	assert.Equal(t, "vim", shortcuts[1].Command)
	assert.Equal(t, "Top", shortcuts[2].Name)
}

func TestLoadDirSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.toml", "name = \"a\"\ncommand = \"sh\"\n")
	writeFile(t, dir, "bad.toml", "name = ")
	writeFile(t, dir, "nameless.yaml", "command: sh\n")

	shortcuts, err := LoadDir(dir)
	require.Error(t, err)
	require.Len(t, shortcuts, 1)
	assert.Equal(t, "a", shortcuts[0].Name)

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	assert.ErrorIs(t, err, ErrInvalidShortcut)
	assert.Contains(t, err.Error(), "bad.toml")
	assert.Contains(t, err.Error(), "nameless.yaml")
}

func TestLoadDirForeignTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shell.yaml", shellYAML)
	writeFile(t, dir, "config.toml", "tick_interval = \"50ms\"\n")

	shortcuts, err := LoadDir(dir)
	require.Error(t, err)
	require.Len(t, shortcuts, 1)
	assert.Equal(t, "Shell", shortcuts[0].Name)
}

func TestLoadDirExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shell.yaml", shellYAML)
	config := writeFile(t, dir, "config.toml", "tick_interval = \"50ms\"\n")

	shortcuts, err := LoadDir(dir, Exclude(config))
	require.NoError(t, err)
	require.Len(t, shortcuts, 1)

	// Relative spellings of the same file are excluded too.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	shortcuts, err = LoadDir(".", Exclude("config.toml"))
	require.NoError(t, err)
	assert.Len(t, shortcuts, 1)
}

func TestLoadDirEmpty(t *testing.T) {
	shortcuts, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, shortcuts)
	assert.Empty(t, shortcuts)
}

func TestLoadDirMissing(t *testing.T) {
	shortcuts, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, shortcuts)
}
