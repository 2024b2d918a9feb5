package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chazu/meshgen/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
log_level = "debug"
format = "stl"
script_timeout = "2s"
watch_debounce = "50ms"
`))
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, export.FormatSTL, cfg.Format)
	assert.Equal(t, 2*time.Second, cfg.ScriptTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.WatchDebounce)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`format = "obj"`))
	require.NoError(t, err)
	want := Default()
	assert.Equal(t, want, cfg)

	cfg, err = Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, want, cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"unknown key", `colour = "red"`, "colour"},
		{"bad level", `log_level = "loud"`, "log_level"},
		{"bad format", `format = "ply"`, "format"},
		{"bad duration", `script_timeout = "soon"`, "script_timeout"},
		{"negative duration", `watch_debounce = "-1s"`, "must be positive"},
		{"malformed", `log_level = `, "config:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`format = "stl"`), 0o644))

	t.Setenv(EnvVar, path)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, export.FormatSTL, cfg.Format)
	assert.Equal(t, path, cfg.Path)

	t.Setenv(EnvVar, filepath.Join(dir, "missing.toml"))
	_, err = Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDefaultFile(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(DefaultFile, []byte(`log_level = "warn"`), 0o644))
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, DefaultFile, cfg.Path)
}

func TestWriteRoundTrip(t *testing.T) {
	want := Config{
		LogLevel:      slog.LevelError,
		Format:        export.FormatSTL,
		ScriptTimeout: 1500 * time.Millisecond,
		WatchDebounce: time.Second,
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, want))

	got, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
