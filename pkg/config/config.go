// Package config loads the optional meshgen.toml settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chazu/meshgen/pkg/export"
	"github.com/pelletier/go-toml/v2"
)

// EnvVar names the environment variable holding an explicit config path.
const EnvVar = "MESHGEN_CONFIG"

// DefaultFile is looked up in the working directory when EnvVar is unset.
const DefaultFile = "meshgen.toml"

// Config holds the resolved settings.
type Config struct {
	LogLevel      slog.Level
	Format        export.Format
	ScriptTimeout time.Duration
	WatchDebounce time.Duration

	// Path is the file the settings came from, empty for defaults.
	Path string
}

// file mirrors the TOML layout. Durations are Go duration strings.
type file struct {
	LogLevel      string `toml:"log_level"`
	Format        string `toml:"format"`
	ScriptTimeout string `toml:"script_timeout"`
	WatchDebounce string `toml:"watch_debounce"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		LogLevel:      slog.LevelInfo,
		Format:        export.FormatOBJ,
		ScriptTimeout: 5 * time.Second,
		WatchDebounce: 200 * time.Millisecond,
	}
}

// Parse reads TOML settings from r on top of the defaults. Unknown keys
// are errors.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	var f file
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return cfg, fmt.Errorf("config: %s", strings.TrimSpace(sme.String()))
		}
		return cfg, fmt.Errorf("config: %w", err)
	}

	if f.LogLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(f.LogLevel)); err != nil {
			return cfg, fmt.Errorf("config: log_level: %w", err)
		}
	}
	if f.Format != "" {
		format, err := export.ParseFormat(f.Format)
		if err != nil {
			return cfg, fmt.Errorf("config: format: %w", err)
		}
		cfg.Format = format
	}
	if f.ScriptTimeout != "" {
		d, err := positiveDuration(f.ScriptTimeout)
		if err != nil {
			return cfg, fmt.Errorf("config: script_timeout: %w", err)
		}
		cfg.ScriptTimeout = d
	}
	if f.WatchDebounce != "" {
		d, err := positiveDuration(f.WatchDebounce)
		if err != nil {
			return cfg, fmt.Errorf("config: watch_debounce: %w", err)
		}
		cfg.WatchDebounce = d
	}

	return cfg, nil
}

func positiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

// Load reads the file named by EnvVar, or DefaultFile when the variable
// is unset. A missing DefaultFile yields the defaults; a missing file
// named explicitly is an error.
func Load() (Config, error) {
	path, explicit := os.LookupEnv(EnvVar)
	if !explicit || path == "" {
		path, explicit = DefaultFile, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("config: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Write stores cfg as TOML. Defaults are written out explicitly.
func Write(w io.Writer, cfg Config) error {
	f := file{
		LogLevel:      strings.ToLower(cfg.LogLevel.String()),
		Format:        string(cfg.Format),
		ScriptTimeout: cfg.ScriptTimeout.String(),
		WatchDebounce: cfg.WatchDebounce.String(),
	}
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
