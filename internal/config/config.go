package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/vimput/internal/config/loader"
	"github.com/dshills/vimput/internal/config/watcher"
	"github.com/dshills/vimput/internal/logging"
	"github.com/dshills/vimput/internal/register"
)

// EnvPrefix is the prefix of environment variables that override the file.
const EnvPrefix = "VIMPUT_"

// Clipboard option values, as in Vim's 'clipboard' option.
const (
	ClipboardUnnamed     = "unnamed"
	ClipboardUnnamedPlus = "unnamedplus"
	ClipboardIdeaPut     = "ideaput"
)

// Config is the complete vimput configuration.
type Config struct {
	Editor    EditorConfig    `toml:"editor"`
	Put       PutConfig       `toml:"put"`
	Registers RegistersConfig `toml:"registers"`
	Lua       LuaConfig       `toml:"lua"`
	Logging   LoggingConfig   `toml:"logging"`
}

// EditorConfig holds document settings.
type EditorConfig struct {
	TabWidth   int  `toml:"tab_width"`
	ExpandTab  bool `toml:"expandtab"`
	SingleLine bool `toml:"single_line"`
}

// PutConfig holds put behaviour settings.
type PutConfig struct {
	// Clipboard lists 'clipboard' flags: unnamed, unnamedplus, ideaput.
	Clipboard []string `toml:"clipboard"`
}

// RegistersConfig holds register persistence settings.
type RegistersConfig struct {
	// File is where registers are saved between runs. Empty disables it.
	File string `toml:"file"`
}

// LuaConfig holds the script that provides indent, rich paste and
// expression hooks.
type LuaConfig struct {
	Script string `toml:"script"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth: 4,
		},
		Logging: LoggingConfig{
			Level:     "warn",
			MaxSizeMB: 10,
		},
	}
}

// DefaultPath returns ~/.config/vimput/config.toml, or "" when the home
// directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vimput", "config.toml")
}

// ExpandPath replaces a leading "~/" with the home directory.
func ExpandPath(p string) string {
	rest, ok := strings.CutPrefix(p, "~/")
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}

// Load reads the configuration at path over the defaults and applies
// VIMPUT_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	return load(loader.NewTOMLLoader(path), loader.NewEnvLoader(EnvPrefix))
}

func load(file, env loader.Loader) (*Config, error) {
	raw := make(map[string]any)
	if file != nil {
		m, err := file.Load()
		if err != nil {
			return nil, err
		}
		raw = loader.DeepMerge(raw, m)
	}
	if env != nil {
		m, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
		raw = loader.DeepMerge(raw, m)
	}

	cfg := Default()
	if len(raw) > 0 {
		data, err := toml.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and option names.
func (c *Config) Validate() error {
	if c.Editor.TabWidth <= 0 {
		return &ValidationError{Path: "editor.tab_width", Message: "must be positive", Value: c.Editor.TabWidth}
	}
	for _, flag := range c.Put.Clipboard {
		switch flag {
		case ClipboardUnnamed, ClipboardUnnamedPlus, ClipboardIdeaPut:
		default:
			return &ValidationError{Path: "put.clipboard", Message: "unknown flag", Value: flag}
		}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Message: "must not be negative", Value: c.Logging.MaxSizeMB}
	}
	return nil
}

// DefaultRegister returns the register p and P use when none is given:
// '+' for unnamedplus, '*' for unnamed, '"' otherwise.
func (c *Config) DefaultRegister() rune {
	switch {
	case slices.Contains(c.Put.Clipboard, ClipboardUnnamedPlus):
		return register.Clipboard
	case slices.Contains(c.Put.Clipboard, ClipboardUnnamed):
		return register.Selection
	default:
		return register.Unnamed
	}
}

// RichPaste reports whether the ideaput flag is set.
func (c *Config) RichPaste() bool {
	return slices.Contains(c.Put.Clipboard, ClipboardIdeaPut)
}

// LogConfig converts the logging section for logging.New.
func (c *Config) LogConfig() logging.Config {
	return logging.Config{
		Level:     logging.ParseLogLevel(c.Logging.Level),
		File:      ExpandPath(c.Logging.File),
		MaxSizeMB: c.Logging.MaxSizeMB,
	}
}

// Watch calls fn with the reloaded configuration each time the file at
// path changes, until ctx is done. Reload failures go to onErr and keep
// the previous configuration in effect.
func Watch(ctx context.Context, path string, fn func(*Config), onErr func(error)) error {
	if onErr == nil {
		onErr = func(error) {}
	}
	w, err := watcher.New(path, watcher.WithErrorHandler(onErr))
	if err != nil {
		return err
	}
	return w.Run(ctx, func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove {
			return
		}
		cfg, err := Load(path)
		if err != nil {
			onErr(err)
			return
		}
		fn(cfg)
	})
}
