// Package main is the entry point for the vimput command.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/vimput/internal/app"
	"github.com/dshills/vimput/internal/config"
	"github.com/dshills/vimput/internal/engine"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// Global flags
var (
	configPath string
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vimput",
		Short: "Vim put and paste for text files",
		Long: `vimput applies Vim's put commands (p, P, gp, gP, ]p, [p, :put and
CTRL-R) to a file, using named registers that persist between runs.

  vimput put FILE --text foo            put "foo" after the caret
  vimput put FILE --select 4:8 -r a     replace bytes 4..8 with register a
  vimput session FILE < script          run a command script
  vimput registers                      list saved registers`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/vimput/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newPutCmd(),
		newSessionCmd(),
		newRegistersCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolvedConfigPath returns --config or the default location.
func resolvedConfigPath() string {
	if configPath != "" {
		return config.ExpandPath(configPath)
	}
	return config.DefaultPath()
}

// loadConfig loads the configuration, raising the log level for --debug.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if debug {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// openApp loads path into a document and starts an application on it.
// A missing file starts an empty document.
func openApp(path string, cfg *config.Config) (*app.Application, error) {
	docOpts := []engine.Option{
		engine.WithTabWidth(cfg.Editor.TabWidth),
		engine.WithSingleLine(cfg.Editor.SingleLine),
	}
	var doc *engine.Document
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		doc, err = engine.NewFromReader(f, docOpts...)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	case os.IsNotExist(err):
		doc = engine.New(docOpts...)
	default:
		return nil, err
	}
	return app.New(doc, app.Options{Config: cfg})
}

// writeDocument replaces path with the document text through a temporary
// file in the same directory.
func writeDocument(path string, doc *engine.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".vimput-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// emit writes the document to path when write is set, else to stdout.
func emit(a *app.Application, path string, write bool) error {
	if write {
		return writeDocument(path, a.Document())
	}
	_, err := a.Document().WriteTo(os.Stdout)
	return err
}
