package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/vimput/internal/config"
)

// newSessionCmd creates the session subcommand.
func newSessionCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "session FILE",
		Short: "Run put commands read from stdin",
		Long: `Read commands from stdin, one per line, and apply them to FILE.

  caret OFF [OFF...]                 place the carets
  reg NAME char|line|block TEXT      fill a register (TEXT may be quoted)
  visual char|line|block A B KEYS    put over the inclusive span A..B
  print | registers | marks | undo | stats
  p  P  gp  gP  ]p  [p  "a3p  <C-R>a  :put  :2put! a  :put =expr

The config file is watched and reloaded while the session runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := openApp(args[0], cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Handle signals for graceful shutdown
			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(signals)
			go func() {
				select {
				case <-signals:
					cancel()
				case <-ctx.Done():
				}
			}()

			log := a.Logger().WithComponent("config")
			go func() {
				err := config.Watch(ctx, resolvedConfigPath(), func(next *config.Config) {
					if debug {
						next.Logging.Level = "debug"
					}
					if err := a.ApplyConfig(next); err != nil {
						log.Warn("config rejected: %v", err)
					}
				}, func(err error) {
					log.Warn("config reload: %v", err)
				})
				if err != nil && ctx.Err() == nil {
					log.Warn("config watch stopped: %v", err)
				}
			}()

			if err := a.RunSession(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
				return fmt.Errorf("session: %w", err)
			}
			return emit(a, args[0], write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	return cmd
}
