package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/vimput/internal/config"
	"github.com/dshills/vimput/internal/register"
)

// newRegistersCmd creates the registers subcommand.
func newRegistersCmd() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "registers",
		Short: "List the saved registers",
		Long:  `List the registers stored in the register file, as Vim's :registers does.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Registers.File == "" {
				return fmt.Errorf("no register file configured (registers.file)")
			}
			store := register.NewStore()
			if err := store.LoadFile(config.ExpandPath(cfg.Registers.File)); err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, store.List(width))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "truncate contents to this display width, 0 for none")
	return cmd
}
