// Package config loads the vimput configuration.
//
// Settings come from three places, later ones overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, by default ~/.config/vimput/config.toml
//  3. VIMPUT_* environment variables
//
// # Configuration File
//
//	[editor]
//	tab_width = 4
//	expandtab = true
//	single_line = false
//
//	[put]
//	clipboard = ["unnamedplus", "ideaput"]
//
//	[registers]
//	file = "~/.local/state/vimput/registers.yaml"
//
//	[lua]
//	script = "~/.config/vimput/put.lua"
//
//	[logging]
//	level = "debug"
//	file = "/tmp/vimput.log"
//
// Environment variables map onto sections: VIMPUT_EDITOR_TAB_WIDTH=8 sets
// editor.tab_width, VIMPUT_PUT_CLIPBOARD=unnamed,ideaput sets a list, and
// VIMPUT_LOG_LEVEL is a shorthand for logging.level.
//
// # Live Reload
//
// Watch reloads the file when it changes:
//
//	go config.Watch(ctx, path, func(cfg *config.Config) {
//	    registers.SetDefaultRegister(cfg.DefaultRegister())
//	}, nil)
//
// # Error Handling
//
//   - ParseError: the file is not valid TOML (with line and column)
//   - ValidationError: a setting has an unacceptable value; matches ErrInvalidConfig
package config
