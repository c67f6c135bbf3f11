// Package app wires a document, registers, the put engine and the
// dispatcher into one editing session driven by text commands.
package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/vimput/internal/config"
	"github.com/dshills/vimput/internal/dispatcher"
	"github.com/dshills/vimput/internal/engine"
	"github.com/dshills/vimput/internal/host"
	"github.com/dshills/vimput/internal/input/mode"
	"github.com/dshills/vimput/internal/logging"
	"github.com/dshills/vimput/internal/mark"
	"github.com/dshills/vimput/internal/plugin/lua"
	"github.com/dshills/vimput/internal/put"
	"github.com/dshills/vimput/internal/register"
)

// Application is the central coordinator for one editing session.
type Application struct {
	mu sync.RWMutex

	config *config.Config
	logger *logging.Logger

	doc        *engine.Document
	registers  *register.Store
	modes      *mode.Manager
	lua        *lua.State
	delegate   *host.LuaDelegate
	puts       *put.Engine
	dispatcher *dispatcher.Dispatcher

	opts Options
}

// Options configures the application.
type Options struct {
	// Config is the loaded configuration. Nil means config.Default().
	Config *config.Config

	// Logger receives diagnostics. Nil means a logger built from Config.
	Logger *logging.Logger

	// Clipboard backs the '+' and '*' registers. Nil means the system
	// clipboard.
	Clipboard register.ClipboardProvider

	// SkipRegisterFile disables loading and saving the register file.
	SkipRegisterFile bool
}

// New creates an application editing doc.
func New(doc *engine.Document, opts Options) (*Application, error) {
	if doc == nil {
		return nil, &InitError{Component: "document", Err: errors.New("nil document")}
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	app := &Application{
		config: opts.Config,
		doc:    doc,
		opts:   opts,
	}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Document returns the document being edited.
func (a *Application) Document() *engine.Document { return a.doc }

// Registers returns the register store.
func (a *Application) Registers() *register.Store { return a.registers }

// Modes returns the mode manager.
func (a *Application) Modes() *mode.Manager { return a.modes }

// Dispatcher returns the action dispatcher.
func (a *Application) Dispatcher() *dispatcher.Dispatcher { return a.dispatcher }

// PutEngine returns the current put engine.
func (a *Application) PutEngine() *put.Engine {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.puts
}

// Config returns the configuration in effect.
func (a *Application) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger { return a.logger }

// ApplyConfig switches to a reloaded configuration. Marks survive the
// switch; the Lua script is not reloaded. It waits for a put in progress
// to finish, so a put never sees half of a reload.
func (a *Application) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	release := a.doc.BeginWrite()
	defer release()
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.registers.SetDefaultRegister(cfg.DefaultRegister()); err != nil {
		return fmt.Errorf("default register: %w", err)
	}
	if a.opts.Logger == nil {
		a.logger.SetLevel(logging.ParseLogLevel(cfg.Logging.Level))
	}

	a.config = cfg
	a.puts = a.newPutEngine(a.puts.Marks())
	a.dispatcher.SetPutEngine(a.puts)
	a.logger.Info("configuration reloaded")
	return nil
}

// Close saves the registers when a register file is configured and
// releases the Lua state and log file.
func (a *Application) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	if path := a.registerFile(); path != "" {
		if err := a.registers.SaveFile(path); err != nil {
			errs = append(errs, fmt.Errorf("saving registers: %w", err))
		}
	}
	if a.lua != nil {
		if err := a.lua.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.logger != nil && a.opts.Logger == nil {
		if err := a.logger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Application) registerFile() string {
	if a.opts.SkipRegisterFile || a.config.Registers.File == "" {
		return ""
	}
	return config.ExpandPath(a.config.Registers.File)
}

// newPutEngine builds an engine from the current configuration.
func (a *Application) newPutEngine(marks *mark.Store) *put.Engine {
	indent := host.NewDocumentIndenter(a.doc,
		host.WithTabWidth(a.config.Editor.TabWidth),
		host.WithExpandTab(a.config.Editor.ExpandTab),
	)
	caps := host.Capabilities{Editor: a.doc, Indenter: indent}
	if a.delegate != nil {
		a.delegate.SetFallback(indent)
		caps.Indenter = a.delegate
		caps.RichPaster = a.delegate
	}
	return put.NewEngine(caps, a.registers,
		put.WithLogger(a.logger.WithComponent("put")),
		put.WithMarks(marks),
		put.WithRichPaste(a.config.RichPaste()),
	)
}
