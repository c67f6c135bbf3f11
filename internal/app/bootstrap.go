package app

import (
	"github.com/dshills/vimput/internal/config"
	"github.com/dshills/vimput/internal/dispatcher"
	"github.com/dshills/vimput/internal/dispatcher/handlers/put"
	"github.com/dshills/vimput/internal/host"
	"github.com/dshills/vimput/internal/input/mode"
	"github.com/dshills/vimput/internal/logging"
	"github.com/dshills/vimput/internal/mark"
	"github.com/dshills/vimput/internal/plugin/lua"
	"github.com/dshills/vimput/internal/register"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		initOrder: make([]string, 0, 5),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initLogging,
		b.initRegisters,
		b.initLua,
		b.initPutEngine,
		b.initDispatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	b.app.logger.Debug("bootstrap complete: %v", b.initOrder)
	return nil
}

func (b *bootstrapper) initLogging() error {
	if b.app.opts.Logger != nil {
		b.app.logger = b.app.opts.Logger
	} else {
		b.app.logger = logging.New(b.app.config.LogConfig())
	}
	b.initOrder = append(b.initOrder, "logging")
	return nil
}

func (b *bootstrapper) initRegisters() error {
	var clip register.ClipboardProvider = host.SystemClipboard{}
	if b.app.opts.Clipboard != nil {
		clip = b.app.opts.Clipboard
	}
	b.app.registers = register.NewStore(
		register.WithClipboard(clip),
		register.WithDefaultRegister(b.app.config.DefaultRegister()),
	)
	if path := b.app.registerFile(); path != "" {
		if err := b.app.registers.LoadFile(path); err != nil {
			return &InitError{Component: "registers", Err: err}
		}
	}
	b.initOrder = append(b.initOrder, "registers")
	return nil
}

func (b *bootstrapper) initLua() error {
	b.app.lua = lua.NewState()
	b.initOrder = append(b.initOrder, "lua")

	b.app.delegate = host.NewLuaDelegate(b.app.lua, b.app.doc, nil)
	if script := b.app.config.Lua.Script; script != "" {
		if err := b.app.lua.DoFile(config.ExpandPath(script)); err != nil {
			return &InitError{Component: "lua", Err: err}
		}
		b.app.logger.Info("loaded lua script %s", script)
	}
	return nil
}

func (b *bootstrapper) initPutEngine() error {
	b.app.modes = mode.NewManager()
	b.app.puts = b.app.newPutEngine(mark.NewStore())
	b.initOrder = append(b.initOrder, "put")
	return nil
}

func (b *bootstrapper) initDispatcher() error {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	d.SetPutEngine(b.app.puts)
	d.SetRegisters(b.app.registers)
	d.SetModeManager(b.app.modes)
	d.SetEvaluator(b.app.delegate)
	d.SetLogger(b.app.logger.WithComponent("dispatcher"))
	d.RegisterNamespace("put", put.NewHandler())
	hook := dispatcher.NewLoggingHook(b.app.logger.WithComponent("dispatch"))
	d.RegisterPreHook(hook)
	d.RegisterPostHook(hook)

	b.app.dispatcher = d
	b.initOrder = append(b.initOrder, "dispatcher")
	return nil
}

// cleanup releases components in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "lua":
			if b.app.lua != nil {
				_ = b.app.lua.Close()
				b.app.lua = nil
				b.app.delegate = nil
			}
		case "logging":
			if b.app.opts.Logger == nil && b.app.logger != nil {
				_ = b.app.logger.Close()
			}
		}
	}
}
