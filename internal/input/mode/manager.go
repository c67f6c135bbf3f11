package mode

import (
	"fmt"
	"sync"
)

// State is a mode together with its visual sub-mode.
type State struct {
	Mode    Mode
	SubMode SubMode
}

// String returns the state name.
func (s State) String() string {
	if s.Mode == Visual {
		return s.SubMode.String()
	}
	return s.Mode.String()
}

// ChangeCallback is called when the mode changes.
type ChangeCallback func(from, to State)

// Manager tracks the current editor mode and notifies listeners.
type Manager struct {
	mu sync.RWMutex

	current  State
	previous State

	callbacks []ChangeCallback
}

// NewManager creates a manager in normal mode.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current state.
func (m *Manager) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Previous returns the state before the last switch.
func (m *Manager) Previous() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// IsVisual reports whether any visual mode is active.
func (m *Manager) IsVisual() bool {
	return m.Current().Mode == Visual
}

// SelectionType returns the selection type of the active visual mode.
func (m *Manager) SelectionType() SelectionType {
	return SelectionTypeFromSubMode(m.Current().SubMode)
}

// Switch changes to a non-visual mode.
func (m *Manager) Switch(mode Mode) error {
	if mode == Visual {
		return fmt.Errorf("visual mode needs a sub-mode")
	}
	m.set(State{Mode: mode})
	return nil
}

// EnterVisual switches to visual mode with the given selection type.
func (m *Manager) EnterVisual(t SelectionType) {
	m.set(State{Mode: Visual, SubMode: t.SubMode()})
}

// ExitVisual returns to normal mode if visual mode is active.
func (m *Manager) ExitVisual() {
	if m.IsVisual() {
		m.set(State{Mode: Normal})
	}
}

// OnChange registers a callback for mode changes.
func (m *Manager) OnChange(cb ChangeCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

func (m *Manager) set(to State) {
	m.mu.Lock()
	from := m.current
	if from == to {
		m.mu.Unlock()
		return
	}
	m.previous = from
	m.current = to
	callbacks := make([]ChangeCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	// Notify outside the lock
	for _, cb := range callbacks {
		cb(from, to)
	}
}
