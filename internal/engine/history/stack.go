package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/vimput/internal/engine/buffer"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Applier applies an edit to the document being tracked.
type Applier func(edit buffer.Edit) error

// entry is one undo step: every operation recorded inside a group.
type entry struct {
	name      string
	ops       []Operation
	timestamp time.Time
}

// History manages undo/redo state for a document.
// Operations recorded outside a group become single-operation entries.
type History struct {
	mu sync.Mutex

	undoStack []*entry
	redoStack []*entry

	// Grouping state
	depth int
	group *entry

	maxEntries int
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &History{maxEntries: maxEntries}
}

// BeginGroup starts collecting operations into one undo step.
// Groups nest; only the outermost End commits.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth == 0 {
		h.group = &entry{name: name}
	}
	h.depth++
}

// EndGroup closes the current group.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth == 0 {
		g := h.group
		h.group = nil
		if len(g.ops) > 0 {
			h.pushLocked(g)
		}
	}
}

// Record adds an applied operation.
func (h *History) Record(op Operation) {
	if op.IsNoop() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.group != nil {
		h.group.ops = append(h.group.ops, op)
		return
	}
	h.pushLocked(&entry{ops: []Operation{op}})
}

func (h *History) pushLocked(e *entry) {
	e.timestamp = time.Now()
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil
	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the most recent entry through apply.
func (h *History) Undo(apply Applier) error {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	for i := len(e.ops) - 1; i >= 0; i-- {
		if err := apply(e.ops[i].Invert().Edit()); err != nil {
			return err
		}
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, e)
	h.mu.Unlock()
	return nil
}

// Redo reapplies the most recently undone entry through apply.
func (h *History) Redo(apply Applier) error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	for _, op := range e.ops {
		if err := apply(op.Edit()); err != nil {
			return err
		}
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, e)
	h.mu.Unlock()
	return nil
}

// UndoCount returns the number of undoable entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redoable entries.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// LastName returns the name of the most recent undo entry.
func (h *History) LastName() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].name
}
