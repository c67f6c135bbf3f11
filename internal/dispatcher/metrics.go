package dispatcher

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/dshills/vimput/internal/dispatcher/handler"
	"github.com/dshills/vimput/internal/input"
	"github.com/dshills/vimput/internal/put"
)

// Metrics counts puts per action and per register.
type Metrics struct {
	mu sync.RWMutex

	actions   map[string]*ActionStats
	registers map[rune]uint64

	dispatches uint64
	failures   uint64
	panics     uint64
	elapsed    time.Duration
}

// ActionStats holds the counters of one action.
type ActionStats struct {
	Name          string
	Count         uint64
	Errors        uint64
	EmptyRegister uint64
	Inserted      uint64 // ranges inserted, one per caret and block row
	Elapsed       time.Duration
	Slowest       time.Duration
	LastStatus    handler.ResultStatus
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{
		actions:   make(map[string]*ActionStats),
		registers: make(map[rune]uint64),
	}
}

// Record adds one dispatch of action that produced result.
func (m *Metrics) Record(action input.Action, d time.Duration, result handler.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dispatches++
	m.elapsed += d

	s := m.actions[action.Name]
	if s == nil {
		s = &ActionStats{Name: action.Name}
		m.actions[action.Name] = s
	}
	s.Count++
	s.Elapsed += d
	s.Slowest = max(s.Slowest, d)
	s.LastStatus = result.Status
	s.Inserted += uint64(max(result.GetDataInt("inserted"), 0))

	if result.IsError() {
		m.failures++
		s.Errors++
		if errors.Is(result.Error, put.ErrEmptyRegister) {
			s.EmptyRegister++
		}
	} else if action.Args.Register != 0 {
		m.registers[action.Args.Register]++
	}
}

// RecordPanic counts a recovered handler panic.
func (m *Metrics) RecordPanic(action input.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panics++
	if s := m.actions[action.Name]; s != nil {
		s.Errors++
	}
}

// TotalDispatches returns the number of recorded dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dispatches
}

// TotalErrors returns the number of failed dispatches.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failures
}

// TotalPanics returns the number of recovered panics.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.panics
}

// AverageDuration returns the mean dispatch time.
func (m *Metrics) AverageDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.dispatches == 0 {
		return 0
	}
	return m.elapsed / time.Duration(m.dispatches)
}

// Action returns a copy of the counters for name, or nil.
func (m *Metrics) Action(name string) *ActionStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.actions[name]
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// RegisterUses returns how many successful puts named register r.
func (m *Metrics) RegisterUses(r rune) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registers[r]
}

// Actions returns copies of all action counters sorted by name.
func (m *Metrics) Actions() []ActionStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ActionStats, 0, len(m.actions))
	for _, s := range m.actions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// WriteTo writes one line per action followed by a totals line.
func (m *Metrics) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, s := range m.Actions() {
		n, err := fmt.Fprintf(w, "%-24s count=%d errors=%d empty=%d inserted=%d avg=%s\n",
			s.Name, s.Count, s.Errors, s.EmptyRegister, s.Inserted, s.Average())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	n, err := fmt.Fprintf(w, "total count=%d errors=%d panics=%d\n",
		m.TotalDispatches(), m.TotalErrors(), m.TotalPanics())
	return total + int64(n), err
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = make(map[string]*ActionStats)
	m.registers = make(map[rune]uint64)
	m.dispatches, m.failures, m.panics = 0, 0, 0
	m.elapsed = 0
}

// Average returns the mean time of one dispatch of the action.
func (s ActionStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Count)
}

// ErrorRate returns the failed share of dispatches in percent.
func (s ActionStats) ErrorRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Errors) / float64(s.Count) * 100
}
