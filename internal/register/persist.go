package register

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dshills/vimput/internal/input/mode"
)

// fileVersion is the current register file format.
const fileVersion = 1

// registersFile is the YAML structure of a saved register file.
type registersFile struct {
	Version   int           `yaml:"version"`
	Registers []storedEntry `yaml:"registers"`
}

type storedEntry struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Text string `yaml:"text"`
}

// persistent reports whether a register survives between sessions.
func persistent(name rune) bool {
	switch {
	case name == Unnamed, name == SmallDel:
		return true
	case name >= 'a' && name <= 'z':
		return true
	case name >= '0' && name <= '9':
		return true
	}
	return false
}

// Save writes the unnamed, small delete, numbered and named registers
// as YAML.
func (s *Store) Save(w io.Writer) error {
	file := registersFile{Version: fileVersion}
	for _, name := range s.Names() {
		if !persistent(name) {
			continue
		}
		e, ok := s.Get(name)
		if !ok {
			continue
		}
		file.Registers = append(file.Registers, storedEntry{
			Name: string(name),
			Type: e.Type.String(),
			Text: e.Text,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&file); err != nil {
		return fmt.Errorf("encode registers: %w", err)
	}
	return enc.Close()
}

// Load reads registers written by Save, replacing stored values.
func (s *Store) Load(r io.Reader) error {
	var file registersFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse registers: %w", err)
	}
	if file.Version > fileVersion {
		return fmt.Errorf("register file version %d is newer than supported %d", file.Version, fileVersion)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stored := range file.Registers {
		runes := []rune(stored.Name)
		if len(runes) != 1 || !persistent(runes[0]) {
			return fmt.Errorf("%w: %q", ErrInvalidRegister, stored.Name)
		}
		t, err := mode.ParseSelectionType(stored.Type)
		if err != nil {
			return fmt.Errorf("register %s: %w", stored.Name, err)
		}
		s.registers[runes[0]] = Entry{Name: runes[0], Text: stored.Text, Type: t}
	}
	return nil
}

// SaveFile writes registers to path, creating parent directories.
func (s *Store) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create register directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads registers from path. A missing file is not an error.
func (s *Store) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return s.Load(f)
}
