// pkg/buildconf/mapping.go
package buildconf

import (
	"fmt"
	"strings"
)

// CMake cache entry types
const (
	TypeNone     = ""
	TypePath     = "PATH"
	TypeFilePath = "FILEPATH"
)

// Entry is one build-system definition
type Entry struct {
	Key   string // Cache variable name (e.g., ZLIB_INCLUDE_DIR)
	Type  string // Cache entry type, TypeNone if untyped
	Value string
}

// Name returns KEY:TYPE, or KEY for untyped entries
func (e Entry) Name() string {
	if e.Type == TypeNone {
		return e.Key
	}
	return e.Key + ":" + e.Type
}

// Arg renders the entry as a cmake command-line definition
func (e Entry) Arg() string {
	return "-D" + e.Name() + "=" + e.Value
}

// Mapping is an ordered set of definitions. Setting an existing key
// overwrites its value in place; keys are never removed.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

// NewMapping creates an empty mapping
func NewMapping() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Set adds or overwrites a definition
func (m *Mapping) Set(key, typ, value string) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	e := Entry{Key: key, Type: typ, Value: value}
	if i, ok := m.index[key]; ok {
		m.entries[i] = e
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, e)
}

// Get returns the value stored for key
func (m *Mapping) Get(key string) (string, bool) {
	e, ok := m.Entry(key)
	return e.Value, ok
}

// Entry returns the full entry stored for key
func (m *Mapping) Entry(key string) (Entry, bool) {
	i, ok := m.index[key]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Len returns the number of definitions
func (m *Mapping) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the definitions in insertion order
func (m *Mapping) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Keys returns the keys in insertion order
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// Args renders every definition as a -D argument
func (m *Mapping) Args() []string {
	args := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		args = append(args, e.Arg())
	}
	return args
}

// Describe renders the human-readable listing logged before configuring
func (m *Mapping) Describe() string {
	var b strings.Builder
	b.WriteString("CMake Definitions:\n")
	for _, e := range m.entries {
		fmt.Fprintf(&b, " - %s=%s\n", e.Name(), e.Value)
	}
	return b.String()
}
