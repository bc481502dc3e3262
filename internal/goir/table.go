package goir

import (
	_ "embed"
	"encoding"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// Effect is the declared effect of a function on its resource arguments.
type Effect int

// Effects. The zero value is EffectUnknown.
const (
	EffectUnknown Effect = iota
	EffectPure
	EffectRead
	EffectWrite
)

func (e Effect) String() string {
	v, err := e.MarshalText()
	if err != nil {
		return fmt.Sprintf("effect-invalid(%d)", int(e))
	}
	return string(v)
}

var (
	_ encoding.TextUnmarshaler = (*Effect)(nil)
	_ encoding.TextMarshaler   = Effect(0)
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Effect) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unknown":
		*e = EffectUnknown
	case "pure":
		*e = EffectPure
	case "read":
		*e = EffectRead
	case "write":
		*e = EffectWrite
	default:
		return fmt.Errorf("unknown effect %q", b)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (e Effect) MarshalText() ([]byte, error) {
	switch e {
	case EffectUnknown:
		return []byte("unknown"), nil
	case EffectPure:
		return []byte("pure"), nil
	case EffectRead:
		return []byte("read"), nil
	case EffectWrite:
		return []byte("write"), nil
	default:
		return nil, fmt.Errorf("cannot marshal invalid Effect(%d)", int(e))
	}
}

// =============================================================================
// Table
// =============================================================================

// Table maps SSA function names to effects. A nil *Table is empty.
//
// File format:
//
//	functions:
//	  strings.ToUpper: pure
//	  (*bytes.Buffer).Len: read
//	  (*bytes.Buffer).WriteString: write
type Table struct {
	effects map[string]Effect
}

type tableFile struct {
	Functions map[string]string `yaml:"functions"`
}

// ParseTable decodes a YAML effect table.
func ParseTable(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode effect table: %w", err)
	}

	t := &Table{effects: make(map[string]Effect, len(file.Functions))}
	for _, name := range slices.Sorted(maps.Keys(file.Functions)) {
		var e Effect
		if err := e.UnmarshalText([]byte(file.Functions[name])); err != nil {
			return nil, fmt.Errorf("function %s: %w", name, err)
		}
		t.effects[name] = e
	}
	return t, nil
}

// LoadTable reads a YAML effect table from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read effect table: %w", err)
	}
	t, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

//go:embed defaults.yaml
var defaultsYAML []byte

var defaultTable = sync.OnceValue(func() *Table {
	t, err := ParseTable(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("goir: embedded effect table: %v", err))
	}
	return t
})

// DefaultTable returns the embedded table of standard library effects.
// The returned table is shared and must not be modified.
func DefaultTable() *Table { return defaultTable() }

// Lookup returns the effect recorded for name.
func (t *Table) Lookup(name string) (Effect, bool) {
	if t == nil {
		return EffectUnknown, false
	}
	e, ok := t.effects[name]
	return e, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.effects)
}

// Merge returns a new table holding the entries of t overridden by those
// of over.
func (t *Table) Merge(over *Table) *Table {
	out := &Table{effects: make(map[string]Effect, t.Len()+over.Len())}
	if t != nil {
		maps.Copy(out.effects, t.effects)
	}
	if over != nil {
		maps.Copy(out.effects, over.effects)
	}
	return out
}
