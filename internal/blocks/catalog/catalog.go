// Package catalog is the read-only query surface over a block registry used
// by renderers, connection validators and code generators.
package catalog

import (
	"sync"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/fields"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/registry"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/types"
)

// Source is what a catalog reads from. *registry.Registry satisfies it.
type Source interface {
	Enumerate() []construct.Definition
	Lookup(name string) (construct.Definition, error)
	Instantiate(name string) (*registry.Block, error)
	Version() uint64
}

// Catalog answers queries against a Source.
type Catalog struct {
	src Source

	// Check results are cached per source version
	mu          sync.Mutex
	report      *Report
	reportBuilt uint64
}

// New creates a catalog over src.
func New(src Source) *Catalog {
	return &Catalog{src: src}
}

// PortSig describes one input port.
type PortSig struct {
	Name  string         `json:"name"`
	Kind  types.PortKind `json:"kind"`
	Check string         `json:"check"`
}

// FieldSig describes one editable field.
type FieldSig struct {
	Name    string          `json:"name"`
	Kind    fields.Kind     `json:"kind"`
	Default string          `json:"default"`
	Options []fields.Option `json:"options,omitempty"`
}

// Signature is the fully resolved shape of a construct: its definition with
// decorations applied to the display metadata.
type Signature struct {
	Name     string         `json:"name"`
	Role     construct.Role `json:"role"`
	Category string         `json:"category,omitempty"`
	Inputs   []PortSig      `json:"inputs"`
	Fields   []FieldSig     `json:"fields,omitempty"`
	// Output is the output type name; empty when the construct has none
	Output   string `json:"output,omitempty"`
	Previous bool   `json:"previous"`
	Next     bool   `json:"next"`
	Color    string `json:"color"`
	HelpText string `json:"help,omitempty"`
	Inline   bool   `json:"inline,omitempty"`
}

// HasOutput reports whether the construct produces a value.
func (s Signature) HasOutput() bool {
	return s.Output != ""
}

// Entry pairs a definition with its resolved signature.
type Entry struct {
	Definition construct.Definition
	Signature  Signature
}

// Signature resolves the named construct.
func (c *Catalog) Signature(name string) (Signature, error) {
	def, err := c.src.Lookup(name)
	if err != nil {
		return Signature{}, err
	}
	return c.signature(def)
}

func (c *Catalog) signature(def construct.Definition) (Signature, error) {
	probe, err := c.src.Instantiate(def.Name)
	if err != nil {
		return Signature{}, err
	}

	sig := Signature{
		Name:     def.Name,
		Role:     def.Role,
		Category: def.Category,
		Inputs:   []PortSig{},
		Previous: def.HasPrevious(),
		Next:     def.HasNext(),
		Color:    probe.Color,
		HelpText: probe.HelpText,
		Inline:   def.InputsInline,
	}
	if out, ok := def.Output(); ok {
		sig.Output = types.Name(out)
	}
	for _, s := range def.Slots {
		if p, ok := s.Port(); ok {
			sig.Inputs = append(sig.Inputs, PortSig{Name: p.Name, Kind: p.Kind, Check: types.Name(p.Check)})
		}
	}
	for _, f := range def.EditableFields() {
		value := f.Default()
		if v, ok := probe.Value(f.Name); ok {
			value = v
		}
		sig.Fields = append(sig.Fields, FieldSig{Name: f.Name, Kind: f.Kind, Default: value, Options: f.Options})
	}
	return sig, nil
}

// Enumerate returns every construct with its signature, in registry order.
// Constructs that cannot be instantiated are skipped.
func (c *Catalog) Enumerate() []Entry {
	defs := c.src.Enumerate()
	entries := make([]Entry, 0, len(defs))
	for _, def := range defs {
		sig, err := c.signature(def)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Definition: def, Signature: sig})
	}
	return entries
}

// IsCompatible reports whether a value of type output may connect to an
// input constrained by constraint.
func IsCompatible(output, constraint types.Type) bool {
	return types.IsCompatible(output, constraint)
}

// Group is a palette category and its construct names in registry order.
type Group struct {
	Category string   `json:"category"`
	Names    []string `json:"names"`
}

// ByCategory groups construct names by category, in order of first
// appearance. Uncategorised constructs are grouped under "".
func (c *Catalog) ByCategory() []Group {
	var groups []Group
	index := make(map[string]int)
	for _, def := range c.src.Enumerate() {
		i, ok := index[def.Category]
		if !ok {
			i = len(groups)
			index[def.Category] = i
			groups = append(groups, Group{Category: def.Category})
		}
		groups[i].Names = append(groups[i].Names, def.Name)
	}
	return groups
}
