// Package construct describes a single named language construct: its ordered
// input slots, its top-level connectors, its role and its display metadata.
// Definitions are plain values; Builder assembles and validates them.
package construct

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/fields"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/types"
)

// Role is the connection role of a construct.
type Role int

const (
	// RoleStatement chains vertically and produces no value
	RoleStatement Role = iota
	// RoleExpression produces a value and does not chain
	RoleExpression
	// RoleHybrid both chains and produces a value
	RoleHybrid
	// RoleTopLevel is a standalone root (task definitions, global
	// declarations) exposing no top-level connector
	RoleTopLevel
)

// String returns the string representation of the role
func (r Role) String() string {
	switch r {
	case RoleStatement:
		return "statement"
	case RoleExpression:
		return "expression"
	case RoleHybrid:
		return "hybrid"
	case RoleTopLevel:
		return "top_level"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Role
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// HasStatement reports whether the role includes statement chaining.
func (r Role) HasStatement() bool {
	return r == RoleStatement || r == RoleHybrid
}

// HasExpression reports whether the role includes a value output.
func (r Role) HasExpression() bool {
	return r == RoleExpression || r == RoleHybrid
}

// ParseRole converts a catalog role name into a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "statement":
		return RoleStatement, nil
	case "expression":
		return RoleExpression, nil
	case "hybrid":
		return RoleHybrid, nil
	case "top_level", "toplevel", "top-level":
		return RoleTopLevel, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// SlotKind discriminates input slots.
type SlotKind int

const (
	// SlotDummy holds fields only
	SlotDummy SlotKind = iota
	// SlotValue is a typed value socket preceded by fields
	SlotValue
	// SlotStatement owns a nested statement sequence preceded by fields
	SlotStatement
)

// String returns the string representation of the slot kind
func (k SlotKind) String() string {
	switch k {
	case SlotDummy:
		return "dummy"
	case SlotValue:
		return "value"
	case SlotStatement:
		return "statement"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for SlotKind
func (k SlotKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// ParseSlotKind converts a catalog slot kind into a SlotKind.
func ParseSlotKind(s string) (SlotKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dummy", "":
		return SlotDummy, nil
	case "value":
		return SlotValue, nil
	case "statement":
		return SlotStatement, nil
	}
	return 0, fmt.Errorf("unknown slot kind %q", s)
}

// InputSlot is one ordered input unit. Its fields are rendered before its
// port. Slot order is the construct's canonical argument order.
type InputSlot struct {
	Kind SlotKind `json:"kind"`
	// Name is the port name for value and statement slots
	Name string `json:"name,omitempty"`
	// Check constrains what may connect (value slots); nil means Any
	Check  types.Type     `json:"-"`
	Fields []fields.Field `json:"fields,omitempty"`
}

// Port returns the slot's port, or false for a dummy slot.
func (s InputSlot) Port() (types.Port, bool) {
	check := s.Check
	if check == nil {
		check = types.Any
	}
	switch s.Kind {
	case SlotValue:
		return types.Port{Kind: types.ValueInput, Name: s.Name, Check: check}, true
	case SlotStatement:
		return types.Port{Kind: types.StatementInput, Name: s.Name, Check: check}, true
	}
	return types.Port{}, false
}

// Clone returns a deep copy of the slot.
func (s InputSlot) Clone() InputSlot {
	if s.Fields != nil {
		fs := make([]fields.Field, len(s.Fields))
		for i, f := range s.Fields {
			fs[i] = f.Clone()
		}
		s.Fields = fs
	}
	return s
}

// Definition is a named language construct.
type Definition struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	// Slots are the ordered inputs
	Slots []InputSlot `json:"slots"`
	// Connectors are the top-level ports: StatementPrev, StatementNext and
	// ValueOutput
	Connectors []types.Port `json:"-"`
	// Color is a "#RRGGBB" string or a hue in degrees
	Color    string `json:"color"`
	HelpText string `json:"help,omitempty"`
	// Category groups constructs in the palette (motor, sensor, ...)
	Category string `json:"category,omitempty"`
	// InputsInline renders slots on a single row
	InputsInline bool `json:"inline,omitempty"`
}

// Ports returns the connectors followed by the slot ports, in order.
func (d Definition) Ports() []types.Port {
	ports := make([]types.Port, 0, len(d.Connectors)+len(d.Slots))
	ports = append(ports, d.Connectors...)
	for _, s := range d.Slots {
		if p, ok := s.Port(); ok {
			ports = append(ports, p)
		}
	}
	return ports
}

func (d Definition) connector(kind types.PortKind) (types.Port, bool) {
	for _, p := range d.Connectors {
		if p.Kind == kind {
			return p, true
		}
	}
	return types.Port{}, false
}

// Output returns the declared output type of an expression construct.
func (d Definition) Output() (types.Type, bool) {
	p, ok := d.connector(types.ValueOutput)
	if !ok {
		return nil, false
	}
	if p.Check == nil {
		return types.Any, true
	}
	return p.Check, true
}

// HasPrevious reports whether the construct exposes a StatementPrev link.
func (d Definition) HasPrevious() bool {
	_, ok := d.connector(types.StatementPrev)
	return ok
}

// HasNext reports whether the construct exposes a StatementNext link.
func (d Definition) HasNext() bool {
	_, ok := d.connector(types.StatementNext)
	return ok
}

// Slot returns the value or statement slot with the given name.
func (d Definition) Slot(name string) (InputSlot, bool) {
	for _, s := range d.Slots {
		if s.Kind != SlotDummy && s.Name == name {
			return s, true
		}
	}
	return InputSlot{}, false
}

// Field returns the editable field with the given name.
func (d Definition) Field(name string) (fields.Field, bool) {
	for _, s := range d.Slots {
		for _, f := range s.Fields {
			if f.Editable() && f.Name == name {
				return f, true
			}
		}
	}
	return fields.Field{}, false
}

// EditableFields returns every text and choice field in slot order.
func (d Definition) EditableFields() []fields.Field {
	var out []fields.Field
	for _, s := range d.Slots {
		for _, f := range s.Fields {
			if f.Editable() {
				out = append(out, f)
			}
		}
	}
	return out
}

// Clone returns a deep copy; the registry hands out clones so callers cannot
// mutate shared state.
func (d Definition) Clone() Definition {
	if d.Slots != nil {
		slots := make([]InputSlot, len(d.Slots))
		for i, s := range d.Slots {
			slots[i] = s.Clone()
		}
		d.Slots = slots
	}
	if d.Connectors != nil {
		conns := make([]types.Port, len(d.Connectors))
		copy(conns, d.Connectors)
		d.Connectors = conns
	}
	return d
}
