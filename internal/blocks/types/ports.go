package types

import (
	"encoding/json"
	"fmt"
)

// PortKind identifies the kind of connection point a port represents.
type PortKind int

const (
	// StatementPrev is the top notch linking a statement to the one above it.
	StatementPrev PortKind = iota
	// StatementNext is the bottom notch continuing a statement chain.
	StatementNext
	// ValueInput is a typed socket accepting an expression.
	ValueInput
	// ValueOutput is the typed plug of an expression.
	ValueOutput
	// StatementInput owns a nested statement sequence (loop body, if branch).
	StatementInput
)

// String returns the string representation of the port kind
func (k PortKind) String() string {
	switch k {
	case StatementPrev:
		return "statement_prev"
	case StatementNext:
		return "statement_next"
	case ValueInput:
		return "value_input"
	case ValueOutput:
		return "value_output"
	case StatementInput:
		return "statement_input"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for PortKind
func (k PortKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// IsTopLevel reports whether the port belongs to the construct itself rather
// than to one of its input slots.
func (k PortKind) IsTopLevel() bool {
	return k == StatementPrev || k == StatementNext || k == ValueOutput
}

// Port is a single typed connection point.
type Port struct {
	Kind PortKind
	// Name is the slot name for ValueInput and StatementInput ports
	Name string
	// Check is the socket constraint for inputs and the declared type for
	// outputs. Statement links carry Any.
	Check Type
}

// String renders the port as kind[name]:type.
func (p Port) String() string {
	if p.Name == "" {
		return fmt.Sprintf("%s:%s", p.Kind, Name(p.Check))
	}
	return fmt.Sprintf("%s[%s]:%s", p.Kind, p.Name, Name(p.Check))
}

// Equals checks if two ports are identical.
func (p Port) Equals(other Port) bool {
	if p.Kind != other.Kind || p.Name != other.Name {
		return false
	}
	if p.Check == nil || other.Check == nil {
		return p.Check == nil && other.Check == nil
	}
	return p.Check.Equals(other.Check)
}
