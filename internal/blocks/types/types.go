// Package types implements the port type system of the block language.
// Value sockets declare a constraint, value outputs declare a type, and
// IsCompatible decides whether an output may be plugged into a socket.
package types

import "strings"

// Built-in type names as they appear in catalogs.
const (
	nameAny     = "Any"
	nameNumber  = "Number"
	nameBoolean = "Boolean"
)

// Type is a value type carried by a port.
type Type interface {
	// String returns the catalog spelling of the type
	String() string

	// Equals checks if two types are exactly equal
	Equals(other Type) bool

	// IsAssignableFrom reports whether an output of type other may be
	// connected to a socket constrained by this type.
	IsAssignableFrom(other Type) bool
}

// AnyType is the unconstrained type. As a socket constraint it accepts every
// output; as an output type it only satisfies another Any constraint.
type AnyType struct{}

func (AnyType) String() string { return nameAny }

// Equals checks if other is also Any.
func (AnyType) Equals(other Type) bool {
	_, ok := other.(AnyType)
	return ok
}

// IsAssignableFrom always returns true for a non-nil output type.
func (AnyType) IsAssignableFrom(other Type) bool {
	return other != nil
}

// PrimitiveType is one of the literal-backed types (Number, Boolean).
type PrimitiveType struct {
	Name string
}

func (p PrimitiveType) String() string { return p.Name }

// Equals checks if two primitive types are exactly equal.
func (p PrimitiveType) Equals(other Type) bool {
	o, ok := other.(PrimitiveType)
	return ok && o.Name == p.Name
}

// IsAssignableFrom accepts only the identical primitive type. There is no
// implicit numeric/boolean coercion.
func (p PrimitiveType) IsAssignableFrom(other Type) bool {
	return p.Equals(other)
}

// NamedType is a custom type declared by a catalog, e.g. "Sensor".
type NamedType struct {
	Name string
}

func (n NamedType) String() string { return n.Name }

// Equals checks if two named types share a name.
func (n NamedType) Equals(other Type) bool {
	o, ok := other.(NamedType)
	return ok && o.Name == n.Name
}

// IsAssignableFrom accepts only the identical named type.
func (n NamedType) IsAssignableFrom(other Type) bool {
	return n.Equals(other)
}

var (
	// Any accepts every output.
	Any Type = AnyType{}
	// Number is the numeric literal type.
	Number Type = PrimitiveType{Name: nameNumber}
	// Boolean is the truth-value literal type.
	Boolean Type = PrimitiveType{Name: nameBoolean}
)

// Named returns the custom type with the given name. Names that spell a
// built-in type return the built-in.
func Named(name string) Type {
	return Parse(name)
}

// Parse converts a catalog type name into a Type. The empty string and
// "Any" (case-insensitive, as is "null") both mean Any.
func Parse(name string) Type {
	trimmed := strings.TrimSpace(name)
	switch strings.ToLower(trimmed) {
	case "", "any", "null":
		return Any
	case "number":
		return Number
	case "boolean":
		return Boolean
	}
	return NamedType{Name: trimmed}
}

// IsCompatible reports whether an output of type output may be connected to
// a socket with the given constraint.
func IsCompatible(output, constraint Type) bool {
	if output == nil || constraint == nil {
		return false
	}
	return constraint.IsAssignableFrom(output)
}

// IsLiteral reports whether values of t can be typed directly into a socket
// as a literal (numbers and booleans), without any producing construct.
func IsLiteral(t Type) bool {
	return t != nil && (t.Equals(Number) || t.Equals(Boolean))
}

// Name returns t.String(), or "Any" for a nil type.
func Name(t Type) string {
	if t == nil {
		return nameAny
	}
	return t.String()
}
