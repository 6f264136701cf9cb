// Package errors provides structured errors for the block schema registry.
// Every error carries a stable code and category so callers can branch with
// errors.Is against the exported sentinels, and tooling can print or encode
// the full detail.
package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code
type ErrorCode string

// ErrorCategory represents the category of a registry error
type ErrorCategory string

const (
	// CategoryRegistry covers lookups and registry lifecycle (REG100-199)
	CategoryRegistry ErrorCategory = "registry"
	// CategoryDefinition covers malformed construct shapes (DEF200-299)
	CategoryDefinition ErrorCategory = "definition"
	// CategoryOverride covers decoration bookkeeping (OVR300-399)
	CategoryOverride ErrorCategory = "override"
	// CategoryConnection covers port connection checks (CON400-499)
	CategoryConnection ErrorCategory = "connection"
	// CategoryCatalog covers whole-catalog consistency (CAT500-599)
	CategoryCatalog ErrorCategory = "catalog"
	// CategoryLoader covers catalog documents (LDR600-699)
	CategoryLoader ErrorCategory = "loader"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates a failed operation
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a catalog problem that does not block reads
	SeverityWarning ErrorSeverity = "warning"
	// SeverityInfo is used for no-op signals such as duplicate mutations
	SeverityInfo ErrorSeverity = "info"
)

// Error codes
const (
	CodeNotFound          ErrorCode = "REG100"
	CodeFrozen            ErrorCode = "REG101"
	CodeInvalidDefinition ErrorCode = "DEF200"
	CodeDuplicateMutation ErrorCode = "OVR300"
	CodeIncompatible      ErrorCode = "CON400"
	CodeUnsatisfiable     ErrorCode = "CAT500"
	CodeRoleMismatch      ErrorCode = "CAT501"
	CodeInvalidDocument   ErrorCode = "LDR600"
)

// BlockError is a structured error raised by the registry packages.
type BlockError struct {
	// Code is the unique error code (e.g., "REG100")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Construct names the construct the error is about, if any
	Construct string `json:"construct,omitempty"`
	// Problems lists individual findings (build-time validation)
	Problems []string `json:"problems,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
}

// Error implements the error interface
func (e *BlockError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if len(e.Problems) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Problems, "; "))
	}
	return b.String()
}

// Is matches any BlockError with the same code, so errors.Is(err, ErrNotFound)
// works for every not-found error regardless of message.
func (e *BlockError) Is(target error) bool {
	t, ok := target.(*BlockError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithSuggestion sets a suggestion for fixing the error
func (e *BlockError) WithSuggestion(suggestion string) *BlockError {
	e.Suggestion = suggestion
	return e
}

// ToJSON returns the error as an indented JSON string
func (e *BlockError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Sentinels for errors.Is. They carry only a code.
var (
	ErrNotFound          = &BlockError{Code: CodeNotFound}
	ErrFrozen            = &BlockError{Code: CodeFrozen}
	ErrInvalidDefinition = &BlockError{Code: CodeInvalidDefinition}
	ErrDuplicateMutation = &BlockError{Code: CodeDuplicateMutation}
	ErrIncompatible      = &BlockError{Code: CodeIncompatible}
	ErrInvalidDocument   = &BlockError{Code: CodeInvalidDocument}
)

func newError(code ErrorCode, errType string, category ErrorCategory, severity ErrorSeverity, message string) *BlockError {
	return &BlockError{
		Code:     code,
		Type:     errType,
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// NewNotFound creates a REG100 error
func NewNotFound(name string) *BlockError {
	e := newError(CodeNotFound, "not_found", CategoryRegistry, SeverityError,
		fmt.Sprintf("construct %q is not registered", name))
	e.Construct = name
	return e
}

// NewSlotNotFound creates a REG100 error for a missing input slot
func NewSlotNotFound(name, slot string) *BlockError {
	e := newError(CodeNotFound, "slot_not_found", CategoryRegistry, SeverityError,
		fmt.Sprintf("construct %q has no input %q", name, slot))
	e.Construct = name
	return e
}

// NewFrozen creates a REG101 error
func NewFrozen(op, name string) *BlockError {
	e := newError(CodeFrozen, "registry_frozen", CategoryRegistry, SeverityError,
		fmt.Sprintf("cannot %s %q: registry loading phase has ended", op, name))
	e.Construct = name
	return e.WithSuggestion("Perform all registrations and decorations before Freeze")
}

// NewInvalidDefinition creates a DEF200 error listing every problem found
func NewInvalidDefinition(name string, problems ...string) *BlockError {
	label := name
	if label == "" {
		label = "<unnamed>"
	}
	e := newError(CodeInvalidDefinition, "invalid_definition", CategoryDefinition, SeverityError,
		fmt.Sprintf("invalid definition for construct %q", label))
	e.Construct = name
	e.Problems = problems
	return e
}

// NewDuplicateMutation creates an OVR300 signal
func NewDuplicateMutation(name, tag string) *BlockError {
	e := newError(CodeDuplicateMutation, "duplicate_mutation", CategoryOverride, SeverityInfo,
		fmt.Sprintf("mutation %q is already composed on construct %q", tag, name))
	e.Construct = name
	return e
}

// NewIncompatible creates a CON400 error
func NewIncompatible(from, to, reason string) *BlockError {
	e := newError(CodeIncompatible, "incompatible_connection", CategoryConnection, SeverityError,
		fmt.Sprintf("cannot connect %q to %q: %s", from, to, reason))
	e.Construct = to
	return e
}

// NewUnsatisfiable creates a CAT500 finding
func NewUnsatisfiable(name, slot, constraint string) *BlockError {
	e := newError(CodeUnsatisfiable, "unsatisfiable_input", CategoryCatalog, SeverityWarning,
		fmt.Sprintf("input %q of %q requires %s but no registered construct produces it", slot, name, constraint))
	e.Construct = name
	return e.WithSuggestion("Register a construct with a matching output type or relax the input check")
}

// NewRoleMismatch creates a CAT501 finding
func NewRoleMismatch(name string, problems ...string) *BlockError {
	e := newError(CodeRoleMismatch, "role_mismatch", CategoryCatalog, SeverityError,
		fmt.Sprintf("construct %q ports do not match its role", name))
	e.Construct = name
	e.Problems = problems
	return e
}

// NewInvalidDocument creates an LDR600 error
func NewInvalidDocument(source string, problems ...string) *BlockError {
	e := newError(CodeInvalidDocument, "invalid_document", CategoryLoader, SeverityError,
		fmt.Sprintf("invalid catalog document %s", source))
	e.Problems = problems
	return e
}
