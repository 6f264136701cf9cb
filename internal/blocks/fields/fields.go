// Package fields defines the literal fields that parametrize a construct:
// static labels, free-text identifiers and enumerated choice sets.
package fields

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind discriminates the field variants.
type Kind int

const (
	// KindLabel is static label text
	KindLabel Kind = iota
	// KindText is a free-form identifier or literal
	KindText
	// KindChoice is a dropdown of (label, token) options
	KindChoice
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindLabel:
		return "label"
	case KindText:
		return "text"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Kind
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Option is one entry of a choice field. Token is the stable identifier the
// code generator emits; Label is presentation only and may be localized.
type Option struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// Field is a literal field placed on an input slot.
type Field struct {
	Kind Kind `json:"kind"`
	// Name is the field key read by the code generator; labels have none
	Name string `json:"name,omitempty"`
	// Text is the label text for KindLabel and the default for KindText
	Text string `json:"text,omitempty"`
	// Options are the ordered choices of a KindChoice field
	Options []Option `json:"options,omitempty"`
	// DefaultIndex selects the initial option of a KindChoice field
	DefaultIndex int `json:"default_index,omitempty"`
}

// Label creates a static label.
func Label(text string) Field {
	return Field{Kind: KindLabel, Text: text}
}

// Text creates a free-text field with a default value.
func Text(name, defaultValue string) Field {
	return Field{Kind: KindText, Name: name, Text: defaultValue}
}

// Choice creates a choice field. Options are copied.
func Choice(name string, options []Option, defaultIndex int) Field {
	opts := make([]Option, len(options))
	copy(opts, options)
	return Field{Kind: KindChoice, Name: name, Options: opts, DefaultIndex: defaultIndex}
}

// Opt is shorthand for an Option literal.
func Opt(label, token string) Option {
	return Option{Label: label, Token: token}
}

// Editable reports whether the field holds a value (text or choice).
func (f Field) Editable() bool {
	return f.Kind == KindText || f.Kind == KindChoice
}

// Default returns the initial value: the default option's token for a choice,
// the default text for a text field, and "" for a label.
func (f Field) Default() string {
	switch f.Kind {
	case KindText:
		return f.Text
	case KindChoice:
		if f.DefaultIndex >= 0 && f.DefaultIndex < len(f.Options) {
			return f.Options[f.DefaultIndex].Token
		}
	}
	return ""
}

// LabelFor returns the display label of the option with the given token.
func (f Field) LabelFor(token string) (string, bool) {
	for _, o := range f.Options {
		if o.Token == token {
			return o.Label, true
		}
	}
	return "", false
}

// TokenFor returns the token of the option with the given display label.
func (f Field) TokenFor(label string) (string, bool) {
	for _, o := range f.Options {
		if o.Label == label {
			return o.Token, true
		}
	}
	return "", false
}

// Accepts reports whether value is legal for the field. Any text is legal for
// a text field; a choice accepts only one of its tokens.
func (f Field) Accepts(value string) bool {
	switch f.Kind {
	case KindText:
		return true
	case KindChoice:
		_, ok := f.LabelFor(value)
		return ok
	}
	return false
}

// Validate returns a description of every problem with the field.
func (f Field) Validate() []string {
	var problems []string
	switch f.Kind {
	case KindLabel:
		// labels carry no constraints
	case KindText:
		if strings.TrimSpace(f.Name) == "" {
			problems = append(problems, "text field is missing a name")
		}
	case KindChoice:
		label := f.Name
		if strings.TrimSpace(label) == "" {
			problems = append(problems, "choice field is missing a name")
			label = "<unnamed>"
		}
		if len(f.Options) == 0 {
			problems = append(problems, fmt.Sprintf("choice field %s must have at least one option", label))
			break
		}
		if f.DefaultIndex < 0 || f.DefaultIndex >= len(f.Options) {
			problems = append(problems, fmt.Sprintf("choice field %s default index %d out of range [0,%d)",
				label, f.DefaultIndex, len(f.Options)))
		}
		seen := make(map[string]bool, len(f.Options))
		for i, o := range f.Options {
			if o.Token == "" {
				problems = append(problems, fmt.Sprintf("choice field %s option %d has an empty token", label, i))
				continue
			}
			if seen[o.Token] {
				problems = append(problems, fmt.Sprintf("choice field %s repeats token %q", label, o.Token))
			}
			seen[o.Token] = true
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown field kind %d", int(f.Kind)))
	}
	return problems
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	if f.Options != nil {
		opts := make([]Option, len(f.Options))
		copy(opts, f.Options)
		f.Options = opts
	}
	return f
}
