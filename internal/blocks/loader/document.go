// Package loader reads declarative YAML catalog documents and applies them to
// a block registry during its loading phase.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/fields"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/types"
)

// SupportedVersions is the range of document versions this loader reads.
const SupportedVersions = "^1"

var supported = mustConstraint(SupportedVersions)

func mustConstraint(c string) *semver.Constraints {
	cs, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return cs
}

// Document is one parsed catalog document.
type Document struct {
	Version     string       `yaml:"version"`
	Locale      string       `yaml:"locale"`
	Constructs  []Construct  `yaml:"constructs"`
	Decorations []Decoration `yaml:"decorations"`

	source  string
	version *semver.Version
	tag     language.Tag
}

// Construct is the document form of a construct definition.
type Construct struct {
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Category string `yaml:"category"`
	Color    string `yaml:"color"`
	Help     string `yaml:"help"`
	Previous bool   `yaml:"previous"`
	Next     bool   `yaml:"next"`
	Output   string `yaml:"output"`
	Inline   bool   `yaml:"inline"`
	Slots    []Slot `yaml:"slots"`
}

// Slot is the document form of an input slot.
type Slot struct {
	Kind   string  `yaml:"kind"`
	Name   string  `yaml:"name"`
	Check  string  `yaml:"check"`
	Fields []Field `yaml:"fields"`
}

// Field is the document form of a field. Exactly one of Label, Text or
// Choice is set.
type Field struct {
	Label   *string  `yaml:"label"`
	Text    *string  `yaml:"text"`
	Choice  *string  `yaml:"choice"`
	Default Scalar   `yaml:"default"`
	Options []Option `yaml:"options"`
}

// Scalar is a YAML scalar that remembers whether it was written as an
// integer. A choice default written as a plain integer may be an option
// index; a quoted one is always a token.
type Scalar struct {
	Value string
	Int   bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: default must be a scalar", node.Line)
	}
	s.Value = node.Value
	s.Int = node.ShortTag() == "!!int"
	return nil
}

// Option is a choice option.
type Option struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Decoration lists the mutations to compose onto an existing construct.
type Decoration struct {
	Target   string            `yaml:"target"`
	Color    string            `yaml:"color"`
	Help     string            `yaml:"help"`
	Labels   map[string]string `yaml:"labels"`
	Defaults map[string]string `yaml:"defaults"`
}

// Source returns where the document was read from.
func (d *Document) Source() string {
	return d.source
}

// SemVer returns the parsed document version.
func (d *Document) SemVer() *semver.Version {
	return d.version
}

// Tag returns the document's label language.
func (d *Document) Tag() language.Tag {
	return d.tag
}

// Parse validates data against the catalog schema and decodes it. Schema
// violations are reported as a *ValidationError; version and locale problems
// as an InvalidDocument error.
func Parse(data []byte, source string) (*Document, error) {
	return parse(data, source, language.Japanese)
}

func parse(data []byte, source string, locale language.Tag) (*Document, error) {
	if err := validate(data, source, locale); err != nil {
		return nil, err
	}

	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: decoding catalog: %w", source, err)
	}
	doc.source = source

	v, err := semver.NewVersion(doc.Version)
	if err != nil {
		return nil, blockerrors.NewInvalidDocument(source, fmt.Sprintf("version %q: %v", doc.Version, err))
	}
	if !supported.Check(v) {
		return nil, blockerrors.NewInvalidDocument(source,
			fmt.Sprintf("version %s is outside the supported range %s", v, SupportedVersions)).
			WithSuggestion("Convert the document to a 1.x catalog")
	}
	doc.version = v

	doc.tag = language.Japanese
	if doc.Locale != "" {
		tag, err := language.Parse(doc.Locale)
		if err != nil {
			return nil, blockerrors.NewInvalidDocument(source, fmt.Sprintf("locale %q: %v", doc.Locale, err))
		}
		doc.tag = tag
	}
	return &doc, nil
}

// ParseFile reads and parses a catalog file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data, path)
}

// Definitions builds every construct in the document. Each one goes through
// construct.Builder, so all build-time rules apply.
func (d *Document) Definitions() ([]construct.Definition, error) {
	defs := make([]construct.Definition, 0, len(d.Constructs))
	for i, c := range d.Constructs {
		def, err := c.build()
		if err != nil {
			return nil, fmt.Errorf("%s: constructs[%d]: %w", d.source, i, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (c Construct) build() (construct.Definition, error) {
	role, err := construct.ParseRole(c.Role)
	if err != nil {
		return construct.Definition{}, blockerrors.NewInvalidDefinition(c.Name, err.Error())
	}

	b := construct.NewBuilder(c.Name, role).
		Color(c.Color).
		Help(c.Help).
		Category(c.Category)
	if c.Inline {
		b.Inline()
	}
	if c.Previous {
		b.Previous()
	}
	if c.Next {
		b.Next()
	}
	if c.Output != "" {
		b.Output(types.Parse(c.Output))
	}

	for i, s := range c.Slots {
		kind, err := construct.ParseSlotKind(s.Kind)
		if err != nil {
			return construct.Definition{}, blockerrors.NewInvalidDefinition(c.Name, fmt.Sprintf("slot %d: %v", i, err))
		}
		fs := make([]fields.Field, 0, len(s.Fields))
		for j, f := range s.Fields {
			field, err := f.build()
			if err != nil {
				return construct.Definition{}, blockerrors.NewInvalidDefinition(c.Name, fmt.Sprintf("slot %d field %d: %v", i, j, err))
			}
			fs = append(fs, field)
		}
		switch kind {
		case construct.SlotDummy:
			b.Dummy(fs...)
		case construct.SlotValue:
			b.Value(s.Name, types.Parse(s.Check), fs...)
		case construct.SlotStatement:
			b.Statement(s.Name, fs...)
		}
	}
	return b.Build()
}

func (f Field) build() (fields.Field, error) {
	switch {
	case f.Label != nil:
		return fields.Label(*f.Label), nil
	case f.Text != nil:
		return fields.Text(*f.Text, f.Default.Value), nil
	case f.Choice != nil:
		opts := make([]fields.Option, len(f.Options))
		for i, o := range f.Options {
			opts[i] = fields.Opt(o.Label, o.Value)
		}
		return fields.Choice(*f.Choice, opts, defaultIndex(f.Default, opts)), nil
	}
	return fields.Field{}, fmt.Errorf("field needs one of label, text or choice")
}

// defaultIndex resolves a choice default. Option tokens win, so numeric
// tokens such as ports and note frequencies are never read as indexes; an
// unquoted integer matching no token is an option index.
func defaultIndex(def Scalar, opts []fields.Option) int {
	if def.Value == "" {
		return 0
	}
	for i, o := range opts {
		if o.Token == def.Value {
			return i
		}
	}
	if def.Int {
		if i, err := strconv.Atoi(def.Value); err == nil {
			return i
		}
	}
	return -1
}

// sortedKeys returns map keys in order so decorations compose
// deterministically.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
