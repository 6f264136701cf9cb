package construct

import (
	"github.com/nqc-blocks/nqcblocks/internal/blocks/fields"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/types"
)

// Builder assembles a Definition slot by slot. Builders are pure: nothing is
// registered until the caller hands the built definition to a registry.
//
//	def, err := construct.NewBuilder("wait", construct.RoleStatement).
//		Value("DURATION", types.Number, fields.Label("待つ")).
//		Dummy(fields.Label("× 0.01秒")).
//		Inline().Previous().Next().
//		Color("#FFAB19").
//		Build()
type Builder struct {
	def Definition
}

// NewBuilder starts a definition with the given name and role.
func NewBuilder(name string, role Role) *Builder {
	return &Builder{def: Definition{Name: name, Role: role}}
}

// Dummy appends a fields-only slot.
func (b *Builder) Dummy(fs ...fields.Field) *Builder {
	b.def.Slots = append(b.def.Slots, InputSlot{Kind: SlotDummy, Fields: cloneFields(fs)})
	return b
}

// Value appends a value socket constrained by check, preceded by leading fields.
func (b *Builder) Value(name string, check types.Type, leading ...fields.Field) *Builder {
	if check == nil {
		check = types.Any
	}
	b.def.Slots = append(b.def.Slots, InputSlot{Kind: SlotValue, Name: name, Check: check, Fields: cloneFields(leading)})
	return b
}

// Statement appends a nested statement sequence, preceded by leading fields.
func (b *Builder) Statement(name string, leading ...fields.Field) *Builder {
	b.def.Slots = append(b.def.Slots, InputSlot{Kind: SlotStatement, Name: name, Check: types.Any, Fields: cloneFields(leading)})
	return b
}

// Slot appends a prepared slot.
func (b *Builder) Slot(s InputSlot) *Builder {
	b.def.Slots = append(b.def.Slots, s.Clone())
	return b
}

// Previous adds a StatementPrev connector.
func (b *Builder) Previous() *Builder {
	b.def.Connectors = append(b.def.Connectors, types.Port{Kind: types.StatementPrev, Check: types.Any})
	return b
}

// Next adds a StatementNext connector.
func (b *Builder) Next() *Builder {
	b.def.Connectors = append(b.def.Connectors, types.Port{Kind: types.StatementNext, Check: types.Any})
	return b
}

// Chain adds both statement links.
func (b *Builder) Chain() *Builder {
	return b.Previous().Next()
}

// Output adds a ValueOutput connector of the given type.
func (b *Builder) Output(t types.Type) *Builder {
	if t == nil {
		t = types.Any
	}
	b.def.Connectors = append(b.def.Connectors, types.Port{Kind: types.ValueOutput, Check: t})
	return b
}

// Color sets the display colour.
func (b *Builder) Color(c string) *Builder {
	b.def.Color = c
	return b
}

// Help sets the help text.
func (b *Builder) Help(text string) *Builder {
	b.def.HelpText = text
	return b
}

// Category sets the palette category.
func (b *Builder) Category(c string) *Builder {
	b.def.Category = c
	return b
}

// Inline renders the inputs on one row.
func (b *Builder) Inline() *Builder {
	b.def.InputsInline = true
	return b
}

// Build validates and returns the definition. A malformed definition is
// never returned.
func (b *Builder) Build() (Definition, error) {
	def := b.def.Clone()
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// MustBuild is Build for static catalogs; it panics on an invalid definition.
func (b *Builder) MustBuild() Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

func cloneFields(fs []fields.Field) []fields.Field {
	if len(fs) == 0 {
		return nil
	}
	out := make([]fields.Field, len(fs))
	for i, f := range fs {
		out[i] = f.Clone()
	}
	return out
}
