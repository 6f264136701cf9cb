package registry

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/fields"
)

// Block is one instantiation of a construct: the state an editor places on
// the canvas. Decorations mutate blocks, never definitions.
type Block struct {
	ID       string                `json:"id"`
	Type     string                `json:"type"`
	Color    string                `json:"color"`
	HelpText string                `json:"help,omitempty"`
	Category string                `json:"category,omitempty"`
	Slots    []construct.InputSlot `json:"slots"`
	// Values holds the current token or text of each editable field
	Values map[string]string `json:"values,omitempty"`
}

func newBlock(def construct.Definition) *Block {
	def = def.Clone()
	b := &Block{
		ID:       uuid.NewString(),
		Type:     def.Name,
		Color:    def.Color,
		HelpText: def.HelpText,
		Category: def.Category,
		Slots:    def.Slots,
		Values:   make(map[string]string),
	}
	for _, f := range def.EditableFields() {
		b.Values[f.Name] = f.Default()
	}
	return b
}

// SetColor replaces the display colour.
func (b *Block) SetColor(c string) {
	b.Color = c
}

// SetHelpText replaces the help text.
func (b *Block) SetHelpText(text string) {
	b.HelpText = text
}

// Relabel replaces the text of every label field reading old and returns
// how many were changed.
func (b *Block) Relabel(old, text string) int {
	n := 0
	for i := range b.Slots {
		for j := range b.Slots[i].Fields {
			f := &b.Slots[i].Fields[j]
			if f.Kind == fields.KindLabel && f.Text == old {
				f.Text = text
				n++
			}
		}
	}
	return n
}

func (b *Block) field(name string) (fields.Field, bool) {
	for _, s := range b.Slots {
		for _, f := range s.Fields {
			if f.Editable() && f.Name == name {
				return f, true
			}
		}
	}
	return fields.Field{}, false
}

// SetValue sets an editable field. Choice fields only accept their tokens.
func (b *Block) SetValue(name, value string) error {
	f, ok := b.field(name)
	if !ok {
		return fmt.Errorf("block %s has no field %q", b.Type, name)
	}
	if !f.Accepts(value) {
		return fmt.Errorf("field %s.%s does not accept %q", b.Type, name, value)
	}
	b.Values[name] = value
	return nil
}

// Value returns the current value of an editable field.
func (b *Block) Value(name string) (string, bool) {
	v, ok := b.Values[name]
	return v, ok
}
