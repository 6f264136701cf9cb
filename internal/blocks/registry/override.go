package registry

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
)

// Mutation is one decoration layered over a construct's initializer. Tag is
// the identity of the mutation: composing the same tag twice on one target
// has no effect.
type Mutation struct {
	Tag   string
	Apply func(*Block)
}

// SetColor returns a mutation replacing the block colour.
func SetColor(c string) Mutation {
	return Mutation{
		Tag:   "color=" + strings.ToUpper(c),
		Apply: func(b *Block) { b.SetColor(c) },
	}
}

// SetHelpText returns a mutation replacing the help text.
func SetHelpText(text string) Mutation {
	return Mutation{
		Tag:   "help=" + text,
		Apply: func(b *Block) { b.SetHelpText(text) },
	}
}

// Relabel returns a mutation rewriting label fields reading old.
func Relabel(old, text string) Mutation {
	return Mutation{
		Tag:   "relabel:" + old + "=" + text,
		Apply: func(b *Block) { b.Relabel(old, text) },
	}
}

// SetFieldDefault returns a mutation changing the initial value of a field.
// Tokens the field does not accept are ignored.
func SetFieldDefault(field, value string) Mutation {
	return Mutation{
		Tag: "default:" + field + "=" + value,
		Apply: func(b *Block) {
			_ = b.SetValue(field, value)
		},
	}
}

// Decorate composes m onto target's initializer. It returns false, and
// changes nothing, when a mutation with the same tag is already composed for
// target. Unknown targets fail with ErrNotFound.
func (r *Registry) Decorate(target string, m Mutation) (bool, error) {
	err := r.compose(target, m)
	if errors.Is(err, blockerrors.ErrDuplicateMutation) {
		r.logger.Debug("mutation already composed",
			zap.String("construct", target),
			zap.String("tag", m.Tag))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Registry) compose(target string, m Mutation) error {
	var problems []string
	if m.Tag == "" {
		problems = append(problems, "mutation tag is empty")
	}
	if m.Apply == nil {
		problems = append(problems, "mutation has no apply function")
	}
	if len(problems) > 0 {
		return blockerrors.NewInvalidDefinition(target, problems...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.current()
	if cur.frozen {
		return blockerrors.NewFrozen("decorate", target)
	}
	if _, ok := cur.defs[target]; !ok {
		if r.base == nil {
			return blockerrors.NewNotFound(target)
		}
		if _, err := r.base.Lookup(target); err != nil {
			return err
		}
	}
	for _, existing := range cur.chains[target] {
		if existing.Tag == m.Tag {
			return blockerrors.NewDuplicateMutation(target, m.Tag)
		}
	}

	next := cur.clone()
	chain := make([]Mutation, 0, len(cur.chains[target])+1)
	chain = append(chain, cur.chains[target]...)
	next.chains[target] = append(chain, m)
	r.state.Store(next)

	r.logger.Debug("composed mutation",
		zap.String("construct", target),
		zap.String("tag", m.Tag),
		zap.Int("depth", len(next.chains[target])))
	return nil
}

// Mutations returns the tags composed for target, in composition order.
func (r *Registry) Mutations(target string) []string {
	chain := r.current().chains[target]
	tags := make([]string, len(chain))
	for i, m := range chain {
		tags[i] = m.Tag
	}
	return tags
}

// Instantiate creates a block for name. The base initializer runs in full
// first, then every composed mutation exactly once, in composition order.
func (r *Registry) Instantiate(name string) (*Block, error) {
	s := r.current()

	var b *Block
	if def, ok := s.defs[name]; ok {
		b = newBlock(def)
	} else if r.base != nil {
		var err error
		if b, err = r.base.Instantiate(name); err != nil {
			return nil, err
		}
	} else {
		return nil, blockerrors.NewNotFound(name)
	}

	for _, m := range s.chains[name] {
		m.Apply(b)
	}
	return b, nil
}
