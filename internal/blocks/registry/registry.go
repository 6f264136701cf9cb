// Package registry maps construct names to their definitions and to the
// ordered decoration chains layered on top of them.
//
// A registry has two phases. During loading, catalogs register definitions
// and compose decorations. Freeze ends loading; from then on the registry is
// read-only and safe for any number of concurrent readers. Reads never lock:
// state lives in an immutable snapshot that writers replace atomically.
package registry

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
)

// Base is an external catalog consulted for names that were not registered
// locally. A frozen *Registry satisfies it.
type Base interface {
	Lookup(name string) (construct.Definition, error)
	Enumerate() []construct.Definition
	Instantiate(name string) (*Block, error)
}

// snapshot is never modified after it is published.
type snapshot struct {
	version uint64
	frozen  bool
	defs    map[string]construct.Definition
	// order is first-registration order of local names
	order  []string
	chains map[string][]Mutation
}

func emptySnapshot(version uint64) *snapshot {
	return &snapshot{
		version: version,
		defs:    make(map[string]construct.Definition),
		chains:  make(map[string][]Mutation),
	}
}

// clone copies the maps and slices so the copy can be edited and published.
func (s *snapshot) clone() *snapshot {
	n := &snapshot{
		version: s.version + 1,
		frozen:  s.frozen,
		defs:    make(map[string]construct.Definition, len(s.defs)),
		order:   append([]string(nil), s.order...),
		chains:  make(map[string][]Mutation, len(s.chains)),
	}
	for k, v := range s.defs {
		n.defs[k] = v
	}
	for k, v := range s.chains {
		n.chains[k] = v
	}
	return n
}

// Registry is the block schema registry.
type Registry struct {
	mu     sync.Mutex
	state  atomic.Pointer[snapshot]
	base   Base
	logger *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithBase sets the external catalog consulted for unregistered names.
func WithBase(b Base) Option {
	return func(r *Registry) { r.base = b }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty registry in the loading phase.
func New(opts ...Option) *Registry {
	r := &Registry{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.state.Store(emptySnapshot(0))
	return r
}

func (r *Registry) current() *snapshot {
	return r.state.Load()
}

// Register inserts or replaces the definition for def.Name. Replacing is not
// an error; the last registration wins. An invalid definition is rejected
// before any state changes.
func (r *Registry) Register(def construct.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.current()
	if cur.frozen {
		return blockerrors.NewFrozen("register", def.Name)
	}

	next := cur.clone()
	_, replaced := next.defs[def.Name]
	if !replaced {
		next.order = append(next.order, def.Name)
	}
	next.defs[def.Name] = def.Clone()
	r.state.Store(next)

	r.logger.Debug("registered construct",
		zap.String("construct", def.Name),
		zap.Bool("replaced", replaced),
		zap.Uint64("version", next.version))
	return nil
}

// Lookup returns a copy of the definition registered under name, falling back
// to the base catalog. Unknown names fail with ErrNotFound.
func (r *Registry) Lookup(name string) (construct.Definition, error) {
	if def, ok := r.current().defs[name]; ok {
		return def.Clone(), nil
	}
	if r.base != nil {
		def, err := r.base.Lookup(name)
		if err == nil {
			return def, nil
		}
		if !errors.Is(err, blockerrors.ErrNotFound) {
			return construct.Definition{}, err
		}
	}
	return construct.Definition{}, blockerrors.NewNotFound(name)
}

// Has reports whether name resolves locally or in the base catalog.
func (r *Registry) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Enumerate returns every resolvable definition. Base entries come first in
// base order, then local entries in first-registration order. A local entry
// that shadows a base name takes the base entry's position.
func (r *Registry) Enumerate() []construct.Definition {
	s := r.current()
	var out []construct.Definition
	seen := make(map[string]bool)

	if r.base != nil {
		for _, def := range r.base.Enumerate() {
			if local, ok := s.defs[def.Name]; ok {
				def = local.Clone()
			}
			seen[def.Name] = true
			out = append(out, def)
		}
	}
	for _, name := range s.order {
		if seen[name] {
			continue
		}
		out = append(out, s.defs[name].Clone())
	}
	return out
}

// Names returns the names of Enumerate in the same order.
func (r *Registry) Names() []string {
	defs := r.Enumerate()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// Len returns the number of resolvable names.
func (r *Registry) Len() int {
	return len(r.Enumerate())
}

// Version increases every time the registry state changes.
func (r *Registry) Version() uint64 {
	return r.current().version
}

// Freeze ends the loading phase. It is idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.current()
	if cur.frozen {
		return
	}
	next := cur.clone()
	next.frozen = true
	r.state.Store(next)

	r.logger.Info("registry frozen",
		zap.Int("constructs", len(next.defs)),
		zap.Int("decorated", len(next.chains)))
}

// Frozen reports whether loading has ended.
func (r *Registry) Frozen() bool {
	return r.current().frozen
}

// Reset clears all definitions and decorations and reopens loading.
// Intended for teardown and tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Store(emptySnapshot(r.current().version + 1))
}
