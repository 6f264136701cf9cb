package registry

import "github.com/nqc-blocks/nqcblocks/internal/blocks/construct"

// defaultRegistry is the process-wide registry used by the package-level
// functions.
var defaultRegistry = New()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds def to the default registry.
func Register(def construct.Definition) error {
	return defaultRegistry.Register(def)
}

// Lookup resolves name in the default registry.
func Lookup(name string) (construct.Definition, error) {
	return defaultRegistry.Lookup(name)
}

// Enumerate lists the default registry.
func Enumerate() []construct.Definition {
	return defaultRegistry.Enumerate()
}

// Decorate composes m onto target in the default registry.
func Decorate(target string, m Mutation) (bool, error) {
	return defaultRegistry.Decorate(target, m)
}

// Instantiate creates a block from the default registry.
func Instantiate(name string) (*Block, error) {
	return defaultRegistry.Instantiate(name)
}

// Freeze ends loading on the default registry.
func Freeze() {
	defaultRegistry.Freeze()
}

// Reset clears the default registry.
// This is primarily used for testing.
func Reset() {
	defaultRegistry.Reset()
}
