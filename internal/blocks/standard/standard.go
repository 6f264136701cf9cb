// Package standard provides the built-in Blockly constructs as a frozen base
// catalog.
package standard

import (
	_ "embed"
	"fmt"
	"sync"

	"golang.org/x/text/language"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/loader"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/registry"
)

//go:embed standard.yaml
var standardYAML []byte

var (
	catalog    *registry.Registry
	catalogErr error
	loadOnce   sync.Once
)

// Catalog returns the frozen standard catalog. It is built on first use.
func Catalog() (*registry.Registry, error) {
	loadOnce.Do(func() {
		l := loader.New(nil, language.English)
		doc, err := l.Parse(standardYAML, "standard.yaml")
		if err != nil {
			catalogErr = fmt.Errorf("parsing standard catalog: %w", err)
			return
		}
		r := registry.New()
		if err := l.Apply(r, doc); err != nil {
			catalogErr = fmt.Errorf("loading standard catalog: %w", err)
			return
		}
		r.Freeze()
		catalog = r
	})
	return catalog, catalogErr
}

// MustCatalog is Catalog for callers that treat a broken embedded catalog as
// a programming error.
func MustCatalog() *registry.Registry {
	r, err := Catalog()
	if err != nil {
		panic(err)
	}
	return r
}
