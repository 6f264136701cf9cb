package loader

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/registry"
)

// Target is the registry surface the loader writes to.
type Target interface {
	Register(def construct.Definition) error
	Lookup(name string) (construct.Definition, error)
	Decorate(target string, m registry.Mutation) (bool, error)
}

// Loader applies catalog documents to a registry.
type Loader struct {
	logger  *zap.Logger
	locale  language.Tag
	matcher language.Matcher
}

// New creates a loader. Documents whose locale does not match locale are
// still applied, with a warning.
func New(logger *zap.Logger, locale language.Tag) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger:  logger,
		locale:  locale,
		matcher: language.NewMatcher([]language.Tag{locale}),
	}
}

// Parse is Parse with schema messages rendered for the loader's locale.
func (l *Loader) Parse(data []byte, source string) (*Document, error) {
	return parse(data, source, l.locale)
}

// Apply registers every document's constructs and then composes its
// decorations, one document at a time in order. Later documents override
// earlier ones per name. Decorations naming an unknown construct are
// skipped with a warning.
func (l *Loader) Apply(r Target, docs ...*Document) error {
	for _, doc := range docs {
		if _, _, conf := l.matcher.Match(doc.tag); conf == language.No {
			l.logger.Warn("catalog locale differs from configured locale",
				zap.String("source", doc.source),
				zap.String("locale", doc.tag.String()),
				zap.String("want", l.locale.String()))
		}

		defs, err := doc.Definitions()
		if err != nil {
			return err
		}
		for _, def := range defs {
			if err := r.Register(def); err != nil {
				return fmt.Errorf("%s: %w", doc.source, err)
			}
		}

		for _, dec := range doc.Decorations {
			if err := l.decorate(r, doc.source, dec); err != nil {
				return err
			}
		}

		l.logger.Debug("applied catalog",
			zap.String("source", doc.source),
			zap.String("version", doc.version.String()),
			zap.Int("constructs", len(defs)),
			zap.Int("decorations", len(doc.Decorations)))
	}
	return nil
}

func (l *Loader) decorate(r Target, source string, dec Decoration) error {
	def, err := r.Lookup(dec.Target)
	if errors.Is(err, blockerrors.ErrNotFound) {
		l.logger.Warn("skipping decoration of unknown construct",
			zap.String("source", source),
			zap.String("construct", dec.Target))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}

	// Every field default must name an editable field and a value it accepts
	var problems []string
	for _, name := range sortedKeys(dec.Defaults) {
		f, ok := def.Field(name)
		if !ok {
			problems = append(problems, fmt.Sprintf("decoration of %s: no editable field %q", dec.Target, name))
			continue
		}
		if !f.Accepts(dec.Defaults[name]) {
			problems = append(problems, fmt.Sprintf("decoration of %s: field %s does not accept %q", dec.Target, name, dec.Defaults[name]))
		}
	}
	if len(problems) > 0 {
		return blockerrors.NewInvalidDocument(source, problems...)
	}

	var muts []registry.Mutation
	if dec.Color != "" {
		if !construct.ValidColor(dec.Color) {
			return blockerrors.NewInvalidDocument(source,
				fmt.Sprintf("decoration of %s: colour %q is neither #RRGGBB nor a hue", dec.Target, dec.Color))
		}
		muts = append(muts, registry.SetColor(dec.Color))
	}
	if dec.Help != "" {
		muts = append(muts, registry.SetHelpText(dec.Help))
	}
	for _, old := range sortedKeys(dec.Labels) {
		muts = append(muts, registry.Relabel(old, dec.Labels[old]))
	}
	for _, field := range sortedKeys(dec.Defaults) {
		muts = append(muts, registry.SetFieldDefault(field, dec.Defaults[field]))
	}

	for _, m := range muts {
		if _, err := r.Decorate(dec.Target, m); err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
	}
	return nil
}

// LoadFiles parses every path and applies them in order. Nothing is applied
// unless every file parses.
func (l *Loader) LoadFiles(r Target, paths ...string) error {
	docs := make([]*Document, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading catalog: %w", err)
		}
		doc, err := l.Parse(data, p)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	return l.Apply(r, docs...)
}
