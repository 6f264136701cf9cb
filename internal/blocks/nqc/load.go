package nqc

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/registry"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/standard"
)

// Override recolours a group of built-in constructs.
type Override struct {
	Color   string
	Targets []string
}

// Overrides are the colour changes applied to the standard constructs so
// they match the NQC palette.
var Overrides = []Override{
	{Color: ColorControl, Targets: []string{"controls_if", "controls_ifelse", "controls_whileUntil", "controls_for"}},
	{Color: ColorMath, Targets: []string{"math_number", "math_arithmetic", "logic_compare", "logic_operation", "logic_negate", "logic_boolean"}},
}

// Target is the registry surface Load writes to.
type Target interface {
	Register(def construct.Definition) error
	Decorate(target string, m registry.Mutation) (bool, error)
}

// Load registers the catalog and applies the standard overrides. It may run
// any number of times during loading: definitions are replaced with
// identical content and each override is composed once. Overrides whose
// target is not registered are skipped.
func Load(r Target, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, def := range Definitions() {
		if err := r.Register(def); err != nil {
			return fmt.Errorf("registering %s: %w", def.Name, err)
		}
	}

	for _, o := range Overrides {
		m := registry.SetColor(o.Color)
		for _, target := range o.Targets {
			added, err := r.Decorate(target, m)
			if errors.Is(err, blockerrors.ErrNotFound) {
				logger.Warn("skipping colour override of unknown construct",
					zap.String("construct", target),
					zap.String("color", o.Color))
				continue
			}
			if err != nil {
				return fmt.Errorf("overriding %s: %w", target, err)
			}
			if added {
				logger.Debug("applied colour override",
					zap.String("construct", target),
					zap.String("color", o.Color))
			}
		}
	}
	return nil
}

// NewRegistry returns a frozen registry holding the standard catalog as its
// base, the NQC catalog and the overrides, plus any extra loading steps.
func NewRegistry(logger *zap.Logger, extra ...func(*registry.Registry) error) (*registry.Registry, error) {
	base, err := standard.Catalog()
	if err != nil {
		return nil, err
	}
	r := registry.New(registry.WithBase(base), registry.WithLogger(logger))
	if err := Load(r, logger); err != nil {
		return nil, err
	}
	for _, step := range extra {
		if err := step(r); err != nil {
			return nil, err
		}
	}
	r.Freeze()
	return r, nil
}
