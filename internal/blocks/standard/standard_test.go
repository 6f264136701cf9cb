package standard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/registry"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/types"
)

func TestCatalog(t *testing.T) {
	r, err := Catalog()
	require.NoError(t, err)
	assert.True(t, r.Frozen())

	assert.Equal(t, []string{
		"controls_if", "controls_ifelse", "controls_whileUntil", "controls_for",
		"math_number", "math_arithmetic",
		"logic_compare", "logic_operation", "logic_negate", "logic_boolean",
	}, r.Names())

	again, err := Catalog()
	require.NoError(t, err)
	assert.Same(t, r, again)
}

func TestCatalogShapes(t *testing.T) {
	r := MustCatalog()

	ifDef, err := r.Lookup("controls_if")
	require.NoError(t, err)
	assert.Equal(t, construct.RoleStatement, ifDef.Role)
	slot, ok := ifDef.Slot("IF0")
	require.True(t, ok)
	assert.True(t, slot.Check.Equals(types.Boolean))
	assert.Equal(t, "210", ifDef.Color)

	arith, err := r.Lookup("math_arithmetic")
	require.NoError(t, err)
	out, ok := arith.Output()
	require.True(t, ok)
	assert.True(t, out.Equals(types.Number))
	op, ok := arith.Field("OP")
	require.True(t, ok)
	assert.Equal(t, "ADD", op.Default())

	cmp, err := r.Lookup("logic_compare")
	require.NoError(t, err)
	slot, ok = cmp.Slot("A")
	require.True(t, ok)
	assert.True(t, slot.Check.Equals(types.Any))

	b, err := r.Instantiate("math_number")
	require.NoError(t, err)
	v, _ := b.Value("NUM")
	assert.Equal(t, "0", v)

	b, err = r.Instantiate("logic_boolean")
	require.NoError(t, err)
	v, _ = b.Value("BOOL")
	assert.Equal(t, "TRUE", v)
}

func TestCatalogIsFrozen(t *testing.T) {
	r := MustCatalog()
	err := r.Register(construct.NewBuilder("controls_repeat", construct.RoleStatement).
		Chain().Color("120").MustBuild())
	assert.True(t, errors.Is(err, blockerrors.ErrFrozen))
}

func TestCatalogAsBase(t *testing.T) {
	r := registry.New(registry.WithBase(MustCatalog()))
	_, err := r.Decorate("controls_for", registry.SetColor("#FFAB19"))
	require.NoError(t, err)

	b, err := r.Instantiate("controls_for")
	require.NoError(t, err)
	assert.Equal(t, "#FFAB19", b.Color)

	v, _ := b.Value("VAR")
	assert.Equal(t, "i", v)

	def, err := MustCatalog().Lookup("controls_for")
	require.NoError(t, err)
	assert.Equal(t, "120", def.Color, "base catalog is untouched")
}
