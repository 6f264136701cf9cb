package registry

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/fields"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/types"
)

func waitDef() construct.Definition {
	return construct.NewBuilder("wait", construct.RoleStatement).
		Value("DURATION", types.Number, fields.Label("待つ")).
		Dummy(fields.Label("× 0.01秒")).
		Inline().Chain().
		Color("#FFAB19").
		MustBuild()
}

func controlsIfDef() construct.Definition {
	return construct.NewBuilder("controls_if", construct.RoleStatement).
		Value("IF0", types.Boolean, fields.Label("もし")).
		Statement("DO0", fields.Label("なら")).
		Chain().
		Color("210").
		MustBuild()
}

func motorOffDef(color string) construct.Definition {
	return construct.NewBuilder("motor_off", construct.RoleStatement).
		Dummy(fields.Label("モーター"),
			fields.Choice("MOTORS", []fields.Option{fields.Opt("A", "OUT_A"), fields.Opt("B", "OUT_B")}, 0),
			fields.Label("を止める")).
		Chain().
		Color(color).
		MustBuild()
}

func TestWaitScenario(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(waitDef()))

	def, err := r.Lookup("wait")
	require.NoError(t, err)
	assert.Equal(t, construct.RoleStatement, def.Role)

	_, hasOutput := def.Output()
	assert.False(t, hasOutput)

	slot, ok := def.Slot("DURATION")
	require.True(t, ok)
	port, _ := slot.Port()
	assert.Equal(t, types.ValueInput, port.Kind)
	assert.True(t, port.Check.Equals(types.Number))
}

func TestRegisterLookupRoundTrip(t *testing.T) {
	r := New()
	want := motorOffDef("#4C97FF")
	require.NoError(t, r.Register(want))

	got, err := r.Lookup("motor_off")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLookupReturnsCopy(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(motorOffDef("#4C97FF")))

	got, err := r.Lookup("motor_off")
	require.NoError(t, err)
	got.Slots[0].Fields[1].Options[0].Token = "OUT_C"
	got.Color = "#000000"

	again, err := r.Lookup("motor_off")
	require.NoError(t, err)
	assert.Equal(t, "OUT_A", again.Slots[0].Fields[1].Options[0].Token)
	assert.Equal(t, "#4C97FF", again.Color)
}

func TestLookupUnknown(t *testing.T) {
	r := New()
	_, err := r.Lookup("motor_on")
	require.Error(t, err)
	assert.True(t, errors.Is(err, blockerrors.ErrNotFound))
	assert.False(t, r.Has("motor_on"))
}

func TestRegisterLastWriteWins(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(motorOffDef("#4C97FF")))
	require.NoError(t, r.Register(waitDef()))
	require.NoError(t, r.Register(motorOffDef("#FF0000")))

	def, err := r.Lookup("motor_off")
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", def.Color)

	assert.Equal(t, []string{"motor_off", "wait"}, r.Names())
	assert.Equal(t, 2, r.Len())
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := New()
	v := r.Version()

	bad := construct.Definition{Name: "broken", Role: construct.RoleExpression, Color: "#000000"}
	err := r.Register(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, blockerrors.ErrInvalidDefinition))
	assert.Equal(t, v, r.Version())
	assert.False(t, r.Has("broken"))
}

func TestFreeze(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(waitDef()))
	r.Freeze()
	r.Freeze()
	assert.True(t, r.Frozen())

	err := r.Register(motorOffDef("#4C97FF"))
	assert.True(t, errors.Is(err, blockerrors.ErrFrozen))

	_, err = r.Decorate("wait", SetColor("#000000"))
	assert.True(t, errors.Is(err, blockerrors.ErrFrozen))

	_, err = r.Lookup("wait")
	assert.NoError(t, err)

	r.Reset()
	assert.False(t, r.Frozen())
	assert.Equal(t, 0, r.Len())
	assert.NoError(t, r.Register(waitDef()))
}

func TestVersionIncreases(t *testing.T) {
	r := New()
	v0 := r.Version()
	require.NoError(t, r.Register(waitDef()))
	v1 := r.Version()
	_, err := r.Decorate("wait", SetHelpText("待つ"))
	require.NoError(t, err)
	v2 := r.Version()
	r.Reset()
	v3 := r.Version()

	assert.Less(t, v0, v1)
	assert.Less(t, v1, v2)
	assert.Less(t, v2, v3)
}

func TestBaseCatalog(t *testing.T) {
	base := New()
	require.NoError(t, base.Register(controlsIfDef()))
	require.NoError(t, base.Register(motorOffDef("#4C97FF")))
	base.Freeze()

	r := New(WithBase(base))
	require.NoError(t, r.Register(waitDef()))
	require.NoError(t, r.Register(motorOffDef("#FF0000")))

	def, err := r.Lookup("controls_if")
	require.NoError(t, err)
	assert.Equal(t, "210", def.Color)

	def, err = r.Lookup("motor_off")
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", def.Color, "local definition shadows the base")

	assert.Equal(t, []string{"controls_if", "motor_off", "wait"}, r.Names())

	_, err = r.Lookup("nope")
	assert.True(t, errors.Is(err, blockerrors.ErrNotFound))
}

func TestInstantiate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(motorOffDef("#4C97FF")))

	a, err := r.Instantiate("motor_off")
	require.NoError(t, err)
	b, err := r.Instantiate("motor_off")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "motor_off", a.Type)
	v, ok := a.Value("MOTORS")
	require.True(t, ok)
	assert.Equal(t, "OUT_A", v)

	require.NoError(t, a.SetValue("MOTORS", "OUT_B"))
	assert.Error(t, a.SetValue("MOTORS", "B"))
	assert.Error(t, a.SetValue("POWER", "OUT_FULL"))

	v, _ = b.Value("MOTORS")
	assert.Equal(t, "OUT_A", v, "instances are independent")

	_, err = r.Instantiate("unknown")
	assert.True(t, errors.Is(err, blockerrors.ErrNotFound))
}

func TestDecorateIdempotent(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(motorOffDef("#4C97FF")))

	var calls int
	m := Mutation{Tag: "count", Apply: func(b *Block) { calls++ }}

	ok, err := r.Decorate("motor_off", m)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Decorate("motor_off", m)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.Instantiate("motor_off")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"count"}, r.Mutations("motor_off"))
}

func TestDecorateComposesInOrder(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(motorOffDef("#4C97FF")))

	var trace []string
	for _, tag := range []string{"first", "second", "third"} {
		tag := tag
		_, err := r.Decorate("motor_off", Mutation{Tag: tag, Apply: func(b *Block) { trace = append(trace, tag) }})
		require.NoError(t, err)
	}
	_, err := r.Decorate("motor_off", SetColor("#111111"))
	require.NoError(t, err)
	_, err = r.Decorate("motor_off", SetColor("#222222"))
	require.NoError(t, err)
	_, err = r.Decorate("motor_off", Relabel("を止める", "を停止"))
	require.NoError(t, err)
	_, err = r.Decorate("motor_off", SetFieldDefault("MOTORS", "OUT_B"))
	require.NoError(t, err)

	b, err := r.Instantiate("motor_off")
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third"}, trace)
	assert.Equal(t, "#222222", b.Color)
	assert.Equal(t, "を停止", b.Slots[0].Fields[2].Text)
	v, _ := b.Value("MOTORS")
	assert.Equal(t, "OUT_B", v)

	def, err := r.Lookup("motor_off")
	require.NoError(t, err)
	assert.Equal(t, "#4C97FF", def.Color, "decorations never touch the definition")
	assert.Equal(t, "を止める", def.Slots[0].Fields[2].Text)
}

func TestDecorateSurvivesReregistration(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(motorOffDef("#4C97FF")))
	_, err := r.Decorate("motor_off", SetHelpText("モーターを止めます"))
	require.NoError(t, err)

	require.NoError(t, r.Register(motorOffDef("#FF0000")))

	b, err := r.Instantiate("motor_off")
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", b.Color)
	assert.Equal(t, "モーターを止めます", b.HelpText)
}

func TestDecorateErrors(t *testing.T) {
	r := New()

	_, err := r.Decorate("controls_if", SetColor("#FFAB19"))
	assert.True(t, errors.Is(err, blockerrors.ErrNotFound))

	require.NoError(t, r.Register(waitDef()))
	_, err = r.Decorate("wait", Mutation{Apply: func(*Block) {}})
	assert.True(t, errors.Is(err, blockerrors.ErrInvalidDefinition))

	_, err = r.Decorate("wait", Mutation{Tag: "x"})
	assert.True(t, errors.Is(err, blockerrors.ErrInvalidDefinition))
}

// Two independently loaded modules both ask for the same colour on a
// pre-existing built-in. The mutation must fire once per instantiation no
// matter how many times the loads run.
func TestRepeatedLoadDoesNotRewrap(t *testing.T) {
	base := New()
	require.NoError(t, base.Register(controlsIfDef()))
	base.Freeze()

	r := New(WithBase(base))

	var fired int32
	colorIf := func() Mutation {
		return Mutation{
			Tag: "color=#FFAB19",
			Apply: func(b *Block) {
				atomic.AddInt32(&fired, 1)
				b.SetColor("#FFAB19")
			},
		}
	}
	load := func() {
		_, err := r.Decorate("controls_if", colorIf())
		require.NoError(t, err)
	}

	load()
	load()
	load()

	for i := 1; i <= 3; i++ {
		b, err := r.Instantiate("controls_if")
		require.NoError(t, err)
		assert.Equal(t, "#FFAB19", b.Color)
		assert.Equal(t, int32(i), atomic.LoadInt32(&fired))
	}
	assert.Len(t, r.Mutations("controls_if"), 1)

	def, err := r.Lookup("controls_if")
	require.NoError(t, err)
	assert.Equal(t, "210", def.Color)
}

func TestBaseDecorationsRunFirst(t *testing.T) {
	base := New()
	require.NoError(t, base.Register(controlsIfDef()))
	_, err := base.Decorate("controls_if", SetColor("#111111"))
	require.NoError(t, err)
	base.Freeze()

	r := New(WithBase(base))
	_, err = r.Decorate("controls_if", SetColor("#FFAB19"))
	require.NoError(t, err)

	b, err := r.Instantiate("controls_if")
	require.NoError(t, err)
	assert.Equal(t, "#FFAB19", b.Color)
}

func TestConcurrentReadsDuringLoad(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(waitDef()))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				def, err := r.Lookup("wait")
				if err != nil || def.Role != construct.RoleStatement {
					t.Errorf("unexpected lookup result: %v", err)
					return
				}
				_ = r.Enumerate()
				if _, err := r.Instantiate("wait"); err != nil {
					t.Errorf("instantiate: %v", err)
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		require.NoError(t, r.Register(motorOffDef("#4C97FF")))
		_, err := r.Decorate("wait", Mutation{Tag: string(rune('a' + i%26)), Apply: func(*Block) {}})
		require.NoError(t, err)
	}
	r.Freeze()
	close(stop)
	wg.Wait()

	assert.Len(t, r.Mutations("wait"), 26)
}

func TestConcurrentReadsAfterFreeze(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(waitDef()))
	require.NoError(t, r.Register(motorOffDef("#4C97FF")))
	r.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Len(t, r.Enumerate(), 2)
				_, err := r.Lookup("motor_off")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

func TestDefaultRegistry(t *testing.T) {
	Reset()
	defer Reset()

	require.NoError(t, Register(waitDef()))
	ok, err := Decorate("wait", SetColor("#000000"))
	require.NoError(t, err)
	assert.True(t, ok)

	def, err := Lookup("wait")
	require.NoError(t, err)
	assert.Equal(t, "wait", def.Name)
	assert.Len(t, Enumerate(), 1)

	b, err := Instantiate("wait")
	require.NoError(t, err)
	assert.Equal(t, "#000000", b.Color)

	Freeze()
	assert.True(t, Default().Frozen())
}
