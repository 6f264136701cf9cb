package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/fields"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/registry"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/types"
)

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	defs := []construct.Definition{
		construct.NewBuilder("wait", construct.RoleStatement).
			Value("DURATION", types.Number, fields.Label("待つ")).
			Inline().Chain().Color("#FFAB19").Category("control").MustBuild(),
		construct.NewBuilder("if_else", construct.RoleStatement).
			Value("CONDITION", types.Boolean, fields.Label("もし")).
			Statement("DO", fields.Label("なら")).
			Statement("ELSE", fields.Label("でなければ")).
			Chain().Color("#FFAB19").Category("control").MustBuild(),
		construct.NewBuilder("sensor_value", construct.RoleExpression).
			Dummy(fields.Label("センサー"), fields.Choice("PORT", []fields.Option{fields.Opt("1", "SENSOR_1"), fields.Opt("2", "SENSOR_2")}, 0)).
			Output(types.Number).Color("#4CBFE6").Category("sensor").MustBuild(),
		construct.NewBuilder("sensor_value_bool", construct.RoleExpression).
			Dummy(fields.Label("センサー"), fields.Choice("PORT", []fields.Option{fields.Opt("1", "SENSOR_1")}, 0)).
			Output(types.Boolean).Color("#4CBFE6").Category("sensor").MustBuild(),
		construct.NewBuilder("variables_get", construct.RoleExpression).
			Dummy(fields.Text("VAR", "x")).
			Output(types.Any).Color("#FF8C1A").Category("variables").MustBuild(),
		construct.NewBuilder("motor_off", construct.RoleStatement).
			Dummy(fields.Choice("MOTORS", []fields.Option{fields.Opt("A", "OUT_A")}, 0)).
			Previous().Color("#4C97FF").Category("motor").MustBuild(),
		construct.NewBuilder("task_main", construct.RoleTopLevel).
			Statement("STATEMENTS", fields.Label("task main")).
			Color("#FFBF00").Category("task").MustBuild(),
	}
	for _, d := range defs {
		require.NoError(t, r.Register(d))
	}
	return r
}

func TestSignature(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Decorate("wait", registry.SetColor("#000000"))
	require.NoError(t, err)
	_, err = r.Decorate("sensor_value", registry.SetFieldDefault("PORT", "SENSOR_2"))
	require.NoError(t, err)

	c := New(r)

	sig, err := c.Signature("wait")
	require.NoError(t, err)
	assert.Equal(t, construct.RoleStatement, sig.Role)
	assert.True(t, sig.Previous)
	assert.True(t, sig.Next)
	assert.False(t, sig.HasOutput())
	assert.Equal(t, "#000000", sig.Color)
	assert.Equal(t, []PortSig{{Name: "DURATION", Kind: types.ValueInput, Check: "Number"}}, sig.Inputs)

	sig, err = c.Signature("sensor_value")
	require.NoError(t, err)
	assert.Equal(t, "Number", sig.Output)
	require.Len(t, sig.Fields, 1)
	assert.Equal(t, "SENSOR_2", sig.Fields[0].Default)

	sig, err = c.Signature("if_else")
	require.NoError(t, err)
	require.Len(t, sig.Inputs, 3)
	assert.Equal(t, types.StatementInput, sig.Inputs[1].Kind)

	_, err = c.Signature("nope")
	assert.True(t, errors.Is(err, blockerrors.ErrNotFound))
}

func TestEnumerateAndGroups(t *testing.T) {
	c := New(newTestRegistry(t))

	entries := c.Enumerate()
	require.Len(t, entries, 7)
	assert.Equal(t, "wait", entries[0].Signature.Name)
	assert.Equal(t, "task_main", entries[6].Definition.Name)

	groups := c.ByCategory()
	require.Len(t, groups, 5)
	assert.Equal(t, Group{Category: "control", Names: []string{"wait", "if_else"}}, groups[0])
	assert.Equal(t, "sensor", groups[1].Category)
	assert.Equal(t, []string{"sensor_value", "sensor_value_bool"}, groups[1].Names)
}

func TestIsCompatibleTable(t *testing.T) {
	widget := types.Named("Widget")
	tests := []struct {
		output, constraint types.Type
		want               bool
	}{
		{types.Number, types.Any, true},
		{types.Boolean, types.Any, true},
		{types.Any, types.Any, true},
		{widget, types.Any, true},
		{types.Number, types.Number, true},
		{types.Boolean, types.Number, false},
		{types.Any, types.Number, false},
		{types.Number, types.Boolean, false},
		{types.Boolean, types.Boolean, true},
		{widget, widget, true},
		{types.Number, widget, false},
	}
	for _, tt := range tests {
		t.Run(types.Name(tt.output)+"->"+types.Name(tt.constraint), func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompatible(tt.output, tt.constraint))
		})
	}
}

func TestValidateConnection(t *testing.T) {
	c := New(newTestRegistry(t))

	tests := []struct {
		name string
		conn Connection
		want error
	}{
		{"number into number", Connection{From: "sensor_value", To: "wait", Input: "DURATION"}, nil},
		{"boolean into number", Connection{From: "sensor_value_bool", To: "wait", Input: "DURATION"}, blockerrors.ErrIncompatible},
		{"untyped into number", Connection{From: "variables_get", To: "wait", Input: "DURATION"}, blockerrors.ErrIncompatible},
		{"boolean into condition", Connection{From: "sensor_value_bool", To: "if_else", Input: "CONDITION"}, nil},
		{"statement into value", Connection{From: "wait", To: "if_else", Input: "CONDITION"}, blockerrors.ErrIncompatible},
		{"statement into branch", Connection{From: "wait", To: "if_else", Input: "DO"}, nil},
		{"expression into branch", Connection{From: "sensor_value", To: "if_else", Input: "ELSE"}, blockerrors.ErrIncompatible},
		{"chain", Connection{From: "if_else", To: "wait"}, nil},
		{"chain after terminal", Connection{From: "wait", To: "motor_off"}, blockerrors.ErrIncompatible},
		{"chain expression", Connection{From: "sensor_value", To: "wait"}, blockerrors.ErrIncompatible},
		{"statement into task", Connection{From: "wait", To: "task_main", Input: "STATEMENTS"}, nil},
		{"task into anything", Connection{From: "task_main", To: "wait"}, blockerrors.ErrIncompatible},
		{"unknown input", Connection{From: "sensor_value", To: "wait", Input: "TIME"}, blockerrors.ErrNotFound},
		{"unknown construct", Connection{From: "nope", To: "wait"}, blockerrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.ValidateConnection(tt.conn)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestConnectionString(t *testing.T) {
	assert.Equal(t, "a -> b.next", Connection{From: "a", To: "b"}.String())
	assert.Equal(t, "a -> b.X", Connection{From: "a", To: "b", Input: "X"}.String())
}

func TestCheckValid(t *testing.T) {
	c := New(newTestRegistry(t))
	report := c.Check()
	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)
}

func TestCheckUnsatisfiable(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register(construct.NewBuilder("display_widget", construct.RoleStatement).
		Value("WIDGET", types.Named("Widget")).
		Chain().Color("#000000").MustBuild()))

	c := New(r)
	report := c.Check()
	assert.False(t, report.Valid)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, blockerrors.CodeUnsatisfiable, report.Issues[0].Code)
	assert.Equal(t, "display_widget", report.Issues[0].Construct)
	assert.Equal(t, "WIDGET", report.Issues[0].Slot)

	require.NoError(t, r.Register(construct.NewBuilder("widget_make", construct.RoleExpression).
		Output(types.Named("Widget")).Color("#000000").MustBuild()))
	report = c.Check()
	assert.True(t, report.Valid, "cached report is rebuilt after the registry changes")
}

func TestCheckCachedPerVersion(t *testing.T) {
	src := &countingSource{Registry: newTestRegistry(t)}
	c := New(src)

	c.Check()
	c.Check()
	assert.Equal(t, 1, src.enumerations)

	require.NoError(t, src.Register(construct.NewBuilder("clear_timer", construct.RoleStatement).
		Chain().Color("#5CB1D6").MustBuild()))
	c.Check()
	assert.Equal(t, 2, src.enumerations)
}

func TestCheckRoleMismatch(t *testing.T) {
	broken := construct.Definition{
		Name:  "motor_on",
		Role:  construct.RoleStatement,
		Color: "#4C97FF",
		Connectors: []types.Port{
			{Kind: types.StatementPrev, Check: types.Any},
			{Kind: types.ValueOutput, Check: types.Number},
		},
	}
	report := check([]construct.Definition{broken})
	assert.False(t, report.Valid)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, blockerrors.CodeRoleMismatch, report.Issues[0].Code)
	assert.Contains(t, report.Issues[0].Message, "must not declare a value output")
}

type countingSource struct {
	*registry.Registry
	enumerations int
}

func (s *countingSource) Enumerate() []construct.Definition {
	s.enumerations++
	return s.Registry.Enumerate()
}
