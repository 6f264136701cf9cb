package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockErrorIs(t *testing.T) {
	err := NewNotFound("motor_on")
	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrInvalidDefinition))

	wrapped := fmt.Errorf("resolving signature: %w", err)
	assert.True(t, stderrors.Is(wrapped, ErrNotFound))

	var be *BlockError
	require.True(t, stderrors.As(wrapped, &be))
	assert.Equal(t, "motor_on", be.Construct)
	assert.Equal(t, CategoryRegistry, be.Category)
}

func TestInvalidDefinitionMessage(t *testing.T) {
	err := NewInvalidDefinition("wait", "statement construct must not declare a value output", "colour is empty")
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "DEF200: "))
	assert.Contains(t, msg, `"wait"`)
	assert.Contains(t, msg, "must not declare a value output; colour is empty")

	unnamed := NewInvalidDefinition("")
	assert.Contains(t, unnamed.Error(), "<unnamed>")
}

func TestSeverities(t *testing.T) {
	assert.Equal(t, SeverityInfo, NewDuplicateMutation("controls_if", "color:#FFAB19").Severity)
	assert.Equal(t, SeverityWarning, NewUnsatisfiable("x", "IN", "Sensor").Severity)
	assert.Equal(t, SeverityError, NewFrozen("register", "x").Severity)
}

func TestToJSON(t *testing.T) {
	err := NewIncompatible("sensor_value", "while_loop", "Number output does not satisfy Boolean")
	out, jerr := err.ToJSON()
	require.NoError(t, jerr)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "CON400", decoded["code"])
	assert.Equal(t, "connection", decoded["category"])
	assert.Equal(t, "while_loop", decoded["construct"])
}
