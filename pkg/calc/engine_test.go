package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngine(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, "0", e.ResultText())
	assert.True(t, e.IsInputEnabled())

	e.PressDigit('8')
	e.PressOperator(Divide)
	e.PressDigit('2')
	e.PressEquals()
	assert.Equal(t, "4", e.ResultText())
	assert.Equal(t, "8 ÷ 2 =", e.ExpressionText())
	assert.Equal(t, ModeResult, e.Mode())

	snapshot := e.State()
	e.PressToggleSign()
	assert.Equal(t, "-4", e.ResultText())
	assert.Equal(t, "4", snapshot.ResultText(), "snapshots do not change")

	e.PressPercent()
	e.PressBackspace()
	e.PressClearEntry()
	e.PressDot()
	assert.Equal(t, "0.", e.ResultText())

	e.PressOperator(Divide)
	e.PressDigit('0')
	e.PressEquals()
	assert.True(t, e.IsError())
	assert.False(t, e.IsInputEnabled())

	e.PressClear()
	assert.Equal(t, State{}, e.State())
}

func TestEnginePressKeys(t *testing.T) {
	e := NewEngine()
	for _, k := range []Key{Digit(1), Digit(0), Digit(0), KeyAdd, Digit(1), Digit(0), KeyEquals, KeyPercent} {
		e.Press(k)
	}
	assert.Equal(t, "121", e.ResultText())
}
