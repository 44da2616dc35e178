package calc

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run presses one key per rune: digits, ".", "+-*/", "=", "%",
// E (CE), C (clear), B (backspace) and T (sign).
func run(keys string) State {
	var s State
	for _, r := range keys {
		s = s.Press(Key(r))
	}
	return s
}

type display struct {
	result string
	trail  string
}

func shown(s State) display {
	return display{result: s.ResultText(), trail: s.ExpressionText()}
}

func TestSequences(t *testing.T) {
	tests := []struct {
		name   string
		keys   string
		result string
		trail  string
	}{
		{"initial", "", "0", ""},
		{"typing groups digits", "1234567", "1,234,567", ""},
		{"leading zero replaced", "05", "5", ""},
		{"double zero", "00", "0", ""},
		{"dot seeds zero", ".", "0.", ""},
		{"dot then digit", ".5", "0.5", ""},
		{"second dot ignored", "1.2.3", "1.23", ""},
		{"simple addition", "12+7=", "19", "12 + 7 ="},
		{"operator shows left operand", "12+", "12", "12 +"},
		{"chained operators", "2+3*", "5", "5 ×"},
		{"operator replace", "5+-", "5", "5 -"},
		{"operator replace then compute", "5+-3=", "2", "5 - 3 ="},
		{"equals without operator", "5=", "5", "5 ="},
		{"equals without operator twice", "5==", "5", "5 ="},
		{"right operand defaults to left", "5+=", "10", "5 + 5 ="},
		{"new chain after equals", "2+3=*2=", "10", "5 × 2 ="},
		{"digit after equals starts over", "2+3=7", "7", ""},
		{"dot after equals starts over", "2+3=.7", "0.7", ""},
		{"one third", "1/3=", "0.3333333333333333", "1 ÷ 3 ="},
		{"two thirds", "2/3=", "0.6666666666666667", "2 ÷ 3 ="},
		{"ten thirds", "10/3=", "3.333333333333333", "10 ÷ 3 ="},
		{"large result", "9999999999999999+1=", "1.e+16", "9999999999999999 + 1 ="},
		{"just below threshold", "9999999999999998+1=", "9,999,999,999,999,999", "9999999999999998 + 1 ="},
		{"tiny result", "0.0000000001*0.0000000001=", "1.e-20", "0.0000000001 × 0.0000000001 ="},
		{"negative result", "3-5=", "-2", "3 - 5 ="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, display{tt.result, tt.trail}, shown(run(tt.keys)))
		})
	}
}

func TestDigitLimits(t *testing.T) {
	s := run(strings.Repeat("1", 20))
	assert.Equal(t, strings.Repeat("1", 16), s.Buffer())

	s = run("0." + strings.Repeat("1", 20))
	assert.Equal(t, "0."+strings.Repeat("1", 16), s.Buffer())

	s = run("12345678.12345678")
	assert.Equal(t, "12345678.12345678", s.Buffer())
	assert.Equal(t, s, s.PressDigit('9'), "17th digit is ignored")
}

func TestDecimalEntered(t *testing.T) {
	s := run("12")
	assert.False(t, s.DecimalEntered())
	s = s.PressDot()
	assert.True(t, s.DecimalEntered())
	s = s.PressBackspace()
	assert.False(t, s.DecimalEntered())
	assert.Equal(t, "12", s.Buffer())
}

func TestRepeatEquals(t *testing.T) {
	s := run("2+3=")
	for n := 1; n <= 5; n++ {
		s = s.PressEquals()
		want := 2 + 3*(n+1)
		assert.Equalf(t, strconv.Itoa(want), s.ResultText(), "after %d extra presses", n)
	}
	assert.Equal(t, "17 + 3 =", s.ExpressionText())

	s = run("100/2==")
	assert.Equal(t, "25", s.ResultText())
	assert.Equal(t, "50 ÷ 2 =", s.ExpressionText())
}

func TestDivideByZero(t *testing.T) {
	s := run("5/0=")
	require.True(t, s.IsError())
	assert.False(t, s.IsInputEnabled())
	assert.Equal(t, DivideByZero, s.Err())
	assert.Equal(t, "Cannot divide by zero", s.ResultText())
	assert.Equal(t, "5 ÷", s.ExpressionText())
	assert.Equal(t, "5", s.Accumulator().Text(), "registers untouched")

	s = run("0/0=")
	require.True(t, s.IsError())
	assert.Equal(t, Undefined, s.Err())
	assert.Equal(t, "Result is undefined", s.ResultText())

	s = run("6/0+")
	require.True(t, s.IsError(), "division by zero while chaining")
	assert.Equal(t, Divide, s.Operator(), "operator not applied")
}

func TestOverflow(t *testing.T) {
	s := run("9999999999999999*9999999999999999=")
	require.True(t, s.IsError())
	assert.Equal(t, Overflow, s.Err())
	assert.Equal(t, "Overflow", s.ResultText())
	assert.Equal(t, "9999999999999999", s.Accumulator().Text())
}

func TestErrorRecovery(t *testing.T) {
	failed := run("5/0=")

	for _, k := range []Key{KeyDot, KeyPercent, KeyToggleSign, KeyEquals, KeyBackspace} {
		assert.Equalf(t, failed, failed.Press(k), "%s while in error", k)
	}

	s := failed.PressDigit('3')
	assert.False(t, s.IsError())
	assert.Equal(t, display{"3", ""}, shown(s))

	s = failed.PressOperator(Add)
	assert.False(t, s.IsError())
	assert.Equal(t, display{"0", ""}, shown(s))

	s = failed.PressClearEntry()
	assert.Equal(t, State{}, s)

	s = failed.PressClear()
	assert.Equal(t, State{}, s)
}

func TestClearIsIdempotent(t *testing.T) {
	s := run("12+3=%T")
	once := s.PressClear()
	twice := once.PressClear()
	assert.Equal(t, once, twice)
	assert.Equal(t, State{}, once)
	assert.Equal(t, display{"0", ""}, shown(twice))
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name   string
		keys   string
		result string
		trail  string
	}{
		{"chain first", "100+10=%", "121", "121"},
		{"chain second", "100+10=%%", "133.1", "133.1"},
		{"chain after subtraction", "100-10=%", "81", "81"},
		{"after multiplication", "50*2=%", "1", "1"},
		{"no chain after multiplication", "50*2=%%", "0", "0"},
		{"after single value equals", "5=%", "0.05", "0.05"},
		{"additive pending", "200+10%", "20", "200 + 20"},
		{"additive pending equals", "200+10%=", "220", "200 + 20 ="},
		{"untyped right operand", "5+%", "0.25", "5 + 0.25"},
		{"multiplicative pending", "50*10%", "0.1", "50 × 0.1"},
		{"multiplicative pending equals", "50*10%=", "5", "50 × 0.1 ="},
		{"repeat pending percent", "200+10%%", "40", "200 + 40"},
		{"then operator", "200+10%+", "220", "220 +"},
		{"without operator", "5%", "0", "0"},
		{"digit after percent", "200+10%3", "3", "200 +"},
		{"digit after percent chain", "100+10=%7", "7", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, display{tt.result, tt.trail}, shown(run(tt.keys)))
		})
	}
}

func TestPercentChainFactor(t *testing.T) {
	s := run("100+10=")
	assert.True(t, s.PercentChainFactor().IsZero())

	s = s.PressPercent()
	assert.True(t, s.LastActionWasPercent())
	assert.Equal(t, "1.1", s.PercentChainFactor().Text())

	s = s.PressPercent()
	assert.Equal(t, "1.1", s.PercentChainFactor().Text(), "factor fixed at the first percent")

	s = s.PressDigit('2')
	assert.False(t, s.LastActionWasPercent())
	assert.True(t, s.PercentChainFactor().IsZero())

	s = run("50*2=%")
	assert.True(t, s.PercentChainFactor().IsZero())
}

func TestClearEntry(t *testing.T) {
	tests := []struct {
		name   string
		keys   string
		result string
		trail  string
	}{
		{"while typing", "12+3E", "0", "12 +"},
		{"then equals", "12+3E=", "12", "12 + 0 ="},
		{"then operator keeps left operand", "12+3E*", "12", "12 ×"},
		{"then operator and operand", "12+3E*2=", "24", "12 × 2 ="},
		{"after binary result", "2+3=E", "0", ""},
		{"after single value result", "5=E", "0", "5 ="},
		{"after percent substitution", "200+10%E", "0", "200 +"},
		{"after percent chain", "100+10=%E", "0", ""},
		{"after negate", "2+3=TE", "0", ""},
		{"after symbolic negate", "5+TE", "0", "5 +"},
		{"first number", "42E", "0", ""},
		{"first number then operator", "42E+", "0", "0 +"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, display{tt.result, tt.trail}, shown(run(tt.keys)))
		})
	}
}

func TestBackspace(t *testing.T) {
	tests := []struct {
		name   string
		keys   string
		result string
		trail  string
	}{
		{"drop digit", "123B", "12", ""},
		{"drop dot", "12.B", "12", ""},
		{"to zero", "1B", "0", ""},
		{"past zero", "1BB", "0", ""},
		{"negative to zero", "5TB", "0", ""},
		{"keeps trailing zero", "3.50B", "3.5", ""},
		{"after operator", "12+B", "12", "12 +"},
		{"after equals clears trail", "12+3=B", "15", ""},
		{"after equals once", "12+3=BB", "15", ""},
		{"after equals then operator", "12+3=B+", "15", "15 +"},
		{"exponential display", "9999999999999999+1+B", "0", "1.e+16 +"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, display{tt.result, tt.trail}, shown(run(tt.keys)))
		})
	}

	s := run("12+3=BB")
	assert.Equal(t, ModeAwaiting, s.Mode())
	s = s.PressDigit('4').PressDigit('5').PressBackspace()
	assert.Equal(t, "4", s.ResultText(), "new input re-enables backspace")
}

func TestToggleSign(t *testing.T) {
	tests := []struct {
		name   string
		keys   string
		result string
		trail  string
	}{
		{"keeps typed text", "3.50T", "-3.50", ""},
		{"twice", "3.50TT", "3.50", ""},
		{"partial decimal", "7.T", "-7.", ""},
		{"zero", "0T", "0", ""},
		{"initial zero", "T", "0", ""},
		{"then digits", "12T3", "-123", ""},
		{"result", "2+3=T", "-5", "negate(5)"},
		{"result nested", "2+3=TT", "5", "negate(negate(5))"},
		{"single value result", "5=T", "-5", "negate(5)"},
		{"negated result then operator", "2+3=T*2=", "-10", "negate(5) × 2 ="},
		{"nested then operator", "2+3=TT+1=", "6", "negate(negate(5)) + 1 ="},
		{"negated result equals repeats", "2+3=T=", "-2", "negate(5) + 3 ="},
		{"negated single value equals", "5=T=", "-5", "negate(5) ="},
		{"digit after negated result", "2+3=T7", "7", ""},
		{"pending right operand", "5+T", "-5", "5 + negate(5)"},
		{"pending right operand equals", "5+T=", "0", "5 + negate(5) ="},
		{"pending right operand nested", "5+TT", "5", "5 + negate(negate(5))"},
		{"digit replaces symbolic operand", "5+T3", "3", "5 +"},
		{"percent operand", "200+10%T=", "180", "200 + negate(20) ="},
		{"percent chain value", "100+10=%T", "-121", "negate(121)"},
		{"typed right operand", "5+3T=", "2", "5 + -3 ="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, display{tt.result, tt.trail}, shown(run(tt.keys)))
		})
	}

	s := run("3.50T")
	assert.Equal(t, "-3.50", s.Buffer())
	assert.Equal(t, "-3.5", s.Value().Text())
}

func TestStatesAreValues(t *testing.T) {
	before := run("12+3")
	after := before.PressEquals()
	assert.Equal(t, ModeEntering, before.Mode())
	assert.Equal(t, "3", before.ResultText())
	assert.Equal(t, "12 +", before.ExpressionText())
	assert.Equal(t, ModeResult, after.Mode())
	assert.Equal(t, "15", after.ResultText())
}

func TestModes(t *testing.T) {
	assert.Equal(t, ModeAwaiting, run("").Mode())
	assert.Equal(t, ModeEntering, run("1").Mode())
	assert.Equal(t, ModeAwaiting, run("1+").Mode())
	assert.Equal(t, ModeEntering, run("1+2").Mode())
	assert.Equal(t, ModeResult, run("1+2=").Mode())
	assert.Equal(t, ModeError, run("1/0=").Mode())
	assert.True(t, run("1+2=").Trail().EndsWithEqual())
}
