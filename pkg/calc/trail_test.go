package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turbekoff/deskcalc/pkg/decimal"
)

func TestTermString(t *testing.T) {
	five := decimal.MustParse("5")
	assert.Equal(t, "5", term(five).String())
	assert.Equal(t, "negate(5)", term(five).negated().String())
	assert.Equal(t, "negate(negate(5))", term(five).negated().negated().String())

	big := decimal.MustParse("12345678901234567")
	assert.Equal(t, "1.234567890123457e+16", term(big).String())

	typed := typedTerm(decimal.MustParse("0.0001"))
	assert.Equal(t, "0.0001", typed.String())
}

func TestNegatedCopies(t *testing.T) {
	orig := term(decimal.MustParse("3"))
	neg := orig.negated()
	assert.Equal(t, 0, orig.Negations)
	assert.Equal(t, 1, neg.Negations)
}

func TestTrailString(t *testing.T) {
	a, b := term(decimal.MustParse("5")), term(decimal.MustParse("2"))
	tests := []struct {
		name  string
		trail Trail
		want  string
	}{
		{"empty", Trail{}, ""},
		{"value", Trail{Left: a}, "5"},
		{"value equals", Trail{Left: a, Equals: true}, "5 ="},
		{"operator", Trail{Left: a, Op: Multiply}, "5 ×"},
		{"binary", Trail{Left: a, Op: Divide, Right: b}, "5 ÷ 2"},
		{"binary equals", Trail{Left: a, Op: Subtract, Right: b, Equals: true}, "5 - 2 ="},
		{"negated", Trail{Left: a.negated(), Op: Add, Right: b.negated()}, "negate(5) + negate(2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.trail.String())
		})
	}
}

func TestTrailPredicates(t *testing.T) {
	a := term(decimal.MustParse("5"))

	assert.True(t, Trail{}.IsEmpty())
	assert.False(t, Trail{Left: a}.IsEmpty())

	assert.True(t, Trail{Left: a, Op: Add}.EndsWithOperator())
	assert.False(t, Trail{Left: a, Op: Add, Right: a}.EndsWithOperator())
	assert.False(t, Trail{Left: a}.EndsWithOperator())

	assert.True(t, Trail{Left: a, Equals: true}.EndsWithEqual())
	assert.False(t, Trail{Left: a, Op: Add}.EndsWithEqual())

	assert.True(t, Trail{Left: a.negated()}.IsNegation())
	assert.False(t, Trail{Left: a}.IsNegation())
	assert.False(t, Trail{Left: a.negated(), Op: Add}.IsNegation())
	assert.False(t, Trail{Left: a.negated(), Equals: true}.IsNegation())

	assert.True(t, Trail{Left: a, Op: Divide, Right: a, Equals: true}.HasBinaryOperator())
	assert.False(t, Trail{Left: a, Equals: true}.HasBinaryOperator())
}
