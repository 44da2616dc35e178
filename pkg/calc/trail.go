package calc

import (
	"strings"

	"github.com/turbekoff/deskcalc/pkg/decimal"
	"github.com/turbekoff/deskcalc/pkg/numfmt"
)

// Term is an operand shown in the trail, optionally wrapped in one or more
// textual negate(...) layers.
type Term struct {
	Value     decimal.Decimal
	Negations int
	Notation  numfmt.Notation
}

func term(v decimal.Decimal) *Term {
	return &Term{Value: v}
}

// typedTerm renders a value the user typed; it always fits fixed notation.
func typedTerm(v decimal.Decimal) *Term {
	return &Term{Value: v, Notation: numfmt.Fixed}
}

// negated returns a copy of t with one more negate layer.
func (t *Term) negated() *Term {
	n := *t
	n.Negations++
	return &n
}

func (t *Term) String() string {
	s := numfmt.Format(t.Value, t.Notation)
	for i := 0; i < t.Negations; i++ {
		s = "negate(" + s + ")"
	}
	return s
}

// Trail is the expression shown above the result, kept as tokens and only
// ever rendered, never parsed back:
//
//	[Left] [Op [Right]] [=]
//
// Terms are shared between successive states and must not be modified.
type Trail struct {
	Left   *Term
	Op     Operator
	Right  *Term
	Equals bool
}

// IsEmpty reports whether nothing is shown.
func (t Trail) IsEmpty() bool {
	return t.Left == nil
}

// EndsWithEqual reports whether the trail is a finished "... =" expression.
func (t Trail) EndsWithEqual() bool {
	return t.Equals
}

// EndsWithOperator reports whether the trail is "A op" with nothing after
// the operator.
func (t Trail) EndsWithOperator() bool {
	return t.Op != None && t.Right == nil && !t.Equals
}

// IsNegation reports whether the trail is a lone negate(...) of a result.
func (t Trail) IsNegation() bool {
	return t.Left != nil && t.Left.Negations > 0 && t.Op == None && !t.Equals
}

// HasBinaryOperator reports whether an operator appears in the trail.
func (t Trail) HasBinaryOperator() bool {
	return t.Op != None
}

// withOperator returns "Left op", keeping a negate(...) left term.
func (t Trail) withOperator(op Operator) Trail {
	return Trail{Left: t.Left, Op: op}
}

func (t Trail) String() string {
	if t.Left == nil {
		return ""
	}
	parts := make([]string, 0, 4)
	parts = append(parts, t.Left.String())
	if t.Op != None {
		parts = append(parts, t.Op.Glyph())
		if t.Right != nil {
			parts = append(parts, t.Right.String())
		}
	}
	if t.Equals {
		parts = append(parts, "=")
	}
	return strings.Join(parts, " ")
}
