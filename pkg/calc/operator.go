package calc

import (
	"github.com/pkg/errors"

	"github.com/turbekoff/deskcalc/pkg/decimal"
)

// Operator is a pending binary operation.
type Operator int

const (
	None Operator = iota
	Add
	Subtract
	Multiply
	Divide
)

// Glyph returns the symbol shown in the expression trail.
func (op Operator) Glyph() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	default:
		return ""
	}
}

func (op Operator) String() string {
	if op == None {
		return "none"
	}
	return op.Glyph()
}

func (op Operator) additive() bool {
	return op == Add || op == Subtract
}

// apply computes left op right. With no operator the right operand is
// returned unchanged.
func (op Operator) apply(left, right decimal.Decimal) (decimal.Decimal, error) {
	switch op {
	case Add:
		return left.Add(right)
	case Subtract:
		return left.Sub(right)
	case Multiply:
		return left.Mul(right)
	case Divide:
		return left.Quo(right)
	default:
		return right, nil
	}
}

// ErrorKind identifies why the calculator entered the error state.
type ErrorKind int

const (
	NoError ErrorKind = iota
	Overflow
	DivideByZero
	Undefined
)

// Message returns the text shown in place of the result.
func (k ErrorKind) Message() string {
	switch k {
	case Overflow:
		return "Overflow"
	case DivideByZero:
		return "Cannot divide by zero"
	case Undefined:
		return "Result is undefined"
	default:
		return ""
	}
}

func (k ErrorKind) String() string {
	switch k {
	case Overflow:
		return "overflow"
	case DivideByZero:
		return "divide by zero"
	case Undefined:
		return "undefined"
	default:
		return "none"
	}
}

func kindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, decimal.ErrDivisionByZero):
		return DivideByZero
	case errors.Is(err, decimal.ErrUndefined):
		return Undefined
	default:
		return Overflow
	}
}
