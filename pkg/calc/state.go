// Package calc implements the key-press state machine of a desk calculator.
//
// A State is an immutable value: every Press method returns the next state
// and leaves its receiver untouched, so states can be kept, shared and
// replayed freely. Engine wraps a State for callers that prefer a mutable
// object. An Engine is not safe for concurrent use; callers serialize input.
package calc

import (
	"strings"

	"github.com/turbekoff/deskcalc/pkg/decimal"
	"github.com/turbekoff/deskcalc/pkg/numfmt"
)

// Mode is the coarse state of the calculator.
type Mode int

const (
	// ModeAwaiting shows a value that the next digit replaces.
	ModeAwaiting Mode = iota
	// ModeEntering shows the number being typed.
	ModeEntering
	// ModeResult shows the result of "=".
	ModeResult
	// ModeError shows an error message until cleared.
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeAwaiting:
		return "awaiting"
	case ModeEntering:
		return "entering"
	case ModeResult:
		return "result"
	case ModeError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of the calculator. The zero value is a cleared
// calculator showing 0.
type State struct {
	mode    Mode
	err     ErrorKind
	acc     decimal.Decimal // left operand, then running result
	operand decimal.Decimal // right operand replayed by repeated "="
	op      Operator
	value   decimal.Decimal // value on display
	buffer  string          // typed text, only in ModeEntering
	trail   Trail

	clearedEntry bool            // CE pressed; the next operator keeps acc
	percent      bool            // last key was %
	locked       bool            // value produced by % or ±, not typed
	factor       decimal.Decimal // multiplier for % pressed again after "+ =" or "- ="
	trailCleared bool            // ⌫ already cleared the trail after "="
}

func (s State) Mode() Mode { return s.mode }
func (s State) Err() ErrorKind { return s.err }
func (s State) Accumulator() decimal.Decimal { return s.acc }
func (s State) Operand() decimal.Decimal { return s.operand }
func (s State) Operator() Operator { return s.op }
func (s State) Value() decimal.Decimal { return s.value }
func (s State) Buffer() string { return s.buffer }
func (s State) Trail() Trail { return s.trail }
func (s State) LastActionWasPercent() bool { return s.percent }
func (s State) PercentChainFactor() decimal.Decimal { return s.factor }

// DecimalEntered reports whether the number being typed has a decimal point.
func (s State) DecimalEntered() bool {
	return s.mode == ModeEntering && strings.Contains(s.buffer, ".")
}

func (s State) IsError() bool {
	return s.mode == ModeError
}

// IsInputEnabled reports whether operator, dot, percent and sign keys
// currently do anything. Clear is always available.
func (s State) IsInputEnabled() bool {
	return !s.IsError()
}

// ResultText is the main display line.
func (s State) ResultText() string {
	switch s.mode {
	case ModeError:
		return s.err.Message()
	case ModeEntering:
		return numfmt.Group(s.buffer)
	}
	return numfmt.Group(numfmt.Format(s.value, numfmt.Auto))
}

// ExpressionText is the trail line above the result.
func (s State) ExpressionText() string {
	return s.trail.String()
}

// finalized reports whether a completed value is shown: a "=" result or a
// negate(...) of one. The next digit starts over.
func (s State) finalized() bool {
	return s.trail.EndsWithEqual() || s.trail.IsNegation()
}

// loneValue reports whether the trail is a bare value produced by %.
func (s State) loneValue() bool {
	return s.locked && s.op == None && s.trail.Left != nil &&
		s.trail.Op == None && !s.trail.Equals
}

func (s State) fail(err error) State {
	s.mode = ModeError
	s.err = kindOf(err)
	return s
}

// show puts a computed value on display; the next digit replaces it.
func (s State) show(v decimal.Decimal) State {
	s.value = v
	s.buffer = ""
	s.mode = ModeAwaiting
	s.clearedEntry = false
	s.percent = false
	s.locked = false
	s.factor = decimal.Zero
	return s
}

// startEntry leaves an awaiting or result display for typing a new number.
func (s State) startEntry() State {
	switch {
	case s.trail.Op != None && !s.trail.Equals:
		// a percent or negate right operand is discarded
		s.trail = s.trail.withOperator(s.trail.Op)
	case s.op == None:
		s.trail = Trail{}
	}
	s.mode = ModeEntering
	s.clearedEntry = false
	s.percent = false
	s.locked = false
	s.factor = decimal.Zero
	s.trailCleared = false
	return s
}

// PressDigit types a digit. Digits beyond the display capacity are ignored.
func (s State) PressDigit(d rune) State {
	if d < '0' || d > '9' {
		return s
	}
	if s.mode == ModeError || s.finalized() {
		s = State{}
	}

	if s.mode == ModeEntering {
		if !fits(s.buffer) {
			return s
		}
		switch s.buffer {
		case "0":
			s.buffer = string(d)
		case "-0":
			s.buffer = "-" + string(d)
		default:
			s.buffer += string(d)
		}
	} else {
		s = s.startEntry()
		s.buffer = string(d)
	}
	s.value = parseBuffer(s.buffer)
	return s
}

// fits reports whether one more digit can be appended to buf.
func fits(buf string) bool {
	limit := numfmt.MaxDisplayDigits
	if strings.HasPrefix(buf, "0.") || strings.HasPrefix(buf, "-0.") {
		limit = numfmt.MaxFractionDigits
	}
	n := 1
	for i := 0; i < len(buf); i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			n++
		}
	}
	return n <= limit
}

func parseBuffer(buf string) decimal.Decimal {
	v, err := numfmt.Parse(buf)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// PressDot starts the fractional part of the number being typed.
func (s State) PressDot() State {
	if s.mode == ModeError {
		return s
	}
	if s.finalized() {
		s = State{}
	}

	if s.mode == ModeEntering {
		if s.DecimalEntered() {
			return s
		}
		s.buffer += "."
	} else {
		s = s.startEntry()
		s.buffer = "0."
	}
	s.value = parseBuffer(s.buffer)
	return s
}

// PressOperator completes any pending operation and sets op as the next one.
// In the error state it only clears the error.
func (s State) PressOperator(op Operator) State {
	if op < Add || op > Divide {
		return s
	}
	if s.mode == ModeError {
		return State{}
	}
	s.trailCleared = false

	switch {
	case s.clearedEntry:
		// CE then operator: the left operand survives
		s.op = op
		s.trail = Trail{Left: term(s.acc), Op: op}
		return s.show(s.acc)

	case s.mode != ModeEntering && s.trail.EndsWithOperator():
		s.op = op
		s.trail = s.trail.withOperator(op)
		s.percent = false
		s.locked = false
		return s

	case s.finalized():
		left := term(s.value)
		if s.trail.IsNegation() {
			left = s.trail.Left
		}
		s.acc = s.value
		s.operand = decimal.Zero
		s.op = op
		s.trail = Trail{Left: left, Op: op}
		return s.show(s.acc)

	case s.percent && s.op != None:
		return s.resolve(op)

	case s.mode != ModeEntering && s.op != None && s.trail.Right == nil:
		s.op = op
		s.trail = Trail{Left: term(s.acc), Op: op}
		s.percent = false
		s.locked = false
		return s
	}
	return s.resolve(op)
}

// resolve folds the displayed value into the accumulator with the pending
// operator and then sets op. On error the registers are left as they were.
func (s State) resolve(op Operator) State {
	acc := s.value
	left := term(acc)
	if s.op == None && s.mode == ModeEntering {
		left = typedTerm(acc)
	}
	if s.op != None {
		res, err := s.op.apply(s.acc, s.value)
		if err != nil {
			return s.fail(err)
		}
		acc = res
		left = term(res)
	}
	s.acc = acc
	s.op = op
	s.trail = Trail{Left: left, Op: op}
	return s.show(acc)
}

// PressEquals computes the pending operation. Pressing it again repeats
// the last operation with the same right operand.
func (s State) PressEquals() State {
	if s.mode == ModeError {
		return s
	}
	s.clearedEntry = false
	s.trailCleared = false

	if s.op == None {
		left := term(s.value)
		switch {
		case s.trail.IsNegation():
			left = s.trail.Left
		case s.mode == ModeEntering:
			left = typedTerm(s.value)
		}
		s.acc = s.value
		s.operand = s.value
		s.trail = Trail{Left: left, Equals: true}
		return s.finish(s.value)
	}

	repeat := s.finalized()
	left, right := s.acc, s.value
	if repeat {
		right = s.operand
	}
	res, err := s.op.apply(left, right)
	if err != nil {
		return s.fail(err)
	}

	lt := term(left)
	if !s.trail.Equals && s.trail.Left != nil && s.trail.Left.Negations > 0 {
		lt = s.trail.Left
	}
	rt := term(right)
	switch {
	case s.mode == ModeEntering:
		rt = typedTerm(right)
	case !repeat && s.trail.Right != nil:
		rt = s.trail.Right
	}

	s.acc = res
	s.operand = right
	s.trail = Trail{Left: lt, Op: s.op, Right: rt, Equals: true}
	return s.finish(res)
}

func (s State) finish(v decimal.Decimal) State {
	s = s.show(v)
	s.mode = ModeResult
	return s
}

// PressPercent applies the percent key. Its meaning depends on context:
//
//   - after "=": R% of R for + and -, R/100 for × and ÷; pressing it again
//     after + or - multiplies by the same factor each time;
//   - with an operator pending: the right operand becomes A×B/100 for + and
//     -, B/100 for × and ÷;
//   - otherwise the display is reset to 0.
func (s State) PressPercent() State {
	if s.mode == ModeError {
		return s
	}
	s.clearedEntry = false
	s.trailCleared = false

	switch {
	case s.finalized():
		r := s.value
		var v, factor decimal.Decimal
		var err error
		if s.op.additive() {
			factor, err = r.Quo(decimal.Hundred)
			if err == nil {
				v, err = r.Mul(factor)
			}
		} else {
			v, err = r.Quo(decimal.Hundred)
		}
		if err != nil {
			return s.fail(err)
		}
		s = s.percentResult(v)
		s.factor = factor
		return s

	case s.op == None && s.percent && !s.factor.IsZero():
		v, err := s.value.Mul(s.factor)
		if err != nil {
			return s.fail(err)
		}
		factor := s.factor
		s = s.percentResult(v)
		s.factor = factor
		return s

	case s.op == None:
		s = s.show(decimal.Zero)
		s.trail = Trail{Left: term(decimal.Zero)}
		return s
	}

	b, err := s.value.Quo(decimal.Hundred)
	if err == nil && s.op.additive() {
		b, err = s.acc.Mul(b)
	}
	if err != nil {
		return s.fail(err)
	}
	left := s.trail.Left
	if left == nil {
		left = term(s.acc)
	}
	s.trail = Trail{Left: left, Op: s.op, Right: term(b)}
	s = s.show(b)
	s.percent = true
	s.locked = true
	return s
}

// percentResult shows v as a standalone value produced by %.
func (s State) percentResult(v decimal.Decimal) State {
	s.acc = v
	s.operand = decimal.Zero
	s.op = None
	s.trail = Trail{Left: term(v)}
	s = s.show(v)
	s.percent = true
	s.locked = true
	return s
}

// PressClearEntry clears the number being entered and keeps the pending
// operation. After a finished binary "=", or on a standalone % or negate
// value, it clears everything.
func (s State) PressClearEntry() State {
	switch {
	case s.mode == ModeError:
		return State{}

	case !s.trail.Equals && s.op != None && s.percent:
		left := s.trail.Left
		if left == nil {
			left = term(s.acc)
		}
		s.trail = Trail{Left: left, Op: s.op}
		return s.show(decimal.Zero)

	case s.trail.IsNegation() || s.loneValue():
		return State{}

	case s.trail.Equals:
		if s.trail.HasBinaryOperator() {
			return State{}
		}
		s.acc = decimal.Zero
		s.operand = decimal.Zero
		s.op = None
		s = s.show(decimal.Zero)
		s.mode = ModeResult
		return s
	}

	if s.trail.Op != None {
		s.trail = s.trail.withOperator(s.trail.Op)
	}
	s = s.show(decimal.Zero)
	s.clearedEntry = true
	return s
}

// PressClear resets everything.
func (s State) PressClear() State {
	return State{}
}

// PressBackspace deletes the last typed character. Right after "=" it
// clears the trail once and leaves the result on display.
func (s State) PressBackspace() State {
	switch {
	case s.mode == ModeError:
		return s
	case s.trail.Equals:
		s.trail = Trail{}
		s = s.show(s.value)
		s.trailCleared = true
		return s
	case s.trailCleared:
		return s
	case s.mode != ModeEntering:
		if numfmt.IsExponential(s.ResultText()) {
			return s.show(decimal.Zero)
		}
		return s
	}

	buf := s.buffer[:len(s.buffer)-1]
	if buf == "" || buf == "-" {
		return s.show(decimal.Zero)
	}
	s.buffer = buf
	s.value = parseBuffer(buf)
	return s
}

// PressToggleSign negates the value on display.
//
// A finished result, or an earlier negation of one, is wrapped in another
// negate(...) in the trail. A right operand that was not typed is shown as
// negate(A). A number being typed has its sign flipped in place, keeping
// the exact text.
func (s State) PressToggleSign() State {
	if s.mode == ModeError {
		return s
	}

	switch {
	case s.finalized() || s.loneValue():
		t := term(s.value).negated()
		if s.trail.IsNegation() {
			t = s.trail.Left.negated()
		}
		v := s.value.Neg()
		s.acc = v
		s.trail = Trail{Left: t}
		s = s.show(v)
		s.locked = true
		return s

	case s.op != None && s.mode != ModeEntering:
		left := s.trail.Left
		if left == nil {
			left = term(s.acc)
		}
		right := term(s.acc).negated()
		v := s.acc.Neg()
		if s.trail.Right != nil {
			right = s.trail.Right.negated()
			v = s.value.Neg()
		}
		s.trail = Trail{Left: left, Op: s.op, Right: right}
		s = s.show(v)
		s.locked = true
		return s

	case s.mode == ModeEntering:
		if s.buffer == "0" {
			return s
		}
		if strings.HasPrefix(s.buffer, "-") {
			s.buffer = s.buffer[1:]
		} else {
			s.buffer = "-" + s.buffer
		}
		s.value = parseBuffer(s.buffer)
		return s
	}

	if s.value.IsZero() {
		return s
	}
	v := s.value.Neg()
	text := numfmt.Format(v, numfmt.Auto)
	s = s.show(v)
	if !numfmt.IsExponential(text) {
		s.mode = ModeEntering
		s.buffer = text
	}
	return s
}
