// Package decimal implements the fixed-range decimal numbers the calculator
// computes with: at most 28 significant digits, at most 28 digits after the
// decimal point and a magnitude no larger than 79228162514264337593543950335.
//
// Values are immutable. Every arithmetic method returns a new Decimal and
// never modifies its receiver or arguments.
package decimal

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"
)

const (
	MaxPrec  = 28 // MaxPrec is the number of significant digits an arithmetic result keeps.
	MaxScale = 28 // MaxScale is the maximum number of digits after the decimal point.
)

var (
	ErrOverflow       = errors.New("decimal overflow")
	ErrDivisionByZero = errors.New("division by zero")
	ErrUndefined      = errors.New("division of zero by zero")
	ErrInvalid        = errors.New("invalid decimal")
)

var (
	// maxValue is the largest magnitude representable by a 96-bit coefficient.
	maxValue, _, _ = apd.NewFromString("79228162514264337593543950335")

	arith = apd.Context{
		Precision:   MaxPrec,
		MaxExponent: apd.MaxExponent,
		MinExponent: apd.MinExponent,
		Traps:       apd.DefaultTraps,
		Rounding:    apd.RoundHalfEven,
	}

	// exact is used for quantizing and rounding, where the result never
	// needs more than MaxPrec+MaxScale digits.
	exact = apd.Context{
		Precision:   2 * (MaxPrec + MaxScale),
		MaxExponent: apd.MaxExponent,
		MinExponent: apd.MinExponent,
		Traps:       apd.DefaultTraps,
		Rounding:    apd.RoundHalfUp,
	}
)

var (
	Zero    = New(0, 0)
	One     = New(1, 0)
	Ten     = New(10, 0)
	Hundred = New(100, 0)
)

// Decimal is a finite decimal number. The zero value is 0.
type Decimal struct {
	d *apd.Decimal
}

// New returns coef * 10^exp.
func New(coef int64, exp int32) Decimal {
	return wrap(apd.New(coef, exp))
}

// Parse converts plain decimal text such as "-12.50" into a Decimal.
// Exponents, infinities and NaN are rejected.
func Parse(s string) (Decimal, error) {
	if s == "" || strings.ContainsAny(s, "eEiInN") {
		return Decimal{}, errors.Wrapf(ErrInvalid, "parse %q", s)
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Decimal{}, errors.Wrapf(ErrInvalid, "parse %q: %v", s, err)
	}
	return fit(d)
}

// MustParse is like Parse but panics if s cannot be parsed.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func wrap(d *apd.Decimal) Decimal {
	if d.IsZero() {
		d.Negative = false
	}
	return Decimal{d: d}
}

func (d Decimal) apd() *apd.Decimal {
	if d.d == nil {
		return apd.New(0, 0)
	}
	return d.d
}

// fit brings an arithmetic result back into range: trailing zeros are
// dropped, digits beyond MaxScale are rounded away and magnitudes above the
// limit are reported as ErrOverflow.
func fit(d *apd.Decimal) (Decimal, error) {
	abs := new(apd.Decimal).Abs(d)
	if abs.Cmp(maxValue) > 0 {
		return Decimal{}, ErrOverflow
	}
	if d.Exponent < -MaxScale {
		q := new(apd.Decimal)
		if _, err := arithQuantize(q, d, -MaxScale); err != nil {
			return Decimal{}, err
		}
		d = q
	}
	r, _ := new(apd.Decimal).Reduce(d)
	return wrap(r), nil
}

func arithQuantize(dst, x *apd.Decimal, exp int32) (apd.Condition, error) {
	ctx := exact
	ctx.Rounding = apd.RoundHalfEven
	return ctx.Quantize(dst, x, exp)
}

type binaryOp func(c *apd.Context, d, x, y *apd.Decimal) (apd.Condition, error)

func (d Decimal) apply(e Decimal, op binaryOp, name string) (Decimal, error) {
	res := new(apd.Decimal)
	cond, err := op(&arith, res, d.apd(), e.apd())
	if err != nil || cond.Overflow() {
		return Decimal{}, errors.Wrapf(ErrOverflow, "%s %s %s", d, name, e)
	}
	out, err := fit(res)
	if err != nil {
		return Decimal{}, errors.Wrapf(err, "%s %s %s", d, name, e)
	}
	return out, nil
}

// Add returns d + e.
func (d Decimal) Add(e Decimal) (Decimal, error) {
	return d.apply(e, (*apd.Context).Add, "+")
}

// Sub returns d - e.
func (d Decimal) Sub(e Decimal) (Decimal, error) {
	return d.apply(e, (*apd.Context).Sub, "-")
}

// Mul returns d * e.
func (d Decimal) Mul(e Decimal) (Decimal, error) {
	return d.apply(e, (*apd.Context).Mul, "*")
}

// Quo returns d / e rounded to MaxPrec significant digits.
// Dividing a non-zero number by zero returns ErrDivisionByZero,
// dividing zero by zero returns ErrUndefined.
func (d Decimal) Quo(e Decimal) (Decimal, error) {
	if e.IsZero() {
		if d.IsZero() {
			return Decimal{}, ErrUndefined
		}
		return Decimal{}, ErrDivisionByZero
	}
	return d.apply(e, (*apd.Context).Quo, "/")
}

// Neg returns -d.
func (d Decimal) Neg() Decimal {
	return wrap(new(apd.Decimal).Neg(d.apd()))
}

// Abs returns |d|.
func (d Decimal) Abs() Decimal {
	return wrap(new(apd.Decimal).Abs(d.apd()))
}

// Sign returns -1, 0 or +1.
func (d Decimal) Sign() int {
	return d.apd().Sign()
}

func (d Decimal) IsZero() bool {
	return d.apd().IsZero()
}

func (d Decimal) IsNeg() bool {
	return d.Sign() < 0
}

// Cmp compares d and e and returns -1, 0 or +1.
func (d Decimal) Cmp(e Decimal) int {
	return d.apd().Cmp(e.apd())
}

// Equal reports whether d and e are numerically equal.
func (d Decimal) Equal(e Decimal) bool {
	return d.Cmp(e) == 0
}

// IsInt reports whether d has no fractional part.
func (d Decimal) IsInt() bool {
	r, _ := new(apd.Decimal).Reduce(d.apd())
	return r.Exponent >= 0
}

// Exponent returns the exponent of d in normalized scientific notation,
// so that 1 <= |d| / 10^Exponent < 10. It is 0 for zero.
func (d Decimal) Exponent() int {
	x := d.apd()
	if x.IsZero() {
		return 0
	}
	return int(x.NumDigits()) + int(x.Exponent) - 1
}

// IntDigits returns the number of digits in the integer part of |d|,
// or 0 when |d| < 1.
func (d Decimal) IntDigits() int {
	if e := d.Exponent(); e >= 0 && !d.IsZero() {
		return e + 1
	}
	return 0
}

// Shift returns d * 10^n.
func (d Decimal) Shift(n int) Decimal {
	x := new(apd.Decimal).Set(d.apd())
	if !x.IsZero() {
		x.Exponent += int32(n)
	}
	return wrap(x)
}

// RoundSig rounds d to n significant digits, halves away from zero.
func (d Decimal) RoundSig(n int) Decimal {
	ctx := exact
	ctx.Precision = uint32(n)
	res := new(apd.Decimal)
	if _, err := ctx.Round(res, d.apd()); err != nil {
		return d
	}
	r, _ := res.Reduce(res)
	return wrap(r)
}

// Round rounds d to scale digits after the decimal point, halves away from
// zero. It never adds trailing zeros.
func (d Decimal) Round(scale int) Decimal {
	x := d.apd()
	if int(x.Exponent) >= -scale {
		return d
	}
	res := new(apd.Decimal)
	if _, err := exact.Quantize(res, x, int32(-scale)); err != nil {
		return d
	}
	r, _ := res.Reduce(res)
	return wrap(r)
}

// Trunc drops the fractional part of d.
func (d Decimal) Trunc() Decimal {
	x := d.apd()
	if x.Exponent >= 0 {
		return d
	}
	ctx := exact
	ctx.Rounding = apd.RoundDown
	res := new(apd.Decimal)
	if _, err := ctx.Quantize(res, x, 0); err != nil {
		return d
	}
	return wrap(res)
}

// Text renders d in plain positional notation without trailing zeros,
// for example "-1234.5" or "0.001".
func (d Decimal) Text() string {
	r, _ := new(apd.Decimal).Reduce(d.apd())
	if r.IsZero() {
		return "0"
	}
	return r.Text('f')
}

// String implements fmt.Stringer.
func (d Decimal) String() string {
	return d.Text()
}
