// Package numfmt converts calculator values to and from display text.
//
// Values between 0.001 and 10^16 are shown in positional notation rounded
// to at most 16 significant digits. Larger values, and small values that
// would need more than 17 digits after the decimal point, switch to
// exponential notation such as "1.e+16" or "1.234567890123457e-20".
package numfmt

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/turbekoff/deskcalc/pkg/decimal"
)

const (
	MaxDisplayDigits  = 16 // digits accepted and shown for ordinary numbers
	MaxFractionDigits = 17 // digits accepted and shown for numbers starting with "0."
	SignificantDigits = 16 // mantissa digits in exponential notation
)

var (
	smallThreshold = decimal.New(1, -3) // below this, fixed notation must prove it fits
	largeThreshold = decimal.New(1, 16) // at or above this, always exponential
)

// Notation selects how Format renders a value.
type Notation int

const (
	// Auto picks fixed or exponential notation by magnitude.
	Auto Notation = iota
	// Fixed prefers positional notation and only falls back to exponential
	// when the digits do not fit the display.
	Fixed
)

var ErrSyntax = errors.New("invalid number")

// Round rounds v the way the display does before rendering. Zero and values
// outside [0.001, 10^16) are returned unchanged: exponential rendering does
// its own significant-digit rounding.
func Round(v decimal.Decimal) decimal.Decimal {
	abs := v.Abs()
	if abs.IsZero() || abs.Cmp(smallThreshold) < 0 || abs.Cmp(largeThreshold) >= 0 {
		return v
	}
	if abs.Cmp(decimal.One) < 0 {
		return v.Round(SignificantDigits)
	}
	places := SignificantDigits - abs.IntDigits()
	if places < 0 {
		return v
	}
	return v.Round(places)
}

// Format renders v for display, without thousands separators.
func Format(v decimal.Decimal, n Notation) string {
	if n == Fixed {
		return FormatFixed(Round(v))
	}

	v = Round(v)
	abs := v.Abs()
	switch {
	case abs.IsZero():
		return "0"
	case abs.Cmp(largeThreshold) >= 0:
		return FormatExponential(v)
	case abs.Cmp(smallThreshold) < 0:
		s := v.RoundSig(SignificantDigits).Text()
		if fractionFits(s) {
			return s
		}
		return FormatExponential(v)
	}
	return v.Text()
}

// FormatFixed renders every significant digit of v in positional notation.
// Values with more than 16 integer digits, or with more than 17 digits after
// a leading "0.", do not fit the display and are rendered exponentially.
func FormatFixed(v decimal.Decimal) string {
	if v.IsZero() {
		return "0"
	}
	if v.IntDigits() > MaxDisplayDigits {
		return FormatExponential(v)
	}
	s := v.Text()
	if v.IntDigits() == 0 && !fractionFits(s) {
		return FormatExponential(v)
	}
	return s
}

// fractionFits reports whether the digits after the point of a "0.xxx" text,
// leading zeros included, fit in MaxFractionDigits.
func fractionFits(s string) bool {
	_, frac, ok := strings.Cut(s, ".")
	if !ok {
		return true
	}
	return len(frac) <= MaxFractionDigits
}

// Exponent returns the power of ten of v's leading digit: the number of
// integer digits minus one for |v| >= 1, and minus the number of zeros after
// the decimal point, minus one, for |v| < 1.
func Exponent(v decimal.Decimal) int {
	return v.Exponent()
}

// FormatExponential renders v as a mantissa in [1, 10) with at most 16
// significant digits followed by a signed exponent, e.g. "-1.5e+20".
// An integral mantissa keeps its decimal point: "1.e+16".
func FormatExponential(v decimal.Decimal) string {
	if v.IsZero() {
		return "0"
	}
	exp := Exponent(v)
	mant := v.RoundSig(SignificantDigits).Shift(-exp)
	if mant.Abs().Cmp(decimal.Ten) >= 0 {
		mant = mant.Shift(-1)
		exp++
	}

	var b strings.Builder
	b.WriteString(mant.Text())
	if mant.IsInt() {
		b.WriteByte('.')
	}
	b.WriteByte('e')
	if exp >= 0 {
		b.WriteByte('+')
	}
	b.WriteString(strconv.Itoa(exp))
	return b.String()
}

// IsExponential reports whether display text is in exponential notation.
func IsExponential(text string) bool {
	return strings.ContainsAny(text, "eE")
}

// Parse converts display or typed text back to a value. Thousands separators
// and a trailing decimal point are ignored, nothing is rounded.
func Parse(text string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(text, ",", "")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return decimal.Decimal{}, errors.Wrapf(ErrSyntax, "parse %q", text)
	}
	v, err := decimal.Parse(s)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(ErrSyntax, "parse %q", text)
	}
	return v, nil
}
