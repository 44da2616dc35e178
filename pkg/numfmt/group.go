package numfmt

import "strings"

// Group inserts thousands separators into the integer part of raw typed or
// formatted text. The fractional part, a trailing decimal point and trailing
// zeros are kept exactly as they are. Exponential text is returned as is.
func Group(raw string) string {
	if raw == "" || raw == "-" || raw == "0" || IsExponential(raw) {
		return raw
	}

	sign := ""
	if strings.HasPrefix(raw, "-") {
		sign, raw = "-", raw[1:]
	}
	intPart, frac, hasDot := strings.Cut(raw, ".")
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}

	var b strings.Builder
	b.Grow(len(sign) + len(intPart) + len(intPart)/3 + len(frac) + 1)
	b.WriteString(sign)
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	if hasDot {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// Regroup reapplies Group to text that may already contain separators and
// moves caret so that it keeps its distance from the end of the text.
func Regroup(text string, caret int) (string, int) {
	grouped := Group(strings.ReplaceAll(text, ",", ""))
	if grouped == text {
		return text, caret
	}
	fromEnd := len(text) - caret
	return grouped, max(0, len(grouped)-fromEnd)
}
