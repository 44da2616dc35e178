package calc

import (
	"github.com/pkg/errors"
)

// Key is a calculator key. Digit keys are the runes '0' to '9'.
type Key rune

const (
	KeyDot        Key = '.'
	KeyAdd        Key = '+'
	KeySubtract   Key = '-'
	KeyMultiply   Key = '*'
	KeyDivide     Key = '/'
	KeyEquals     Key = '='
	KeyPercent    Key = '%'
	KeyClearEntry Key = 'E'
	KeyClear      Key = 'C'
	KeyBackspace  Key = 'B'
	KeyToggleSign Key = 'T'
)

var ErrUnknownKey = errors.New("unknown key")

// Digit returns the key for digit d, 0 <= d <= 9.
func Digit(d int) Key {
	return Key('0' + d)
}

// IsDigit reports whether k is one of the digit keys.
func (k Key) IsDigit() bool {
	return k >= '0' && k <= '9'
}

// Operator returns the operator of an operator key, or None.
func (k Key) Operator() Operator {
	switch k {
	case KeyAdd:
		return Add
	case KeySubtract:
		return Subtract
	case KeyMultiply:
		return Multiply
	case KeyDivide:
		return Divide
	default:
		return None
	}
}

var labels = map[Key]string{
	KeyDot:        ".",
	KeyAdd:        "+",
	KeySubtract:   "-",
	KeyMultiply:   "×",
	KeyDivide:     "÷",
	KeyEquals:     "=",
	KeyPercent:    "%",
	KeyClearEntry: "CE",
	KeyClear:      "C",
	KeyBackspace:  "⌫",
	KeyToggleSign: "±",
}

// Label returns the text printed on the key.
func (k Key) Label() string {
	if k.IsDigit() {
		return string(rune(k))
	}
	return labels[k]
}

func (k Key) String() string {
	return k.Label()
}

var aliases = map[string]Key{
	"*":  KeyMultiply,
	"x":  KeyMultiply,
	"X":  KeyMultiply,
	"/":  KeyDivide,
	"AC": KeyClear,
	"BS": KeyBackspace,
	"T":  KeyToggleSign,
	"+-": KeyToggleSign,
}

// ParseKey maps a key label, such as "7", "÷", "CE" or "±", to its Key.
// A few ASCII spellings are accepted as well: "*", "x", "/", "AC", "BS",
// "T" and "+-".
func ParseKey(s string) (Key, error) {
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		return Key(s[0]), nil
	}
	if k, ok := aliases[s]; ok {
		return k, nil
	}
	for k, label := range labels {
		if label == s {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownKey, "%q", s)
}

// Press dispatches k to the matching Press method. Unknown keys are ignored.
func (s State) Press(k Key) State {
	if k.IsDigit() {
		return s.PressDigit(rune(k))
	}
	if op := k.Operator(); op != None {
		return s.PressOperator(op)
	}
	switch k {
	case KeyDot:
		return s.PressDot()
	case KeyEquals:
		return s.PressEquals()
	case KeyPercent:
		return s.PressPercent()
	case KeyClearEntry:
		return s.PressClearEntry()
	case KeyClear:
		return s.PressClear()
	case KeyBackspace:
		return s.PressBackspace()
	case KeyToggleSign:
		return s.PressToggleSign()
	}
	return s
}
