package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

type action int

const (
	actionNone action = iota
	actionPress
	actionQuit
)

// translate maps a terminal key event to a calculator key.
func translate(ev *tcell.EventKey) (calc.Key, action) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return 0, actionQuit
	case tcell.KeyEnter:
		return calc.KeyEquals, actionPress
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return calc.KeyBackspace, actionPress
	case tcell.KeyDelete:
		return calc.KeyClearEntry, actionPress
	case tcell.KeyEscape:
		return calc.KeyClear, actionPress
	case tcell.KeyRune:
		return translateRune(ev.Rune())
	}
	return 0, actionNone
}

func translateRune(r rune) (calc.Key, action) {
	switch r {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
		'.', '+', '-', '*', '/', '=', '%':
		return calc.Key(r), actionPress
	case ',':
		return calc.KeyDot, actionPress
	case 'x', 'X':
		return calc.KeyMultiply, actionPress
	case 'c', 'C':
		return calc.KeyClear, actionPress
	case 'n', 'N', '_':
		return calc.KeyToggleSign, actionPress
	case 'q', 'Q':
		return 0, actionQuit
	}
	return 0, actionNone
}
