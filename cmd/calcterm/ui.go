package main

import (
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

const helpLine = "0-9 . + - * / = %   ⌫ back   Del CE   Esc C   n ±   q quit"

var (
	trailStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	resultStyle = tcell.StyleDefault.Bold(true)
	errorStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	helpStyle   = tcell.StyleDefault.Dim(true)
)

type ui struct {
	screen tcell.Screen
	engine *calc.Engine
	logger *slog.Logger
}

func newUI(screen tcell.Screen, engine *calc.Engine, logger *slog.Logger) *ui {
	return &ui{screen: screen, engine: engine, logger: logger}
}

// run processes terminal events until the user quits.
func (u *ui) run() {
	u.draw()
	for {
		switch ev := u.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			u.screen.Sync()
			u.draw()
		case *tcell.EventKey:
			k, act := translate(ev)
			switch act {
			case actionQuit:
				return
			case actionPress:
				u.engine.Press(k)
				u.logger.Debug("key",
					"key", k.String(),
					"mode", u.engine.Mode().String(),
					"result", u.engine.ResultText(),
				)
				u.draw()
			}
		}
	}
}

func (u *ui) draw() {
	u.screen.Clear()
	width, _ := u.screen.Size()
	inner := width - 2

	style := resultStyle
	if u.engine.IsError() {
		style = errorStyle
	}
	u.drawRight(1, inner, trailStyle, u.engine.ExpressionText())
	u.drawRight(2, inner, style, u.engine.ResultText())
	u.drawRight(4, inner, helpStyle, helpLine)
	u.screen.Show()
}

// drawRight right-aligns text on row y within width columns, dropping
// leading characters that do not fit.
func (u *ui) drawRight(y, width int, style tcell.Style, text string) {
	if width <= 0 {
		return
	}
	text = fitRight(text, width)
	x := 1 + width - uniseg.StringWidth(text)

	state := -1
	for text != "" {
		var cluster string
		var w int
		cluster, text, w, state = uniseg.FirstGraphemeClusterInString(text, state)
		runes := []rune(cluster)
		u.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
}

// fitRight drops leading grapheme clusters until text is at most width
// columns wide.
func fitRight(text string, width int) string {
	state := -1
	for text != "" && uniseg.StringWidth(text) > width {
		_, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
	}
	return text
}
