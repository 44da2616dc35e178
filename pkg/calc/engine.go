package calc

// Engine holds the current State of one calculator.
type Engine struct {
	state State
}

func NewEngine() *Engine {
	return &Engine{}
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Press(k Key) {
	e.state = e.state.Press(k)
}

func (e *Engine) PressDigit(d rune) {
	e.state = e.state.PressDigit(d)
}

func (e *Engine) PressDot() {
	e.state = e.state.PressDot()
}

func (e *Engine) PressOperator(op Operator) {
	e.state = e.state.PressOperator(op)
}

func (e *Engine) PressEquals() {
	e.state = e.state.PressEquals()
}

func (e *Engine) PressPercent() {
	e.state = e.state.PressPercent()
}

func (e *Engine) PressClearEntry() {
	e.state = e.state.PressClearEntry()
}

func (e *Engine) PressClear() {
	e.state = e.state.PressClear()
}

func (e *Engine) PressBackspace() {
	e.state = e.state.PressBackspace()
}

func (e *Engine) PressToggleSign() {
	e.state = e.state.PressToggleSign()
}

func (e *Engine) ResultText() string {
	return e.state.ResultText()
}

func (e *Engine) ExpressionText() string {
	return e.state.ExpressionText()
}

func (e *Engine) IsError() bool {
	return e.state.IsError()
}

func (e *Engine) IsInputEnabled() bool {
	return e.state.IsInputEnabled()
}

func (e *Engine) Mode() Mode {
	return e.state.Mode()
}
