package morse

import (
	"fmt"
	"strings"
	"time"
)

// DecoderState is the mutable state of one decoding session.
type DecoderState struct {
	buffer    []byte
	text      []rune
	pressedAt time.Time
	pressed   bool

	letterTimer Timer
	wordTimer   Timer
}

// Engine decodes key presses into text for one input session.
// It is not safe for concurrent use; drive it from a single event loop.
type Engine struct {
	cfg   Config
	table *Table
	sched Scheduler
	state DecoderState
}

// NewEngine returns an engine using the default table.
func NewEngine(cfg Config, sched Scheduler) (*Engine, error) {
	return NewEngineWithTable(cfg, sched, Default)
}

// NewEngineWithTable returns an engine decoding with table.
func NewEngineWithTable(cfg Config, sched Scheduler, table *Table) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keyer config: %w", err)
	}
	if sched == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if table == nil {
		table = Default
	}
	return &Engine{cfg: cfg, table: table, sched: sched}, nil
}

// Config returns the engine timings.
func (e *Engine) Config() Config {
	return e.cfg
}

// ClassifySymbol classifies a press duration with the engine threshold.
func (e *Engine) ClassifySymbol(d time.Duration) Symbol {
	return e.cfg.ClassifySymbol(d)
}

// PressStart records a key-down. Pending letter and word timers are
// cancelled so a letter in progress is not finalized mid-sequence.
// A repeated start while the key is held keeps the first timestamp.
func (e *Engine) PressStart(at time.Time) {
	e.stopTimers()
	if e.state.pressed {
		return
	}
	e.state.pressed = true
	e.state.pressedAt = at
}

// PressEnd records a key-up, appends the classified symbol to the buffer
// and arms fresh letter and word timers. Without a preceding PressStart the
// call is ignored and ok is false.
func (e *Engine) PressEnd(at time.Time) (sym Symbol, ok bool) {
	if !e.state.pressed {
		return Dot, false
	}
	d := at.Sub(e.state.pressedAt)
	if d < 0 {
		d = 0
	}
	e.state.pressed = false
	e.state.pressedAt = time.Time{}

	sym = e.cfg.ClassifySymbol(d)
	e.state.buffer = append(e.state.buffer, sym.String()[0])

	e.stopTimers()
	e.state.letterTimer = e.sched.AfterFunc(e.cfg.LetterGap, e.resolveLetter)
	e.state.wordTimer = e.sched.AfterFunc(e.cfg.WordGap, e.appendSpace)
	return sym, true
}

// Clear cancels pending timers and empties the buffer and decoded text.
func (e *Engine) Clear() {
	e.stopTimers()
	e.state.buffer = e.state.buffer[:0]
	e.state.text = e.state.text[:0]
	e.state.pressed = false
	e.state.pressedAt = time.Time{}
}

// Buffer returns the symbols of the letter in progress.
func (e *Engine) Buffer() string {
	return string(e.state.buffer)
}

// Text returns the decoded text so far.
func (e *Engine) Text() string {
	return string(e.state.text)
}

// Pressed reports whether the key is currently down.
func (e *Engine) Pressed() bool {
	return e.state.pressed
}

// Pending reports whether a letter or word timer is armed.
func (e *Engine) Pending() bool {
	return e.state.letterTimer != nil || e.state.wordTimer != nil
}

func (e *Engine) resolveLetter() {
	e.state.letterTimer = nil
	if len(e.state.buffer) == 0 {
		return
	}
	r, ok := e.table.Letter(string(e.state.buffer))
	if !ok {
		r = Placeholder
	}
	e.state.text = append(e.state.text, r)
	e.state.buffer = e.state.buffer[:0]
}

func (e *Engine) appendSpace() {
	e.state.wordTimer = nil
	e.state.text = append(e.state.text, ' ')
}

func (e *Engine) stopTimers() {
	if e.state.letterTimer != nil {
		e.state.letterTimer.Stop()
		e.state.letterTimer = nil
	}
	if e.state.wordTimer != nil {
		e.state.wordTimer.Stop()
		e.state.wordTimer = nil
	}
}

// EncodeText converts text to space-separated morse tokens using the
// default table. Spaces become "/", unknown characters "?".
func EncodeText(text string) string {
	return Default.Encode(text)
}

// Encode converts text using t.
func (t *Table) Encode(text string) string {
	upper := strings.ToUpper(text)
	tokens := make([]string, 0, len(upper))
	for _, r := range upper {
		switch {
		case r == ' ':
			tokens = append(tokens, WordSeparator)
		default:
			code, ok := t.Code(r)
			if !ok {
				code = string(Placeholder)
			}
			tokens = append(tokens, code)
		}
	}
	return strings.Join(tokens, " ")
}

// DecodeCode converts space-separated morse tokens back to text using the
// default table. "/" becomes a space and unknown tokens "?".
func DecodeCode(code string) string {
	return Default.Decode(code)
}

// Decode converts morse tokens using t.
func (t *Table) Decode(code string) string {
	var b strings.Builder
	for _, tok := range strings.Fields(code) {
		if tok == WordSeparator {
			b.WriteByte(' ')
			continue
		}
		r, ok := t.Letter(tok)
		if !ok {
			r = Placeholder
		}
		b.WriteRune(r)
	}
	return b.String()
}
