package tui

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuimorse/internal/generator"
	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/morse"
	"github.com/verte-zerg/tuimorse/internal/store"
)

type testClock struct {
	now time.Time
}

func (c *testClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestModel(t *testing.T, cfg model.Config, words []string) (*Model, *testClock, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tuimorse.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	m, err := NewModel(Options{
		Config: cfg,
		Keyer:  morse.DefaultConfig(),
		Store:  st,
		Gen:    generator.NewWithSeed(1),
		Words:  words,
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	clock := &testClock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	m.now = func() time.Time { return clock.now }
	return m, clock, st
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// fireNext delivers the earliest armed timer, as its tick would.
func fireNext(t *testing.T, m *Model) {
	t.Helper()
	ids := make([]uint64, 0, len(m.sched.timers))
	for id := range m.sched.timers {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		t.Fatalf("no pending timers")
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	m.Update(timerFiredMsg{id: ids[0]})
}

func keyLetter(t *testing.T, m *Model, clock *testClock, code string) {
	t.Helper()
	for _, c := range code {
		clock.advance(600 * time.Millisecond)
		m.Update(runes(string(c)))
	}
	clock.advance(500 * time.Millisecond)
	fireNext(t, m)
}

func TestTapKeysResolveLetters(t *testing.T) {
	m, clock, _ := newTestModel(t, model.Config{Free: true}, nil)
	keyLetter(t, m, clock, "..-")
	if got := m.engine.Text(); got != "U" {
		t.Fatalf("expected U, got %q", got)
	}
	fireNext(t, m)
	if got := m.engine.Text(); got != "U " {
		t.Fatalf("expected word space, got %q", got)
	}
	if len(m.sched.timers) != 0 {
		t.Fatalf("expected no pending timers")
	}
}

func TestSpaceTogglesStraightKey(t *testing.T) {
	m, clock, _ := newTestModel(t, model.Config{Free: true}, nil)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if !m.engine.Pressed() {
		t.Fatalf("expected key down")
	}
	clock.advance(400 * time.Millisecond)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if m.engine.Pressed() || m.engine.Buffer() != "-" {
		t.Fatalf("expected dash in buffer, got %q", m.engine.Buffer())
	}
	if m.presses != 1 {
		t.Fatalf("expected 1 press, got %d", m.presses)
	}
}

func TestPracticeSessionIsStored(t *testing.T) {
	m, clock, st := newTestModel(t, model.Config{Words: 1}, []string{"SOS"})
	if string(m.targetRunes) != "SOS" {
		t.Fatalf("unexpected target %q", string(m.targetRunes))
	}
	keyLetter(t, m, clock, "...")
	keyLetter(t, m, clock, "-.-")
	if m.correct != 1 || m.incorrect != 1 {
		t.Fatalf("unexpected score: %d correct, %d incorrect", m.correct, m.incorrect)
	}
	keyLetter(t, m, clock, "...")

	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected stored session, got %d", len(sessions))
	}
	if sessions[0].Correct != 2 || sessions[0].Incorrect != 1 || sessions[0].Target != "SOS" {
		t.Fatalf("unexpected session: %+v", sessions[0])
	}
	if !m.hasLast || m.engine.Text() != "" || m.scored != 0 {
		t.Fatalf("expected fresh session after finishing")
	}
}

func TestUnknownLetterCounted(t *testing.T) {
	m, clock, _ := newTestModel(t, model.Config{Words: 1}, []string{"EE"})
	keyLetter(t, m, clock, ".......")
	if m.unknown != 1 || m.incorrect != 1 {
		t.Fatalf("expected unknown letter to count as incorrect, got %d/%d", m.unknown, m.incorrect)
	}
}

func TestClearCancelsTimers(t *testing.T) {
	m, _, _ := newTestModel(t, model.Config{Free: true}, nil)
	m.Update(runes("."))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if len(m.sched.timers) != 0 {
		t.Fatalf("expected timers to be cancelled")
	}
	m.Update(timerFiredMsg{id: 1})
	m.Update(timerFiredMsg{id: 2})
	if m.engine.Text() != "" || m.engine.Buffer() != "" {
		t.Fatalf("expected empty engine after clear")
	}
}

func TestTextModeEncodes(t *testing.T) {
	m, _, _ := newTestModel(t, model.Config{Free: true}, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.mode != modeText {
		t.Fatalf("expected text mode")
	}
	m.Update(runes("sos"))
	if got := m.input.Value(); got != "SOS" {
		t.Fatalf("expected uppercased input, got %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.encoded != "... --- ..." {
		t.Fatalf("unexpected encoding %q", m.encoded)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input reset")
	}
}

func TestThemeToggle(t *testing.T) {
	m, _, _ := newTestModel(t, model.Config{Free: true}, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if !m.redTheme {
		t.Fatalf("expected red theme")
	}
	if m.View() == "" {
		t.Fatalf("expected view output")
	}
}

func TestViewShowsDecodedOutput(t *testing.T) {
	m, clock, _ := newTestModel(t, model.Config{Free: true}, nil)
	keyLetter(t, m, clock, "...")
	if view := m.View(); !strings.Contains(view, "S█") {
		t.Fatalf("expected decoded output line, got:\n%s", view)
	}

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(runes("e"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if view := m.View(); !strings.Contains(view, ".█") {
		t.Fatalf("expected encoded output line, got:\n%s", view)
	}
}

func TestTapIgnoredWhileKeyHeld(t *testing.T) {
	m, clock, _ := newTestModel(t, model.Config{Free: true}, nil)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	clock.advance(100 * time.Millisecond)
	m.Update(runes("-"))
	if !m.engine.Pressed() || m.engine.Buffer() != "" || m.presses != 0 {
		t.Fatalf("expected held key to be untouched by tap, buffer %q", m.engine.Buffer())
	}
	clock.advance(50 * time.Millisecond)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if m.engine.Buffer() != "." {
		t.Fatalf("expected held press to key a dot, got %q", m.engine.Buffer())
	}
}
