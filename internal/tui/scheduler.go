package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuimorse/internal/morse"
)

type timerFiredMsg struct {
	id uint64
}

// teaScheduler turns engine timers into Bubble Tea ticks so callbacks run
// inside Update, on the same loop as key events.
type teaScheduler struct {
	next   uint64
	timers map[uint64]*teaTimer
	cmds   []tea.Cmd
}

type teaTimer struct {
	s  *teaScheduler
	id uint64
	f  func()
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{timers: map[uint64]*teaTimer{}}
}

func (s *teaScheduler) AfterFunc(d time.Duration, f func()) morse.Timer {
	s.next++
	id := s.next
	t := &teaTimer{s: s, id: id, f: f}
	s.timers[id] = t
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{id: id}
	}))
	return t
}

func (t *teaTimer) Stop() bool {
	if _, ok := t.s.timers[t.id]; !ok {
		return false
	}
	delete(t.s.timers, t.id)
	return true
}

// fire runs the timer callback unless it was stopped.
func (s *teaScheduler) fire(id uint64) bool {
	t, ok := s.timers[id]
	if !ok {
		return false
	}
	delete(s.timers, id)
	t.f()
	return true
}

// drain returns the ticks scheduled since the last call.
func (s *teaScheduler) drain() tea.Cmd {
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}
