// Package tui provides the Bubble Tea morse keyer.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuimorse/internal/generator"
	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/morse"
	statsPkg "github.com/verte-zerg/tuimorse/internal/stats"
	"github.com/verte-zerg/tuimorse/internal/store"
)

const title = "Morse Code Terminal"

type mode int

const (
	modeMorse mode = iota
	modeText
)

type charStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// Model implements the Bubble Tea keyer UI.
type Model struct {
	config            model.Config
	keyer             morse.Config
	store             *store.Store
	gen               *generator.Generator
	words             []string
	weakSet           map[rune]struct{}
	weakNoticePrinted bool
	logger            *zap.Logger
	now               func() time.Time

	sched  *teaScheduler
	engine *morse.Engine

	width  int
	height int

	mode     mode
	redTheme bool
	input    textinput.Model
	encoded  string

	targetRunes []rune
	scored      int

	started       bool
	startedAt     time.Time
	prevCorrectAt time.Time
	presses       int
	correct       int
	incorrect     int
	unknown       int
	charStats     map[rune]*charStat

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM       float64
	allAcc       float64
	allCorrect   int
	allIncorrect int
	allDuration  int64
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	greenStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	redStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// Options carries the collaborators of a Model.
type Options struct {
	Config  model.Config
	Keyer   morse.Config
	Store   *store.Store
	Gen     *generator.Generator
	Words   []string
	WeakSet map[rune]struct{}
	Logger  *zap.Logger
	// WeakNoticePrinted suppresses the "no weak stats yet" notice.
	WeakNoticePrinted bool
}

// NewModel constructs a keyer TUI model.
func NewModel(opts Options) (*Model, error) {
	sched := newTeaScheduler()
	engine, err := morse.NewEngine(opts.Keyer, sched)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gen := opts.Gen
	if gen == nil {
		gen = generator.New()
	}
	input := textinput.New()
	input.Placeholder = "Enter text here..."
	input.CharLimit = 256

	m := &Model{
		config:            opts.Config,
		keyer:             opts.Keyer,
		store:             opts.Store,
		gen:               gen,
		words:             opts.Words,
		weakSet:           opts.WeakSet,
		weakNoticePrinted: opts.WeakNoticePrinted,
		logger:            logger,
		now:               time.Now,
		sched:             sched,
		engine:            engine,
		input:             input,
	}
	m.resetSession(true)
	m.loadFooterStats()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case timerFiredMsg:
		if m.sched.fire(msg.id) {
			m.afterEngine()
		}
		return m, m.sched.drain()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.toggleMode()
			return m, m.focusCmd()
		case tea.KeyCtrlL:
			m.clearAll()
			return m, nil
		case tea.KeyCtrlT:
			m.redTheme = !m.redTheme
			return m, nil
		}
		if m.mode == modeText {
			return m.updateText(msg)
		}
		m.handleMorseKey(msg)
		return m, m.sched.drain()
	default:
		return m, nil
	}
}

func (m *Model) updateText(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.encoded = morse.EncodeText(m.input.Value())
		m.input.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.input.SetValue(strings.ToUpper(m.input.Value()))
	return m, cmd
}

func (m *Model) handleMorseKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeySpace:
		m.toggleKey()
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			switch r {
			case '.', 'j':
				m.tap(m.keyer.DotLength())
			case '-', 'k':
				m.tap(m.keyer.DashLength())
			case ' ':
				m.toggleKey()
			}
		}
	}
}

// toggleKey emulates a straight key: terminals report no key release, so
// one space press closes the key and the next opens it.
func (m *Model) toggleKey() {
	now := m.now()
	if !m.engine.Pressed() {
		m.engine.PressStart(now)
		m.logger.Debug("key down")
		return
	}
	m.release(now)
}

// tap keys a press of the given length ending now. Taps are ignored while
// the space key is held down.
func (m *Model) tap(hold time.Duration) {
	if m.engine.Pressed() {
		return
	}
	now := m.now()
	m.engine.PressStart(now.Add(-hold))
	m.release(now)
}

func (m *Model) release(at time.Time) {
	sym, ok := m.engine.PressEnd(at)
	if !ok {
		return
	}
	if !m.started {
		m.started = true
		m.startedAt = at
	}
	m.presses++
	m.logger.Debug("key up", zap.Stringer("symbol", sym), zap.String("buffer", m.engine.Buffer()))
}

func (m *Model) toggleMode() {
	if m.mode == modeMorse {
		m.mode = modeText
	} else {
		m.mode = modeMorse
	}
	m.clearAll()
}

func (m *Model) focusCmd() tea.Cmd {
	if m.mode == modeText {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// clearAll empties the decoder and restarts scoring of the current target.
func (m *Model) clearAll() {
	m.resetSession(false)
	m.encoded = ""
	m.input.Reset()
}

// afterEngine scores letters resolved since the last call.
func (m *Model) afterEngine() {
	if m.config.Free {
		return
	}
	letters := []rune(strings.ReplaceAll(m.engine.Text(), " ", ""))
	expected := []rune(strings.ReplaceAll(string(m.targetRunes), " ", ""))
	for m.scored < len(letters) && m.scored < len(expected) {
		m.updateStats(expected[m.scored], letters[m.scored])
		m.scored++
	}
	if len(expected) > 0 && m.scored >= len(expected) {
		m.finishSession()
		m.resetSession(true)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := m.width
	if contentWidth > 0 {
		contentWidth = int(float64(m.width) * 0.70)
		if contentWidth < 1 {
			contentWidth = 1
		}
	}
	theme := greenStyle
	if m.redTheme {
		theme = redStyle
	}

	sections := []string{theme.Bold(true).Render(title)}
	if m.mode == modeMorse {
		sections = append(sections,
			footerStyle.Render("Hold SPACE (press to close, again to open) or tap . / - to key"),
			footerStyle.Render("Short = · , Long = − , Pause = new letter"),
		)
		if !m.config.Free && len(m.targetRunes) > 0 {
			aligned := alignDecoded(m.targetRunes, m.engine.Text())
			styled := buildStyledRunes(m.targetRunes, aligned, len(aligned))
			sections = append(sections, "", wrapStyledRunes(styled, contentWidth))
		}
		sections = append(sections, "", "Morse: "+m.renderBuffer())
	} else {
		sections = append(sections,
			footerStyle.Render("Type text and press Enter to convert to Morse"),
			"",
			m.input.View(),
		)
	}
	output := m.engine.Text()
	if m.mode == modeText {
		output = m.encoded
	}
	sections = append(sections, "", wrapStyledRunes(plainRunes(output+"█", func(r string) string { return theme.Render(r) }), contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderBuffer() string {
	key := "○"
	if m.engine.Pressed() {
		key = "●"
	}
	return key + " " + m.engine.Buffer()
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if !m.config.Free && len(m.targetRunes) > 0 {
		expected := len([]rune(strings.ReplaceAll(string(m.targetRunes), " ", "")))
		progress := 0
		if expected > 0 {
			progress = int(float64(m.scored) / float64(expected) * 100)
		}
		segments = append(segments, fmt.Sprintf("Progress %d%%", progress))
	}
	segments = append(segments, fmt.Sprintf("%v / %v / %v", m.keyer.DotDashThreshold, m.keyer.LetterGap, m.keyer.WordGap))
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100))
	}
	if m.allCorrect+m.allIncorrect > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc*100))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	ctx := context.Background()
	sessions, err := m.store.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		logErrf("failed to load session stats: %v\n", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	wpm, _, acc := statsPkg.SessionMetrics(last.Correct, last.Incorrect, last.DurationMs)
	m.lastWPM = wpm
	m.lastAcc = acc
	m.hasLast = true

	for _, s := range sessions {
		m.allCorrect += s.Correct
		m.allIncorrect += s.Incorrect
		m.allDuration += s.DurationMs
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	wpm, _, acc := statsPkg.SessionMetrics(m.allCorrect, m.allIncorrect, m.allDuration)
	m.allWPM = wpm
	m.allAcc = acc
}

func (m *Model) updateStats(expected, got rune) {
	entry := m.charEntry(expected)
	if got == morse.Placeholder {
		m.unknown++
	}
	if got == expected {
		m.correct++
		entry.correct++
		now := m.now()
		if !m.prevCorrectAt.IsZero() {
			entry.latencySumMs += now.Sub(m.prevCorrectAt).Milliseconds()
			entry.latencyCount++
		}
		m.prevCorrectAt = now
		m.logger.Debug("letter", zap.String("char", string(got)), zap.Bool("correct", true))
		return
	}
	m.incorrect++
	entry.incorrect++
	m.logger.Debug("letter", zap.String("char", string(got)), zap.String("expected", string(expected)), zap.Bool("correct", false))
}

func (m *Model) charEntry(expected rune) *charStat {
	if m.charStats == nil {
		m.charStats = map[rune]*charStat{}
	}
	entry, ok := m.charStats[expected]
	if !ok {
		entry = &charStat{}
		m.charStats[expected] = entry
	}
	return entry
}

func (m *Model) resetSession(newTarget bool) {
	m.engine.Clear()
	m.scored = 0
	m.started = false
	m.startedAt = time.Time{}
	m.prevCorrectAt = time.Time{}
	m.presses = 0
	m.correct = 0
	m.incorrect = 0
	m.unknown = 0
	m.charStats = map[rune]*charStat{}
	if !newTarget {
		return
	}
	m.targetRunes = nil
	if m.config.Free || len(m.words) == 0 {
		return
	}
	m.targetRunes = []rune(m.generateText())
}

func (m *Model) generateText() string {
	var words []string
	if m.config.FocusWeak && len(m.weakSet) > 0 {
		words = m.gen.GenerateWeighted(m.words, m.config.Words, m.weakSet, m.config.WeakFactor)
	} else {
		words = m.gen.Generate(m.words, m.config.Words)
	}
	return strings.Join(words, " ")
}

func (m *Model) finishSession() {
	if !m.started {
		return
	}
	endedAt := m.now()
	stats := model.SessionStats{
		StartedAt:   m.startedAt,
		EndedAt:     endedAt,
		Target:      string(m.targetRunes),
		Decoded:     strings.TrimSpace(m.engine.Text()),
		ThresholdMs: m.keyer.DotDashThreshold.Milliseconds(),
		LetterGapMs: m.keyer.LetterGap.Milliseconds(),
		WordGapMs:   m.keyer.WordGap.Milliseconds(),
		Presses:     m.presses,
		Correct:     m.correct,
		Incorrect:   m.incorrect,
		Unknown:     m.unknown,
		DurationMs:  endedAt.Sub(m.startedAt).Milliseconds(),
	}

	charStats := make([]model.CharStats, 0, len(m.charStats))
	for ch, entry := range m.charStats {
		charStats = append(charStats, model.CharStats{
			Char:         string(ch),
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}

	if m.store != nil {
		if _, err := m.store.InsertSession(context.Background(), stats, charStats); err != nil {
			logErrf("failed to save session: %v\n", err)
		}
	}
	m.logger.Info("session finished",
		zap.String("target", stats.Target),
		zap.String("decoded", stats.Decoded),
		zap.Int("correct", stats.Correct),
		zap.Int("incorrect", stats.Incorrect),
		zap.Int64("duration_ms", stats.DurationMs))

	wpm, _, acc := statsPkg.SessionMetrics(stats.Correct, stats.Incorrect, stats.DurationMs)
	m.lastWPM = wpm
	m.lastAcc = acc
	m.hasLast = true
	m.allCorrect += stats.Correct
	m.allIncorrect += stats.Incorrect
	m.allDuration += stats.DurationMs
	m.recomputeAllTime()

	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) refreshWeakSet() {
	if m.store == nil {
		return
	}
	aggs, err := m.store.GetWeakChars(context.Background(), m.config.WeakWindow)
	if err != nil {
		logErrf("failed to load weak chars: %v\n", err)
		return
	}
	if len(aggs) == 0 {
		if !m.weakNoticePrinted {
			logErrln("no stats available for weak-char focus yet; using normal generator")
			m.weakNoticePrinted = true
		}
		m.weakSet = map[rune]struct{}{}
		return
	}
	m.weakSet = statsPkg.SelectWeakChars(aggs, m.config.WeakTop)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
