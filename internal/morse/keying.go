package morse

import (
	"fmt"
	"strings"
	"time"
)

// Press is a key-down/key-up pair, as offsets from the start of a script.
type Press struct {
	Down time.Duration
	Up   time.Duration
}

// Duration returns how long the key was held.
func (p Press) Duration() time.Duration {
	return p.Up - p.Down
}

// Keying converts morse tokens (as produced by EncodeText) into a press
// script that decodes back to the same text under cfg, plus the idle time
// to wait after the last release. Tokens other than dots, dashes and "/"
// are skipped. A "/" before the first letter has no press to time from
// and is dropped, as is every "/" after the first in a run.
func Keying(code string, cfg Config) (presses []Press, tail time.Duration) {
	dot := cfg.DotLength()
	dash := cfg.DashLength()
	intra := cfg.LetterGap / 2
	inter := cfg.LetterGap + (cfg.WordGap-cfg.LetterGap)/2
	word := cfg.WordGap + cfg.LetterGap/2

	var at, gap time.Duration
	for _, tok := range strings.Fields(code) {
		if tok == WordSeparator {
			if len(presses) > 0 {
				gap = word
			}
			continue
		}
		if !isCode(tok) {
			continue
		}
		if len(presses) > 0 && gap == 0 {
			gap = inter
		}
		for i := 0; i < len(tok); i++ {
			at += gap
			hold := dot
			if tok[i] == '-' {
				hold = dash
			}
			presses = append(presses, Press{Down: at, Up: at + hold})
			at += hold
			gap = intra
		}
		gap = 0
	}
	if gap == word {
		return presses, word
	}
	return presses, inter
}

func isCode(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] != '.' && tok[i] != '-' {
			return false
		}
	}
	return true
}

// Replay runs presses through a fresh Engine on a VirtualClock, waits tail
// after the last release, and returns the decoded text. Presses must be
// ordered and non-overlapping.
func Replay(cfg Config, presses []Press, tail time.Duration) (string, error) {
	start := time.Unix(0, 0)
	clock := NewVirtualClock(start)
	eng, err := NewEngine(cfg, clock)
	if err != nil {
		return "", err
	}
	var last time.Duration
	for i, p := range presses {
		if p.Up < p.Down {
			return "", fmt.Errorf("press %d: release before press", i)
		}
		if p.Down < last {
			return "", fmt.Errorf("press %d: overlaps previous press", i)
		}
		clock.AdvanceTo(start.Add(p.Down))
		eng.PressStart(clock.Now())
		clock.AdvanceTo(start.Add(p.Up))
		eng.PressEnd(clock.Now())
		last = p.Up
	}
	clock.Advance(tail)
	return eng.Text(), nil
}
