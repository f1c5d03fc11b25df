// Package keyer provides input sources that drive a morse engine: timed
// press scripts and a straight key wired to a serial port.
package keyer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuimorse/internal/morse"
)

// PressSpec is one press in a script, as offsets from the script start.
type PressSpec struct {
	Down time.Duration `yaml:"down"`
	Up   time.Duration `yaml:"up"`
}

// Script is a YAML keying script. Either Code or Presses is set.
type Script struct {
	Code    string        `yaml:"code,omitempty"`
	Presses []PressSpec   `yaml:"presses,omitempty"`
	Tail    time.Duration `yaml:"tail,omitempty"`
}

// ErrEmptyScript indicates a script with neither code nor presses.
var ErrEmptyScript = errors.New("script has no code or presses")

// LoadScript reads a YAML script from path.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script: %w", err)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("failed to parse script: %w", err)
	}
	return s, nil
}

// WriteScript encodes s as YAML.
func WriteScript(w io.Writer, s Script) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode script: %w", err)
	}
	return enc.Close()
}

// FromPresses builds a script from engine presses.
func FromPresses(presses []morse.Press, tail time.Duration) Script {
	specs := make([]PressSpec, len(presses))
	for i, p := range presses {
		specs[i] = PressSpec{Down: p.Down, Up: p.Up}
	}
	return Script{Presses: specs, Tail: tail}
}

// Resolve returns the presses and trailing idle time to replay under cfg.
// A code-only script is keyed with nominal timings for cfg. A zero Tail
// waits long enough to resolve the last letter without adding a space.
func (s Script) Resolve(cfg morse.Config) ([]morse.Press, time.Duration, error) {
	if s.Code != "" && len(s.Presses) > 0 {
		return nil, 0, fmt.Errorf("script sets both code and presses")
	}
	var (
		presses []morse.Press
		tail    time.Duration
	)
	switch {
	case s.Code != "":
		presses, tail = morse.Keying(s.Code, cfg)
	case len(s.Presses) > 0:
		presses = make([]morse.Press, len(s.Presses))
		for i, p := range s.Presses {
			presses[i] = morse.Press{Down: p.Down, Up: p.Up}
		}
		tail = cfg.LetterGap
	default:
		return nil, 0, ErrEmptyScript
	}
	if s.Tail > 0 {
		tail = s.Tail
	}
	return presses, tail, nil
}

// Replay decodes the script under cfg.
func (s Script) Replay(cfg morse.Config) (string, error) {
	presses, tail, err := s.Resolve(cfg)
	if err != nil {
		return "", err
	}
	return morse.Replay(cfg, presses, tail)
}
