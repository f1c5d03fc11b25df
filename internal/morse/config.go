package morse

import (
	"errors"
	"time"
)

// Default timings.
const (
	DefaultDotDashThreshold = 300 * time.Millisecond
	DefaultLetterGap        = 500 * time.Millisecond
	DefaultWordGap          = 1000 * time.Millisecond
)

var (
	// ErrInvalidThreshold indicates the dot/dash threshold must be positive.
	ErrInvalidThreshold = errors.New("dot/dash threshold must be positive")
	// ErrInvalidLetterGap indicates the letter gap must be positive.
	ErrInvalidLetterGap = errors.New("letter gap must be positive")
	// ErrGapOrder indicates the letter gap must be shorter than the word gap.
	ErrGapOrder = errors.New("letter gap must be shorter than word gap")
)

// Config holds the decoder timings.
type Config struct {
	// DotDashThreshold separates dot from dash. Presses shorter than it are dots.
	DotDashThreshold time.Duration
	// LetterGap is the idle time after a release that finalizes a letter.
	LetterGap time.Duration
	// WordGap is the idle time after a release that appends a word space.
	WordGap time.Duration
}

// DefaultConfig returns 300ms / 500ms / 1000ms.
func DefaultConfig() Config {
	return Config{
		DotDashThreshold: DefaultDotDashThreshold,
		LetterGap:        DefaultLetterGap,
		WordGap:          DefaultWordGap,
	}
}

// Validate checks the timings. LetterGap < WordGap must hold so a letter
// always resolves before the word space that follows it.
func (c Config) Validate() error {
	if c.DotDashThreshold <= 0 {
		return ErrInvalidThreshold
	}
	if c.LetterGap <= 0 {
		return ErrInvalidLetterGap
	}
	if c.LetterGap >= c.WordGap {
		return ErrGapOrder
	}
	return nil
}

// ClassifySymbol returns Dot for d < threshold, otherwise Dash.
func (c Config) ClassifySymbol(d time.Duration) Symbol {
	if d < c.DotDashThreshold {
		return Dot
	}
	return Dash
}

// DotLength is the nominal hold time used to key a dot.
func (c Config) DotLength() time.Duration {
	return c.DotDashThreshold / 3
}

// DashLength is the nominal hold time used to key a dash.
func (c Config) DashLength() time.Duration {
	return c.DotDashThreshold * 3 / 2
}
