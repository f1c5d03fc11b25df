// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	// Free disables the practice target; decoded text is not scored.
	Free         bool
	Words        int
	FocusWeak    bool
	WeakTop      int
	WeakFactor   float64
	WeakWindow   int
	WordListPath string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Chars       string
}

// SessionStats captures a completed keying session.
type SessionStats struct {
	StartedAt   time.Time
	EndedAt     time.Time
	Target      string
	Decoded     string
	ThresholdMs int64
	LetterGapMs int64
	WordGapMs   int64
	Presses     int
	Correct     int
	Incorrect   int
	Unknown     int
	DurationMs  int64
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Target     string
	Correct    int
	Incorrect  int
	Unknown    int
	DurationMs int64
}
