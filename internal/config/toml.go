// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Keyer    KeyerConfig    `toml:"keyer"`
	Practice PracticeConfig `toml:"practice"`
	Serial   SerialConfig   `toml:"serial"`
	Log      LogConfig      `toml:"log"`
}

// KeyerConfig maps decoder timings. Values are Go duration strings.
type KeyerConfig struct {
	DotDashThreshold *Duration `toml:"dot-dash-threshold"`
	LetterGap        *Duration `toml:"letter-gap"`
	WordGap          *Duration `toml:"word-gap"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Words      *int     `toml:"words"`
	FocusWeak  *bool    `toml:"focus-weak"`
	WeakTop    *int     `toml:"weak-top"`
	WeakFactor *float64 `toml:"weak-factor"`
	WeakWindow *int     `toml:"weak-window"`
	WordList   *string  `toml:"wordlist"`
}

// SerialConfig maps the hardware straight key settings.
type SerialConfig struct {
	Port *string   `toml:"port"`
	Baud *int      `toml:"baud"`
	Line *string   `toml:"line"`
	Poll *Duration `toml:"poll"`
}

// LogConfig maps diagnostic logging settings.
type LogConfig struct {
	File    *string `toml:"file"`
	Verbose *bool   `toml:"verbose"`
}

// Duration decodes TOML strings such as "300ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
