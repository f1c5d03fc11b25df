// Package main provides the CLI entrypoint for tuimorse.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuimorse/internal/applog"
	"github.com/verte-zerg/tuimorse/internal/config"
	"github.com/verte-zerg/tuimorse/internal/generator"
	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/morse"
	"github.com/verte-zerg/tuimorse/internal/stats"
	"github.com/verte-zerg/tuimorse/internal/statsui"
	"github.com/verte-zerg/tuimorse/internal/store"
	"github.com/verte-zerg/tuimorse/internal/tui"
	"github.com/verte-zerg/tuimorse/internal/wordlist"
)

const (
	defaultWords       = 5
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
)

var (
	keyerThreshold time.Duration
	keyerLetterGap time.Duration
	keyerWordGap   time.Duration
	logFile        string
	logVerbose     bool

	practiceFree       bool
	practiceWords      int
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
	practiceWordList   string

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsChars       string
	statsTUI         bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuimorse",
		Short:         "Morse code keyer and trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.DurationVar(&keyerThreshold, "threshold", morse.DefaultDotDashThreshold, "presses shorter than this are dots")
	pf.DurationVar(&keyerLetterGap, "letter-gap", morse.DefaultLetterGap, "idle time that ends a letter")
	pf.DurationVar(&keyerWordGap, "word-gap", morse.DefaultWordGap, "idle time that ends a word")
	pf.StringVar(&logFile, "log-file", "", "write diagnostic JSON logs to this file")
	pf.BoolVar(&logVerbose, "verbose", false, "log every key event")

	rootCmd.Flags().BoolVar(&practiceFree, "free", false, "key freely without a practice target")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per practice target")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak chars")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "word list file (default: built-in list)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newScriptCmd())
	rootCmd.AddCommand(newSerialCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

// loadKeyerConfig merges the [keyer] and [log] sections under the flags.
func loadKeyerConfig(cmd *cobra.Command) (config.FileConfig, morse.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, morse.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyDurationConfig(cmd, "threshold", &keyerThreshold, fileCfg.Keyer.DotDashThreshold)
	applyDurationConfig(cmd, "letter-gap", &keyerLetterGap, fileCfg.Keyer.LetterGap)
	applyDurationConfig(cmd, "word-gap", &keyerWordGap, fileCfg.Keyer.WordGap)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	applyBoolConfig(cmd, "verbose", &logVerbose, fileCfg.Log.Verbose)

	keyerCfg := morse.Config{
		DotDashThreshold: keyerThreshold,
		LetterGap:        keyerLetterGap,
		WordGap:          keyerWordGap,
	}
	if err := keyerCfg.Validate(); err != nil {
		return config.FileConfig{}, morse.Config{}, fmt.Errorf("invalid keyer timings: %w", err)
	}
	return fileCfg, keyerCfg, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, keyerCfg, err := loadKeyerConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)
	applyStringConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)

	cfg := model.Config{
		Free:         practiceFree,
		Words:        practiceWords,
		FocusWeak:    practiceFocusWeak,
		WeakTop:      practiceWeakTop,
		WeakFactor:   practiceWeakFactor,
		WeakWindow:   practiceWeakWindow,
		WordListPath: practiceWordList,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	wordsList := wordlist.Default()
	if cfg.WordListPath != "" {
		wordsList, err = wordlist.LoadWords(cfg.WordListPath)
		if err != nil {
			return fmt.Errorf("failed to load word list %s: %w", cfg.WordListPath, err)
		}
	}

	logger, err := applog.New(logFile, logVerbose)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	weakSet := map[rune]struct{}{}
	weakNoticePrinted := false
	if cfg.FocusWeak {
		aggs, err := st.GetWeakChars(context.Background(), cfg.WeakWindow)
		if err != nil {
			logErrf("failed to load weak chars: %v\n", err)
		} else {
			weakSet = stats.SelectWeakChars(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				logErrln("no stats available for weak-char focus yet; using normal generator")
				weakNoticePrinted = true
			}
		}
	}

	logger.Info("starting keyer",
		zap.Duration("threshold", keyerCfg.DotDashThreshold),
		zap.Duration("letter_gap", keyerCfg.LetterGap),
		zap.Duration("word_gap", keyerCfg.WordGap),
		zap.Bool("free", cfg.Free))

	m, err := tui.NewModel(tui.Options{
		Config:            cfg,
		Keyer:             keyerCfg,
		Store:             st,
		Gen:               generator.New(),
		Words:             wordsList,
		WeakSet:           weakSet,
		Logger:            logger,
		WeakNoticePrinted: weakNoticePrinted,
	})
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the commented template unless a config exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsChars, "char", "", "characters for per-char curves")
	cmd.Flags().BoolVar(&statsTUI, "tui", false, "browse stats interactively")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsCurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}

	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Chars:       statsChars,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsTUI {
		program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	return renderReport(cmd.OutOrStdout(), report, cfg, stats.TerminalWidth())
}

func renderReport(w io.Writer, report stats.Report, cfg model.StatsConfig, width int) error {
	if err := stats.RenderSummary(w, report.Sessions, time.Now()); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := stats.RenderCurves(w, report.Sessions, cfg.CurveWindow, width); err != nil {
		return err
	}
	if err := stats.RenderCharTable(w, report.CharAggsWindow); err != nil {
		return err
	}
	return stats.RenderCharCurves(w, report.Sessions, report.CharPerSession, report.CurveChars, cfg.CurveWindow, width)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value.Duration
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuimorse configuration
# Uncomment a value to enable it. CLI flags override config values.

[keyer]
# dot-dash-threshold = %q   # Presses shorter than this are dots
# letter-gap = %q           # Idle time that ends a letter
# word-gap = %q              # Idle time that ends a word (must exceed letter-gap)

[practice]
# words = %d               # Words per practice target
# focus-weak = false       # Bias practice toward weak characters
# weak-top = %d            # Number of weak characters to focus on
# weak-factor = %.1f       # Weight factor for weak characters
# weak-window = %d         # Number of recent sessions to compute weak chars
# wordlist = ""            # Word list file, one word per line

[serial]
# port = "/dev/ttyUSB0"    # Serial device wired to a straight key
# baud = %d
# line = %q               # Status line closed by the key: cts, dsr, dcd or ri
# poll = %q               # Status poll interval

[log]
# file = ""                # Diagnostic JSON log file
# verbose = false          # Log every key event
`,
		morse.DefaultDotDashThreshold.String(),
		morse.DefaultLetterGap.String(),
		morse.DefaultWordGap.String(),
		defaultWords,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		defaultBaud,
		defaultLine,
		defaultPoll.String(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
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
