package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuimorse/internal/config"
	"github.com/verte-zerg/tuimorse/internal/morse"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEncodeCommand(t *testing.T) {
	out, err := execute(t, "encode", "sos", "now")
	require.NoError(t, err)
	assert.Equal(t, "... --- ... / -. --- .--\n", out)
}

func TestDecodeCommand(t *testing.T) {
	out, err := execute(t, "decode", "...", "---", "...", "/", "..-")
	require.NoError(t, err)
	assert.Equal(t, "SOS U\n", out)
}

func TestDecodeDashLeadingCodes(t *testing.T) {
	out, err := execute(t, "decode", "-.-", "---", "-..", "-----")
	require.NoError(t, err)
	assert.Equal(t, "KOD0\n", out)

	out, err = execute(t, "decode", "--", "--.-", "-")
	require.NoError(t, err)
	assert.Equal(t, "QT\n", out)
}

func TestDecodeReadsStdin(t *testing.T) {
	out, err := executeWithInput(t, "-.-. --.-\n\n-.. .\n", "decode")
	require.NoError(t, err)
	assert.Equal(t, "CQ\nDE\n", out)
}

func TestDecodeRequiresInput(t *testing.T) {
	_, err := execute(t, "decode")
	require.Error(t, err)
}

func TestScriptRoundTrip(t *testing.T) {
	out, err := execute(t, "script", "cq de")
	require.NoError(t, err)
	assert.Contains(t, out, "presses:")

	path := filepath.Join(t.TempDir(), "cq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	decoded, err := execute(t, "replay", path)
	require.NoError(t, err)
	assert.Equal(t, "CQ DE\n", decoded)
}

func TestDecodeScriptHonorsTimingFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k.yaml")
	script := "presses:\n  - {down: 0s, up: 200ms}\n  - {down: 300ms, up: 500ms}\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))

	out, err := execute(t, "replay", path)
	require.NoError(t, err)
	assert.Equal(t, "I\n", out)

	out, err = execute(t, "replay", path, "--threshold", "150ms")
	require.NoError(t, err)
	assert.Equal(t, "M\n", out)
}

func TestInvalidTimingsRejected(t *testing.T) {
	_, err := execute(t, "script", "e", "--letter-gap", "2s", "--word-gap", "1s")
	require.Error(t, err)
	assert.ErrorIs(t, err, morse.ErrGapOrder)
}

func TestConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuimorse", "config.toml")
	require.NoError(t, writeConfigTemplate(path))

	_, err := config.LoadConfig(path)
	require.NoError(t, err)

	uncommented := strings.NewReplacer("# dot-dash-threshold", "dot-dash-threshold", "# word-gap", "word-gap").
		Replace(defaultConfigTemplate())
	require.NoError(t, os.WriteFile(path, []byte(uncommented), 0o644))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Keyer.DotDashThreshold)
	assert.Equal(t, morse.DefaultDotDashThreshold, cfg.Keyer.DotDashThreshold.Duration)
	require.NotNil(t, cfg.Keyer.WordGap)
	assert.Equal(t, morse.DefaultWordGap, cfg.Keyer.WordGap.Duration)
}

func TestConfigFileTimingsApply(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[keyer]\ndot-dash-threshold = \"150ms\"\n"), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	_, cfg, err := loadKeyerConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, cfg.DotDashThreshold)
	assert.Equal(t, morse.DefaultLetterGap, cfg.LetterGap)
}

func TestDecodeEdgesStreamsText(t *testing.T) {
	cfg := morse.Config{
		DotDashThreshold: 30 * time.Millisecond,
		LetterGap:        100 * time.Millisecond,
		WordGap:          200 * time.Millisecond,
	}
	base := time.Unix(0, 0)
	src := func(ctx context.Context, edge func(bool, time.Time)) error {
		at := base
		for _, hold := range []time.Duration{10 * time.Millisecond, 10 * time.Millisecond, 60 * time.Millisecond} {
			edge(true, at)
			at = at.Add(hold)
			edge(false, at)
			at = at.Add(20 * time.Millisecond)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
			return nil
		}
	}

	var out bytes.Buffer
	require.NoError(t, decodeEdges(context.Background(), cfg, &out, zap.NewNop(), src))
	assert.Equal(t, "U ", out.String())
}

func TestStatsCommandEmpty(t *testing.T) {
	_, err := execute(t, "stats")
	require.NoError(t, err)
}
