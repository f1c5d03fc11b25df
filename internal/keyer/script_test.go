package keyer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuimorse/internal/morse"
)

func TestLoadScriptWithPresses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "u.yaml")
	body := `presses:
  - {down: 0ms, up: 100ms}
  - {down: 200ms, up: 300ms}
  - {down: 400ms, up: 800ms}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	require.Len(t, s.Presses, 3)
	assert.Equal(t, 400*time.Millisecond, s.Presses[2].Down)

	text, err := s.Replay(morse.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "U", text)
}

func TestScriptCodeReplay(t *testing.T) {
	text, err := Script{Code: "... --- ... /"}.Replay(morse.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "SOS ", text)
}

func TestScriptTailOverride(t *testing.T) {
	s := Script{Presses: []PressSpec{{Down: 0, Up: 50 * time.Millisecond}}, Tail: 2 * time.Second}
	text, err := s.Replay(morse.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "E ", text)
}

func TestScriptResolveErrors(t *testing.T) {
	_, _, err := Script{}.Resolve(morse.DefaultConfig())
	require.ErrorIs(t, err, ErrEmptyScript)

	_, _, err = Script{Code: ".", Presses: []PressSpec{{Up: time.Millisecond}}}.Resolve(morse.DefaultConfig())
	require.Error(t, err)
}

func TestWriteScriptRoundTrip(t *testing.T) {
	cfg := morse.DefaultConfig()
	presses, tail := morse.Keying(morse.EncodeText("CQ DE K1ABC"), cfg)

	var buf bytes.Buffer
	require.NoError(t, WriteScript(&buf, FromPresses(presses, tail)))
	assert.Contains(t, buf.String(), "presses:")

	path := filepath.Join(t.TempDir(), "cq.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	s, err := LoadScript(path)
	require.NoError(t, err)

	text, err := s.Replay(cfg)
	require.NoError(t, err)
	assert.Equal(t, "CQ DE K1ABC", text)
}
