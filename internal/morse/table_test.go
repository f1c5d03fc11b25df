package morse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableIsBijective(t *testing.T) {
	entries := Default.Entries()
	require.Len(t, entries, 36)
	for _, e := range entries {
		r, ok := Default.Letter(e.Code)
		require.True(t, ok)
		assert.Equal(t, e.Char, r)
	}
}

func TestNewTableRejectsDuplicates(t *testing.T) {
	_, err := NewTable([]Entry{{'A', ".-"}, {'B', ".-"}})
	require.Error(t, err)
	_, err = NewTable([]Entry{{'A', ".-.-.-"}})
	require.Error(t, err)
	_, err = NewTable([]Entry{{'A', ".x"}})
	require.Error(t, err)
}

func TestEncodeText(t *testing.T) {
	assert.Equal(t, "... --- ...", EncodeText("SOS"))
	assert.Equal(t, "... --- ...", EncodeText("sos"))
	assert.Equal(t, ".- / -...", EncodeText("a b"))
	assert.Equal(t, "? .----", EncodeText("!1"))
	assert.Equal(t, "", EncodeText(""))
}

func TestDecodeCode(t *testing.T) {
	assert.Equal(t, "SOS", DecodeCode("... --- ..."))
	assert.Equal(t, "A B", DecodeCode(".- / -..."))
	assert.Equal(t, "?", DecodeCode("......."))
}

func TestKeyingRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	for _, text := range []string{"SOS", "HELLO WORLD", "CQ DX 73", "PARIS 5NN ", "E", "0123456789"} {
		presses, tail := Keying(EncodeText(text), cfg)
		got, err := Replay(cfg, presses, tail)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

func TestKeyingRoundTripCustomTimings(t *testing.T) {
	cfg := Config{DotDashThreshold: 120 * time.Millisecond, LetterGap: 200 * time.Millisecond, WordGap: 450 * time.Millisecond}
	presses, tail := Keying(EncodeText("TEST 1"), cfg)
	got, err := Replay(cfg, presses, tail)
	require.NoError(t, err)
	assert.Equal(t, "TEST 1", got)
}

func TestReplayRejectsOverlap(t *testing.T) {
	_, err := Replay(DefaultConfig(), []Press{{Down: 0, Up: 100 * time.Millisecond}, {Down: 50 * time.Millisecond, Up: 150 * time.Millisecond}}, 0)
	require.Error(t, err)
}
