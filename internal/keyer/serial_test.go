package keyer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	serial "go.bug.st/serial"
	"go.uber.org/goleak"
)

type fakeStatus struct {
	states []bool
	i      int
	cancel context.CancelFunc
}

func (f *fakeStatus) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	if f.i >= len(f.states) {
		f.cancel()
		return &serial.ModemStatusBits{}, nil
	}
	down := f.states[f.i]
	f.i++
	return &serial.ModemStatusBits{DSR: down}, nil
}

type failingStatus struct{}

func (failingStatus) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	return nil, errors.New("device unplugged")
}

func TestParseLine(t *testing.T) {
	l, err := ParseLine(" DSR ")
	require.NoError(t, err)
	assert.Equal(t, LineDSR, l)
	_, err = ParseLine("rts")
	require.Error(t, err)
}

func TestSerialKeyReportsEdges(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fake := &fakeStatus{states: []bool{false, true, true, false, true, false}, cancel: cancel}
	key := NewSerialKey(fake, LineDSR, time.Millisecond)

	var edges []bool
	err := key.Run(ctx, func(down bool, _ time.Time) { edges = append(edges, down) })
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []bool{true, false, true, false}, edges)
	assert.NoError(t, key.Close())
}

func TestSerialKeyReadError(t *testing.T) {
	key := NewSerialKey(failingStatus{}, LineCTS, 0)
	err := key.Run(context.Background(), func(bool, time.Time) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device unplugged")
}
