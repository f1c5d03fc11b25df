package keyer

import (
	"context"
	"fmt"
	"strings"
	"time"

	serial "go.bug.st/serial"
)

// Line selects the modem status input the key closes.
type Line string

// Status lines.
const (
	LineCTS Line = "cts"
	LineDSR Line = "dsr"
	LineDCD Line = "dcd"
	LineRI  Line = "ri"
)

// DefaultPoll is the status polling interval for a serial key.
const DefaultPoll = 2 * time.Millisecond

// ParseLine validates a status line name.
func ParseLine(s string) (Line, error) {
	switch l := Line(strings.ToLower(strings.TrimSpace(s))); l {
	case LineCTS, LineDSR, LineDCD, LineRI:
		return l, nil
	default:
		return "", fmt.Errorf("unknown status line %q (want cts, dsr, dcd or ri)", s)
	}
}

// StatusReader reads modem status bits. serial.Port implements it.
type StatusReader interface {
	GetModemStatusBits() (*serial.ModemStatusBits, error)
}

// SerialKey reports straight key edges from a serial status line.
type SerialKey struct {
	port StatusReader
	line Line
	poll time.Duration
	now  func() time.Time
	done func() error
}

// OpenSerialKey opens dev and raises DTR and RTS so they can feed the key
// contact back into the selected status line.
func OpenSerialKey(dev string, baud int, line Line, poll time.Duration) (*SerialKey, error) {
	p, err := serial.Open(dev, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial %s: %w", dev, err)
	}
	if err := p.SetDTR(true); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to raise DTR on %s: %w", dev, err)
	}
	if err := p.SetRTS(true); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to raise RTS on %s: %w", dev, err)
	}
	k := NewSerialKey(p, line, poll)
	k.done = p.Close
	return k, nil
}

// NewSerialKey wraps an already open status reader.
func NewSerialKey(port StatusReader, line Line, poll time.Duration) *SerialKey {
	if poll <= 0 {
		poll = DefaultPoll
	}
	return &SerialKey{port: port, line: line, poll: poll, now: time.Now}
}

// Close releases the port when the key owns it.
func (k *SerialKey) Close() error {
	if k.done == nil {
		return nil
	}
	return k.done()
}

// Run polls the status line until ctx is done, calling edge on every
// change with the time it was observed. A key found closed at start is
// reported as a press.
func (k *SerialKey) Run(ctx context.Context, edge func(down bool, at time.Time)) error {
	ticker := time.NewTicker(k.poll)
	defer ticker.Stop()
	down := false
	for {
		bits, err := k.port.GetModemStatusBits()
		if err != nil {
			return fmt.Errorf("failed to read modem status: %w", err)
		}
		if cur := k.closed(bits); cur != down {
			down = cur
			edge(down, k.now())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (k *SerialKey) closed(bits *serial.ModemStatusBits) bool {
	switch k.line {
	case LineDSR:
		return bits.DSR
	case LineDCD:
		return bits.DCD
	case LineRI:
		return bits.RI
	default:
		return bits.CTS
	}
}
