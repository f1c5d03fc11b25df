package morse

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLoopDecodesWithWallClock(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := Config{DotDashThreshold: 30 * time.Millisecond, LetterGap: 40 * time.Millisecond, WordGap: 80 * time.Millisecond}

	var (
		mu   sync.Mutex
		text string
	)
	var eng *Engine
	loop := NewLoop(func() {
		mu.Lock()
		text = eng.Text()
		mu.Unlock()
	})
	var err error
	eng, err = NewEngine(cfg, loop)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	start := time.Unix(0, 0)
	loop.Do(func() { eng.PressStart(start) })
	loop.Do(func() { eng.PressEnd(start.Add(50 * time.Millisecond)) })

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return text == "T "
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, loop.Do(func() {}))
}

func TestLoopStoppedTimerNeverRuns(t *testing.T) {
	defer goleak.VerifyNone(t)

	loop := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	fired := make(chan struct{}, 1)
	stopped := make(chan bool, 1)
	loop.Do(func() {
		tm := loop.AfterFunc(time.Millisecond, func() { fired <- struct{}{} })
		time.Sleep(10 * time.Millisecond)
		stopped <- tm.Stop()
	})
	assert.True(t, <-stopped)

	select {
	case <-fired:
		t.Fatalf("stopped timer ran")
	case <-time.After(50 * time.Millisecond):
	}
	cancel()
	<-done
}
