package countup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopDrivesAnimatorToTerminal(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	loop := NewLoop(200)
	done := make(chan string, 1)
	var seen []int

	var a *Animator
	a = New(loop, 8, WithSuffix("+"), WithDuration(60*time.Millisecond), OnUpdate(func(n int) {
		seen = append(seen, n)
		if a.State() == Terminal {
			done <- a.Text()
		}
	}))

	go loop.Run(ctx)
	loop.Post(a.Start)

	select {
	case text := <-done:
		assert.Equal(t, "8+", text)
	case <-ctx.Done():
		t.Fatal("animation did not finish")
	}

	for i := 1; i < len(seen); i++ {
		require.GreaterOrEqual(t, seen[i], seen[i-1])
	}
}

func TestLoopCancelFrame(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewLoop(500)
	fired := make(chan struct{}, 1)
	id := loop.RequestFrame(func(time.Duration) { fired <- struct{}{} })
	loop.CancelFrame(id)

	go loop.Run(ctx)

	select {
	case <-fired:
		t.Fatal("cancelled frame ran")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoopPostRunsOnLoopGoroutine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewLoop(0)
	ran := make(chan struct{})
	go loop.Run(ctx)
	loop.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("posted task did not run")
	}
}
