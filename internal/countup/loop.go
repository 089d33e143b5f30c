package countup

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameRate is the tick rate of a Loop created with a non-positive fps.
const DefaultFrameRate = 60

// Loop is a FrameScheduler backed by a ticker. Frames and posted tasks all
// run on the goroutine that called Run, so whatever they touch needs no
// locking of its own.
type Loop struct {
	interval time.Duration
	epoch    time.Time

	mu    sync.Mutex
	queue frameQueue
	tasks []func()
	wake  chan struct{}
}

func NewLoop(fps int) *Loop {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		epoch:    time.Now(),
		wake:     make(chan struct{}, 1),
	}
}

func (l *Loop) RequestFrame(fn FrameFunc) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queue.add(fn)
}

func (l *Loop) CancelFrame(id FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queue.cancel(id)
}

// Post queues fn to run on the loop goroutine ahead of the next tick.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run drives the loop until ctx is done. Frames still pending at that point
// are dropped.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.mu.Lock()
			l.queue.take()
			l.tasks = nil
			l.mu.Unlock()
			return
		case <-l.wake:
			l.runTasks()
		case t := <-ticker.C:
			l.runTasks()
			l.runFrames(t.Sub(l.epoch))
		}
	}
}

func (l *Loop) runTasks() {
	l.mu.Lock()
	tasks := l.tasks
	l.tasks = nil
	l.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
}

func (l *Loop) runFrames(now time.Duration) {
	l.mu.Lock()
	batch := l.queue.take()
	l.mu.Unlock()

	for _, r := range batch {
		r.fn(now)
	}
}
