// Package countup animates a displayed integer from 0 to a target over a
// fixed duration, one frame at a time.
//
// An Animator never reads a clock itself. Frames are delivered by a
// FrameScheduler together with a monotonic timestamp, so the displayed value
// depends only on elapsed time and not on how many frames were drawn.
package countup

import (
	"math/bits"
	"strconv"
	"time"
)

// DefaultDuration is how long a count-up takes from 0 to its target.
const DefaultDuration = 1200 * time.Millisecond

// State is the lifecycle position of an Animator.
type State int

const (
	Idle State = iota
	Running
	Terminal
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Value returns floor(p*target) with p = elapsed/duration clamped to [0, 1].
func Value(elapsed, duration time.Duration, target int) int {
	if target <= 0 || elapsed <= 0 {
		return 0
	}
	if duration <= 0 || elapsed >= duration {
		return target
	}
	// 128-bit product: target*elapsed overflows int64 for large targets.
	hi, lo := bits.Mul64(uint64(target), uint64(elapsed))
	q, _ := bits.Div64(hi, lo, uint64(duration))
	return int(q)
}

// Option configures an Animator.
type Option func(*Animator)

// WithSuffix appends s verbatim to the rendered number ("%", "+").
func WithSuffix(s string) Option { return func(a *Animator) { a.suffix = s } }

// WithDuration overrides DefaultDuration. Non-positive values are ignored.
func WithDuration(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.duration = d
		}
	}
}

// OnUpdate registers fn to be called after every frame that was applied.
func OnUpdate(fn func(displayed int)) Option { return func(a *Animator) { a.onUpdate = fn } }

// Animator is a single count-up display. It is not safe for concurrent use;
// all calls must come from the goroutine that runs its scheduler.
type Animator struct {
	sched    FrameScheduler
	duration time.Duration
	target   int
	suffix   string
	onUpdate func(int)

	state     State
	displayed int
	start     time.Duration
	started   bool
	frame     FrameID
	pending   bool
	// generation invalidates frames requested before a restart or stop.
	generation uint64
}

// New returns an idle animator counting up to target. Negative targets are
// treated as 0.
func New(sched FrameScheduler, target int, opts ...Option) *Animator {
	a := &Animator{
		sched:    sched,
		duration: DefaultDuration,
		target:   max(target, 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start begins the animation. It does nothing unless the animator is idle.
func (a *Animator) Start() {
	if a.state != Idle {
		return
	}
	a.state = Running
	a.started = false
	a.request()
}

// SetTarget restarts the animation from 0 towards t. The in-flight frame, if
// any, is released first. Setting the current target again is a no-op.
func (a *Animator) SetTarget(t int) {
	t = max(t, 0)
	if t == a.target {
		return
	}
	a.release()
	a.target = t
	a.displayed = 0
	a.state = Idle
	a.Start()
}

// Stop releases the pending frame. The displayed value is kept; the
// animator goes back to Idle unless it already finished.
func (a *Animator) Stop() {
	a.release()
	if a.state == Running {
		a.state = Idle
	}
}

func (a *Animator) request() {
	gen := a.generation
	a.frame = a.sched.RequestFrame(func(now time.Duration) { a.step(gen, now) })
	a.pending = true
}

func (a *Animator) release() {
	if a.pending {
		a.sched.CancelFrame(a.frame)
		a.pending = false
	}
	a.generation++
}

func (a *Animator) step(gen uint64, now time.Duration) {
	if gen != a.generation || a.state != Running {
		return
	}
	a.pending = false
	if !a.started {
		a.start = now
		a.started = true
	}

	elapsed := now - a.start
	if n := Value(elapsed, a.duration, a.target); n > a.displayed {
		a.displayed = n
	}
	if elapsed >= a.duration {
		a.displayed = a.target
		a.state = Terminal
	} else {
		a.request()
	}

	if a.onUpdate != nil {
		a.onUpdate(a.displayed)
	}
}

func (a *Animator) Displayed() int { return a.displayed }

func (a *Animator) Target() int { return a.target }

func (a *Animator) Suffix() string { return a.suffix }

func (a *Animator) State() State { return a.state }

// Text renders the displayed value followed by the suffix.
func (a *Animator) Text() string {
	return strconv.Itoa(a.displayed) + a.suffix
}
