package countup

import "time"

// FrameFunc is invoked once on the next rendering tick with a monotonic
// timestamp.
type FrameFunc func(now time.Duration)

// FrameID identifies a requested frame so it can be cancelled.
type FrameID uint64

// FrameScheduler runs a callback on the next tick. Each request fires at
// most once; callbacks that want another frame request it themselves.
type FrameScheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

type frameRequest struct {
	id FrameID
	fn FrameFunc
}

// frameQueue keeps requests in the order they were made.
type frameQueue struct {
	next    FrameID
	pending []frameRequest
}

func (q *frameQueue) add(fn FrameFunc) FrameID {
	q.next++
	q.pending = append(q.pending, frameRequest{id: q.next, fn: fn})
	return q.next
}

func (q *frameQueue) cancel(id FrameID) {
	for i, r := range q.pending {
		if r.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// take detaches the current batch. Frames requested while the batch runs
// land in the next tick.
func (q *frameQueue) take() []frameRequest {
	batch := q.pending
	q.pending = nil
	return batch
}

// ManualScheduler delivers frames only when Advance is called. It is
// deterministic and has no goroutines.
type ManualScheduler struct {
	queue frameQueue
	now   time.Duration
}

func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (m *ManualScheduler) RequestFrame(fn FrameFunc) FrameID { return m.queue.add(fn) }

func (m *ManualScheduler) CancelFrame(id FrameID) { m.queue.cancel(id) }

// Advance moves the clock to now and runs every frame requested before the
// call. A now earlier than the current clock is ignored for the clock but
// still runs a tick.
func (m *ManualScheduler) Advance(now time.Duration) int {
	if now > m.now {
		m.now = now
	}
	batch := m.queue.take()
	for _, r := range batch {
		r.fn(m.now)
	}
	return len(batch)
}

// Pending reports how many frames are waiting for the next tick.
func (m *ManualScheduler) Pending() int { return len(m.queue.pending) }

func (m *ManualScheduler) Now() time.Duration { return m.now }
