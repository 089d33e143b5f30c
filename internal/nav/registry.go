package nav

import (
	"errors"
	"sync"
	"time"

	"github.com/pratyushrajshrestha/portfolio/internal/content"
	"github.com/pratyushrajshrestha/portfolio/internal/scrollspy"
)

// ErrNoSession is returned for session ids the registry does not know.
var ErrNoSession = errors.New("nav: unknown session")

type session struct {
	mu       sync.Mutex
	header   *Header
	lastSeen time.Time
}

// Registry keeps one Header per browser session.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	links    func() []content.NavLink
	opts     scrollspy.Options
	now      func() time.Time
	// onOpen runs on every new header, e.g. to attach metrics.
	onOpen func(id string, h *Header)
}

// NewRegistry builds headers from the links returned by links at the time a
// session opens, so reloaded content only affects new sessions.
func NewRegistry(links func() []content.NavLink, opts scrollspy.Options) *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		links:    links,
		opts:     opts,
		now:      time.Now,
	}
}

// OnOpen registers fn to run for each newly created header.
func (r *Registry) OnOpen(fn func(id string, h *Header)) { r.onOpen = fn }

// Open touches session id, creating its header when it is new.
func (r *Registry) Open(id string) (created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = r.now()
		return false
	}
	h := NewHeader(r.links(), r.opts)
	if r.onOpen != nil {
		r.onOpen(id, h)
	}
	r.sessions[id] = &session{header: h, lastSeen: r.now()}
	return true
}

// With runs fn on the session's header while holding its lock.
func (r *Registry) With(id string, fn func(h *Header)) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		s.lastSeen = r.now()
	}
	r.mu.Unlock()
	if !ok {
		return ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.header)
	return nil
}

// Close unmounts and forgets the session. Unknown ids are ignored.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return false
	}

	s.mu.Lock()
	s.header.Unmount()
	s.mu.Unlock()
	return true
}

// Sweep closes sessions that have been idle for at least idle and returns
// how many were closed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*session
	for id, s := range r.sessions {
		if !s.lastSeen.After(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.mu.Lock()
		s.header.Unmount()
		s.mu.Unlock()
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
