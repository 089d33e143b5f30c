// Package scrollspy decides which page section is active for navigation
// highlighting, from the geometry of the sections and the viewport.
//
// A Spy observes every configured section that exists in the document. When
// a section starts intersecting the (shrunk) viewport it becomes active,
// overwriting whatever was active before. Nothing ever deactivates a section
// except another one becoming active.
package scrollspy

// DefaultActive is the section highlighted before any intersection.
const DefaultActive = "about"

// Spy owns the active section id.
type Spy struct {
	active   string
	observer *Observer
	onChange func(prev, next string)
}

// New observes the sections in ids that doc can resolve. Ids without an
// element are skipped and can never become active.
func New(doc Document, ids []string, initial string, opts Options) *Spy {
	s := &Spy{active: initial}
	s.observer = NewObserver(s.apply, opts)
	for _, id := range ids {
		if el, ok := doc.Lookup(id); ok {
			s.observer.Observe(el)
		}
	}
	return s
}

func (s *Spy) apply(entries []Entry) {
	for _, e := range entries {
		if !e.IsIntersecting {
			continue
		}
		prev := s.active
		s.active = e.ID
		if prev != e.ID && s.onChange != nil {
			s.onChange(prev, e.ID)
		}
	}
}

// OnChange registers fn to be called whenever the active id changes.
func (s *Spy) OnChange(fn func(prev, next string)) { s.onChange = fn }

// Update feeds a new viewport position.
func (s *Spy) Update(viewport Rect) { s.observer.Check(viewport) }

func (s *Spy) Active() string { return s.active }

// Tracked lists the section ids that are actually observed.
func (s *Spy) Tracked() []string { return s.observer.Observed() }

// Close releases all observations. Later updates are ignored and the active
// id stays as it was.
func (s *Spy) Close() { s.observer.Disconnect() }
