package scrollspy

// Element is a tracked region of the page.
type Element interface {
	ID() string
	Bounds() Rect
}

// Document resolves section ids to elements.
type Document interface {
	Lookup(id string) (Element, bool)
}

// Entry reports the intersection state of one element.
type Entry struct {
	ID             string
	Ratio          float64
	IsIntersecting bool
}

type target struct {
	el           Element
	reported     bool
	intersecting bool
}

// Observer tracks a set of elements against a viewport and reports state
// transitions to its callback. The first Check after an element is observed
// always reports it; later checks report only elements whose intersecting
// state flipped. Entries are delivered in observation order.
type Observer struct {
	opts     Options
	callback func([]Entry)
	targets  []*target
	closed   bool
}

func NewObserver(callback func([]Entry), opts Options) *Observer {
	return &Observer{opts: opts, callback: callback}
}

// Observe starts tracking el. Observing the same id twice is a no-op.
func (o *Observer) Observe(el Element) {
	if o.closed || el == nil {
		return
	}
	for _, t := range o.targets {
		if t.el.ID() == el.ID() {
			return
		}
	}
	o.targets = append(o.targets, &target{el: el})
}

// Unobserve stops tracking id.
func (o *Observer) Unobserve(id string) {
	for i, t := range o.targets {
		if t.el.ID() == id {
			o.targets = append(o.targets[:i], o.targets[i+1:]...)
			return
		}
	}
}

// Disconnect releases every observation. The observer cannot be reused.
func (o *Observer) Disconnect() {
	o.targets = nil
	o.closed = true
}

// Observed returns the ids currently tracked, in observation order.
func (o *Observer) Observed() []string {
	ids := make([]string, 0, len(o.targets))
	for _, t := range o.targets {
		ids = append(ids, t.el.ID())
	}
	return ids
}

// Check recomputes intersections against viewport and invokes the callback
// when anything changed.
func (o *Observer) Check(viewport Rect) {
	if o.closed {
		return
	}
	root := o.opts.root(viewport)

	var entries []Entry
	for _, t := range o.targets {
		ratio, ok := intersect(t.el.Bounds(), root, o.opts.Threshold)
		if t.reported && ok == t.intersecting {
			continue
		}
		t.reported = true
		t.intersecting = ok
		entries = append(entries, Entry{ID: t.el.ID(), Ratio: ratio, IsIntersecting: ok})
	}
	if len(entries) > 0 && o.callback != nil {
		o.callback(entries)
	}
}
