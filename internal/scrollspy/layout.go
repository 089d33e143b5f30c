package scrollspy

// Box is a Layout element. Its bounds are updated in place when the page
// reports a new layout, so observers holding it see the change.
type Box struct {
	id     string
	bounds Rect
}

func (b *Box) ID() string { return b.id }

func (b *Box) Bounds() Rect { return b.bounds }

// SectionRect is one section as reported by the page.
type SectionRect struct {
	ID string `json:"id"`
	Rect
}

// Layout is a Document built from reported section rects.
type Layout struct {
	boxes map[string]*Box
}

func NewLayout(sections []SectionRect) *Layout {
	l := &Layout{boxes: make(map[string]*Box, len(sections))}
	l.Apply(sections)
	return l
}

// Apply updates the bounds of known sections and adds new ones. Sections
// missing from the report keep their last bounds.
func (l *Layout) Apply(sections []SectionRect) {
	for _, s := range sections {
		if s.ID == "" {
			continue
		}
		if b, ok := l.boxes[s.ID]; ok {
			b.bounds = s.Rect
			continue
		}
		l.boxes[s.ID] = &Box{id: s.ID, bounds: s.Rect}
	}
}

func (l *Layout) Lookup(id string) (Element, bool) {
	b, ok := l.boxes[id]
	if !ok {
		return nil, false
	}
	return b, true
}
