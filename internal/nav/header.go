// Package nav is the page header: the navigation links, the scroll-spy
// that highlights the current section, and the mobile menu.
package nav

import (
	"github.com/pratyushrajshrestha/portfolio/internal/content"
	"github.com/pratyushrajshrestha/portfolio/internal/scrollspy"
)

// Item is a rendered navigation link.
type Item struct {
	Label  string
	Href   string
	Active bool
}

// Header is one mounted navigation component. It is not safe for
// concurrent use; Registry serialises access per session.
type Header struct {
	links    []content.NavLink
	opts     scrollspy.Options
	spy      *scrollspy.Spy
	doc      scrollspy.Document
	active   string
	menuOpen bool
	onChange func(prev, next string)
}

func NewHeader(links []content.NavLink, opts scrollspy.Options) *Header {
	return &Header{links: links, opts: opts, active: scrollspy.DefaultActive}
}

// OnChange is called whenever the highlighted section changes.
func (h *Header) OnChange(fn func(prev, next string)) { h.onChange = fn }

// Mount starts observing the sections the links point at. Mounting again
// replaces the previous spy but keeps the active section.
func (h *Header) Mount(doc scrollspy.Document) {
	if h.spy != nil {
		h.spy.Close()
	}
	h.doc = doc
	h.spy = scrollspy.New(doc, h.SectionIDs(), h.active, h.opts)
	h.spy.OnChange(func(prev, next string) {
		h.active = next
		if h.onChange != nil {
			h.onChange(prev, next)
		}
	})
}

// SectionIDs are the sections the links point at, in link order.
func (h *Header) SectionIDs() []string {
	ids := make([]string, 0, len(h.links))
	for _, l := range h.links {
		ids = append(ids, l.SectionID())
	}
	return ids
}

// Document is what the header was last mounted on, or nil.
func (h *Header) Document() scrollspy.Document { return h.doc }

// Mounted reports whether a spy is attached.
func (h *Header) Mounted() bool { return h.spy != nil }

// Scroll feeds a viewport position and reports whether the active section
// changed.
func (h *Header) Scroll(viewport scrollspy.Rect) bool {
	if h.spy == nil {
		return false
	}
	before := h.active
	h.spy.Update(viewport)
	return h.active != before
}

func (h *Header) Active() string { return h.active }

// Items renders the links with the active one marked.
func (h *Header) Items() []Item {
	items := make([]Item, 0, len(h.links))
	for _, l := range h.links {
		items = append(items, Item{Label: l.Label, Href: l.Href, Active: l.SectionID() == h.active})
	}
	return items
}

func (h *Header) ToggleMenu() bool {
	h.menuOpen = !h.menuOpen
	return h.menuOpen
}

// CloseMenu is what a click on a mobile link does.
func (h *Header) CloseMenu() { h.menuOpen = false }

func (h *Header) MenuOpen() bool { return h.menuOpen }

// BodyLocked reports whether page scrolling should be disabled, which is
// the case while the mobile menu covers the page.
func (h *Header) BodyLocked() bool { return h.menuOpen }

// Unmount releases the spy and closes the menu.
func (h *Header) Unmount() {
	if h.spy != nil {
		h.spy.Close()
		h.spy = nil
	}
	h.doc = nil
	h.menuOpen = false
}
