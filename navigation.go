package main

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pratyushrajshrestha/portfolio/internal/nav"
	"github.com/pratyushrajshrestha/portfolio/internal/scrollspy"
)

const navCookie = "nav_session"

// maxLayoutBytes caps a layout report body.
const maxLayoutBytes = 64 << 10

// layoutReport is what the page posts on load and on every scroll: the
// viewport and the document-relative bounds of each section.
type layoutReport struct {
	Viewport scrollspy.Rect          `json:"viewport"`
	Sections []scrollspy.SectionRect `json:"sections"`
}

// only keeps the sections whose id is in ids.
func (r layoutReport) only(ids []string) []scrollspy.SectionRect {
	out := make([]scrollspy.SectionRect, 0, len(ids))
	for _, sec := range r.Sections {
		if slices.Contains(ids, sec.ID) {
			out = append(out, sec)
		}
	}
	return out
}

func bindLayout(c *gin.Context) (layoutReport, bool) {
	var report layoutReport
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxLayoutBytes)
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return report, false
	}
	return report, true
}

type navState struct {
	Active  string `json:"active"`
	Changed bool   `json:"changed"`
}

// navSession returns the caller's session id, issuing a new cookie when
// there is none, and makes sure the registry knows it.
func (s *server) navSession(c *gin.Context) string {
	id, err := c.Cookie(navCookie)
	if err != nil || id == "" {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(navCookie, id, 0, "/", "", false, true)
	}
	if s.nav.Open(id) {
		s.metrics.SetNavSessions(s.nav.Len())
	}
	return id
}

// navMount attaches a fresh scroll-spy to the reported layout and evaluates
// it once.
func (s *server) navMount(c *gin.Context) {
	report, ok := bindLayout(c)
	if !ok {
		return
	}

	id := s.navSession(c)
	var state navState
	err := s.nav.With(id, func(h *nav.Header) {
		h.Mount(scrollspy.NewLayout(report.only(h.SectionIDs())))
		state.Changed = h.Scroll(report.Viewport)
		state.Active = h.Active()
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

var errNotMounted = errors.New("nav: header not mounted")

// navScroll feeds a scroll position to the session's spy. Unknown or
// unmounted sessions get a 404 so the page mounts again.
func (s *server) navScroll(c *gin.Context) {
	report, ok := bindLayout(c)
	if !ok {
		return
	}
	id, err := c.Cookie(navCookie)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": nav.ErrNoSession.Error()})
		return
	}

	var state navState
	mounted := true
	err = s.nav.With(id, func(h *nav.Header) {
		if !h.Mounted() {
			mounted = false
			return
		}
		if layout, ok := h.Document().(*scrollspy.Layout); ok {
			layout.Apply(report.only(h.SectionIDs()))
		}
		state.Changed = h.Scroll(report.Viewport)
		state.Active = h.Active()
	})
	if err == nil && !mounted {
		err = errNotMounted
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

// navMenu toggles the mobile menu, or closes it with ?action=close, and
// returns the re-rendered sheet.
func (s *server) navMenu(c *gin.Context) {
	id := s.navSession(c)
	view := headerView{Content: s.content.Get()}
	err := s.nav.With(id, func(h *nav.Header) {
		if c.Query("action") == "close" {
			h.CloseMenu()
		} else {
			h.ToggleMenu()
		}
		view.Nav = h.Items()
		view.MenuOpen = h.MenuOpen()
	})
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.HTML(http.StatusOK, "nav-menu.html", view)
}

// navClose is sent by the page as it unloads.
func (s *server) navClose(c *gin.Context) {
	if id, err := c.Cookie(navCookie); err == nil && s.nav.Close(id) {
		s.metrics.SetNavSessions(s.nav.Len())
	}
	c.Status(http.StatusNoContent)
}
