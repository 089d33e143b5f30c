package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pratyushrajshrestha/portfolio/internal/content"
	"github.com/pratyushrajshrestha/portfolio/internal/countup"
	"github.com/pratyushrajshrestha/portfolio/internal/nav"
	"github.com/pratyushrajshrestha/portfolio/internal/scrollspy"
)

// headerView is what the "header" and "nav-menu.html" templates render.
type headerView struct {
	Content  *content.Content
	Nav      []nav.Item
	MenuOpen bool
}

type statView struct {
	Index    int
	Animated bool
	Text     string
	Label    string
}

type pageView struct {
	headerView
	Stats []statView
}

func (s *server) index(c *gin.Context) {
	doc := s.content.Get()
	view := pageView{headerView: s.headerFor(c, doc)}
	for i, st := range doc.Stats {
		view.Stats = append(view.Stats, statView{
			Index:    i,
			Animated: content.ParseStat(st.Value).Animated,
			Text:     initialStatText(st.Value),
			Label:    st.Label,
		})
	}
	c.HTML(http.StatusOK, "index.html", view)
}

// initialStatText is the first frame of a stat's count-up, so the page
// renders "0+" until the stream takes over. Static stats print verbatim.
func initialStatText(value string) string {
	v := content.ParseStat(value)
	if !v.Animated {
		return v.Text
	}
	sched := countup.NewManualScheduler()
	a := countup.New(sched, v.Target, countup.WithSuffix(v.Suffix))
	a.Start()
	sched.Advance(0)
	return a.Text()
}

// headerFor renders the header of the caller's nav session, or a fresh
// header when there is none yet.
func (s *server) headerFor(c *gin.Context, doc *content.Content) headerView {
	view := headerView{Content: doc}
	if id, err := c.Cookie(navCookie); err == nil {
		err = s.nav.With(id, func(h *nav.Header) {
			view.Nav = h.Items()
			view.MenuOpen = h.MenuOpen()
		})
		if err == nil {
			return view
		}
	}
	view.Nav = nav.NewHeader(doc.Nav, scrollspy.DefaultOptions()).Items()
	return view
}

// resume redirects to the content's resume link, or serves the resume file
// from disk so it can be replaced without a rebuild.
func (s *server) resume(c *gin.Context) {
	if href := s.content.Get().Owner.Resume; href != "" {
		c.Redirect(http.StatusFound, href)
		return
	}
	if fi, err := os.Stat(s.cfg.ResumePath); err != nil || fi.IsDir() {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(s.cfg.ResumePath)
}

func (s *server) privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title":     "Privacy Policy",
		"retention": humanDuration(s.cfg.VisitorRetention),
	})
}

func humanDuration(d time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case d >= 365*day && d%(365*day) == 0:
		return plural(int(d/(365*day)), "year")
	case d >= day && d%day == 0:
		return plural(int(d/day), "day")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
