package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pratyushrajshrestha/portfolio/internal/config"
	"github.com/pratyushrajshrestha/portfolio/internal/contact"
	"github.com/pratyushrajshrestha/portfolio/internal/content"
	"github.com/pratyushrajshrestha/portfolio/internal/metrics"
	"github.com/pratyushrajshrestha/portfolio/internal/nav"
	"github.com/pratyushrajshrestha/portfolio/internal/scrollspy"
	"github.com/pratyushrajshrestha/portfolio/internal/store"
)

type fakeForwarder struct {
	mu   sync.Mutex
	err  error
	sent []store.Message
}

func (f *fakeForwarder) Forward(_ context.Context, m store.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return f.err
}

type testEnv struct {
	srv    *server
	router *gin.Engine
	db     *store.Store
	fwd    *fakeForwarder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Debug:            true,
		AdminUsername:    "admin",
		AdminPassword:    "hunter22",
		CountupDuration:  60 * time.Millisecond,
		FrameRate:        200,
		NavIdle:          time.Minute,
		VisitorRetention: 365 * 24 * time.Hour,
		ResumePath:       filepath.Join(t.TempDir(), "resume.pdf"),
	}
	docs, err := content.NewStore("")
	require.NoError(t, err)
	db := store.OpenTemp(t)
	fwd := &fakeForwarder{}

	srv, err := newServer(cfg, serverDeps{
		content: docs,
		db:      db,
		contact: contact.NewService(db, fwd),
		nav:     nav.NewRegistry(func() []content.NavLink { return docs.Get().Nav }, scrollspy.DefaultOptions()),
		metrics: metrics.New(nil),
	})
	require.NoError(t, err)
	return &testEnv{srv: srv, router: srv.routes(), db: db, fwd: fwd}
}

// do sends a request without tracking (DNT) unless headers override it.
func (e *testEnv) do(method, path, contentType, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("DNT", "1")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func cookieNamed(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", name)
	return nil
}

func TestIndexRendersPage(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `id="about"`)
	assert.Contains(t, body, `id="contact"`)
	assert.Contains(t, body, `sse-connect="/stats/1/stream"`)
	assert.Contains(t, body, ">0+</span>", "animated stats start from their first frame")
	assert.Contains(t, body, `href="#about" data-nav-link class="nav-link is-active"`)
	assert.Contains(t, body, `data-open="false"`)
}

func TestInitialStatText(t *testing.T) {
	assert.Equal(t, "0+", initialStatText("5+"))
	assert.Equal(t, "0%", initialStatText("100%"))
	assert.Equal(t, "24/7", initialStatText("24/7"))
}

func TestResumeServedFromDisk(t *testing.T) {
	e := newTestEnv(t)
	e.srv.cfg.ResumePath = filepath.Join(t.TempDir(), "resume.pdf")

	w := e.do(http.MethodGet, "/resume", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "no file yet")

	require.NoError(t, os.WriteFile(e.srv.cfg.ResumePath, []byte("%PDF-1.4 resume"), 0o644))
	w = e.do(http.MethodGet, "/resume", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 resume", w.Body.String())
}

func TestResumeLinkFromContent(t *testing.T) {
	e := newTestEnv(t)
	doc, err := content.Default()
	require.NoError(t, err)
	doc.Owner.Resume = "/images/cv.pdf"
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	e.srv.content, err = content.NewStore(path)
	require.NoError(t, err)

	w := e.do(http.MethodGet, "/resume", "", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/images/cv.pdf", w.Header().Get("Location"))
}

func TestFormEndpointFallsBackToContent(t *testing.T) {
	doc, err := content.Parse([]byte("nav: [{label: A, href: '#a'}]\nform: {endpoint: 'https://forms.example/abc'}"))
	require.NoError(t, err)

	assert.Equal(t, "https://forms.example/abc", formEndpoint(&config.Config{}, doc))
	assert.Equal(t, "https://env.example/x", formEndpoint(&config.Config{FormEndpoint: "https://env.example/x"}, doc))
	assert.Empty(t, formEndpoint(&config.Config{}, &content.Content{}))
}

func TestPrivacyShowsRetention(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/privacy", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "older than 1 year")
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "1 year", humanDuration(365*24*time.Hour))
	assert.Equal(t, "30 days", humanDuration(30*24*time.Hour))
	assert.Equal(t, "1h30m0s", humanDuration(90*time.Minute))
}

func TestStaticAssetsAreEmbedded(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(http.MethodGet, "/static/portfolio.js", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/nav/scroll")
}

func TestVisitsAreTrackedUnlessDoNotTrack(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "test-agent")
	e.router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Eventually(t, func() bool {
		visitors, err := e.db.RecentVisitors(context.Background(), 10)
		return err == nil && len(visitors) == 1
	}, 2*time.Second, 10*time.Millisecond)

	visitors, err := e.db.RecentVisitors(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "/", visitors[0].Path)
	assert.Equal(t, "test-agent", visitors[0].UserAgent)
	assert.Len(t, visitors[0].HashedIP, 16)
	assert.NotContains(t, visitors[0].HashedIP, "192.0.2.1")

	e.do(http.MethodGet, "/", "", "")
	e.do(http.MethodGet, "/privacy", "", "")
	time.Sleep(50 * time.Millisecond)
	visitors, err = e.db.RecentVisitors(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, visitors, 1)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.srv.metrics.PageView("/")

	w := e.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `portfolio_page_views_total{path="/"} 1`)
}

func TestContactStoresAndForwards(t *testing.T) {
	e := newTestEnv(t)
	form := url.Values{
		"name":    {" Ada "},
		"email":   {"ada@example.com"},
		"subject": {"Hello"},
		"message": {"Nice work"},
	}
	w := e.do(http.MethodPost, "/contact", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thank you for your message")

	require.Len(t, e.fwd.sent, 1)
	assert.Equal(t, "Ada", e.fwd.sent[0].Name)

	msgs, err := e.db.Messages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Forwarded)
}

func TestContactForwardFailureStillStores(t *testing.T) {
	e := newTestEnv(t)
	e.fwd.err = errors.New("relay down")
	form := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "subject": {"Hi"}, "message": {"Hello"}}

	w := e.do(http.MethodPost, "/contact", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thank you for your message")

	msgs, err := e.db.Messages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].Forwarded)
	assert.Contains(t, msgs[0].Error, "relay down")
}

func TestContactRejectsInvalidForm(t *testing.T) {
	e := newTestEnv(t)
	tests := []struct {
		name string
		form url.Values
	}{
		{"missing message", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "subject": {"Hi"}}},
		{"bad email", url.Values{"name": {"Ada"}, "email": {"nope"}, "subject": {"Hi"}, "message": {"x"}}},
		{"blank name", url.Values{"name": {"   "}, "email": {"ada@example.com"}, "subject": {"Hi"}, "message": {"x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(http.MethodPost, "/contact", "application/x-www-form-urlencoded", tt.form.Encode())
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "valid email address")
		})
	}

	msgs, err := e.db.Messages(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Empty(t, e.fwd.sent)
}
