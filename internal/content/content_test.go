package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDocument(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"about", "skills", "projects", "contact"}, c.SectionIDs())
	assert.Equal(t, "Pratyush Raj", c.Owner.FirstNames())
	assert.Equal(t, "Shrestha", c.Owner.LastName())
	require.Len(t, c.Stats, 2)
	require.Len(t, c.Projects, 3)
	assert.Empty(t, c.Projects[2].Demo)
	assert.Equal(t, "🎨 Frontend Development", c.Skills[0].Bucket)
	assert.Equal(t, "About", c.Section("about").TitleLead())
	assert.Equal(t, "Me", c.Section("about").TitleRest())
	assert.Equal(t, "Featured Projects", c.Section("projects").Title)
}

func TestParseStat(t *testing.T) {
	tests := []struct {
		in   string
		want StatValue
	}{
		{"2+", StatValue{Animated: true, Target: 2, Suffix: "+"}},
		{"100%", StatValue{Animated: true, Target: 100, Suffix: "%"}},
		{" 15+ ", StatValue{Animated: true, Target: 15, Suffix: "+"}},
		{"24/7", StatValue{Text: "24/7"}},
		{"many+", StatValue{Text: "many+"}},
		{"-3%", StatValue{Text: "-3%"}},
		{"42", StatValue{Text: "42"}},
		{"2.5+", StatValue{Animated: true, Target: 2, Suffix: "+"}},
		{"10k+", StatValue{Animated: true, Target: 10, Suffix: "+"}},
		{"99999999999999999999+", StatValue{Text: "99999999999999999999+"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStat(tt.in))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no nav", "stats: []"},
		{"nav without fragment", "nav: [{label: About, href: /about}]"},
		{"empty stat", "nav: [{label: A, href: '#a'}]\nstats: [{value: '', label: x}]"},
		{"duplicate project", "nav: [{label: A, href: '#a'}]\nprojects: [{title: X}, {title: X}]"},
		{"untitled project", "nav: [{label: A, href: '#a'}]\nprojects: [{status: Done}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}

	_, err := Parse([]byte("nav: [oops"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestProjectInitial(t *testing.T) {
	assert.Equal(t, "W", Project{Title: "Weather App"}.Initial())
	assert.Equal(t, "–", Project{}.Initial())
	assert.Equal(t, "#", SocialLink(""))
	assert.Equal(t, "https://x", SocialLink("https://x"))
}

func TestMarkdownRender(t *testing.T) {
	md := NewMarkdown()

	out := string(md.Render("Built with **Go** and [gin](https://gin-gonic.com)."))
	assert.True(t, strings.HasPrefix(out, "Built with <strong>Go</strong>"), out)
	assert.Contains(t, out, `href="https://gin-gonic.com"`)
	assert.NotContains(t, out, "<p>")

	out = string(md.Render("hello <script>alert(1)</script>"))
	assert.NotContains(t, out, "<script>")

	out = string(md.Render("one\n\ntwo"))
	assert.Equal(t, 2, strings.Count(out, "<p>"))
}

const minimalDoc = `
nav:
  - {label: About, href: "#about"}
stats:
  - {value: "1+", label: One}
`

func TestStoreReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o644))

	s, err := NewStore(path)
	require.NoError(t, err)
	require.Equal(t, "1+", s.Get().Stats[0].Value)

	var reloaded *Content
	s.OnReload(func(c *Content) { reloaded = c })

	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(minimalDoc, "1+", "9+", 1)), 0o644))
	require.NoError(t, s.Reload())
	assert.Equal(t, "9+", s.Get().Stats[0].Value)
	assert.Same(t, s.Get(), reloaded)

	require.NoError(t, os.WriteFile(path, []byte("nav: []"), 0o644))
	require.Error(t, s.Reload())
	assert.Equal(t, "9+", s.Get().Stats[0].Value)
}

func TestStoreWatchPicksUpWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o644))

	s, err := NewStore(path)
	require.NoError(t, err)
	s.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Watch(ctx))

	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(minimalDoc, "1+", "7+", 1)), 0o644))
	assert.Eventually(t, func() bool {
		return s.Get().Stats[0].Value == "7+"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestStoreEmbeddedDoesNotWatch(t *testing.T) {
	s, err := NewStore("")
	require.NoError(t, err)
	assert.Empty(t, s.Path())
	assert.NoError(t, s.Watch(context.Background()))
}
