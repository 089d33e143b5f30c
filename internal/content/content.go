// Package content holds everything the portfolio page displays. The
// document is YAML; a default copy is embedded in the binary.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid content")

type Owner struct {
	Name     string `yaml:"name"`
	Brand    string `yaml:"brand"`
	Headline string `yaml:"headline"`
	Intro    string `yaml:"intro"`
	Portrait string `yaml:"portrait"`
	// Resume is a link to the resume. When empty, /resume serves the
	// file configured with --resume.
	Resume   string `yaml:"resume,omitempty"`
}

// FirstNames is everything before the last word of Name; the hero prints
// the last word on its own line.
func (o Owner) FirstNames() string {
	fields := strings.Fields(o.Name)
	if len(fields) < 2 {
		return o.Name
	}
	return strings.Join(fields[:len(fields)-1], " ")
}

func (o Owner) LastName() string {
	fields := strings.Fields(o.Name)
	if len(fields) < 2 {
		return ""
	}
	return fields[len(fields)-1]
}

type Links struct {
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Location  string `yaml:"location"`
	GitHub    string `yaml:"github"`
	LinkedIn  string `yaml:"linkedin"`
	Instagram string `yaml:"instagram"`
}

// NavLink is one entry of the header navigation.
type NavLink struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// SectionID is the fragment the link points at ("#about" -> "about").
func (l NavLink) SectionID() string { return strings.TrimPrefix(l.Href, "#") }

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type SectionText struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
}

// TitleLead and TitleRest split the heading: the first word is plain, the
// rest gets the accent gradient.
func (s SectionText) TitleLead() string {
	lead, _, _ := strings.Cut(s.Title, " ")
	return lead
}

func (s SectionText) TitleRest() string {
	_, rest, _ := strings.Cut(s.Title, " ")
	return rest
}

type Card struct {
	Icon  string `yaml:"icon"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type SkillBucket struct {
	Bucket string   `yaml:"bucket"`
	Items  []string `yaml:"items"`
}

type Project struct {
	Status string `yaml:"status"`
	Title  string `yaml:"title"`
	Blurb  string `yaml:"blurb"`
	Demo   string `yaml:"demo,omitempty"`
	GitHub string `yaml:"github,omitempty"`
	Image  string `yaml:"image,omitempty"`
}

// Initial is the thumbnail placeholder used when there is no image.
func (p Project) Initial() string {
	for _, r := range p.Title {
		return string(r)
	}
	return "–"
}

// ContactForm configures where contact messages go besides the database.
type ContactForm struct {
	// Endpoint is a hosted form URL, used when FORM_ENDPOINT is not set.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Content is the whole page document.
type Content struct {
	Owner    Owner                  `yaml:"owner"`
	Links    Links                  `yaml:"links"`
	Nav      []NavLink              `yaml:"nav"`
	Stats    []Stat                 `yaml:"stats"`
	Sections map[string]SectionText `yaml:"sections"`
	About    []Card                 `yaml:"about"`
	Skills   []SkillBucket          `yaml:"skills"`
	Projects []Project              `yaml:"projects"`
	Form     ContactForm            `yaml:"form,omitempty"`
}

// Default returns the embedded document.
func Default() (*Content, error) {
	return Parse(defaultDocument)
}

// Load reads path, or the embedded document when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content %s: %w", path, err)
	}
	return c, nil
}

func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) Validate() error {
	if len(c.Nav) == 0 {
		return fmt.Errorf("%w: no navigation links", ErrInvalid)
	}
	for _, l := range c.Nav {
		if !strings.HasPrefix(l.Href, "#") || len(l.Href) < 2 {
			return fmt.Errorf("%w: nav link %q must point at a #section", ErrInvalid, l.Label)
		}
	}
	for i, s := range c.Stats {
		if strings.TrimSpace(s.Value) == "" {
			return fmt.Errorf("%w: stat %d has no value", ErrInvalid, i)
		}
	}
	seen := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if p.Title == "" {
			return fmt.Errorf("%w: project without title", ErrInvalid)
		}
		if seen[p.Title] {
			return fmt.Errorf("%w: duplicate project %q", ErrInvalid, p.Title)
		}
		seen[p.Title] = true
	}
	return nil
}

// SectionIDs returns the section ids the navigation points at, in order.
func (c *Content) SectionIDs() []string {
	ids := make([]string, 0, len(c.Nav))
	for _, l := range c.Nav {
		ids = append(ids, l.SectionID())
	}
	return ids
}

// Section returns the heading text of id; missing sections have none.
func (c *Content) Section(id string) SectionText {
	return c.Sections[id]
}

// SocialLink falls back to "#" for empty links.
func SocialLink(href string) string {
	if href == "" {
		return "#"
	}
	return href
}
