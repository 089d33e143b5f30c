package main

import (
	"embed"
	"html/template"
	"io/fs"
	"time"

	"github.com/pratyushrajshrestha/portfolio/internal/content"
)

// webFS holds the page templates and static assets so the binary serves
// them without a checkout next to it.
//
//go:embed templates/*.html static/*
var webFS embed.FS

func staticFS() fs.FS {
	sub, err := fs.Sub(webFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func parseTemplates(md *content.Markdown) (*template.Template, error) {
	funcs := template.FuncMap{
		"markdown": md.Render,
		"social":   content.SocialLink,
		"year":     func() int { return time.Now().Year() },
	}
	return template.New("").Funcs(funcs).ParseFS(webFS, "templates/*.html")
}
