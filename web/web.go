// Package web bundles the HTML templates and static assets of the site.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page and fragment template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
}

// Static is the asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Funcs are available to every template.
var Funcs = template.FuncMap{
	"join": strings.Join,
	"year": func() int { return time.Now().Year() },
	"clock": func(t time.Time) string {
		return t.Format("15:04")
	},
	"add": func(a, b int) int { return a + b },
}
