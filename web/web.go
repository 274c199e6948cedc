// Package web holds the embedded presentation layer: the page templates
// and the static canvas client.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

var (
	//go:embed all:templates
	templatesFS embed.FS

	//go:embed all:static
	staticFS embed.FS
)

// Templates parses every embedded page template.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templatesFS, "templates/*.html")
}

// Static returns the embedded asset tree rooted at static/.
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
