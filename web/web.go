// Package web holds the embedded static assets served by the HTTP server.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// StaticFiles returns the embedded static asset tree, rooted so that
// "index.html" is a top-level entry.
func StaticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// IndexPage returns the landing page HTML.
func IndexPage() []byte {
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		panic(err)
	}
	return data
}
