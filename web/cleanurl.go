package web

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// CleanURLHandler serves extensionless paths like /about with the page
// /about.html when fsys has it. Other requests pass through unchanged.
func CleanURLHandler(h http.Handler, fsys fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if p == "" || strings.HasSuffix(p, "/") || path.Ext(p) != "" {
			h.ServeHTTP(w, r)
			return
		}
		name := strings.TrimPrefix(path.Clean(p), "/") + ".html"
		if fi, err := fs.Stat(fsys, name); err != nil || fi.IsDir() {
			h.ServeHTTP(w, r)
			return
		}
		r2 := r.Clone(r.Context())
		r2.URL.Path = "/" + name
		r2.URL.RawPath = ""
		h.ServeHTTP(w, r2)
	})
}
