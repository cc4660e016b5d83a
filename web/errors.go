package web

import (
	"io/fs"
	"net/http"
	"strconv"
)

// ErrorPages maps status codes to the page from the site root served in
// place of the handler's own error body.
var ErrorPages = map[int]string{
	http.StatusNotFound:            "404.html",
	http.StatusInternalServerError: "500.html",
}

// ErrorHandler serves the matching page from fsys for responses listed in
// ErrorPages. Status codes without a page, or whose page is missing, pass
// through untouched. Fragment requests and component requests are left alone
// so the caller gets the handler's own error fragment instead of a complete
// page.
func ErrorHandler(h http.Handler, fsys fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsFragmentRequest(r) || isComponentRequest(r) {
			h.ServeHTTP(w, r)
			return
		}
		h.ServeHTTP(&errorPageWriter{ResponseWriter: w, fsys: fsys}, r)
	})
}

// errorPageWriter swaps the body of error responses for an error page.
type errorPageWriter struct {
	http.ResponseWriter
	fsys     fs.FS
	replaced bool
}

func (w *errorPageWriter) WriteHeader(code int) {
	if name, ok := ErrorPages[code]; ok {
		if b, err := fs.ReadFile(w.fsys, name); err == nil {
			h := w.Header()
			h.Set("Content-Type", "text/html; charset=utf-8")
			h.Set("Content-Length", strconv.Itoa(len(b)))
			h.Del("X-Content-Type-Options")
			w.ResponseWriter.WriteHeader(code)
			w.ResponseWriter.Write(b)
			w.replaced = true
			return
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

// Write discards the handler's body once an error page was written.
func (w *errorPageWriter) Write(b []byte) (int, error) {
	if w.replaced {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}
