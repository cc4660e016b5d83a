package web

import (
	"net/http"
	"path"
	"strings"
	"time"
)

var gmtZone *time.Location

func init() {
	var err error
	gmtZone, err = time.LoadLocation("GMT")
	if err != nil {
		gmtZone = time.UTC
	}
}

// DefaultHeaders are added to every response unless the site configures its own.
var DefaultHeaders = map[string]string{
	"Access-Control-Allow-Origin": "*",
}

// HeaderHandler returns an http.Handler that adds the given headers to the
// response, or DefaultHeaders when headers is nil.
func HeaderHandler(h http.Handler, headers map[string]string) http.Handler {
	if headers == nil {
		headers = DefaultHeaders
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		h.ServeHTTP(w, r)
	})
}

// ExpiresHandler adds the expires header choosing expires for dynamic content
// and staticExpires for static content.
func ExpiresHandler(h http.Handler, expires, staticExpires time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expiry := staticExpires
		if isDynamic(r) {
			expiry = expires
		}
		if expiry != 0 {
			w.Header().Set("Expires", time.Now().Add(expiry).In(gmtZone).Format(time.RFC1123))
		}
		h.ServeHTTP(w, r)
	})
}

// isDynamic reports whether the response for r is generated per request
// or is an HTML page that may change often.
func isDynamic(r *http.Request) bool {
	p := r.URL.Path
	switch {
	case strings.HasSuffix(p, "/"), strings.HasSuffix(p, ".html"), path.Ext(p) == "":
		return true
	case p == "/sitemap.xml", p == "/index.xml", isComponentRequest(r):
		return true
	}
	return IsFragmentRequest(r)
}
