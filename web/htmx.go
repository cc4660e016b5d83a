package web

import (
	"net/http"
	"strings"
)

const (
	// FragmentHeader is the request header htmx sets on the requests it issues.
	FragmentHeader = "HX-Request"
	// ComponentPrefix is the path under which page components are served.
	// Their responses are always fragments.
	ComponentPrefix = "/components/"
)

// IsFragmentRequest reports whether r asks for a fragment to swap into the
// current page rather than a complete page.
func IsFragmentRequest(r *http.Request) bool {
	return r.Header.Get(FragmentHeader) != ""
}

// isComponentRequest reports whether r addresses a page component.
func isComponentRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, ComponentPrefix)
}

// FragmentSwitch serves fragment requests with fragment and all other
// requests with page.
func FragmentSwitch(fragment, page http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsFragmentRequest(r) {
			fragment.ServeHTTP(w, r)
			return
		}
		page.ServeHTTP(w, r)
	})
}
