package blog

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/theagileengineer/blog/render"
	"github.com/theagileengineer/blog/sitemap"
)

// Handler serves the post list rendered with Renderer. A sitemap that
// cannot be read results in a 500 carrying the error fragment.
type Handler struct {
	List     *List
	Renderer *render.Renderer
	Log      *zap.SugaredLogger
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var out bytes.Buffer
	status := http.StatusOK
	err := h.List.Render(r.Context(), &out, h.Renderer)
	if err != nil {
		if !errors.Is(err, sitemap.ErrUnavailable) || out.Len() == 0 {
			out.Reset()
			out.WriteString(`<div class="error">Failed to parse sitemap.xml</div>`)
		}
		status = http.StatusInternalServerError
		if h.Log != nil {
			h.Log.Errorw("cannot render post list", "path", r.URL.Path, "error", err)
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
	w.WriteHeader(status)
	_, err = out.WriteTo(w)
	if err != nil && h.Log != nil {
		h.Log.Warnw("cannot write post list", "error", err)
	}
}
