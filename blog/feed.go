package blog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	atom "github.com/thomas11/atomgenerator"
	"go.uber.org/zap"
)

// FeedHandler serves an Atom feed of the same posts the post list shows.
type FeedHandler struct {
	List        *List
	Title       string
	BaseURL     string // absolute URL of the site, used for relative locations
	Author      string
	AuthorURI   string
	Description string
	Log         *zap.SugaredLogger
}

// ServeHTTP implements http.Handler.
func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	posts, err := h.List.Posts(r.Context())
	if err != nil {
		h.Log.Errorw("cannot build feed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// without a configured site URL, links point back at the host serving the feed
	fh := *h
	if fh.BaseURL == "" {
		fh.BaseURL = requestBase(r)
	}
	if fh.Author == "" {
		fh.Author = fh.Title
	}

	now := time.Now().UTC()
	feed := atom.Feed{
		Title:   fh.Title,
		Link:    fh.BaseURL,
		PubDate: now,
	}
	if len(posts) > 0 && posts[0].LastModified != nil {
		feed.PubDate = *posts[0].LastModified
	}
	feed.AddAuthor(atom.Author{
		Name: fh.Author,
		Uri:  fh.AuthorURI,
	})
	for _, p := range posts {
		e := &atom.Entry{
			Title:       p.Title,
			Description: fh.Description,
			Link:        fh.absolute(p.Location),
			PubDate:     feed.PubDate,
		}
		if p.LastModified != nil {
			e.PubDate = *p.LastModified
		}
		feed.AddEntry(e)
	}

	errs := feed.Validate()
	if len(errs) > 0 {
		for _, e := range errs {
			h.Log.Errorw("invalid feed", "error", e)
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	b, err := feed.GenXml()
	if err != nil {
		h.Log.Errorw("cannot generate feed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.Write(b)
}

// absolute resolves a site relative location against BaseURL.
func (h *FeedHandler) absolute(loc string) string {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") || h.BaseURL == "" {
		return loc
	}
	return strings.TrimSuffix(h.BaseURL, "/") + "/" + strings.TrimPrefix(loc, "/")
}

// requestBase returns the scheme and host r was sent to.
func requestBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
