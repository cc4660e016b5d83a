package component

import (
	"context"
	_ "embed"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theagileengineer/blog/blog"
	"github.com/theagileengineer/blog/render"
)

//go:embed components.html
var componentsTemplate string

var tpl = template.Must(template.New("component").Parse(componentsTemplate))

// NavLink is an entry of the navigation header.
type NavLink struct {
	Label string
	Href  string
}

// DefaultNav is the navigation used when the site does not configure one.
var DefaultNav = []NavLink{
	{Label: "Blog", Href: "/"},
	{Label: "About", Href: "/about.html"},
	{Label: "Resume", Href: "/resume.html"},
}

// Header renders the navigation bar, marking the link of the current page.
type Header struct {
	Site  string
	Links []NavLink
}

type headerLink struct {
	NavLink
	Active bool
}

// Render implements Component.
func (h *Header) Render(ctx context.Context, w io.Writer, current string) error {
	links := h.Links
	if len(links) == 0 {
		links = DefaultNav
	}
	data := struct {
		Site  string
		Links []headerLink
	}{Site: h.Site}
	for _, l := range links {
		data.Links = append(data.Links, headerLink{NavLink: l, Active: isActive(current, l.Href)})
	}
	return tpl.ExecuteTemplate(w, "blog-header", data)
}

// CurrentPath returns the path of the page a component is rendered for.
// It is taken from the "path" query parameter, then the HX-Current-URL
// header htmx sends, and finally the request path itself.
func CurrentPath(r *http.Request) string {
	if p := r.URL.Query().Get("path"); p != "" {
		return p
	}
	if u, err := url.Parse(r.Header.Get("HX-Current-URL")); err == nil && u.Path != "" {
		return u.Path
	}
	return r.URL.Path
}

// isActive reports whether href is the navigation link for current. The
// root link only matches the home page; other links match any path that
// contains them without their extension.
func isActive(current, href string) bool {
	if href == "/" {
		return current == "/" || current == "/index.html"
	}
	stem := strings.TrimSuffix(href, ".html")
	return stem != "" && strings.Contains(current, stem)
}

// Footer renders the page footer with the current year.
type Footer struct {
	Domain string
	Now    func() time.Time
}

// Render implements Component.
func (f *Footer) Render(ctx context.Context, w io.Writer, _ string) error {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	data := struct {
		Year   int
		Domain string
	}{now().Year(), f.Domain}
	return tpl.ExecuteTemplate(w, "blog-footer", data)
}

// PostsList renders the post list with plain links to every post.
type PostsList struct {
	List     *blog.List
	Renderer *render.Renderer
}

// Render implements Component. When the sitemap cannot be read, the error
// fragment is written and the error returned.
func (p *PostsList) Render(ctx context.Context, w io.Writer, _ string) error {
	return p.List.Render(ctx, w, p.Renderer)
}
