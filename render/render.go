/*
Package render turns a sorted post list into the HTML fragment shown on the
blog's front page.

There are two variants of the fragment. Links renders each post card as a plain
hyperlink. Fragment renders cards that load the post in place with htmx and
push the post URL to the browser history:

	<a href="#" hx-get="posts/my-post.html" hx-target="#main-content" hx-push-url="/posts/my-post.html" class="post-card">

Both variants share the same cards, dates and empty state. Text coming from the
sitemap is escaped by html/template, so a title such as "Using List<T> in Go"
is shown exactly as written.
*/
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/theagileengineer/blog/post"
)

//go:embed posts.html
var postsTemplate string

// Mode selects the anchor markup of a post card.
type Mode int

const (
	Links    Mode = iota // plain hyperlinks
	Fragment             // htmx in-place swap
)

// String returns the name of the mode.
func (m Mode) String() string {
	if m == Fragment {
		return "fragment"
	}
	return "links"
}

const (
	// DefaultDescription is the line shown under each post title.
	DefaultDescription = "Click to read this post about software architecture and engineering practices."
	// DefaultTarget is the element htmx swaps the post into.
	DefaultTarget = "#main-content"
	// DefaultSource names the sitemap in user facing messages.
	DefaultSource = "sitemap.xml"
)

// Options configures a Renderer.
type Options struct {
	Mode        Mode
	Description string // static line under each title
	Marker      string // post marker mentioned in the empty state
	Target      string // htmx target selector, Fragment mode only
	Source      string // sitemap name mentioned in messages
}

// Renderer renders post lists. It is safe for concurrent use.
type Renderer struct {
	opts Options
	tpl  *template.Template
}

// card is the view of a single post.
type card struct {
	Title            string
	Location         string
	RelativeLocation string
	Date             string
}

// listData is passed to the templates.
type listData struct {
	Cards       []card
	Fragment    bool
	Target      string
	Description string
	Marker      string
	Source      string
}

// New returns a Renderer with defaults applied to unset options.
func New(opts Options) (*Renderer, error) {
	if opts.Description == "" {
		opts.Description = DefaultDescription
	}
	if opts.Marker == "" {
		opts.Marker = post.DefaultMarker
	}
	if opts.Target == "" {
		opts.Target = DefaultTarget
	}
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	tpl, err := template.New("render").Parse(postsTemplate)
	if err != nil {
		return nil, fmt.Errorf("render.New: %w", err)
	}
	return &Renderer{
		opts: opts,
		tpl:  tpl,
	}, nil
}

// Mode returns the variant this renderer produces.
func (r *Renderer) Mode() Mode {
	return r.opts.Mode
}

// Render writes the post grid for posts, which are expected to be sorted
// already. An empty list renders the empty state.
func (r *Renderer) Render(w io.Writer, posts []post.Post) error {
	d := r.data()
	if len(posts) == 0 {
		return r.execute(w, "empty", d)
	}
	d.Cards = lo.Map(posts, func(p post.Post, _ int) card {
		return card{
			Title:            title(p.Title),
			Location:         p.Location,
			RelativeLocation: p.RelativeLocation(),
			Date:             p.FormattedDate(),
		}
	})
	return r.execute(w, "posts", d)
}

// RenderError writes the fragment shown when the sitemap cannot be read.
func (r *Renderer) RenderError(w io.Writer) error {
	return r.execute(w, "error", r.data())
}

func (r *Renderer) data() listData {
	return listData{
		Fragment:    r.opts.Mode == Fragment,
		Target:      r.opts.Target,
		Description: r.opts.Description,
		Marker:      r.opts.Marker,
		Source:      r.opts.Source,
	}
}

func (r *Renderer) execute(w io.Writer, name string, d listData) error {
	err := r.tpl.ExecuteTemplate(w, name, d)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// title falls back to the untitled label for blank titles. Markup is left
// alone; the template escapes it.
func title(s string) string {
	if strings.TrimSpace(s) == "" {
		return post.UntitledPost
	}
	return s
}
