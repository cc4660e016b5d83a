/*
Package post turns a sitemap into the list of blog posts shown on the site.

A sitemap is a sequence of <url> entry blocks. Entries whose location contains
the post marker (normally "/posts/") become posts:

	<url>
		<loc>https://example.com/posts/my-first-post.html</loc>
		<lastmod>2024-03-01</lastmod>
		<blog:title>My First Post</blog:title>
	</url>

The title element is optional; when it is missing the title is derived from the
last segment of the location. The lastmod element is optional too, and posts
without one sort after every dated post.
*/
package post

import (
	"strings"
	"time"
)

// DefaultMarker is the substring that identifies a post location.
const DefaultMarker = "/posts/"

// Post is a single entry of the post list. It only lives for one render pass.
type Post struct {
	Location     string     // URL of the post, never empty
	Title        string     // display title, explicit or derived
	LastModified *time.Time // nil when the entry has no usable lastmod
}

// HasDate reports whether the post carries a last modified date.
func (p Post) HasDate() bool {
	return p.LastModified != nil
}

// RelativeLocation returns the location without a leading slash, which is
// how htmx requests are issued relative to the current page.
func (p Post) RelativeLocation() string {
	return strings.TrimPrefix(p.Location, "/")
}

// FormattedDate returns the date as shown on a post card.
func (p Post) FormattedDate() string {
	return FormatDate(p.LastModified)
}

// FormatDate formats t like "Mar 1, 2024", or "No date" when t is nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "No date"
	}
	return t.Format("Jan 2, 2006")
}
