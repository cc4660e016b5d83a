package post

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// UntitledPost is returned when no title can be derived from a location.
const UntitledPost = "Untitled Post"

var (
	// extRegexp matches a file extension preceded by at least one character.
	extRegexp = regexp.MustCompile(`(.)\.[^./\s]+$`)
	// sepRegexp matches runs of word separators used in slugs.
	sepRegexp = regexp.MustCompile(`[-_]+`)
)

// DeriveTitle computes a display title from the last path segment of loc,
// so "/posts/my-first-post.html" becomes "My First Post".
func DeriveTitle(loc string) string {
	segments := lo.Compact(strings.Split(loc, "/"))
	if len(segments) == 0 {
		return UntitledPost
	}
	slug := segments[len(segments)-1]
	slug = extRegexp.ReplaceAllString(slug, "$1")
	slug = sepRegexp.ReplaceAllString(slug, " ")
	title := strings.TrimSpace(capitalizeWords(slug))
	if title == "" {
		return UntitledPost
	}
	return title
}

// capitalizeWords uppercases the first rune of every whitespace-delimited word.
func capitalizeWords(s string) string {
	var (
		b     strings.Builder
		start = true
	)
	b.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if unicode.IsSpace(r) {
			start = true
			b.WriteRune(r)
			continue
		}
		if start {
			r = unicode.ToUpper(r)
			start = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
