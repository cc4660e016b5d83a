package post

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Result is the outcome of extracting posts from a sitemap.
type Result struct {
	Posts   []Post // posts in document order
	Skipped int    // entry blocks without a usable location
}

// entryRegexp finds <url> entry blocks. <urlset> does not match because the
// tag name must end right after "url".
var entryRegexp = regexp.MustCompile(`(?s)<url(?:\s[^>]*)?>.*?</url\s*>`)

// entry holds the raw values of the direct children of one <url> block.
type entry struct {
	loc     string
	lastmod string
	title   string
}

// Extract scans data for entry blocks and returns the posts whose location
// contains marker. Each block is decoded on its own, so a malformed block is
// skipped without affecting the rest of the document. A document without any
// entry blocks yields an empty result.
func Extract(data []byte, marker string) Result {
	if marker == "" {
		marker = DefaultMarker
	}
	var res Result
	for _, block := range entryRegexp.FindAll(data, -1) {
		e, err := decodeEntry(block)
		if err != nil || e.loc == "" {
			res.Skipped++
			continue
		}
		if !strings.Contains(e.loc, marker) {
			continue
		}
		p := Post{
			Location:     e.loc,
			Title:        e.title,
			LastModified: parseDate(e.lastmod),
		}
		if p.Title == "" {
			p.Title = DeriveTitle(p.Location)
		}
		res.Posts = append(res.Posts, p)
	}
	return res
}

// decodeEntry reads the loc, lastmod and title children of a single <url>
// block. Only direct children count, so nested extension elements such as
// <image:image><image:loc> are ignored. The first occurrence of each wins.
func decodeEntry(block []byte) (entry, error) {
	var (
		e     entry
		seen  = make(map[string]bool, 3)
		depth int
		field string
		text  strings.Builder
	)
	d := xml.NewDecoder(bytes.NewReader(block))
	d.Strict = false
	d.AutoClose = xml.HTMLAutoClose
	d.Entity = xml.HTMLEntity
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return e, nil
		}
		if err != nil {
			return e, fmt.Errorf("decodeEntry: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				switch t.Name.Local {
				case "loc", "lastmod", "title":
					if !seen[t.Name.Local] {
						field = t.Name.Local
						text.Reset()
					}
				}
			}
		case xml.EndElement:
			if depth == 2 && field != "" {
				v := strings.TrimSpace(text.String())
				switch field {
				case "loc":
					e.loc = v
				case "lastmod":
					e.lastmod = v
				case "title":
					e.title = v
				}
				seen[field] = true
				field = ""
			}
			depth--
		case xml.CharData:
			if field != "" {
				text.Write(t)
			}
		}
	}
}

// parseDate parses a sitemap lastmod value. Dates without a zone are UTC.
// Anything that is not a date is treated as missing.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}
