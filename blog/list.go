// Package blog wires the sitemap reader, the post extractor and the renderer
// into the post list served by the blog.
package blog

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/theagileengineer/blog/post"
	"github.com/theagileengineer/blog/render"
	"github.com/theagileengineer/blog/sitemap"
)

// List builds the post list from the sitemap. Every call reads the sitemap
// again; nothing is kept between calls.
type List struct {
	Reader sitemap.Reader
	Marker string
	Log    *zap.SugaredLogger
}

// Posts reads the sitemap and returns its posts, newest first.
// The only error is one wrapping sitemap.ErrUnavailable.
func (l *List) Posts(ctx context.Context) ([]post.Post, error) {
	b, err := l.Reader.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("Posts: %w", err)
	}
	res := post.Extract(b, l.Marker)
	if res.Skipped > 0 && l.Log != nil {
		l.Log.Debugw("skipped sitemap entries without a location", "count", res.Skipped)
	}
	return post.Sort(res.Posts), nil
}

// Render writes the post list with r. When the sitemap cannot be read, the
// error fragment is written instead and the read error is returned.
func (l *List) Render(ctx context.Context, w io.Writer, r *render.Renderer) error {
	posts, err := l.Posts(ctx)
	if err != nil {
		if rerr := r.RenderError(w); rerr != nil {
			return fmt.Errorf("Render: %w", rerr)
		}
		return err
	}
	var buf bytes.Buffer
	err = r.Render(&buf, posts)
	if err != nil {
		return fmt.Errorf("Render: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}
