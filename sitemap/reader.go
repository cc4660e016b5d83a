// Package sitemap reads the raw sitemap document the post list is built from.
package sitemap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// DefaultName is the sitemap file name at the root of the site.
const DefaultName = "sitemap.xml"

// DefaultTimeout bounds a single read of the sitemap.
const DefaultTimeout = 5 * time.Second

// ErrUnavailable is returned when the sitemap cannot be read at all.
var ErrUnavailable = errors.New("sitemap unavailable")

// A Reader returns the raw content of the sitemap.
type Reader interface {
	Read(ctx context.Context) ([]byte, error)
}

// New returns a Reader for source. Sources starting with http:// or https://
// are fetched over HTTP; anything else is a file name within fsys.
// Every read is bounded by timeout unless it is zero.
func New(source string, fsys afero.Fs, timeout time.Duration) Reader {
	if source == "" {
		source = DefaultName
	}
	var r Reader
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		r = &HTTPReader{Client: http.DefaultClient, URL: source}
	} else {
		r = &FileReader{Fs: fsys, Name: source}
	}
	if timeout <= 0 {
		return r
	}
	return &timeoutReader{Reader: r, timeout: timeout}
}

// FileReader reads the sitemap from a file system.
type FileReader struct {
	Fs   afero.Fs
	Name string
}

// Read implements Reader.
func (fr *FileReader) Read(ctx context.Context) ([]byte, error) {
	type result struct {
		b   []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		b, err := afero.ReadFile(fr.Fs, fr.Name)
		ch <- result{b, err}
	}()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: read %s: %w", ErrUnavailable, fr.Name, ctx.Err())
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, res.err)
		}
		return res.b, nil
	}
}

// HTTPReader fetches the sitemap from a URL.
type HTTPReader struct {
	Client *http.Client
	URL    string
}

// Read implements Reader. Any status other than 2xx is reported as unavailable.
func (hr *HTTPReader) Read(ctx context.Context) ([]byte, error) {
	client := hr.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hr.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrUnavailable, hr.URL, resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return b, nil
}

// timeoutReader applies a deadline to each read of the wrapped Reader.
type timeoutReader struct {
	Reader
	timeout time.Duration
}

// Read implements Reader.
func (tr *timeoutReader) Read(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, tr.timeout)
	defer cancel()
	return tr.Reader.Read(ctx)
}
