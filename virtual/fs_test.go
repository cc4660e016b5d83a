package virtual

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloPost = `+++
title = "Hello World"
date = 2024-03-01T00:00:00Z
description = "A first post"
+++
# Welcome

Some *Markdown*.
`

func newSite(t *testing.T, files map[string]string) fs.FS {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(content), 0o644))
	}
	return afero.NewIOFS(fsys)
}

func testSite(t *testing.T) fs.FS {
	return newSite(t, map[string]string{
		"index.html":     "<h1>Home</h1>",
		"blog.cfg":       `sitetitle = "Test"`,
		".hidden":        "secret",
		".git/config":    "[core]",
		"posts/hello.md": helloPost,
		"posts/raw.html": "<p>raw post</p>",
		"404.html":       "<h1>Not here</h1>",
	})
}

func TestOpenHidden(t *testing.T) {
	vfs, err := New(testSite(t), nil)
	require.NoError(t, err)

	for _, name := range []string{"blog.cfg", ".hidden", ".git/config", "template", "template/default.html", "missing.html"} {
		_, err := vfs.Open(name)
		assert.ErrorIs(t, err, fs.ErrNotExist, name)
	}
	_, err = vfs.Open("../etc/passwd")
	assert.ErrorIs(t, err, fs.ErrInvalid)

	b, err := fs.ReadFile(vfs, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Home</h1>", string(b))
}

func TestMarkdownPage(t *testing.T) {
	funcs := template.FuncMap{
		"component": func(name, path string) template.HTML {
			return template.HTML(fmt.Sprintf("<nav>%s %s</nav>", name, path))
		},
	}
	vfs, err := New(testSite(t), funcs)
	require.NoError(t, err)

	f, err := vfs.Open("posts/hello.html")
	require.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	page := string(b)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Hello World</title>")
	assert.Contains(t, page, `<meta name="description" content="A first post">`)
	assert.Contains(t, page, "<nav>blog-header /posts/hello.html</nav>")
	assert.Contains(t, page, "<nav>blog-footer /posts/hello.html</nav>")
	assert.Contains(t, page, `<main id="main-content">`)
	assert.Contains(t, page, "<h1>Welcome</h1>")
	assert.Contains(t, page, "<em>Markdown</em>")
	assert.Contains(t, page, "Mar 1, 2024")

	fi, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, "hello.html", fi.Name())
	assert.Equal(t, int64(len(b)), fi.Size())
	assert.False(t, fi.IsDir())
}

func TestMarkdownPageServed(t *testing.T) {
	vfs, err := New(testSite(t), nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	http.FileServer(http.FS(vfs)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts/hello.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<h1>Welcome</h1>")

	rec = httptest.NewRecorder()
	http.FileServer(http.FS(vfs)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog.cfg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkdownUntitled(t *testing.T) {
	vfs, err := New(newSite(t, map[string]string{"about.md": "Just text."}), nil)
	require.NoError(t, err)
	b, err := fs.ReadFile(vfs, "about.html")
	require.NoError(t, err)
	assert.Contains(t, string(b), "<title>about</title>")
	assert.NotContains(t, string(b), `class="post-date"`)
}

func TestMarkdownBadFrontMatter(t *testing.T) {
	vfs, err := New(newSite(t, map[string]string{"posts/bad.md": "+++\ntitle = \n+++\nbody"}), nil)
	require.NoError(t, err)
	_, err = vfs.Open("posts/bad.html")
	assert.Error(t, err)
	_, err = vfs.Fragment("posts/bad.html")
	assert.Error(t, err)
}

func TestMarkdownSanitized(t *testing.T) {
	post := "# Title\n\nSome *text* <script>alert(1)</script> and <a href=\"javascript:alert(1)\" onclick=\"x()\">a link</a>.\n"
	vfs, err := New(newSite(t, map[string]string{"posts/raw.md": post}), nil)
	require.NoError(t, err)

	b, err := vfs.Fragment("posts/raw.html")
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<em>text</em>")
	assert.Contains(t, out, "a link")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "onclick")
}

func TestMarkdownTags(t *testing.T) {
	post := "+++\ntitle = \"Tagged\"\ntags = [\"go\", \"<htmx>\"]\n+++\nBody.\n"
	vfs, err := New(newSite(t, map[string]string{
		"posts/tagged.md": post,
		"posts/plain.md":  helloPost,
	}), nil)
	require.NoError(t, err)

	b, err := vfs.Fragment("posts/tagged.html")
	require.NoError(t, err)
	assert.Contains(t, string(b), `<ul class="tags"><li>go</li><li>&lt;htmx&gt;</li></ul>`)

	b, err = vfs.Fragment("posts/plain.html")
	require.NoError(t, err)
	assert.NotContains(t, string(b), `class="tags"`)
}

func TestFragment(t *testing.T) {
	vfs, err := New(testSite(t), nil)
	require.NoError(t, err)

	b, err := vfs.Fragment("posts/raw.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>raw post</p>", string(b))

	b, err = vfs.Fragment("posts/hello.html")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), `<article class="post">`))
	assert.Contains(t, string(b), "<h1>Hello World</h1>")
	assert.NotContains(t, string(b), "<!DOCTYPE html>")

	_, err = vfs.Fragment("posts/missing.html")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = vfs.Fragment("blog.cfg")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestExists(t *testing.T) {
	vfs, err := New(testSite(t), nil)
	require.NoError(t, err)
	assert.True(t, vfs.Exists("posts/hello.html"))
	assert.True(t, vfs.Exists("posts/raw.html"))
	assert.False(t, vfs.Exists("posts/missing.html"))
	assert.False(t, vfs.Exists("blog.cfg"))
}

func TestReadDir(t *testing.T) {
	vfs, err := New(testSite(t), nil)
	require.NoError(t, err)

	names := func(dir string) []string {
		entries, err := fs.ReadDir(vfs, dir)
		require.NoError(t, err)
		var r []string
		for _, e := range entries {
			r = append(r, e.Name())
		}
		return r
	}
	assert.Equal(t, []string{"404.html", "index.html", "posts"}, names("."))
	assert.Equal(t, []string{"hello.html", "raw.html"}, names("posts"))

	entries, err := fs.ReadDir(vfs, "posts")
	require.NoError(t, err)
	fi, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, "hello.html", fi.Name())
}

func TestReadDirBatches(t *testing.T) {
	vfs, err := New(testSite(t), nil)
	require.NoError(t, err)

	f, err := vfs.Open(".")
	require.NoError(t, err)
	defer f.Close()
	rdf, ok := f.(fs.ReadDirFile)
	require.True(t, ok, "root is not a ReadDirFile")

	var seen []string
	for {
		dirs, err := rdf.ReadDir(1)
		if errors.Is(err, io.EOF) {
			assert.Empty(t, dirs)
			break
		}
		require.NoError(t, err)
		require.Len(t, dirs, 1)
		seen = append(seen, dirs[0].Name())
	}
	assert.Equal(t, []string{"404.html", "index.html", "posts"}, seen)
}

func TestWalkConcurrent(t *testing.T) {
	const count = 10
	vfs, err := New(testSite(t), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()
			err := fs.WalkDir(vfs, ".", func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				b, err := fs.ReadFile(vfs, path)
				if err != nil {
					return err
				}
				if len(b) == 0 {
					return fmt.Errorf("%s has no data", path)
				}
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestConfig(t *testing.T) {
	vfs, err := New(newSite(t, map[string]string{}), nil)
	require.NoError(t, err)
	cfg, err := vfs.Config()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)

	vfs, err = New(newSite(t, map[string]string{"blog.cfg": `
expires = "1m"
postmarker = "/articles/"
sitetitle = "My Blog"
baseurl = "https://example.com"

[headers]
X-Test = "yes"

[[nav]]
label = "Home"
href = "/"
`}), nil)
	require.NoError(t, err)
	cfg, err = vfs.Config()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, time.Duration(cfg.Expires))
	assert.Equal(t, 24*time.Hour, time.Duration(cfg.StaticExpires))
	assert.Equal(t, "/articles/", cfg.PostMarker)
	assert.Equal(t, "My Blog", cfg.SiteTitle)
	assert.Equal(t, "https://example.com", cfg.BaseURL)
	assert.Equal(t, map[string]string{"X-Test": "yes"}, cfg.Headers)
	assert.Equal(t, []Link{{Label: "Home", Href: "/"}}, cfg.Nav)

	vfs, err = New(newSite(t, map[string]string{"blog.cfg": `expires = "soon"`}), nil)
	require.NoError(t, err)
	_, err = vfs.Config()
	assert.Error(t, err)
}

func TestCustomTemplates(t *testing.T) {
	vfs, err := New(newSite(t, map[string]string{
		"template/default.html": `{{define "default"}}{{(frontmatter "posts/hello.html").Title}}|{{markdown "/posts/hello"}}{{end}}`,
		"posts/hello.md":        helloPost,
		"posts/plain.md":        "+++\ntemplate = \"plain\"\n+++\nplain body",
		"template/plain.html":   `{{define "plain"}}PLAIN {{.Content}}{{end}}`,
	}), nil)
	require.NoError(t, err)
	assert.Contains(t, vfs.Templates(), `"default"`)

	b, err := fs.ReadFile(vfs, "posts/hello.html")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "Hello World|<h1>Welcome</h1>"))

	b, err = fs.ReadFile(vfs, "posts/plain.html")
	require.NoError(t, err)
	assert.Equal(t, "PLAIN <p>plain body</p>\n", string(b))

	// no fragment layout in this set, so fragments are the content alone
	b, err = vfs.Fragment("posts/plain.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>plain body</p>\n", string(b))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	tplDir := filepath.Join(dir, "template")
	require.NoError(t, os.Mkdir(tplDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tplDir, "default.html"), []byte(`{{define "default"}}one{{end}}`), 0o644))

	vfs, err := New(os.DirFS(dir), nil)
	require.NoError(t, err)
	assert.NotContains(t, vfs.Templates(), `"extra"`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- vfs.Watch(ctx, tplDir, 10*time.Millisecond) }()

	i := 0
	assert.Eventually(t, func() bool {
		i++
		content := fmt.Sprintf(`{{define "extra"}}%d{{end}}`, i)
		if err := os.WriteFile(filepath.Join(tplDir, "extra.html"), []byte(content), 0o644); err != nil {
			return false
		}
		return strings.Contains(vfs.Templates(), `"extra"`)
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop")
	}
}

func TestWatchMissingDir(t *testing.T) {
	vfs, err := New(newSite(t, nil), nil)
	require.NoError(t, err)
	err = vfs.Watch(context.Background(), filepath.Join(t.TempDir(), "nope"), time.Second)
	assert.Error(t, err)
}
