/*
Package virtual implements a "virtual" view over the site directory that makes
it suitable for serving the blog. It hides configuration, serves Markdown posts
as HTML pages and renders them through layout templates.

A special file "blog.cfg" at the root exposes settings you can use via the
Config() function. This file is hidden from view.

A special folder "template" at the root holds HTML templates should you want to
customize the layouts. A template called "default" renders a complete page and
a template called "fragment" renders the part swapped into an existing page by
htmx. When the folder is missing, built-in layouts are used.

Hidden files and folders (those starting with ".") are ignored.

# Markdown Posts

When an endpoint like "/posts/bar.html" is requested and it does not exist, the
file system looks for a Markdown file named "/posts/bar.md". If present, a
virtual file "/posts/bar.html" is presented that renders the Markdown into the
"default" layout, unless the front matter names a different template. Directory
listings show the virtual name in place of the Markdown file.

# Front Matter

Markdown files may contain front matter in TOML format, delimited by "+++" at
the start and end:

	+++
	title = "My first post"
	date = 2024-03-01
	+++
	# My first post
	Some [Markdown](https://en.wikipedia.org/wiki/Markdown).

# Templates

Templates use html/template and receive the page information, the front matter
and the rendered Markdown. Besides the functions passed to New, they can use:

	join, ext, trimsuffix, trimprefix, trimspace, now
	markdown(path string) template.HTML
	frontmatter(path string) *virtual.FrontMatter
	component(name, path string) template.HTML

"component" renders nothing unless New is given a replacement.

# Errors

404.html and 500.html (or their Markdown sources) in the root can be served by
the web layer when a request fails.
*/
package virtual

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// FS provides a virtual view of the site directory.
type FS struct {
	fs       fs.FS
	funcs    template.FuncMap
	tpl      *template.Template
	tplMutex sync.RWMutex
	Log      *zap.SugaredLogger
}

// New returns a new FS that presents a virtual view of innerFS. The functions
// in funcs are made available to the layout templates, replacing the built-in
// ones of the same name.
func New(innerFS fs.FS, funcs template.FuncMap) (*FS, error) {
	var vfs = FS{
		fs:    innerFS,
		funcs: funcs,
		Log:   zap.NewNop().Sugar(),
	}
	_, err := vfs.loadTemplates()
	if err != nil {
		return nil, err
	}

	return &vfs, nil
}

// Open opens the named file.
//
// When Open returns an error, it is of type *fs.PathError with the Op field
// set to "open", the Path field set to name, and the Err field describing
// the problem.
func (vfs *FS) Open(name string) (fs.File, error) {
	// Make sure the path is valid per fs rules
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	// Don't show hidden or special files
	if isHiddenFile(name) || (name != "." && containsSpecialFile(name)) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	f, err := vfs.fs.Open(name)
	if err != nil {
		// a missing page may have a Markdown source
		if errors.Is(err, fs.ErrNotExist) && path.Ext(name) == ".html" {
			mdName := markdownName(name)
			mf, err2 := vfs.fs.Open(mdName)
			if err2 == nil {
				defer mf.Close()
				return vfs.newMarkdownFile(mf, name, "default")
			}
		}
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	// Directories need to be virtual so that listings hide the same files
	// Open does.
	if fi.IsDir() {
		rdf, ok := f.(fs.ReadDirFile)
		if !ok {
			f.Close()
			return nil, &fs.PathError{Op: "open", Path: name, Err: errors.New("not a directory")}
		}
		return &virtualDir{ReadDirFile: rdf, path: name}, nil
	}
	return f, nil
}

// Exists reports whether the page name can be served, either as a file or
// through its Markdown source.
func (vfs *FS) Exists(name string) bool {
	f, err := vfs.Open(name)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// Fragment returns the content of page name for swapping into an existing
// page. HTML files are returned as they are; Markdown sources are rendered
// with the "fragment" template.
func (vfs *FS) Fragment(name string) ([]byte, error) {
	if !fs.ValidPath(name) || isHiddenFile(name) || containsSpecialFile(name) {
		return nil, &fs.PathError{Op: "fragment", Path: name, Err: fs.ErrNotExist}
	}
	b, err := fs.ReadFile(vfs.fs, name)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, fs.ErrNotExist) || path.Ext(name) != ".html" {
		return nil, fmt.Errorf("Fragment: %w", err)
	}
	f, err := vfs.fs.Open(markdownName(name))
	if err != nil {
		return nil, fmt.Errorf("Fragment: %w", err)
	}
	defer f.Close()
	rf, err := vfs.newMarkdownFile(f, name, "fragment")
	if err != nil {
		return nil, fmt.Errorf("Fragment: %w", err)
	}
	return rf.(*renderFile).Bytes(), nil
}

// markdownName returns the Markdown source for the page name.
func markdownName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ".md"
}
