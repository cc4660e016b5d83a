package virtual

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"
)

//go:embed default.html
var defaultTemplate string

// pageInfo has information about the current page.
type pageInfo struct {
	Path     string // path from URL
	Filename string // end portion (file) from URL
}

// Pathname joins the path and filename.
func (p pageInfo) Pathname() string {
	return path.Join(p.Path, p.Filename)
}

// URL returns the absolute URL path of the page.
func (p pageInfo) URL() string {
	return "/" + p.Pathname()
}

// data is what is passed to markdown templates.
type data struct {
	FrontMatter FrontMatter   // front matter from Markdown file or defaults
	Page        pageInfo      // information about current page
	Content     template.HTML // rendered Markdown
}

// getTemplates returns the current templates.
func (vfs *FS) getTemplates() *template.Template {
	vfs.tplMutex.RLock()
	defer vfs.tplMutex.RUnlock()
	return vfs.tpl
}

// funcMap returns the functions available to templates.
func (vfs *FS) funcMap() template.FuncMap {
	funcMap := template.FuncMap{
		"join":        path.Join,
		"ext":         path.Ext,
		"trimsuffix":  strings.TrimSuffix,
		"trimprefix":  strings.TrimPrefix,
		"trimspace":   strings.TrimSpace,
		"markdown":    vfs.md,
		"frontmatter": vfs.fm,
		"now":         time.Now,
		"component":   func(name, path string) template.HTML { return "" },
	}
	for k, f := range vfs.funcs {
		funcMap[k] = f
	}
	return funcMap
}

// loadTemplates loads and parses the HTML templates, returning true if custom templates were found.
func (vfs *FS) loadTemplates() (bool, error) {
	var (
		tpl    *template.Template
		custom bool
	)
	fi, err := fs.Stat(vfs.fs, "template")
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.IsDir()) {
		tpl, err = template.New("blog").Funcs(vfs.funcMap()).Parse(defaultTemplate)
		if err != nil {
			return false, fmt.Errorf("loadTemplates: %w", err)
		}
	} else {
		custom = true
		tpl, err = template.New("blog").Funcs(vfs.funcMap()).ParseFS(vfs.fs, "template/*.html")
		if err != nil {
			return true, fmt.Errorf("loadTemplates: %w", err)
		}
	}
	vfs.tplMutex.Lock()
	defer vfs.tplMutex.Unlock()
	vfs.tpl = tpl
	return custom, nil
}

// Templates returns the names of the loaded templates.
func (vfs *FS) Templates() string {
	return vfs.getTemplates().DefinedTemplates()
}
