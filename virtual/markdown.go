package virtual

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pelletier/go-toml/v2"
	"github.com/russross/blackfriday/v2"
)

// pathToMarkdown takes a URL path and converts it into the path to the associated Markdown file.
func pathToMarkdown(filename string) string {
	// check for folder - if so, add index.md
	if strings.HasSuffix(filename, "/") {
		filename += "index.md"
	}
	filename = path.Clean(filename)
	// removing leading / so we find it on the file system
	filename = strings.TrimPrefix(filename, "/")
	switch path.Ext(filename) {
	case "":
		filename += ".md"
	case ".html":
		filename = markdownName(filename)
	}
	return filename
}

// ugcPolicy cleans rendered Markdown, which may carry raw HTML.
var ugcPolicy = bluemonday.UGCPolicy()

// parseMarkdown splits the front matter off b and renders the rest to HTML.
func parseMarkdown(b []byte) (*FrontMatter, template.HTML, error) {
	var front FrontMatter
	fm, r := extractFrontMatter(b)
	if len(fm) > 0 {
		if err := toml.Unmarshal(fm, &front); err != nil {
			return nil, "", fmt.Errorf("front matter: %w", err)
		}
	}
	out := blackfriday.Run(r, blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.Footnotes))
	md := template.HTML(ugcPolicy.SanitizeBytes(out))
	return &front, md, nil
}

// renderMarkdown renders the markdown for the given file and returns the front matter.
func (vfs *FS) renderMarkdown(filename string) (*FrontMatter, template.HTML, error) {
	filename = pathToMarkdown(filename)
	b, err := fs.ReadFile(vfs.fs, filename)
	if err != nil {
		return nil, "", fmt.Errorf("renderMarkdown: %w", err)
	}
	fm, md, err := parseMarkdown(b)
	if err != nil {
		return nil, "", fmt.Errorf("renderMarkdown %s: %w", filename, err)
	}
	return fm, md, nil
}

// md converts the given markdown file to HTML and is used in templates.
func (vfs *FS) md(filename string) template.HTML {
	_, md, err := vfs.renderMarkdown(filename)
	if err != nil {
		vfs.Log.Warnw("markdown", "file", filename, "error", err)
		return ""
	}
	return md
}

// fm returns front matter for the given file and is used in templates.
func (vfs *FS) fm(filename string) *FrontMatter {
	fm, _, err := vfs.renderMarkdown(filename)
	if err != nil {
		vfs.Log.Warnw("frontmatter", "file", filename, "error", err)
		return nil
	}
	return fm
}
