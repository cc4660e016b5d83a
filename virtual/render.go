package virtual

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

// renderFile is a file generated from a source on the underlying file system.
type renderFile struct {
	info   fs.FileInfo   // FileInfo of the source, under the virtual name
	reader *bytes.Reader // Main Reader to use
	data   []byte
}

// Stat returns a FileInfo describing the file.
func (f *renderFile) Stat() (fs.FileInfo, error) {
	return renderFileInfo{FileInfo: f.info, size: int64(len(f.data))}, nil
}

// Read reads up to len(b) bytes from the File. It returns the number of bytes read
// and any error encountered. At end of file, Read returns 0, io.EOF.
func (f *renderFile) Read(b []byte) (int, error) {
	return f.reader.Read(b)
}

// Seek sets the offset for the next Read, as io.Seeker describes.
func (f *renderFile) Seek(offset int64, whence int) (int64, error) {
	return f.reader.Seek(offset, whence)
}

// Close does nothing. The source file is closed once rendering is done.
func (f *renderFile) Close() error {
	return nil
}

// Bytes returns the rendered content.
func (f *renderFile) Bytes() []byte {
	return f.data
}

// renderFileInfo holds the metadata about the file and allows you
// to customize the size, which is important for reporting the
// length of the rendered data.
type renderFileInfo struct {
	fs.FileInfo

	size int64 // Size of file data
}

// Size reports the length of the file.
func (rfi renderFileInfo) Size() int64 {
	return rfi.size
}

// newMarkdownFile reads the underlying markdown file, extracts the front matter,
// renders the markdown, and executes the layout, returning the resulting
// renderFile. Front matter naming a template overrides layout for complete
// pages only; fragments always use the layout given.
func (vfs *FS) newMarkdownFile(f fs.File, pathname, layout string) (fs.File, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("newMarkdownFile: %w", err)
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("newMarkdownFile: %w", err)
	}

	front, md, err := parseMarkdown(b)
	if err != nil {
		return nil, fmt.Errorf("newMarkdownFile %s: %w", pathname, err)
	}

	// prepare template data
	p, bn := path.Split(pathname)
	var data = data{
		FrontMatter: *front,
		Page: pageInfo{
			Path:     p,
			Filename: bn,
		},
		Content: md,
	}
	if data.FrontMatter.Title == "" {
		data.FrontMatter.Title = strings.TrimSuffix(bn, path.Ext(bn))
	}

	templateName := layout
	if layout == "default" && data.FrontMatter.Template != "" {
		templateName = data.FrontMatter.Template
	}
	var wtr bytes.Buffer
	tpl := vfs.getTemplates()
	if tpl.Lookup(templateName) == nil {
		// custom template sets may leave out the fragment layout
		vfs.Log.Debugw("no template, serving content only", "template", templateName, "page", pathname)
		wtr.WriteString(string(md))
	} else if err = tpl.ExecuteTemplate(&wtr, templateName, data); err != nil {
		return nil, fmt.Errorf("newMarkdownFile %s: %w", pathname, err)
	}

	return &renderFile{
		info:   virtualFileInfo{FileInfo: fi, name: bn},
		reader: bytes.NewReader(wtr.Bytes()),
		data:   wtr.Bytes(),
	}, nil
}
