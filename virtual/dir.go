package virtual

import (
	"io/fs"
	"path"
	"strings"
)

// virtualDir is a directory whose listing matches what Open serves: hidden
// and special entries are dropped and Markdown sources are listed under the
// name of the page they render.
type virtualDir struct {
	fs.ReadDirFile

	path string // path of the directory in the file system
}

// ReadDir reads the contents of the directory. With n > 0 it returns at most
// n entries and io.EOF at the end of the directory, as fs.ReadDirFile requires.
func (d *virtualDir) ReadDir(n int) ([]fs.DirEntry, error) {
	for {
		entries, err := d.ReadDirFile.ReadDir(n)
		result := d.filter(entries)
		// keep reading when a whole batch was filtered out, so that callers
		// asking for n entries never see an empty slice before io.EOF
		if n <= 0 || len(result) > 0 || err != nil {
			return result, err
		}
	}
}

func (d *virtualDir) filter(entries []fs.DirEntry) []fs.DirEntry {
	result := make([]fs.DirEntry, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		full := path.Join(d.path, name)
		if strings.HasPrefix(name, ".") || isHiddenFile(full) {
			continue
		}
		if !entry.IsDir() && path.Ext(name) == ".md" {
			result = append(result, virtualDirEntry{DirEntry: entry, name: strings.TrimSuffix(name, ".md") + ".html"})
			continue
		}
		result = append(result, entry)
	}
	return result
}
