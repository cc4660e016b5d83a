package virtual

import (
	"io/fs"
)

// virtualFileInfo reports the virtual name in place of the underlying one.
type virtualFileInfo struct {
	fs.FileInfo
	name string
}

// Name returns the base name of the file.
func (fi virtualFileInfo) Name() string {
	return fi.name
}

// virtualDirEntry is a directory entry renamed for the virtual view.
type virtualDirEntry struct {
	fs.DirEntry
	name string
}

// Name returns the virtual name of the entry.
func (di virtualDirEntry) Name() string {
	return di.name
}

// Info returns the FileInfo for the entry under its virtual name.
func (di virtualDirEntry) Info() (fs.FileInfo, error) {
	fi, err := di.DirEntry.Info()
	if err != nil {
		return nil, err
	}
	return virtualFileInfo{FileInfo: fi, name: di.name}, nil
}
