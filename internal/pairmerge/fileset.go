// Package pairmerge pairs two sets of PDF uploads by filename, concatenates
// each matched pair and bundles the results into a zip archive.
package pairmerge

import (
	"bytes"
	"io"
	"os"
	"sort"
)

// UploadedFile is one PDF payload from Part A or Part B. Open may be called
// more than once; each call returns a fresh reader over the same bytes.
type UploadedFile struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FromBytes wraps an in-memory payload.
func FromBytes(name string, data []byte) UploadedFile {
	return UploadedFile{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FromPath wraps a file on disk. The file is opened lazily.
func FromPath(name, path string) UploadedFile {
	return UploadedFile{
		Name: name,
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// FileSet maps a filename to its upload for one side.
type FileSet map[string]UploadedFile

// Index builds a FileSet from files in order. A later file with the same
// name replaces an earlier one.
func Index(files []UploadedFile) FileSet {
	set := make(FileSet, len(files))
	for _, f := range files {
		set[f.Name] = f
	}
	return set
}

// Names returns the keys of s in sorted order.
func (s FileSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// readAll drains one upload into memory.
func readAll(f UploadedFile) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
