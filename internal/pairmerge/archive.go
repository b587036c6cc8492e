package pairmerge

import (
	"archive/zip"
	"io"
	"sort"
	"time"
)

const (
	// ArchiveName is the download name of the bundle.
	ArchiveName = "Merged_PDFs.zip"
	// ArchiveMIME is the content type of the bundle.
	ArchiveMIME = "application/zip"
)

// Package writes docs into a zip stream on w, one flat entry per document
// named by its filename, sorted. An empty docs slice produces a valid empty
// archive. Every failure is a *PackagingError.
func Package(w io.Writer, docs []MergedDocument) error {
	sorted := make([]MergedDocument, len(docs))
	copy(sorted, docs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	zw := zip.NewWriter(w)
	modified := time.Now()
	for _, doc := range sorted {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     doc.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return &PackagingError{Entry: doc.Name, Err: err}
		}
		if _, err := fw.Write(doc.Data); err != nil {
			return &PackagingError{Entry: doc.Name, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return &PackagingError{Err: err}
	}
	return nil
}
