package pairmerge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
)

// MergedDocument is the concatenation of one matched pair: all of A's pages
// followed by all of B's, under the shared filename.
type MergedDocument struct {
	Name  string
	Data  []byte
	Pages int
}

//go:generate mockgen -source=merge.go -destination=mocks/mock_merger.go -package=mocks

// Merger concatenates the two payloads of one matched filename. A payload
// that is not a usable PDF yields a *DocumentError.
type Merger interface {
	Merge(ctx context.Context, name string, a, b UploadedFile) (MergedDocument, error)
}

// PDFMerger merges with pdfcpu. With StageDir empty everything stays in
// memory; otherwise each merge writes its inputs to a fresh directory under
// StageDir and removes it before returning.
type PDFMerger struct {
	StageDir string
}

// NewPDFMerger returns a PDFMerger. When disableConfigDir is set pdfcpu
// runs on its built-in defaults and never touches the user config dir.
func NewPDFMerger(stageDir string, disableConfigDir bool) *PDFMerger {
	if disableConfigDir {
		pdfapi.DisableConfigDir()
	}
	return &PDFMerger{StageDir: stageDir}
}

func (m *PDFMerger) Merge(ctx context.Context, name string, a, b UploadedFile) (MergedDocument, error) {
	if err := ctx.Err(); err != nil {
		return MergedDocument{}, err
	}

	srcA, pagesA, err := load(name, PartA, a)
	if err != nil {
		return MergedDocument{}, err
	}
	srcB, pagesB, err := load(name, PartB, b)
	if err != nil {
		return MergedDocument{}, err
	}

	var out []byte
	if m.StageDir != "" {
		out, err = m.mergeStaged(srcA, srcB)
	} else {
		out, err = mergeRaw(srcA, srcB)
	}
	if err != nil {
		return MergedDocument{}, &DocumentError{Name: name, Err: err}
	}
	return MergedDocument{Name: name, Data: out, Pages: pagesA + pagesB}, nil
}

// load reads one side and checks that pdfcpu can parse it.
func load(name string, part Part, f UploadedFile) ([]byte, int, error) {
	data, err := readAll(f)
	if err != nil {
		return nil, 0, &DocumentError{Name: name, Part: part, Err: err}
	}
	var n int
	err = guard(func() (err error) {
		n, err = pdfapi.PageCount(bytes.NewReader(data), nil)
		return err
	})
	if err != nil {
		return nil, 0, &DocumentError{Name: name, Part: part, Err: err}
	}
	return data, n, nil
}

func mergeRaw(a, b []byte) ([]byte, error) {
	var buf bytes.Buffer
	rs := []io.ReadSeeker{bytes.NewReader(a), bytes.NewReader(b)}
	if err := guard(func() error { return pdfapi.MergeRaw(rs, &buf, false, nil) }); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *PDFMerger) mergeStaged(a, b []byte) ([]byte, error) {
	tmpDir, err := os.MkdirTemp(m.StageDir, "pairmerge_*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	inA := filepath.Join(tmpDir, "a.pdf")
	inB := filepath.Join(tmpDir, "b.pdf")
	outPath := filepath.Join(tmpDir, "merged.pdf")

	if err := os.WriteFile(inA, a, 0o600); err != nil {
		return nil, err
	}
	if err := os.WriteFile(inB, b, 0o600); err != nil {
		return nil, err
	}
	if err := guard(func() error { return pdfapi.MergeCreateFile([]string{inA, inB}, outPath, false, nil) }); err != nil {
		return nil, err
	}
	return os.ReadFile(outPath)
}

// guard runs a pdfcpu call and turns a parser panic into an error. pdfcpu
// panics on some truncated inputs instead of returning one.
func guard(f func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed pdf: %v", p)
		}
	}()
	return f()
}
