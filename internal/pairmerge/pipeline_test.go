package pairmerge_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/pdf-pairmerge/internal/pairmerge"
	"example.com/pdf-pairmerge/internal/pairmerge/mocks"
	"example.com/pdf-pairmerge/internal/pdftest"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func archiveEntries(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		entries[f.Name] = body
	}
	return entries
}

func pdfPages(t *testing.T, data []byte) int {
	t.Helper()
	n, err := pdfapi.PageCount(bytes.NewReader(data), nil)
	require.NoError(t, err)
	return n
}

func realPipeline() *pairmerge.Pipeline {
	return &pairmerge.Pipeline{Merger: pairmerge.NewPDFMerger("", true), Logger: quiet}
}

func TestPipeline_InputIncomplete(t *testing.T) {
	ctrl := gomock.NewController(t)
	merger := mocks.NewMockMerger(ctrl)
	merger.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	p := &pairmerge.Pipeline{Merger: merger, Logger: quiet}
	one := []pairmerge.UploadedFile{pairmerge.FromBytes("a.pdf", pdftest.New(1))}

	tests := []struct {
		name string
		a, b []pairmerge.UploadedFile
	}{
		{name: "empty A", a: nil, b: one},
		{name: "empty B", a: one, b: nil},
		{name: "both empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Run(context.Background(), tt.a, tt.b)
			assert.ErrorIs(t, err, pairmerge.ErrInputIncomplete)
			assert.Nil(t, res)
		})
	}
}

// A = {report.pdf (2 pages)}, B = {report.pdf (3 pages)}.
func TestPipeline_SingleMatch(t *testing.T) {
	res, err := realPipeline().Run(context.Background(),
		[]pairmerge.UploadedFile{pairmerge.FromBytes("report.pdf", pdftest.New(2))},
		[]pairmerge.UploadedFile{pairmerge.FromBytes("report.pdf", pdftest.New(3))})
	require.NoError(t, err)

	entries := archiveEntries(t, res.Archive)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, pdfPages(t, entries["report.pdf"]))
	assert.Equal(t, pairmerge.ArchiveName, res.ArchiveName)
	assert.Equal(t, pairmerge.Summary{Merged: 1}, res.Summary)
}

// A = {x.pdf, y.pdf}, B = {y.pdf, z.pdf}.
func TestPipeline_PartialOverlap(t *testing.T) {
	res, err := realPipeline().Run(context.Background(),
		[]pairmerge.UploadedFile{
			pairmerge.FromBytes("x.pdf", pdftest.New(1)),
			pairmerge.FromBytes("y.pdf", pdftest.New(1)),
		},
		[]pairmerge.UploadedFile{
			pairmerge.FromBytes("y.pdf", pdftest.New(2)),
			pairmerge.FromBytes("z.pdf", pdftest.New(1)),
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"y.pdf"}, res.Match.Matched)
	assert.Equal(t, []string{"x.pdf"}, res.Match.OnlyA)
	assert.Equal(t, []string{"z.pdf"}, res.Match.OnlyB)

	var warnings int
	for _, r := range res.Records {
		if r.Status == pairmerge.StatusOnlyA || r.Status == pairmerge.StatusOnlyB {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)

	entries := archiveEntries(t, res.Archive)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, pdfPages(t, entries["y.pdf"]))
}

// A = {bad.pdf (corrupt)}, B = {bad.pdf (valid)}.
func TestPipeline_CorruptOnly(t *testing.T) {
	res, err := realPipeline().Run(context.Background(),
		[]pairmerge.UploadedFile{pairmerge.FromBytes("bad.pdf", pdftest.Corrupt())},
		[]pairmerge.UploadedFile{pairmerge.FromBytes("bad.pdf", pdftest.New(1))})
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, pairmerge.StatusFailed, res.Records[0].Status)
	assert.Equal(t, "bad.pdf", res.Records[0].Name)
	assert.NotEmpty(t, res.Records[0].Reason)
	assert.Empty(t, archiveEntries(t, res.Archive))
}

func TestPipeline_CorruptSiblingIsolated(t *testing.T) {
	res, err := realPipeline().Run(context.Background(),
		[]pairmerge.UploadedFile{
			pairmerge.FromBytes("bad.pdf", pdftest.Corrupt()),
			pairmerge.FromBytes("good.pdf", pdftest.New(2)),
		},
		[]pairmerge.UploadedFile{
			pairmerge.FromBytes("bad.pdf", pdftest.New(1)),
			pairmerge.FromBytes("good.pdf", pdftest.New(2)),
		})
	require.NoError(t, err)

	assert.Equal(t, pairmerge.Summary{Merged: 1, Failed: 1}, res.Summary)
	entries := archiveEntries(t, res.Archive)
	require.Len(t, entries, 1)
	assert.Equal(t, 4, pdfPages(t, entries["good.pdf"]))
}

func TestPipeline_MergerErrorsAreIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	merger := mocks.NewMockMerger(ctrl)

	merger.EXPECT().
		Merge(gomock.Any(), "a.pdf", gomock.Any(), gomock.Any()).
		Return(pairmerge.MergedDocument{}, &pairmerge.DocumentError{Name: "a.pdf", Part: pairmerge.PartB, Err: errors.New("truncated")}).
		Times(1)
	merger.EXPECT().
		Merge(gomock.Any(), "b.pdf", gomock.Any(), gomock.Any()).
		Return(pairmerge.MergedDocument{Name: "b.pdf", Data: []byte("merged b"), Pages: 2}, nil).
		Times(1)
	merger.EXPECT().
		Merge(gomock.Any(), "c.pdf", gomock.Any(), gomock.Any()).
		Return(pairmerge.MergedDocument{}, errors.New("unexpected")).
		Times(1)

	files := func(names ...string) []pairmerge.UploadedFile {
		out := make([]pairmerge.UploadedFile, len(names))
		for i, n := range names {
			out[i] = pairmerge.FromBytes(n, nil)
		}
		return out
	}

	p := &pairmerge.Pipeline{Merger: merger, Logger: quiet}
	res, err := p.Run(context.Background(), files("a.pdf", "b.pdf", "c.pdf"), files("c.pdf", "b.pdf", "a.pdf"))
	require.NoError(t, err)

	require.Len(t, res.Records, 3)
	assert.Equal(t, pairmerge.StatusFailed, res.Records[0].Status)
	assert.Contains(t, res.Records[0].Reason, "truncated")
	assert.Equal(t, pairmerge.StatusMerged, res.Records[1].Status)
	assert.Equal(t, pairmerge.StatusFailed, res.Records[2].Status)

	entries := archiveEntries(t, res.Archive)
	assert.Equal(t, map[string][]byte{"b.pdf": []byte("merged b")}, entries)
}

// slowMerger records the peak number of concurrent merges.
type slowMerger struct {
	active, peak atomic.Int32
}

func (m *slowMerger) Merge(_ context.Context, name string, _, _ pairmerge.UploadedFile) (pairmerge.MergedDocument, error) {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return pairmerge.MergedDocument{Name: name, Data: []byte(name)}, nil
}

func TestPipeline_Workers(t *testing.T) {
	var a, b []pairmerge.UploadedFile
	for _, n := range []string{"1.pdf", "2.pdf", "3.pdf", "4.pdf", "5.pdf", "6.pdf"} {
		a = append(a, pairmerge.FromBytes(n, nil))
		b = append(b, pairmerge.FromBytes(n, nil))
	}

	tests := []struct {
		name     string
		workers  int
		wantPeak int32
	}{
		{name: "sequential by default", workers: 0, wantPeak: 1},
		{name: "bounded parallelism", workers: 3, wantPeak: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &slowMerger{}
			p := &pairmerge.Pipeline{Merger: m, Workers: tt.workers, Logger: quiet}

			res, err := p.Run(context.Background(), a, b)
			require.NoError(t, err)

			assert.LessOrEqual(t, m.peak.Load(), tt.wantPeak)
			assert.Equal(t, 6, res.Summary.Merged)
			for i, r := range res.Records {
				assert.Equal(t, a[i].Name, r.Name, "records stay sorted regardless of completion order")
			}
		})
	}
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := realPipeline().Run(ctx,
		[]pairmerge.UploadedFile{pairmerge.FromBytes("x.pdf", pdftest.New(1))},
		[]pairmerge.UploadedFile{pairmerge.FromBytes("x.pdf", pdftest.New(1))})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestPipeline_ArchiveNameOverride(t *testing.T) {
	p := realPipeline()
	p.ArchiveName = "bundle.zip"

	res, err := p.Run(context.Background(),
		[]pairmerge.UploadedFile{pairmerge.FromBytes("x.pdf", pdftest.New(1))},
		[]pairmerge.UploadedFile{pairmerge.FromBytes("y.pdf", pdftest.New(1))})
	require.NoError(t, err)
	assert.Equal(t, "bundle.zip", res.ArchiveName)
	assert.Empty(t, archiveEntries(t, res.Archive))
}

func TestPipeline_DuplicateNameLastWins(t *testing.T) {
	res, err := realPipeline().Run(context.Background(),
		[]pairmerge.UploadedFile{
			pairmerge.FromBytes("x.pdf", pdftest.New(1)),
			pairmerge.FromBytes("x.pdf", pdftest.New(3)),
		},
		[]pairmerge.UploadedFile{pairmerge.FromBytes("x.pdf", pdftest.New(1))})
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, 4, res.Records[0].Pages)
	assert.Equal(t, 4, pdfPages(t, archiveEntries(t, res.Archive)["x.pdf"]))
}

func TestPipeline_TruncatedSiblingIsolated(t *testing.T) {
	res, err := realPipeline().Run(context.Background(),
		[]pairmerge.UploadedFile{
			pairmerge.FromBytes("bad.pdf", pdftest.Truncated()),
			pairmerge.FromBytes("good.pdf", pdftest.New(1)),
		},
		[]pairmerge.UploadedFile{
			pairmerge.FromBytes("bad.pdf", pdftest.New(1)),
			pairmerge.FromBytes("good.pdf", pdftest.New(2)),
		})
	require.NoError(t, err)

	assert.Equal(t, pairmerge.Summary{Merged: 1, Failed: 1}, res.Summary)
	assert.Equal(t, pairmerge.StatusFailed, res.Records[0].Status)
	assert.Equal(t, "bad.pdf", res.Records[0].Name)

	entries := archiveEntries(t, res.Archive)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, pdfPages(t, entries["good.pdf"]))
}

func TestPipeline_MergerPanicIsIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	merger := mocks.NewMockMerger(ctrl)
	merger.EXPECT().
		Merge(gomock.Any(), "a.pdf", gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, pairmerge.UploadedFile, pairmerge.UploadedFile) (pairmerge.MergedDocument, error) {
			panic("index out of range")
		})
	merger.EXPECT().
		Merge(gomock.Any(), "b.pdf", gomock.Any(), gomock.Any()).
		Return(pairmerge.MergedDocument{Name: "b.pdf", Data: []byte("merged b"), Pages: 2}, nil)

	one := func(name string) pairmerge.UploadedFile { return pairmerge.FromBytes(name, nil) }
	p := &pairmerge.Pipeline{Merger: merger, Workers: 2, Logger: quiet}
	res, err := p.Run(context.Background(),
		[]pairmerge.UploadedFile{one("a.pdf"), one("b.pdf")},
		[]pairmerge.UploadedFile{one("a.pdf"), one("b.pdf")})
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, pairmerge.StatusFailed, res.Records[0].Status)
	assert.Contains(t, res.Records[0].Reason, "index out of range")
	assert.Equal(t, pairmerge.StatusMerged, res.Records[1].Status)
	assert.Equal(t, map[string][]byte{"b.pdf": []byte("merged b")}, archiveEntries(t, res.Archive))
}
