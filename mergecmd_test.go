package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"example.com/pdf-pairmerge/internal/pairmerge"
	"example.com/pdf-pairmerge/internal/pdftest"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestScanPDFs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", pdftest.New(1))
	writeFile(t, dir, "B.PDF", pdftest.New(1))
	writeFile(t, dir, "notes.txt", []byte("skip me"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	files, err := scanPDFs(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"B.PDF", "a.pdf"}, names)

	_, err = scanPDFs(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "Merged_PDFs.zip")
	require.NoError(t, writeFileAtomic(path, []byte("zip bytes")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "zip bytes", string(data))
	assert.NoFileExists(t, path+".tmp")
}

var sampleReport = cliReport{
	Records: []pairmerge.Record{
		{Name: "y.pdf", Status: pairmerge.StatusMerged, Message: "Merged: y.pdf", Pages: 5},
		{Name: "bad.pdf", Status: pairmerge.StatusFailed, Message: "Failed to merge: bad.pdf", Reason: "reading bad.pdf from part A: no header"},
		{Name: "x.pdf", Status: pairmerge.StatusOnlyA, Message: "Skipped (found only in Part A): x.pdf"},
	},
	Summary: pairmerge.Summary{Merged: 1, Failed: 1, OnlyA: 1},
	Archive: "Merged_PDFs.zip",
}

func TestPrintReport(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printReport(&buf, sampleReport, "text"))
		out := buf.String()
		assert.Contains(t, out, "Merged: y.pdf")
		assert.Contains(t, out, "5 pages")
		assert.Contains(t, out, "no header")
		assert.Contains(t, out, "Skipped (found only in Part A): x.pdf")
		assert.Contains(t, out, "Summary: 1 merged, 1 failed, 1 skipped -> Merged_PDFs.zip")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printReport(&buf, sampleReport, "json"))
		var got cliReport
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, sampleReport, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printReport(&buf, sampleReport, "yaml"))
		assert.Contains(t, buf.String(), "status: only_a")
		var got cliReport
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, sampleReport, got)
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, printReport(&bytes.Buffer{}, sampleReport, "xml"))
	})
}

func TestMergeCommand(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	writeFile(t, dirA, "report.pdf", pdftest.New(2))
	writeFile(t, dirA, "x.pdf", pdftest.New(1))
	writeFile(t, dirB, "report.pdf", pdftest.New(3))
	out := filepath.Join(t.TempDir(), "bundle.zip")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"merge", "--part-a", dirA, "--part-b", dirB, "--out", out, "--format", "json"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())

	var rep cliReport
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rep))
	assert.Equal(t, pairmerge.Summary{Merged: 1, OnlyA: 1}, rep.Summary)
	assert.Equal(t, out, rep.Archive)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	entries := zipEntries(t, data)
	require.Len(t, entries, 1)
	assert.Contains(t, entries, "report.pdf")
}
