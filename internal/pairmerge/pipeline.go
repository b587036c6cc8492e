package pairmerge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Pipeline runs one pairing pass: index, match, merge, report, package.
// It holds no state between runs.
type Pipeline struct {
	Merger Merger
	// Workers bounds concurrent merges. Zero or one merges sequentially.
	Workers int
	// ArchiveName overrides the default bundle name.
	ArchiveName string
	Logger      *slog.Logger
}

// Result is everything a caller needs to present one run.
type Result struct {
	Match       MatchResult
	Records     []Record
	Summary     Summary
	Documents   []MergedDocument
	Archive     []byte
	ArchiveName string
}

// Run pairs a and b by filename and merges every match. It returns
// ErrInputIncomplete when either side is empty, a *PackagingError when the
// archive cannot be built, and ctx.Err() when the run was cancelled.
// Per-file merge failures are reported in Result.Records, never returned.
func (p *Pipeline) Run(ctx context.Context, a, b []UploadedFile) (*Result, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrInputIncomplete
	}
	log := p.logger()
	start := time.Now()

	setA, setB := Index(a), Index(b)
	if dup := len(a) - len(setA); dup > 0 {
		log.Warn("duplicate filenames in part A, keeping the last upload", "replaced", dup)
	}
	if dup := len(b) - len(setB); dup > 0 {
		log.Warn("duplicate filenames in part B, keeping the last upload", "replaced", dup)
	}
	match := Match(setA, setB)
	outcomes := p.mergeAll(ctx, match.Matched, setA, setB)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := Report(match, outcomes)
	var docs []MergedDocument
	for _, o := range outcomes {
		if o.Err == nil {
			docs = append(docs, *o.Doc)
		}
	}

	var buf bytes.Buffer
	if err := Package(&buf, docs); err != nil {
		log.Error("packaging failed", "error", err)
		return nil, err
	}

	res := &Result{
		Match:       match,
		Records:     records,
		Summary:     Summarize(records),
		Documents:   docs,
		Archive:     buf.Bytes(),
		ArchiveName: p.archiveName(),
	}
	log.Info("run finished",
		"part_a", len(a), "part_b", len(b),
		"merged", res.Summary.Merged, "failed", res.Summary.Failed,
		"skipped", res.Summary.Skipped(), "archive_bytes", len(res.Archive),
		"elapsed", time.Since(start))
	return res, nil
}

// mergeAll merges every name, keeping outcomes in the order of names.
// Each merge writes only its own slot.
func (p *Pipeline) mergeAll(ctx context.Context, names []string, a, b FileSet) []Outcome {
	outcomes := make([]Outcome, len(names))
	log := p.logger()

	var g errgroup.Group
	g.SetLimit(max(p.Workers, 1))
	for i, name := range names {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic while merging", "file", name, "panic", r)
					outcomes[i] = Outcome{Name: name, Err: &DocumentError{Name: name, Err: fmt.Errorf("panic: %v", r)}}
				}
			}()
			doc, err := p.Merger.Merge(ctx, name, a[name], b[name])
			if err != nil {
				var docErr *DocumentError
				if errors.As(err, &docErr) {
					log.Warn("merge failed", "file", name, "part", docErr.Part, "error", docErr.Err)
				} else {
					log.Warn("merge failed", "file", name, "error", err)
				}
				outcomes[i] = Outcome{Name: name, Err: err}
				return nil
			}
			log.Debug("merged", "file", name, "pages", doc.Pages, "bytes", len(doc.Data))
			outcomes[i] = Outcome{Name: name, Doc: &doc}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Pipeline) archiveName() string {
	if p.ArchiveName != "" {
		return p.ArchiveName
	}
	return ArchiveName
}
