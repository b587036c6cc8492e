package pairmerge

import (
	"errors"
	"fmt"
)

// ErrInputIncomplete means one of the two sides has no files, so there is
// nothing to pair. Callers wait for more input instead of reporting it.
var ErrInputIncomplete = errors.New("pairmerge: both parts need at least one file")

// Part identifies which side of a pair a payload came from.
type Part string

const (
	PartA Part = "A"
	PartB Part = "B"
)

// DocumentError is returned by a Merger when a source payload cannot be
// parsed or appended. Part is empty when the failure happened while
// concatenating rather than while reading one side.
type DocumentError struct {
	Name string
	Part Part
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("merging %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("reading %s from part %s: %v", e.Name, e.Part, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// PackagingError is fatal for a run: the archive could not be written.
type PackagingError struct {
	Entry string
	Err   error
}

func (e *PackagingError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("packaging archive: %v", e.Err)
	}
	return fmt.Sprintf("packaging archive entry %s: %v", e.Entry, e.Err)
}

func (e *PackagingError) Unwrap() error { return e.Err }
