package pairmerge

import "fmt"

// Status is the kind of a report record.
type Status string

const (
	StatusMerged Status = "merged"
	StatusFailed Status = "failed"
	StatusOnlyA  Status = "only_a"
	StatusOnlyB  Status = "only_b"
)

// Outcome is the result of merging one matched filename. Exactly one of Doc
// and Err is set.
type Outcome struct {
	Name string
	Doc  *MergedDocument
	Err  error
}

// Record is one line of user-facing status.
type Record struct {
	Name    string `json:"file" yaml:"file"`
	Status  Status `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
	Reason  string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Pages   int    `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// Summary counts records by status.
type Summary struct {
	Merged int `json:"merged" yaml:"merged"`
	Failed int `json:"failed" yaml:"failed"`
	OnlyA  int `json:"only_a" yaml:"only_a"`
	OnlyB  int `json:"only_b" yaml:"only_b"`
}

// Skipped is the number of filenames present on one side only.
func (s Summary) Skipped() int { return s.OnlyA + s.OnlyB }

// Report turns a match and its merge outcomes into records: matched names
// first, then names only in A, then names only in B, each group sorted.
// A matched name without an outcome is reported as failed.
func Report(m MatchResult, outcomes []Outcome) []Record {
	byName := make(map[string]Outcome, len(outcomes))
	for _, o := range outcomes {
		byName[o.Name] = o
	}

	records := make([]Record, 0, len(m.Matched)+len(m.OnlyA)+len(m.OnlyB))
	for _, name := range m.Matched {
		o, ok := byName[name]
		switch {
		case !ok:
			records = append(records, failedRecord(name, "not merged"))
		case o.Err != nil:
			records = append(records, failedRecord(name, o.Err.Error()))
		default:
			records = append(records, Record{
				Name:    name,
				Status:  StatusMerged,
				Message: "Merged: " + name,
				Pages:   o.Doc.Pages,
			})
		}
	}
	for _, name := range m.OnlyA {
		records = append(records, Record{
			Name:    name,
			Status:  StatusOnlyA,
			Message: fmt.Sprintf("Skipped (found only in Part A): %s", name),
		})
	}
	for _, name := range m.OnlyB {
		records = append(records, Record{
			Name:    name,
			Status:  StatusOnlyB,
			Message: fmt.Sprintf("Skipped (found only in Part B): %s", name),
		})
	}
	return records
}

func failedRecord(name, reason string) Record {
	return Record{
		Name:    name,
		Status:  StatusFailed,
		Message: "Failed to merge: " + name,
		Reason:  reason,
	}
}

// Summarize counts records by status.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Status {
		case StatusMerged:
			s.Merged++
		case StatusFailed:
			s.Failed++
		case StatusOnlyA:
			s.OnlyA++
		case StatusOnlyB:
			s.OnlyB++
		}
	}
	return s
}
