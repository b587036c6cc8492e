package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.yaml.in/yaml/v3"

	"example.com/pdf-pairmerge/internal/pairmerge"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// printReport writes rep to w as styled text, JSON or YAML.
func printReport(w io.Writer, rep cliReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return printText(w, rep)
	default:
		return fmt.Errorf("unknown report format %q (want text, json or yaml)", format)
	}
}

func printText(w io.Writer, rep cliReport) error {
	for _, r := range rep.Records {
		var line string
		switch r.Status {
		case pairmerge.StatusMerged:
			line = okStyle.Render("✓ "+r.Message) + dimStyle.Render(fmt.Sprintf(" (%d pages)", r.Pages))
		case pairmerge.StatusFailed:
			line = errStyle.Render("✗ "+r.Message) + dimStyle.Render(" ("+r.Reason+")")
		default:
			line = warnStyle.Render("! " + r.Message)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	s := rep.Summary
	_, err := fmt.Fprintf(w, "\nSummary: %d merged, %d failed, %d skipped -> %s\n",
		s.Merged, s.Failed, s.Skipped(), rep.Archive)
	return err
}
