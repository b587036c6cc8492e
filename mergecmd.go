package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"example.com/pdf-pairmerge/internal/pairmerge"
)

var mergeCmd = &cobra.Command{
	Use:   "merge --part-a DIR --part-b DIR",
	Short: "Merge matching PDFs from two directories into a zip",
	Long: `Merge reads every .pdf file directly inside the Part A and Part B
directories, pairs them by filename, merges each pair (A's pages first) and
writes the bundle to --out. One status line is printed per filename.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dirA, _ := cmd.Flags().GetString("part-a")
		dirB, _ := cmd.Flags().GetString("part-b")
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")
		if out == "" {
			out = cfg.Merge.ArchiveName
		}

		filesA, err := scanPDFs(dirA)
		if err != nil {
			return err
		}
		filesB, err := scanPDFs(dirB)
		if err != nil {
			return err
		}

		res, err := newPipeline().Run(cmd.Context(), filesA, filesB)
		if errors.Is(err, pairmerge.ErrInputIncomplete) {
			fmt.Fprintf(cmd.ErrOrStderr(), "nothing to merge: Part A has %d PDFs, Part B has %d\n", len(filesA), len(filesB))
			return nil
		}
		if err != nil {
			return err
		}

		if err := writeFileAtomic(out, res.Archive); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		return printReport(cmd.OutOrStdout(), cliReport{
			Records: res.Records,
			Summary: res.Summary,
			Archive: out,
		}, format)
	},
}

func init() {
	mergeCmd.Flags().String("part-a", "", "directory holding the Part A PDFs")
	mergeCmd.Flags().String("part-b", "", "directory holding the Part B PDFs")
	mergeCmd.Flags().StringP("out", "o", "", "output zip path (default: merge.archive_name)")
	mergeCmd.Flags().String("format", "text", "report format: text, json or yaml")
	_ = mergeCmd.MarkFlagRequired("part-a")
	_ = mergeCmd.MarkFlagRequired("part-b")

	rootCmd.AddCommand(mergeCmd)
}

// scanPDFs lists the .pdf files directly inside dir, by name.
func scanPDFs(dir string) ([]pairmerge.UploadedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var files []pairmerge.UploadedFile
	for _, e := range entries {
		if !e.Type().IsRegular() || !isPDFName(e.Name()) {
			continue
		}
		files = append(files, pairmerge.FromPath(e.Name(), filepath.Join(dir, e.Name())))
	}
	return files, nil
}

// writeFileAtomic writes data next to path and renames it into place so a
// failed run never leaves a half-written archive behind.
func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
