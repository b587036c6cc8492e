// Command pairmerge pairs two sets of PDFs by filename, merges each pair
// (Part A pages first, then Part B) and bundles the results into a zip.
//
// It runs either as an upload web UI (serve) or against two local
// directories (merge).
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"example.com/pdf-pairmerge/internal/config"
	"example.com/pdf-pairmerge/internal/logging"
	"example.com/pdf-pairmerge/internal/pairmerge"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg and logger are filled in by PersistentPreRunE before any command runs.
var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pairmerge",
	Short: "Merge PDFs from Part A and Part B that share a filename",
	Long: `pairmerge takes two sets of PDF files, "Part A" and "Part B", pairs them by
identical filename, and concatenates each pair into one PDF with A's pages
followed by B's. Filenames present on only one side are reported and skipped.
All merged PDFs are bundled into Merged_PDFs.zip.

Use "serve" for the upload web UI or "merge" to run against two directories.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c
		logger = logging.New(cfg.Log, os.Stderr)
		slog.SetDefault(logger)
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pairmerge.yaml or ~/.config/pairmerge/pairmerge.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().Int("workers", 1, "maximum number of pairs merged concurrently")
	rootCmd.PersistentFlags().String("stage-dir", "", "stage inputs on disk under this directory instead of memory")

	mustBind("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	mustBind("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	mustBind("merge.workers", rootCmd.PersistentFlags().Lookup("workers"))
	mustBind("merge.stage_dir", rootCmd.PersistentFlags().Lookup("stage-dir"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pairmerge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pairmerge"))
		}
	}

	viper.SetEnvPrefix("PAIRMERGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

// newPipeline builds a pipeline from the loaded config.
func newPipeline() *pairmerge.Pipeline {
	return &pairmerge.Pipeline{
		Merger:      pairmerge.NewPDFMerger(cfg.Merge.StageDir, cfg.PDF.DisableConfigDir),
		Workers:     cfg.Merge.Workers,
		ArchiveName: cfg.Merge.ArchiveName,
		Logger:      logger.With("component", "pipeline"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
