// Package config holds pairmerge settings and loads them through viper from
// a YAML file, PAIRMERGE_* environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
)

// ServerConfig holds settings for the HTTP upload service.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `mapstructure:"addr" yaml:"addr"`

	// MaxUploadBytes caps the size of one POST /merge body.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// MergeConfig holds settings for the pairing pipeline.
type MergeConfig struct {
	// Workers bounds concurrent merges within one run (1 = sequential).
	Workers int `mapstructure:"workers" yaml:"workers"`

	// StageDir, when set, makes each merge stage its inputs on disk under
	// this directory instead of keeping them in memory.
	StageDir string `mapstructure:"stage_dir" yaml:"stage_dir"`

	// ArchiveName is the download name of the zip bundle.
	ArchiveName string `mapstructure:"archive_name" yaml:"archive_name"`
}

// PDFConfig holds pdfcpu settings.
type PDFConfig struct {
	// DisableConfigDir keeps pdfcpu from creating its config dir under the
	// user's home.
	DisableConfigDir bool `mapstructure:"disable_config_dir" yaml:"disable_config_dir"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Config groups all settings.
type Config struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Merge  MergeConfig  `mapstructure:"merge" yaml:"merge"`
	PDF    PDFConfig    `mapstructure:"pdf" yaml:"pdf"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_bytes", int64(256<<20))
	v.SetDefault("server.read_timeout", 60*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("merge.workers", 1)
	v.SetDefault("merge.stage_dir", "")
	v.SetDefault("merge.archive_name", "Merged_PDFs.zip")
	v.SetDefault("pdf.disable_config_dir", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	return validation.Errors{
		"server": validation.ValidateStruct(&c.Server,
			validation.Field(&c.Server.Addr, validation.Required),
			validation.Field(&c.Server.MaxUploadBytes, validation.Required, validation.Min(int64(1))),
		),
		"merge": validation.ValidateStruct(&c.Merge,
			validation.Field(&c.Merge.Workers, validation.Required, validation.Min(1)),
			validation.Field(&c.Merge.ArchiveName,
				validation.Required,
				validation.By(func(value interface{}) error {
					name, _ := value.(string)
					if !strings.HasSuffix(strings.ToLower(name), ".zip") || strings.ContainsAny(name, `/\`) {
						return fmt.Errorf("must be a plain file name ending in .zip")
					}
					return nil
				}),
			),
		),
		"log": validation.ValidateStruct(&c.Log,
			validation.Field(&c.Log.Level, validation.In("debug", "info", "warn", "error")),
			validation.Field(&c.Log.Format, validation.In("text", "json")),
		),
	}.Filter()
}
