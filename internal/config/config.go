// Package config materializes application settings for the reportage
// CLI and HTTP server. Values merge from three layers with later
// layers winning: the reportage.yaml config file, REPORTAGE_*
// environment variables, and command-line flags bound through viper.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied when neither file, environment, nor flag sets a
// value.
const (
	DefaultOutputDir      = "output"
	DefaultWorkers        = 4
	DefaultAddr           = ":8080"
	DefaultMaxRetryMB     = 100
	DefaultMaxUploadBytes = 100 << 20
	DefaultJobTTL         = time.Hour
)

// Config carries the settings shared by the pipeline, the run ledger,
// and the HTTP server.
type Config struct {
	// OutputDir is the root directory for per-document exports, the
	// run ledger, and uploaded files.
	OutputDir string

	// Workers bounds how many documents a batch run processes
	// concurrently.
	Workers int

	// OCREnabled turns on the OCR fallback for scanned documents.
	// Setting OCRLang implies it.
	OCREnabled bool

	// OCRLang is the Tesseract language passed to the OCR client.
	// Empty means the client default.
	OCRLang string

	// KeywordsFile optionally points at a YAML keyword table that
	// replaces the built-in detection phrases.
	KeywordsFile string

	// MaxRetryBytes caps the size of source files the retry pass will
	// reprocess.
	MaxRetryBytes int64

	// Addr is the HTTP listen address for serve.
	Addr string

	// MaxUploadBytes caps a single multipart PDF upload.
	MaxUploadBytes int64

	// JobTTL is how long finished ingest jobs stay queryable.
	JobTTL time.Duration
}

// Init points viper at the reportage.yaml config file and REPORTAGE_*
// environment variables. cfgFile overrides the search path when set.
// A missing config file is not an error; defaults and environment
// still apply.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("reportage")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "reportage"))
		}
	}

	viper.SetEnvPrefix("REPORTAGE")
	viper.AutomaticEnv()
	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// SetDefaults registers the default value for every known key.
func SetDefaults() {
	viper.SetDefault("output", DefaultOutputDir)
	viper.SetDefault("workers", DefaultWorkers)
	viper.SetDefault("ocr", false)
	viper.SetDefault("ocr-lang", "")
	viper.SetDefault("keywords", "")
	viper.SetDefault("max-size", DefaultMaxRetryMB)
	viper.SetDefault("addr", DefaultAddr)
	viper.SetDefault("max-upload", int64(DefaultMaxUploadBytes))
	viper.SetDefault("job-ttl", DefaultJobTTL)
}

// Load reads the merged settings out of viper, clamping values that
// would break the pipeline back to their defaults.
func Load() Config {
	cfg := Config{
		OutputDir:      viper.GetString("output"),
		Workers:        viper.GetInt("workers"),
		OCREnabled:     viper.GetBool("ocr"),
		OCRLang:        viper.GetString("ocr-lang"),
		KeywordsFile:   viper.GetString("keywords"),
		MaxRetryBytes:  viper.GetInt64("max-size") << 20,
		Addr:           viper.GetString("addr"),
		MaxUploadBytes: viper.GetInt64("max-upload"),
		JobTTL:         viper.GetDuration("job-ttl"),
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.OCRLang != "" {
		cfg.OCREnabled = true
	}
	if cfg.MaxRetryBytes <= 0 {
		cfg.MaxRetryBytes = DefaultMaxRetryMB << 20
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = DefaultJobTTL
	}

	return cfg
}
