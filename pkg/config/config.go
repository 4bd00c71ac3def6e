// Package config loads runtime configuration from the environment, with
// optional .env support.
package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
)

// Config collects every tunable the ingestion pipeline reads.
type Config struct {
	Uploads    UploadsConfig
	OCR        OCRConfig
	Pipeline   PipelineConfig
	Classifier ClassifierConfig
	Metrics    MetricsConfig
}

type UploadsConfig struct {
	// Dir is the root of the local upload store.
	Dir string
}

type OCRConfig struct {
	// Binary is the tesseract executable; empty means PATH lookup.
	Binary string
	// Lang is the default recognition language.
	Lang string
}

type PipelineConfig struct {
	// MaxImageWidth bounds preprocessed image width.
	MaxImageWidth int
	// TempDir holds preprocessing artifacts; empty uses the system
	// temp directory.
	TempDir string
}

type ClassifierConfig struct {
	// CompactSchedule is a cron expression for corpus compaction;
	// empty disables the job.
	CompactSchedule string
}

type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Uploads: UploadsConfig{
			Dir: getEnv("UPLOAD_DIR", "uploads"),
		},
		OCR: OCRConfig{
			Binary: getEnv("OCR_BINARY", ""),
			Lang:   getEnv("OCR_LANG", "eng"),
		},
		Pipeline: PipelineConfig{
			MaxImageWidth: getEnvAsInt("MAX_IMAGE_WIDTH", 2000),
			TempDir:       getEnv("PIPELINE_TEMP_DIR", ""),
		},
		Classifier: ClassifierConfig{
			CompactSchedule: getEnv("CORPUS_COMPACT_SCHEDULE", "0 2 * * *"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
