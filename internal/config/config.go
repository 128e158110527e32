// Package config loads studybuddy settings from defaults, an optional YAML
// file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Publish targets.
const (
	PublishDrive = "drive"
	PublishGCS   = "gcs"
)

type Config struct {
	// Vertex AI
	ProjectID   string
	Region      string
	GeminiModel string

	// Chunking
	MaxTokensPerChunk      int
	OverlapTokens          int
	EstimatedCharsPerToken int

	// Model resilience
	ModelMaxRetries     int
	ModelRetryBaseDelay time.Duration

	// Extraction
	MaxConcurrentExtract int
	PDFFallbackPdftotext bool

	// Publishing and scheduling
	PublishTarget      string
	GCSBucket          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleTokenFile    string
	CalendarID         string
	CalendarTimezone   string

	// Persistence
	FirestoreCollection string
	RedisURL            string
	CacheTTL            time.Duration

	QuizSize int
	LogLevel string
}

var defaults = map[string]any{
	"vertex_ai_region":          "us-central1",
	"gemini_model":              "gemini-1.5-pro",
	"max_tokens_per_chunk":      25000,
	"overlap_tokens":            500,
	"estimated_chars_per_token": 4,
	"model_max_retries":         3,
	"model_retry_base_delay":    time.Second,
	"max_concurrent_extract":    5,
	"pdf_fallback_pdftotext":    true,
	"publish_target":            PublishDrive,
	"calendar_id":               "primary",
	"calendar_timezone":         "UTC",
	"firestore_collection":      "study_plans",
	"cache_ttl":                 24 * time.Hour,
	"quiz_size":                 5,
	"log_level":                 "info",
}

// Keys without a default still need registering so AutomaticEnv sees them.
var noDefault = []string{
	"google_cloud_project",
	"gcs_bucket",
	"google_client_id",
	"google_client_secret",
	"google_token_file",
	"redis_url",
}

// Load reads configuration. path names an optional YAML file whose keys are
// the lower-case environment variable names; an empty path skips it.
func Load(path string) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	for _, k := range noDefault {
		if err := v.BindEnv(k); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", k, err)
		}
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		ProjectID:   v.GetString("google_cloud_project"),
		Region:      v.GetString("vertex_ai_region"),
		GeminiModel: v.GetString("gemini_model"),

		MaxTokensPerChunk:      v.GetInt("max_tokens_per_chunk"),
		OverlapTokens:          v.GetInt("overlap_tokens"),
		EstimatedCharsPerToken: v.GetInt("estimated_chars_per_token"),

		ModelMaxRetries:     v.GetInt("model_max_retries"),
		ModelRetryBaseDelay: v.GetDuration("model_retry_base_delay"),

		MaxConcurrentExtract: v.GetInt("max_concurrent_extract"),
		PDFFallbackPdftotext: v.GetBool("pdf_fallback_pdftotext"),

		PublishTarget:      strings.ToLower(strings.TrimSpace(v.GetString("publish_target"))),
		GCSBucket:          v.GetString("gcs_bucket"),
		GoogleClientID:     v.GetString("google_client_id"),
		GoogleClientSecret: v.GetString("google_client_secret"),
		GoogleTokenFile:    v.GetString("google_token_file"),
		CalendarID:         v.GetString("calendar_id"),
		CalendarTimezone:   v.GetString("calendar_timezone"),

		FirestoreCollection: v.GetString("firestore_collection"),
		RedisURL:            v.GetString("redis_url"),
		CacheTTL:            v.GetDuration("cache_ttl"),

		QuizSize: v.GetInt("quiz_size"),
		LogLevel: v.GetString("log_level"),
	}

	if cfg.MaxTokensPerChunk <= 0 {
		cfg.MaxTokensPerChunk = 25000
	}
	if cfg.OverlapTokens < 0 {
		cfg.OverlapTokens = 0
	}
	if cfg.EstimatedCharsPerToken <= 0 {
		cfg.EstimatedCharsPerToken = 4
	}
	if cfg.ModelMaxRetries <= 0 {
		cfg.ModelMaxRetries = 3
	}
	if cfg.ModelRetryBaseDelay <= 0 {
		cfg.ModelRetryBaseDelay = time.Second
	}
	if cfg.MaxConcurrentExtract <= 0 {
		cfg.MaxConcurrentExtract = 5
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.QuizSize <= 0 {
		cfg.QuizSize = 5
	}

	return cfg, nil
}

// Validate checks the settings a study plan run cannot do without.
func (c Config) Validate() error {
	var errs []error
	if c.ProjectID == "" {
		errs = append(errs, errors.New("GOOGLE_CLOUD_PROJECT is required"))
	}
	switch c.PublishTarget {
	case PublishGCS:
		if c.GCSBucket == "" {
			errs = append(errs, errors.New("GCS_BUCKET is required when PUBLISH_TARGET=gcs"))
		}
	case PublishDrive:
		if c.GoogleTokenFile != "" && (c.GoogleClientID == "" || c.GoogleClientSecret == "") {
			errs = append(errs, errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required with GOOGLE_TOKEN_FILE"))
		}
	default:
		errs = append(errs, fmt.Errorf("PUBLISH_TARGET must be %q or %q, got %q", PublishDrive, PublishGCS, c.PublishTarget))
	}
	if _, err := time.LoadLocation(c.CalendarTimezone); err != nil {
		errs = append(errs, fmt.Errorf("CALENDAR_TIMEZONE: %w", err))
	}
	if c.OverlapTokens >= c.MaxTokensPerChunk {
		errs = append(errs, errors.New("OVERLAP_TOKENS must be smaller than MAX_TOKENS_PER_CHUNK"))
	}
	return errors.Join(errs...)
}

// Location is the calendar time zone, UTC when it cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.CalendarTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
