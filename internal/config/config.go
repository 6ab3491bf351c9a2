// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// SearchConfig holds the semantic search gateway settings.
type SearchConfig struct {
	APIKey         string
	Model          string
	MaxTokens      int
	DailyCostLimit float64
	Timeout        time.Duration
	CacheTTL       time.Duration
	CandidateLimit int
}

// IngestConfig holds the ingestion pipeline settings.
type IngestConfig struct {
	DictionaryPath string
	AllowlistPath  string
	CustomTerms    []string
	Workers        int
}

// DatabasePath resolves the catalog database location, preferring the
// configured value over the platform default.
func DatabasePath() string {
	if v := viper.GetString("database.path"); v != "" {
		return ExpandPath(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "forge.db"
	}
	return filepath.Join(home, ".local", "share", "forge", "forge.db")
}

// LoadSearchConfig loads gateway settings from Viper and environment
// variables. It follows this precedence:
// 1. Viper configuration (from config file or FORGE_ env vars)
// 2. The ANTHROPIC_API_KEY environment variable for the credential
// 3. Default values
func LoadSearchConfig() SearchConfig {
	cfg := SearchConfig{
		APIKey:         viper.GetString("llm.api_key"),
		Model:          viper.GetString("llm.model"),
		MaxTokens:      viper.GetInt("llm.max_tokens"),
		DailyCostLimit: viper.GetFloat64("llm.daily_cost_limit"),
		Timeout:        viper.GetDuration("llm.timeout"),
		CacheTTL:       viper.GetDuration("llm.cache_ttl"),
		CandidateLimit: viper.GetInt("llm.candidate_limit"),
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-haiku-20241022"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.DailyCostLimit <= 0 {
		cfg.DailyCostLimit = 1.00
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = 200
	}
	return cfg
}

// LoadIngestConfig loads ingestion settings from Viper.
func LoadIngestConfig() IngestConfig {
	return IngestConfig{
		DictionaryPath: ExpandPath(viper.GetString("ingest.dictionary_path")),
		AllowlistPath:  ExpandPath(viper.GetString("ingest.allowlist_path")),
		CustomTerms:    viper.GetStringSlice("ingest.custom_terms"),
		Workers:        viper.GetInt("ingest.workers"),
	}
}

// ExpandPath expands a leading ~ and $VAR environment references in a
// file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	if len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
