package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds all configuration options.
type Settings struct {
	// API settings
	APIHost   string `json:"api_host" yaml:"api_host"`
	BaseURL   string `json:"base_url" yaml:"base_url"`
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Concurrency and transport
	MaxConcurrentSearches  int     `json:"max_concurrent_searches" yaml:"max_concurrent_searches"`
	MaxConcurrentDownloads int     `json:"max_concurrent_downloads" yaml:"max_concurrent_downloads"`
	RequestTimeoutSeconds  float64 `json:"request_timeout_seconds" yaml:"request_timeout_seconds"`
	RequestsPerSecond      float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// Search filters
	SearchExtension string `json:"search_extension" yaml:"search_extension"`
	SearchLanguage  string `json:"search_language" yaml:"search_language"`
	SearchSort      string `json:"search_sort" yaml:"search_sort"`
	SearchLimit     int    `json:"search_limit" yaml:"search_limit"`

	// Archive settings
	ArchiveFileName  string `json:"archive_file_name" yaml:"archive_file_name"`
	CompressionLevel int    `json:"compression_level" yaml:"compression_level"` // flate level, -1 default
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		APIHost:   "annas-archive-api.p.rapidapi.com",
		UserAgent: "EbookPackager",

		MaxConcurrentSearches:  5,
		MaxConcurrentDownloads: 5,
		RequestTimeoutSeconds:  60,
		RequestsPerSecond:      0,

		SearchExtension: "epub",
		SearchLanguage:  "en",
		SearchSort:      "mostRelevant",
		SearchLimit:     10,

		ArchiveFileName:  "ebook-package.zip",
		CompressionLevel: -1,
	}
}

// Load reads settings from a JSON or YAML file.
//
// The format is picked from the extension: .yaml and .yml are YAML,
// anything else is JSON. A missing file yields DefaultSettings.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a file in the format implied by its extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Endpoint returns the base URL of the API, "https://{APIHost}" unless
// BaseURL overrides it.
func (s *Settings) Endpoint() string {
	if s.BaseURL != "" {
		return strings.TrimRight(s.BaseURL, "/")
	}
	return "https://" + s.APIHost
}

// RequestTimeout returns the per-call timeout. Zero means no timeout.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds * float64(time.Second))
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
