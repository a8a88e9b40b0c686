package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "craftgraph/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the wiki origin that article paths are resolved against.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// PagesDir is the cache directory for downloaded HTML (contains mobs/, crafting/).
	PagesDir string `json:"pages_dir" yaml:"pages_dir"`

	// RequestsPerSecond caps the request rate against the wiki (default 1).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// SkipMobs disables downloading mob drop pages.
	SkipMobs bool `json:"skip_mobs" yaml:"skip_mobs"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// PagesDir is the page cache written by fetch (contains manifest.yaml).
	PagesDir string `json:"pages_dir" yaml:"pages_dir"`

	// OutputDir receives items.csv, transformations.csv, transformations.json and pages/.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Workers bounds the number of pages extracted concurrently (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// MetricsFile, when set, receives Prometheus text-format counters after the run.
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`

	// ExcludedSections replaces the default excluded heading ids
	// (Removed_recipes, Changed_recipes) when non-empty.
	ExcludedSections []string `json:"excluded_sections,omitempty" yaml:"excluded_sections,omitempty"`

	// Force re-extracts pages whose previous result is newer than their HTML.
	Force bool `json:"force" yaml:"force"`
}

// StoreConfig holds settings for the graph store.
type StoreConfig struct {
	// OutputDir is the extraction output directory (contains pages/, index/).
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// LogConfig selects the zap logger level and encoding.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// Format is "json" for production encoding, anything else for console.
	Format string `json:"format" yaml:"format"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Log        LogConfig        `json:"log" yaml:"log"`
}
