package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sitewright/sitewright/logging"
	"github.com/sitewright/sitewright/telemetry"
)

// DefaultPath is where commands look for the config file when no --config
// flag is given.
const DefaultPath = "sitewright.yaml"

const (
	// Default site layout
	defaultContentDir = "content"
	defaultAssetDir   = "assets"
	defaultOutputDir  = "public"

	// Default monitoring settings
	defaultMetricsPrefix = "sitewright"
	defaultJobName       = "sitewright"
	defaultListenAddr    = ":8787"
	defaultPushSchedule  = "@every 30s"

	// Default develop settings
	defaultDebounce = 250 * time.Millisecond
)

// Config represents the complete sitewright configuration.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Output     OutputConfig     `yaml:"output"`
	Logging    logging.Config   `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Tracing    TracingConfig    `yaml:"tracing"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Develop    DevelopConfig    `yaml:"develop"`
}

// SiteConfig describes the site being built.
type SiteConfig struct {
	// Title is shown in build output and stamped into the manifest.
	Title string `yaml:"title"`

	// ContentDir holds the source pages.
	ContentDir string `yaml:"content_dir"`

	// AssetDir holds static files copied verbatim into the output.
	AssetDir string `yaml:"asset_dir"`

	// OutputDir receives the built site.
	OutputDir string `yaml:"output_dir"`
}

// OutputConfig controls console output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
	NoColor bool `yaml:"no_color"`
}

// TelemetryConfig controls the local usage event store.
type TelemetryConfig struct {
	// Disabled switches telemetry capture off entirely.
	Disabled bool `yaml:"disabled"`

	// StorePath is the JSONL event file. Empty means the per-user cache
	// directory, resolved by the command layer.
	StorePath string `yaml:"store_path"`
}

// TracingConfig controls trace recording.
type TracingConfig struct {
	// TraceFile, when set, receives the recorded spans of a build as JSON
	// lines. Empty disables the export.
	TraceFile string `yaml:"trace_file"`
}

// MonitoringConfig holds metrics and status-server settings.
type MonitoringConfig struct {
	// PushURL is a Prometheus remote write endpoint. Empty disables
	// pushing; develop mode still serves /metrics for scraping.
	PushURL string `yaml:"push_url"`

	MetricsPrefix string `yaml:"metrics_prefix"`
	JobName       string `yaml:"jobname"`

	// ListenAddr is where the develop server exposes /health, /api/status,
	// /api/logs and /metrics.
	ListenAddr string `yaml:"listen_addr"`

	// PushSchedule is a cron expression for periodic pushes in develop
	// mode. Build mode pushes once at the end of the run.
	PushSchedule string `yaml:"push_schedule"`
}

// DevelopConfig holds develop-mode settings.
type DevelopConfig struct {
	// Debounce is how long the watcher waits after the last file event
	// before triggering a rebuild.
	Debounce time.Duration `yaml:"debounce"`
}

// Validate performs basic validation on the configuration.
func (c *Config) Validate() error {
	if c.Site.ContentDir == "" {
		return fmt.Errorf("site content_dir is required")
	}
	if c.Site.OutputDir == "" {
		return fmt.Errorf("site output_dir is required")
	}
	if c.Site.ContentDir == c.Site.OutputDir {
		return fmt.Errorf("site content_dir and output_dir must differ")
	}
	if c.Develop.Debounce <= 0 {
		return fmt.Errorf("develop debounce must be positive")
	}
	if c.Monitoring.ListenAddr == "" {
		return fmt.Errorf("monitoring listen_addr is required")
	}
	return nil
}

// SetDefaults sets reasonable default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Site.ContentDir == "" {
		c.Site.ContentDir = defaultContentDir
	}
	if c.Site.AssetDir == "" {
		c.Site.AssetDir = defaultAssetDir
	}
	if c.Site.OutputDir == "" {
		c.Site.OutputDir = defaultOutputDir
	}
	if c.Monitoring.MetricsPrefix == "" {
		c.Monitoring.MetricsPrefix = defaultMetricsPrefix
	}
	if c.Monitoring.JobName == "" {
		c.Monitoring.JobName = defaultJobName
	}
	if c.Monitoring.ListenAddr == "" {
		c.Monitoring.ListenAddr = defaultListenAddr
	}
	if c.Monitoring.PushSchedule == "" {
		c.Monitoring.PushSchedule = defaultPushSchedule
	}
	if c.Develop.Debounce == 0 {
		c.Develop.Debounce = defaultDebounce
	}
	// Defaults for boolean fields are already false, which is appropriate
}

// ApplyEnv applies process-environment overrides. The environment only ever
// forces features off, never on.
func (c *Config) ApplyEnv() {
	if os.Getenv("NO_COLOR") != "" {
		c.Output.NoColor = true
	}
	if !telemetry.Enabled() {
		c.Telemetry.Disabled = true
	}
}

// Default returns the configuration used when no config file exists:
// defaults plus environment overrides.
func Default() Config {
	var cfg Config
	cfg.SetDefaults()
	cfg.ApplyEnv()
	return cfg
}

// LoadConfig reads the YAML config file at the given path and returns a
// Config with environment overrides and defaults applied.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.ApplyEnv()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
