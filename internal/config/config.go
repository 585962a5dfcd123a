package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	DefaultSiteTitle = "Centuriae"

	DefaultConfigFile = "config.yml"
	legacyConfigFile  = "config.json"

	envPrefix = "CENTURIAE_"
)

type LoaderConfig struct {
	ContentDir string `yaml:"content_dir"`
	RepoDir    string `yaml:"repo_dir"`
	Workers    int    `yaml:"workers"`
}

type OutputConfig struct {
	OutputDir   string `yaml:"output_dir"`
	TemplateDir string `yaml:"template_dir"`
	CSSDir      string `yaml:"css_dir"`
	JSDir       string `yaml:"js_dir"`
}

type SiteConfig struct {
	SiteTitle  string `yaml:"site_title"`
	FooterText string `yaml:"footer_text"`
}

type Config struct {
	SiteConfig   `yaml:",inline"`
	LoaderConfig `yaml:",inline"`
	OutputConfig `yaml:",inline"`
	LogLevel     string `yaml:"log_level"`
}

func (c *Config) SetDefaults() {
	c.SiteTitle = DefaultSiteTitle
	c.ContentDir = "content"
	c.RepoDir = "."
	c.Workers = 4
	c.OutputDir = "_build"
	c.TemplateDir = "templates"
	c.CSSDir = "css"
	c.JSDir = "js"
	c.LogLevel = LogLevelInfo
}

func (c *Config) Validate() error {
	var errs []error

	for name, dir := range map[string]string{
		"content_dir":  c.ContentDir,
		"output_dir":   c.OutputDir,
		"template_dir": c.TemplateDir,
	} {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}

	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}

	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		errs = append(errs, fmt.Errorf("unknown log level: %q", c.LogLevel))
	}

	return errors.Join(errs...)
}

// Load reads the config file at path over the defaults. A missing file is not
// an error; a missing default config file falls back to config.json in the
// same dir. Values from .env and the process environment win over the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && filepath.Base(path) == DefaultConfigFile {
		path = filepath.Join(filepath.Dir(path), legacyConfigFile)
		data, err = os.ReadFile(path)
	}
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for name, field := range map[string]*string{
		"SITE_TITLE":  &c.SiteTitle,
		"FOOTER_TEXT": &c.FooterText,
		"CONTENT_DIR": &c.ContentDir,
		"OUTPUT_DIR":  &c.OutputDir,
		"LOG_LEVEL":   &c.LogLevel,
	} {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*field = v
		}
	}
}
