// Package config resolves CardPipe settings with precedence
// defaults < config file < CARDPIPE_* env < command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Option is a configuration key with its default and meaning.
type Option struct {
	Key     string
	Default any
	Comment string
}

// Options returns every configuration key with its default.
func Options() []Option {
	return []Option{
		{Key: "site.base_url", Default: "", Comment: "Base URL of a live site; when empty, data is read from site.dir"},
		{Key: "site.dir", Default: ".", Comment: "Local site directory used by build, serve and file-based rendering"},
		{Key: "announcements.path", Default: "data/announcements.json", Comment: "Announcements document, relative to the site"},
		{Key: "policies.dir", Default: "data/policies", Comment: "Directory of {policy}.{lang}.json documents, relative to the site"},
		{Key: "policies.default_lang", Default: "en", Comment: "Language used when none is requested and as the fallback"},
		{Key: "fetch.timeout", Default: "30s", Comment: "HTTP timeout per request"},
		{Key: "fetch.cache_bust_param", Default: "v", Comment: "Query parameter carrying a random cache-busting value; empty disables"},
		{Key: "output_dir", Default: "", Comment: "Output directory (default: current directory)"},
		{Key: "serve.addr", Default: ":8080", Comment: "Listen address of the preview server"},
		{Key: "log.level", Default: "info", Comment: "debug, info, warn or error"},
	}
}

// Config is the resolved configuration.
type Config struct {
	BaseURL           string
	SiteDir           string
	AnnouncementsPath string
	PoliciesDir       string
	DefaultLang       string
	FetchTimeout      time.Duration
	CacheBustParam    string
	OutputDir         string
	ServeAddr         string
	LogLevel          string
}

// Load seeds v with defaults, reads cardpipe.yaml if present, applies the
// environment and returns the validated configuration. Flags bound to v
// before Load take precedence over all of these.
func Load(v *viper.Viper) (*Config, error) {
	for _, o := range Options() {
		v.SetDefault(o.Key, o.Default)
	}

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("cardpipe")
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "cardpipe"))
		} else if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "cardpipe"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("cardpipe")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c := &Config{
		BaseURL:           strings.TrimSpace(v.GetString("site.base_url")),
		SiteDir:           v.GetString("site.dir"),
		AnnouncementsPath: v.GetString("announcements.path"),
		PoliciesDir:       v.GetString("policies.dir"),
		DefaultLang:       strings.ToLower(strings.TrimSpace(v.GetString("policies.default_lang"))),
		FetchTimeout:      v.GetDuration("fetch.timeout"),
		CacheBustParam:    strings.TrimSpace(v.GetString("fetch.cache_bust_param")),
		OutputDir:         v.GetString("output_dir"),
		ServeAddr:         v.GetString("serve.addr"),
		LogLevel:          v.GetString("log.level"),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.AnnouncementsPath == "" {
		return fmt.Errorf("announcements.path must not be empty")
	}
	if c.DefaultLang == "" {
		return fmt.Errorf("policies.default_lang must not be empty")
	}
	if _, err := language.Parse(c.DefaultLang); err != nil {
		return fmt.Errorf("policies.default_lang %q is not a language tag: %w", c.DefaultLang, err)
	}
	if c.BaseURL == "" && c.SiteDir == "" {
		return fmt.Errorf("one of site.base_url or site.dir is required")
	}
	return nil
}
