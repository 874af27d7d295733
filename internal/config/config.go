// Package config loads HostFusion's runtime configuration: per-vendor API
// tokens and base URLs, the store connection string, and the admin HTTP
// bind address. Configuration is layered — an optional YAML file first,
// then environment variables, which win (except the shared API_TOKEN,
// which only fills tokens left empty) — mirroring the teacher's
// env-overrides-file pattern (pkg/config.Loader) but flattened to the
// handful of scalar settings this system actually needs, since the
// teacher's multi-tenant JSON-layering machinery has no tenant concept to
// serve here.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apierrors "github.com/Ap3pp3rs94/hostfusion/pkg/errors"
)

// VendorConfig holds one vendor's HTTP endpoint and bearer token.
type VendorConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// Config is the fully resolved runtime configuration.
type Config struct {
	Qualys      VendorConfig `yaml:"qualys"`
	CrowdStrike VendorConfig `yaml:"crowdstrike"`
	Tenable     VendorConfig `yaml:"tenable"`

	// StoreDSN selects and configures the backing store. Empty means the
	// dependency-free in-memory store. Recognized forms:
	//   postgres://...   -> internal/store.PostgresStore
	//   sqlite://<path>  -> internal/store.SQLiteStore
	StoreDSN string `yaml:"store_dsn"`

	// AdminAddr is the bind address for the operational HTTP surface.
	AdminAddr string `yaml:"admin_addr"`

	// Concurrency bounds how many sources the pipeline driver runs at once.
	Concurrency int `yaml:"concurrency"`
}

// fileConfig mirrors Config's YAML shape, plus a shared top-level
// api_token fallback applied to any vendor left without its own token.
type fileConfig struct {
	APIToken    string       `yaml:"api_token"`
	Qualys      VendorConfig `yaml:"qualys"`
	CrowdStrike VendorConfig `yaml:"crowdstrike"`
	Tenable     VendorConfig `yaml:"tenable"`
	StoreDSN    string       `yaml:"store_dsn"`
	AdminAddr   string       `yaml:"admin_addr"`
	Concurrency int          `yaml:"concurrency"`
}

const (
	defaultAdminAddr   = ":8080"
	defaultConcurrency = 3
)

// Load resolves configuration from an optional YAML file (configPath, or
// the HOSTFUSION_CONFIG environment variable if configPath is empty) and
// then applies environment variable overrides, which take precedence over
// the file (see applyEnvOverrides for the API_TOKEN exception). A missing file is not an error — the
// zero-flag, zero-file invocation spec.md requires still produces a usable
// Config (admin address and concurrency defaulted, vendor tokens/URLs left
// empty until the environment supplies them).
func Load(configPath string) (Config, error) {
	if configPath == "" {
		configPath = strings.TrimSpace(os.Getenv("HOSTFUSION_CONFIG"))
	}

	var fc fileConfig
	if configPath != "" {
		b, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, apierrors.Wrap(apierrors.ConfigNotFound, fmt.Errorf("read %s: %w", configPath, err))
			}
		} else if err := yaml.Unmarshal(b, &fc); err != nil {
			return Config{}, apierrors.Wrap(apierrors.ConfigInvalid, fmt.Errorf("parse %s: %w", configPath, err))
		}
	}

	cfg := Config{
		Qualys:      fc.Qualys,
		CrowdStrike: fc.CrowdStrike,
		Tenable:     fc.Tenable,
		StoreDSN:    fc.StoreDSN,
		AdminAddr:   fc.AdminAddr,
		Concurrency: fc.Concurrency,
	}

	if fc.APIToken != "" {
		applyFallbackToken(&cfg.Qualys, fc.APIToken)
		applyFallbackToken(&cfg.CrowdStrike, fc.APIToken)
		applyFallbackToken(&cfg.Tenable, fc.APIToken)
	}

	applyEnvOverrides(&cfg)

	if cfg.AdminAddr == "" {
		cfg.AdminAddr = defaultAdminAddr
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}

	return cfg, nil
}

func applyFallbackToken(v *VendorConfig, token string) {
	if v.Token == "" {
		v.Token = token
	}
}

// applyEnvOverrides mutates cfg in place with environment variables. The
// per-vendor *_API_TOKEN / *_BASE_URL variables, STORE_DSN and ADMIN_ADDR
// replace whatever the file supplied; API_TOKEN only fills vendor tokens
// that are still empty after the file (including its api_token) was applied.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("API_TOKEN")); v != "" {
		applyFallbackToken(&cfg.Qualys, v)
		applyFallbackToken(&cfg.CrowdStrike, v)
		applyFallbackToken(&cfg.Tenable, v)
	}

	overrideVendor(&cfg.Qualys, "QUALYS")
	overrideVendor(&cfg.CrowdStrike, "CROWDSTRIKE")
	overrideVendor(&cfg.Tenable, "TENABLE")

	if v := strings.TrimSpace(os.Getenv("STORE_DSN")); v != "" {
		cfg.StoreDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("ADMIN_ADDR")); v != "" {
		cfg.AdminAddr = v
	}
}

func overrideVendor(v *VendorConfig, envPrefix string) {
	if token := strings.TrimSpace(os.Getenv(envPrefix + "_API_TOKEN")); token != "" {
		v.Token = token
	}
	if url := strings.TrimSpace(os.Getenv(envPrefix + "_BASE_URL")); url != "" {
		v.BaseURL = url
	}
}
