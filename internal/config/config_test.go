package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "hostfusion.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsWithNoFileOrEnv(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AdminAddr != defaultAdminAddr {
		t.Fatalf("expected default admin addr, got %q", cfg.AdminAddr)
	}
	if cfg.Concurrency != defaultConcurrency {
		t.Fatalf("expected default concurrency, got %d", cfg.Concurrency)
	}
}

func TestLoadReadsFileAndAppliesSharedAPIToken(t *testing.T) {
	path := writeTempConfig(t, `
api_token: shared-token
qualys:
  base_url: https://qualys.example.com
crowdstrike:
  base_url: https://crowdstrike.example.com
  token: cs-specific-token
store_dsn: sqlite:///tmp/hosts.db
admin_addr: ":9090"
concurrency: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Qualys.Token != "shared-token" {
		t.Fatalf("expected qualys to fall back to shared token, got %q", cfg.Qualys.Token)
	}
	if cfg.CrowdStrike.Token != "cs-specific-token" {
		t.Fatalf("expected crowdstrike's own token to win, got %q", cfg.CrowdStrike.Token)
	}
	if cfg.StoreDSN != "sqlite:///tmp/hosts.db" {
		t.Fatalf("unexpected store dsn: %q", cfg.StoreDSN)
	}
	if cfg.AdminAddr != ":9090" || cfg.Concurrency != 5 {
		t.Fatalf("unexpected admin addr/concurrency: %q %d", cfg.AdminAddr, cfg.Concurrency)
	}
}

func TestLoadEnvOverridesAlwaysWinOverFile(t *testing.T) {
	path := writeTempConfig(t, `
qualys:
  base_url: https://file-qualys.example.com
  token: file-token
admin_addr: ":9090"
`)
	t.Setenv("QUALYS_BASE_URL", "https://env-qualys.example.com")
	t.Setenv("QUALYS_API_TOKEN", "env-token")
	t.Setenv("ADMIN_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Qualys.BaseURL != "https://env-qualys.example.com" {
		t.Fatalf("expected env base url to win, got %q", cfg.Qualys.BaseURL)
	}
	if cfg.Qualys.Token != "env-token" {
		t.Fatalf("expected env token to win, got %q", cfg.Qualys.Token)
	}
	if cfg.AdminAddr != ":7070" {
		t.Fatalf("expected env admin addr to win, got %q", cfg.AdminAddr)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load("/nonexistent/path/hostfusion.yaml")
	if err != nil {
		t.Fatalf("expected missing file to be tolerated, got %v", err)
	}
	if cfg.AdminAddr != defaultAdminAddr {
		t.Fatalf("expected defaults to apply, got %q", cfg.AdminAddr)
	}
}
