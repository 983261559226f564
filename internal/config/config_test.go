package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestValidate_DuplicateProvider(t *testing.T) {
	cfg := &Config{Providers: []ProviderConfig{{Name: "flixhq"}, {Name: "goku"}, {Name: "flixhq"}}}
	if err := Validate(cfg); err == nil {
		t.Fatal("Expected error for duplicate provider name")
	}
}

func TestValidate_EmptyName(t *testing.T) {
	cfg := &Config{Providers: []ProviderConfig{{Name: "  "}}}
	if err := Validate(cfg); err == nil {
		t.Fatal("Expected error for empty provider name")
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := &Config{Providers: DefaultProviders()}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Expected default providers to validate, got %v", err)
	}
}

func TestProviderConfig_CatalogPath(t *testing.T) {
	if got := (ProviderConfig{Name: "flixhq"}).CatalogPath(); got != "movies/flixhq" {
		t.Errorf("Expected movies/flixhq, got %s", got)
	}
	if got := (ProviderConfig{Name: "x", Path: "/custom/route/"}).CatalogPath(); got != "custom/route" {
		t.Errorf("Expected custom/route, got %s", got)
	}
	if got := (ProviderConfig{Name: "goku", Path: "/"}).CatalogPath(); got != "movies/goku" {
		t.Errorf("Expected a bare slash to fall back to movies/goku, got %s", got)
	}
}

func TestLoadConfig_FromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
consumet:
  base_url: https://consumet.example.com
providers:
  - name: flixhq
    label: FlixHQ
    servers: ["", "vidcloud"]
    external_lookup: true
  - name: goku
    label: Goku
    discover_servers: true
cache:
  ttl: 30m
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		viper.Reset()
	})
	viper.Reset()
	t.Setenv("TMDB_API_KEY", "tmdb-key")
	t.Setenv("REALDEBRID_KEY", "rd-key")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Consumet.BaseURL != "https://consumet.example.com" {
		t.Errorf("Expected consumet base URL from file, got %q", cfg.Consumet.BaseURL)
	}
	if len(cfg.Providers) != 2 || cfg.Providers[1].Name != "goku" || !cfg.Providers[1].DiscoverServers {
		t.Errorf("Unexpected providers: %+v", cfg.Providers)
	}
	if len(cfg.Providers[0].Servers) != 2 || cfg.Providers[0].Servers[1] != "vidcloud" {
		t.Errorf("Unexpected servers: %+v", cfg.Providers[0].Servers)
	}
	if cfg.TMDB.APIKey != "tmdb-key" {
		t.Errorf("Expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.Torrentio.DebridKey != "rd-key" {
		t.Errorf("Expected debrid key from env, got %q", cfg.Torrentio.DebridKey)
	}
	if cfg.Torrentio.BaseURL != DefaultTorrentioURL {
		t.Errorf("Expected default torrentio URL, got %q", cfg.Torrentio.BaseURL)
	}
	if cfg.Cache.TTL != "30m" {
		t.Errorf("Expected cache ttl 30m, got %q", cfg.Cache.TTL)
	}
	if cfg.Client.Timeout != "10s" {
		t.Errorf("Expected default client timeout 10s, got %q", cfg.Client.Timeout)
	}
	if cfg.Client.MaxRetries != 0 {
		t.Errorf("Expected retries disabled by default, got %d", cfg.Client.MaxRetries)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %q", cfg.UserAgent)
	}
}

func TestGetUserAgent_Default(t *testing.T) {
	saved := globalConfig
	t.Cleanup(func() { globalConfig = saved })

	globalConfig = nil
	if GetUserAgent() != DefaultUserAgent {
		t.Errorf("Expected default user agent when config is nil")
	}
	globalConfig = &Config{UserAgent: "custom/1.0"}
	if GetUserAgent() != "custom/1.0" {
		t.Errorf("Expected configured user agent, got %q", GetUserAgent())
	}
}
