package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tugboat/internal/config"
)

func TestLoad_DefaultsWithoutSources(t *testing.T) {
	cfg, err := config.Load("", config.WithEnvironment(map[string]string{}), config.WithDotEnv())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLThenDotEnvThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "tugboat.yaml", `
tugboat:
  token: from-yaml
  timeout: 5s
preview:
  repo: repo-yaml
  baseRef: develop
  deleteAge: 72h
log:
  level: DEBUG
  format: json
theme:
  tokens:
    brand: "#123456"
`)
	dotenvPath := writeFile(t, dir, ".env", "TUGBOAT_PREVIEW_REPO=repo-dotenv\nTUGBOAT_SERVER_ADDR=:9000\n")

	cfg, err := config.Load(yamlPath,
		config.WithEnvironment(map[string]string{
			"TUGBOAT_API_TOKEN":    "from-env",
			"TUGBOAT_SERVER_ADDR":  ":9100",
			"TUGBOAT_PAGE_CAPTION": "Hang tight.",
		}),
		config.WithDotEnv(dotenvPath),
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Tugboat.Token != "from-env" {
		t.Errorf("token: got %q", cfg.Tugboat.Token)
	}
	if cfg.Tugboat.Timeout != 5*time.Second {
		t.Errorf("timeout: got %s", cfg.Tugboat.Timeout)
	}
	if cfg.Preview.Repo != "repo-dotenv" {
		t.Errorf("repo: got %q", cfg.Preview.Repo)
	}
	if cfg.Preview.BaseRef != "develop" || cfg.Preview.DeleteAge != 72*time.Hour {
		t.Errorf("preview: %+v", cfg.Preview)
	}
	if cfg.Server.Addr != ":9100" {
		t.Errorf("addr: got %q", cfg.Server.Addr)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log: %+v", cfg.Log)
	}
	if cfg.Page.Caption != "Hang tight." {
		t.Errorf("caption: got %q", cfg.Page.Caption)
	}
	if cfg.Theme.Tokens["brand"] != "#123456" {
		t.Errorf("tokens: %+v", cfg.Theme.Tokens)
	}
	if cfg.Tugboat.BaseURL != "https://api.tugboat.qa/v3" {
		t.Errorf("base url default lost: %q", cfg.Tugboat.BaseURL)
	}
}

func TestLoad_EnvironmentDurationsAndMaps(t *testing.T) {
	cfg, err := config.Load("",
		config.WithEnvironment(map[string]string{
			"TUGBOAT_PREVIEW_DELETE_AGE": "36h",
			"TUGBOAT_THEME_TOKENS":       "brand:#fff,accent:#000",
			"TUGBOAT_PAGE_DEBUG":         "true",
		}),
		config.WithDotEnv(),
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Preview.DeleteAge != 36*time.Hour {
		t.Errorf("delete age: got %s", cfg.Preview.DeleteAge)
	}
	if diff := cmp.Diff(map[string]string{"brand": "#fff", "accent": "#000"}, cfg.Theme.Tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Page.Debug {
		t.Error("expected debug page")
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := config.Load(filepath.Join(dir, "missing.yaml"), config.WithEnvironment(map[string]string{})); err == nil {
		t.Fatal("expected error for missing yaml file")
	}

	bad := writeFile(t, dir, "bad.yaml", "tugboat: [")
	if _, err := config.Load(bad, config.WithEnvironment(map[string]string{})); err == nil {
		t.Fatal("expected error for invalid yaml")
	}

	_, err := config.Load("",
		config.WithEnvironment(map[string]string{"TUGBOAT_PREVIEW_DELETE_AGE": "soon"}),
		config.WithDotEnv(),
	)
	if err == nil || !strings.HasPrefix(err.Error(), "config: environment:") {
		t.Fatalf("expected environment error, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := config.Default()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, fragment := range []string{"token is required", "repo is required"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("expected %q in %q", fragment, err.Error())
		}
	}

	cfg.Tugboat.Token = "t"
	cfg.Preview.Repo = "r"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Preview.DeleteAge = -time.Minute
	err = cfg.Validate()
	for _, fragment := range []string{"log level", "log format", "delete age"} {
		if err == nil || !strings.Contains(err.Error(), fragment) {
			t.Errorf("expected %q in %v", fragment, err)
		}
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
