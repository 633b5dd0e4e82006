package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.ServerURL != "http://localhost:8010" {
		t.Errorf("Expected server URL 'http://localhost:8010', got %q", cfg.ServerURL)
	}

	if cfg.Persona.Scope != "local" {
		t.Errorf("Expected persona scope 'local', got %q", cfg.Persona.Scope)
	}

	if cfg.APITimeoutSeconds != 30 {
		t.Errorf("Expected APITimeoutSeconds 30, got %d", cfg.APITimeoutSeconds)
	}

	if !cfg.UI.ShowStatusBar {
		t.Error("Expected status bar enabled by default")
	}
}

func TestLoad_CreateDefault(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".agentchat", "config.json")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ServerURL != "http://localhost:8010" {
		t.Errorf("Expected default server URL, got %q", cfg.ServerURL)
	}

	// First load must mint a session id
	if cfg.SessionID == "" {
		t.Error("Expected a generated session id")
	}

	// File should exist now
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}
}

func TestLoad_ExistingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	initialCfg := Default()
	initialCfg.SessionID = "fixed-session"
	initialCfg.ServerURL = "http://example.test:9000"
	if err := Save(configPath, initialCfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ServerURL != "http://example.test:9000" {
		t.Errorf("Expected server URL 'http://example.test:9000', got %q", cfg.ServerURL)
	}
	if cfg.SessionID != "fixed-session" {
		t.Errorf("Expected session id preserved, got %q", cfg.SessionID)
	}
}

func TestLoad_GeneratesMissingSessionID(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	initialCfg := Default()
	if err := Save(configPath, initialCfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.SessionID == "" {
		t.Fatal("Expected session id to be generated")
	}

	// The generated id must be persisted
	reloaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if reloaded.SessionID != cfg.SessionID {
		t.Errorf("Expected persisted session id %q, got %q", cfg.SessionID, reloaded.SessionID)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.SessionID = "s"
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty server url", func(c *Config) { c.ServerURL = "" }},
		{"relative server url", func(c *Config) { c.ServerURL = "localhost:8010" }},
		{"missing session", func(c *Config) { c.SessionID = "" }},
		{"bad persona scope", func(c *Config) { c.Persona.Scope = "global" }},
		{"zero timeout", func(c *Config) { c.APITimeoutSeconds = 0 }},
	}

	for _, tc := range cases {
		cfg := Default()
		cfg.SessionID = "s"
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("Expected error for %s", tc.name)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Error("Expected non-empty config path")
	}
	if filepath.Base(path) != "config.json" {
		t.Errorf("Expected config.json, got %q", filepath.Base(path))
	}
}
