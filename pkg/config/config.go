package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Config represents the application configuration
type Config struct {
	ServerURL         string        `json:"server_url"`
	SessionID         string        `json:"session_id"`
	Persona           PersonaConfig `json:"persona"`
	APITimeoutSeconds int           `json:"api_timeout_seconds"`
	LogLevel          string        `json:"log_level"`
	LogFormat         string        `json:"log_format"`
	LogFile           string        `json:"log_file"`
	UI                UIConfig      `json:"ui"`
}

// PersonaConfig selects the active agent persona
type PersonaConfig struct {
	Scope string `json:"scope"` // "local" or "shared"
	Name  string `json:"name"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	AgentLabel    string `json:"agent_label"`    // Display name for AI messages
	ShowStatusBar bool   `json:"show_status_bar"`
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		ServerURL: "http://localhost:8010",
		SessionID: "", // Generated on first load
		Persona: PersonaConfig{
			Scope: "local",
			Name:  "Assistant",
		},
		APITimeoutSeconds: 30,
		LogLevel:          "info",
		LogFormat:         "json",
		UI: UIConfig{
			AgentLabel:    "Agent",
			ShowStatusBar: true,
		},
	}
}

// Load loads configuration from the specified path
// If the file doesn't exist, creates one with default values.
// A missing session ID is generated and written back so the session
// survives restarts.
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			cfg.SessionID = uuid.NewString()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
		if err := Save(configPath, cfg); err != nil {
			return Config{}, fmt.Errorf("failed to persist session id: %w", err)
		}
	}

	return cfg, nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	parsed, err := url.Parse(c.ServerURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("server_url must be an absolute URL, got: %s", c.ServerURL)
	}

	if c.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}

	if c.Persona.Scope != "local" && c.Persona.Scope != "shared" {
		return fmt.Errorf("persona scope must be 'local' or 'shared', got: %s", c.Persona.Scope)
	}

	if c.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive, got: %d", c.APITimeoutSeconds)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".agentchat/config.json"
	}
	return filepath.Join(homeDir, ".agentchat", "config.json")
}
