package server

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  host: "0.0.0.0"
  port: 8080
donation:
  wallet_address: "0x1111111111111111111111111111111111111111"
  network: "base"
  min_amount: 0.5
  max_amount: 100
cors:
  allowed_origins:
    - "https://myblog.example"
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", config.Server.Port)
	}
	if config.Donation.Network != "base" {
		t.Errorf("Expected network 'base', got '%s'", config.Donation.Network)
	}
	if config.Donation.MinAmount != 0.5 {
		t.Errorf("Expected min amount 0.5, got %v", config.Donation.MinAmount)
	}
	if len(config.CORS.AllowedOrigins) != 1 || config.CORS.AllowedOrigins[0] != "https://myblog.example" {
		t.Errorf("Unexpected allowed origins: %v", config.CORS.AllowedOrigins)
	}

	// Unset fields fall back to defaults
	if config.Donation.FacilitatorURL != DefaultFacilitatorURL {
		t.Errorf("Expected default facilitator URL, got '%s'", config.Donation.FacilitatorURL)
	}
	if config.Donation.MaxTimeoutSeconds != 60 {
		t.Errorf("Expected default timeout 60, got %d", config.Donation.MaxTimeoutSeconds)
	}
	if config.Log.Level != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", config.Log.Level)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
donation:
  wallet_address: "0x1111111111111111111111111111111111111111"
  network: "base"
`)

	t.Setenv("WALLET_ADDRESS", "0x2222222222222222222222222222222222222222")
	t.Setenv("NETWORK", "base-sepolia")
	t.Setenv("FACILITATOR_URL", "https://facilitator.internal")
	t.Setenv("CORS_ORIGIN", "https://a.example, https://b.example")
	t.Setenv("EMAIL_PASS", "hunter2")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Donation.WalletAddress != "0x2222222222222222222222222222222222222222" {
		t.Errorf("Expected env wallet address, got '%s'", config.Donation.WalletAddress)
	}
	if config.Donation.Network != "base-sepolia" {
		t.Errorf("Expected env network, got '%s'", config.Donation.Network)
	}
	if config.Donation.FacilitatorURL != "https://facilitator.internal" {
		t.Errorf("Expected env facilitator URL, got '%s'", config.Donation.FacilitatorURL)
	}
	if len(config.CORS.AllowedOrigins) != 2 || config.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("Expected trimmed env origins, got %v", config.CORS.AllowedOrigins)
	}
	if config.Email.Password != "hunter2" {
		t.Errorf("Expected email password from env")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("Expected error for missing config file, got nil")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "donation: [not: a: map")
	_, err := LoadConfig(path)
	if err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing wallet address",
			modify:  func(c *Config) { c.Donation.WalletAddress = "" },
			wantErr: true,
		},
		{
			name:    "unsupported network",
			modify:  func(c *Config) { c.Donation.Network = "dogecoin" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			modify:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "negative min amount",
			modify:  func(c *Config) { c.Donation.MinAmount = -1 },
			wantErr: true,
		},
		{
			name:    "max below min",
			modify:  func(c *Config) { c.Donation.MinAmount = 100; c.Donation.MaxAmount = 1 },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Donation.MaxTimeoutSeconds = -1 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig()
			tt.modify(config)

			err := config.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestEmailEnabled(t *testing.T) {
	var email EmailConfig
	if email.Enabled() {
		t.Error("Expected empty email config disabled")
	}

	email = EmailConfig{
		Host: "smtp.example.com",
		Port: 587,
		User: "notify@example.com",
		To:   "creator@example.com",
	}
	if !email.Enabled() {
		t.Error("Expected populated email config enabled")
	}

	email.To = ""
	if email.Enabled() {
		t.Error("Expected email config without recipient disabled")
	}
}
