package widget

import (
	"testing"
)

func validConfig() Config {
	return Config{
		WalletAddress: "0x1111111111111111111111111111111111111111",
		APIEndpoint:   "https://example.com/donate",
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.applyDefaults()

	if cfg.CreatorName != "this creator" {
		t.Errorf("Expected default creator name 'this creator', got '%s'", cfg.CreatorName)
	}
	if cfg.ButtonText != "☕ Buy me a coffee" {
		t.Errorf("Unexpected default button text: '%s'", cfg.ButtonText)
	}
	if cfg.SuccessMessage != "Thank you for your support!" {
		t.Errorf("Unexpected default success message: '%s'", cfg.SuccessMessage)
	}
	if len(cfg.PresetAmounts) != 3 || cfg.PresetAmounts[0] != 1 || cfg.PresetAmounts[1] != 3 || cfg.PresetAmounts[2] != 5 {
		t.Errorf("Expected default presets [1 3 5], got %v", cfg.PresetAmounts)
	}
	if cfg.MinAmount != 0.01 {
		t.Errorf("Expected default min amount 0.01, got %v", cfg.MinAmount)
	}
	if cfg.MaxAmount != 1_000_000 {
		t.Errorf("Expected default max amount 1000000, got %v", cfg.MaxAmount)
	}
	if cfg.Network != "base-sepolia" {
		t.Errorf("Expected default network 'base-sepolia', got '%s'", cfg.Network)
	}
	if cfg.Theme != "light" {
		t.Errorf("Expected default theme 'light', got '%s'", cfg.Theme)
	}
}

func TestConfigDefaultsPreserveExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.CreatorName = "Alice"
	cfg.PresetAmounts = []float64{2, 4}
	cfg.Network = "base"
	cfg.applyDefaults()

	if cfg.CreatorName != "Alice" {
		t.Errorf("Explicit creator name overwritten: '%s'", cfg.CreatorName)
	}
	if len(cfg.PresetAmounts) != 2 {
		t.Errorf("Explicit presets overwritten: %v", cfg.PresetAmounts)
	}
	if cfg.Network != "base" {
		t.Errorf("Explicit network overwritten: '%s'", cfg.Network)
	}
}

func TestConfigValidate(t *testing.T) {
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
			modify:  func(c *Config) { c.WalletAddress = "" },
			wantErr: true,
		},
		{
			name:    "missing api endpoint",
			modify:  func(c *Config) { c.APIEndpoint = "" },
			wantErr: true,
		},
		{
			name:    "unsupported network",
			modify:  func(c *Config) { c.Network = "ethereum" },
			wantErr: true,
		},
		{
			name:    "negative min amount",
			modify:  func(c *Config) { c.MinAmount = -1 },
			wantErr: true,
		},
		{
			name:    "max below min",
			modify:  func(c *Config) { c.MinAmount = 10; c.MaxAmount = 5 },
			wantErr: true,
		},
		{
			name:    "invalid theme",
			modify:  func(c *Config) { c.Theme = "sepia" },
			wantErr: true,
		},
		{
			name:    "dark theme",
			modify:  func(c *Config) { c.Theme = "dark" },
			wantErr: false,
		},
		{
			name:    "preset outside bounds",
			modify:  func(c *Config) { c.PresetAmounts = []float64{1, 2_000_000} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.applyDefaults()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestNewControllerRejectsInvalidConfig(t *testing.T) {
	_, err := NewController(Config{}, nil)
	if err == nil {
		t.Fatal("Expected error for empty config, got nil")
	}
}
