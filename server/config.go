package server

import (
	"fmt"
	"os"
	"strings"

	"github.com/vorpalengineering/cryptocoffee-go/types"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig   `yaml:"server"`
	Donation   DonationConfig `yaml:"donation"`
	CORS       CORSConfig     `yaml:"cors"`
	Email      EmailConfig    `yaml:"email"`
	Log        LogConfig      `yaml:"log"`
	Production bool           `yaml:"production"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DonationConfig struct {
	// WalletAddress is the creator's payout address. Required.
	WalletAddress string `yaml:"wallet_address"`

	// Network selects the chain the widget pays on.
	Network string `yaml:"network"`

	// FacilitatorURL is the base URL of the verify/settle service.
	FacilitatorURL string `yaml:"facilitator_url"`

	// Description appears in the payment requirement.
	Description string `yaml:"description"`

	// SuccessMessage is returned in the donation receipt.
	SuccessMessage string `yaml:"success_message"`

	// MinAmount and MaxAmount bound accepted donations in USD.
	MinAmount float64 `yaml:"min_amount"`
	MaxAmount float64 `yaml:"max_amount"`

	// MaxTimeoutSeconds is the challenge validity window.
	MaxTimeoutSeconds int `yaml:"max_timeout_seconds"`
}

type CORSConfig struct {
	// AllowedOrigins is the CORS allow-list. Origins outside the list get
	// no Access-Control-Allow-Origin header on any response.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type EmailConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	From string `yaml:"from"`
	To   string `yaml:"to"`

	// Password comes from the environment, never the config file.
	Password string `yaml:"-"`
}

// Enabled reports whether email notification is configured.
func (e EmailConfig) Enabled() bool {
	return e.Host != "" && e.User != "" && e.To != ""
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultFacilitatorURL is used when no facilitator is configured.
const DefaultFacilitatorURL = "https://x402.org/facilitator"

// LoadConfig reads a YAML config file, applies environment overrides and
// defaults, and validates the result.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	loadEnvVars(&config)
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func loadEnvVars(config *Config) {
	if v := os.Getenv("WALLET_ADDRESS"); v != "" {
		config.Donation.WalletAddress = v
	}
	if v := os.Getenv("NETWORK"); v != "" {
		config.Donation.Network = v
	}
	if v := os.Getenv("FACILITATOR_URL"); v != "" {
		config.Donation.FacilitatorURL = v
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		config.CORS.AllowedOrigins = origins
	}
	config.Email.Password = os.Getenv("EMAIL_PASS")
}

func (config *Config) applyDefaults() {
	if config.Server.Port == 0 {
		config.Server.Port = 3000
	}
	if config.Donation.Network == "" {
		config.Donation.Network = "base-sepolia"
	}
	if config.Donation.FacilitatorURL == "" {
		config.Donation.FacilitatorURL = DefaultFacilitatorURL
	}
	if config.Donation.SuccessMessage == "" {
		config.Donation.SuccessMessage = "Thank you for your donation!"
	}
	if config.Donation.MinAmount == 0 {
		config.Donation.MinAmount = 0.01
	}
	if config.Donation.MaxAmount == 0 {
		config.Donation.MaxAmount = 1_000_000
	}
	if config.Donation.MaxTimeoutSeconds == 0 {
		config.Donation.MaxTimeoutSeconds = 60
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
}

// Validate checks the configuration. A missing payout address or an
// unsupported network is a startup error, never a per-request 500.
func (config *Config) Validate() error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", config.Server.Port)
	}

	if config.Donation.WalletAddress == "" {
		return fmt.Errorf("wallet address must be set")
	}
	if _, err := types.GetNetwork(config.Donation.Network); err != nil {
		return err
	}
	if config.Donation.MinAmount <= 0 {
		return fmt.Errorf("min amount must be positive, got %v", config.Donation.MinAmount)
	}
	if config.Donation.MaxAmount < config.Donation.MinAmount {
		return fmt.Errorf("max amount (%v) must be >= min amount (%v)",
			config.Donation.MaxAmount, config.Donation.MinAmount)
	}
	if config.Donation.MaxTimeoutSeconds <= 0 {
		return fmt.Errorf("challenge timeout must be positive, got %d", config.Donation.MaxTimeoutSeconds)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Log.Level)
	}

	return nil
}
