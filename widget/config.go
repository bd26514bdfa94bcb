package widget

import (
	"errors"
	"fmt"

	"github.com/vorpalengineering/cryptocoffee-go/types"
)

// MaxMessageLength is the longest donor message the widget accepts.
const MaxMessageLength = 500

// Config configures one widget instance. Only WalletAddress and APIEndpoint
// are required; every other field has a documented default. Unknown settings
// cannot be injected: the struct is the whole configuration surface.
type Config struct {
	// WalletAddress is the creator's payout address. Required.
	WalletAddress string

	// APIEndpoint is the donation endpoint URL. Required.
	APIEndpoint string

	// CreatorName is shown in widget copy. Defaults to "this creator".
	CreatorName string

	// ButtonText is the widget's call-to-action label.
	// Defaults to "☕ Buy me a coffee".
	ButtonText string

	// SuccessMessage is shown after a settled donation.
	// Defaults to "Thank you for your support!".
	SuccessMessage string

	// LogoURL is an optional logo image URL.
	LogoURL string

	// PresetAmounts are the one-tap USD amounts. Defaults to [1, 3, 5].
	PresetAmounts []float64

	// MinAmount and MaxAmount bound the donation amount in USD.
	// Defaults: 0.01 and 1,000,000.
	MinAmount float64
	MaxAmount float64

	// Network selects the chain, "base-sepolia" (default) or "base".
	Network string

	// Theme is "light" (default) or "dark".
	Theme string
}

func (c *Config) applyDefaults() {
	if c.CreatorName == "" {
		c.CreatorName = "this creator"
	}
	if c.ButtonText == "" {
		c.ButtonText = "☕ Buy me a coffee"
	}
	if c.SuccessMessage == "" {
		c.SuccessMessage = "Thank you for your support!"
	}
	if len(c.PresetAmounts) == 0 {
		c.PresetAmounts = []float64{1, 3, 5}
	}
	if c.MinAmount == 0 {
		c.MinAmount = 0.01
	}
	if c.MaxAmount == 0 {
		c.MaxAmount = 1_000_000
	}
	if c.Network == "" {
		c.Network = "base-sepolia"
	}
	if c.Theme == "" {
		c.Theme = "light"
	}
}

// Validate checks the configuration. Construction fails before any
// rendering or network activity when a required field is missing.
func (c *Config) Validate() error {
	if c.WalletAddress == "" {
		return errors.New("walletAddress is required")
	}
	if c.APIEndpoint == "" {
		return errors.New("apiEndpoint is required")
	}
	if _, err := types.GetNetwork(c.Network); err != nil {
		return err
	}
	if c.MinAmount <= 0 {
		return fmt.Errorf("minAmount must be positive, got %v", c.MinAmount)
	}
	if c.MaxAmount < c.MinAmount {
		return fmt.Errorf("maxAmount (%v) must be >= minAmount (%v)", c.MaxAmount, c.MinAmount)
	}
	if c.Theme != "light" && c.Theme != "dark" {
		return fmt.Errorf("invalid theme: %s (must be light or dark)", c.Theme)
	}
	for _, amount := range c.PresetAmounts {
		if amount < c.MinAmount || amount > c.MaxAmount {
			return fmt.Errorf("preset amount %v outside [%v, %v]", amount, c.MinAmount, c.MaxAmount)
		}
	}
	return nil
}
