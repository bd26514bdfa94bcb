package types

import "fmt"

// NetworkConfig describes one supported chain and its USDC deployment.
type NetworkConfig struct {
	// Name is the x402 network identifier used on the wire (e.g. "base-sepolia").
	Name string

	// ChainID is the EVM chain id.
	ChainID int64

	// DisplayName is the human-readable chain name shown in wallet prompts.
	DisplayName string

	// RpcUrls are public RPC endpoints, used when registering the chain
	// with a wallet that doesn't know it.
	RpcUrls []string

	// BlockExplorers are explorer base URLs for the chain.
	BlockExplorers []string

	// NativeCurrency describes the chain's gas token.
	NativeCurrency Currency

	// USDCAddress is the Circle USDC contract address on this chain.
	USDCAddress string

	// USDCDecimals is the USDC decimal precision (6 on every chain).
	USDCDecimals uint8

	// EIP712Name and EIP712Version are the USDC contract's EIP-712
	// domain parameters, carried in the requirement's extra field so
	// clients can build the typed data to sign.
	EIP712Name    string
	EIP712Version string
}

type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

var networks = map[string]NetworkConfig{
	"base-sepolia": {
		Name:           "base-sepolia",
		ChainID:        84532,
		DisplayName:    "Base Sepolia",
		RpcUrls:        []string{"https://sepolia.base.org"},
		BlockExplorers: []string{"https://sepolia.basescan.org"},
		NativeCurrency: Currency{Name: "Ether", Symbol: "ETH", Decimals: 18},
		USDCAddress:    "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
		USDCDecimals:   6,
		EIP712Name:     "USDC",
		EIP712Version:  "2",
	},
	"base": {
		Name:           "base",
		ChainID:        8453,
		DisplayName:    "Base",
		RpcUrls:        []string{"https://mainnet.base.org"},
		BlockExplorers: []string{"https://basescan.org"},
		NativeCurrency: Currency{Name: "Ether", Symbol: "ETH", Decimals: 18},
		USDCAddress:    "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		USDCDecimals:   6,
		EIP712Name:     "USD Coin",
		EIP712Version:  "2",
	},
}

// GetNetwork looks up a supported network by its x402 name.
func GetNetwork(name string) (NetworkConfig, error) {
	cfg, ok := networks[name]
	if !ok {
		return NetworkConfig{}, fmt.Errorf("unsupported network: %s", name)
	}
	return cfg, nil
}

// SupportedNetworks returns the names of all supported networks.
func SupportedNetworks() []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	return names
}
