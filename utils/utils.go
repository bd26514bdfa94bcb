package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/vorpalengineering/cryptocoffee-go/types"
)

// AtomicAmount converts a decimal USD amount to the token's atomic unit
// string (e.g. 5.00 with 6 decimals -> "5000000"). The result depends only
// on the input amount and the decimal precision.
func AtomicAmount(amount float64, decimals uint8) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("amount must be positive, got %v", amount)
	}

	// Format with fixed precision, then drop the decimal point. This keeps
	// the conversion exact for any amount representable at the asset's
	// precision, where naive float multiplication would not be.
	fixed := strconv.FormatFloat(amount, 'f', int(decimals), 64)
	atomic := strings.Replace(fixed, ".", "", 1)
	atomic = strings.TrimLeft(atomic, "0")
	if atomic == "" {
		return "", fmt.Errorf("amount %v is below the asset's precision", amount)
	}
	return atomic, nil
}

// AtomicUSDC converts a decimal USD amount to USDC base units (6 decimals).
func AtomicUSDC(amount float64) (string, error) {
	return AtomicAmount(amount, 6)
}

// EncodePaymentHeader encodes a payment payload as base64 JSON, the format
// carried in the X-PAYMENT request header.
func EncodePaymentHeader(payload *types.PaymentPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodePaymentHeader decodes an X-PAYMENT header value into a PaymentPayload.
func DecodePaymentHeader(header string) (*types.PaymentPayload, error) {
	// Decode base64
	decoded, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}

	// Parse JSON
	var payload types.PaymentPayload
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return &payload, nil
}

// ExtractExactAuthorization pulls the EIP-3009 authorization out of an
// exact-scheme payment payload.
func ExtractExactAuthorization(payload *types.PaymentPayload) (*types.ExactSchemeAuthorization, error) {
	authData, ok := payload.Payload["authorization"]
	if !ok {
		return nil, fmt.Errorf("missing authorization")
	}

	// Convert to JSON and back to struct
	authJSON, err := json.Marshal(authData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal authorization: %w", err)
	}

	var auth types.ExactSchemeAuthorization
	if err := json.Unmarshal(authJSON, &auth); err != nil {
		return nil, fmt.Errorf("failed to unmarshal authorization: %w", err)
	}

	return &auth, nil
}

// GenerateNonce returns a random 32-byte nonce as a 0x-prefixed hex string.
// Each signed authorization carries a fresh nonce, which is what makes a
// payment header valid for exactly one challenge.
func GenerateNonce() (string, error) {
	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return "0x" + hex.EncodeToString(nonce[:]), nil
}

// BuildTransferAuthorizationTypedData constructs the EIP-712 typed data for
// an EIP-3009 TransferWithAuthorization, using the domain parameters the
// server supplied in the requirement's extra field.
func BuildTransferAuthorizationTypedData(auth *types.ExactSchemeAuthorization, requirements *types.PaymentRequirements, chainID int64) (*apitypes.TypedData, error) {
	value, ok := new(big.Int).SetString(auth.Value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid value: %s", auth.Value)
	}

	// EIP-712 domain data comes from the payment requirements extra field
	name, ok := requirements.Extra["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("missing EIP712 Domain name in extra field")
	}
	version, ok := requirements.Extra["version"].(string)
	if !ok || version == "" {
		return nil, fmt.Errorf("missing EIP712 Domain version in extra field")
	}

	return &apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"TransferWithAuthorization": []apitypes.Type{
				{Name: "from", Type: "address"},
				{Name: "to", Type: "address"},
				{Name: "value", Type: "uint256"},
				{Name: "validAfter", Type: "uint256"},
				{Name: "validBefore", Type: "uint256"},
				{Name: "nonce", Type: "bytes32"},
			},
		},
		PrimaryType: "TransferWithAuthorization",
		Domain: apitypes.TypedDataDomain{
			Name:              name,
			Version:           version,
			ChainId:           (*math.HexOrDecimal256)(big.NewInt(chainID)),
			VerifyingContract: requirements.Asset,
		},
		Message: apitypes.TypedDataMessage{
			"from":        auth.From,
			"to":          auth.To,
			"value":       value.String(),
			"validAfter":  auth.ValidAfter,
			"validBefore": auth.ValidBefore,
			"nonce":       auth.Nonce,
		},
	}, nil
}

// FormatAddress shortens an address for display: 0x1234...abcd
func FormatAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
