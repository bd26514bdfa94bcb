package wallet

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/vorpalengineering/cryptocoffee-go/types"
)

// KeySigner is an in-process Provider backed by a raw ECDSA key. It never
// prompts and tracks the chain it was told to switch to, which makes it
// suitable for the CLI and for tests.
type KeySigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    int64
}

// NewKeySigner creates a KeySigner from a hex-encoded private key.
func NewKeySigner(privateKeyHex string, chainID int64) (*KeySigner, error) {
	keyHex := strings.TrimPrefix(privateKeyHex, "0x")
	privateKey, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &KeySigner{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:    chainID,
	}, nil
}

// Address returns the signer's account address.
func (s *KeySigner) Address() string {
	return s.address.Hex()
}

func (s *KeySigner) RequestAccounts(ctx context.Context) ([]string, error) {
	return []string{s.address.Hex()}, nil
}

func (s *KeySigner) ChainID(ctx context.Context) (int64, error) {
	return s.chainID, nil
}

func (s *KeySigner) SwitchChain(ctx context.Context, chainID int64) error {
	s.chainID = chainID
	return nil
}

func (s *KeySigner) AddChain(ctx context.Context, network types.NetworkConfig) error {
	return nil
}

// SignTypedData hashes the EIP-712 payload and signs it, returning a
// 65-byte signature hex string with v adjusted to 27/28.
func (s *KeySigner) SignTypedData(ctx context.Context, address string, data *apitypes.TypedData) (string, error) {
	if !strings.EqualFold(address, s.address.Hex()) {
		return "", fmt.Errorf("unknown account: %s", address)
	}

	hash, _, err := apitypes.TypedDataAndHash(*data)
	if err != nil {
		return "", fmt.Errorf("failed to hash typed data: %w", err)
	}

	signature, err := crypto.Sign(hash, s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}

	// Ethereum uses v = 27 or 28
	signature[64] += 27

	return "0x" + hex.EncodeToString(signature), nil
}
