// Package wallet defines the wallet provider capability the widget drives:
// account access, chain switching, and typed-data signing. The interface
// mirrors the EIP-1193 request surface browser wallets expose.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/vorpalengineering/cryptocoffee-go/types"
)

// EIP-1193 provider error codes.
const (
	CodeUserRejected = 4001
	CodeUnknownChain = 4902
)

var (
	// ErrUnavailable indicates no wallet capability is present.
	ErrUnavailable = errors.New("wallet: no wallet provider available")

	// ErrUserRejected indicates the user declined the request in the wallet UI.
	ErrUserRejected = errors.New("wallet: request rejected by user")

	// ErrUnknownChain indicates the wallet does not know the requested chain.
	ErrUnknownChain = errors.New("wallet: unrecognized chain")

	// ErrNoAccounts indicates the provider returned no accounts.
	ErrNoAccounts = errors.New("wallet: no accounts available")
)

// RPCError is a provider error with an EIP-1193 code. It unwraps to the
// matching sentinel error so callers can branch with errors.Is.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("wallet: provider error %d: %s", e.Code, e.Message)
}

func (e *RPCError) Unwrap() error {
	switch e.Code {
	case CodeUserRejected:
		return ErrUserRejected
	case CodeUnknownChain:
		return ErrUnknownChain
	}
	return nil
}

// Provider is the wallet capability consumed by the widget controller.
// Implementations may suspend indefinitely awaiting user approval, so every
// operation takes a context.
type Provider interface {
	// RequestAccounts asks the wallet for account access and returns the
	// available addresses.
	RequestAccounts(ctx context.Context) ([]string, error)

	// ChainID returns the chain the wallet is currently on.
	ChainID(ctx context.Context) (int64, error)

	// SwitchChain asks the wallet to change to the given chain.
	SwitchChain(ctx context.Context, chainID int64) error

	// AddChain asks the wallet to register a chain it doesn't know.
	AddChain(ctx context.Context, network types.NetworkConfig) error

	// SignTypedData signs EIP-712 typed data with the given account.
	SignTypedData(ctx context.Context, address string, data *apitypes.TypedData) (string, error)
}
