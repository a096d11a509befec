package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/tunebase/tunecli/internal/chain"
)

// WalletType identifies an external wallet integration. The set is closed:
// unknown values are rejected at the boundary by ParseWalletType.
type WalletType string

const (
	TypeMetaMask      WalletType = "metamask"
	TypeWalletConnect WalletType = "walletconnect"
	TypeCoinbase      WalletType = "coinbase"
)

// ErrUnsupportedWalletType is returned for wallet types outside the closed set.
var ErrUnsupportedWalletType = errors.New("unsupported wallet type")

// ParseWalletType validates a wallet type string.
func ParseWalletType(s string) (WalletType, error) {
	switch WalletType(s) {
	case TypeMetaMask, TypeWalletConnect, TypeCoinbase:
		return WalletType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedWalletType, s)
}

// TxRequest describes a transaction to submit through a provider.
type TxRequest struct {
	From     string
	To       string
	Value    *big.Int
	Data     []byte
	GasLimit uint64
}

// Provider is the narrow surface the core needs from a wallet provider.
// Everything beyond these calls is opaque.
type Provider interface {
	// RequestAccounts performs the account-access handshake and returns the
	// authorized addresses. An empty list means the user granted nothing.
	RequestAccounts(ctx context.Context) ([]string, error)

	// ChainID reports the chain the provider is currently pointed at.
	ChainID(ctx context.Context) (int64, error)

	// SendTransaction signs and broadcasts a transaction, returning its hash.
	SendTransaction(ctx context.Context, tx TxRequest) (string, error)

	// SignMessage signs an EIP-191 personal message for the given address.
	SignMessage(ctx context.Context, from string, msg []byte) (string, error)

	// CallContract executes a read-only contract call.
	CallContract(ctx context.Context, from, to string, data []byte) ([]byte, error)

	// EstimateGas returns the provider's gas estimate for tx.
	EstimateGas(ctx context.Context, tx TxRequest) (uint64, error)

	// FeeData returns current fee market data.
	FeeData(ctx context.Context) (*chain.FeeData, error)

	// TransactionReceipt returns the receipt for hash, or nil while pending.
	TransactionReceipt(ctx context.Context, hash string) (*chain.TxReceipt, error)

	// BlockNumber returns the latest block number.
	BlockNumber(ctx context.Context) (uint64, error)

	// OnAccountsChanged registers a callback fired when the provider's
	// account list changes. An empty list means access was revoked.
	OnAccountsChanged(fn func(accounts []string))

	// OnChainChanged registers a callback fired when the provider switches chains.
	OnChainChanged(fn func(chainID int64))
}

// ProviderFactory builds a Provider for a wallet type. Factories are
// injected so the manager never hard-codes a wallet integration.
type ProviderFactory func() (Provider, error)
