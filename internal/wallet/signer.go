package wallet

import (
	"context"
	"math/big"
)

// Signer pairs an authorized address with the provider that signs for it.
type Signer struct {
	address  string
	provider Provider
}

// NewSigner creates a signer for address backed by provider.
func NewSigner(address string, provider Provider) *Signer {
	return &Signer{address: address, provider: provider}
}

// Address returns the signer's address.
func (s *Signer) Address() string { return s.address }

// SendTransaction fills in the from address and submits tx via the provider.
func (s *Signer) SendTransaction(ctx context.Context, to string, value *big.Int, data []byte, gasLimit uint64) (string, error) {
	return s.provider.SendTransaction(ctx, TxRequest{
		From:     s.address,
		To:       to,
		Value:    value,
		Data:     data,
		GasLimit: gasLimit,
	})
}

// SignMessage signs an EIP-191 personal message.
func (s *Signer) SignMessage(ctx context.Context, msg []byte) (string, error) {
	return s.provider.SignMessage(ctx, s.address, msg)
}

// Call executes a read-only contract call from the signer's address.
func (s *Signer) Call(ctx context.Context, to string, data []byte) ([]byte, error) {
	return s.provider.CallContract(ctx, s.address, to, data)
}
