package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/tunebase/tunecli/internal/chain"
)

// StubProvider is a scriptable Provider used in tests across the module.
// Zero value behaves like a provider with no authorized accounts; set fields
// or the Fn hooks to script behavior.
type StubProvider struct {
	mu sync.Mutex

	Accounts    []string
	AccountsErr error
	Chain       int64

	SendFn    func(ctx context.Context, tx TxRequest) (string, error)
	CallFn    func(ctx context.Context, from, to string, data []byte) ([]byte, error)
	ReceiptFn func(ctx context.Context, hash string) (*chain.TxReceipt, error)

	Fee         *chain.FeeData
	FeeErr      error
	Block       uint64
	GasEstimate uint64

	accountsFns []func([]string)
	chainFns    []func(int64)
}

func (p *StubProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	return p.Accounts, p.AccountsErr
}

func (p *StubProvider) ChainID(ctx context.Context) (int64, error) {
	return p.Chain, nil
}

func (p *StubProvider) SendTransaction(ctx context.Context, tx TxRequest) (string, error) {
	if p.SendFn != nil {
		return p.SendFn(ctx, tx)
	}
	return "", fmt.Errorf("stub: SendFn not set")
}

func (p *StubProvider) SignMessage(ctx context.Context, from string, msg []byte) (string, error) {
	return "0xstubsig", nil
}

func (p *StubProvider) CallContract(ctx context.Context, from, to string, data []byte) ([]byte, error) {
	if p.CallFn != nil {
		return p.CallFn(ctx, from, to, data)
	}
	return nil, fmt.Errorf("stub: CallFn not set")
}

func (p *StubProvider) EstimateGas(ctx context.Context, tx TxRequest) (uint64, error) {
	return p.GasEstimate, nil
}

func (p *StubProvider) FeeData(ctx context.Context) (*chain.FeeData, error) {
	return p.Fee, p.FeeErr
}

func (p *StubProvider) TransactionReceipt(ctx context.Context, hash string) (*chain.TxReceipt, error) {
	if p.ReceiptFn != nil {
		return p.ReceiptFn(ctx, hash)
	}
	return nil, nil
}

func (p *StubProvider) BlockNumber(ctx context.Context) (uint64, error) {
	return p.Block, nil
}

func (p *StubProvider) OnAccountsChanged(fn func([]string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accountsFns = append(p.accountsFns, fn)
}

func (p *StubProvider) OnChainChanged(fn func(int64)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chainFns = append(p.chainFns, fn)
}

// EmitAccountsChanged fires the registered account-change callbacks.
func (p *StubProvider) EmitAccountsChanged(accounts []string) {
	p.mu.Lock()
	fns := append([]func([]string){}, p.accountsFns...)
	p.mu.Unlock()
	for _, fn := range fns {
		fn(accounts)
	}
}

// EmitChainChanged fires the registered chain-change callbacks.
func (p *StubProvider) EmitChainChanged(chainID int64) {
	p.mu.Lock()
	p.Chain = chainID
	fns := append([]func(int64){}, p.chainFns...)
	p.mu.Unlock()
	for _, fn := range fns {
		fn(chainID)
	}
}
