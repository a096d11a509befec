package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/tunebase/tunecli/internal/chain"
	"github.com/tunebase/tunecli/internal/wallet"
)

// ErrMethodNotFound marks a call to a method the bound ABI does not carry.
// Callers use it to tell "feature unsupported on this deployment" apart
// from a real failure.
var ErrMethodNotFound = errors.New("method not found in ABI")

// BoundContract is one callable contract: address + ABI + the signer that
// reads and writes go through.
type BoundContract struct {
	Name    string
	Address string
	abi     abi.ABI
	signer  *wallet.Signer
}

// Pack encodes a method call. Returns ErrMethodNotFound for methods the
// ABI does not define.
func (b *BoundContract) Pack(method string, args ...interface{}) ([]byte, error) {
	if _, ok := b.abi.Methods[method]; !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, b.Name, method)
	}
	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s.%s: %w", b.Name, method, err)
	}
	return data, nil
}

// Call executes a read-only method and returns the unpacked outputs.
func (b *BoundContract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := b.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	raw, err := b.signer.Call(ctx, b.Address, data)
	if err != nil {
		return nil, fmt.Errorf("calling %s.%s: %w", b.Name, method, err)
	}
	out, err := b.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s.%s result: %w", b.Name, method, err)
	}
	return out, nil
}

// ABI exposes the parsed ABI (event decoding, tests).
func (b *BoundContract) ABI() abi.ABI { return b.abi }

// Bindings is the always-consistent set of callable contracts for the
// currently active chain. It is rebuilt wholesale on every chain or wallet
// change, never patched in place.
type Bindings struct {
	mu      sync.Mutex
	log     *slog.Logger
	book    *chain.AddressBook
	abis    *ABITable
	bound   map[string]*BoundContract
	chainID int64
}

// NewBindings creates an empty binding set.
func NewBindings(log *slog.Logger, book *chain.AddressBook, abis *ABITable) *Bindings {
	if log == nil {
		log = slog.Default()
	}
	return &Bindings{
		log:   log,
		book:  book,
		abis:  abis,
		bound: make(map[string]*BoundContract),
	}
}

// Rebuild replaces the whole binding set with the contracts deployed on
// chainID. Requires a signer; without one it clears and returns. Contracts
// missing an address or ABI on this chain are silently absent.
func (b *Bindings) Rebuild(chainID int64, signer *wallet.Signer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bound = make(map[string]*BoundContract)
	b.chainID = chainID

	if signer == nil {
		b.log.Debug("skipping contract binding: no active signer", "chain_id", chainID)
		return
	}
	if err := b.abis.Err(); err != nil {
		b.log.Error("ABI table unavailable", "err", err)
		return
	}

	for _, name := range chain.ContractNames() {
		addr, ok := b.book.Deployed(chainID, name)
		if !ok {
			continue
		}
		parsed, ok := b.abis.Get(name)
		if !ok {
			continue
		}
		b.bound[name] = &BoundContract{
			Name:    name,
			Address: addr,
			abi:     parsed,
			signer:  signer,
		}
		b.log.Debug("contract bound", "name", name, "address", addr, "chain_id", chainID)
	}
}

// Clear drops every binding (disconnect path).
func (b *Bindings) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bound = make(map[string]*BoundContract)
	b.chainID = 0
}

// Get returns the bound contract for a logical name, or nil when the
// contract is unavailable on the active chain. Callers must treat nil as
// "operation unavailable", not crash.
func (b *Bindings) Get(name string) *BoundContract {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bound[name]
}

// ChainID returns the chain the current set was built against.
func (b *Bindings) ChainID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chainID
}

// Names returns the currently bound contract names.
func (b *Bindings) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.bound))
	for name := range b.bound {
		out = append(out, name)
	}
	return out
}

// MusicNFT returns the typed MusicNFT handle, or nil when unbound.
func (b *Bindings) MusicNFT() *MusicNFTHandle {
	if c := b.Get(chain.ContractMusicNFT); c != nil {
		return &MusicNFTHandle{c: c}
	}
	return nil
}

// Platform returns the typed Platform handle, or nil when unbound.
func (b *Bindings) Platform() *PlatformHandle {
	if c := b.Get(chain.ContractPlatform); c != nil {
		return &PlatformHandle{c: c}
	}
	return nil
}

// Staking returns the typed Staking handle, or nil when unbound.
func (b *Bindings) Staking() *StakingHandle {
	if c := b.Get(chain.ContractStaking); c != nil {
		return &StakingHandle{c: c}
	}
	return nil
}

// LogEvents decodes receipt logs against the bound ABIs and writes them to
// the logger. Observability only; decode misses are ignored.
func (b *Bindings) LogEvents(logs []chain.LogEntry) {
	b.mu.Lock()
	bound := make([]*BoundContract, 0, len(b.bound))
	for _, c := range b.bound {
		bound = append(bound, c)
	}
	log := b.log
	b.mu.Unlock()

	for _, entry := range logs {
		for _, c := range bound {
			if !strings.EqualFold(entry.Address, c.Address) || len(entry.Topics) == 0 {
				continue
			}
			for _, ev := range c.abi.Events {
				if strings.EqualFold(entry.Topics[0], ev.ID.Hex()) {
					log.Info("contract event", "contract", c.Name, "event", ev.Name, "tx", entry.TxHash)
				}
			}
		}
	}
}
