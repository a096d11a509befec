package wallet

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"

	"github.com/tunebase/tunecli/internal/chain"
)

// LocalProvider implements Provider on top of a locally held private key and
// a plain JSON-RPC endpoint. It is the development-time stand-in for a
// browser wallet: the CLI registers one per configured wallet type so the
// platform can be driven without a wallet extension.
type LocalProvider struct {
	mu      sync.Mutex
	client  *chain.EVMClient
	keys    KeySource
	keyRef  string
	address string

	accountsFns []func([]string)
	chainFns    []func(int64)
}

// NewLocalProvider creates a provider that signs with the key stored under
// keyRef and talks to rpcURL.
func NewLocalProvider(rpcURL, keyRef string, keys KeySource) *LocalProvider {
	return &LocalProvider{
		client: chain.NewEVMClient(rpcURL),
		keys:   keys,
		keyRef: keyRef,
	}
}

// RequestAccounts derives the address from the stored key. Returns an empty
// list when the key reference no longer resolves (access revoked).
func (p *LocalProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	hexKey, err := p.keys.Retrieve(p.keyRef)
	if err != nil {
		return nil, nil
	}
	priv, err := crypto.HexToECDSA(stripHexPrefix(hexKey))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	p.address = crypto.PubkeyToAddress(priv.PublicKey).Hex()
	return []string{p.address}, nil
}

// ChainID reports the chain id of the connected RPC endpoint.
func (p *LocalProvider) ChainID(ctx context.Context) (int64, error) {
	return p.client.ChainID(ctx)
}

// SendTransaction builds, signs and broadcasts a dynamic-fee transaction.
func (p *LocalProvider) SendTransaction(ctx context.Context, tx TxRequest) (string, error) {
	hexKey, err := p.keys.Retrieve(p.keyRef)
	if err != nil {
		return "", fmt.Errorf("retrieving key: %w", err)
	}
	priv, err := crypto.HexToECDSA(stripHexPrefix(hexKey))
	if err != nil {
		return "", fmt.Errorf("parsing private key: %w", err)
	}

	chainID, err := p.client.ChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("reading chain id: %w", err)
	}
	nonce, err := p.client.GetPendingNonce(ctx, tx.From)
	if err != nil {
		return "", fmt.Errorf("getting nonce: %w", err)
	}

	gasLimit := tx.GasLimit
	if gasLimit == 0 {
		gasLimit, err = p.EstimateGas(ctx, tx)
		if err != nil {
			gasLimit = 200_000 // fallback
		}
	}

	fd, err := p.client.GetFeeData(ctx)
	if err != nil {
		return "", fmt.Errorf("getting fee data: %w", err)
	}
	tipCap := fd.TipCap
	feeCap := fd.MaxFeePerGas
	if feeCap == nil {
		tipCap = fd.GasPrice
		feeCap = new(big.Int).Mul(fd.GasPrice, big.NewInt(2))
	}

	value := tx.Value
	if value == nil {
		value = big.NewInt(0)
	}
	toAddr := common.HexToAddress(tx.To)

	signed, err := types.SignTx(types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(chainID),
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &toAddr,
		Value:     value,
		Data:      tx.Data,
	}), types.NewLondonSigner(big.NewInt(chainID)), priv)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("marshaling signed tx: %w", err)
	}

	hash, err := p.client.SendRawTransaction(ctx, "0x"+hex.EncodeToString(raw))
	if err != nil {
		return "", fmt.Errorf("broadcasting transaction: %w", err)
	}
	return hash, nil
}

// SignMessage signs an EIP-191 personal message.
func (p *LocalProvider) SignMessage(ctx context.Context, from string, msg []byte) (string, error) {
	hexKey, err := p.keys.Retrieve(p.keyRef)
	if err != nil {
		return "", fmt.Errorf("retrieving key: %w", err)
	}
	priv, err := crypto.HexToECDSA(stripHexPrefix(hexKey))
	if err != nil {
		return "", fmt.Errorf("parsing private key: %w", err)
	}

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(prefixed))

	sig, err := crypto.Sign(h.Sum(nil), priv)
	if err != nil {
		return "", fmt.Errorf("signing message: %w", err)
	}
	return "0x" + hex.EncodeToString(sig), nil
}

// CallContract executes a read-only contract call.
func (p *LocalProvider) CallContract(ctx context.Context, from, to string, data []byte) ([]byte, error) {
	result, err := p.client.CallContract(ctx, from, to, "0x"+hex.EncodeToString(data))
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(stripHexPrefix(result))
}

// EstimateGas returns the node's gas estimate for tx.
func (p *LocalProvider) EstimateGas(ctx context.Context, tx TxRequest) (uint64, error) {
	data := ""
	if len(tx.Data) > 0 {
		data = "0x" + hex.EncodeToString(tx.Data)
	}
	return p.client.EstimateGas(ctx, tx.From, tx.To, data, tx.Value)
}

// FeeData returns current fee market data.
func (p *LocalProvider) FeeData(ctx context.Context) (*chain.FeeData, error) {
	return p.client.GetFeeData(ctx)
}

// TransactionReceipt returns the receipt for hash, or nil while pending.
func (p *LocalProvider) TransactionReceipt(ctx context.Context, hash string) (*chain.TxReceipt, error) {
	return p.client.GetTransactionReceipt(ctx, hash)
}

// BlockNumber returns the latest block number.
func (p *LocalProvider) BlockNumber(ctx context.Context) (uint64, error) {
	return p.client.GetBlockNumber(ctx)
}

// OnAccountsChanged registers an account-change callback.
func (p *LocalProvider) OnAccountsChanged(fn func([]string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accountsFns = append(p.accountsFns, fn)
}

// OnChainChanged registers a chain-change callback.
func (p *LocalProvider) OnChainChanged(fn func(int64)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chainFns = append(p.chainFns, fn)
}

// SwitchEndpoint repoints the provider at a different RPC endpoint and fires
// the chain-changed callbacks with the new chain id.
func (p *LocalProvider) SwitchEndpoint(ctx context.Context, rpcURL string) error {
	client := chain.NewEVMClient(rpcURL)
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("probing new endpoint: %w", err)
	}

	p.mu.Lock()
	p.client = client
	fns := append([]func(int64){}, p.chainFns...)
	p.mu.Unlock()

	for _, fn := range fns {
		fn(chainID)
	}
	return nil
}

func stripHexPrefix(s string) string {
	if len(s) >= 2 && s[:2] == "0x" {
		return s[2:]
	}
	return s
}
