package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"
)

// EVMClient is a minimal JSON-RPC client for EVM chains.
type EVMClient struct {
	url    string
	client *http.Client
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string) *EVMClient {
	return &EVMClient{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// URL returns the endpoint this client talks to.
func (c *EVMClient) URL() string { return c.url }

// GetBalance returns the native balance in wei for an address.
func (c *EVMClient) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	result, err := c.call(ctx, "eth_getBalance", address, "latest")
	if err != nil {
		return nil, err
	}
	return hexResult(result, "balance")
}

// ChainID returns the chain's ID.
func (c *EVMClient) ChainID(ctx context.Context) (int64, error) {
	result, err := c.call(ctx, "eth_chainId")
	if err != nil {
		return 0, err
	}
	id, err := hexResult(result, "chain id")
	if err != nil {
		return 0, err
	}
	return id.Int64(), nil
}

// GetBlockNumber returns the latest block number.
func (c *EVMClient) GetBlockNumber(ctx context.Context) (uint64, error) {
	result, err := c.call(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}
	n, err := hexResult(result, "block number")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GetPendingNonce returns the transaction count including queued
// transactions, using the "pending" block tag.
func (c *EVMClient) GetPendingNonce(ctx context.Context, address string) (uint64, error) {
	result, err := c.call(ctx, "eth_getTransactionCount", address, "pending")
	if err != nil {
		return 0, err
	}
	n, err := hexResult(result, "nonce")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GasPrice returns the current legacy gas price.
func (c *EVMClient) GasPrice(ctx context.Context) (*big.Int, error) {
	result, err := c.call(ctx, "eth_gasPrice")
	if err != nil {
		return nil, err
	}
	return hexResult(result, "gas price")
}

// FeeData holds current fee market data for a chain.
type FeeData struct {
	GasPrice     *big.Int // legacy eth_gasPrice, always set when RPC succeeds
	BaseFee      *big.Int // EIP-1559 base fee, nil on legacy chains
	TipCap       *big.Int // suggested priority fee, nil on legacy chains
	MaxFeePerGas *big.Int // 2*BaseFee + TipCap, nil on legacy chains
}

// GetFeeData fetches the legacy gas price plus, where the chain supports
// EIP-1559, the base fee from the latest header and a suggested tip.
func (c *EVMClient) GetFeeData(ctx context.Context) (*FeeData, error) {
	gp, err := c.GasPrice(ctx)
	if err != nil {
		return nil, err
	}
	fd := &FeeData{GasPrice: gp}

	blockResult, err := c.call(ctx, "eth_getBlockByNumber", "latest", false)
	if err != nil || blockResult == nil {
		return fd, nil
	}
	raw, _ := json.Marshal(blockResult)
	var rb struct {
		BaseFeePerGas string `json:"baseFeePerGas"`
	}
	if json.Unmarshal(raw, &rb) != nil || rb.BaseFeePerGas == "" {
		return fd, nil
	}
	bf, ok := parseBigHex(rb.BaseFeePerGas)
	if !ok {
		return fd, nil
	}
	fd.BaseFee = bf

	tip := big.NewInt(1_500_000_000) // 1.5 gwei fallback
	if tipResult, err := c.call(ctx, "eth_maxPriorityFeePerGas"); err == nil {
		if t, terr := hexResult(tipResult, "tip"); terr == nil {
			tip = t
		}
	}
	fd.TipCap = tip
	fd.MaxFeePerGas = new(big.Int).Add(new(big.Int).Mul(bf, big.NewInt(2)), tip)
	return fd, nil
}

// EstimateGas estimates gas for a transaction.
func (c *EVMClient) EstimateGas(ctx context.Context, from, to, data string, value *big.Int) (uint64, error) {
	params := map[string]string{"from": from}
	if to != "" {
		params["to"] = to
	}
	if data != "" {
		params["data"] = data
	}
	if value != nil && value.Sign() > 0 {
		params["value"] = "0x" + value.Text(16)
	}

	result, err := c.call(ctx, "eth_estimateGas", params, "latest")
	if err != nil {
		return 0, err
	}
	n, err := hexResult(result, "gas estimate")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// SendRawTransaction broadcasts a signed raw transaction and returns its hash.
func (c *EVMClient) SendRawTransaction(ctx context.Context, rawTx string) (string, error) {
	result, err := c.call(ctx, "eth_sendRawTransaction", rawTx)
	if err != nil {
		return "", err
	}
	hash, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected result: %T", result)
	}
	return hash, nil
}

// CallContract calls a smart contract read function with the given calldata.
func (c *EVMClient) CallContract(ctx context.Context, from, to, calldata string) (string, error) {
	params := map[string]string{
		"to":   to,
		"data": calldata,
	}
	if from != "" {
		params["from"] = from
	}
	result, err := c.call(ctx, "eth_call", params, "latest")
	if err != nil {
		return "", err
	}
	s, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected result: %T", result)
	}
	return s, nil
}

// LogEntry holds one event log.
type LogEntry struct {
	Address  string   `json:"address"`
	Topics   []string `json:"topics"`
	Data     string   `json:"data"`
	BlockNum string   `json:"blockNumber"`
	TxHash   string   `json:"transactionHash"`
	LogIndex string   `json:"logIndex"`
}

// TxReceipt holds the on-chain receipt of a mined transaction.
type TxReceipt struct {
	Hash              string
	Status            uint64 // 1 = success, 0 = reverted
	BlockNumber       uint64
	GasUsed           uint64
	EffectiveGasPrice *big.Int
	Logs              []LogEntry
}

// GetTransactionReceipt fetches the receipt for hash.
// Returns nil, nil if the transaction is still pending.
func (c *EVMClient) GetTransactionReceipt(ctx context.Context, hash string) (*TxReceipt, error) {
	result, err := c.call(ctx, "eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil // still pending
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	var r struct {
		Status            string     `json:"status"`
		BlockNumber       string     `json:"blockNumber"`
		GasUsed           string     `json:"gasUsed"`
		EffectiveGasPrice string     `json:"effectiveGasPrice"`
		Logs              []LogEntry `json:"logs"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}

	receipt := &TxReceipt{Hash: hash, Logs: r.Logs}
	if s, ok := parseBigHex(r.Status); ok {
		receipt.Status = s.Uint64()
	}
	if bn, ok := parseBigHex(r.BlockNumber); ok {
		receipt.BlockNumber = bn.Uint64()
	}
	if gu, ok := parseBigHex(r.GasUsed); ok {
		receipt.GasUsed = gu.Uint64()
	}
	if gp, ok := parseBigHex(r.EffectiveGasPrice); ok {
		receipt.EffectiveGasPrice = gp
	}
	return receipt, nil
}

// --- internal JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *EVMClient) call(ctx context.Context, method string, params ...interface{}) (interface{}, error) {
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	var result interface{}
	if err := json.Unmarshal(rpcResp.Result, &result); err != nil {
		return nil, fmt.Errorf("parsing result: %w", err)
	}

	return result, nil
}

// --- helpers ---

var eth1 = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// WeiToETH converts a wei amount to a decimal string. Display only; on-chain
// amounts always travel as *big.Int.
func WeiToETH(wei *big.Int) string {
	f := new(big.Float).SetInt(wei)
	f.Quo(f, eth1)
	return f.Text('f', 18)
}

// WeiToGwei converts a wei value to gwei as float64. Display only.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		new(big.Float).SetFloat64(1e9),
	).Float64()
	return f
}

func parseBigHex(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16)
	return n, ok
}

func hexResult(result interface{}, what string) (*big.Int, error) {
	hexStr, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected result type: %T", result)
	}
	n, ok := parseBigHex(hexStr)
	if !ok {
		return nil, fmt.Errorf("could not parse %s: %s", what, hexStr)
	}
	return n, nil
}
