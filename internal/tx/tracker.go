// Package tx submits transactions and resolves them asynchronously to a
// terminal state, fanning progress out to registered observers.
package tx

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/tunebase/tunecli/internal/chain"
	"github.com/tunebase/tunecli/internal/notify"
	"github.com/tunebase/tunecli/internal/wallet"
)

// Status is a transaction's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
	StatusReplaced  Status = "replaced"
)

// Terminal reports whether s is a terminal state.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed || s == StatusReplaced
}

// Progress is the tracked state of one transaction. Status moves
// pending -> {confirmed | failed | replaced} exactly once and never reverts.
type Progress struct {
	Hash          string `json:"hash"`
	Status        Status `json:"status"`
	Confirmations uint64 `json:"confirmations"`
	GasUsed       string `json:"gas_used,omitempty"`
	GasPrice      string `json:"gas_price,omitempty"`
	BlockNumber   uint64 `json:"block_number,omitempty"`
	Timestamp     int64  `json:"timestamp"` // epoch millis
	Error         string `json:"error,omitempty"`
}

// Callback observes progress transitions for one hash.
type Callback func(Progress)

// Config describes a transaction to execute.
type Config struct {
	To       string
	Value    *big.Int
	Data     []byte
	GasLimit uint64
}

// SignerSource yields the active provider and signer. Satisfied by
// wallet.Manager.
type SignerSource interface {
	CurrentProvider() wallet.Provider
	CurrentSigner() *wallet.Signer
}

// HistorySink records terminal transaction states. Optional.
type HistorySink interface {
	RecordTransaction(p Progress) error
}

// EventSink receives receipt logs for observability. Optional; satisfied by
// contract.Bindings.
type EventSink interface {
	LogEvents(logs []chain.LogEntry)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithPollInterval sets the receipt polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(t *Tracker) { t.pollInterval = d }
}

// WithTimeout bounds how long a pending transaction is tracked before it is
// reported failed with a timeout error.
func WithTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.timeout = d }
}

// WithHistory records terminal states to sink.
func WithHistory(sink HistorySink) Option {
	return func(t *Tracker) { t.history = sink }
}

// WithEventSink forwards receipt logs to sink.
func WithEventSink(sink EventSink) Option {
	return func(t *Tracker) { t.events = sink }
}

// Tracker is the transaction tracker.
type Tracker struct {
	mu       sync.Mutex
	log      *slog.Logger
	notifier notify.Notifier
	src      SignerSource
	history  HistorySink
	events   EventSink

	observers map[string][]Callback
	terminal  map[string]Progress
	polling   map[string]bool

	pollInterval time.Duration
	timeout      time.Duration
}

// NewTracker creates a Tracker.
func NewTracker(log *slog.Logger, notifier notify.Notifier, src SignerSource, opts ...Option) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	t := &Tracker{
		log:          log,
		notifier:     notifier,
		src:          src,
		observers:    make(map[string][]Callback),
		terminal:     make(map[string]Progress),
		polling:      make(map[string]bool),
		pollInterval: 2 * time.Second,
		timeout:      2 * time.Minute,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Execute submits a transaction via the active signer. Submission failures
// come back as a failed Progress value, not an error, so callers can branch
// without exception handling.
func (t *Tracker) Execute(ctx context.Context, cfg Config) Progress {
	signer := t.src.CurrentSigner()
	if signer == nil {
		p := failedProgress("", "no active signer — connect a wallet first")
		t.notifier.Notify(notify.Error, "Transaction failed: no wallet connected")
		return p
	}

	hash, err := signer.SendTransaction(ctx, cfg.To, cfg.Value, cfg.Data, cfg.GasLimit)
	if err != nil {
		p := failedProgress("", err.Error())
		t.log.Warn("transaction submission failed", "err", err)
		t.notifier.Notify(notify.Error, fmt.Sprintf("Transaction failed: %v", err))
		return p
	}

	p := Progress{
		Hash:      hash,
		Status:    StatusPending,
		Timestamp: time.Now().UnixMilli(),
	}
	t.notifier.Notify(notify.Info, fmt.Sprintf("Transaction submitted: %s", hash))
	t.Track(ctx, hash, nil)
	return p
}

// Track registers an optional observer for hash and performs a receipt
// lookup. A receipt that is already available resolves synchronously,
// delivering the terminal state to every registered observer exactly once.
// Otherwise polling continues in the background until a receipt appears or
// the timeout elapses (timeout ⇒ terminal failed).
func (t *Tracker) Track(ctx context.Context, hash string, cb Callback) Progress {
	t.mu.Lock()
	if final, done := t.terminal[hash]; done {
		t.mu.Unlock()
		if cb != nil {
			cb(final)
		}
		return final
	}
	if cb != nil {
		t.observers[hash] = append(t.observers[hash], cb)
	}
	alreadyPolling := t.polling[hash]
	t.mu.Unlock()

	provider := t.src.CurrentProvider()
	if provider == nil {
		return Progress{Hash: hash, Status: StatusPending, Timestamp: time.Now().UnixMilli()}
	}

	receipt, err := provider.TransactionReceipt(ctx, hash)
	if err == nil && receipt != nil {
		return t.resolve(ctx, hash, receipt, provider)
	}

	if !alreadyPolling {
		t.mu.Lock()
		if !t.polling[hash] {
			t.polling[hash] = true
			go t.poll(hash)
		}
		t.mu.Unlock()
	}
	return Progress{Hash: hash, Status: StatusPending, Timestamp: time.Now().UnixMilli()}
}

// poll checks for a receipt until it appears or the timeout elapses.
func (t *Tracker) poll(hash string) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	defer func() {
		t.mu.Lock()
		delete(t.polling, hash)
		t.mu.Unlock()
	}()

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.fail(hash, fmt.Sprintf("timed out after %s waiting for confirmation", t.timeout))
			return
		case <-ticker.C:
			t.mu.Lock()
			_, done := t.terminal[hash]
			t.mu.Unlock()
			if done {
				return
			}

			provider := t.src.CurrentProvider()
			if provider == nil {
				continue // wallet disconnected mid-flight; keep waiting for reconnect or timeout
			}
			receipt, err := provider.TransactionReceipt(ctx, hash)
			if err != nil || receipt == nil {
				continue
			}
			t.resolve(ctx, hash, receipt, provider)
			return
		}
	}
}

// resolve turns a receipt into the terminal Progress for hash and fans it
// out. The first resolution wins; later calls return the stored state.
func (t *Tracker) resolve(ctx context.Context, hash string, receipt *chain.TxReceipt, provider wallet.Provider) Progress {
	p := Progress{
		Hash:        hash,
		Status:      StatusConfirmed,
		BlockNumber: receipt.BlockNumber,
		GasUsed:     fmt.Sprintf("%d", receipt.GasUsed),
		Timestamp:   time.Now().UnixMilli(),
	}
	if receipt.Status == 0 {
		p.Status = StatusFailed
		p.Error = "transaction reverted"
	}
	if receipt.EffectiveGasPrice != nil {
		p.GasPrice = receipt.EffectiveGasPrice.String()
	}
	if latest, err := provider.BlockNumber(ctx); err == nil && latest >= receipt.BlockNumber {
		p.Confirmations = latest - receipt.BlockNumber + 1
	} else {
		p.Confirmations = 1
	}

	final, first := t.commit(hash, p)
	if first {
		if p.Status == StatusConfirmed {
			t.notifier.Notify(notify.Success, fmt.Sprintf("Transaction confirmed: %s", hash))
		} else {
			t.notifier.Notify(notify.Error, fmt.Sprintf("Transaction failed: %s", hash))
		}
		if t.events != nil {
			t.events.LogEvents(receipt.Logs)
		}
	}
	return final
}

// fail records a terminal failed state for hash (timeout path).
func (t *Tracker) fail(hash, msg string) {
	p := failedProgress(hash, msg)
	if _, first := t.commit(hash, p); first {
		t.log.Warn("transaction tracking gave up", "hash", hash, "err", msg)
		t.notifier.Notify(notify.Error, fmt.Sprintf("Transaction %s: %s", hash, msg))
	}
}

// commit stores the terminal state for hash if none exists yet and delivers
// it to every registered observer, then clears the registration list.
// Returns the winning state and whether this call was the first.
func (t *Tracker) commit(hash string, p Progress) (Progress, bool) {
	t.mu.Lock()
	if final, done := t.terminal[hash]; done {
		t.mu.Unlock()
		return final, false
	}
	t.terminal[hash] = p
	cbs := t.observers[hash]
	delete(t.observers, hash)
	t.mu.Unlock()

	for _, cb := range cbs {
		cb(p)
	}
	if t.history != nil {
		if err := t.history.RecordTransaction(p); err != nil {
			t.log.Warn("recording transaction history failed", "hash", hash, "err", err)
		}
	}
	return p, true
}

// ClearObservers drops all registered observers (disconnect path).
func (t *Tracker) ClearObservers() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = make(map[string][]Callback)
}

// Status returns the last known state for hash.
func (t *Tracker) Status(hash string) (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.terminal[hash]
	return p, ok
}

// EstimateGas returns the provider's gas estimate for cfg.
func (t *Tracker) EstimateGas(ctx context.Context, cfg Config) (uint64, error) {
	signer := t.src.CurrentSigner()
	provider := t.src.CurrentProvider()
	if signer == nil || provider == nil {
		return 0, fmt.Errorf("cannot estimate gas: no active signer")
	}
	return provider.EstimateGas(ctx, wallet.TxRequest{
		From:  signer.Address(),
		To:    cfg.To,
		Value: cfg.Value,
		Data:  cfg.Data,
	})
}

// OptimizeGasPrice returns the best available gas price, preferring the
// EIP-1559 max fee over the legacy gas price.
func (t *Tracker) OptimizeGasPrice(ctx context.Context) (*big.Int, error) {
	provider := t.src.CurrentProvider()
	if provider == nil {
		return nil, fmt.Errorf("cannot fetch gas price: no active provider")
	}
	fd, err := provider.FeeData(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching fee data: %w", err)
	}
	if fd.MaxFeePerGas != nil {
		return fd.MaxFeePerGas, nil
	}
	if fd.GasPrice != nil {
		return fd.GasPrice, nil
	}
	return nil, fmt.Errorf("provider exposes no fee data")
}

func failedProgress(hash, msg string) Progress {
	return Progress{
		Hash:      hash,
		Status:    StatusFailed,
		Timestamp: time.Now().UnixMilli(),
		Error:     msg,
	}
}
