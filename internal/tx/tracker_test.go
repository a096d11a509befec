package tx_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebase/tunecli/internal/chain"
	"github.com/tunebase/tunecli/internal/notify"
	"github.com/tunebase/tunecli/internal/tx"
	"github.com/tunebase/tunecli/internal/wallet"
)

const testAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

// source is a test SignerSource backed by a stub provider.
type source struct {
	mu       sync.Mutex
	provider *wallet.StubProvider
	signer   *wallet.Signer
}

func newSource(p *wallet.StubProvider) *source {
	return &source{provider: p, signer: wallet.NewSigner(testAddr, p)}
}

func (s *source) CurrentProvider() wallet.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.provider == nil {
		return nil
	}
	return s.provider
}

func (s *source) CurrentSigner() *wallet.Signer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signer
}

// memHistory records terminal states in memory.
type memHistory struct {
	mu      sync.Mutex
	records []tx.Progress
}

func (h *memHistory) RecordTransaction(p tx.Progress) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, p)
	return nil
}

func (h *memHistory) all() []tx.Progress {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]tx.Progress{}, h.records...)
}

func confirmedReceipt(block uint64) *chain.TxReceipt {
	return &chain.TxReceipt{
		Status:            1,
		BlockNumber:       block,
		GasUsed:           21_000,
		EffectiveGasPrice: big.NewInt(1_000_000_000),
	}
}

func TestExecuteWithoutSignerReturnsFailedValue(t *testing.T) {
	rec := notify.NewRecorder()
	tracker := tx.NewTracker(nil, rec, &source{})

	p := tracker.Execute(context.Background(), tx.Config{To: testAddr})
	assert.Equal(t, tx.StatusFailed, p.Status)
	assert.Empty(t, p.Hash)
	assert.Contains(t, p.Error, "no active signer")
	assert.Contains(t, rec.Levels(), notify.Error)
}

func TestExecuteSubmissionFailureReturnsFailedValue(t *testing.T) {
	provider := &wallet.StubProvider{
		SendFn: func(context.Context, wallet.TxRequest) (string, error) {
			return "", errors.New("nonce too low")
		},
	}
	rec := notify.NewRecorder()
	tracker := tx.NewTracker(nil, rec, newSource(provider))

	p := tracker.Execute(context.Background(), tx.Config{To: testAddr})
	assert.Equal(t, tx.StatusFailed, p.Status)
	assert.Contains(t, p.Error, "nonce too low")
}

func TestExecuteAndConfirm(t *testing.T) {
	provider := &wallet.StubProvider{
		Block: 12,
		SendFn: func(context.Context, wallet.TxRequest) (string, error) {
			return "0xaaa", nil
		},
		ReceiptFn: func(_ context.Context, hash string) (*chain.TxReceipt, error) {
			return confirmedReceipt(10), nil
		},
	}
	history := &memHistory{}
	tracker := tx.NewTracker(nil, nil, newSource(provider), tx.WithHistory(history))

	p := tracker.Execute(context.Background(), tx.Config{To: testAddr, Value: big.NewInt(1)})
	assert.Equal(t, "0xaaa", p.Hash)

	final, ok := tracker.Status("0xaaa")
	require.True(t, ok)
	assert.Equal(t, tx.StatusConfirmed, final.Status)
	assert.Equal(t, uint64(10), final.BlockNumber)
	assert.Equal(t, uint64(3), final.Confirmations) // blocks 10..12
	assert.Equal(t, "21000", final.GasUsed)

	records := history.all()
	require.Len(t, records, 1)
	assert.Equal(t, tx.StatusConfirmed, records[0].Status)
}

func TestRevertedReceiptIsFailed(t *testing.T) {
	provider := &wallet.StubProvider{
		ReceiptFn: func(context.Context, string) (*chain.TxReceipt, error) {
			return &chain.TxReceipt{Status: 0, BlockNumber: 5}, nil
		},
	}
	tracker := tx.NewTracker(nil, nil, newSource(provider))

	p := tracker.Track(context.Background(), "0xdead", nil)
	assert.Equal(t, tx.StatusFailed, p.Status)
	assert.Equal(t, "transaction reverted", p.Error)
}

func TestTerminalStateIsDeliveredOnceAndSticks(t *testing.T) {
	provider := &wallet.StubProvider{
		Block: 7,
		ReceiptFn: func(context.Context, string) (*chain.TxReceipt, error) {
			return confirmedReceipt(7), nil
		},
	}
	tracker := tx.NewTracker(nil, nil, newSource(provider))

	var mu sync.Mutex
	var seen []tx.Status
	cb := func(p tx.Progress) {
		mu.Lock()
		seen = append(seen, p.Status)
		mu.Unlock()
	}

	first := tracker.Track(context.Background(), "0xbbb", cb)
	assert.Equal(t, tx.StatusConfirmed, first.Status)

	// A late observer gets the stored terminal state immediately, and the
	// stored state never changes.
	second := tracker.Track(context.Background(), "0xbbb", cb)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.BlockNumber, second.BlockNumber)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []tx.Status{tx.StatusConfirmed, tx.StatusConfirmed}, seen)
}

func TestPendingTransactionTimesOut(t *testing.T) {
	provider := &wallet.StubProvider{
		SendFn: func(context.Context, wallet.TxRequest) (string, error) {
			return "0xccc", nil
		},
		// Receipt never appears.
		ReceiptFn: func(context.Context, string) (*chain.TxReceipt, error) {
			return nil, nil
		},
	}
	tracker := tx.NewTracker(nil, nil, newSource(provider),
		tx.WithPollInterval(5*time.Millisecond),
		tx.WithTimeout(30*time.Millisecond))

	done := make(chan tx.Progress, 1)
	tracker.Execute(context.Background(), tx.Config{To: testAddr})
	tracker.Track(context.Background(), "0xccc", func(p tx.Progress) { done <- p })

	select {
	case p := <-done:
		assert.Equal(t, tx.StatusFailed, p.Status)
		assert.Contains(t, p.Error, "timed out")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout state never delivered")
	}
}

func TestEstimateGasRequiresSigner(t *testing.T) {
	tracker := tx.NewTracker(nil, nil, &source{})
	_, err := tracker.EstimateGas(context.Background(), tx.Config{To: testAddr})
	assert.ErrorContains(t, err, "no active signer")
}

func TestOptimizeGasPricePrefersMaxFee(t *testing.T) {
	provider := &wallet.StubProvider{
		Fee: &chain.FeeData{
			GasPrice:     big.NewInt(30),
			MaxFeePerGas: big.NewInt(50),
		},
	}
	tracker := tx.NewTracker(nil, nil, newSource(provider))

	price, err := tracker.OptimizeGasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), price)
}

func TestOptimizeGasPriceFallsBackToLegacy(t *testing.T) {
	provider := &wallet.StubProvider{
		Fee: &chain.FeeData{GasPrice: big.NewInt(30)},
	}
	tracker := tx.NewTracker(nil, nil, newSource(provider))

	price, err := tracker.OptimizeGasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30), price)

	empty := &wallet.StubProvider{Fee: &chain.FeeData{}}
	tracker = tx.NewTracker(nil, nil, newSource(empty))
	_, err = tracker.OptimizeGasPrice(context.Background())
	assert.ErrorContains(t, err, "no fee data")
}
