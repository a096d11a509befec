package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebase/tunecli/internal/cache"
)

type record struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
}

func openStore(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	return s
}

func TestTransactionRoundTrip(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.PutTransaction("0xaaa", record{Hash: "0xaaa", Status: "confirmed"}))

	var got record
	require.NoError(t, s.GetTransaction("0xaaa", &got))
	assert.Equal(t, "confirmed", got.Status)
}

func TestGetMissingKey(t *testing.T) {
	s := openStore(t)

	var got record
	err := s.GetTransaction("0xmissing", &got)
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestTransactionsListsOnlyTransactions(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.PutTransaction("0xaaa", record{Hash: "0xaaa"}))
	require.NoError(t, s.PutTransaction("0xbbb", record{Hash: "0xbbb"}))
	require.NoError(t, s.PutMetadata("ipfs://QmX", map[string]string{"name": "Midnight"}))

	raws, err := s.Transactions()
	require.NoError(t, err)
	assert.Len(t, raws, 2)
}

func TestMetadataRoundTrip(t *testing.T) {
	s := openStore(t)

	doc := map[string]string{"name": "Midnight", "image": "ipfs://QmC"}
	require.NoError(t, s.PutMetadata("ipfs://QmX", doc))

	var got map[string]string
	require.NoError(t, s.GetMetadata("ipfs://QmX", &got))
	assert.Equal(t, doc, got)
}
