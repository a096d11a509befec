package wallet_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebase/tunecli/internal/wallet"
)

// Anvil's first well-known dev key. Safe to embed: it is public test data.
const devKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestInMemoryKeystoreRoundTrip(t *testing.T) {
	ks := wallet.NewInMemoryKeystore()

	ref, err := ks.Store("metamask", devKey)
	require.NoError(t, err)

	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, devKey, got)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
}

func TestLocalProviderDerivesAddressFromKey(t *testing.T) {
	ks := wallet.NewInMemoryKeystore()
	_, err := ks.Store("metamask", devKey)
	require.NoError(t, err)

	p := wallet.NewLocalProvider("http://127.0.0.1:8545", "metamask", ks)
	accounts, err := p.RequestAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", accounts[0])
}

func TestLocalProviderRevokedKeyMeansNoAccounts(t *testing.T) {
	ks := wallet.NewInMemoryKeystore()

	p := wallet.NewLocalProvider("http://127.0.0.1:8545", "metamask", ks)
	accounts, err := p.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
}
