package contract_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebase/tunecli/internal/chain"
	"github.com/tunebase/tunecli/internal/contract"
	"github.com/tunebase/tunecli/internal/wallet"
)

const testAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

func newBindings(t *testing.T) (*contract.Bindings, *wallet.Signer, *wallet.StubProvider) {
	t.Helper()
	abis := contract.NewABITable()
	require.NoError(t, abis.Err())

	provider := &wallet.StubProvider{}
	signer := wallet.NewSigner(testAddr, provider)
	return contract.NewBindings(nil, chain.NewAddressBook(), abis), signer, provider
}

func TestRebuildBindsDeployedContracts(t *testing.T) {
	b, signer, _ := newBindings(t)

	b.Rebuild(137, signer)
	assert.Equal(t, int64(137), b.ChainID())
	assert.Len(t, b.Names(), 3)
	assert.NotNil(t, b.MusicNFT())
	assert.NotNil(t, b.Platform())
	assert.NotNil(t, b.Staking())
}

func TestRebuildReplacesWholesale(t *testing.T) {
	b, signer, _ := newBindings(t)

	b.Rebuild(137, signer)
	require.NotNil(t, b.Staking())

	// Base has no Staking deployment; the old binding must not survive.
	b.Rebuild(8453, signer)
	assert.Equal(t, int64(8453), b.ChainID())
	assert.Len(t, b.Names(), 2)
	assert.NotNil(t, b.MusicNFT())
	assert.Nil(t, b.Staking())
}

func TestRebuildWithoutSignerClears(t *testing.T) {
	b, signer, _ := newBindings(t)

	b.Rebuild(137, signer)
	require.NotEmpty(t, b.Names())

	b.Rebuild(137, nil)
	assert.Empty(t, b.Names())
	assert.Nil(t, b.MusicNFT())
}

func TestRebuildUnsupportedChainBindsNothing(t *testing.T) {
	b, signer, _ := newBindings(t)

	b.Rebuild(56, signer)
	assert.Empty(t, b.Names())
	assert.Equal(t, int64(56), b.ChainID())
}

func TestClear(t *testing.T) {
	b, signer, _ := newBindings(t)

	b.Rebuild(1, signer)
	require.NotEmpty(t, b.Names())

	b.Clear()
	assert.Empty(t, b.Names())
	assert.Zero(t, b.ChainID())
}

func TestPackUnknownMethodIsSentinel(t *testing.T) {
	b, signer, _ := newBindings(t)
	b.Rebuild(137, signer)

	c := b.Get(chain.ContractMusicNFT)
	require.NotNil(t, c)

	_, err := c.Pack("selfDestruct")
	assert.ErrorIs(t, err, contract.ErrMethodNotFound)
}

func TestCallGoesThroughSigner(t *testing.T) {
	b, signer, provider := newBindings(t)
	b.Rebuild(137, signer)

	nftAddr, _ := chain.NewAddressBook().Deployed(137, chain.ContractMusicNFT)
	provider.CallFn = func(_ context.Context, from, to string, data []byte) ([]byte, error) {
		assert.Equal(t, testAddr, from)
		assert.Equal(t, nftAddr, to)

		a, _ := contract.NewABITable().Get(chain.ContractMusicNFT)
		return a.Methods["tokenURI"].Outputs.Pack("ipfs://QmTune")
	}

	uri, err := b.MusicNFT().TokenURI(context.Background(), big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmTune", uri)
}

func TestPackMintTrackEncodesArgs(t *testing.T) {
	b, signer, _ := newBindings(t)
	b.Rebuild(137, signer)

	data, err := b.MusicNFT().PackMintTrack(testAddr, "ipfs://QmX", big.NewInt(1), big.NewInt(100))
	require.NoError(t, err)

	a, _ := contract.NewABITable().Get(chain.ContractMusicNFT)
	assert.Equal(t, string(a.Methods["mintTrack"].ID), string(data[:4]))
}
