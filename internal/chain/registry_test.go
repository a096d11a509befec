package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookupByName(t *testing.T) {
	reg := NewRegistry()

	n, err := reg.GetByName("polygon")
	require.NoError(t, err)
	assert.Equal(t, int64(137), n.ChainID)
	assert.Equal(t, "POL", n.NativeCurrency)
	assert.False(t, n.Testnet)
}

func TestRegistryLookupByChainID(t *testing.T) {
	reg := NewRegistry()

	n, err := reg.GetByChainID(84532)
	require.NoError(t, err)
	assert.Equal(t, "base-sepolia", n.Name)
	assert.True(t, n.Testnet)
}

func TestRegistryUnknownNetwork(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.GetByName("bitcoin")
	assert.ErrorIs(t, err, ErrNetworkNotFound)

	_, err = reg.GetByChainID(999999)
	assert.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestRegistrySupported(t *testing.T) {
	reg := NewRegistry()
	assert.True(t, reg.Supported(1))
	assert.True(t, reg.Supported(8453))
	assert.False(t, reg.Supported(56))
}

func TestRegistryEveryNetworkHasRPC(t *testing.T) {
	for _, n := range NewRegistry().All() {
		assert.NotEmpty(t, n.RPCs, "network %s has no RPC endpoints", n.Name)
		assert.NotZero(t, n.ChainID, "network %s has no chain id", n.Name)
	}
}

func TestAddressBookDeployments(t *testing.T) {
	book := NewAddressBook()

	// All three contracts live on polygon.
	for _, name := range ContractNames() {
		_, ok := book.Deployed(137, name)
		assert.True(t, ok, "expected %s on polygon", name)
	}

	// Base has no staking deployment.
	_, ok := book.Deployed(8453, ContractStaking)
	assert.False(t, ok)

	// Unknown chain has nothing.
	assert.Empty(t, book.Chain(424242))
}

func TestAddressBookMergeOverrides(t *testing.T) {
	book := NewAddressBook()
	custom := "0x000000000000000000000000000000000000beef"

	book.Merge(map[int64]map[string]string{
		8453:  {ContractStaking: custom},
		31337: {ContractMusicNFT: custom},
	})

	addr, ok := book.Deployed(8453, ContractStaking)
	require.True(t, ok)
	assert.Equal(t, custom, addr)

	addr, ok = book.Deployed(31337, ContractMusicNFT)
	require.True(t, ok)
	assert.Equal(t, custom, addr)

	// Existing entries on other chains are untouched.
	_, ok = book.Deployed(1, ContractStaking)
	assert.True(t, ok)
}
