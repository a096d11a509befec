package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebase/tunecli/internal/chain"
	"github.com/tunebase/tunecli/internal/contract"
)

func TestABITableParsesAllContracts(t *testing.T) {
	abis := contract.NewABITable()
	require.NoError(t, abis.Err())

	for _, name := range chain.ContractNames() {
		a, ok := abis.Get(name)
		require.True(t, ok, "missing ABI for %s", name)
		assert.NotEmpty(t, a.Methods, "ABI for %s has no methods", name)
	}

	_, ok := abis.Get("Governance")
	assert.False(t, ok)
}

func TestMusicNFTABISurface(t *testing.T) {
	abis := contract.NewABITable()
	a, ok := abis.Get(chain.ContractMusicNFT)
	require.True(t, ok)

	for _, method := range []string{"mintTrack", "purchase", "listedTokens", "tokensOfOwner", "tokensByArtist", "tokenURI", "trackInfo"} {
		_, found := a.Methods[method]
		assert.True(t, found, "MusicNFT ABI missing %s", method)
	}
	for _, event := range []string{"TrackMinted", "TrackPurchased"} {
		_, found := a.Events[event]
		assert.True(t, found, "MusicNFT ABI missing event %s", event)
	}
}

func TestStakingABISurface(t *testing.T) {
	abis := contract.NewABITable()
	a, ok := abis.Get(chain.ContractStaking)
	require.True(t, ok)

	for _, method := range []string{"stake", "unstake", "claimRewards", "positionsOf"} {
		_, found := a.Methods[method]
		assert.True(t, found, "Staking ABI missing %s", method)
	}

	// stake carries the amount as call value.
	assert.Equal(t, "payable", a.Methods["stake"].StateMutability)
}
