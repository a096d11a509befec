package service_test

import (
	"context"
	"errors"
	"io"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebase/tunecli/internal/chain"
	"github.com/tunebase/tunecli/internal/contract"
	"github.com/tunebase/tunecli/internal/ipfs"
	"github.com/tunebase/tunecli/internal/notify"
	"github.com/tunebase/tunecli/internal/service"
	"github.com/tunebase/tunecli/internal/tx"
	"github.com/tunebase/tunecli/internal/wallet"
)

const (
	testAddr   = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	artistAddr = "0x1111111111111111111111111111111111111111"
)

// fakeUploader hands out sequential hashes and records what was uploaded.
type fakeUploader struct {
	mu    sync.Mutex
	names []string
	err   error
	n     int
}

func (u *fakeUploader) Upload(_ context.Context, name string, r io.Reader) (*ipfs.AddResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return nil, u.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	u.n++
	u.names = append(u.names, name)
	return &ipfs.AddResult{Hash: "Qm" + name, Size: 1}, nil
}

func (u *fakeUploader) uploaded() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string{}, u.names...)
}

type fixture struct {
	svc      *service.Service
	provider *wallet.StubProvider
	uploader *fakeUploader
	notifier *notify.Recorder
	sent     *[]wallet.TxRequest
}

// newFixture wires a service against a stub provider on the given chain.
// Contract reads are answered by dispatch, writes are captured in sent.
func newFixture(t *testing.T, chainID int64, dispatch func(method string, data []byte) []byte) *fixture {
	t.Helper()

	var mu sync.Mutex
	sent := []wallet.TxRequest{}

	abis := contract.NewABITable()
	require.NoError(t, abis.Err())

	provider := &wallet.StubProvider{
		Accounts: []string{testAddr},
		Chain:    chainID,
		SendFn: func(_ context.Context, req wallet.TxRequest) (string, error) {
			mu.Lock()
			sent = append(sent, req)
			mu.Unlock()
			return "0xhash1", nil
		},
		ReceiptFn: func(context.Context, string) (*chain.TxReceipt, error) {
			return &chain.TxReceipt{Status: 1, BlockNumber: 1}, nil
		},
	}
	if dispatch != nil {
		provider.CallFn = func(_ context.Context, _, _ string, data []byte) ([]byte, error) {
			if name := methodBySelector(t, data); name != "" {
				if out := dispatch(name, data); out != nil {
					return out, nil
				}
			}
			return nil, errors.New("unexpected call")
		}
	}

	rec := notify.NewRecorder()
	mgr := wallet.NewManager(nil, rec)
	mgr.RegisterProvider(wallet.TypeMetaMask, func() (wallet.Provider, error) {
		return provider, nil
	})

	bindings := contract.NewBindings(nil, chain.NewAddressBook(), abis)
	mgr.SetRebindHook(bindings.Rebuild)

	_, err := mgr.Connect(context.Background(), wallet.TypeMetaMask)
	require.NoError(t, err)

	tracker := tx.NewTracker(nil, rec, mgr)
	uploader := &fakeUploader{}
	svc := service.New(nil, rec, mgr, bindings, tracker, uploader, nil)

	return &fixture{svc: svc, provider: provider, uploader: uploader, notifier: rec, sent: &sent}
}

// methodBySelector resolves a calldata selector to a method name across all
// platform ABIs.
func methodBySelector(t *testing.T, data []byte) string {
	t.Helper()
	if len(data) < 4 {
		return ""
	}
	abis := contract.NewABITable()
	for _, name := range chain.ContractNames() {
		a, ok := abis.Get(name)
		require.True(t, ok)
		for _, m := range a.Methods {
			if string(m.ID) == string(data[:4]) {
				return m.Name
			}
		}
	}
	return ""
}

// packOutputs ABI-encodes return values for a method.
func packOutputs(t *testing.T, contractName, method string, vals ...interface{}) []byte {
	t.Helper()
	abis := contract.NewABITable()
	a, ok := abis.Get(contractName)
	require.True(t, ok)
	m, ok := a.Methods[method]
	require.True(t, ok)
	out, err := m.Outputs.Pack(vals...)
	require.NoError(t, err)
	return out
}

func TestMintMusicNFTUploadsAndSubmits(t *testing.T) {
	f := newFixture(t, 137, nil)

	hash, err := f.svc.MintMusicNFT(context.Background(), service.TrackMetadata{
		Title:             "Midnight",
		Artist:            testAddr,
		Genre:             "electronic",
		Price:             "0.05",
		RoyaltyPercentage: 10,
		AudioFile:         strings.NewReader("audio-bytes"),
		AudioName:         "midnight.mp3",
		CoverImage:        strings.NewReader("cover-bytes"),
		CoverName:         "cover.png",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "0xhash1", hash)

	// Audio, cover, then the metadata document.
	assert.Equal(t, []string{"midnight.mp3", "cover.png", "metadata.json"}, f.uploader.uploaded())

	require.Len(t, *f.sent, 1)
	req := (*f.sent)[0]

	book := chain.NewAddressBook()
	nftAddr, _ := book.Deployed(137, chain.ContractMusicNFT)
	assert.Equal(t, nftAddr, req.To)

	// Decode the calldata and check price and royalty made it through intact.
	abis := contract.NewABITable()
	a, _ := abis.Get(chain.ContractMusicNFT)
	m := a.Methods["mintTrack"]
	assert.Equal(t, string(m.ID), string(req.Data[:4]))

	args, err := m.Inputs.Unpack(req.Data[4:])
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testAddr), args[0])
	assert.Equal(t, "ipfs://Qmmetadata.json", args[1])
	assert.Equal(t, "50000000000000000", args[2].(*big.Int).String()) // 0.05 in wei
	assert.Equal(t, int64(100), args[3].(*big.Int).Int64())           // 10% -> 100
}

// errorNotifiedSince reports whether an error-level notification was
// recorded after the first n calls.
func errorNotifiedSince(rec *notify.Recorder, n int) bool {
	for _, c := range rec.Calls()[n:] {
		if c.Level == notify.Error {
			return true
		}
	}
	return false
}

func TestMintAbortsWhenUploadFails(t *testing.T) {
	f := newFixture(t, 137, nil)
	f.uploader.err = errors.New("node unreachable")
	before := len(f.notifier.Calls())

	_, err := f.svc.MintMusicNFT(context.Background(), service.TrackMetadata{
		Title:             "Midnight",
		Price:             "0.05",
		RoyaltyPercentage: 10,
		AudioFile:         strings.NewReader("audio-bytes"),
		AudioName:         "midnight.mp3",
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uploading audio")
	assert.Empty(t, *f.sent) // nothing reached the chain
	// The aborted mint still surfaces through the notification channel.
	assert.True(t, errorNotifiedSince(f.notifier, before))
}

func TestMintWithoutWalletFails(t *testing.T) {
	f := newFixture(t, 137, nil)
	// Simulate a revoked session.
	f.provider.EmitAccountsChanged(nil)
	before := len(f.notifier.Calls())

	_, err := f.svc.MintMusicNFT(context.Background(), service.TrackMetadata{
		Title: "Midnight",
		Price: "0.05",
	}, nil)
	assert.ErrorIs(t, err, service.ErrNoSigner)
	assert.True(t, errorNotifiedSince(f.notifier, before))
}

func TestMintRejectsRoyaltyOutOfRange(t *testing.T) {
	f := newFixture(t, 137, nil)
	before := len(f.notifier.Calls())

	_, err := f.svc.MintMusicNFT(context.Background(), service.TrackMetadata{
		Title:             "Midnight",
		Price:             "0.05",
		RoyaltyPercentage: 60,
	}, nil)
	require.Error(t, err)
	assert.Empty(t, *f.sent)
	assert.True(t, errorNotifiedSince(f.notifier, before))
}

func TestPurchaseInvalidPriceNotifies(t *testing.T) {
	f := newFixture(t, 137, nil)
	before := len(f.notifier.Calls())

	_, err := f.svc.PurchaseNFT(context.Background(), big.NewInt(7), "abc", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid price")
	assert.Empty(t, *f.sent)
	assert.True(t, errorNotifiedSince(f.notifier, before))
}

func TestStakeInvalidAmountNotifies(t *testing.T) {
	f := newFixture(t, 137, nil)
	before := len(f.notifier.Calls())

	_, err := f.svc.Stake(context.Background(), "-1", 3600)
	require.Error(t, err)
	assert.Empty(t, *f.sent)
	assert.True(t, errorNotifiedSince(f.notifier, before))
}

func TestPurchaseSendsPriceAsValue(t *testing.T) {
	f := newFixture(t, 137, nil)

	hash, err := f.svc.PurchaseNFT(context.Background(), big.NewInt(7), "1.5", nil)
	require.NoError(t, err)
	assert.Equal(t, "0xhash1", hash)

	require.Len(t, *f.sent, 1)
	req := (*f.sent)[0]
	assert.Equal(t, "1500000000000000000", req.Value.String())
}

func TestMarketplaceListing(t *testing.T) {
	f := newFixture(t, 137, func(method string, _ []byte) []byte {
		switch method {
		case "listedTokens":
			return packOutputs(t, chain.ContractMusicNFT, "listedTokens",
				[]*big.Int{big.NewInt(1), big.NewInt(2)})
		case "trackInfo":
			return packOutputs(t, chain.ContractMusicNFT, "trackInfo",
				common.HexToAddress(artistAddr), big.NewInt(5e16), big.NewInt(100), true)
		case "tokenURI":
			return packOutputs(t, chain.ContractMusicNFT, "tokenURI", "ipfs://QmX")
		}
		return nil
	})

	nfts := f.svc.GetMarketplaceNFTs(context.Background())
	require.Len(t, nfts, 2)
	assert.Equal(t, "1", nfts[0].TokenID)
	assert.Equal(t, common.HexToAddress(artistAddr).Hex(), nfts[0].Artist)
	assert.Equal(t, "50000000000000000", nfts[0].PriceWei)
	assert.Equal(t, int64(100), nfts[0].RoyaltyBps)
	assert.True(t, nfts[0].Listed)
	assert.Equal(t, "ipfs://QmX", nfts[0].URI)
}

func TestReadPathsDegradeToEmpty(t *testing.T) {
	// Every contract call errors.
	f := newFixture(t, 137, func(string, []byte) []byte { return nil })

	assert.Empty(t, f.svc.GetMarketplaceNFTs(context.Background()))
	assert.Empty(t, f.svc.GetOwnedNFTs(context.Background(), testAddr))
	assert.Empty(t, f.svc.GetNFTsByArtist(context.Background(), artistAddr))
	assert.Empty(t, f.svc.GetStakingPositions(context.Background(), testAddr))

	up, down := f.svc.VotesFor(context.Background(), big.NewInt(1))
	assert.Equal(t, int64(0), up.Int64())
	assert.Equal(t, int64(0), down.Int64())
}

func TestStakingUnavailableOnChainWithoutDeployment(t *testing.T) {
	// Base has no Staking deployment.
	f := newFixture(t, 8453, nil)

	assert.Empty(t, f.svc.GetStakingPositions(context.Background(), testAddr))

	_, err := f.svc.Stake(context.Background(), "1.0", 3600)
	assert.ErrorIs(t, err, service.ErrContractUnavailable)
	assert.Contains(t, f.notifier.Levels(), notify.Error)
}

func TestStakingPositions(t *testing.T) {
	f := newFixture(t, 137, func(method string, _ []byte) []byte {
		if method == "positionsOf" {
			return packOutputs(t, chain.ContractStaking, "positionsOf",
				[]*big.Int{big.NewInt(1)},
				[]*big.Int{big.NewInt(1e18)},
				[]*big.Int{big.NewInt(1_900_000_000)},
				[]*big.Int{big.NewInt(42)})
		}
		return nil
	})

	positions := f.svc.GetStakingPositions(context.Background(), testAddr)
	require.Len(t, positions, 1)
	assert.Equal(t, "1", positions[0].ID)
	assert.Equal(t, "1000000000000000000", positions[0].AmountWei)
	assert.Equal(t, int64(1_900_000_000), positions[0].UnlockTime)
	assert.Equal(t, "42", positions[0].RewardsWei)
}

func TestStakeSendsAmountAsValue(t *testing.T) {
	f := newFixture(t, 137, nil)

	hash, err := f.svc.Stake(context.Background(), "2", 86400)
	require.NoError(t, err)
	assert.Equal(t, "0xhash1", hash)

	require.Len(t, *f.sent, 1)
	req := (*f.sent)[0]
	assert.Equal(t, "2000000000000000000", req.Value.String())

	book := chain.NewAddressBook()
	stakingAddr, _ := book.Deployed(137, chain.ContractStaking)
	assert.Equal(t, stakingAddr, req.To)
}

func TestVote(t *testing.T) {
	f := newFixture(t, 137, func(method string, _ []byte) []byte {
		if method == "votesFor" {
			return packOutputs(t, chain.ContractPlatform, "votesFor", big.NewInt(12), big.NewInt(3))
		}
		return nil
	})

	hash, err := f.svc.Vote(context.Background(), big.NewInt(42), true)
	require.NoError(t, err)
	assert.Equal(t, "0xhash1", hash)

	up, down := f.svc.VotesFor(context.Background(), big.NewInt(42))
	assert.Equal(t, int64(12), up.Int64())
	assert.Equal(t, int64(3), down.Int64())
}
