// Package service is the platform façade: the single entry point the CLI
// and the local HTTP API call. Write operations notify and rethrow; read
// operations degrade to empty results and never error.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tunebase/tunecli/internal/cache"
	"github.com/tunebase/tunecli/internal/contract"
	"github.com/tunebase/tunecli/internal/ipfs"
	"github.com/tunebase/tunecli/internal/notify"
	"github.com/tunebase/tunecli/internal/tx"
	"github.com/tunebase/tunecli/internal/wallet"
)

// Errors.
var (
	ErrNoSigner            = errors.New("no wallet connected")
	ErrContractUnavailable = errors.New("contract not available on this chain")
)

const metadataCacheSize = 256

// NFT is one track as the UI sees it.
type NFT struct {
	TokenID    string       `json:"token_id"`
	Artist     string       `json:"artist"`
	PriceWei   string       `json:"price_wei"`
	RoyaltyBps int64        `json:"royalty_bps"`
	Listed     bool         `json:"listed"`
	URI        string       `json:"uri"`
	Metadata   *NFTMetadata `json:"metadata,omitempty"`
}

// StakingPosition is one staking position as the UI sees it.
type StakingPosition struct {
	ID         string `json:"id"`
	AmountWei  string `json:"amount_wei"`
	UnlockTime int64  `json:"unlock_time"`
	RewardsWei string `json:"rewards_wei"`
}

// MintOptions tunes a mint call.
type MintOptions struct {
	// OnProgress observes the mint transaction's confirmation.
	OnProgress tx.Callback
	// GasLimit overrides gas estimation when non-zero.
	GasLimit uint64
}

// Service is the platform façade.
type Service struct {
	log      *slog.Logger
	notifier notify.Notifier
	wallets  *wallet.Manager
	bindings *contract.Bindings
	tracker  *tx.Tracker
	uploader ipfs.Uploader
	store    *cache.Store // optional
	metaLRU  *lru.Cache[string, *NFTMetadata]
}

// New creates the platform service.
func New(log *slog.Logger, notifier notify.Notifier, wallets *wallet.Manager, bindings *contract.Bindings, tracker *tx.Tracker, uploader ipfs.Uploader, store *cache.Store) *Service {
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	metaLRU, _ := lru.New[string, *NFTMetadata](metadataCacheSize)
	return &Service{
		log:      log,
		notifier: notifier,
		wallets:  wallets,
		bindings: bindings,
		tracker:  tracker,
		uploader: uploader,
		store:    store,
		metaLRU:  metaLRU,
	}
}

// --- write paths ---

// writeFailed routes a mutating operation's pre-submission failure through
// the notifier before returning it, so the toast channel always carries the
// outcome. Failures after submission are reported by the tracker.
func (s *Service) writeFailed(err error) error {
	s.notifier.Notify(notify.Error, err.Error())
	return err
}

// MintMusicNFT uploads the track's assets, then mints the NFT. Any upload
// failure aborts the whole operation; the returned hash is the submitted
// transaction, confirmation happens asynchronously.
func (s *Service) MintMusicNFT(ctx context.Context, meta TrackMetadata, opts *MintOptions) (string, error) {
	signer := s.wallets.CurrentSigner()
	if signer == nil {
		return "", s.writeFailed(ErrNoSigner)
	}
	nft := s.bindings.MusicNFT()
	if nft == nil {
		return "", s.writeFailed(fmt.Errorf("%w: MusicNFT", ErrContractUnavailable))
	}

	priceWei, err := ParseDecimalToWei(meta.Price, NativeDecimals)
	if err != nil {
		return "", s.writeFailed(fmt.Errorf("invalid price: %w", err))
	}
	royaltyBps, err := RoyaltyBasisPoints(meta.RoyaltyPercentage)
	if err != nil {
		return "", s.writeFailed(err)
	}

	audioHash := meta.AudioHash
	if audioHash == "" && meta.AudioFile != nil {
		res, err := s.uploader.Upload(ctx, meta.AudioName, meta.AudioFile)
		if err != nil {
			return "", s.writeFailed(fmt.Errorf("uploading audio: %w", err))
		}
		audioHash = res.Hash
	}
	coverHash := meta.CoverHash
	if coverHash == "" && meta.CoverImage != nil {
		res, err := s.uploader.Upload(ctx, meta.CoverName, meta.CoverImage)
		if err != nil {
			return "", s.writeFailed(fmt.Errorf("uploading cover image: %w", err))
		}
		coverHash = res.Hash
	}

	doc := GenerateNFTMetadata(meta, audioHash, coverHash)
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return "", s.writeFailed(fmt.Errorf("encoding metadata: %w", err))
	}
	docRes, err := s.uploader.Upload(ctx, "metadata.json", bytes.NewReader(docJSON))
	if err != nil {
		return "", s.writeFailed(fmt.Errorf("uploading metadata: %w", err))
	}
	tokenURI := "ipfs://" + docRes.Hash

	data, err := nft.PackMintTrack(signer.Address(), tokenURI, priceWei, royaltyBps)
	if err != nil {
		return "", s.writeFailed(err)
	}

	var gasLimit uint64
	if opts != nil {
		gasLimit = opts.GasLimit
	}
	p := s.tracker.Execute(ctx, tx.Config{To: nft.Address(), Data: data, GasLimit: gasLimit})
	if p.Status == tx.StatusFailed {
		return "", fmt.Errorf("minting track: %s", p.Error)
	}
	if opts != nil && opts.OnProgress != nil {
		s.tracker.Track(ctx, p.Hash, opts.OnProgress)
	}

	if s.store != nil {
		if err := s.store.PutMetadata(tokenURI, doc); err != nil {
			s.log.Warn("caching metadata failed", "uri", tokenURI, "err", err)
		}
	}
	s.metaLRU.Add(tokenURI, doc)
	return p.Hash, nil
}

// PurchaseNFT buys a listed token; price travels as the call's value.
func (s *Service) PurchaseNFT(ctx context.Context, tokenID *big.Int, price string, onProgress tx.Callback) (string, error) {
	if s.wallets.CurrentSigner() == nil {
		return "", s.writeFailed(ErrNoSigner)
	}
	nft := s.bindings.MusicNFT()
	if nft == nil {
		return "", s.writeFailed(fmt.Errorf("%w: MusicNFT", ErrContractUnavailable))
	}

	priceWei, err := ParseDecimalToWei(price, NativeDecimals)
	if err != nil {
		return "", s.writeFailed(fmt.Errorf("invalid price: %w", err))
	}
	data, err := nft.PackPurchase(tokenID)
	if err != nil {
		return "", s.writeFailed(err)
	}

	p := s.tracker.Execute(ctx, tx.Config{To: nft.Address(), Value: priceWei, Data: data})
	if p.Status == tx.StatusFailed {
		return "", fmt.Errorf("purchasing token %s: %s", tokenID, p.Error)
	}
	if onProgress != nil {
		s.tracker.Track(ctx, p.Hash, onProgress)
	}
	return p.Hash, nil
}

// Stake locks amount for lockPeriod seconds and returns the tx hash.
func (s *Service) Stake(ctx context.Context, amount string, lockPeriodSeconds int64) (string, error) {
	staking := s.bindings.Staking()
	if staking == nil {
		err := fmt.Errorf("%w: Staking", ErrContractUnavailable)
		s.notifier.Notify(notify.Error, "Staking is not available on this chain")
		return "", err
	}
	amountWei, err := ParseDecimalToWei(amount, NativeDecimals)
	if err != nil {
		return "", s.writeFailed(fmt.Errorf("invalid amount: %w", err))
	}
	data, err := staking.PackStake(big.NewInt(lockPeriodSeconds))
	if err != nil {
		return "", s.writeFailed(err)
	}

	p := s.tracker.Execute(ctx, tx.Config{To: staking.Address(), Value: amountWei, Data: data})
	if p.Status == tx.StatusFailed {
		return "", fmt.Errorf("staking: %s", p.Error)
	}
	return p.Hash, nil
}

// Unstake withdraws a position.
func (s *Service) Unstake(ctx context.Context, positionID *big.Int) (string, error) {
	staking := s.bindings.Staking()
	if staking == nil {
		err := fmt.Errorf("%w: Staking", ErrContractUnavailable)
		s.notifier.Notify(notify.Error, "Staking is not available on this chain")
		return "", err
	}
	data, err := staking.PackUnstake(positionID)
	if err != nil {
		return "", s.writeFailed(err)
	}
	p := s.tracker.Execute(ctx, tx.Config{To: staking.Address(), Data: data})
	if p.Status == tx.StatusFailed {
		return "", fmt.Errorf("unstaking position %s: %s", positionID, p.Error)
	}
	return p.Hash, nil
}

// ClaimRewards collects accrued rewards for a position.
func (s *Service) ClaimRewards(ctx context.Context, positionID *big.Int) (string, error) {
	staking := s.bindings.Staking()
	if staking == nil {
		err := fmt.Errorf("%w: Staking", ErrContractUnavailable)
		s.notifier.Notify(notify.Error, "Staking is not available on this chain")
		return "", err
	}
	data, err := staking.PackClaimRewards(positionID)
	if err != nil {
		return "", s.writeFailed(err)
	}
	p := s.tracker.Execute(ctx, tx.Config{To: staking.Address(), Data: data})
	if p.Status == tx.StatusFailed {
		return "", fmt.Errorf("claiming rewards for position %s: %s", positionID, p.Error)
	}
	return p.Hash, nil
}

// Vote casts an up/down vote for a track.
func (s *Service) Vote(ctx context.Context, trackID *big.Int, support bool) (string, error) {
	platform := s.bindings.Platform()
	if platform == nil {
		err := fmt.Errorf("%w: Platform", ErrContractUnavailable)
		s.notifier.Notify(notify.Error, "Voting is not available on this chain")
		return "", err
	}
	data, err := platform.PackVote(trackID, support)
	if err != nil {
		return "", s.writeFailed(err)
	}
	p := s.tracker.Execute(ctx, tx.Config{To: platform.Address(), Data: data})
	if p.Status == tx.StatusFailed {
		return "", fmt.Errorf("voting on track %s: %s", trackID, p.Error)
	}
	return p.Hash, nil
}

// --- read paths (never error; degrade to empty) ---

// GetOwnedNFTs lists the tracks owned by address.
func (s *Service) GetOwnedNFTs(ctx context.Context, address string) []NFT {
	nft := s.bindings.MusicNFT()
	if nft == nil {
		return []NFT{}
	}
	ids, err := nft.TokensOfOwner(ctx, address)
	if err != nil {
		s.log.Warn("listing owned tokens failed", "address", address, "err", err)
		return []NFT{}
	}
	return s.collectNFTs(ctx, nft, ids)
}

// GetMarketplaceNFTs lists every track currently for sale.
func (s *Service) GetMarketplaceNFTs(ctx context.Context) []NFT {
	nft := s.bindings.MusicNFT()
	if nft == nil {
		return []NFT{}
	}
	ids, err := nft.ListedTokens(ctx)
	if err != nil {
		s.log.Warn("listing marketplace tokens failed", "err", err)
		return []NFT{}
	}
	return s.collectNFTs(ctx, nft, ids)
}

// GetNFTsByArtist lists the tracks minted by artist.
func (s *Service) GetNFTsByArtist(ctx context.Context, artist string) []NFT {
	nft := s.bindings.MusicNFT()
	if nft == nil {
		return []NFT{}
	}
	ids, err := nft.TokensByArtist(ctx, artist)
	if err != nil {
		s.log.Warn("listing artist tokens failed", "artist", artist, "err", err)
		return []NFT{}
	}
	return s.collectNFTs(ctx, nft, ids)
}

// GetStakingPositions lists address's staking positions. A deployment
// without the query method means "no positions", not an error.
func (s *Service) GetStakingPositions(ctx context.Context, address string) []StakingPosition {
	staking := s.bindings.Staking()
	if staking == nil {
		return []StakingPosition{}
	}
	positions, err := staking.PositionsOf(ctx, address)
	if errors.Is(err, contract.ErrMethodNotFound) {
		return []StakingPosition{}
	}
	if err != nil {
		s.log.Warn("listing staking positions failed", "address", address, "err", err)
		return []StakingPosition{}
	}

	out := make([]StakingPosition, 0, len(positions))
	for _, p := range positions {
		out = append(out, StakingPosition{
			ID:         p.ID.String(),
			AmountWei:  p.Amount.String(),
			UnlockTime: p.UnlockTime.Int64(),
			RewardsWei: p.Rewards.String(),
		})
	}
	return out
}

// VotesFor returns the vote tallies for a track. Read path: degrades to zeros.
func (s *Service) VotesFor(ctx context.Context, trackID *big.Int) (up, down *big.Int) {
	platform := s.bindings.Platform()
	if platform == nil {
		return big.NewInt(0), big.NewInt(0)
	}
	up, down, err := platform.VotesFor(ctx, trackID)
	if err != nil {
		s.log.Warn("reading votes failed", "track", trackID, "err", err)
		return big.NewInt(0), big.NewInt(0)
	}
	return up, down
}

// collectNFTs resolves token ids into NFT records. Per-token failures drop
// the token rather than failing the listing.
func (s *Service) collectNFTs(ctx context.Context, nft *contract.MusicNFTHandle, ids []*big.Int) []NFT {
	out := make([]NFT, 0, len(ids))
	for _, id := range ids {
		info, err := nft.TrackInfo(ctx, id)
		if err != nil {
			s.log.Warn("reading track info failed", "token", id, "err", err)
			continue
		}
		uri, err := nft.TokenURI(ctx, id)
		if err != nil {
			s.log.Warn("reading token URI failed", "token", id, "err", err)
		}

		record := NFT{
			TokenID:    id.String(),
			Artist:     info.Artist,
			Listed:     info.Listed,
			URI:        uri,
			RoyaltyBps: info.RoyaltyBps.Int64(),
		}
		if info.Price != nil {
			record.PriceWei = info.Price.String()
		}
		if uri != "" {
			record.Metadata = s.cachedMetadata(uri)
		}
		out = append(out, record)
	}
	return out
}

// cachedMetadata returns the locally known metadata document for uri, if any.
func (s *Service) cachedMetadata(uri string) *NFTMetadata {
	if doc, ok := s.metaLRU.Get(uri); ok {
		return doc
	}
	if s.store == nil {
		return nil
	}
	var doc NFTMetadata
	if err := s.store.GetMetadata(uri, &doc); err != nil {
		return nil
	}
	s.metaLRU.Add(uri, &doc)
	return &doc
}
