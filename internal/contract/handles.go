package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Typed handles over the bound contracts. Each exposes only the methods the
// platform service actually calls, so a signature drift fails at compile
// time instead of at call time.

// --- MusicNFT ---

// MusicNFTHandle wraps the bound MusicNFT contract.
type MusicNFTHandle struct {
	c *BoundContract
}

// Address returns the deployed address.
func (h *MusicNFTHandle) Address() string { return h.c.Address }

// TrackInfo is the on-chain record for one token. The metadata URI lives
// behind the separate tokenURI call.
type TrackInfo struct {
	TokenID    *big.Int
	Artist     string
	Price      *big.Int
	RoyaltyBps *big.Int
	Listed     bool
}

// PackMintTrack encodes a mintTrack call.
func (h *MusicNFTHandle) PackMintTrack(artist, uri string, price, royaltyBps *big.Int) ([]byte, error) {
	return h.c.Pack("mintTrack", common.HexToAddress(artist), uri, price, royaltyBps)
}

// PackPurchase encodes a purchase call. The price travels as call value.
func (h *MusicNFTHandle) PackPurchase(tokenID *big.Int) ([]byte, error) {
	return h.c.Pack("purchase", tokenID)
}

// TokensOfOwner returns the token ids held by owner.
func (h *MusicNFTHandle) TokensOfOwner(ctx context.Context, owner string) ([]*big.Int, error) {
	out, err := h.c.Call(ctx, "tokensOfOwner", common.HexToAddress(owner))
	if err != nil {
		return nil, err
	}
	return bigSlice(out, 0)
}

// TokensByArtist returns the token ids minted by artist.
func (h *MusicNFTHandle) TokensByArtist(ctx context.Context, artist string) ([]*big.Int, error) {
	out, err := h.c.Call(ctx, "tokensByArtist", common.HexToAddress(artist))
	if err != nil {
		return nil, err
	}
	return bigSlice(out, 0)
}

// ListedTokens returns every token currently listed on the marketplace.
func (h *MusicNFTHandle) ListedTokens(ctx context.Context) ([]*big.Int, error) {
	out, err := h.c.Call(ctx, "listedTokens")
	if err != nil {
		return nil, err
	}
	return bigSlice(out, 0)
}

// TokenURI returns the metadata URI for a token.
func (h *MusicNFTHandle) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	out, err := h.c.Call(ctx, "tokenURI", tokenID)
	if err != nil {
		return "", err
	}
	s, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected tokenURI result: %T", out[0])
	}
	return s, nil
}

// TrackInfo returns the on-chain record for a token.
func (h *MusicNFTHandle) TrackInfo(ctx context.Context, tokenID *big.Int) (*TrackInfo, error) {
	out, err := h.c.Call(ctx, "trackInfo", tokenID)
	if err != nil {
		return nil, err
	}
	if len(out) != 4 {
		return nil, fmt.Errorf("unexpected trackInfo arity: %d", len(out))
	}
	artist, _ := out[0].(common.Address)
	price, _ := out[1].(*big.Int)
	royalty, _ := out[2].(*big.Int)
	listed, _ := out[3].(bool)
	return &TrackInfo{
		TokenID:    tokenID,
		Artist:     artist.Hex(),
		Price:      price,
		RoyaltyBps: royalty,
		Listed:     listed,
	}, nil
}

// --- Platform ---

// PlatformHandle wraps the bound Platform contract.
type PlatformHandle struct {
	c *BoundContract
}

// Address returns the deployed address.
func (h *PlatformHandle) Address() string { return h.c.Address }

// PackVote encodes a vote call.
func (h *PlatformHandle) PackVote(trackID *big.Int, support bool) ([]byte, error) {
	return h.c.Pack("vote", trackID, support)
}

// VotesFor returns the up/down tallies for a track.
func (h *PlatformHandle) VotesFor(ctx context.Context, trackID *big.Int) (up, down *big.Int, err error) {
	out, err := h.c.Call(ctx, "votesFor", trackID)
	if err != nil {
		return nil, nil, err
	}
	if len(out) != 2 {
		return nil, nil, fmt.Errorf("unexpected votesFor arity: %d", len(out))
	}
	up, _ = out[0].(*big.Int)
	down, _ = out[1].(*big.Int)
	return up, down, nil
}

// --- Staking ---

// StakingHandle wraps the bound Staking contract.
type StakingHandle struct {
	c *BoundContract
}

// Address returns the deployed address.
func (h *StakingHandle) Address() string { return h.c.Address }

// Position is one staking position.
type Position struct {
	ID         *big.Int
	Amount     *big.Int
	UnlockTime *big.Int
	Rewards    *big.Int
}

// PackStake encodes a stake call. The staked amount travels as call value.
func (h *StakingHandle) PackStake(lockPeriod *big.Int) ([]byte, error) {
	return h.c.Pack("stake", lockPeriod)
}

// PackUnstake encodes an unstake call.
func (h *StakingHandle) PackUnstake(positionID *big.Int) ([]byte, error) {
	return h.c.Pack("unstake", positionID)
}

// PackClaimRewards encodes a claimRewards call.
func (h *StakingHandle) PackClaimRewards(positionID *big.Int) ([]byte, error) {
	return h.c.Pack("claimRewards", positionID)
}

// PositionsOf returns owner's staking positions. A deployment without the
// query method surfaces ErrMethodNotFound, which callers treat as "no
// positions".
func (h *StakingHandle) PositionsOf(ctx context.Context, owner string) ([]Position, error) {
	out, err := h.c.Call(ctx, "positionsOf", common.HexToAddress(owner))
	if err != nil {
		return nil, err
	}
	if len(out) != 4 {
		return nil, fmt.Errorf("unexpected positionsOf arity: %d", len(out))
	}
	ids, err := bigSlice(out, 0)
	if err != nil {
		return nil, err
	}
	amounts, err := bigSlice(out, 1)
	if err != nil {
		return nil, err
	}
	unlocks, err := bigSlice(out, 2)
	if err != nil {
		return nil, err
	}
	rewards, err := bigSlice(out, 3)
	if err != nil {
		return nil, err
	}
	if len(amounts) != len(ids) || len(unlocks) != len(ids) || len(rewards) != len(ids) {
		return nil, fmt.Errorf("positionsOf arrays out of sync")
	}

	positions := make([]Position, len(ids))
	for i := range ids {
		positions[i] = Position{
			ID:         ids[i],
			Amount:     amounts[i],
			UnlockTime: unlocks[i],
			Rewards:    rewards[i],
		}
	}
	return positions, nil
}

func bigSlice(out []interface{}, idx int) ([]*big.Int, error) {
	if idx >= len(out) {
		return nil, fmt.Errorf("missing output %d", idx)
	}
	s, ok := out[idx].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected output type: %T", out[idx])
	}
	return s, nil
}
