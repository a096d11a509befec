package api

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tunebase/tunecli/internal/service"
	"github.com/tunebase/tunecli/internal/tx"
	"github.com/tunebase/tunecli/internal/wallet"
)

func (s *Server) listNetworks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"networks": s.app.Networks.All(), "current": s.app.Network().Name})
}

func (s *Server) walletStatus(c *gin.Context) {
	conn := s.app.Wallets.Active()
	if conn == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"connected": true,
		"type":      conn.Type,
		"address":   conn.Address,
		"chain_id":  conn.ChainID,
		"contracts": s.app.Bindings.Names(),
	})
}

func (s *Server) walletConnect(c *gin.Context) {
	var req struct {
		Type string `json:"type"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := wallet.ParseWalletType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conn, err := s.app.Wallets.Connect(c.Request.Context(), t)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": conn.Type, "address": conn.Address, "chain_id": conn.ChainID})
}

func (s *Server) walletDisconnect(c *gin.Context) {
	s.app.Wallets.Disconnect()
	c.JSON(http.StatusOK, gin.H{"connected": false})
}

func (s *Server) walletSwitch(c *gin.Context) {
	var req struct {
		Type string `json:"type"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := wallet.ParseWalletType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.app.Wallets.SwitchWallet(t); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": t})
}

func (s *Server) marketplace(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"nfts": s.app.Service.GetMarketplaceNFTs(c.Request.Context())})
}

func (s *Server) ownedNFTs(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		if conn := s.app.Wallets.Active(); conn != nil {
			owner = conn.Address
		}
	}
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner required when no wallet is connected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": owner, "nfts": s.app.Service.GetOwnedNFTs(c.Request.Context(), owner)})
}

func (s *Server) artistNFTs(c *gin.Context) {
	artist := c.Param("address")
	c.JSON(http.StatusOK, gin.H{"artist": artist, "nfts": s.app.Service.GetNFTsByArtist(c.Request.Context(), artist)})
}

func (s *Server) mint(c *gin.Context) {
	var req struct {
		Title             string `json:"title"`
		Artist            string `json:"artist"`
		Genre             string `json:"genre"`
		Description       string `json:"description"`
		Duration          int    `json:"duration"`
		Price             string `json:"price"`
		RoyaltyPercentage int    `json:"royalty_percentage"`
		AudioHash         string `json:"audio_hash"`
		CoverHash         string `json:"cover_hash"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Asset uploads happen client-side; the API takes content hashes only.
	hash, err := s.app.Service.MintMusicNFT(c.Request.Context(), service.TrackMetadata{
		Title:             req.Title,
		Artist:            req.Artist,
		Genre:             req.Genre,
		Description:       req.Description,
		Duration:          req.Duration,
		Price:             req.Price,
		RoyaltyPercentage: req.RoyaltyPercentage,
		AudioHash:         req.AudioHash,
		CoverHash:         req.CoverHash,
	}, nil)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"hash": hash})
}

func (s *Server) purchase(c *gin.Context) {
	var req struct {
		TokenID string `json:"token_id"`
		Price   string `json:"price"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tokenID, ok := new(big.Int).SetString(req.TokenID, 10)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token_id"})
		return
	}
	hash, err := s.app.Service.PurchaseNFT(c.Request.Context(), tokenID, req.Price, nil)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"hash": hash})
}

func (s *Server) stake(c *gin.Context) {
	var req struct {
		Amount      string `json:"amount"`
		LockSeconds int64  `json:"lock_seconds"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hash, err := s.app.Service.Stake(c.Request.Context(), req.Amount, req.LockSeconds)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"hash": hash})
}

func (s *Server) unstake(c *gin.Context) {
	s.positionOp(c, s.app.Service.Unstake)
}

func (s *Server) claimRewards(c *gin.Context) {
	s.positionOp(c, s.app.Service.ClaimRewards)
}

func (s *Server) stakingPositions(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		if conn := s.app.Wallets.Active(); conn != nil {
			address = conn.Address
		}
	}
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address required when no wallet is connected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"address":   address,
		"positions": s.app.Service.GetStakingPositions(c.Request.Context(), address),
	})
}

func (s *Server) vote(c *gin.Context) {
	var req struct {
		TrackID string `json:"track_id"`
		Support bool   `json:"support"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	trackID, ok := new(big.Int).SetString(req.TrackID, 10)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid track_id"})
		return
	}
	hash, err := s.app.Service.Vote(c.Request.Context(), trackID, req.Support)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"hash": hash})
}

func (s *Server) votesFor(c *gin.Context) {
	trackID, ok := new(big.Int).SetString(c.Param("track"), 10)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid track id"})
		return
	}
	up, down := s.app.Service.VotesFor(c.Request.Context(), trackID)
	c.JSON(http.StatusOK, gin.H{"track_id": trackID.String(), "up": up.String(), "down": down.String()})
}

func (s *Server) txStatus(c *gin.Context) {
	hash := c.Param("hash")
	if p, ok := s.app.Tracker.Status(hash); ok {
		c.JSON(http.StatusOK, p)
		return
	}
	if store := s.app.Store(); store != nil {
		var p tx.Progress
		if err := store.GetTransaction(hash, &p); err == nil {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "unknown transaction"})
}

func (s *Server) txHistory(c *gin.Context) {
	store := s.app.Store()
	if store == nil {
		c.JSON(http.StatusOK, gin.H{"transactions": []tx.Progress{}})
		return
	}
	raws, err := store.Transactions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]json.RawMessage, 0, len(raws))
	for _, raw := range raws {
		out = append(out, json.RawMessage(raw))
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out})
}

// positionOp handles the unstake and claim endpoints, which share a body.
func (s *Server) positionOp(c *gin.Context, fn func(ctx context.Context, id *big.Int) (string, error)) {
	var req struct {
		PositionID string `json:"position_id"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, ok := new(big.Int).SetString(req.PositionID, 10)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid position_id"})
		return
	}
	hash, err := fn(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"hash": hash})
}
