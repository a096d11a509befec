// Package api exposes the platform service over a local HTTP API, used by
// the desktop player and by scripts.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tunebase/tunecli/internal/app"
)

// Server is the local HTTP API.
type Server struct {
	app *app.App
	log *slog.Logger
}

// NewServer creates the API server around an assembled app.
func NewServer(a *app.App) *Server {
	return &Server{app: a, log: a.Log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		v1.GET("/networks", s.listNetworks)
		v1.GET("/wallet", s.walletStatus)
		v1.POST("/wallet/connect", s.walletConnect)
		v1.POST("/wallet/disconnect", s.walletDisconnect)
		v1.POST("/wallet/switch", s.walletSwitch)

		v1.GET("/market", s.marketplace)
		v1.GET("/nfts", s.ownedNFTs)
		v1.GET("/artists/:address/nfts", s.artistNFTs)
		v1.POST("/mint", s.mint)
		v1.POST("/purchase", s.purchase)

		v1.POST("/stake", s.stake)
		v1.POST("/unstake", s.unstake)
		v1.POST("/rewards/claim", s.claimRewards)
		v1.GET("/staking/positions", s.stakingPositions)

		v1.POST("/votes", s.vote)
		v1.GET("/votes/:track", s.votesFor)

		v1.GET("/tx/:hash", s.txStatus)
		v1.GET("/tx", s.txHistory)
	}

	return r
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info("api listening", "addr", addr)
	return s.Router().Run(addr)
}

// requestLog logs each request at debug level.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status())
	}
}
