// Package app wires the application together. Every dependency lives on an
// explicit App value that callers construct and pass around; there is no
// package-level singleton.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tunebase/tunecli/internal/cache"
	"github.com/tunebase/tunecli/internal/chain"
	"github.com/tunebase/tunecli/internal/config"
	"github.com/tunebase/tunecli/internal/contract"
	"github.com/tunebase/tunecli/internal/ipfs"
	"github.com/tunebase/tunecli/internal/notify"
	"github.com/tunebase/tunecli/internal/service"
	"github.com/tunebase/tunecli/internal/tx"
	"github.com/tunebase/tunecli/internal/wallet"
)

// App is the assembled application: configuration, chain metadata, wallet
// manager, contract bindings, transaction tracker and the platform service.
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Notifier notify.Notifier

	Networks *chain.Registry
	Book     *chain.AddressBook
	Wallets  *wallet.Manager
	Bindings *contract.Bindings
	Tracker  *tx.Tracker
	Service  *service.Service

	store   *cache.Store
	network *chain.Network
}

// New assembles the application from cfg. The cache store is best effort: a
// failure to open it degrades history and metadata caching, not the app.
func New(cfg *config.Config, log *slog.Logger, notifier notify.Notifier) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}

	registry := chain.NewRegistry()
	network, err := registry.GetByName(cfg.DefaultNetwork)
	if err != nil {
		return nil, fmt.Errorf("default network: %w", err)
	}

	book := chain.NewAddressBook()
	book.Merge(parseOverrides(cfg.ContractOverrides))

	abis := contract.NewABITable()
	if err := abis.Err(); err != nil {
		return nil, fmt.Errorf("parsing contract ABIs: %w", err)
	}

	bindings := contract.NewBindings(log, book, abis)
	wallets := wallet.NewManager(log, notifier)

	a := &App{
		Config:   cfg,
		Log:      log,
		Notifier: notifier,
		Networks: registry,
		Book:     book,
		Wallets:  wallets,
		Bindings: bindings,
		network:  network,
	}

	keys := wallet.DefaultKeystore()
	for _, t := range []wallet.WalletType{wallet.TypeMetaMask, wallet.TypeWalletConnect, wallet.TypeCoinbase} {
		t := t
		wallets.RegisterProvider(t, func() (wallet.Provider, error) {
			return wallet.NewLocalProvider(a.RPCURL(), cfg.KeyRef(string(t)), keys), nil
		})
	}

	wallets.SetRebindHook(bindings.Rebuild)

	store, err := cache.Open(cfg.CachePath())
	if err != nil {
		log.Warn("opening cache failed, continuing without history", "err", err)
	} else {
		a.store = store
	}

	trackerOpts := []tx.Option{tx.WithEventSink(bindings)}
	if cfg.TxPollSeconds > 0 {
		trackerOpts = append(trackerOpts, tx.WithPollInterval(time.Duration(cfg.TxPollSeconds)*time.Second))
	}
	if cfg.TxTimeoutSeconds > 0 {
		trackerOpts = append(trackerOpts, tx.WithTimeout(time.Duration(cfg.TxTimeoutSeconds)*time.Second))
	}
	if a.store != nil {
		trackerOpts = append(trackerOpts, tx.WithHistory(&historySink{store: a.store}))
	}
	a.Tracker = tx.NewTracker(log, notifier, wallets, trackerOpts...)

	wallets.SetDisconnectHook(func() {
		bindings.Clear()
		a.Tracker.ClearObservers()
	})

	uploader := ipfs.NewClient(cfg.IPFSURL)
	a.Service = service.New(log, notifier, wallets, bindings, a.Tracker, uploader, a.store)
	return a, nil
}

// Network returns the currently selected network.
func (a *App) Network() *chain.Network {
	return a.network
}

// RPCURL returns the RPC endpoint for the current network, preferring the
// user's custom RPCs over the built-in ones.
func (a *App) RPCURL() string {
	urls := a.Config.RPCs(a.network.Name, a.network.RPCs)
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// UseNetwork switches the selected network. An active local provider is
// re-pointed at the new endpoint, which fires the chain-changed path and
// rebuilds the bindings.
func (a *App) UseNetwork(ctx context.Context, name string) error {
	network, err := a.Networks.GetByName(name)
	if err != nil {
		return err
	}
	a.network = network

	if lp, ok := a.Wallets.CurrentProvider().(*wallet.LocalProvider); ok {
		if err := lp.SwitchEndpoint(ctx, a.RPCURL()); err != nil {
			return fmt.Errorf("switching to %s: %w", name, err)
		}
	}
	return nil
}

// Store returns the cache store, or nil when it failed to open.
func (a *App) Store() *cache.Store {
	return a.store
}

// Teardown releases held resources.
func (a *App) Teardown() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("closing cache failed", "err", err)
		}
	}
}

// historySink adapts the cache store to the tracker's history interface.
type historySink struct {
	store *cache.Store
}

func (s *historySink) RecordTransaction(p tx.Progress) error {
	if p.Hash == "" {
		return nil // submission failures have no hash to key on
	}
	return s.store.PutTransaction(p.Hash, p)
}

// parseOverrides converts the config's string-keyed chain ids to the
// address book's int64 keys, skipping unparsable entries.
func parseOverrides(overrides map[string]map[string]string) map[int64]map[string]string {
	out := make(map[int64]map[string]string, len(overrides))
	for key, contracts := range overrides {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		out[id] = contracts
	}
	return out
}
