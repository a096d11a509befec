package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tunebase/tunecli/internal/notify"
)

// Errors.
var (
	ErrNoProviderFactory = errors.New("no provider registered for wallet type")
	ErrNotConnected      = errors.New("wallet not connected")
)

// Connection is one live wallet connection. At most one connection is
// active at any instant; the others stay usable for SwitchWallet.
type Connection struct {
	Type     WalletType
	Provider Provider
	Signer   *Signer
	Address  string
	ChainID  int64
}

// Manager owns wallet connections: it establishes them, tracks the active
// one, and reacts to provider-level account and chain change events.
// All state is mutex-guarded; provider callbacks arrive on their own
// goroutines.
type Manager struct {
	mu        sync.Mutex
	log       *slog.Logger
	notifier  notify.Notifier
	factories map[WalletType]ProviderFactory
	conns     map[WalletType]*Connection
	active    WalletType // empty = no active connection

	// onRebind is invoked whenever the active chain or active wallet
	// changes; the binding layer hangs off this hook.
	onRebind func(chainID int64, signer *Signer)
	// onDisconnect is invoked after a full disconnect so dependents
	// (bindings, transaction observers) can clear their state.
	onDisconnect func()
}

// NewManager creates a wallet connection manager.
func NewManager(log *slog.Logger, notifier notify.Notifier) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Manager{
		log:       log,
		notifier:  notifier,
		factories: make(map[WalletType]ProviderFactory),
		conns:     make(map[WalletType]*Connection),
	}
}

// RegisterProvider wires a factory for a wallet type. Connecting a type
// without a registered factory fails without side effects.
func (m *Manager) RegisterProvider(t WalletType, f ProviderFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[t] = f
}

// SetRebindHook sets the callback fired when the callable contract set must
// be rebuilt (active chain or active wallet changed).
func (m *Manager) SetRebindHook(fn func(chainID int64, signer *Signer)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRebind = fn
}

// SetDisconnectHook sets the callback fired after Disconnect clears state.
func (m *Manager) SetDisconnectHook(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDisconnect = fn
}

// Connect performs the provider handshake for a wallet type, stores the
// connection and makes it active. On any failure the existing state is left
// untouched and a warning notification is emitted.
func (m *Manager) Connect(ctx context.Context, t WalletType) (*Connection, error) {
	if _, err := ParseWalletType(string(t)); err != nil {
		m.notifier.Notify(notify.Warning, fmt.Sprintf("Cannot connect: %v", err))
		return nil, err
	}

	m.mu.Lock()
	factory, ok := m.factories[t]
	m.mu.Unlock()
	if !ok {
		err := fmt.Errorf("%w: %s", ErrNoProviderFactory, t)
		m.notifier.Notify(notify.Warning, fmt.Sprintf("Wallet %s is not available", t))
		return nil, err
	}

	provider, err := factory()
	if err != nil {
		m.notifier.Notify(notify.Error, fmt.Sprintf("Opening %s provider failed: %v", t, err))
		return nil, fmt.Errorf("opening provider: %w", err)
	}

	conn, err := m.handshake(ctx, t, provider)
	if err != nil {
		m.notifier.Notify(notify.Warning, fmt.Sprintf("Connecting %s failed: %v", t, err))
		return nil, err
	}

	m.mu.Lock()
	fresh := m.conns[t] == nil
	m.conns[t] = conn
	m.active = t
	rebind := m.onRebind
	m.mu.Unlock()

	// Subscribe once per stored connection, not per handshake.
	if fresh {
		provider.OnAccountsChanged(func(accounts []string) { m.handleAccountsChanged(t, accounts) })
		provider.OnChainChanged(func(chainID int64) { m.handleChainChanged(t, chainID) })
	}

	if rebind != nil {
		rebind(conn.ChainID, conn.Signer)
	}

	m.log.Info("wallet connected", "type", t, "address", conn.Address, "chain_id", conn.ChainID)
	m.notifier.Notify(notify.Success, fmt.Sprintf("Connected %s (%s)", t, conn.Address))
	return conn, nil
}

// handshake runs the provider handshake and builds a Connection without
// touching manager state.
func (m *Manager) handshake(ctx context.Context, t WalletType, provider Provider) (*Connection, error) {
	accounts, err := provider.RequestAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("requesting accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, errors.New("no accounts authorized")
	}

	chainID, err := provider.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading chain id: %w", err)
	}

	addr := accounts[0]
	return &Connection{
		Type:     t,
		Provider: provider,
		Signer:   NewSigner(addr, provider),
		Address:  addr,
		ChainID:  chainID,
	}, nil
}

// Disconnect clears all stored connections. Idempotent: calling with
// nothing connected still leaves a clean slate.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	had := len(m.conns) > 0
	m.conns = make(map[WalletType]*Connection)
	m.active = ""
	hook := m.onDisconnect
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if had {
		m.log.Info("wallet disconnected")
	}
	m.notifier.Notify(notify.Info, "Wallet disconnected")
}

// SwitchWallet makes a previously connected wallet type the active one.
func (m *Manager) SwitchWallet(t WalletType) error {
	m.mu.Lock()
	conn, ok := m.conns[t]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotConnected, t)
	}
	m.active = t
	rebind := m.onRebind
	m.mu.Unlock()

	if rebind != nil {
		rebind(conn.ChainID, conn.Signer)
	}
	m.log.Info("active wallet switched", "type", t, "chain_id", conn.ChainID)
	return nil
}

// Active returns the active connection, or nil.
func (m *Manager) Active() *Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == "" {
		return nil
	}
	return m.conns[m.active]
}

// CurrentProvider returns the active connection's provider, or nil.
func (m *Manager) CurrentProvider() Provider {
	if c := m.Active(); c != nil {
		return c.Provider
	}
	return nil
}

// CurrentSigner returns the active connection's signer, or nil.
func (m *Manager) CurrentSigner() *Signer {
	if c := m.Active(); c != nil {
		return c.Signer
	}
	return nil
}

// Connected returns the wallet types with a stored connection.
func (m *Manager) Connected() []WalletType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]WalletType, 0, len(m.conns))
	for t := range m.conns {
		out = append(out, t)
	}
	return out
}

// handleAccountsChanged reacts to a provider-level account change: an empty
// list behaves like Disconnect, anything else re-runs the handshake to
// refresh address and signer under the same wallet type.
func (m *Manager) handleAccountsChanged(t WalletType, accounts []string) {
	if len(accounts) == 0 {
		m.log.Info("provider revoked accounts", "type", t)
		m.Disconnect()
		return
	}

	m.mu.Lock()
	conn, ok := m.conns[t]
	m.mu.Unlock()
	if !ok {
		return
	}

	fresh, err := m.handshake(context.Background(), t, conn.Provider)
	if err != nil {
		m.log.Warn("account refresh failed", "type", t, "err", err)
		m.notifier.Notify(notify.Warning, fmt.Sprintf("Refreshing %s account failed: %v", t, err))
		return
	}

	m.mu.Lock()
	m.conns[t] = fresh
	isActive := m.active == t
	rebind := m.onRebind
	m.mu.Unlock()

	if isActive && rebind != nil {
		rebind(fresh.ChainID, fresh.Signer)
	}
	m.log.Info("account changed", "type", t, "address", fresh.Address)
}

// handleChainChanged reacts to a provider-level chain switch. This is the
// only path that changes which contracts are callable.
func (m *Manager) handleChainChanged(t WalletType, chainID int64) {
	m.mu.Lock()
	conn, ok := m.conns[t]
	if !ok || conn.ChainID == chainID {
		m.mu.Unlock()
		return
	}
	conn.ChainID = chainID
	isActive := m.active == t
	rebind := m.onRebind
	m.mu.Unlock()

	m.log.Info("chain changed", "type", t, "chain_id", chainID)
	if isActive && rebind != nil {
		rebind(chainID, conn.Signer)
	}
}
