// Package config loads and persists the CLI's configuration: a JSON file
// under ~/.tunecli plus TUNECLI_* environment overrides (optionally from a
// .env file in the config dir).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultNetwork     = "ethereum"
	defaultWallet      = "metamask"
	defaultIPFSURL     = "http://127.0.0.1:5001"
	defaultListenAddr  = "127.0.0.1:8787"
	defaultPollSeconds = 2
	defaultTimeoutSecs = 120

	configFile = "config.json"
	cacheDir   = "cache"
)

// Config is the persisted CLI configuration.
type Config struct {
	// DefaultNetwork is the network name used when --network is not given.
	DefaultNetwork string `json:"default_network"`
	// DefaultWallet is the wallet type connected by default.
	DefaultWallet string `json:"default_wallet"`

	// CustomRPCs maps network name to user-supplied RPC URLs, tried before
	// the built-in ones.
	CustomRPCs map[string][]string `json:"custom_rpcs"`
	// ContractOverrides maps chain id (decimal string) to contract name to
	// address, layered over the built-in deployments.
	ContractOverrides map[string]map[string]string `json:"contract_overrides,omitempty"`
	// KeyRefs maps wallet type to the keystore reference holding its key.
	KeyRefs map[string]string `json:"key_refs,omitempty"`

	IPFSURL    string `json:"ipfs_url"`
	ListenAddr string `json:"listen_addr"`

	// Transaction tracking knobs, in seconds.
	TxPollSeconds    int `json:"tx_poll_seconds"`
	TxTimeoutSeconds int `json:"tx_timeout_seconds"`

	configDir string
}

// Load reads config from dir (or creates defaults). dir defaults to
// ~/.tunecli. Environment variables win over the file; a .env in the config
// dir is read first if present.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".tunecli")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		cfg.configDir = dir
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}

	// .env is optional; absence is not an error.
	_ = godotenv.Load(filepath.Join(dir, ".env"))
	cfg.applyEnv()

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// CachePath returns the on-disk cache location.
func (c *Config) CachePath() string {
	return filepath.Join(c.configDir, cacheDir)
}

// AddRPC adds a custom RPC URL for a network.
func (c *Config) AddRPC(network, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[network], url) {
		return fmt.Errorf("RPC %s already exists for network %s", url, network)
	}
	c.CustomRPCs[network] = append(c.CustomRPCs[network], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a network.
func (c *Config) RemoveRPC(network, url string) error {
	rpcs := c.CustomRPCs[network]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for network %s", url, network)
	}
	c.CustomRPCs[network] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// RPCs returns the RPC URLs for a network: custom ones first, then builtin.
func (c *Config) RPCs(network string, builtin []string) []string {
	return append(slices.Clone(c.CustomRPCs[network]), builtin...)
}

// Overrides returns the contract address overrides for a chain id.
func (c *Config) Overrides(chainID int64) map[string]string {
	return c.ContractOverrides[strconv.FormatInt(chainID, 10)]
}

// KeyRef returns the keystore reference for a wallet type, falling back to
// the wallet type itself.
func (c *Config) KeyRef(walletType string) string {
	if ref, ok := c.KeyRefs[walletType]; ok && ref != "" {
		return ref
	}
	return walletType
}

// applyEnv layers TUNECLI_* environment variables over the file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("TUNECLI_NETWORK"); v != "" {
		c.DefaultNetwork = v
	}
	if v := os.Getenv("TUNECLI_WALLET"); v != "" {
		c.DefaultWallet = v
	}
	if v := os.Getenv("TUNECLI_IPFS_URL"); v != "" {
		c.IPFSURL = v
	}
	if v := os.Getenv("TUNECLI_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("TUNECLI_TX_POLL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TxPollSeconds = n
		}
	}
	if v := os.Getenv("TUNECLI_TX_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TxTimeoutSeconds = n
		}
	}
}

func defaults(dir string) *Config {
	return &Config{
		DefaultNetwork:   defaultNetwork,
		DefaultWallet:    defaultWallet,
		CustomRPCs:       make(map[string][]string),
		IPFSURL:          defaultIPFSURL,
		ListenAddr:       defaultListenAddr,
		TxPollSeconds:    defaultPollSeconds,
		TxTimeoutSeconds: defaultTimeoutSecs,
		configDir:        dir,
	}
}
