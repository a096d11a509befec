package chain

import (
	"errors"
	"strings"
)

// ErrNetworkNotFound is returned when a network is not in the registry.
var ErrNetworkNotFound = errors.New("network not found")

// Network holds all metadata for a single supported network.
type Network struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	ChainID        int64    `json:"chain_id"`
	NativeCurrency string   `json:"native_currency"`
	RPCs           []string `json:"rpcs"`
	Explorer       string   `json:"explorer"`
	Testnet        bool     `json:"testnet"`
}

// Registry is the network registry. Networks are fixed at build time;
// a chain id absent from the registry is "unsupported", which disables
// contract binding but is not an error by itself.
type Registry struct {
	networks []Network
	byName   map[string]*Network
	byID     map[int64]*Network
}

// NewRegistry creates the full registry of networks the platform runs on.
func NewRegistry() *Registry {
	networks := allNetworks()
	r := &Registry{
		networks: networks,
		byName:   make(map[string]*Network, len(networks)),
		byID:     make(map[int64]*Network, len(networks)),
	}
	for i := range r.networks {
		n := &r.networks[i]
		r.byName[n.Name] = n
		r.byID[n.ChainID] = n
	}
	return r
}

// All returns every network in the registry.
func (r *Registry) All() []Network {
	return r.networks
}

// GetByName finds a network by its slug name (e.g. "polygon", "sepolia").
func (r *Registry) GetByName(name string) (*Network, error) {
	n, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return n, nil
}

// GetByChainID finds a network by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Network, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return n, nil
}

// Supported reports whether a chain id is in the registry.
func (r *Registry) Supported(id int64) bool {
	_, ok := r.byID[id]
	return ok
}

// --- network data ---

func allNetworks() []Network {
	return []Network{
		{
			Name: "ethereum", DisplayName: "Ethereum", ChainID: 1,
			NativeCurrency: "ETH",
			RPCs:           []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com"},
			Explorer:       "https://etherscan.io",
		},
		{
			Name: "polygon", DisplayName: "Polygon", ChainID: 137,
			NativeCurrency: "POL",
			RPCs:           []string{"https://polygon-bor-rpc.publicnode.com", "https://polygon-pokt.nodies.app"},
			Explorer:       "https://polygonscan.com",
		},
		{
			Name: "base", DisplayName: "Base", ChainID: 8453,
			NativeCurrency: "ETH",
			RPCs:           []string{"https://mainnet.base.org", "https://base.llamarpc.com"},
			Explorer:       "https://basescan.org",
		},
		{
			Name: "sepolia", DisplayName: "Sepolia", ChainID: 11155111,
			NativeCurrency: "ETH",
			RPCs:           []string{"https://rpc.sepolia.org", "https://sepolia.gateway.tenderly.co"},
			Explorer:       "https://sepolia.etherscan.io",
			Testnet:        true,
		},
		{
			Name: "amoy", DisplayName: "Polygon Amoy", ChainID: 80002,
			NativeCurrency: "POL",
			RPCs:           []string{"https://rpc-amoy.polygon.technology"},
			Explorer:       "https://amoy.polygonscan.com",
			Testnet:        true,
		},
		{
			Name: "base-sepolia", DisplayName: "Base Sepolia", ChainID: 84532,
			NativeCurrency: "ETH",
			RPCs:           []string{"https://sepolia.base.org"},
			Explorer:       "https://sepolia.basescan.org",
			Testnet:        true,
		},
		{
			Name: "localhost", DisplayName: "Local Devnet", ChainID: 31337,
			NativeCurrency: "ETH",
			RPCs:           []string{"http://127.0.0.1:8545"},
			Explorer:       "",
			Testnet:        true,
		},
	}
}
