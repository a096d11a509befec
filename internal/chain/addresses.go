package chain

// Logical contract names. These are the keys used by the ABI table and the
// address book; the binding layer joins the two per chain.
const (
	ContractMusicNFT = "MusicNFT"
	ContractPlatform = "Platform"
	ContractStaking  = "Staking"
)

// ContractNames lists every logical contract the platform knows about.
func ContractNames() []string {
	return []string{ContractMusicNFT, ContractPlatform, ContractStaking}
}

// AddressBook maps chain id -> logical contract name -> deployed address.
// An empty address means "not deployed on this chain" and the contract is
// never bound there.
type AddressBook struct {
	addrs map[int64]map[string]string
}

// NewAddressBook returns the build-time deployment table.
func NewAddressBook() *AddressBook {
	return &AddressBook{addrs: deployments()}
}

// Merge overlays additional addresses (e.g. from config) on top of the
// build-time table. Later entries win per (chain, name).
func (b *AddressBook) Merge(extra map[int64]map[string]string) {
	for chainID, contracts := range extra {
		if b.addrs[chainID] == nil {
			b.addrs[chainID] = make(map[string]string)
		}
		for name, addr := range contracts {
			b.addrs[chainID][name] = addr
		}
	}
}

// Deployed returns the address of a contract on a chain. ok is false when
// the chain is unknown or the address is empty.
func (b *AddressBook) Deployed(chainID int64, name string) (string, bool) {
	addr := b.addrs[chainID][name]
	if addr == "" {
		return "", false
	}
	return addr, true
}

// Chain returns every non-empty deployment on a chain.
func (b *AddressBook) Chain(chainID int64) map[string]string {
	out := make(map[string]string)
	for name, addr := range b.addrs[chainID] {
		if addr != "" {
			out[name] = addr
		}
	}
	return out
}

func deployments() map[int64]map[string]string {
	return map[int64]map[string]string{
		1: {
			ContractMusicNFT: "0x7C3aED54B9453C9BcF4E2A80E8B0F8F3C2b6E101",
			ContractPlatform: "0x91fA10E6b5B2D1f6b7320dD6CBBA2dA9D5a36102",
			ContractStaking:  "0x4b8D90C2e6cD5A9fE0f9E1B7a2C3D4E5F6a7B103",
		},
		137: {
			ContractMusicNFT: "0xA1b2C3d4E5f60718293a4B5c6D7e8F9a0B1c2201",
			ContractPlatform: "0xB2c3D4e5F60718293A4b5C6d7E8f9A0b1C2d3202",
			ContractStaking:  "0xC3d4E5f60718293a4B5c6D7e8F9a0B1c2D3e4203",
		},
		8453: {
			ContractMusicNFT: "0xD4e5F60718293A4b5C6d7E8f9A0b1C2d3E4f5301",
			ContractPlatform: "0xE5f60718293a4B5c6D7e8F9a0B1c2D3e4F5a6302",
			// Staking is not yet live on Base.
		},
		11155111: {
			ContractMusicNFT: "0xF60718293A4b5C6d7E8f9A0b1C2d3E4f5A6b7401",
			ContractPlatform: "0x0718293a4B5c6D7e8F9a0B1c2D3e4F5a6B7c8402",
			ContractStaking:  "0x18293A4b5C6d7E8f9A0b1C2d3E4f5A6b7C8d9403",
		},
		80002: {
			ContractMusicNFT: "0x293a4B5c6D7e8F9a0B1c2D3e4F5a6B7c8D9e0501",
		},
		84532: {
			ContractMusicNFT: "0x3a4B5c6D7e8F9a0B1c2D3e4F5a6B7c8D9e0F1601",
			ContractPlatform: "0x4B5c6D7e8F9a0B1c2D3e4F5a6B7c8D9e0F1a2602",
		},
	}
}
