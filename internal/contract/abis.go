package contract

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/tunebase/tunecli/internal/chain"
)

// Embedded ABIs for the platform contracts. The table parses them lazily,
// exactly once, before the first binding is attempted.
const musicNFTABI = `[
  {"type":"function","name":"mintTrack","stateMutability":"nonpayable",
   "inputs":[{"name":"artist","type":"address"},{"name":"uri","type":"string"},{"name":"price","type":"uint256"},{"name":"royaltyBps","type":"uint256"}],
   "outputs":[{"name":"tokenId","type":"uint256"}]},
  {"type":"function","name":"purchase","stateMutability":"payable",
   "inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"listedTokens","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"tokensOfOwner","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"tokensByArtist","stateMutability":"view",
   "inputs":[{"name":"artist","type":"address"}],"outputs":[{"name":"","type":"uint256[]"}]},
  {"type":"function","name":"tokenURI","stateMutability":"view",
   "inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"trackInfo","stateMutability":"view",
   "inputs":[{"name":"tokenId","type":"uint256"}],
   "outputs":[{"name":"artist","type":"address"},{"name":"price","type":"uint256"},{"name":"royaltyBps","type":"uint256"},{"name":"listed","type":"bool"}]},
  {"type":"event","name":"TrackMinted","anonymous":false,
   "inputs":[{"name":"tokenId","type":"uint256","indexed":true},{"name":"artist","type":"address","indexed":true},{"name":"uri","type":"string","indexed":false}]},
  {"type":"event","name":"TrackPurchased","anonymous":false,
   "inputs":[{"name":"tokenId","type":"uint256","indexed":true},{"name":"buyer","type":"address","indexed":true},{"name":"price","type":"uint256","indexed":false}]}
]`

const platformABI = `[
  {"type":"function","name":"vote","stateMutability":"nonpayable",
   "inputs":[{"name":"trackId","type":"uint256"},{"name":"support","type":"bool"}],"outputs":[]},
  {"type":"function","name":"votesFor","stateMutability":"view",
   "inputs":[{"name":"trackId","type":"uint256"}],
   "outputs":[{"name":"upvotes","type":"uint256"},{"name":"downvotes","type":"uint256"}]},
  {"type":"event","name":"VoteCast","anonymous":false,
   "inputs":[{"name":"trackId","type":"uint256","indexed":true},{"name":"voter","type":"address","indexed":true},{"name":"support","type":"bool","indexed":false}]}
]`

const stakingABI = `[
  {"type":"function","name":"stake","stateMutability":"payable",
   "inputs":[{"name":"lockPeriod","type":"uint256"}],"outputs":[{"name":"positionId","type":"uint256"}]},
  {"type":"function","name":"unstake","stateMutability":"nonpayable",
   "inputs":[{"name":"positionId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"claimRewards","stateMutability":"nonpayable",
   "inputs":[{"name":"positionId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"positionsOf","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"}],
   "outputs":[{"name":"ids","type":"uint256[]"},{"name":"amounts","type":"uint256[]"},{"name":"unlockTimes","type":"uint256[]"},{"name":"rewards","type":"uint256[]"}]},
  {"type":"event","name":"Staked","anonymous":false,
   "inputs":[{"name":"owner","type":"address","indexed":true},{"name":"positionId","type":"uint256","indexed":true},{"name":"amount","type":"uint256","indexed":false},{"name":"unlockTime","type":"uint256","indexed":false}]},
  {"type":"event","name":"Unstaked","anonymous":false,
   "inputs":[{"name":"owner","type":"address","indexed":true},{"name":"positionId","type":"uint256","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"RewardsClaimed","anonymous":false,
   "inputs":[{"name":"owner","type":"address","indexed":true},{"name":"positionId","type":"uint256","indexed":true},{"name":"amount","type":"uint256","indexed":false}]}
]`

// ABITable maps logical contract names to parsed ABIs. Parsing happens
// lazily on first access and exactly once; binding waits on it implicitly.
type ABITable struct {
	once   sync.Once
	parsed map[string]abi.ABI
	err    error
}

// NewABITable creates the (unparsed) table.
func NewABITable() *ABITable {
	return &ABITable{}
}

func (t *ABITable) load() {
	t.once.Do(func() {
		raw := map[string]string{
			chain.ContractMusicNFT: musicNFTABI,
			chain.ContractPlatform: platformABI,
			chain.ContractStaking:  stakingABI,
		}
		t.parsed = make(map[string]abi.ABI, len(raw))
		for name, js := range raw {
			parsed, err := abi.JSON(strings.NewReader(js))
			if err != nil {
				t.err = fmt.Errorf("parsing %s ABI: %w", name, err)
				return
			}
			t.parsed[name] = parsed
		}
	})
}

// Get returns the parsed ABI for a logical contract name.
func (t *ABITable) Get(name string) (abi.ABI, bool) {
	t.load()
	if t.err != nil {
		return abi.ABI{}, false
	}
	a, ok := t.parsed[name]
	return a, ok
}

// Err reports a parse failure, if any. Embedded ABIs make this a
// programming error rather than a runtime condition.
func (t *ABITable) Err() error {
	t.load()
	return t.err
}
