package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebase/tunecli/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "ethereum", cfg.DefaultNetwork)
	assert.Equal(t, "metamask", cfg.DefaultWallet)
	assert.Equal(t, "http://127.0.0.1:5001", cfg.IPFSURL)
	assert.Equal(t, 2, cfg.TxPollSeconds)
	assert.Equal(t, 120, cfg.TxTimeoutSeconds)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.DefaultNetwork = "base"
	require.NoError(t, cfg.AddRPC("base", "https://my-node.example/rpc"))
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "base", reloaded.DefaultNetwork)
	assert.Equal(t, []string{"https://my-node.example/rpc"}, reloaded.CustomRPCs["base"])
}

func TestCustomRPCsComeFirst(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("base", "https://custom.example"))
	urls := cfg.RPCs("base", []string{"https://builtin.example"})
	assert.Equal(t, []string{"https://custom.example", "https://builtin.example"}, urls)
}

func TestAddRPCDuplicateRejected(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("base", "https://a.example"))
	assert.Error(t, cfg.AddRPC("base", "https://a.example"))

	require.NoError(t, cfg.RemoveRPC("base", "https://a.example"))
	assert.Error(t, cfg.RemoveRPC("base", "https://a.example"))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TUNECLI_NETWORK", "polygon")
	t.Setenv("TUNECLI_IPFS_URL", "http://ipfs.internal:5001")
	t.Setenv("TUNECLI_TX_TIMEOUT_SECONDS", "300")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "polygon", cfg.DefaultNetwork)
	assert.Equal(t, "http://ipfs.internal:5001", cfg.IPFSURL)
	assert.Equal(t, 300, cfg.TxTimeoutSeconds)
}

func TestDotEnvInConfigDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TUNECLI_WALLET=coinbase\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TUNECLI_WALLET") }) //nolint:errcheck

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "coinbase", cfg.DefaultWallet)
}

func TestContractOverrides(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	cfg.ContractOverrides = map[string]map[string]string{
		"31337": {"MusicNFT": "0xbeef"},
	}
	assert.Equal(t, "0xbeef", cfg.Overrides(31337)["MusicNFT"])
	assert.Nil(t, cfg.Overrides(1))
}

func TestKeyRefFallback(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "metamask", cfg.KeyRef("metamask"))

	cfg.KeyRefs = map[string]string{"metamask": "work-key"}
	assert.Equal(t, "work-key", cfg.KeyRef("metamask"))
	assert.Equal(t, "coinbase", cfg.KeyRef("coinbase"))
}
