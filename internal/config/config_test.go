package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8899", cfg.Solana.GetRPCEndpoint())
	assert.Equal(t, "ws://127.0.0.1:8900", cfg.Solana.GetWSEndpoint())
	assert.Equal(t, "confirmed", cfg.Solana.Commitment)
	assert.Equal(t, uint8(9), cfg.Token.Decimals)
	assert.Equal(t, "1000", cfg.Token.Supply)
	assert.Equal(t, "0.1", cfg.Swap.Amount)
	assert.Equal(t, "dist/program/TokenTrade-keypair.json", cfg.Program.Keypair)
	assert.Equal(t, ConfirmModePoll, cfg.Confirm.Mode)
	assert.Equal(t, 500*time.Millisecond, cfg.Confirm.Interval)
	assert.Equal(t, filepath.Join(dir, ".config", "solana", "id.json"), cfg.Payer.Keypair)
}

func TestLoadSolanaCLIConfigFallback(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)

	cliPath := writeFile(t, dir, "cli.yml", `---
json_rpc_url: "https://api.devnet.solana.com"
websocket_url: ""
keypair_path: ~/.config/solana/id.json
address_labels:
  "11111111111111111111111111111111": System Program
commitment: finalized
`)
	t.Setenv("TOKENTRADE_SOLANA_CLI_CONFIG", cliPath)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "https://api.devnet.solana.com", cfg.Solana.GetRPCEndpoint())
	assert.Equal(t, "wss://api.devnet.solana.com", cfg.Solana.GetWSEndpoint())
	assert.Equal(t, filepath.Join(dir, ".config", "solana", "id.json"), cfg.Payer.Keypair)
	assert.Equal(t, "finalized", cfg.Solana.Commitment)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)

	cliPath := writeFile(t, dir, "cli.yml", "json_rpc_url: http://cli:8899\ncommitment: processed\n")
	configPath := writeFile(t, dir, "tokentrade.yaml", `
solana:
  rpc: http://file:8899
  cli_config: `+cliPath+`
swap:
  amount: "0.25"
confirm:
  mode: websocket
  interval: 2s
`)
	t.Setenv("TOKENTRADE_SWAP_AMOUNT", "0.5")

	cfg, err := Load(viper.New(), configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://file:8899", cfg.Solana.RPC, "config file beats the Solana CLI config")
	assert.Equal(t, "processed", cfg.Solana.Commitment, "Solana CLI config fills unset values")
	assert.Equal(t, "0.5", cfg.Swap.Amount, "env beats the config file")
	assert.Equal(t, ConfirmModeWebsocket, cfg.Confirm.Mode)
	assert.Equal(t, 2*time.Second, cfg.Confirm.Interval)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)

	configPath := writeFile(t, dir, "bad.yaml", "confirm:\n  mode: carrier-pigeon\n")
	_, err := Load(viper.New(), configPath)
	assert.ErrorContains(t, err, "confirm.mode")

	configPath = writeFile(t, dir, "bad-commitment.yaml", "solana:\n  commitment: max\n")
	_, err = Load(viper.New(), configPath)
	assert.ErrorContains(t, err, "solana.commitment")
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)

	_, err := Load(viper.New(), filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestGetRPCEndpointByNetwork(t *testing.T) {
	tests := map[string]string{
		"mainnet-beta": "https://api.mainnet-beta.solana.com",
		"testnet":      "https://api.testnet.solana.com",
		"devnet":       "https://api.devnet.solana.com",
		"localnet":     "http://127.0.0.1:8899",
	}
	for network, want := range tests {
		c := SolanaConfig{Network: network}
		assert.Equal(t, want, c.GetRPCEndpoint(), network)
	}

	explicit := SolanaConfig{RPC: "http://custom:1234", Network: "devnet"}
	assert.Equal(t, "http://custom:1234", explicit.GetRPCEndpoint())
	assert.Equal(t, "ws://custom:1234", explicit.GetWSEndpoint())
}

func TestExplorerCluster(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "custom", cfg.ExplorerCluster())

	cfg.Solana.Network = "devnet"
	assert.Equal(t, "devnet", cfg.ExplorerCluster())

	cfg.Explorer.Cluster = "testnet"
	assert.Equal(t, "testnet", cfg.ExplorerCluster())
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/trader")
	assert.Equal(t, "/home/trader/.config/solana/id.json", ExpandHome("~/.config/solana/id.json"))
	assert.Equal(t, "/etc/id.json", ExpandHome("/etc/id.json"))
	assert.Equal(t, "relative/id.json", ExpandHome("relative/id.json"))
}

func TestLoadSolanaCLIConfigMissing(t *testing.T) {
	cfg, err := LoadSolanaCLIConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadDefaultPayerKeypairWhenCLIConfigNamesNone(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)

	cliPath := writeFile(t, dir, "cli.yml", "json_rpc_url: http://cli:8899\n")
	t.Setenv("TOKENTRADE_SOLANA_CLI_CONFIG", cliPath)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "http://cli:8899", cfg.Solana.GetRPCEndpoint())
	assert.Equal(t, DefaultKeypairPath(), cfg.Payer.Keypair)
	assert.Equal(t, filepath.Join(dir, ".config", "solana", "id.json"), cfg.Payer.Keypair)
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
