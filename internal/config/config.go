package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Solana   SolanaConfig   `mapstructure:"solana"`
	Payer    PayerConfig    `mapstructure:"payer"`
	Program  ProgramConfig  `mapstructure:"program"`
	Token    TokenConfig    `mapstructure:"token"`
	Swap     SwapConfig     `mapstructure:"swap"`
	Airdrop  AirdropConfig  `mapstructure:"airdrop"`
	Confirm  ConfirmConfig  `mapstructure:"confirm"`
	Explorer ExplorerConfig `mapstructure:"explorer"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
}

// SolanaConfig holds Solana-specific configuration
type SolanaConfig struct {
	RPC        string `mapstructure:"rpc"`
	WS         string `mapstructure:"ws"`
	Network    string `mapstructure:"network"`
	Commitment string `mapstructure:"commitment"`
	Timeout    int    `mapstructure:"timeout"` // in seconds

	// CLIConfig is the path of the Solana CLI config file. Empty means the default location.
	CLIConfig string `mapstructure:"cli_config"`
}

// PayerConfig selects the fee payer keypair.
type PayerConfig struct {
	Keypair string `mapstructure:"keypair"`
}

// ProgramConfig locates the deployed tokentrade program.
type ProgramConfig struct {
	Keypair string `mapstructure:"keypair"`
	SO      string `mapstructure:"so"`
}

// TokenConfig describes the test mint.
type TokenConfig struct {
	Decimals uint8  `mapstructure:"decimals"`
	Supply   string `mapstructure:"supply"` // UI amount minted to payer and vault
}

// SwapConfig holds the swap amount in SOL.
type SwapConfig struct {
	Amount string `mapstructure:"amount"`
}

// AirdropConfig holds the airdrop threshold and amount, both in SOL.
type AirdropConfig struct {
	Threshold string `mapstructure:"threshold"`
	Amount    string `mapstructure:"amount"`
}

// ConfirmConfig selects how transactions are confirmed.
type ConfirmConfig struct {
	Mode     string        `mapstructure:"mode"` // poll or websocket
	Attempts uint          `mapstructure:"attempts"`
	Interval time.Duration `mapstructure:"interval"`
}

// ExplorerConfig holds the cluster name used in explorer links.
type ExplorerConfig struct {
	Cluster string `mapstructure:"cluster"`
}

// OutputConfig toggles extra output.
type OutputConfig struct {
	ShowTx      bool `mapstructure:"show_tx"`
	ProgramLogs bool `mapstructure:"program_logs"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// Confirmation modes.
const (
	ConfirmModePoll      = "poll"
	ConfirmModeWebsocket = "websocket"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Solana: SolanaConfig{
			Network:    "localnet",
			Commitment: "confirmed",
			Timeout:    60,
		},
		Program: ProgramConfig{
			Keypair: "dist/program/TokenTrade-keypair.json",
			SO:      "dist/program/tokentrade.so",
		},
		Token: TokenConfig{
			Decimals: 9,
			Supply:   "1000",
		},
		Swap: SwapConfig{
			Amount: "0.1",
		},
		Airdrop: AirdropConfig{
			Threshold: "1",
			Amount:    "1",
		},
		Confirm: ConfirmConfig{
			Mode:     ConfirmModePoll,
			Attempts: 120,
			Interval: 500 * time.Millisecond,
		},
		Explorer: ExplorerConfig{
			Cluster: "custom",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from file, environment and the Solana CLI config.
// A .env file in the working directory is loaded first when present.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(".tokentrade")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	// Environment variables
	v.SetEnvPrefix("TOKENTRADE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cli, err := LoadSolanaCLIConfig(cfg.Solana.CLIConfig)
	if err != nil {
		return nil, err
	}
	cfg.applySolanaCLI(cli)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every default with viper so env variables bind to
// keys that appear in no config file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("solana.rpc", cfg.Solana.RPC)
	v.SetDefault("solana.ws", cfg.Solana.WS)
	v.SetDefault("solana.network", cfg.Solana.Network)
	// Left empty so a commitment from the Solana CLI config can apply.
	v.SetDefault("solana.commitment", "")
	v.SetDefault("solana.timeout", cfg.Solana.Timeout)
	v.SetDefault("solana.cli_config", cfg.Solana.CLIConfig)
	v.SetDefault("payer.keypair", cfg.Payer.Keypair)
	v.SetDefault("program.keypair", cfg.Program.Keypair)
	v.SetDefault("program.so", cfg.Program.SO)
	v.SetDefault("token.decimals", cfg.Token.Decimals)
	v.SetDefault("token.supply", cfg.Token.Supply)
	v.SetDefault("swap.amount", cfg.Swap.Amount)
	v.SetDefault("airdrop.threshold", cfg.Airdrop.Threshold)
	v.SetDefault("airdrop.amount", cfg.Airdrop.Amount)
	v.SetDefault("confirm.mode", cfg.Confirm.Mode)
	v.SetDefault("confirm.attempts", cfg.Confirm.Attempts)
	v.SetDefault("confirm.interval", cfg.Confirm.Interval)
	v.SetDefault("explorer.cluster", cfg.Explorer.Cluster)
	v.SetDefault("output.show_tx", cfg.Output.ShowTx)
	v.SetDefault("output.program_logs", cfg.Output.ProgramLogs)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// applySolanaCLI fills settings left empty with the Solana CLI config values,
// then with the Solana CLI defaults.
func (c *Config) applySolanaCLI(cli *SolanaCLIConfig) {
	defer func() {
		if c.Payer.Keypair == "" {
			c.Payer.Keypair = DefaultKeypairPath()
		}
		if c.Solana.Commitment == "" {
			c.Solana.Commitment = "confirmed"
		}
	}()
	if cli == nil {
		return
	}
	if c.Solana.RPC == "" {
		c.Solana.RPC = cli.JSONRPCURL
	}
	if c.Solana.WS == "" {
		c.Solana.WS = cli.WebsocketURL
	}
	if c.Payer.Keypair == "" {
		c.Payer.Keypair = cli.KeypairPath
	}
	if c.Solana.Commitment == "" {
		c.Solana.Commitment = cli.Commitment
	}
}

// Validate checks values that cannot be fixed by falling back to defaults.
func (c *Config) Validate() error {
	switch c.Confirm.Mode {
	case ConfirmModePoll, ConfirmModeWebsocket:
	default:
		return fmt.Errorf("invalid confirm.mode %q: expected %q or %q", c.Confirm.Mode, ConfirmModePoll, ConfirmModeWebsocket)
	}
	switch c.Solana.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("invalid solana.commitment %q", c.Solana.Commitment)
	}
	if c.Confirm.Attempts == 0 {
		return fmt.Errorf("confirm.attempts must be positive")
	}
	return nil
}

// GetRPCEndpoint returns the RPC endpoint for the configured network
func (c *SolanaConfig) GetRPCEndpoint() string {
	if c.RPC != "" {
		return c.RPC
	}

	switch c.Network {
	case "mainnet", "mainnet-beta":
		return "https://api.mainnet-beta.solana.com"
	case "testnet":
		return "https://api.testnet.solana.com"
	case "devnet":
		return "https://api.devnet.solana.com"
	default:
		return "http://127.0.0.1:8899"
	}
}

// GetWSEndpoint returns the websocket endpoint. Without an explicit value it
// is derived from the RPC endpoint: http becomes ws and the localnet port is
// shifted by one.
func (c *SolanaConfig) GetWSEndpoint() string {
	if c.WS != "" {
		return c.WS
	}

	rpcURL := c.GetRPCEndpoint()
	switch {
	case strings.HasPrefix(rpcURL, "https://"):
		rpcURL = "wss://" + strings.TrimPrefix(rpcURL, "https://")
	case strings.HasPrefix(rpcURL, "http://"):
		rpcURL = "ws://" + strings.TrimPrefix(rpcURL, "http://")
	}
	return strings.Replace(rpcURL, ":8899", ":8900", 1)
}

// ExplorerCluster returns the cluster query value for explorer links.
func (c *Config) ExplorerCluster() string {
	if c.Explorer.Cluster != "" && c.Explorer.Cluster != "custom" {
		return c.Explorer.Cluster
	}
	switch c.Solana.Network {
	case "mainnet", "mainnet-beta":
		return "mainnet-beta"
	case "testnet", "devnet":
		return c.Solana.Network
	}
	return "custom"
}
