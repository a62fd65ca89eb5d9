package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SolanaCLIConfig is the subset of the Solana CLI config file used here.
type SolanaCLIConfig struct {
	JSONRPCURL   string `yaml:"json_rpc_url"`
	WebsocketURL string `yaml:"websocket_url"`
	KeypairPath  string `yaml:"keypair_path"`
	Commitment   string `yaml:"commitment"`
}

// DefaultSolanaCLIConfigPath returns ~/.config/solana/cli/config.yml.
func DefaultSolanaCLIConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "solana", "cli", "config.yml")
}

// LoadSolanaCLIConfig reads the Solana CLI config at path, or at the default
// location when path is empty. A missing file yields nil without error.
func LoadSolanaCLIConfig(path string) (*SolanaCLIConfig, error) {
	if path == "" {
		path = DefaultSolanaCLIConfigPath()
		if path == "" {
			return nil, nil
		}
	}

	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read solana cli config: %w", err)
	}

	var cfg SolanaCLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse solana cli config %s: %w", path, err)
	}
	cfg.KeypairPath = ExpandHome(cfg.KeypairPath)
	return &cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DefaultKeypairPath returns ~/.config/solana/id.json.
func DefaultKeypairPath() string {
	return ExpandHome("~/.config/solana/id.json")
}
