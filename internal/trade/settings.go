package trade

import (
	"github.com/lugondev/go-tokentrade/internal/config"
	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
	"github.com/lugondev/go-tokentrade/internal/tokentrade"
	"github.com/lugondev/go-tokentrade/pkg/units"
)

// Settings are the resolved parameters of a run, with every amount in base units.
type Settings struct {
	PayerKeypair   string
	ProgramKeypair string
	ProgramSO      string

	Decimals uint8
	// Supply is minted into both the payer and the vault token accounts.
	Supply uint64

	// SwapLamports is the SOL side of either swap.
	SwapLamports uint64

	AirdropThreshold uint64
	AirdropLamports  uint64

	ExplorerCluster string
	// RPCURL is used for custom-cluster explorer links.
	RPCURL string

	ProgramLogs bool
}

// SettingsFromConfig parses the configured amounts.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	s := Settings{
		PayerKeypair:    cfg.Payer.Keypair,
		ProgramKeypair:  cfg.Program.Keypair,
		ProgramSO:       cfg.Program.SO,
		Decimals:        cfg.Token.Decimals,
		ExplorerCluster: cfg.ExplorerCluster(),
		RPCURL:          cfg.Solana.GetRPCEndpoint(),
		ProgramLogs:     cfg.Output.ProgramLogs,
	}

	var err error
	if s.Supply, err = units.ToBaseUnits(cfg.Token.Supply, cfg.Token.Decimals); err != nil {
		return s, cerrors.Config("invalid token.supply", err)
	}
	if s.SwapLamports, err = units.ParseSOL(cfg.Swap.Amount); err != nil {
		return s, cerrors.Config("invalid swap.amount", err)
	}
	if _, err = tokentrade.QuoteSolToToken(s.SwapLamports); err != nil {
		return s, cerrors.Config("invalid swap.amount", err)
	}
	if s.AirdropThreshold, err = units.ParseSOL(cfg.Airdrop.Threshold); err != nil {
		return s, cerrors.Config("invalid airdrop.threshold", err)
	}
	if s.AirdropLamports, err = units.ParseSOL(cfg.Airdrop.Amount); err != nil {
		return s, cerrors.Config("invalid airdrop.amount", err)
	}
	return s, nil
}
