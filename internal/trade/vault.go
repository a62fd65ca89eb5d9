package trade

import (
	"context"

	"github.com/gagliardetto/solana-go"
	chain "github.com/lugondev/go-tokentrade/internal/solana"
	"github.com/lugondev/go-tokentrade/internal/spltoken"
	"github.com/lugondev/go-tokentrade/internal/tokentrade"
)

// VaultReport describes the on-chain state of a mint's vault.
type VaultReport struct {
	Address solana.PublicKey
	Bump    uint8

	// Exists is false until Initialize has created the vault account.
	Exists   bool
	Lamports uint64
	State    *tokentrade.Vault

	TokenAccount       solana.PublicKey
	TokenAccountExists bool
	TokenBalance       uint64
}

// InspectVault reads the vault of mint and its token account.
func InspectVault(ctx context.Context, client *chain.Client, programID, mint solana.PublicKey) (*VaultReport, error) {
	vault, bump, err := tokentrade.FindVaultAddress(mint, programID)
	if err != nil {
		return nil, err
	}
	report := &VaultReport{Address: vault, Bump: bump}

	account, err := client.GetAccountInfo(ctx, vault)
	if err != nil {
		return nil, err
	}
	if account != nil {
		report.Exists = true
		report.Lamports = account.Lamports
		if account.Owner.Equals(programID) {
			data := account.Data.GetBinary()
			state, err := tokentrade.DecodeVault(data)
			if err != nil {
				return nil, err
			}
			report.State = state
		}
	}

	ata, err := spltoken.AssociatedAddress(vault, mint)
	if err != nil {
		return nil, err
	}
	report.TokenAccount = ata

	tokenAccount, err := client.GetAccountInfo(ctx, ata)
	if err != nil {
		return nil, err
	}
	if tokenAccount != nil {
		report.TokenAccountExists = true
		if report.TokenBalance, err = client.GetTokenBalance(ctx, ata); err != nil {
			return nil, err
		}
	}
	return report, nil
}
