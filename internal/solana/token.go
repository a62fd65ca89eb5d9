package solana

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/lugondev/go-tokentrade/internal/metrics"
	"github.com/lugondev/go-tokentrade/internal/spltoken"
)

// CreateMint creates and initializes a new mint with payer as mint and freeze
// authority. It returns the mint keypair.
func (c *Client) CreateMint(ctx context.Context, payer *Wallet, decimals uint8) (*Wallet, error) {
	rent, err := c.GetMinimumBalanceForRentExemption(ctx, spltoken.MintSize)
	if err != nil {
		return nil, err
	}

	mint := NewWallet()
	ixs := spltoken.NewCreateMintInstructions(
		payer.PublicKey(),
		mint.PublicKey(),
		payer.PublicKey(),
		decimals,
		rent,
	)

	sig, err := c.SendAndConfirm(ctx, ixs, payer, mint)
	if err != nil {
		return nil, err
	}
	_ = c.metrics.IncrementCounter(ctx, metrics.MetricAccountsCreated, 1)

	c.GetLogger().Debug("mint created", "mint", mint.String(), "decimals", decimals, "signature", sig.String())
	return mint, nil
}

// GetOrCreateAssociatedTokenAccount returns the associated token account of owner
// for mint, creating it when it does not exist yet. Owner may be off-curve.
func (c *Client) GetOrCreateAssociatedTokenAccount(
	ctx context.Context,
	payer *Wallet,
	mint, owner solana.PublicKey,
) (solana.PublicKey, error) {
	ata, err := spltoken.AssociatedAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}

	account, err := c.GetAccountInfo(ctx, ata)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if account != nil {
		c.GetLogger().Debug("associated token account exists", "owner", owner.String(), "account", ata.String())
		return ata, nil
	}

	ix := spltoken.NewCreateAssociatedAccountInstruction(payer.PublicKey(), owner, mint)
	if _, err := c.SendAndConfirm(ctx, []solana.Instruction{ix}, payer); err != nil {
		return solana.PublicKey{}, err
	}
	_ = c.metrics.IncrementCounter(ctx, metrics.MetricAccountsCreated, 1)

	c.GetLogger().Debug("associated token account created", "owner", owner.String(), "account", ata.String())
	return ata, nil
}

// MintTo mints amount base units into destination, signed by the mint authority.
func (c *Client) MintTo(
	ctx context.Context,
	payer *Wallet,
	mint, destination solana.PublicKey,
	authority *Wallet,
	amount uint64,
) (solana.Signature, error) {
	ix := spltoken.NewMintToInstruction(amount, mint, destination, authority.PublicKey())

	var signers []*Wallet
	if !authority.PublicKey().Equals(payer.PublicKey()) {
		signers = append(signers, authority)
	}

	sig, err := c.SendAndConfirm(ctx, []solana.Instruction{ix}, payer, signers...)
	if err != nil {
		return sig, err
	}
	_ = c.metrics.IncrementCounter(ctx, metrics.MetricTokensMinted, amount)
	return sig, nil
}
