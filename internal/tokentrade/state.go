package tokentrade

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
)

// VaultSize is the borsh size of the Vault account.
const VaultSize = 3 * solana.PublicKeyLength

// Vault is the account state written by Initialize.
type Vault struct {
	Admin solana.PublicKey
	Vault solana.PublicKey
	Mint  solana.PublicKey
}

// DecodeVault decodes vault account data.
func DecodeVault(data []byte) (*Vault, error) {
	if len(data) < VaultSize {
		return nil, cerrors.DecodeFailed("vault", nil).WithDetails(map[string]any{
			"data_len": len(data),
			"expected": VaultSize,
		})
	}

	var v Vault
	if err := bin.NewBorshDecoder(data).Decode(&v); err != nil {
		return nil, cerrors.DecodeFailed("vault", err)
	}
	return &v, nil
}
