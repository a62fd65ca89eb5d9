package tokentrade

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
)

// VaultSeed is the static seed of the vault address.
var VaultSeed = []byte("vault")

// FindVaultAddress derives the program-owned vault for a mint from the seeds
// ["vault", mint]. The returned address is guaranteed to be off the ed25519 curve.
func FindVaultAddress(mint, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	vault, bump, err := solana.FindProgramAddress(
		[][]byte{VaultSeed, mint.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive vault address: %w", err)
	}

	if IsOnCurve(vault) {
		return solana.PublicKey{}, 0, cerrors.ErrInvalidAccountAddress.WithDetails(map[string]any{
			"address": vault.String(),
		})
	}
	return vault, bump, nil
}

// IsOnCurve reports whether the key is a valid ed25519 point, i.e. an address
// that could have a private key.
func IsOnCurve(key solana.PublicKey) bool {
	_, err := new(edwards25519.Point).SetBytes(key[:])
	return err == nil
}
