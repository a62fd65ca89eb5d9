package tokentrade

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindVaultAddress(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	vault, bump, err := FindVaultAddress(mint, programID)
	require.NoError(t, err)
	assert.False(t, vault.IsZero())
	assert.False(t, IsOnCurve(vault))

	expected, expectedBump, err := solana.FindProgramAddress([][]byte{[]byte("vault"), mint[:]}, programID)
	require.NoError(t, err)
	assert.Equal(t, expected, vault)
	assert.Equal(t, expectedBump, bump)

	again, _, err := FindVaultAddress(mint, programID)
	require.NoError(t, err)
	assert.Equal(t, vault, again, "derivation must be deterministic")

	other, _, err := FindVaultAddress(solana.NewWallet().PublicKey(), programID)
	require.NoError(t, err)
	assert.NotEqual(t, vault, other)
}

func TestIsOnCurve(t *testing.T) {
	assert.True(t, IsOnCurve(solana.NewWallet().PublicKey()))
}

func TestDecodeVault(t *testing.T) {
	want := Vault{
		Admin: solana.NewWallet().PublicKey(),
		Vault: solana.NewWallet().PublicKey(),
		Mint:  solana.NewWallet().PublicKey(),
	}

	buf := new(bytes.Buffer)
	require.NoError(t, bin.NewBorshEncoder(buf).Encode(want))
	require.Equal(t, VaultSize, buf.Len())

	got, err := DecodeVault(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	_, err = DecodeVault(buf.Bytes()[:40])
	assert.Error(t, err)
}
