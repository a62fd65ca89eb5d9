package spltoken

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateMintInstructions(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ixs := NewCreateMintInstructions(payer, mint, payer, 9, 1_461_600)
	require.Len(t, ixs, 2)

	assert.Equal(t, solana.SystemProgramID, ixs[0].ProgramID())
	createAccounts := ixs[0].Accounts()
	require.Len(t, createAccounts, 2)
	assert.Equal(t, payer, createAccounts[0].PublicKey)
	assert.True(t, createAccounts[0].IsSigner)
	assert.Equal(t, mint, createAccounts[1].PublicKey)
	assert.True(t, createAccounts[1].IsSigner)

	assert.Equal(t, TokenProgramID, ixs[1].ProgramID())
	data, err := ixs[1].Data()
	require.NoError(t, err)
	assert.Equal(t, byte(20), data[0], "InitializeMint2 discriminator")
	assert.Equal(t, byte(9), data[1], "decimals")
}

func TestAssociatedAddress(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ata, err := AssociatedAddress(owner, mint)
	require.NoError(t, err)

	expected, _, err := solana.FindProgramAddress(
		[][]byte{owner[:], TokenProgramID[:], mint[:]},
		AssociatedTokenProgramID,
	)
	require.NoError(t, err)
	assert.Equal(t, expected, ata)

	ix := NewCreateAssociatedAccountInstruction(owner, owner, mint)
	assert.Equal(t, AssociatedTokenProgramID, ix.ProgramID())
	assert.Equal(t, ata, ix.Accounts()[1].PublicKey)
}

func TestMintToRoundTrip(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	dest := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()

	ix := NewMintToInstruction(1_000_000_000_000, mint, dest, authority)
	assert.Equal(t, TokenProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)

	parsed, err := ParseMintToInstruction(data)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), parsed.Instruction)
	assert.Equal(t, uint64(1_000_000_000_000), parsed.Amount)
}

func TestParseMintToInstructionRejects(t *testing.T) {
	_, err := ParseMintToInstruction([]byte{7, 1, 2})
	assert.Error(t, err)

	_, err = ParseMintToInstruction([]byte{3, 0, 0, 0, 0, 0, 0, 0, 0})
	assert.Error(t, err)
}
