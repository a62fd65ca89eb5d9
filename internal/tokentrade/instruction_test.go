package tokentrade

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack(t *testing.T) {
	data, err := Instruction{Tag: TagInitialize}.Pack()
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, data)

	data, err = Instruction{Tag: TagTransferSolToToken, Amount: 100_000_000}.Pack()
	require.NoError(t, err)
	require.Len(t, data, 9)
	assert.Equal(t, byte(1), data[0])
	assert.Equal(t, uint64(100_000_000), binary.LittleEndian.Uint64(data[1:]))

	data, err = Instruction{Tag: TagTransferTokenToSol, Amount: 1_000_000_000}.Pack()
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0x00, 0xca, 0x9a, 0x3b, 0, 0, 0, 0}, data)

	_, err = Instruction{Tag: Tag(7)}.Pack()
	assert.True(t, cerrors.Is(err, cerrors.ErrInvalidInstruction))
}

func TestUnpack(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Instruction
	}{
		{"initialize", []byte{0}, Instruction{Tag: TagInitialize}},
		{"initialize ignores trailing bytes", []byte{0, 9, 9}, Instruction{Tag: TagInitialize}},
		{"sol to token", []byte{1, 1, 0, 0, 0, 0, 0, 0, 0}, Instruction{Tag: TagTransferSolToToken, Amount: 1}},
		{"token to sol", []byte{2, 0, 1, 0, 0, 0, 0, 0, 0}, Instruction{Tag: TagTransferTokenToSol, Amount: 256}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := Unpack(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ix)
		})
	}
}

func TestUnpackRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unknown tag", []byte{3}},
		{"missing amount", []byte{1}},
		{"short amount", []byte{2, 1, 2, 3, 4, 5, 6, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unpack(tt.data)
			assert.True(t, cerrors.Is(err, cerrors.ErrInvalidInstruction), "got %v", err)
		})
	}
}

func TestInitializeInstructionAccounts(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	accounts := InitializeAccounts{
		Payer: solana.NewWallet().PublicKey(),
		Vault: solana.NewWallet().PublicKey(),
		Mint:  solana.NewWallet().PublicKey(),
	}

	ix, err := NewInitializeInstruction(programID, accounts)
	require.NoError(t, err)
	assert.Equal(t, programID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(TagInitialize)}, data)

	metas := ix.Accounts()
	require.Len(t, metas, 4)
	assertMeta(t, metas[0], accounts.Payer, true, true)
	assertMeta(t, metas[1], accounts.Vault, true, false)
	assertMeta(t, metas[2], accounts.Mint, true, false)
	assertMeta(t, metas[3], solana.SystemProgramID, false, false)
}

func TestSwapInstructionAccounts(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	accounts := SwapAccounts{
		Payer:             solana.NewWallet().PublicKey(),
		PayerTokenAccount: solana.NewWallet().PublicKey(),
		Program:           programID,
		Mint:              solana.NewWallet().PublicKey(),
		Vault:             solana.NewWallet().PublicKey(),
		VaultTokenAccount: solana.NewWallet().PublicKey(),
	}

	t.Run("sol to token", func(t *testing.T) {
		ix, err := NewTransferSolToTokenInstruction(programID, accounts, 100_000_000)
		require.NoError(t, err)

		metas := ix.Accounts()
		require.Len(t, metas, 8)
		assertSwapMetas(t, metas, accounts)
		assertMeta(t, metas[7], solana.SystemProgramID, false, false)

		data, err := ix.Data()
		require.NoError(t, err)
		decoded, err := Unpack(data)
		require.NoError(t, err)
		assert.Equal(t, Instruction{Tag: TagTransferSolToToken, Amount: 100_000_000}, decoded)
	})

	t.Run("token to sol", func(t *testing.T) {
		ix, err := NewTransferTokenToSolInstruction(programID, accounts, 1_000_000_000)
		require.NoError(t, err)

		metas := ix.Accounts()
		require.Len(t, metas, 7)
		assertSwapMetas(t, metas, accounts)

		data, err := ix.Data()
		require.NoError(t, err)
		decoded, err := Unpack(data)
		require.NoError(t, err)
		assert.Equal(t, Instruction{Tag: TagTransferTokenToSol, Amount: 1_000_000_000}, decoded)
	})
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "Initialize", TagInitialize.String())
	assert.Equal(t, "TransferSolToToken", TagTransferSolToToken.String())
	assert.Equal(t, "TransferTokenToSol", TagTransferTokenToSol.String())
	assert.Equal(t, "Unknown(9)", Tag(9).String())
	assert.False(t, TagInitialize.HasAmount())
	assert.True(t, TagTransferSolToToken.HasAmount())
}

func TestDecodeInstruction(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	metas := []*solana.AccountMeta{solana.Meta(programID)}

	decoded, err := DecodeInstruction(programID, metas, []byte{1, 10, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, TagTransferSolToToken, decoded.Tag)
	assert.Equal(t, uint64(10), decoded.Amount)
	assert.Equal(t, programID, decoded.ProgramID)
	assert.Len(t, decoded.Accounts, 1)

	_, err = DecodeInstruction(programID, metas, []byte{5})
	assert.Error(t, err)
}

func assertSwapMetas(t *testing.T, metas []*solana.AccountMeta, accounts SwapAccounts) {
	t.Helper()
	assertMeta(t, metas[0], accounts.Payer, true, true)
	assertMeta(t, metas[1], accounts.PayerTokenAccount, true, false)
	assertMeta(t, metas[2], accounts.Program, true, false)
	assertMeta(t, metas[3], accounts.Mint, true, false)
	assertMeta(t, metas[4], accounts.Vault, true, false)
	assertMeta(t, metas[5], accounts.VaultTokenAccount, true, false)
	assertMeta(t, metas[6], solana.TokenProgramID, false, false)
}

func assertMeta(t *testing.T, meta *solana.AccountMeta, key solana.PublicKey, writable, signer bool) {
	t.Helper()
	assert.Equal(t, key, meta.PublicKey)
	assert.Equal(t, writable, meta.IsWritable, "writable flag of %s", key)
	assert.Equal(t, signer, meta.IsSigner, "signer flag of %s", key)
}
