// Package tokentrade provides the client-side interface of the tokentrade program:
// instruction encoding, account ordering, vault address derivation, vault state
// decoding and swap quotes.
//
// The instruction layout is owned by the on-chain program:
//
//	Initialize          [0]
//	TransferSolToToken  [1 | amount u64 LE]
//	TransferTokenToSol  [2 | amount u64 LE]
package tokentrade

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
)

// ProgramName is the name of the on-chain program.
const ProgramName = "tokentrade"

// Tag selects the program operation.
type Tag uint8

const (
	// TagInitialize creates the vault account for a mint.
	TagInitialize Tag = iota
	// TagTransferSolToToken pays lamports into the vault and receives tokens.
	TagTransferSolToToken
	// TagTransferTokenToSol pays tokens into the vault and receives lamports.
	TagTransferTokenToSol
)

// String returns the instruction name for the tag.
func (t Tag) String() string {
	switch t {
	case TagInitialize:
		return "Initialize"
	case TagTransferSolToToken:
		return "TransferSolToToken"
	case TagTransferTokenToSol:
		return "TransferTokenToSol"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// HasAmount reports whether the tag is followed by a u64 amount.
func (t Tag) HasAmount() bool {
	return t == TagTransferSolToToken || t == TagTransferTokenToSol
}

// Instruction is the decoded data of a tokentrade instruction.
type Instruction struct {
	Tag    Tag
	Amount uint64
}

// Pack encodes the instruction data.
func (ix Instruction) Pack() ([]byte, error) {
	if ix.Tag > TagTransferTokenToSol {
		return nil, cerrors.InvalidInstruction(ix.Tag.String())
	}

	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint8(uint8(ix.Tag)); err != nil {
		return nil, err
	}
	if ix.Tag.HasAmount() {
		if err := enc.WriteUint64(ix.Amount, binary.LittleEndian); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Unpack decodes instruction data the same way the program does: the first byte
// is the tag and swap tags require at least 8 further bytes for the amount.
func Unpack(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return Instruction{}, cerrors.ErrInvalidInstruction
	}

	dec := bin.NewBinDecoder(data)
	raw, err := dec.ReadUint8()
	if err != nil {
		return Instruction{}, cerrors.DecodeFailed("instruction tag", err)
	}

	ix := Instruction{Tag: Tag(raw)}
	switch ix.Tag {
	case TagInitialize:
		return ix, nil
	case TagTransferSolToToken, TagTransferTokenToSol:
		if dec.Remaining() < 8 {
			return Instruction{}, cerrors.InvalidInstruction(ix.Tag.String()).
				WithDetails(map[string]any{"data_len": len(data)})
		}
		if ix.Amount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
			return Instruction{}, cerrors.DecodeFailed("instruction amount", err)
		}
		return ix, nil
	default:
		return Instruction{}, cerrors.InvalidInstruction(ix.Tag.String())
	}
}

// InitializeAccounts are the accounts of the Initialize instruction.
type InitializeAccounts struct {
	Payer solana.PublicKey
	Vault solana.PublicKey
	Mint  solana.PublicKey
}

// SwapAccounts are the accounts of both swap instructions.
type SwapAccounts struct {
	Payer             solana.PublicKey
	PayerTokenAccount solana.PublicKey
	Program           solana.PublicKey
	Mint              solana.PublicKey
	Vault             solana.PublicKey
	VaultTokenAccount solana.PublicKey
}

// NewInitializeInstruction builds the Initialize instruction.
func NewInitializeInstruction(programID solana.PublicKey, accounts InitializeAccounts) (solana.Instruction, error) {
	data, err := Instruction{Tag: TagInitialize}.Pack()
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.Meta(accounts.Payer).WRITE().SIGNER(),
		solana.Meta(accounts.Vault).WRITE(),
		solana.Meta(accounts.Mint).WRITE(),
		solana.Meta(solana.SystemProgramID),
	}
	return solana.NewInstruction(programID, metas, data), nil
}

// NewTransferSolToTokenInstruction builds the swap paying lamports for tokens.
func NewTransferSolToTokenInstruction(programID solana.PublicKey, accounts SwapAccounts, lamports uint64) (solana.Instruction, error) {
	data, err := Instruction{Tag: TagTransferSolToToken, Amount: lamports}.Pack()
	if err != nil {
		return nil, err
	}

	metas := append(swapMetas(accounts), solana.Meta(solana.SystemProgramID))
	return solana.NewInstruction(programID, metas, data), nil
}

// NewTransferTokenToSolInstruction builds the swap paying tokens for lamports.
func NewTransferTokenToSolInstruction(programID solana.PublicKey, accounts SwapAccounts, tokens uint64) (solana.Instruction, error) {
	data, err := Instruction{Tag: TagTransferTokenToSol, Amount: tokens}.Pack()
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(programID, swapMetas(accounts), data), nil
}

func swapMetas(accounts SwapAccounts) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.Meta(accounts.Payer).WRITE().SIGNER(),
		solana.Meta(accounts.PayerTokenAccount).WRITE(),
		solana.Meta(accounts.Program).WRITE(),
		solana.Meta(accounts.Mint).WRITE(),
		solana.Meta(accounts.Vault).WRITE(),
		solana.Meta(accounts.VaultTokenAccount).WRITE(),
		solana.Meta(solana.TokenProgramID),
	}
}
