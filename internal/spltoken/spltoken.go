// Package spltoken builds the SPL Token and Associated Token Account instructions
// used to provision a test mint:
//   - mint account creation and initialization
//   - associated token account creation
//   - minting supply into a token account
package spltoken

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
)

// SPL Token Program ID
var TokenProgramID = solana.TokenProgramID

// Associated Token Account Program ID
var AssociatedTokenProgramID = solana.SPLAssociatedTokenAccountProgramID

// MintSize is the size of a mint account.
const MintSize = token.MINT_SIZE

// instructionMintTo is the SPL Token MintTo discriminator.
const instructionMintTo = 7

// NewCreateMintInstructions returns the instructions that allocate a mint account
// owned by the token program and initialize it. The mint keypair must sign.
func NewCreateMintInstructions(
	payer, mint, authority solana.PublicKey,
	decimals uint8,
	rentLamports uint64,
) []solana.Instruction {
	createIx := system.NewCreateAccountInstruction(
		rentLamports,
		MintSize,
		TokenProgramID,
		payer,
		mint,
	).Build()

	initializeIx := token.NewInitializeMint2InstructionBuilder().
		SetDecimals(decimals).
		SetMintAuthority(authority).
		SetFreezeAuthority(authority).
		SetMintAccount(mint).
		Build()

	return []solana.Instruction{createIx, initializeIx}
}

// AssociatedAddress returns the associated token account of owner for mint.
// Owner may be off-curve, e.g. a program-derived address.
func AssociatedAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive associated token address: %w", err)
	}
	return ata, nil
}

// NewCreateAssociatedAccountInstruction creates the associated token account of owner for mint.
func NewCreateAssociatedAccountInstruction(payer, owner, mint solana.PublicKey) solana.Instruction {
	return associatedtokenaccount.NewCreateInstruction(payer, owner, mint).Build()
}

// NewMintToInstruction mints amount base units of mint into destination.
func NewMintToInstruction(amount uint64, mint, destination, authority solana.PublicKey) solana.Instruction {
	return token.NewMintToInstruction(
		amount,
		mint,
		destination,
		authority,
		nil,
	).Build()
}

// MintToInstructionData represents the data in a MintTo instruction.
type MintToInstructionData struct {
	Instruction uint8  // Should be 7 for MintTo
	Amount      uint64 // Amount to mint
}

// ParseMintToInstruction parses a MintTo instruction's data.
func ParseMintToInstruction(data []byte) (*MintToInstructionData, error) {
	if len(data) < 9 {
		return nil, fmt.Errorf("insufficient data for mint-to instruction: need 9 bytes, got %d", len(data))
	}

	instruction := data[0]
	if instruction != instructionMintTo {
		return nil, fmt.Errorf("not a mint-to instruction: got %d, expected %d", instruction, instructionMintTo)
	}

	return &MintToInstructionData{
		Instruction: instruction,
		Amount:      binary.LittleEndian.Uint64(data[1:9]),
	}, nil
}
