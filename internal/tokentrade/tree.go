package tokentrade

import (
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/text/format"
	"github.com/gagliardetto/treeout"
)

var accountNames = map[Tag][]string{
	TagInitialize: {"Payer", "Vault", "Mint", "SystemProgram"},
	TagTransferSolToToken: {
		"Payer", "PayerTokenAccount", "Program", "Mint",
		"Vault", "VaultTokenAccount", "TokenProgram", "SystemProgram",
	},
	TagTransferTokenToSol: {
		"Payer", "PayerTokenAccount", "Program", "Mint",
		"Vault", "VaultTokenAccount", "TokenProgram",
	},
}

// DecodedInstruction is a tokentrade instruction together with its accounts,
// as produced by the registered instruction decoder.
type DecodedInstruction struct {
	Instruction
	ProgramID solana.PublicKey
	Accounts  []*solana.AccountMeta
}

var registered sync.Map

// RegisterDecoder registers the instruction decoder for programID so that
// transaction dumps render tokentrade instructions. Repeated calls are no-ops.
func RegisterDecoder(programID solana.PublicKey) {
	if _, loaded := registered.LoadOrStore(programID, struct{}{}); loaded {
		return
	}
	solana.RegisterInstructionDecoder(programID, func(accounts []*solana.AccountMeta, data []byte) (any, error) {
		return DecodeInstruction(programID, accounts, data)
	})
}

// DecodeInstruction decodes instruction data and attaches its accounts.
func DecodeInstruction(programID solana.PublicKey, accounts []*solana.AccountMeta, data []byte) (*DecodedInstruction, error) {
	ix, err := Unpack(data)
	if err != nil {
		return nil, err
	}
	return &DecodedInstruction{Instruction: ix, ProgramID: programID, Accounts: accounts}, nil
}

// EncodeToTree renders the instruction for solana-go's transaction printer.
func (d *DecodedInstruction) EncodeToTree(parent treeout.Branches) {
	parent.Child(format.Program(ProgramName, d.ProgramID)).
		ParentFunc(func(programBranch treeout.Branches) {
			programBranch.Child(format.Instruction(d.Tag.String())).
				ParentFunc(func(instructionBranch treeout.Branches) {
					if d.Tag.HasAmount() {
						instructionBranch.Child("Params[len=1]").ParentFunc(func(paramsBranch treeout.Branches) {
							paramsBranch.Child(format.Param("Amount", d.Amount))
						})
					}

					names := accountNames[d.Tag]
					instructionBranch.Child(fmt.Sprintf("Accounts[len=%d]", len(d.Accounts))).
						ParentFunc(func(accountsBranch treeout.Branches) {
							for i, meta := range d.Accounts {
								name := fmt.Sprintf("Account%d", i)
								if i < len(names) {
									name = names[i]
								}
								accountsBranch.Child(format.Meta(name, meta))
							}
						})
				})
		})
}
