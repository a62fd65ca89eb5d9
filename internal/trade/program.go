package trade

import (
	"context"
	"os"

	"github.com/gagliardetto/solana-go"
	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
	chain "github.com/lugondev/go-tokentrade/internal/solana"
)

// LoadProgramID reads the program id from its keypair file.
func LoadProgramID(keypairPath, soPath string) (solana.PublicKey, error) {
	keypair, err := chain.WalletFromFile(keypairPath)
	if err != nil {
		return solana.PublicKey{}, cerrors.ProgramKeypair(keypairPath, soPath, err)
	}
	return keypair.PublicKey(), nil
}

// CheckProgram verifies that programID is deployed and executable. When the
// account is missing, the presence of the build artifact at soPath decides
// between a not-deployed and a not-built error.
func CheckProgram(ctx context.Context, client *chain.Client, programID solana.PublicKey, soPath string) error {
	account, err := client.GetAccountInfo(ctx, programID)
	if err != nil {
		return err
	}
	if account == nil {
		if _, statErr := os.Stat(soPath); statErr == nil {
			return cerrors.ProgramNotDeployed(soPath)
		}
		return cerrors.ErrProgramNotBuilt
	}
	if !account.Executable {
		return cerrors.ErrProgramNotExecutable
	}
	return nil
}
