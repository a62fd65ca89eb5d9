package trade

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/lugondev/go-tokentrade/internal/tokentrade"
	"github.com/lugondev/go-tokentrade/pkg/programlog"
	"github.com/lugondev/go-tokentrade/pkg/units"
)

func (s *State) swapAccounts() tokentrade.SwapAccounts {
	return tokentrade.SwapAccounts{
		Payer:             s.Payer.PublicKey(),
		PayerTokenAccount: s.PayerTokenAccount,
		Program:           s.ProgramID,
		Mint:              s.Mint,
		Vault:             s.Vault,
		VaultTokenAccount: s.VaultTokenAccount,
	}
}

func (r *Runner) sendInitialize(ctx context.Context, state *State) (solana.Signature, error) {
	tokentrade.RegisterDecoder(state.ProgramID)

	ix, err := tokentrade.NewInitializeInstruction(state.ProgramID, tokentrade.InitializeAccounts{
		Payer: state.Payer.PublicKey(),
		Vault: state.Vault,
		Mint:  state.Mint,
	})
	if err != nil {
		return solana.Signature{}, err
	}
	return r.send(ctx, state, ix)
}

// TransferSolToToken swaps the configured SOL amount for tokens.
func (r *Runner) TransferSolToToken(ctx context.Context, state *State) (solana.Signature, error) {
	tokentrade.RegisterDecoder(state.ProgramID)

	lamports := r.settings.SwapLamports
	ix, err := tokentrade.NewTransferSolToTokenInstruction(state.ProgramID, state.swapAccounts(), lamports)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := r.send(ctx, state, ix)
	if err != nil {
		return sig, err
	}
	state.record(CommandSolToToken.String(), sig)

	r.GetLogger().Info("finish transfer sol to token",
		"sol", units.FormatSOL(lamports),
		"signature", sig.String(),
		"explorer", r.ExplorerURL(sig),
	)
	return sig, nil
}

// TransferTokenToSol sells the token amount quoted for the configured SOL amount.
func (r *Runner) TransferTokenToSol(ctx context.Context, state *State) (solana.Signature, error) {
	tokentrade.RegisterDecoder(state.ProgramID)

	tokens, err := tokentrade.QuoteSolToToken(r.settings.SwapLamports)
	if err != nil {
		return solana.Signature{}, err
	}
	ix, err := tokentrade.NewTransferTokenToSolInstruction(state.ProgramID, state.swapAccounts(), tokens)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := r.send(ctx, state, ix)
	if err != nil {
		return sig, err
	}
	state.record(CommandTokenToSol.String(), sig)

	r.GetLogger().Info("finish transfer token to sol",
		"tokens", units.FormatUnits(tokens, r.settings.Decimals),
		"signature", sig.String(),
		"explorer", r.ExplorerURL(sig),
	)
	return sig, nil
}

func (r *Runner) send(ctx context.Context, state *State, ix solana.Instruction) (solana.Signature, error) {
	sig, err := r.client.SendAndConfirm(ctx, []solana.Instruction{ix}, state.Payer)
	if err != nil {
		return sig, err
	}
	if r.settings.ProgramLogs {
		r.logProgramOutput(ctx, state.ProgramID, sig)
	}
	return sig, nil
}

// logProgramOutput prints the log lines the program emitted in sig.
func (r *Runner) logProgramOutput(ctx context.Context, programID solana.PublicKey, sig solana.Signature) {
	logs, err := r.client.GetTransactionLogs(ctx, sig)
	if err != nil {
		r.GetLogger().Warn("failed to fetch program logs", "signature", sig.String(), "error", err)
		return
	}

	parser := programlog.NewParser()
	for _, msg := range parser.ProgramMessages(programID.String(), logs) {
		r.GetLogger().Info("program log", "program", programID.String(), "message", msg)
	}

	summary := parser.Summarize(programID.String(), logs)
	r.GetLogger().Debug("program summary",
		"invocations", summary.Invocations,
		"compute_units", summary.ComputeUnits,
		"failed", summary.Failed,
	)
}
