package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/lugondev/go-tokentrade/internal/common"
	chain "github.com/lugondev/go-tokentrade/internal/solana"
	"github.com/lugondev/go-tokentrade/internal/trade"
	"github.com/lugondev/go-tokentrade/pkg/units"
	"github.com/spf13/cobra"
)

var (
	vaultMint    string
	vaultProgram string
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Inspect the vault of a mint",
	Long:  `Derive the vault address of a mint and print its on-chain state and token balance.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mint, err := solana.PublicKeyFromBase58(vaultMint)
		if err != nil {
			return fmt.Errorf("invalid mint: %w", err)
		}

		var programID solana.PublicKey
		if vaultProgram != "" {
			if programID, err = solana.PublicKeyFromBase58(vaultProgram); err != nil {
				return fmt.Errorf("invalid program: %w", err)
			}
		} else if programID, err = trade.LoadProgramID(cfg.Program.Keypair, cfg.Program.SO); err != nil {
			return err
		}

		logger := common.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
		client := chain.NewClient(cfg.Solana.GetRPCEndpoint(), chain.WithLogger(logger))
		defer client.Close()

		report, err := trade.InspectVault(cmd.Context(), client, programID, mint)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Vault: %s (bump %d)\n", report.Address, report.Bump)
		if !report.Exists {
			fmt.Fprintln(out, "  not initialized")
		} else {
			fmt.Fprintf(out, "  Lamports: %s SOL\n", units.FormatSOL(report.Lamports))
			if report.State != nil {
				fmt.Fprintf(out, "  Admin:    %s\n", report.State.Admin)
				fmt.Fprintf(out, "  Mint:     %s\n", report.State.Mint)
			}
		}
		fmt.Fprintf(out, "Token account: %s\n", report.TokenAccount)
		if report.TokenAccountExists {
			fmt.Fprintf(out, "  Balance: %d\n", report.TokenBalance)
		} else {
			fmt.Fprintln(out, "  not created")
		}
		return nil
	},
}

func init() {
	vaultCmd.Flags().StringVar(&vaultMint, "mint", "", "mint address")
	vaultCmd.Flags().StringVar(&vaultProgram, "program", "", "program id (default from the program keypair)")
	_ = vaultCmd.MarkFlagRequired("mint")
	rootCmd.AddCommand(vaultCmd)
}
