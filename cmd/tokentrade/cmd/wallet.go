package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/lugondev/go-tokentrade/internal/common"
	chain "github.com/lugondev/go-tokentrade/internal/solana"
	"github.com/lugondev/go-tokentrade/pkg/units"
	"github.com/spf13/cobra"
)

var walletOut string

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Wallet management commands",
	Long:  `Commands for managing Solana wallets including generation and balance checks.`,
}

var walletNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new wallet",
	Long: `Generate a new Solana wallet keypair. With --out the keypair is written
in the Solana CLI JSON format, otherwise the private key is printed.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		wallet := chain.NewWallet()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "New wallet generated!")
		fmt.Fprintf(out, "  Public Key:  %s\n", wallet.PublicKey())

		if walletOut != "" {
			if err := wallet.SaveToFile(walletOut); err != nil {
				return err
			}
			fmt.Fprintf(out, "  Saved to:    %s\n", walletOut)
			return nil
		}

		fmt.Fprintf(out, "  Private Key: %s\n", wallet.PrivateKey())
		fmt.Fprintln(out, "\nWARNING: Save your private key securely. Never share it with anyone!")
		return nil
	},
}

var walletBalanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Check wallet balance",
	Long:  `Check the SOL balance of a wallet address on the configured cluster.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pubKey, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return fmt.Errorf("invalid address: %w", err)
		}

		logger := common.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
		client := chain.NewClient(cfg.Solana.GetRPCEndpoint(), chain.WithLogger(logger))
		defer client.Close()

		balance, err := client.GetBalance(cmd.Context(), pubKey)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Address: %s\n", pubKey)
		fmt.Fprintf(out, "Balance: %s SOL (%d lamports)\n", units.FormatSOL(balance), balance)
		return nil
	},
}

func init() {
	walletNewCmd.Flags().StringVarP(&walletOut, "out", "o", "", "write the keypair to this file")

	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletNewCmd)
	walletCmd.AddCommand(walletBalanceCmd)
}
