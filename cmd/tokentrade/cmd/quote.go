package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/lugondev/go-tokentrade/internal/tokentrade"
	"github.com/lugondev/go-tokentrade/pkg/units"
	"github.com/spf13/cobra"
)

var quoteAmount string

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote a swap at the program's fixed rate",
	Long: `Show how many tokens a SOL amount buys at the program's fixed rate, the
reverse quote, and the instruction data each swap would send.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		lamports, err := units.ParseSOL(quoteAmount)
		if err != nil {
			return err
		}
		tokens, err := tokentrade.QuoteSolToToken(lamports)
		if err != nil {
			return err
		}

		buy, err := tokentrade.Instruction{Tag: tokentrade.TagTransferSolToToken, Amount: lamports}.Pack()
		if err != nil {
			return err
		}
		sell, err := tokentrade.Instruction{Tag: tokentrade.TagTransferTokenToSol, Amount: tokens}.Pack()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Rate: 1 lamport = %d token base units\n", tokentrade.TransferRate)
		fmt.Fprintf(out, "  %s SOL (%d lamports) -> %d token base units\n", units.FormatSOL(lamports), lamports, tokens)
		fmt.Fprintf(out, "  %d token base units -> %d lamports\n", tokens, tokentrade.QuoteTokenToSol(tokens))
		fmt.Fprintf(out, "  sol-to-token data: %s\n", hex.EncodeToString(buy))
		fmt.Fprintf(out, "  token-to-sol data: %s\n", hex.EncodeToString(sell))
		return nil
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteAmount, "amount", "0.1", "SOL amount to quote")
	rootCmd.AddCommand(quoteCmd)
}
