package cmd

import (
	"fmt"

	"github.com/lugondev/go-tokentrade/internal/config"
	"github.com/lugondev/go-tokentrade/internal/trade"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
)

// flagBindings maps config keys to the persistent flags overriding them.
var flagBindings = map[string]string{
	"solana.rpc":          "rpc",
	"solana.ws":           "ws",
	"solana.network":      "network",
	"solana.commitment":   "commitment",
	"payer.keypair":       "keypair",
	"program.keypair":     "program-keypair",
	"program.so":          "program-so",
	"confirm.mode":        "confirm",
	"log.level":           "log-level",
	"log.format":          "log-format",
	"output.show_tx":      "show-tx",
	"output.program_logs": "program-logs",
}

// rootCmd represents the base command when called with the swap selector
var rootCmd = &cobra.Command{
	Use:   "tokentrade <1|2>",
	Short: "tokentrade CLI - a demonstration client for the tokentrade program",
	Long: `tokentrade provisions a test mint, token accounts and the program vault on a
Solana cluster, initializes the vault and then performs one swap:

  1  swap SOL for tokens
  2  swap tokens for SOL

The program must already be deployed; its keypair is read from
dist/program/TokenTrade-keypair.json unless configured otherwise.`,
	Args:              cobra.ExactArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runTrade,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./.tokentrade.yaml or $HOME/.tokentrade.yaml)")
	flags.String("rpc", "", "Solana RPC endpoint (default from the Solana CLI config)")
	flags.String("ws", "", "Solana websocket endpoint")
	flags.String("network", "", "Solana network (mainnet-beta, devnet, testnet, localnet)")
	flags.String("commitment", "", "commitment level (processed, confirmed, finalized)")
	flags.String("keypair", "", "payer keypair file (default from the Solana CLI config)")
	flags.String("program-keypair", "", "program keypair file")
	flags.String("program-so", "", "program build artifact")
	flags.String("confirm", "", "confirmation mode (poll, websocket)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	flags.Bool("show-tx", false, "print every transaction before sending it")
	flags.Bool("program-logs", false, "print the program's log messages after each program transaction")
}

// skipConfig is the PersistentPreRunE of commands that work offline.
func skipConfig(cmd *cobra.Command, args []string) error {
	return nil
}

func loadConfig(cmd *cobra.Command, args []string) error {
	v := viper.New()
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagBindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

func runTrade(cmd *cobra.Command, args []string) error {
	// Reject the selector before touching the network.
	command, err := trade.ParseCommand(args[0])
	if err != nil {
		return err
	}

	app, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer app.Close()

	runner := trade.NewRunner(app.client, app.settings,
		trade.WithLogger(app.logger),
		trade.WithMetrics(app.metrics),
	)

	state, sig, err := runner.Run(cmd.Context(), command)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run command success: %s\n", command)
	fmt.Fprintf(out, "  Mint:      %s\n", state.Mint)
	fmt.Fprintf(out, "  Vault:     %s\n", state.Vault)
	fmt.Fprintf(out, "  Signature: %s\n", sig)
	fmt.Fprintf(out, "  Explorer:  %s\n", runner.ExplorerURL(sig))
	return nil
}
