// Package trade drives a tokentrade demonstration run: it provisions a payer,
// a mint, token accounts and the program vault, initializes the vault and then
// submits one swap.
package trade

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/lugondev/go-tokentrade/internal/common"
	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
	"github.com/lugondev/go-tokentrade/internal/metrics"
	"github.com/lugondev/go-tokentrade/internal/pipeline"
	chain "github.com/lugondev/go-tokentrade/internal/solana"
	"github.com/lugondev/go-tokentrade/internal/tokentrade"
	"github.com/lugondev/go-tokentrade/pkg/units"
)

// Stage names of the setup pipeline, in execution order.
const (
	StageConnect                 = "connect"
	StageFundPayer               = "fund_payer"
	StageCreateMint              = "create_mint"
	StageCreatePayerTokenAccount = "create_payer_token_account"
	StageMintToPayer             = "mint_to_payer"
	StageCheckProgram            = "check_program"
	StageDeriveVault             = "derive_vault"
	StageCreateVaultTokenAccount = "create_vault_token_account"
	StageMintToVault             = "mint_to_vault"
	StageInitialize              = "initialize"
	StageFundVault               = "fund_vault"
)

// State is threaded through the setup stages. Each stage fills in the fields
// later stages and the swap commands rely on.
type State struct {
	RunID string

	Payer             *chain.Wallet
	Mint              solana.PublicKey
	PayerTokenAccount solana.PublicKey
	ProgramID         solana.PublicKey
	Vault             solana.PublicKey
	VaultBump         uint8
	VaultTokenAccount solana.PublicKey

	// Signatures holds the transaction sent by each stage or command.
	Signatures map[string]solana.Signature

	// Completed lists the setup stages that finished, in order.
	Completed []string
}

func (s *State) record(name string, sig solana.Signature) {
	if s.Signatures == nil {
		s.Signatures = make(map[string]solana.Signature)
	}
	s.Signatures[name] = sig
}

// Runner executes the setup pipeline and swap commands against a cluster.
type Runner struct {
	common.LoggerMixin

	client   *chain.Client
	settings Settings
	metrics  *metrics.Collection
	runID    string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.SetLogger(logger)
	}
}

// WithMetrics sets the metrics collection.
func WithMetrics(mc *metrics.Collection) Option {
	return func(r *Runner) {
		if mc != nil {
			r.metrics = mc
		}
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// NewRunner creates a Runner. Every log line carries the run id.
func NewRunner(client *chain.Client, settings Settings, opts ...Option) *Runner {
	r := &Runner{
		LoggerMixin: common.NewLoggerMixin(),
		client:      client,
		settings:    settings,
		metrics:     metrics.NewCollection(),
		runID:       uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.SetLogger(r.GetLogger().With("run_id", r.runID))
	return r
}

// RunID returns the id attached to this run's logs.
func (r *Runner) RunID() string {
	return r.runID
}

// Pipeline returns the setup pipeline.
func (r *Runner) Pipeline() *pipeline.Pipeline[State] {
	return pipeline.NewPipelineBuilder[State]().
		Logger(r.GetLogger()).
		Metrics(r.metrics).
		Stage(StageConnect, r.connect).
		Stage(StageFundPayer, r.fundPayer).
		Stage(StageCreateMint, r.createMint).
		Stage(StageCreatePayerTokenAccount, r.createPayerTokenAccount).
		Stage(StageMintToPayer, r.mintToPayer).
		Stage(StageCheckProgram, r.checkProgram).
		Stage(StageDeriveVault, r.deriveVault).
		Stage(StageCreateVaultTokenAccount, r.createVaultTokenAccount).
		Stage(StageMintToVault, r.mintToVault).
		Stage(StageInitialize, r.initialize).
		Stage(StageFundVault, r.fundVault).
		AfterStage(r.afterStage).
		Build()
}

func (r *Runner) afterStage(stage string, state *State, elapsed time.Duration, err error) {
	if err != nil {
		return
	}
	state.Completed = append(state.Completed, stage)
	r.GetLogger().Info("stage done", "stage", stage, "step", len(state.Completed), "elapsed", elapsed)
}

// Setup runs every setup stage and returns the populated state.
func (r *Runner) Setup(ctx context.Context) (*State, error) {
	state := &State{RunID: r.runID}
	p := r.Pipeline()
	if err := p.Run(ctx, state); err != nil {
		names := p.StageNames()
		r.GetLogger().Error("setup stopped",
			"completed", len(state.Completed),
			"total", len(names),
			"skipped", names[min(len(state.Completed)+1, len(names)):],
		)
		return state, err
	}
	return state, nil
}

// Run performs the setup and then the selected command.
func (r *Runner) Run(ctx context.Context, cmd Command) (*State, solana.Signature, error) {
	start := time.Now()

	state, err := r.Setup(ctx)
	if err != nil {
		return state, solana.Signature{}, err
	}

	sig, err := r.Execute(ctx, state, cmd)
	if err != nil {
		return state, sig, err
	}

	r.GetLogger().Info("run command success", "command", cmd.String(), "elapsed", time.Since(start))
	return state, sig, nil
}

// Execute dispatches a command against a state produced by Setup.
func (r *Runner) Execute(ctx context.Context, state *State, cmd Command) (solana.Signature, error) {
	switch cmd {
	case CommandSolToToken:
		return r.TransferSolToToken(ctx, state)
	case CommandTokenToSol:
		return r.TransferTokenToSol(ctx, state)
	default:
		return solana.Signature{}, cerrors.InvalidInstruction(cmd.String())
	}
}

func (r *Runner) connect(ctx context.Context, _ *State) error {
	version, err := r.client.GetVersion(ctx)
	if err != nil {
		return err
	}
	r.GetLogger().Info("connection to cluster established",
		"rpc", r.client.Endpoint(),
		"version", version.SolanaCore,
	)
	return nil
}

func (r *Runner) fundPayer(ctx context.Context, state *State) error {
	payer, err := r.loadPayer()
	if err != nil {
		return err
	}
	state.Payer = payer

	if err := r.airdropIfNeeded(ctx, payer.PublicKey(), metrics.MetricPayerBalanceLamports); err != nil {
		return err
	}
	r.GetLogger().Info("using payer", "payer", payer.String())
	return nil
}

// loadPayer reads the payer keypair, generating a throwaway one when no
// keypair file exists.
func (r *Runner) loadPayer() (*chain.Wallet, error) {
	path := r.settings.PayerKeypair
	if path != "" {
		wallet, err := chain.WalletFromFile(path)
		if err == nil {
			return wallet, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, cerrors.Keypair(path, err)
		}
	}

	wallet := chain.NewWallet()
	r.GetLogger().Warn("payer keypair not found, using a generated keypair",
		"path", path,
		"payer", wallet.String(),
	)
	return wallet, nil
}

func (r *Runner) airdropIfNeeded(ctx context.Context, beneficiary solana.PublicKey, gauge string) error {
	balance, err := r.client.GetBalance(ctx, beneficiary)
	if err != nil {
		return err
	}
	r.GetLogger().Info("current balance", "account", beneficiary.String(), "sol", units.FormatSOL(balance))

	if balance >= r.settings.AirdropThreshold {
		_ = r.metrics.UpdateGauge(ctx, gauge, float64(balance))
		return nil
	}

	r.GetLogger().Info("airdropping", "account", beneficiary.String(), "sol", units.FormatSOL(r.settings.AirdropLamports))
	if _, err := r.client.RequestAirdrop(ctx, beneficiary, r.settings.AirdropLamports); err != nil {
		return err
	}

	balance, err = r.client.GetBalance(ctx, beneficiary)
	if err != nil {
		return err
	}
	_ = r.metrics.UpdateGauge(ctx, gauge, float64(balance))
	r.GetLogger().Info("balance after airdrop", "account", beneficiary.String(), "sol", units.FormatSOL(balance))
	return nil
}

func (r *Runner) createMint(ctx context.Context, state *State) error {
	mint, err := r.client.CreateMint(ctx, state.Payer, r.settings.Decimals)
	if err != nil {
		return err
	}
	state.Mint = mint.PublicKey()
	r.GetLogger().Info("mint created", "mint", state.Mint.String(), "decimals", r.settings.Decimals)
	return nil
}

func (r *Runner) createPayerTokenAccount(ctx context.Context, state *State) error {
	ata, err := r.client.GetOrCreateAssociatedTokenAccount(ctx, state.Payer, state.Mint, state.Payer.PublicKey())
	if err != nil {
		return err
	}
	state.PayerTokenAccount = ata
	r.GetLogger().Info("using payer token account", "account", ata.String())
	return nil
}

func (r *Runner) mintToPayer(ctx context.Context, state *State) error {
	sig, err := r.client.MintTo(ctx, state.Payer, state.Mint, state.PayerTokenAccount, state.Payer, r.settings.Supply)
	if err != nil {
		return err
	}
	state.record(StageMintToPayer, sig)
	r.GetLogger().Info("minted tokens",
		"amount", units.FormatUnits(r.settings.Supply, r.settings.Decimals),
		"account", state.PayerTokenAccount.String(),
	)
	return nil
}

func (r *Runner) checkProgram(ctx context.Context, state *State) error {
	programID, err := LoadProgramID(r.settings.ProgramKeypair, r.settings.ProgramSO)
	if err != nil {
		return err
	}

	if err := CheckProgram(ctx, r.client, programID, r.settings.ProgramSO); err != nil {
		return err
	}

	state.ProgramID = programID
	r.GetLogger().Info("using program", "program", programID.String())
	return nil
}

func (r *Runner) deriveVault(_ context.Context, state *State) error {
	vault, bump, err := tokentrade.FindVaultAddress(state.Mint, state.ProgramID)
	if err != nil {
		return err
	}
	state.Vault = vault
	state.VaultBump = bump
	r.GetLogger().Info("using vault", "vault", vault.String(), "bump", bump)
	return nil
}

func (r *Runner) createVaultTokenAccount(ctx context.Context, state *State) error {
	ata, err := r.client.GetOrCreateAssociatedTokenAccount(ctx, state.Payer, state.Mint, state.Vault)
	if err != nil {
		return err
	}
	state.VaultTokenAccount = ata
	r.GetLogger().Info("using vault token account", "account", ata.String())
	return nil
}

func (r *Runner) mintToVault(ctx context.Context, state *State) error {
	sig, err := r.client.MintTo(ctx, state.Payer, state.Mint, state.VaultTokenAccount, state.Payer, r.settings.Supply)
	if err != nil {
		return err
	}
	state.record(StageMintToVault, sig)
	r.GetLogger().Info("minted tokens",
		"amount", units.FormatUnits(r.settings.Supply, r.settings.Decimals),
		"account", state.VaultTokenAccount.String(),
	)
	return nil
}

func (r *Runner) initialize(ctx context.Context, state *State) error {
	sig, err := r.sendInitialize(ctx, state)
	if err != nil {
		return err
	}
	state.record(StageInitialize, sig)
	r.GetLogger().Info("finish initialize", "signature", sig.String(), "explorer", r.ExplorerURL(sig))
	return nil
}

// fundVault airdrops to the vault once it exists on-chain.
func (r *Runner) fundVault(ctx context.Context, state *State) error {
	return r.airdropIfNeeded(ctx, state.Vault, metrics.MetricVaultBalanceLamports)
}
