package solana

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/lugondev/go-tokentrade/internal/common"
	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
	"github.com/lugondev/go-tokentrade/internal/metrics"
	"github.com/tidwall/gjson"
)

// Client wraps the Solana RPC client with the calls the tokentrade client needs.
type Client struct {
	common.LoggerMixin

	rpc        *rpc.Client
	endpoint   string
	commitment rpc.CommitmentType
	confirmer  Confirmer
	metrics    metrics.Metrics

	// txTrace receives a rendering of every transaction before it is sent.
	txTrace io.Writer
}

// Option configures a Client.
type Option func(*Client)

// WithCommitment sets the commitment used for reads and confirmations.
func WithCommitment(commitment rpc.CommitmentType) Option {
	return func(c *Client) {
		c.commitment = commitment
	}
}

// WithConfirmer sets how sent transactions are confirmed.
func WithConfirmer(confirmer Confirmer) Option {
	return func(c *Client) {
		c.confirmer = confirmer
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.SetLogger(logger)
	}
}

// WithTransactionTrace writes every outgoing transaction to w.
func WithTransactionTrace(w io.Writer) Option {
	return func(c *Client) {
		c.txTrace = w
	}
}

// NewClient creates a new Solana client
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		LoggerMixin: common.NewLoggerMixin(),
		rpc:         rpc.New(endpoint),
		endpoint:    endpoint,
		commitment:  rpc.CommitmentConfirmed,
		metrics:     metrics.NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.confirmer == nil {
		config := DefaultPollingConfig()
		config.Commitment = c.commitment
		poller := NewPollingConfirmer(c.rpc, config)
		poller.OnPoll = func(uint) {
			_ = c.metrics.IncrementCounter(context.Background(), metrics.MetricConfirmationPolls, 1)
		}
		c.confirmer = poller
	}
	return c
}

// RPC returns the underlying RPC client.
func (c *Client) RPC() *rpc.Client {
	return c.rpc
}

// Endpoint returns the RPC endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Commitment returns the commitment used by the client.
func (c *Client) Commitment() rpc.CommitmentType {
	return c.commitment
}

// GetVersion returns the version of the cluster node.
func (c *Client) GetVersion(ctx context.Context) (*rpc.GetVersionResult, error) {
	result, err := c.rpc.GetVersion(ctx)
	if err != nil {
		return nil, cerrors.RPC("getVersion", err)
	}
	return result, nil
}

// GetBalance returns the balance of an account in lamports
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	result, err := c.rpc.GetBalance(ctx, pubkey, c.commitment)
	if err != nil {
		return 0, cerrors.RPC("getBalance", err)
	}
	return result.Value, nil
}

// GetAccountInfo returns the account for a given public key, or nil if it does not exist.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.Account, error) {
	result, err := c.rpc.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		return nil, cerrors.RPC("getAccountInfo", err)
	}
	if result == nil || result.Value == nil {
		return nil, nil
	}
	return result.Value, nil
}

// GetTokenBalance returns the raw amount held by a token account.
func (c *Client) GetTokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error) {
	result, err := c.rpc.GetAccountInfoWithOpts(ctx, tokenAccount, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingJSONParsed,
	})
	if err != nil {
		return 0, cerrors.RPC("getAccountInfo", err)
	}
	if result == nil || result.Value == nil || result.Value.Data == nil {
		return 0, cerrors.DecodeFailed("token account", fmt.Errorf("account %s has no data", tokenAccount))
	}

	amount := gjson.GetBytes(result.Value.Data.GetRawJSON(), "parsed.info.tokenAmount.amount")
	if !amount.Exists() {
		return 0, cerrors.DecodeFailed("token account", fmt.Errorf("account %s is not a parsed token account", tokenAccount))
	}
	return amount.Uint(), nil
}

// GetMinimumBalanceForRentExemption returns the rent-exempt minimum for dataSize bytes.
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error) {
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, dataSize, c.commitment)
	if err != nil {
		return 0, cerrors.RPC("getMinimumBalanceForRentExemption", err)
	}
	return lamports, nil
}

// GetLatestBlockhash returns the latest blockhash
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, cerrors.RPC("getLatestBlockhash", err)
	}
	return result.Value.Blockhash, nil
}

// RequestAirdrop requests an airdrop of SOL and waits for its confirmation
// (only works on devnet/testnet/localnet).
func (c *Client) RequestAirdrop(ctx context.Context, pubkey solana.PublicKey, lamports uint64) (solana.Signature, error) {
	sig, err := c.rpc.RequestAirdrop(ctx, pubkey, lamports, c.commitment)
	if err != nil {
		return solana.Signature{}, cerrors.RPC("requestAirdrop", err)
	}
	_ = c.metrics.IncrementCounter(ctx, metrics.MetricAirdropsRequested, 1)

	if err := c.confirmer.Confirm(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

// GetTransactionLogs returns the log messages of a confirmed transaction.
func (c *Client) GetTransactionLogs(ctx context.Context, sig solana.Signature) ([]string, error) {
	maxVersion := uint64(0)
	result, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Commitment:                     c.commitment,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		return nil, cerrors.RPC("getTransaction", err)
	}
	if result == nil || result.Meta == nil {
		return nil, nil
	}
	return result.Meta.LogMessages, nil
}

// SendAndConfirm builds a transaction paid by payer, signs it with payer and
// the extra signers, sends it and waits until it reaches the client's commitment.
func (c *Client) SendAndConfirm(
	ctx context.Context,
	instructions []solana.Instruction,
	payer *Wallet,
	signers ...*Wallet,
) (solana.Signature, error) {
	blockhash, err := c.GetLatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer.PublicKey()))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build transaction: %w", err)
	}

	keys := make(map[solana.PublicKey]solana.PrivateKey, len(signers)+1)
	keys[payer.PublicKey()] = payer.PrivateKey()
	for _, s := range signers {
		keys[s.PublicKey()] = s.PrivateKey()
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if pk, ok := keys[key]; ok {
			return &pk
		}
		return nil
	}); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if c.txTrace != nil {
		fmt.Fprintln(c.txTrace, tx.String())
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		_ = c.metrics.IncrementCounter(ctx, metrics.MetricTransactionsFailed, 1)
		return solana.Signature{}, cerrors.RPC("sendTransaction", err)
	}
	_ = c.metrics.IncrementCounter(ctx, metrics.MetricTransactionsSent, 1)

	c.GetLogger().Debug("transaction sent", "signature", sig.String(), "instructions", len(instructions))

	if err := c.confirmer.Confirm(ctx, sig); err != nil {
		_ = c.metrics.IncrementCounter(ctx, metrics.MetricTransactionsFailed, 1)
		return sig, err
	}
	_ = c.metrics.IncrementCounter(ctx, metrics.MetricTransactionsConfirmed, 1)

	return sig, nil
}

// Close releases the confirmer's resources.
func (c *Client) Close() error {
	if closer, ok := c.confirmer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
