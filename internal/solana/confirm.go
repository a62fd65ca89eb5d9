package solana

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
)

// Confirmer waits until a submitted signature is confirmed by the cluster.
type Confirmer interface {
	Confirm(ctx context.Context, sig solana.Signature) error
}

// PollingConfig bounds how long a signature status is polled.
type PollingConfig struct {
	Attempts   uint
	Interval   time.Duration
	Commitment rpc.CommitmentType
}

// DefaultPollingConfig polls every 500ms for up to one minute.
func DefaultPollingConfig() PollingConfig {
	return PollingConfig{
		Attempts:   120,
		Interval:   500 * time.Millisecond,
		Commitment: rpc.CommitmentConfirmed,
	}
}

var errNotConfirmed = errors.New("signature not yet confirmed")

// PollingConfirmer confirms signatures with getSignatureStatuses.
type PollingConfirmer struct {
	rpc    *rpc.Client
	config PollingConfig

	// OnPoll is called before every status request.
	OnPoll func(attempt uint)
}

// NewPollingConfirmer creates a confirmer polling through client.
func NewPollingConfirmer(client *rpc.Client, config PollingConfig) *PollingConfirmer {
	if config.Attempts == 0 {
		config.Attempts = 1
	}
	if config.Commitment == "" {
		config.Commitment = rpc.CommitmentConfirmed
	}
	return &PollingConfirmer{rpc: client, config: config}
}

// Confirm polls the signature status until it reaches the configured commitment.
// A transaction error reported by the cluster ends polling immediately.
func (p *PollingConfirmer) Confirm(ctx context.Context, sig solana.Signature) error {
	var attempt uint
	err := retry.Do(
		func() error {
			attempt++
			if p.OnPoll != nil {
				p.OnPoll(attempt)
			}
			return p.check(ctx, sig)
		},
		retry.Context(ctx),
		retry.Attempts(p.config.Attempts),
		retry.Delay(p.config.Interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errNotConfirmed)
		}),
	)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return cerrors.ConfirmationFailed(sig.String(), ctx.Err())
	}
	var tradeErr *cerrors.TradeError
	if errors.As(err, &tradeErr) {
		return err
	}
	return cerrors.ConfirmationFailed(sig.String(), err)
}

func (p *PollingConfirmer) check(ctx context.Context, sig solana.Signature) error {
	result, err := p.rpc.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return cerrors.RPC("getSignatureStatuses", err)
	}
	if result == nil || len(result.Value) == 0 || result.Value[0] == nil {
		return errNotConfirmed
	}

	status := result.Value[0]
	if status.Err != nil {
		return cerrors.TransactionFailed(sig.String(), status.Err)
	}
	if !reached(status.ConfirmationStatus, p.config.Commitment) {
		return errNotConfirmed
	}
	return nil
}

// reached reports whether status satisfies the wanted commitment.
func reached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	rank := func(s string) int {
		switch s {
		case "processed":
			return 1
		case "confirmed":
			return 2
		case "finalized":
			return 3
		default:
			return 0
		}
	}
	got := rank(string(status))
	return got > 0 && got >= rank(string(want))
}

// WebsocketConfirmer confirms signatures through a signature subscription.
type WebsocketConfirmer struct {
	ws         *ws.Client
	commitment rpc.CommitmentType
	timeout    time.Duration
}

// DialWebsocketConfirmer connects to the websocket endpoint. Subscriptions
// wait for commitment, confirmed when empty.
func DialWebsocketConfirmer(ctx context.Context, endpoint string, commitment rpc.CommitmentType, timeout time.Duration) (*WebsocketConfirmer, error) {
	client, err := ws.Connect(ctx, endpoint)
	if err != nil {
		return nil, cerrors.RPC("websocket connect", err)
	}
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	return &WebsocketConfirmer{ws: client, commitment: commitment, timeout: timeout}, nil
}

// Confirm blocks until the signature notification arrives. A transaction
// error in the notification is terminal.
func (w *WebsocketConfirmer) Confirm(ctx context.Context, sig solana.Signature) error {
	sub, err := w.ws.SignatureSubscribe(sig, w.commitment)
	if err != nil {
		return cerrors.RPC("signatureSubscribe", err)
	}
	defer sub.Unsubscribe()

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	got, err := sub.Recv(ctx)
	if err != nil {
		return cerrors.ConfirmationFailed(sig.String(), err)
	}
	if got.Value.Err != nil {
		return cerrors.TransactionFailed(sig.String(), got.Value.Err)
	}
	return nil
}

// Close closes the websocket connection.
func (w *WebsocketConfirmer) Close() error {
	w.ws.Close()
	return nil
}
