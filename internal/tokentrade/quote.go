package tokentrade

import (
	"math/bits"

	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
)

// TransferRate is the fixed number of token base units per lamport.
const TransferRate uint64 = 10

// QuoteSolToToken returns the token base units received for lamports.
func QuoteSolToToken(lamports uint64) (uint64, error) {
	hi, lo := bits.Mul64(lamports, TransferRate)
	if hi != 0 {
		return 0, cerrors.ErrAmountOverflow.WithDetails(map[string]any{"lamports": lamports})
	}
	return lo, nil
}

// QuoteTokenToSol returns the lamports received for token base units.
// The program truncates, so amounts below TransferRate yield zero.
func QuoteTokenToSol(tokens uint64) uint64 {
	return tokens / TransferRate
}
