package tokentrade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotes(t *testing.T) {
	tokens, err := QuoteSolToToken(100_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), tokens)

	assert.Equal(t, uint64(100_000_000), QuoteTokenToSol(1_000_000_000))
	assert.Equal(t, uint64(0), QuoteTokenToSol(9))

	_, err = QuoteSolToToken(^uint64(0)/TransferRate + 1)
	assert.Error(t, err)
}
