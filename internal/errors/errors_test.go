package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeErrorIsMatchesByCode(t *testing.T) {
	err := InvalidInstruction("3")
	assert.True(t, errors.Is(err, ErrInvalidInstruction))
	assert.False(t, errors.Is(err, ErrProgramNotDeployed))
	assert.Equal(t, `INVALID_INSTRUCTION: invalid instruction "3"`, err.Error())
}

func TestStageFailedKeepsCause(t *testing.T) {
	err := StageFailed("check_program", ProgramNotDeployed("dist/program/tokentrade.so"))

	assert.True(t, Is(err, ErrProgramNotDeployed))
	assert.Equal(t, ErrCodeStageFailed, Code(err))
	assert.Equal(t, "check_program", err.Details["stage"])
	assert.Contains(t, err.Error(), "solana program deploy dist/program/tokentrade.so")
}

func TestWithCauseDoesNotMutateSentinel(t *testing.T) {
	cause := errors.New("boom")
	err := ErrContextCanceled.WithCause(cause)

	assert.Nil(t, ErrContextCanceled.Cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrContextCanceled)
}

func TestCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("fund payer: %w", RPC("getBalance", errors.New("connection refused")))

	var te *TradeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, ErrCodeRPC, te.Code)
	assert.Equal(t, ErrCodeRPC, Code(fmt.Errorf("outer: %w", err)))
}

func TestCodeWithoutTradeError(t *testing.T) {
	assert.Empty(t, Code(errors.New("plain")))
}

func TestTransactionFailedDetails(t *testing.T) {
	err := TransactionFailed("sig", map[string]any{"InstructionError": []any{0, "Custom"}})
	assert.Equal(t, "sig", err.Details["signature"])
	assert.Nil(t, err.Cause)
}
