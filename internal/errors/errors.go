// Package errors defines the error types returned by the tokentrade client.
//
// Every failure surfaced to the CLI is a TradeError carrying a stable code, so
// callers can match on the kind of failure with errors.Is regardless of the
// message or the wrapped cause.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the tokentrade client.
const (
	ErrCodeInvalidInstruction    = "INVALID_INSTRUCTION"
	ErrCodeProgramKeypair        = "PROGRAM_KEYPAIR"
	ErrCodeProgramNotDeployed    = "PROGRAM_NOT_DEPLOYED"
	ErrCodeProgramNotBuilt       = "PROGRAM_NOT_BUILT"
	ErrCodeProgramNotExecutable  = "PROGRAM_NOT_EXECUTABLE"
	ErrCodeKeypair               = "KEYPAIR"
	ErrCodeRPC                   = "RPC_FAILED"
	ErrCodeTransactionFailed     = "TRANSACTION_FAILED"
	ErrCodeConfirmationFailed    = "CONFIRMATION_FAILED"
	ErrCodeConfig                = "CONFIG"
	ErrCodeStageFailed           = "STAGE_FAILED"
	ErrCodeDecodeFailed          = "DECODE_FAILED"
	ErrCodeAmountOverflow        = "AMOUNT_OVERFLOW"
	ErrCodeContextCanceled       = "CONTEXT_CANCELED"
	ErrCodeInvalidAccountAddress = "INVALID_ACCOUNT_ADDRESS"
)

// TradeError represents an error in the tokentrade client.
type TradeError struct {
	// Code is a unique error code for this error type.
	Code string

	// Message is a human-readable error message.
	Message string

	// Cause is the underlying error, if any.
	Cause error

	// Details contains additional error context.
	Details map[string]any
}

// Error implements the error interface.
func (e *TradeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *TradeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the error matches the target by code.
func (e *TradeError) Is(target error) bool {
	t, ok := target.(*TradeError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
// Sentinels are shared, so the receiver is never modified.
func (e *TradeError) WithCause(cause error) *TradeError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetails returns a copy of the error with the given details.
func (e *TradeError) WithDetails(details map[string]any) *TradeError {
	cp := *e
	cp.Details = details
	return &cp
}

// NewError creates a new TradeError.
func NewError(code, message string) *TradeError {
	return &TradeError{
		Code:    code,
		Message: message,
	}
}

// Pre-defined errors for common error cases.
var (
	// ErrInvalidInstruction is returned for an unknown command argument or instruction tag.
	ErrInvalidInstruction = NewError(ErrCodeInvalidInstruction, "invalid instruction")

	// ErrProgramNotDeployed is returned when the program account does not exist but a build artifact does.
	ErrProgramNotDeployed = NewError(ErrCodeProgramNotDeployed, "program is not deployed")

	// ErrProgramNotBuilt is returned when neither the program account nor a build artifact exist.
	ErrProgramNotBuilt = NewError(ErrCodeProgramNotBuilt, "program needs to be built and deployed")

	// ErrProgramNotExecutable is returned when the program account is not executable.
	ErrProgramNotExecutable = NewError(ErrCodeProgramNotExecutable, "program is not executable")

	// ErrProgramKeypair is returned when the program keypair file cannot be read.
	ErrProgramKeypair = NewError(ErrCodeProgramKeypair, "failed to read program keypair")

	// ErrAmountOverflow is returned when a quoted amount does not fit in a u64.
	ErrAmountOverflow = NewError(ErrCodeAmountOverflow, "amount overflows u64")

	// ErrContextCanceled is returned when the context is canceled.
	ErrContextCanceled = NewError(ErrCodeContextCanceled, "context canceled")

	// ErrInvalidAccountAddress is returned when a derived address does not have the expected shape.
	ErrInvalidAccountAddress = NewError(ErrCodeInvalidAccountAddress, "invalid account address")
)

// InvalidInstruction creates an error for an unrecognized instruction selector.
func InvalidInstruction(value string) *TradeError {
	return NewError(ErrCodeInvalidInstruction, fmt.Sprintf("invalid instruction %q", value))
}

// ProgramKeypair creates an error for an unreadable program keypair file.
func ProgramKeypair(path, soPath string, cause error) *TradeError {
	return NewError(ErrCodeProgramKeypair, fmt.Sprintf(
		"failed to read program keypair at '%s'; program may need to be deployed with `solana program deploy %s`",
		path, soPath,
	)).WithCause(cause)
}

// ProgramNotDeployed creates an error telling the user how to deploy the built program.
func ProgramNotDeployed(soPath string) *TradeError {
	return NewError(ErrCodeProgramNotDeployed, fmt.Sprintf(
		"program needs to be deployed with `solana program deploy %s`", soPath,
	))
}

// Keypair creates an error for a keypair that could not be loaded.
func Keypair(path string, cause error) *TradeError {
	return NewError(ErrCodeKeypair, fmt.Sprintf("failed to load keypair %s", path)).WithCause(cause)
}

// RPC creates an error for a failed RPC call.
func RPC(method string, cause error) *TradeError {
	return NewError(ErrCodeRPC, fmt.Sprintf("rpc %s failed", method)).WithCause(cause)
}

// TransactionFailed creates an error for a transaction rejected by the cluster.
func TransactionFailed(signature string, reason any) *TradeError {
	return NewError(ErrCodeTransactionFailed, fmt.Sprintf("transaction %s failed: %v", signature, reason)).
		WithDetails(map[string]any{"signature": signature})
}

// ConfirmationFailed creates an error for a transaction whose confirmation could not be observed.
func ConfirmationFailed(signature string, cause error) *TradeError {
	return NewError(ErrCodeConfirmationFailed, fmt.Sprintf("transaction %s was not confirmed", signature)).
		WithCause(cause)
}

// Config creates a configuration error.
func Config(message string, cause error) *TradeError {
	return NewError(ErrCodeConfig, message).WithCause(cause)
}

// StageFailed creates an error for a failed pipeline stage.
func StageFailed(stage string, cause error) *TradeError {
	return NewError(ErrCodeStageFailed, fmt.Sprintf("stage %s failed", stage)).
		WithCause(cause).
		WithDetails(map[string]any{"stage": stage})
}

// DecodeFailed creates an error for decoding failures.
func DecodeFailed(what string, cause error) *TradeError {
	return NewError(ErrCodeDecodeFailed, fmt.Sprintf("failed to decode %s", what)).WithCause(cause)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Code returns the code of the first TradeError in err's chain, or "".
func Code(err error) string {
	var te *TradeError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
