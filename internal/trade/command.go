package trade

import (
	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
)

// Command selects the swap executed after setup.
type Command uint8

const (
	// CommandSolToToken swaps SOL for tokens.
	CommandSolToToken Command = 1
	// CommandTokenToSol swaps tokens for SOL.
	CommandTokenToSol Command = 2
)

func (c Command) String() string {
	switch c {
	case CommandSolToToken:
		return "sol-to-token"
	case CommandTokenToSol:
		return "token-to-sol"
	default:
		return "unknown"
	}
}

// ParseCommand maps the positional argument to a command. Only the exact
// strings "1" and "2" are accepted.
func ParseCommand(arg string) (Command, error) {
	switch arg {
	case "1":
		return CommandSolToToken, nil
	case "2":
		return CommandTokenToSol, nil
	default:
		return 0, cerrors.InvalidInstruction(arg)
	}
}
