package programlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tradeProgram  = "TradeProgram1111111111111111111111111111111"
	tokenProgram  = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	systemProgram = "11111111111111111111111111111111"
)

var swapLogs = []string{
	"Program " + tradeProgram + " invoke [1]",
	"Program log: Instruction: TransferSolToToken",
	"Program " + systemProgram + " invoke [2]",
	"Program " + systemProgram + " success",
	"Program " + tokenProgram + " invoke [2]",
	"Program log: Instruction: Transfer",
	"Program " + tokenProgram + " consumed 4645 of 192877 compute units",
	"Program " + tokenProgram + " success",
	"Program log: transferred 1000000000 tokens",
	"Program data: aGVsbG8=",
	"Program " + tradeProgram + " consumed 12000 of 200000 compute units",
	"Program " + tradeProgram + " success",
}

func TestParseLine(t *testing.T) {
	p := NewParser()

	tests := []struct {
		msg     string
		kind    Kind
		program string
	}{
		{"Program " + tradeProgram + " invoke [1]", KindInvoke, tradeProgram},
		{"Program " + tradeProgram + " success", KindSuccess, tradeProgram},
		{"Program " + tradeProgram + " failed: custom program error: 0x1", KindFailed, tradeProgram},
		{"Program log: hello", KindLog, ""},
		{"Program data: aGVsbG8=", KindData, ""},
		{"Program " + tradeProgram + " consumed 10 of 200000 compute units", KindComputeUnits, tradeProgram},
		{"Program return: abc", KindUnknown, ""},
		{"Program log: swap success", KindLog, ""},
	}
	for _, tt := range tests {
		line := p.ParseLine(tt.msg)
		assert.Equal(t, tt.kind, line.Kind, tt.msg)
		assert.Equal(t, tt.program, line.ProgramID, tt.msg)
		assert.Equal(t, tt.msg, line.Raw)
	}

	failed := p.ParseLine("Program " + tradeProgram + " failed: custom program error: 0x1")
	assert.Equal(t, "custom program error: 0x1", failed.Message)

	data := p.ParseLine("Program data: aGVsbG8=")
	assert.Equal(t, []byte("hello"), data.Data)
}

func TestParseAttributesLines(t *testing.T) {
	lines := NewParser().Parse(swapLogs)
	require.Len(t, lines, len(swapLogs))

	assert.Equal(t, tradeProgram, lines[1].ProgramID)
	assert.Equal(t, 1, lines[1].Depth)
	assert.Equal(t, tokenProgram, lines[5].ProgramID)
	assert.Equal(t, 2, lines[5].Depth)
	assert.Equal(t, tradeProgram, lines[8].ProgramID, "stack pops back to the outer program")
}

func TestProgramMessages(t *testing.T) {
	p := NewParser()

	assert.Equal(t,
		[]string{"Instruction: TransferSolToToken", "transferred 1000000000 tokens"},
		p.ProgramMessages(tradeProgram, swapLogs),
	)
	assert.Equal(t, []string{"Instruction: Transfer"}, p.ProgramMessages(tokenProgram, swapLogs))
	assert.Empty(t, p.ProgramMessages("Unknown111", swapLogs))

	assert.Equal(t, [][]byte{[]byte("hello")}, p.ProgramData(tradeProgram, swapLogs))
}

func TestSummarize(t *testing.T) {
	p := NewParser()

	s := p.Summarize(tradeProgram, swapLogs)
	assert.Equal(t, 1, s.Invocations)
	assert.Equal(t, uint64(12000), s.ComputeUnits)
	assert.False(t, s.Failed)

	failing := []string{
		"Program " + tradeProgram + " invoke [1]",
		"Program log: Error: insufficient funds",
		"Program " + tradeProgram + " consumed 900 of 200000 compute units",
		"Program " + tradeProgram + " failed: custom program error: 0x1",
	}
	s = p.Summarize(tradeProgram, failing)
	assert.True(t, s.Failed)
	assert.Equal(t, "custom program error: 0x1", s.FailReason)
	assert.Equal(t, uint64(900), s.ComputeUnits)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Invoke", KindInvoke.String())
	assert.Equal(t, "ComputeUnits", KindComputeUnits.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
