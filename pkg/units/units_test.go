package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		decimals uint8
		expected uint64
	}{
		{"swap amount", "0.1", 9, 100_000_000},
		{"initial supply", "1000", 9, 1_000_000_000_000},
		{"one sol", "1", 9, 1_000_000_000},
		{"zero", "0", 9, 0},
		{"no decimals", "42", 0, 42},
		{"smallest unit", "0.000000001", 9, 1},
		{"six decimals", "1.5", 6, 1_500_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBaseUnits(tt.input, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToBaseUnitsRejects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		decimals uint8
	}{
		{"garbage", "abc", 9},
		{"negative", "-1", 9},
		{"too precise", "0.0000000001", 9},
		{"overflow", "18446744073709551616", 0},
		{"overflow after shift", "18446744074", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToBaseUnits(tt.input, tt.decimals)
			assert.Error(t, err)
		})
	}
}

func TestParseSOL(t *testing.T) {
	lamports, err := ParseSOL("0.1")
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000_000), lamports)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.1", FormatSOL(100_000_000))
	assert.Equal(t, "1000", FormatUnits(1_000_000_000_000, 9))
	assert.Equal(t, "0", FormatSOL(0))
	assert.Equal(t, "1.5", FormatUnits(1_500_000, 6))
}
