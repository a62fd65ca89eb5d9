// Package units converts between human-readable token amounts and on-chain base units.
//
// Conversions are decimal-exact: "0.1" SOL is exactly 100000000 lamports, and an
// amount with more fractional digits than the mint supports is rejected instead
// of being rounded.
package units

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// SOLDecimals is the number of decimal places of a lamport amount.
const SOLDecimals = 9

var maxUint64 = new(big.Int).SetUint64(^uint64(0))

// ToBaseUnits converts a decimal string such as "1000" or "0.25" into base units
// for a mint with the given number of decimals.
func ToBaseUnits(value string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("invalid amount %q: must not be negative", value)
	}

	shifted := d.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("invalid amount %q: more than %d decimal places", value, decimals)
	}

	n := shifted.BigInt()
	if n.Cmp(maxUint64) > 0 {
		return 0, fmt.Errorf("invalid amount %q: exceeds u64", value)
	}
	return n.Uint64(), nil
}

// ParseSOL converts a SOL amount string into lamports.
func ParseSOL(value string) (uint64, error) {
	return ToBaseUnits(value, SOLDecimals)
}

// FormatUnits renders a base-unit amount as a decimal string with trailing zeros trimmed.
func FormatUnits(amount uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals)).String()
}

// FormatSOL renders lamports as SOL.
func FormatSOL(lamports uint64) string {
	return FormatUnits(lamports, SOLDecimals)
}
