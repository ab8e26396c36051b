package rewards

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ToDisplay converts an amount in base units to token units by shifting the
// decimal point left by decimals places. The result is exact.
func ToDisplay(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// ToDisplayFloat is ToDisplay rounded to the nearest float64.
func ToDisplayFloat(amount *big.Int, decimals uint8) float64 {
	return ToDisplay(amount, decimals).InexactFloat64()
}
