package rewards

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRewards_ToDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount   *big.Int
		decimals uint8
		want     string
	}{
		{amount: big.NewInt(1_500_000), decimals: 6, want: "1.5"},
		{amount: big.NewInt(1), decimals: 9, want: "0.000000001"},
		{amount: big.NewInt(0), decimals: 9, want: "0"},
		{amount: big.NewInt(42), decimals: 0, want: "42"},
		{amount: nil, decimals: 6, want: "0"},
		{
			amount:   new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)),
			decimals: 18,
			want:     "340282366920938463463.374607431768211455",
		},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			got := ToDisplay(tt.amount, tt.decimals)
			require.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestRewards_ToDisplayFloat(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1.5, ToDisplayFloat(big.NewInt(1_500_000), 6))
	require.Equal(t, 0.25, ToDisplayFloat(big.NewInt(25), 2))
	require.InDelta(t, 1e-9, ToDisplayFloat(big.NewInt(1), 9), 1e-24)
}
