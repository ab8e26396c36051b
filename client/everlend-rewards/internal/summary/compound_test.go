package summary_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	rewards "github.com/malbeclabs/everlend/sdk/rewards/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSummary_CompoundBalances(t *testing.T) {
	t.Parallel()

	c := newChain(t)
	user := solana.NewWallet().PublicKey()

	ata := func(f poolFixture) solana.PublicKey {
		addr, _, err := solana.FindAssociatedTokenAddress(user, f.PoolMint)
		require.NoError(t, err)
		return addr
	}

	// 1:1 pool.
	even := c.putPool(user, 300)
	c.putMint(even.TokenMint, 0, 6)
	c.putMint(even.PoolMint, 1_000, 6)
	c.putTokenAccount(even.TokenAccount, even.TokenMint, solana.NewWallet().PublicKey(), 700)
	c.putTokenAccount(ata(even), even.PoolMint, user, 500)

	// Two pool tokens per underlying token.
	double := c.putPool(user, 0)
	c.putMint(double.TokenMint, 0, 9)
	c.putMint(double.PoolMint, 2_000, 9)
	c.putTokenAccount(double.TokenAccount, double.TokenMint, solana.NewWallet().PublicKey(), 1_000)
	c.putTokenAccount(ata(double), double.PoolMint, user, 301)

	// The user holds no pool tokens here.
	untouched := c.putPool(user, 10)
	c.putMint(untouched.TokenMint, 0, 6)
	c.putMint(untouched.PoolMint, 10, 6)
	c.putTokenAccount(untouched.TokenAccount, untouched.TokenMint, solana.NewWallet().PublicKey(), 0)

	// Empty pool without liquidity.
	empty := c.putPool(user, 0)
	c.putMint(empty.TokenMint, 0, 6)
	c.putMint(empty.PoolMint, 0, 6)
	c.putTokenAccount(empty.TokenAccount, empty.TokenMint, solana.NewWallet().PublicKey(), 0)

	// Pool whose token account is gone.
	broken := c.putPool(user, 0)
	c.putMint(broken.PoolMint, 1, 6)

	svc := c.newService(t, clockwork.NewFakeClock())
	got, err := svc.CompoundBalances(context.Background(), user, []solana.PublicKey{
		even.Address, double.Address, untouched.Address, empty.Address, broken.Address,
	})
	require.NoError(t, err)
	require.Len(t, got.Pools, 5)

	tests := []struct {
		name     string
		fixture  poolFixture
		eTokens  uint64
		rate     string
		balance  int64
		ui       string
		decimals uint8
	}{
		{name: "even", fixture: even, eTokens: 500, rate: "1", balance: 500, ui: "0.0005", decimals: 6},
		{name: "double", fixture: double, eTokens: 301, rate: "2", balance: 150, ui: "0.00000015", decimals: 9},
		{name: "untouched", fixture: untouched, eTokens: 0, rate: "1", balance: 0, ui: "0", decimals: 6},
		{name: "empty", fixture: empty, eTokens: 0, rate: "0", balance: 0, ui: "0", decimals: 6},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := got.Pools[i]
			require.Empty(t, entry.Error)
			require.Equal(t, tt.fixture.Address, entry.Pool)
			require.Equal(t, tt.fixture.TokenMint, entry.TokenMint)
			require.Equal(t, tt.fixture.PoolMint, entry.PoolMint)
			require.Equal(t, ata(tt.fixture), entry.ETokenAccount)
			require.Equal(t, tt.eTokens, entry.ETokens)
			require.True(t, decimal.RequireFromString(tt.rate).Equal(entry.Rate), entry.Rate.String())
			require.Equal(t, 0, entry.Balance.Cmp(big.NewInt(tt.balance)))
			require.True(t, decimal.RequireFromString(tt.ui).Equal(entry.UIBalance), entry.UIBalance.String())
			require.Equal(t, tt.decimals, entry.Decimals)
		})
	}

	last := got.Pools[4]
	require.Equal(t, broken.Address, last.Pool)
	require.Contains(t, last.Error, rewards.ErrAccountNotFound.Error())
}
