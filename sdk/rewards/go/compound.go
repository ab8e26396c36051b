package rewards

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var ErrEmptyPool = errors.New("pool has no liquidity")

// rateScale is the number of decimal places kept when dividing a rate.
const rateScale = 18

// PoolAmounts are the three balances that fix a general pool's exchange rate
// between its pool (e)token and the underlying token.
type PoolAmounts struct {
	PoolMintSupply      uint64
	TotalAmountBorrowed uint64
	TokenAccountAmount  uint64
}

func (a PoolAmounts) liquidity() *big.Int {
	l := new(big.Int).SetUint64(a.TotalAmountBorrowed)
	return l.Add(l, new(big.Int).SetUint64(a.TokenAccountAmount))
}

// ETokenRate is pool tokens per underlying token:
// supply / (borrowed + held).
func ETokenRate(a PoolAmounts) (decimal.Decimal, error) {
	liquidity := a.liquidity()
	if liquidity.Sign() == 0 {
		return decimal.Zero, fmt.Errorf("%w: borrowed and held amounts are both zero", ErrEmptyPool)
	}
	supply := decimal.NewFromUint64(a.PoolMintSupply)
	return supply.DivRound(decimal.NewFromBigInt(liquidity, 0), rateScale), nil
}

// CompoundBalance converts a pool token amount into underlying base units,
// floor(eTokenAmount / rate). It is computed as
// floor(eTokenAmount * liquidity / supply) so no rate rounding leaks in.
func CompoundBalance(eTokenAmount uint64, a PoolAmounts) (*big.Int, error) {
	if eTokenAmount == 0 {
		return new(big.Int), nil
	}
	if a.PoolMintSupply == 0 {
		return nil, fmt.Errorf("%w: pool mint supply is zero but %d pool tokens are held", ErrEmptyPool, eTokenAmount)
	}
	n := new(big.Int).SetUint64(eTokenAmount)
	n.Mul(n, a.liquidity())
	return n.Quo(n, new(big.Int).SetUint64(a.PoolMintSupply)), nil
}
