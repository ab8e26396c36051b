package rewards

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// PrecisionDecimals is the fixed-point scale of reward indexes: an index of
// 10^17 credits one base unit per unit of share.
const PrecisionDecimals = 17

var indexPrecision = new(big.Int).Exp(big.NewInt(10), big.NewInt(PrecisionDecimals), nil)

// Precision returns 10^PrecisionDecimals.
func Precision() *big.Int {
	return new(big.Int).Set(indexPrecision)
}

// RewardBalance is what a mining account is owed for one vault, in the
// reward mint's base units.
type RewardBalance struct {
	RewardMint solana.PublicKey
	// AlreadyCredited is the amount recorded on the user's checkpoint.
	AlreadyCredited *big.Int
	// Potential is accrued since the checkpoint but not yet credited.
	Potential *big.Int
	Total     *big.Int
	// DuplicateIndexes counts checkpoint entries for the same mint after the
	// first one. It is non-zero only for malformed accounts.
	DuplicateIndexes int
}

// FindRewardIndex returns the first checkpoint in mining for rewardMint and
// the number of further entries for the same mint.
func FindRewardIndex(mining *Mining, rewardMint solana.PublicKey) (RewardIndex, bool, int) {
	var (
		first      RewardIndex
		found      bool
		duplicates int
	)
	if mining == nil {
		return first, false, 0
	}
	for _, idx := range mining.Indexes {
		if !idx.RewardMint.Equals(rewardMint) {
			continue
		}
		if found {
			duplicates++
			continue
		}
		first, found = idx, true
	}
	return first, found, duplicates
}

// PotentialReward returns floor((vaultIndex - checkpointIndex) * share / precision),
// or zero when the vault index has not moved past the checkpoint.
func PotentialReward(vaultIndex, checkpointIndex *big.Int, share uint64, precision *big.Int) *big.Int {
	if vaultIndex == nil || checkpointIndex == nil || precision == nil || precision.Sign() <= 0 {
		return new(big.Int)
	}
	if vaultIndex.Cmp(checkpointIndex) <= 0 {
		return new(big.Int)
	}
	delta := new(big.Int).Sub(vaultIndex, checkpointIndex)
	delta.Mul(delta, new(big.Int).SetUint64(share))
	return delta.Quo(delta, precision)
}

// CalculateReward computes the balance owed to mining for vault at the
// standard index precision.
func CalculateReward(vault RewardVault, mining *Mining) RewardBalance {
	return CalculateRewardWithPrecision(vault, mining, indexPrecision)
}

// CalculateRewardWithPrecision is CalculateReward with an explicit index
// scale. A mining account with no checkpoint for the vault's mint is owed
// nothing yet.
func CalculateRewardWithPrecision(vault RewardVault, mining *Mining, precision *big.Int) RewardBalance {
	idx, found, duplicates := FindRewardIndex(mining, vault.RewardMint)

	credited := new(big.Int)
	potential := new(big.Int)
	if found {
		credited.SetUint64(idx.Rewards)
		if idx.IndexWithPrecision != nil {
			potential = PotentialReward(vault.IndexWithPrecision, idx.IndexWithPrecision, mining.Share, precision)
		}
	}

	return RewardBalance{
		RewardMint:       vault.RewardMint,
		AlreadyCredited:  credited,
		Potential:        potential,
		Total:            new(big.Int).Add(credited, potential),
		DuplicateIndexes: duplicates,
	}
}

// CalculateRewards computes a balance for every vault of pool, in vault order.
func CalculateRewards(pool *RewardPool, mining *Mining) []RewardBalance {
	out := make([]RewardBalance, 0, len(pool.Vaults))
	for _, v := range pool.Vaults {
		out = append(out, CalculateReward(v, mining))
	}
	return out
}
