package rewards

import (
	"github.com/gagliardetto/solana-go"
	pda "github.com/malbeclabs/everlend/sdk/pda/go"
)

var (
	seedRewardPool = []byte("reward_pool")
	seedMining     = []byte("mining")
	seedVault      = []byte("vault")
)

// DeriveRewardPoolPDA returns the reward pool for tokenMint under the given
// rewards root config.
func DeriveRewardPoolPDA(rewardProgram, rootConfig, tokenMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return pda.Derive(rewardProgram, [][]byte{seedRewardPool, rootConfig.Bytes(), tokenMint.Bytes()})
}

// DeriveMiningPDA returns the mining account of user in rewardPool.
func DeriveMiningPDA(rewardProgram, user, rewardPool solana.PublicKey) (solana.PublicKey, uint8, error) {
	return pda.Derive(rewardProgram, [][]byte{seedMining, user.Bytes(), rewardPool.Bytes()})
}

func DeriveVaultPDA(rewardProgram, rewardPool, rewardMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return pda.Derive(rewardProgram, [][]byte{seedVault, rewardPool.Bytes(), rewardMint.Bytes()})
}
