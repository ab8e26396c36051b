package config

const (
	// Program IDs shared by every cluster.
	RewardProgramID       = "ELDR7M6m1ysPXks53T7da6zkhnhJV44twXLiAgTf2VpM"
	GeneralPoolsProgramID = "GenUMNGcWca1GiPLfg89698Gfys1dzk9BAGsyb9aEL2u"
	RegistryProgramID     = "RegYdXL5fJF247zmeLSXXiUPjhpn4TMYLr94QRqkN8P"

	// Mainnet constants.
	MainnetSolanaRPC         = "https://api.mainnet-beta.solana.com"
	MainnetRewardsRootConfig = "69C4Ba9LyQvWHPSSqXWXHnaedrLEuY49rSj23nJdrkkn"

	// Devnet constants.
	DevnetSolanaRPC         = "https://api.devnet.solana.com"
	DevnetRewardsRootConfig = "Hjm8ZVys6828sY9BxzuQhVwdsX1N28dqh3fKqbpGWu25"

	// Localnet constants. A local validator is expected to clone the devnet
	// programs and root config.
	LocalnetSolanaRPC = "http://localhost:8899"
)
