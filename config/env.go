package config

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	rewards "github.com/malbeclabs/everlend/sdk/rewards/go"
)

const (
	EnvMainnetBeta = "mainnet-beta"
	EnvMainnet     = "mainnet"
	EnvDevnet      = "devnet"
	EnvLocalnet    = "localnet"

	// EnvSolanaRPCURL overrides the RPC URL of any environment.
	EnvSolanaRPCURL = "EVERLEND_SOLANA_RPC_URL"
)

var (
	ErrInvalidEnvironment = fmt.Errorf("invalid environment")
	ErrUnknownAccountKind = fmt.Errorf("unknown account kind")
)

type NetworkConfig struct {
	Moniker               string
	SolanaRPCURL          string
	RewardProgramID       solana.PublicKey
	GeneralPoolsProgramID solana.PublicKey
	RegistryProgramID     solana.PublicKey
	TokenProgramID        solana.PublicKey
	RewardsRootConfig     solana.PublicKey
}

// NetworkConfigForEnv returns the configuration of env with the
// EVERLEND_SOLANA_RPC_URL override applied.
func NetworkConfigForEnv(env string) (*NetworkConfig, error) {
	return ResolveNetworkConfig(env, "")
}

// ResolveNetworkConfig layers, lowest precedence first: the built-in
// constants of env, the overrides file at overridesPath if it is set, and
// the EVERLEND_SOLANA_RPC_URL environment variable.
func ResolveNetworkConfig(env, overridesPath string) (*NetworkConfig, error) {
	config, err := defaultNetworkConfig(env)
	if err != nil {
		return nil, err
	}
	if overridesPath != "" {
		o, err := LoadOverrides(overridesPath)
		if err != nil {
			return nil, err
		}
		if err := o.Apply(config); err != nil {
			return nil, err
		}
	}
	if rpcURL := os.Getenv(EnvSolanaRPCURL); rpcURL != "" {
		config.SolanaRPCURL = rpcURL
	}
	return config, nil
}

func defaultNetworkConfig(env string) (*NetworkConfig, error) {
	var (
		config     *NetworkConfig
		rootConfig string
	)
	switch env {
	case EnvMainnetBeta, EnvMainnet:
		config = &NetworkConfig{
			Moniker:      EnvMainnetBeta,
			SolanaRPCURL: MainnetSolanaRPC,
		}
		rootConfig = MainnetRewardsRootConfig
	case EnvDevnet:
		config = &NetworkConfig{
			Moniker:      EnvDevnet,
			SolanaRPCURL: DevnetSolanaRPC,
		}
		rootConfig = DevnetRewardsRootConfig
	case EnvLocalnet:
		config = &NetworkConfig{
			Moniker:      EnvLocalnet,
			SolanaRPCURL: LocalnetSolanaRPC,
		}
		rootConfig = DevnetRewardsRootConfig
	default:
		// We intentionally do not include localnet in the error message.
		return nil, fmt.Errorf("%w %q, must be one of: %s, %s", ErrInvalidEnvironment, env, EnvMainnetBeta, EnvDevnet)
	}

	var err error
	if config.RewardProgramID, err = solana.PublicKeyFromBase58(RewardProgramID); err != nil {
		return nil, fmt.Errorf("failed to parse reward program ID: %w", err)
	}
	if config.GeneralPoolsProgramID, err = solana.PublicKeyFromBase58(GeneralPoolsProgramID); err != nil {
		return nil, fmt.Errorf("failed to parse general pools program ID: %w", err)
	}
	if config.RegistryProgramID, err = solana.PublicKeyFromBase58(RegistryProgramID); err != nil {
		return nil, fmt.Errorf("failed to parse registry program ID: %w", err)
	}
	if config.RewardsRootConfig, err = solana.PublicKeyFromBase58(rootConfig); err != nil {
		return nil, fmt.Errorf("failed to parse rewards root config: %w", err)
	}
	config.TokenProgramID = solana.TokenProgramID
	return config, nil
}

// OwnerProgramFor returns the program that owns accounts of kind on this
// network.
func (c *NetworkConfig) OwnerProgramFor(kind rewards.AccountKind) (solana.PublicKey, error) {
	switch kind {
	case rewards.AccountRewardPool, rewards.AccountMining:
		return c.RewardProgramID, nil
	case rewards.AccountPool:
		return c.GeneralPoolsProgramID, nil
	case rewards.AccountMint, rewards.AccountTokenAccount:
		return c.TokenProgramID, nil
	}
	return solana.PublicKey{}, fmt.Errorf("%w: %q", ErrUnknownAccountKind, kind)
}
