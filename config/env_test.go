package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/everlend/config"
	rewards "github.com/malbeclabs/everlend/sdk/rewards/go"
	"github.com/stretchr/testify/require"
)

func mainnetConfig() *config.NetworkConfig {
	return &config.NetworkConfig{
		Moniker:               config.EnvMainnetBeta,
		SolanaRPCURL:          config.MainnetSolanaRPC,
		RewardProgramID:       solana.MustPublicKeyFromBase58(config.RewardProgramID),
		GeneralPoolsProgramID: solana.MustPublicKeyFromBase58(config.GeneralPoolsProgramID),
		RegistryProgramID:     solana.MustPublicKeyFromBase58(config.RegistryProgramID),
		TokenProgramID:        solana.TokenProgramID,
		RewardsRootConfig:     solana.MustPublicKeyFromBase58(config.MainnetRewardsRootConfig),
	}
}

func TestConfig_NetworkConfigForEnv(t *testing.T) {
	tests := []struct {
		env     string
		want    *config.NetworkConfig
		wantErr error
	}{
		{
			env:  config.EnvMainnet,
			want: mainnetConfig(),
		},
		{
			env:  config.EnvMainnetBeta,
			want: mainnetConfig(),
		},
		{
			env: config.EnvDevnet,
			want: &config.NetworkConfig{
				Moniker:               config.EnvDevnet,
				SolanaRPCURL:          config.DevnetSolanaRPC,
				RewardProgramID:       solana.MustPublicKeyFromBase58(config.RewardProgramID),
				GeneralPoolsProgramID: solana.MustPublicKeyFromBase58(config.GeneralPoolsProgramID),
				RegistryProgramID:     solana.MustPublicKeyFromBase58(config.RegistryProgramID),
				TokenProgramID:        solana.TokenProgramID,
				RewardsRootConfig:     solana.MustPublicKeyFromBase58(config.DevnetRewardsRootConfig),
			},
		},
		{
			env:     "invalid",
			want:    nil,
			wantErr: fmt.Errorf("invalid environment %q, must be one of: %s, %s", "invalid", config.EnvMainnetBeta, config.EnvDevnet),
		},
	}

	for _, test := range tests {
		t.Run(test.env, func(t *testing.T) {
			got, err := config.NetworkConfigForEnv(test.env)
			if test.wantErr != nil {
				require.Equal(t, test.wantErr.Error(), err.Error())
				require.ErrorIs(t, err, config.ErrInvalidEnvironment)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestConfig_NetworkConfigForEnv_RPCURLOverrideFromEnvVars(t *testing.T) {
	t.Setenv(config.EnvSolanaRPCURL, "https://other-rpc-url.com")
	got, err := config.NetworkConfigForEnv(config.EnvMainnet)
	require.NoError(t, err)
	require.Equal(t, "https://other-rpc-url.com", got.SolanaRPCURL)
}

func TestConfig_OwnerProgramFor(t *testing.T) {
	cfg := mainnetConfig()

	tests := []struct {
		kind rewards.AccountKind
		want solana.PublicKey
	}{
		{kind: rewards.AccountRewardPool, want: cfg.RewardProgramID},
		{kind: rewards.AccountMining, want: cfg.RewardProgramID},
		{kind: rewards.AccountPool, want: cfg.GeneralPoolsProgramID},
		{kind: rewards.AccountMint, want: solana.TokenProgramID},
		{kind: rewards.AccountTokenAccount, want: solana.TokenProgramID},
	}
	for _, test := range tests {
		t.Run(string(test.kind), func(t *testing.T) {
			got, err := cfg.OwnerProgramFor(test.kind)
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}

	_, err := cfg.OwnerProgramFor("unknown")
	require.ErrorIs(t, err, config.ErrUnknownAccountKind)
}

func writeOverrides(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConfig_ResolveNetworkConfig_Overrides(t *testing.T) {
	fork := solana.NewWallet().PublicKey()
	path := writeOverrides(t, fmt.Sprintf("solana_rpc_url: http://127.0.0.1:8899\nreward_program_id: %s\n", fork))

	got, err := config.ResolveNetworkConfig(config.EnvDevnet, path)
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:8899", got.SolanaRPCURL)
	require.Equal(t, fork, got.RewardProgramID)
	require.Equal(t, solana.MustPublicKeyFromBase58(config.DevnetRewardsRootConfig), got.RewardsRootConfig)

	owner, err := got.OwnerProgramFor(rewards.AccountMining)
	require.NoError(t, err)
	require.Equal(t, fork, owner)
}

func TestConfig_ResolveNetworkConfig_EnvVarBeatsFile(t *testing.T) {
	t.Setenv(config.EnvSolanaRPCURL, "https://from-env.example")
	path := writeOverrides(t, "solana_rpc_url: https://from-file.example\n")

	got, err := config.ResolveNetworkConfig(config.EnvMainnet, path)
	require.NoError(t, err)
	require.Equal(t, "https://from-env.example", got.SolanaRPCURL)
}

func TestConfig_ResolveNetworkConfig_BadOverrides(t *testing.T) {
	_, err := config.ResolveNetworkConfig(config.EnvMainnet, filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := writeOverrides(t, "reward_program_id: not-a-key\n")
	cfg := mainnetConfig()
	o, err := config.LoadOverrides(path)
	require.NoError(t, err)
	require.Error(t, o.Apply(cfg))
	require.Equal(t, mainnetConfig(), cfg, "failed apply must leave config unchanged")

	path = writeOverrides(t, "reward_program_id: [unterminated\n")
	_, err = config.ResolveNetworkConfig(config.EnvMainnet, path)
	require.Error(t, err)
}
