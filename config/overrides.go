package config

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"gopkg.in/yaml.v3"
)

// Overrides replaces parts of a NetworkConfig, e.g. to point the tools at a
// fork of the programs on a local validator. Empty fields are left alone.
type Overrides struct {
	SolanaRPCURL          string `yaml:"solana_rpc_url"`
	RewardProgramID       string `yaml:"reward_program_id"`
	GeneralPoolsProgramID string `yaml:"general_pools_program_id"`
	RegistryProgramID     string `yaml:"registry_program_id"`
	RewardsRootConfig     string `yaml:"rewards_root_config"`
}

// LoadOverrides reads an overrides file in YAML form.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file %s: %w", path, err)
	}
	return &o, nil
}

// Apply writes the non-empty overrides into c. Nothing is changed if any key
// fails to parse.
func (o *Overrides) Apply(c *NetworkConfig) error {
	next := *c
	if o.SolanaRPCURL != "" {
		next.SolanaRPCURL = o.SolanaRPCURL
	}
	keys := []struct {
		name  string
		value string
		dst   *solana.PublicKey
	}{
		{"reward_program_id", o.RewardProgramID, &next.RewardProgramID},
		{"general_pools_program_id", o.GeneralPoolsProgramID, &next.GeneralPoolsProgramID},
		{"registry_program_id", o.RegistryProgramID, &next.RegistryProgramID},
		{"rewards_root_config", o.RewardsRootConfig, &next.RewardsRootConfig},
	}
	for _, k := range keys {
		if k.value == "" {
			continue
		}
		pk, err := solana.PublicKeyFromBase58(k.value)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", k.name, err)
		}
		*k.dst = pk
	}
	*c = next
	return nil
}
