package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/gagliardetto/solana-go"
	pda "github.com/malbeclabs/everlend/sdk/pda/go"
	rewards "github.com/malbeclabs/everlend/sdk/rewards/go"
	"github.com/spf13/cobra"
)

type PDACmd struct{}

func NewPDACmd() *PDACmd {
	return &PDACmd{}
}

func (c *PDACmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pda",
		Short: "Derive reward program addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		c.rewardPoolCmd(),
		c.miningCmd(),
		c.vaultCmd(),
		c.seedsCmd(),
	)
	return cmd
}

func (c *PDACmd) rewardPoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reward-pool",
		Short: "Derive the reward pool of a token mint",
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := networkFromFlags(cmd)
			if err != nil {
				return err
			}
			tokenMint, err := publicKeyFlag(cmd, "token-mint")
			if err != nil {
				return err
			}
			rootConfig := net.RewardsRootConfig
			if cmd.Flags().Changed("root-config") {
				if rootConfig, err = publicKeyFlag(cmd, "root-config"); err != nil {
					return err
				}
			}
			addr, bump, err := rewards.DeriveRewardPoolPDA(net.RewardProgramID, rootConfig, tokenMint)
			if err != nil {
				return fmt.Errorf("failed to derive reward pool: %w", err)
			}
			renderAddresses(cmd.OutOrStdout(), derived{"reward_pool", addr, bump})
			return nil
		},
	}
	cmd.Flags().String("token-mint", "", "Token mint of the general pool")
	cmd.Flags().String("root-config", "", "Rewards root config (defaults to the environment's)")
	_ = cmd.MarkFlagRequired("token-mint")
	return cmd
}

func (c *PDACmd) miningCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mining",
		Short: "Derive an owner's mining account",
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := networkFromFlags(cmd)
			if err != nil {
				return err
			}
			owner, err := publicKeyFlag(cmd, "owner")
			if err != nil {
				return err
			}

			var out []derived
			var rewardPool solana.PublicKey
			switch {
			case cmd.Flags().Changed("reward-pool"):
				if rewardPool, err = publicKeyFlag(cmd, "reward-pool"); err != nil {
					return err
				}
			case cmd.Flags().Changed("token-mint"):
				tokenMint, err := publicKeyFlag(cmd, "token-mint")
				if err != nil {
					return err
				}
				addr, bump, err := rewards.DeriveRewardPoolPDA(net.RewardProgramID, net.RewardsRootConfig, tokenMint)
				if err != nil {
					return fmt.Errorf("failed to derive reward pool: %w", err)
				}
				rewardPool = addr
				out = append(out, derived{"reward_pool", addr, bump})
			default:
				return fmt.Errorf("one of --reward-pool or --token-mint is required")
			}

			addr, bump, err := rewards.DeriveMiningPDA(net.RewardProgramID, owner, rewardPool)
			if err != nil {
				return fmt.Errorf("failed to derive mining account: %w", err)
			}
			out = append(out, derived{"mining", addr, bump})
			renderAddresses(cmd.OutOrStdout(), out...)
			return nil
		},
	}
	cmd.Flags().String("owner", "", "The wallet owning the mining account")
	cmd.Flags().String("reward-pool", "", "Reward pool address")
	cmd.Flags().String("token-mint", "", "Token mint, used to derive the reward pool first")
	cmd.MarkFlagsMutuallyExclusive("reward-pool", "token-mint")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func (c *PDACmd) vaultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Derive the vault of a reward mint in a reward pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := networkFromFlags(cmd)
			if err != nil {
				return err
			}
			rewardPool, err := publicKeyFlag(cmd, "reward-pool")
			if err != nil {
				return err
			}
			rewardMint, err := publicKeyFlag(cmd, "reward-mint")
			if err != nil {
				return err
			}
			program := net.RewardProgramID
			if cmd.Flags().Changed("program") {
				if program, err = publicKeyFlag(cmd, "program"); err != nil {
					return err
				}
			}
			addr, bump, err := rewards.DeriveVaultPDA(program, rewardPool, rewardMint)
			if err != nil {
				return fmt.Errorf("failed to derive vault: %w", err)
			}
			renderAddresses(cmd.OutOrStdout(), derived{"vault", addr, bump})
			return nil
		},
	}
	cmd.Flags().String("reward-pool", "", "Reward pool address")
	cmd.Flags().String("reward-mint", "", "Reward mint address")
	cmd.Flags().String("program", "", "Program to derive under (defaults to the reward program)")
	_ = cmd.MarkFlagRequired("reward-pool")
	_ = cmd.MarkFlagRequired("reward-mint")
	return cmd
}

func (c *PDACmd) seedsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seeds <seed>...",
		Short: "Derive an address from raw seeds",
		Long: `Derive an address from raw seeds. Each seed is a literal string unless
prefixed with base58:, hex:, str:, u8: or u64:.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := publicKeyFlag(cmd, "program")
			if err != nil {
				return err
			}
			seeds, err := parseSeeds(args)
			if err != nil {
				return err
			}
			bumpFlag, err := cmd.Flags().GetInt("bump")
			if err != nil {
				return fmt.Errorf("failed to get bump flag: %w", err)
			}

			if bumpFlag < 0 {
				addr, bump, err := pda.Derive(program, seeds)
				if err != nil {
					return fmt.Errorf("failed to derive address: %w", err)
				}
				renderAddresses(cmd.OutOrStdout(), derived{"pda", addr, bump})
				return nil
			}
			if bumpFlag > math.MaxUint8 {
				return fmt.Errorf("bump %d does not fit in a byte", bumpFlag)
			}
			addr, err := pda.Create(program, seeds, uint8(bumpFlag))
			if err != nil {
				return fmt.Errorf("failed to create address: %w", err)
			}
			renderAddresses(cmd.OutOrStdout(), derived{"pda", addr, uint8(bumpFlag)})
			return nil
		},
	}
	cmd.Flags().String("program", "", "Program id to derive under")
	cmd.Flags().Int("bump", -1, "Use this bump instead of searching for one")
	_ = cmd.MarkFlagRequired("program")
	return cmd
}

type derived struct {
	name    string
	address solana.PublicKey
	bump    uint8
}

func renderAddresses(w io.Writer, rows ...derived) {
	table := newTable(w, []string{"Account", "Address", "Bump"})
	for _, r := range rows {
		table.Append([]string{r.name, r.address.String(), strconv.Itoa(int(r.bump))})
	}
	table.Render()
}
