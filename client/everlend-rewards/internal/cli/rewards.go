package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/malbeclabs/everlend/client/everlend-rewards/internal/summary"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type RewardsCmd struct{}

func NewRewardsCmd() *RewardsCmd {
	return &RewardsCmd{}
}

func (c *RewardsCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Show claimable rewards of an owner across general pools",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := publicKeyFlag(cmd, "owner")
			if err != nil {
				return err
			}
			pools, err := publicKeysFlag(cmd, "pool")
			if err != nil {
				return err
			}

			env, err := newEnvironment(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			svc, err := summary.New(&summary.Config{
				Logger:     env.log,
				Client:     env.client,
				RootConfig: env.net.RewardsRootConfig,
			})
			if err != nil {
				return fmt.Errorf("failed to create summary service: %w", err)
			}
			defer svc.Close()

			s, err := svc.RewardsByPools(ctx, owner, pools)
			if err != nil {
				env.log.Error("Failed to get rewards", "error", err)
				return err
			}
			env.log.Debug("Fetched rewards", "owner", owner, "pools", len(s.Pools), "generatedAt", s.GeneratedAt)

			renderRewards(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().String("owner", "", "The wallet whose rewards to show")
	cmd.Flags().StringSlice("pool", nil, "General pool address (repeatable)")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("pool")

	return cmd
}

// renderRewards writes one row per reward mint, and one row per failed pool.
func renderRewards(w io.Writer, s *summary.RewardsSummary) {
	table := newTable(w, []string{"Pool", "Token Mint", "Share", "Reward Mint", "Amount", "Base Units", "Error"})
	for _, p := range s.Pools {
		if p.Error != "" {
			table.Append([]string{p.Pool.String(), p.TokenMint.String(), "", "", "", "", p.Error})
			continue
		}
		for _, r := range p.Rewards {
			table.Append([]string{
				p.Pool.String(),
				p.TokenMint.String(),
				strconv.FormatUint(p.Share, 10),
				r.RewardMint.String(),
				r.UIAmount.String(),
				r.Amount.String(),
				"",
			})
		}
	}
	table.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}
