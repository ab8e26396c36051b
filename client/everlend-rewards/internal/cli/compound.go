package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/malbeclabs/everlend/client/everlend-rewards/internal/summary"
	"github.com/spf13/cobra"
)

type CompoundCmd struct{}

func NewCompoundCmd() *CompoundCmd {
	return &CompoundCmd{}
}

func (c *CompoundCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compound",
		Short: "Show an owner's pool token positions in underlying tokens",
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

			s, err := svc.CompoundBalances(ctx, owner, pools)
			if err != nil {
				env.log.Error("Failed to get compound balances", "error", err)
				return err
			}

			renderCompound(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().String("owner", "", "The wallet whose positions to show")
	cmd.Flags().StringSlice("pool", nil, "General pool address (repeatable)")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("pool")

	return cmd
}

func renderCompound(w io.Writer, s *summary.CompoundSummary) {
	table := newTable(w, []string{"Pool", "Token Mint", "Pool Tokens", "Rate", "Balance", "Base Units", "Error"})
	for _, p := range s.Pools {
		if p.Error != "" {
			table.Append([]string{p.Pool.String(), p.TokenMint.String(), "", "", "", "", p.Error})
			continue
		}
		table.Append([]string{
			p.Pool.String(),
			p.TokenMint.String(),
			strconv.FormatUint(p.ETokens, 10),
			p.Rate.String(),
			p.UIBalance.String(),
			p.Balance.String(),
			"",
		})
	}
	table.Render()
}
