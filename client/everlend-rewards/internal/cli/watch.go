package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/malbeclabs/everlend/client/everlend-rewards/internal/metrics"
	"github.com/malbeclabs/everlend/client/everlend-rewards/internal/summary"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const defaultWatchInterval = 1 * time.Minute

type WatchCmd struct {
	info BuildInfo
}

func NewWatchCmd(info BuildInfo) *WatchCmd {
	return &WatchCmd{info: info}
}

func (c *WatchCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Periodically refresh an owner's rewards and export them as metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := publicKeyFlag(cmd, "owner")
			if err != nil {
				return err
			}
			pools, err := publicKeysFlag(cmd, "pool")
			if err != nil {
				return err
			}
			interval, err := cmd.Flags().GetDuration("interval")
			if err != nil {
				return fmt.Errorf("failed to get interval flag: %w", err)
			}
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %s", interval)
			}
			metricsAddr, err := cmd.Flags().GetString("metrics-addr")
			if err != nil {
				return fmt.Errorf("failed to get metrics-addr flag: %w", err)
			}

			env, err := newEnvironment(cmd)
			if err != nil {
				return err
			}
			log := env.log

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if metricsAddr != "" {
				metrics.BuildInfo.WithLabelValues(c.info.Version, c.info.Commit, c.info.Date).Set(1)
				go func() {
					listener, err := net.Listen("tcp", metricsAddr)
					if err != nil {
						log.Error("Failed to start prometheus metrics server listener", "error", err)
						return
					}
					log.Info("Prometheus metrics server listening", "address", listener.Addr().String())
					mux := http.NewServeMux()
					mux.Handle("/metrics", promhttp.Handler())
					if err := http.Serve(listener, mux); err != nil {
						log.Error("Failed to start prometheus metrics server", "error", err)
					}
				}()
			}

			clock := clockwork.NewRealClock()
			svc, err := summary.New(&summary.Config{
				Logger:     log,
				Client:     env.client,
				RootConfig: env.net.RewardsRootConfig,
				Clock:      clock,
			})
			if err != nil {
				return fmt.Errorf("failed to create summary service: %w", err)
			}
			defer svc.Close()

			log.Info("Starting rewards watcher", "env", env.net.Moniker, "owner", owner, "pools", len(pools), "interval", interval)

			w := &watcher{
				log:      log,
				source:   svc,
				clock:    clock,
				interval: interval,
				owner:    owner,
				pools:    pools,
			}
			return w.Run(ctx)
		},
	}

	cmd.Flags().String("owner", "", "The wallet whose rewards to watch")
	cmd.Flags().StringSlice("pool", nil, "General pool address (repeatable)")
	cmd.Flags().Duration("interval", defaultWatchInterval, "How often to refresh")
	cmd.Flags().String("metrics-addr", ":8080", "Address to listen on for prometheus metrics, empty to disable")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("pool")

	return cmd
}

type rewardsSource interface {
	RewardsByPools(ctx context.Context, owner solana.PublicKey, pools []solana.PublicKey) (*summary.RewardsSummary, error)
}

// watcher refreshes the rewards summary once on start and then on every tick
// until the context is done. A failed refresh is logged and counted; the next
// tick tries again.
type watcher struct {
	log      *slog.Logger
	source   rewardsSource
	clock    clockwork.Clock
	interval time.Duration
	owner    solana.PublicKey
	pools    []solana.PublicKey

	// onRefresh, if set, receives every successful summary.
	onRefresh func(*summary.RewardsSummary)
}

func (w *watcher) Run(ctx context.Context) error {
	w.refresh(ctx)

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Rewards watcher stopped")
			return nil
		case <-ticker.Chan():
			w.refresh(ctx)
		}
	}
}

func (w *watcher) refresh(ctx context.Context) {
	start := w.clock.Now()
	s, err := w.source.RewardsByPools(ctx, w.owner, w.pools)
	metrics.RefreshDuration.Observe(w.clock.Since(start).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		metrics.Refreshes.WithLabelValues(metrics.ResultError).Inc()
		w.log.Error("Failed to refresh rewards", "error", err)
		return
	}
	metrics.Refreshes.WithLabelValues(metrics.ResultSuccess).Inc()

	for _, p := range s.Pools {
		if p.Error != "" {
			w.log.Warn("Pool failed", "pool", p.Pool, "error", p.Error)
			continue
		}
		for _, r := range p.Rewards {
			w.log.Info("Reward", "pool", p.Pool, "rewardMint", r.RewardMint, "amount", r.UIAmount.String(), "share", p.Share)
		}
	}
	w.log.Debug("Refreshed rewards", "pools", len(s.Pools), "generatedAt", s.GeneratedAt)

	if w.onRefresh != nil {
		w.onRefresh(s)
	}
}
