package summary

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/gagliardetto/solana-go"
	"github.com/jellydator/ttlcache/v3"
	"github.com/malbeclabs/everlend/client/everlend-rewards/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	rewards "github.com/malbeclabs/everlend/sdk/rewards/go"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// RewardAmount is what the owner can claim from one reward vault.
type RewardAmount struct {
	RewardMint      solana.PublicKey
	Amount          *big.Int
	AlreadyCredited *big.Int
	Potential       *big.Int
	UIAmount        decimal.Decimal
	Decimals        uint8
}

// PoolRewards lists the non-zero rewards of one general pool. Error is set
// when the pool's accounts could not be loaded; the other pools of the same
// request are unaffected.
type PoolRewards struct {
	Pool       solana.PublicKey
	TokenMint  solana.PublicKey
	RewardPool solana.PublicKey
	Mining     solana.PublicKey
	Share      uint64
	Rewards    []RewardAmount
	Error      string
}

type RewardsSummary struct {
	Owner       solana.PublicKey
	GeneratedAt time.Time
	Pools       []PoolRewards
}

type Service struct {
	log *slog.Logger
	cfg *Config

	decimals *ttlcache.Cache[solana.PublicKey, uint8]
	group    singleflight.Group

	rewardsPool  pond.ResultPool[*PoolRewards]
	compoundPool pond.ResultPool[CompoundBalance]
}

func New(cfg *Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	decimals := ttlcache.New(
		ttlcache.WithTTL[solana.PublicKey, uint8](cfg.DecimalsCacheTTL),
		ttlcache.WithDisableTouchOnHit[solana.PublicKey, uint8](),
	)
	return &Service{
		log:      cfg.Logger,
		cfg:      cfg,
		decimals: decimals,

		rewardsPool:  pond.NewResultPool[*PoolRewards](cfg.PoolSize),
		compoundPool: pond.NewResultPool[CompoundBalance](cfg.PoolSize),
	}, nil
}

// Close waits for in-flight pool tasks and releases the worker pools.
func (s *Service) Close() {
	s.rewardsPool.StopAndWait()
	s.compoundPool.StopAndWait()
}

// RewardsByPools reports the owner's claimable rewards for each general pool.
// Pools without a reward pool or without a mining account for the owner are
// left out, as are rewards whose total is zero.
func (s *Service) RewardsByPools(ctx context.Context, owner solana.PublicKey, pools []solana.PublicKey) (*RewardsSummary, error) {
	summary := &RewardsSummary{Owner: owner, GeneratedAt: s.cfg.Clock.Now().UTC()}
	if len(pools) == 0 {
		return summary, nil
	}

	loaded, err := s.loadPools(ctx, pools)
	if err != nil {
		return nil, err
	}

	entries := make([]PoolRewards, 0, len(loaded))
	addrs := make([]solana.PublicKey, 0, 2*len(loaded))
	for _, lp := range loaded {
		entry := PoolRewards{Pool: lp.Address}
		if lp.Err != nil {
			entry.Error = lp.Err.Error()
			entries = append(entries, entry)
			continue
		}
		accs, err := s.cfg.Client.DeriveRewardAccounts(s.cfg.RootConfig, lp.Pool.TokenMint, owner)
		if err != nil {
			entry.Error = err.Error()
			entries = append(entries, entry)
			continue
		}
		entry.TokenMint = accs.TokenMint
		entry.RewardPool = accs.RewardPool
		entry.Mining = accs.Mining
		entries = append(entries, entry)
		addrs = append(addrs, accs.RewardPool, accs.Mining)
	}

	fetched, err := s.cfg.Client.FetchAccounts(ctx, addrs)
	if err != nil {
		metrics.Errors.WithLabelValues(metrics.ErrorTypeFetchRewardState).Inc()
		return nil, fmt.Errorf("failed to fetch reward accounts: %w", err)
	}
	byAddr := make(map[solana.PublicKey]rewards.FetchedAccount, len(fetched))
	for _, f := range fetched {
		byAddr[f.Address] = f
	}

	group := s.rewardsPool.NewGroupContext(ctx)
	for _, entry := range entries {
		group.SubmitErr(func() (*PoolRewards, error) {
			if entry.Error != "" {
				clearPoolMetrics(entry.Pool)
				return &entry, nil
			}
			return s.poolRewards(ctx, entry, byAddr[entry.RewardPool], byAddr[entry.Mining]), nil
		})
	}
	results, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to compute pool rewards: %w", err)
	}
	for _, r := range results {
		if r != nil {
			summary.Pools = append(summary.Pools, *r)
		}
	}
	return summary, nil
}

// poolRewards returns nil when the pool has nothing to report.
func (s *Service) poolRewards(ctx context.Context, entry PoolRewards, rewardPoolAcc, miningAcc rewards.FetchedAccount) *PoolRewards {
	if !rewardPoolAcc.Found || !miningAcc.Found {
		s.log.Debug("Reward pool or mining account not found, skipping", "pool", entry.Pool, "rewardPool", entry.RewardPool, "mining", entry.Mining, "rewardPoolFound", rewardPoolAcc.Found, "miningFound", miningAcc.Found)
		clearPoolMetrics(entry.Pool)
		return nil
	}

	rewardProgram, err := s.cfg.Client.Owner(rewards.AccountRewardPool)
	if err != nil {
		return failed(entry, err)
	}
	rewardPool, err := rewards.LoadRewardPool(entry.RewardPool, rewardPoolAcc.Account, rewardProgram)
	if err != nil {
		metrics.Errors.WithLabelValues(metrics.ErrorTypeLoadRewardPool).Inc()
		s.log.Warn("Failed to load reward pool", "pool", entry.Pool, "rewardPool", entry.RewardPool, "error", err)
		return failed(entry, err)
	}
	mining, err := rewards.LoadMining(entry.Mining, miningAcc.Account, rewardProgram)
	if err != nil {
		metrics.Errors.WithLabelValues(metrics.ErrorTypeLoadMining).Inc()
		s.log.Warn("Failed to load mining account", "pool", entry.Pool, "mining", entry.Mining, "error", err)
		return failed(entry, err)
	}
	if !mining.RewardPool.Equals(entry.RewardPool) {
		metrics.Errors.WithLabelValues(metrics.ErrorTypeLoadMining).Inc()
		return failed(entry, fmt.Errorf("mining account %s belongs to reward pool %s, want %s", entry.Mining, mining.RewardPool, entry.RewardPool))
	}

	entry.Share = mining.Share
	metrics.MiningShare.WithLabelValues(entry.Pool.String()).Set(float64(mining.Share))

	for _, bal := range rewards.CalculateRewards(rewardPool, mining) {
		if bal.DuplicateIndexes > 0 {
			metrics.DuplicateIndexes.WithLabelValues(bal.RewardMint.String()).Inc()
			s.log.Warn("Mining account has duplicate index entries, using the first", "mining", entry.Mining, "rewardMint", bal.RewardMint, "duplicates", bal.DuplicateIndexes)
		}
		if bal.Total.Sign() == 0 {
			metrics.PoolRewards.WithLabelValues(entry.Pool.String(), bal.RewardMint.String()).Set(0)
			continue
		}
		decimals, err := s.mintDecimals(ctx, bal.RewardMint)
		if err != nil {
			metrics.Errors.WithLabelValues(metrics.ErrorTypeFetchMintDecimals).Inc()
			return failed(entry, fmt.Errorf("failed to get decimals of reward mint %s: %w", bal.RewardMint, err))
		}
		amount := RewardAmount{
			RewardMint:      bal.RewardMint,
			Amount:          bal.Total,
			AlreadyCredited: bal.AlreadyCredited,
			Potential:       bal.Potential,
			UIAmount:        rewards.ToDisplay(bal.Total, decimals),
			Decimals:        decimals,
		}
		entry.Rewards = append(entry.Rewards, amount)
		metrics.PoolRewards.WithLabelValues(entry.Pool.String(), bal.RewardMint.String()).Set(amount.UIAmount.InexactFloat64())
	}
	return &entry
}

func failed(entry PoolRewards, err error) *PoolRewards {
	clearPoolMetrics(entry.Pool)
	entry.Rewards = nil
	entry.Error = err.Error()
	return &entry
}

// clearPoolMetrics drops the per-pool series so a pool that stops reporting
// does not keep exporting its last values.
func clearPoolMetrics(pool solana.PublicKey) {
	labels := prometheus.Labels{metrics.LabelPool: pool.String()}
	metrics.PoolRewards.DeletePartialMatch(labels)
	metrics.MiningShare.DeletePartialMatch(labels)
}

// mintDecimals returns the decimals of mint from cache, fetching on a miss.
// Concurrent misses for the same mint share one request.
func (s *Service) mintDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	if item := s.decimals.Get(mint); item != nil {
		metrics.DecimalsCacheHits.Inc()
		return item.Value(), nil
	}
	// The fetch is shared by every caller waiting on mint, so it must not
	// inherit the first caller's cancellation.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(mint.String(), func() (any, error) {
		if item := s.decimals.Get(mint); item != nil {
			return item.Value(), nil
		}
		m, err := s.cfg.Client.FetchMint(fetchCtx, mint)
		if err != nil {
			return nil, err
		}
		s.decimals.Set(mint, m.Decimals, ttlcache.DefaultTTL)
		return m.Decimals, nil
	})
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(uint8), nil
	}
}

type loadedPool struct {
	Address solana.PublicKey
	Pool    *rewards.Pool
	Err     error
}

// loadPools batch-fetches general pool accounts. Per-pool problems are kept
// on the slot; only a failed RPC call is returned as an error.
func (s *Service) loadPools(ctx context.Context, pools []solana.PublicKey) ([]loadedPool, error) {
	owner, err := s.cfg.Client.Owner(rewards.AccountPool)
	if err != nil {
		return nil, err
	}
	fetched, err := s.cfg.Client.FetchAccounts(ctx, pools)
	if err != nil {
		metrics.Errors.WithLabelValues(metrics.ErrorTypeFetchPools).Inc()
		return nil, fmt.Errorf("failed to fetch pools: %w", err)
	}
	out := make([]loadedPool, 0, len(fetched))
	for _, f := range fetched {
		lp := loadedPool{Address: f.Address}
		if !f.Found {
			lp.Err = fmt.Errorf("%w: pool %s", rewards.ErrAccountNotFound, f.Address)
		} else {
			lp.Pool, lp.Err = rewards.LoadPool(f.Address, f.Account, owner)
		}
		if lp.Err != nil {
			s.log.Warn("Failed to load pool", "pool", f.Address, "error", lp.Err)
		}
		out = append(out, lp)
	}
	return out, nil
}
