package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Metrics names.
	MetricNameBuildInfo         = "everlend_rewards_build_info"
	MetricNameErrors            = "everlend_rewards_errors_total"
	MetricNameRefreshes         = "everlend_rewards_refreshes_total"
	MetricNameRefreshDuration   = "everlend_rewards_refresh_duration_seconds"
	MetricNamePoolRewards       = "everlend_rewards_pool_rewards"
	MetricNameMiningShare       = "everlend_rewards_mining_share"
	MetricNameDuplicateIndexes  = "everlend_rewards_duplicate_indexes_total"
	MetricNameDecimalsCacheHits = "everlend_rewards_decimals_cache_hits_total"

	// Labels.
	LabelVersion    = "version"
	LabelCommit     = "commit"
	LabelDate       = "date"
	LabelErrorType  = "error_type"
	LabelPool       = "pool"
	LabelRewardMint = "reward_mint"
	LabelResult     = "result"

	// Error types.
	ErrorTypeFetchPools         = "fetch_pools"
	ErrorTypeFetchRewardState   = "fetch_reward_state"
	ErrorTypeLoadRewardPool     = "load_reward_pool"
	ErrorTypeLoadMining         = "load_mining"
	ErrorTypeFetchMintDecimals  = "fetch_mint_decimals"
	ErrorTypeFetchTokenAccounts = "fetch_token_accounts"
	ErrorTypeCompoundBalance    = "compound_balance"

	// Refresh results.
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameBuildInfo,
			Help: "Build information of the everlend rewards client",
		},
		[]string{LabelVersion, LabelCommit, LabelDate},
	)

	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameErrors,
			Help: "Number of errors encountered",
		},
		[]string{LabelErrorType},
	)

	Refreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRefreshes,
			Help: "Number of reward summary refreshes by result",
		},
		[]string{LabelResult},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameRefreshDuration,
			Help:    "Duration of a reward summary refresh",
			Buckets: prometheus.DefBuckets,
		},
	)

	PoolRewards = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNamePoolRewards,
			Help: "Total claimable rewards per pool and reward mint in UI units",
		},
		[]string{LabelPool, LabelRewardMint},
	)

	MiningShare = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameMiningShare,
			Help: "Share of the user's mining account per pool",
		},
		[]string{LabelPool},
	)

	DuplicateIndexes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDuplicateIndexes,
			Help: "Number of mining accounts seen with more than one index entry for a reward mint",
		},
		[]string{LabelRewardMint},
	)

	DecimalsCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDecimalsCacheHits,
			Help: "Number of mint decimals lookups served from cache",
		},
	)
)
