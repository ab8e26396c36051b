package summary

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	rewards "github.com/malbeclabs/everlend/sdk/rewards/go"
)

var (
	ErrLoggerRequired     = errors.New("logger is required")
	ErrClientRequired     = errors.New("rewards client is required")
	ErrRootConfigRequired = errors.New("rewards root config is required")
)

const (
	defaultPoolSize         = 8
	defaultDecimalsCacheTTL = 10 * time.Minute
)

type Config struct {
	Logger     *slog.Logger
	Client     RewardsClient
	RootConfig solana.PublicKey
	Clock      clockwork.Clock

	// PoolSize bounds the number of pools processed concurrently.
	PoolSize         int
	DecimalsCacheTTL time.Duration
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return ErrLoggerRequired
	}
	if c.Client == nil {
		return ErrClientRequired
	}
	if c.RootConfig.IsZero() {
		return ErrRootConfigRequired
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.PoolSize <= 0 {
		c.PoolSize = defaultPoolSize
	}
	if c.DecimalsCacheTTL <= 0 {
		c.DecimalsCacheTTL = defaultDecimalsCacheTTL
	}
	return nil
}

// RewardsClient is the subset of rewards.Client used by the service.
type RewardsClient interface {
	FetchAccounts(ctx context.Context, addresses []solana.PublicKey) ([]rewards.FetchedAccount, error)
	FetchMint(ctx context.Context, addr solana.PublicKey) (*rewards.Mint, error)
	Owner(kind rewards.AccountKind) (solana.PublicKey, error)
	DeriveRewardAccounts(rootConfig, tokenMint, user solana.PublicKey) (rewards.RewardAccounts, error)
}
