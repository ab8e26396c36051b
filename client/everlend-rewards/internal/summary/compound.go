package summary

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/everlend/client/everlend-rewards/internal/metrics"
	rewards "github.com/malbeclabs/everlend/sdk/rewards/go"
	"github.com/shopspring/decimal"
)

// CompoundBalance is the owner's position in one general pool expressed in
// the underlying token. The owner's pool tokens are read from the associated
// token account of the pool mint; a missing account means no position.
type CompoundBalance struct {
	Pool          solana.PublicKey
	TokenMint     solana.PublicKey
	PoolMint      solana.PublicKey
	ETokenAccount solana.PublicKey
	ETokens       uint64
	// Rate is pool tokens per underlying token; zero for a pool without
	// liquidity.
	Rate      decimal.Decimal
	Balance   *big.Int
	UIBalance decimal.Decimal
	Decimals  uint8
	Error     string
}

type CompoundSummary struct {
	Owner       solana.PublicKey
	GeneratedAt time.Time
	Pools       []CompoundBalance
}

// CompoundBalances reports the owner's underlying token balance in each
// general pool.
func (s *Service) CompoundBalances(ctx context.Context, owner solana.PublicKey, pools []solana.PublicKey) (*CompoundSummary, error) {
	summary := &CompoundSummary{Owner: owner, GeneratedAt: s.cfg.Clock.Now().UTC()}
	if len(pools) == 0 {
		return summary, nil
	}

	loaded, err := s.loadPools(ctx, pools)
	if err != nil {
		return nil, err
	}

	entries := make([]CompoundBalance, 0, len(loaded))
	addrs := make([]solana.PublicKey, 0, 3*len(loaded))
	for _, lp := range loaded {
		entry := CompoundBalance{Pool: lp.Address}
		if lp.Err != nil {
			entry.Error = lp.Err.Error()
			entries = append(entries, entry)
			continue
		}
		ata, _, err := solana.FindAssociatedTokenAddress(owner, lp.Pool.PoolMint)
		if err != nil {
			entry.Error = fmt.Sprintf("deriving associated token account: %v", err)
			entries = append(entries, entry)
			continue
		}
		entry.TokenMint = lp.Pool.TokenMint
		entry.PoolMint = lp.Pool.PoolMint
		entry.ETokenAccount = ata
		entries = append(entries, entry)
		addrs = append(addrs, lp.Pool.PoolMint, lp.Pool.TokenAccount, ata)
	}

	fetched, err := s.cfg.Client.FetchAccounts(ctx, addrs)
	if err != nil {
		metrics.Errors.WithLabelValues(metrics.ErrorTypeFetchTokenAccounts).Inc()
		return nil, fmt.Errorf("failed to fetch pool token accounts: %w", err)
	}
	byAddr := make(map[solana.PublicKey]rewards.FetchedAccount, len(fetched))
	for _, f := range fetched {
		byAddr[f.Address] = f
	}
	poolsByAddr := make(map[solana.PublicKey]*rewards.Pool, len(loaded))
	for _, lp := range loaded {
		if lp.Pool != nil {
			poolsByAddr[lp.Address] = lp.Pool
		}
	}

	group := s.compoundPool.NewGroupContext(ctx)
	for _, entry := range entries {
		group.SubmitErr(func() (CompoundBalance, error) {
			if entry.Error != "" {
				return entry, nil
			}
			pool := poolsByAddr[entry.Pool]
			return s.compoundBalance(ctx, entry, pool, byAddr[pool.PoolMint], byAddr[pool.TokenAccount], byAddr[entry.ETokenAccount]), nil
		})
	}
	results, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to compute compound balances: %w", err)
	}
	summary.Pools = results
	return summary, nil
}

func (s *Service) compoundBalance(ctx context.Context, entry CompoundBalance, pool *rewards.Pool, poolMintAcc, tokenAcc, eTokenAcc rewards.FetchedAccount) CompoundBalance {
	fail := func(err error) CompoundBalance {
		metrics.Errors.WithLabelValues(metrics.ErrorTypeCompoundBalance).Inc()
		s.log.Warn("Failed to compute compound balance", "pool", entry.Pool, "error", err)
		entry.Error = err.Error()
		return entry
	}

	tokenProgram, err := s.cfg.Client.Owner(rewards.AccountMint)
	if err != nil {
		return fail(err)
	}
	if !poolMintAcc.Found {
		return fail(fmt.Errorf("%w: pool mint %s", rewards.ErrAccountNotFound, pool.PoolMint))
	}
	poolMint, err := rewards.LoadMint(pool.PoolMint, poolMintAcc.Account, tokenProgram)
	if err != nil {
		return fail(err)
	}
	if !tokenAcc.Found {
		return fail(fmt.Errorf("%w: pool token account %s", rewards.ErrAccountNotFound, pool.TokenAccount))
	}
	held, err := rewards.LoadTokenAccount(pool.TokenAccount, tokenAcc.Account, tokenProgram)
	if err != nil {
		return fail(err)
	}
	if eTokenAcc.Found {
		eTokens, err := rewards.LoadTokenAccount(entry.ETokenAccount, eTokenAcc.Account, tokenProgram)
		if err != nil {
			return fail(err)
		}
		entry.ETokens = eTokens.Amount
	}

	amounts := rewards.PoolAmounts{
		PoolMintSupply:      poolMint.Supply,
		TotalAmountBorrowed: pool.TotalAmountBorrowed,
		TokenAccountAmount:  held.Amount,
	}
	rate, err := rewards.ETokenRate(amounts)
	if err != nil && !errors.Is(err, rewards.ErrEmptyPool) {
		return fail(err)
	}
	entry.Rate = rate

	balance, err := rewards.CompoundBalance(entry.ETokens, amounts)
	if err != nil {
		return fail(err)
	}
	decimals, err := s.mintDecimals(ctx, pool.TokenMint)
	if err != nil {
		return fail(fmt.Errorf("failed to get decimals of token mint %s: %w", pool.TokenMint, err))
	}
	entry.Balance = balance
	entry.Decimals = decimals
	entry.UIBalance = rewards.ToDisplay(balance, decimals)
	return entry
}
