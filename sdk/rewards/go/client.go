package rewards

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// MaxAccountsPerRequest is the getMultipleAccounts key limit.
const MaxAccountsPerRequest = 100

// RPCClient is the minimal RPC interface needed by the client.
type RPCClient interface {
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	GetMultipleAccounts(ctx context.Context, accounts ...solana.PublicKey) (*rpc.GetMultipleAccountsResult, error)
}

// FetchedAccount is one slot of a batch fetch. Account is nil and Found is
// false when the address holds no account.
type FetchedAccount struct {
	Address solana.PublicKey
	Account *rpc.Account
	Found   bool
}

// Client provides read-only access to Everlend reward and pool accounts.
type Client struct {
	rpc    RPCClient
	owners OwnerResolver
}

func New(rpc RPCClient, owners OwnerResolver) *Client {
	return &Client{
		rpc:    rpc,
		owners: owners,
	}
}

// FetchAccounts loads addresses in request order, splitting the batch to
// respect the RPC key limit. Missing accounts are reported in their slot
// rather than as an error.
func (c *Client) FetchAccounts(ctx context.Context, addresses []solana.PublicKey) ([]FetchedAccount, error) {
	out := make([]FetchedAccount, 0, len(addresses))
	for start := 0; start < len(addresses); start += MaxAccountsPerRequest {
		end := min(start+MaxAccountsPerRequest, len(addresses))
		chunk := addresses[start:end]
		res, err := c.rpc.GetMultipleAccounts(ctx, chunk...)
		if err != nil {
			return nil, fmt.Errorf("fetching %d accounts: %w", len(chunk), err)
		}
		if res == nil || len(res.Value) != len(chunk) {
			got := 0
			if res != nil {
				got = len(res.Value)
			}
			return nil, fmt.Errorf("fetching %d accounts: rpc returned %d", len(chunk), got)
		}
		for i, acc := range res.Value {
			out = append(out, FetchedAccount{
				Address: chunk[i],
				Account: acc,
				Found:   acc != nil,
			})
		}
	}
	return out, nil
}

func (c *Client) fetchAccount(ctx context.Context, addr solana.PublicKey) (*rpc.Account, error) {
	res, err := c.rpc.GetAccountInfo(ctx, addr)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
		}
		return nil, fmt.Errorf("fetching account %s: %w", addr, err)
	}
	if res == nil || res.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	return res.Value, nil
}

// Owner returns the program expected to own accounts of kind.
func (c *Client) Owner(kind AccountKind) (solana.PublicKey, error) {
	owner, err := c.owners.OwnerProgramFor(kind)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("resolving owner of %s: %w", kind, err)
	}
	return owner, nil
}

func fetchAndLoad[T any](ctx context.Context, c *Client, addr solana.PublicKey, kind AccountKind, loader func(solana.PublicKey, *rpc.Account, solana.PublicKey) (T, error)) (T, error) {
	var zero T
	owner, err := c.Owner(kind)
	if err != nil {
		return zero, err
	}
	acc, err := c.fetchAccount(ctx, addr)
	if err != nil {
		return zero, err
	}
	return loader(addr, acc, owner)
}

func (c *Client) FetchRewardPool(ctx context.Context, addr solana.PublicKey) (*RewardPool, error) {
	return fetchAndLoad(ctx, c, addr, AccountRewardPool, LoadRewardPool)
}

func (c *Client) FetchMining(ctx context.Context, addr solana.PublicKey) (*Mining, error) {
	return fetchAndLoad(ctx, c, addr, AccountMining, LoadMining)
}

func (c *Client) FetchPool(ctx context.Context, addr solana.PublicKey) (*Pool, error) {
	return fetchAndLoad(ctx, c, addr, AccountPool, LoadPool)
}

func (c *Client) FetchMint(ctx context.Context, addr solana.PublicKey) (*Mint, error) {
	return fetchAndLoad(ctx, c, addr, AccountMint, LoadMint)
}

func (c *Client) FetchTokenAccount(ctx context.Context, addr solana.PublicKey) (*TokenAccount, error) {
	return fetchAndLoad(ctx, c, addr, AccountTokenAccount, LoadTokenAccount)
}

// RewardAccounts are the reward pool serving a general pool's token mint and
// a user's mining account in it.
type RewardAccounts struct {
	TokenMint  solana.PublicKey
	RewardPool solana.PublicKey
	Mining     solana.PublicKey
}

// DeriveRewardAccounts derives the reward pool and mining addresses for user
// from the token mint of a general pool.
func (c *Client) DeriveRewardAccounts(rootConfig, tokenMint, user solana.PublicKey) (RewardAccounts, error) {
	rewardProgram, err := c.Owner(AccountRewardPool)
	if err != nil {
		return RewardAccounts{}, err
	}
	rewardPool, _, err := DeriveRewardPoolPDA(rewardProgram, rootConfig, tokenMint)
	if err != nil {
		return RewardAccounts{}, fmt.Errorf("deriving reward pool PDA: %w", err)
	}
	mining, _, err := DeriveMiningPDA(rewardProgram, user, rewardPool)
	if err != nil {
		return RewardAccounts{}, fmt.Errorf("deriving mining PDA: %w", err)
	}
	return RewardAccounts{TokenMint: tokenMint, RewardPool: rewardPool, Mining: mining}, nil
}

// FetchRewardAccounts loads the general pool to learn its token mint and
// then derives the reward accounts for user.
func (c *Client) FetchRewardAccounts(ctx context.Context, rootConfig, pool, user solana.PublicKey) (RewardAccounts, error) {
	p, err := c.FetchPool(ctx, pool)
	if err != nil {
		return RewardAccounts{}, err
	}
	return c.DeriveRewardAccounts(rootConfig, p.TokenMint, user)
}
