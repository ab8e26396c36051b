package rewards

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	borsh "github.com/malbeclabs/everlend/sdk/borsh-schema/go"
)

var (
	ErrInvalidOwner    = errors.New("account owned by unexpected program")
	ErrAccountNotFound = errors.New("account not found")
)

// AccountKind names an account type this package can load. Each kind maps to
// one schema and one owning program.
type AccountKind string

const (
	AccountRewardPool   AccountKind = "reward_pool"
	AccountMining       AccountKind = "mining"
	AccountPool         AccountKind = "pool"
	AccountMint         AccountKind = "mint"
	AccountTokenAccount AccountKind = "token_account"
)

// Schema returns the registry name of the kind's layout.
func (k AccountKind) Schema() string {
	switch k {
	case AccountRewardPool:
		return SchemaRewardPool
	case AccountMining:
		return SchemaMining
	case AccountPool:
		return SchemaPool
	case AccountMint:
		return SchemaMint
	case AccountTokenAccount:
		return SchemaTokenAccount
	}
	return ""
}

// OwnerResolver maps an account kind to the program expected to own it.
type OwnerResolver interface {
	OwnerProgramFor(kind AccountKind) (solana.PublicKey, error)
}

// AccountView is a decoded account bound to the address it was read from.
type AccountView struct {
	Address  solana.PublicKey
	Owner    solana.PublicKey
	Lamports uint64
	Record   borsh.Record
}

// Bind checks that info is owned by expectedOwner and only then decodes its
// data against schema. Accounts are usually larger than the record they
// hold, so trailing bytes are ignored.
func Bind(registry *borsh.Registry, address solana.PublicKey, info *rpc.Account, expectedOwner solana.PublicKey, schema string) (*AccountView, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}
	if !info.Owner.Equals(expectedOwner) {
		return nil, fmt.Errorf("%w: %s is owned by %s, want %s", ErrInvalidOwner, address, info.Owner, expectedOwner)
	}
	rec, err := registry.DecodeUnchecked(schema, info.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("decoding %s account %s: %w", schema, address, err)
	}
	return &AccountView{
		Address:  address,
		Owner:    info.Owner,
		Lamports: info.Lamports,
		Record:   rec,
	}, nil
}

func load[T any](address solana.PublicKey, info *rpc.Account, owner solana.PublicKey, kind AccountKind, convert func(borsh.Record) (T, error)) (T, error) {
	var zero T
	view, err := Bind(Schemas, address, info, owner, kind.Schema())
	if err != nil {
		return zero, err
	}
	v, err := convert(view.Record)
	if err != nil {
		return zero, fmt.Errorf("converting %s account %s: %w", kind, address, err)
	}
	return v, nil
}

// LoadRewardPool binds and converts a reward pool account owned by the
// reward program.
func LoadRewardPool(address solana.PublicKey, info *rpc.Account, rewardProgram solana.PublicKey) (*RewardPool, error) {
	return load(address, info, rewardProgram, AccountRewardPool, rewardPoolFromRecord)
}

func LoadMining(address solana.PublicKey, info *rpc.Account, rewardProgram solana.PublicKey) (*Mining, error) {
	return load(address, info, rewardProgram, AccountMining, miningFromRecord)
}

func LoadPool(address solana.PublicKey, info *rpc.Account, generalPoolsProgram solana.PublicKey) (*Pool, error) {
	return load(address, info, generalPoolsProgram, AccountPool, poolFromRecord)
}

func LoadMint(address solana.PublicKey, info *rpc.Account, tokenProgram solana.PublicKey) (*Mint, error) {
	return load(address, info, tokenProgram, AccountMint, mintFromRecord)
}

func LoadTokenAccount(address solana.PublicKey, info *rpc.Account, tokenProgram solana.PublicKey) (*TokenAccount, error) {
	return load(address, info, tokenProgram, AccountTokenAccount, tokenAccountFromRecord)
}
