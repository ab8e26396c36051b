package rewards

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	borsh "github.com/malbeclabs/everlend/sdk/borsh-schema/go"
)

// RewardVault is one reward mint's slot inside a reward pool. Its index grows
// as rewards are distributed into the pool.
type RewardVault struct {
	Bump               uint8
	RewardMint         solana.PublicKey
	IndexWithPrecision *big.Int
	FeeAccount         solana.PublicKey
}

type RewardPool struct {
	AccountType      uint8
	RewardsRoot      solana.PublicKey
	Bump             uint8
	LiquidityMint    solana.PublicKey
	TotalShare       uint64
	Vaults           []RewardVault
	DepositAuthority solana.PublicKey
}

// RewardIndex is a user's checkpoint against one reward mint: the vault
// index observed at the last accrual and the rewards credited so far.
type RewardIndex struct {
	RewardMint         solana.PublicKey
	IndexWithPrecision *big.Int
	Rewards            uint64
}

type Mining struct {
	AnchorID   [anchorIDLength]byte
	RewardPool solana.PublicKey
	Bump       uint8
	Share      uint64
	Owner      solana.PublicKey
	Indexes    []RewardIndex
}

// Pool is the leading part of a general pool account.
type Pool struct {
	AccountType         uint8
	PoolMarket          solana.PublicKey
	TokenMint           solana.PublicKey
	TokenAccount        solana.PublicKey
	PoolMint            solana.PublicKey
	TotalAmountBorrowed uint64
}

// Mint is an SPL token mint. Optional authorities are nil when unset.
type Mint struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *solana.PublicKey
}

// TokenAccount is the leading part of an SPL token account.
type TokenAccount struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

// fieldReader pulls typed fields out of a record and keeps the first error,
// so conversions can read every field and check once at the end.
type fieldReader struct {
	rec borsh.Record
	err error
}

func (r *fieldReader) u8(name string) uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.rec.Uint8(name)
	r.err = err
	return v
}

func (r *fieldReader) u64(name string) uint64 {
	if r.err != nil {
		return 0
	}
	v, err := r.rec.Uint64(name)
	r.err = err
	return v
}

func (r *fieldReader) u128(name string) *big.Int {
	if r.err != nil {
		return nil
	}
	v, err := r.rec.Uint128(name)
	r.err = err
	return v
}

func (r *fieldReader) address(name string) solana.PublicKey {
	if r.err != nil {
		return solana.PublicKey{}
	}
	v, err := r.rec.Address(name)
	r.err = err
	return v
}

func (r *fieldReader) bytes(name string) []byte {
	if r.err != nil {
		return nil
	}
	v, err := r.rec.Bytes(name)
	r.err = err
	return v
}

func (r *fieldReader) sequence(name string) []borsh.Record {
	if r.err != nil {
		return nil
	}
	v, err := r.rec.Sequence(name)
	r.err = err
	return v
}

// coption reads an SPL COption<Pubkey>: a u32 tag followed by the key.
func (r *fieldReader) coption(tag, name string) *solana.PublicKey {
	t := r.bytes(tag)
	key := r.address(name)
	if r.err != nil || t[0] == 0 {
		return nil
	}
	return &key
}

func rewardVaultFromRecord(rec borsh.Record) (RewardVault, error) {
	r := fieldReader{rec: rec}
	v := RewardVault{
		Bump:               r.u8("bump"),
		RewardMint:         r.address("reward_mint"),
		IndexWithPrecision: r.u128("index_with_precision"),
		FeeAccount:         r.address("fee_account"),
	}
	return v, r.err
}

func rewardPoolFromRecord(rec borsh.Record) (*RewardPool, error) {
	r := fieldReader{rec: rec}
	p := &RewardPool{
		AccountType:      r.u8("account_type"),
		RewardsRoot:      r.address("rewards_root"),
		Bump:             r.u8("bump"),
		LiquidityMint:    r.address("liquidity_mint"),
		TotalShare:       r.u64("total_share"),
		DepositAuthority: r.address("deposit_authority"),
	}
	vaults := r.sequence("vaults")
	if r.err != nil {
		return nil, r.err
	}
	p.Vaults = make([]RewardVault, 0, len(vaults))
	for _, vr := range vaults {
		v, err := rewardVaultFromRecord(vr)
		if err != nil {
			return nil, err
		}
		p.Vaults = append(p.Vaults, v)
	}
	return p, nil
}

func rewardIndexFromRecord(rec borsh.Record) (RewardIndex, error) {
	r := fieldReader{rec: rec}
	idx := RewardIndex{
		RewardMint:         r.address("reward_mint"),
		IndexWithPrecision: r.u128("index_with_precision"),
		Rewards:            r.u64("rewards"),
	}
	return idx, r.err
}

func miningFromRecord(rec borsh.Record) (*Mining, error) {
	r := fieldReader{rec: rec}
	m := &Mining{
		RewardPool: r.address("reward_pool"),
		Bump:       r.u8("bump"),
		Share:      r.u64("share"),
		Owner:      r.address("owner"),
	}
	copy(m.AnchorID[:], r.bytes("anchor_id"))
	indexes := r.sequence("indexes")
	if r.err != nil {
		return nil, r.err
	}
	m.Indexes = make([]RewardIndex, 0, len(indexes))
	for _, ir := range indexes {
		idx, err := rewardIndexFromRecord(ir)
		if err != nil {
			return nil, err
		}
		m.Indexes = append(m.Indexes, idx)
	}
	return m, nil
}

func poolFromRecord(rec borsh.Record) (*Pool, error) {
	r := fieldReader{rec: rec}
	p := &Pool{
		AccountType:         r.u8("account_type"),
		PoolMarket:          r.address("pool_market"),
		TokenMint:           r.address("token_mint"),
		TokenAccount:        r.address("token_account"),
		PoolMint:            r.address("pool_mint"),
		TotalAmountBorrowed: r.u64("total_amount_borrowed"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

func mintFromRecord(rec borsh.Record) (*Mint, error) {
	r := fieldReader{rec: rec}
	m := &Mint{
		MintAuthority:   r.coption("mint_authority_option", "mint_authority"),
		Supply:          r.u64("supply"),
		Decimals:        r.u8("decimals"),
		IsInitialized:   r.u8("is_initialized") != 0,
		FreezeAuthority: r.coption("freeze_authority_option", "freeze_authority"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return m, nil
}

func tokenAccountFromRecord(rec borsh.Record) (*TokenAccount, error) {
	r := fieldReader{rec: rec}
	a := &TokenAccount{
		Mint:   r.address("mint"),
		Owner:  r.address("owner"),
		Amount: r.u64("amount"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return a, nil
}

func (v RewardVault) Record() borsh.Record {
	return borsh.NewRecord(SchemaRewardVault, map[string]any{
		"bump":                 v.Bump,
		"reward_mint":          v.RewardMint,
		"index_with_precision": bigOrZero(v.IndexWithPrecision),
		"fee_account":          v.FeeAccount,
	})
}

// Record converts the pool back into its schema form, e.g. for encoding.
func (p *RewardPool) Record() borsh.Record {
	vaults := make([]borsh.Record, len(p.Vaults))
	for i, v := range p.Vaults {
		vaults[i] = v.Record()
	}
	return borsh.NewRecord(SchemaRewardPool, map[string]any{
		"account_type":      p.AccountType,
		"rewards_root":      p.RewardsRoot,
		"bump":              p.Bump,
		"liquidity_mint":    p.LiquidityMint,
		"total_share":       p.TotalShare,
		"vaults":            vaults,
		"deposit_authority": p.DepositAuthority,
	})
}

func (idx RewardIndex) Record() borsh.Record {
	return borsh.NewRecord(SchemaRewardIndex, map[string]any{
		"reward_mint":          idx.RewardMint,
		"index_with_precision": bigOrZero(idx.IndexWithPrecision),
		"rewards":              idx.Rewards,
	})
}

func (m *Mining) Record() borsh.Record {
	indexes := make([]borsh.Record, len(m.Indexes))
	for i, idx := range m.Indexes {
		indexes[i] = idx.Record()
	}
	return borsh.NewRecord(SchemaMining, map[string]any{
		"anchor_id":   m.AnchorID[:],
		"reward_pool": m.RewardPool,
		"bump":        m.Bump,
		"share":       m.Share,
		"owner":       m.Owner,
		"indexes":     indexes,
	})
}

func (p *Pool) Record() borsh.Record {
	return borsh.NewRecord(SchemaPool, map[string]any{
		"account_type":          p.AccountType,
		"pool_market":           p.PoolMarket,
		"token_mint":            p.TokenMint,
		"token_account":         p.TokenAccount,
		"pool_mint":             p.PoolMint,
		"total_amount_borrowed": p.TotalAmountBorrowed,
	})
}

func (m *Mint) Record() borsh.Record {
	mintTag, mintAuthority := coptionValue(m.MintAuthority)
	freezeTag, freezeAuthority := coptionValue(m.FreezeAuthority)
	var initialized uint8
	if m.IsInitialized {
		initialized = 1
	}
	return borsh.NewRecord(SchemaMint, map[string]any{
		"mint_authority_option":   mintTag,
		"mint_authority":          mintAuthority,
		"supply":                  m.Supply,
		"decimals":                m.Decimals,
		"is_initialized":          initialized,
		"freeze_authority_option": freezeTag,
		"freeze_authority":        freezeAuthority,
	})
}

func (a *TokenAccount) Record() borsh.Record {
	return borsh.NewRecord(SchemaTokenAccount, map[string]any{
		"mint":   a.Mint,
		"owner":  a.Owner,
		"amount": a.Amount,
	})
}

func coptionValue(key *solana.PublicKey) ([]byte, solana.PublicKey) {
	tag := make([]byte, coptionTagLength)
	if key == nil {
		return tag, solana.PublicKey{}
	}
	tag[0] = 1
	return tag, *key
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
