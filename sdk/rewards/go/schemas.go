// Package rewards reads Everlend reward and general-pool accounts and
// computes the rewards a user has accrued but not yet claimed.
package rewards

import (
	borsh "github.com/malbeclabs/everlend/sdk/borsh-schema/go"
)

// Schema names registered in Schemas.
const (
	SchemaRewardVault  = "reward_vault"
	SchemaRewardPool   = "reward_pool"
	SchemaRewardIndex  = "reward_index"
	SchemaMining       = "mining"
	SchemaPool         = "pool"
	SchemaMint         = "spl_mint"
	SchemaTokenAccount = "spl_token_account"
)

// Encoded sizes of the fixed-layout records.
const (
	RewardVaultSize = 81
	RewardIndexSize = 56
	MintSize        = 82

	anchorIDLength   = 8
	coptionTagLength = 4
)

// Schemas holds the account layouts of the reward program, the general pool
// program and the SPL token program. Only the leading fields of SPL token
// accounts are described; they are decoded leniently.
var Schemas = borsh.MustNewRegistry(
	borsh.NewSchema(SchemaRewardVault,
		borsh.F("bump", borsh.U8()),
		borsh.F("reward_mint", borsh.Address()),
		borsh.F("index_with_precision", borsh.U128()),
		borsh.F("fee_account", borsh.Address()),
	),
	borsh.NewSchema(SchemaRewardPool,
		borsh.F("account_type", borsh.U8()),
		borsh.F("rewards_root", borsh.Address()),
		borsh.F("bump", borsh.U8()),
		borsh.F("liquidity_mint", borsh.Address()),
		borsh.F("total_share", borsh.U64()),
		borsh.F("vaults", borsh.Sequence(SchemaRewardVault)),
		borsh.F("deposit_authority", borsh.Address()),
	),
	borsh.NewSchema(SchemaRewardIndex,
		borsh.F("reward_mint", borsh.Address()),
		borsh.F("index_with_precision", borsh.U128()),
		borsh.F("rewards", borsh.U64()),
	),
	borsh.NewSchema(SchemaMining,
		borsh.F("anchor_id", borsh.FixedArray(borsh.U8(), anchorIDLength)),
		borsh.F("reward_pool", borsh.Address()),
		borsh.F("bump", borsh.U8()),
		borsh.F("share", borsh.U64()),
		borsh.F("owner", borsh.Address()),
		borsh.F("indexes", borsh.Sequence(SchemaRewardIndex)),
	),
	borsh.NewSchema(SchemaPool,
		borsh.F("account_type", borsh.U8()),
		borsh.F("pool_market", borsh.Address()),
		borsh.F("token_mint", borsh.Address()),
		borsh.F("token_account", borsh.Address()),
		borsh.F("pool_mint", borsh.Address()),
		borsh.F("total_amount_borrowed", borsh.U64()),
	),
	borsh.NewSchema(SchemaMint,
		borsh.F("mint_authority_option", borsh.FixedArray(borsh.U8(), coptionTagLength)),
		borsh.F("mint_authority", borsh.Address()),
		borsh.F("supply", borsh.U64()),
		borsh.F("decimals", borsh.U8()),
		borsh.F("is_initialized", borsh.U8()),
		borsh.F("freeze_authority_option", borsh.FixedArray(borsh.U8(), coptionTagLength)),
		borsh.F("freeze_authority", borsh.Address()),
	),
	borsh.NewSchema(SchemaTokenAccount,
		borsh.F("mint", borsh.Address()),
		borsh.F("owner", borsh.Address()),
		borsh.F("amount", borsh.U64()),
	),
)
