package cli

import (
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	borsh "github.com/malbeclabs/everlend/sdk/borsh-schema/go"
	rewards "github.com/malbeclabs/everlend/sdk/rewards/go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func testMiningBytes(t *testing.T) (*rewards.Mining, []byte) {
	t.Helper()
	m := &rewards.Mining{
		AnchorID:   [8]byte{1, 2, 3, 4, 5, 6, 7, 8},
		RewardPool: solana.MustPublicKeyFromBase58("69C4Ba9LyQvWHPSSqXWXHnaedrLEuY49rSj23nJdrkkn"),
		Bump:       253,
		Share:      1_000,
		Owner:      solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"),
		Indexes: []rewards.RewardIndex{
			{
				RewardMint:         solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
				IndexWithPrecision: new(big.Int).Lsh(big.NewInt(1), 100),
				Rewards:            77,
			},
		},
	}
	data, err := rewards.Schemas.Encode(rewards.SchemaMining, m.Record())
	require.NoError(t, err)
	return m, data
}

func TestCLI_DecodeData(t *testing.T) {
	t.Parallel()

	m, data := testMiningBytes(t)

	for _, enc := range []struct {
		name string
		data string
	}{
		{name: "base64", data: base64.StdEncoding.EncodeToString(data)},
		{name: "base58", data: base58.Encode(data)},
		{name: "hex", data: hex.EncodeToString(data)},
	} {
		t.Run(enc.name, func(t *testing.T) {
			t.Parallel()
			out, err := execute(t, "decode", rewards.SchemaMining, "--encoding", enc.name, "--data", enc.data, "--strict")
			require.NoError(t, err)
			requireContainsAll(t, out,
				"anchor_id", "0102030405060708",
				m.RewardPool.String(),
				"253", "1000",
				"indexes", "1 entries",
				"indexes[0].reward_mint", m.Indexes[0].RewardMint.String(),
				"indexes[0].index_with_precision", m.Indexes[0].IndexWithPrecision.String(),
				"77",
			)
		})
	}
}

func TestCLI_DecodeDataErrors(t *testing.T) {
	t.Parallel()

	_, data := testMiningBytes(t)
	padded := base64.StdEncoding.EncodeToString(append(data, 0, 0, 0))

	_, err := execute(t, "decode", rewards.SchemaMining, "--data", padded, "--strict")
	require.ErrorIs(t, err, borsh.ErrTrailingBytes)

	_, err = execute(t, "decode", rewards.SchemaMining, "--data", padded)
	require.NoError(t, err)

	truncated := base64.StdEncoding.EncodeToString(data[:len(data)-1])
	_, err = execute(t, "decode", rewards.SchemaMining, "--data", truncated)
	require.ErrorIs(t, err, borsh.ErrTruncatedInput)

	_, err = execute(t, "decode", "not_a_schema", "--data", padded)
	require.ErrorContains(t, err, "unknown schema")

	_, err = execute(t, "decode", rewards.SchemaMining, "--data", "AA==", "--encoding", "base32")
	require.ErrorContains(t, err, "invalid encoding")

	_, err = execute(t, "decode", rewards.SchemaMining)
	require.Error(t, err)
}

func TestCLI_FlattenNestedRecord(t *testing.T) {
	t.Parallel()

	reg := borsh.MustNewRegistry(
		borsh.NewSchema("point",
			borsh.F("x", borsh.U8()),
			borsh.F("limits", borsh.FixedArray(borsh.U64(), 2)),
		),
		borsh.NewSchema("shape",
			borsh.F("origin", borsh.Struct("point")),
			borsh.F("points", borsh.Sequence("point")),
		),
	)
	point := func(x uint8) borsh.Record {
		return borsh.NewRecord("point", map[string]any{"x": x, "limits": []any{uint64(1), uint64(2)}})
	}
	data, err := reg.Encode("shape", borsh.NewRecord("shape", map[string]any{
		"origin": point(9),
		"points": []borsh.Record{point(1), point(2)},
	}))
	require.NoError(t, err)
	rec, err := reg.Decode("shape", data)
	require.NoError(t, err)

	rows := flattenRecord(reg, rec, "")
	paths := make([]string, 0, len(rows))
	for _, r := range rows {
		paths = append(paths, r[0])
	}
	require.Equal(t, []string{
		"origin.x", "origin.limits[0]", "origin.limits[1]",
		"points",
		"points[0].x", "points[0].limits[0]", "points[0].limits[1]",
		"points[1].x", "points[1].limits[0]", "points[1].limits[1]",
	}, paths)
	require.Equal(t, []string{"points", "seq<point>", "2 entries"}, rows[3])
	require.Equal(t, []string{"origin.limits[1]", "u64", "2"}, rows[2])
}
