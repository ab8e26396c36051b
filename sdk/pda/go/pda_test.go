package pda

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

var testProgramID = solana.MustPublicKeyFromBase58("ELDR7M6m1ysPXks53T7da6zkhnhJV44twXLiAgTf2VpM")

func TestPDA_DeriveDeterministic(t *testing.T) {
	t.Parallel()

	seeds := [][]byte{[]byte("reward_pool"), solana.TokenProgramID.Bytes()}
	addr, bump, err := Derive(testProgramID, seeds)
	require.NoError(t, err)
	require.False(t, addr.IsZero())
	require.False(t, addr.IsOnCurve(), "derived address must be off curve")

	addr2, bump2, err := Derive(testProgramID, seeds)
	require.NoError(t, err)
	require.Equal(t, addr, addr2)
	require.Equal(t, bump, bump2)
}

func TestPDA_MatchesFindProgramAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		seeds [][]byte
	}{
		{name: "no seeds", seeds: nil},
		{name: "single string", seeds: [][]byte{[]byte("mining")}},
		{name: "string and two keys", seeds: [][]byte{[]byte("vault"), testProgramID.Bytes(), solana.TokenProgramID.Bytes()}},
		{name: "max length seed", seeds: [][]byte{bytes.Repeat([]byte{0xff}, solana.MaxSeedLength)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			want, wantBump, err := solana.FindProgramAddress(tt.seeds, testProgramID)
			require.NoError(t, err)

			got, gotBump, err := Derive(testProgramID, tt.seeds)
			require.NoError(t, err)
			require.Equal(t, want, got)
			require.Equal(t, wantBump, gotBump)

			created, err := Create(testProgramID, tt.seeds, gotBump)
			require.NoError(t, err)
			require.Equal(t, got, created)
		})
	}
}

func TestPDA_SingleByteSeedChange(t *testing.T) {
	t.Parallel()

	seed := bytes.Repeat([]byte{7}, 32)
	base, _, err := Derive(testProgramID, [][]byte{[]byte("mining"), seed})
	require.NoError(t, err)

	for i := range seed {
		changed := bytes.Clone(seed)
		changed[i] ^= 0x01
		addr, _, err := Derive(testProgramID, [][]byte{[]byte("mining"), changed})
		require.NoError(t, err)
		require.NotEqual(t, base, addr, "flipping byte %d did not change the address", i)
	}

	other, _, err := Derive(solana.TokenProgramID, [][]byte{[]byte("mining"), seed})
	require.NoError(t, err)
	require.NotEqual(t, base, other)
}

func TestPDA_DoesNotModifySeeds(t *testing.T) {
	t.Parallel()

	backing := make([][]byte, 1, 4)
	backing[0] = []byte("reward_pool")
	_, _, err := Derive(testProgramID, backing)
	require.NoError(t, err)
	require.Len(t, backing, 1)
	require.Nil(t, backing[:2][1])
}

func TestPDA_SeedValidation(t *testing.T) {
	t.Parallel()

	_, _, err := Derive(testProgramID, [][]byte{make([]byte, solana.MaxSeedLength+1)})
	require.ErrorIs(t, err, ErrSeedTooLong)

	_, _, err = Derive(testProgramID, make([][]byte, MaxSeeds+1))
	require.ErrorIs(t, err, ErrTooManySeeds)

	_, _, err = Derive(testProgramID, make([][]byte, MaxSeeds))
	require.NoError(t, err)
}

func TestPDA_CreateOnCurveFails(t *testing.T) {
	t.Parallel()

	seeds := [][]byte{[]byte("vault")}
	_, bump, err := Derive(testProgramID, seeds)
	require.NoError(t, err)

	// Every bump above the canonical one produced an on-curve candidate.
	for b := int(bump) + 1; b <= 255; b++ {
		_, err := Create(testProgramID, seeds, uint8(b))
		require.Error(t, err)
	}
}

func TestPDA_MustDerivePanicsOnBadSeeds(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		MustDerive(testProgramID, make([]byte, solana.MaxSeedLength+1))
	})
	require.NotPanics(t, func() {
		MustDerive(testProgramID, []byte("reward_pool"))
	})
}
