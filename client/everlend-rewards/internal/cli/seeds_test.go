package cli

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestCLI_ParseSeed(t *testing.T) {
	t.Parallel()

	mint := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{name: "plain string", in: "reward_pool", want: []byte("reward_pool")},
		{name: "str prefix", in: "str:base58:x", want: []byte("base58:x")},
		{name: "unknown prefix kept", in: "a:b", want: []byte("a:b")},
		{name: "base58", in: "base58:" + mint.String(), want: mint.Bytes()},
		{name: "hex", in: "hex:00ff10", want: []byte{0x00, 0xff, 0x10}},
		{name: "u8", in: "u8:254", want: []byte{254}},
		{name: "u64 little endian", in: "u64:258", want: []byte{2, 1, 0, 0, 0, 0, 0, 0}},
		{name: "bad base58", in: "base58:0OIl", wantErr: true},
		{name: "bad hex", in: "hex:zz", wantErr: true},
		{name: "u8 overflow", in: "u8:256", wantErr: true},
		{name: "negative u64", in: "u64:-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseSeed(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCLI_ParseSeedsReportsIndex(t *testing.T) {
	t.Parallel()

	_, err := parseSeeds([]string{"ok", "hex:nothex"})
	require.ErrorContains(t, err, "seed 1")
}
