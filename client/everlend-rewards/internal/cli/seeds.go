package cli

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
)

// parseSeed turns a command line seed into bytes. A seed may carry one of the
// prefixes base58:, hex:, str:, u8: or u64: (little-endian); anything else is
// taken as a literal string.
func parseSeed(s string) ([]byte, error) {
	prefix, rest, ok := strings.Cut(s, ":")
	if !ok {
		return []byte(s), nil
	}
	switch prefix {
	case "base58":
		b, err := base58.Decode(rest)
		if err != nil {
			return nil, fmt.Errorf("invalid base58 seed %q: %w", rest, err)
		}
		return b, nil
	case "hex":
		b, err := hex.DecodeString(rest)
		if err != nil {
			return nil, fmt.Errorf("invalid hex seed %q: %w", rest, err)
		}
		return b, nil
	case "str":
		return []byte(rest), nil
	case "u8":
		n, err := strconv.ParseUint(rest, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid u8 seed %q: %w", rest, err)
		}
		return []byte{byte(n)}, nil
	case "u64":
		n, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid u64 seed %q: %w", rest, err)
		}
		return binary.LittleEndian.AppendUint64(nil, n), nil
	}
	return []byte(s), nil
}

func parseSeeds(args []string) ([][]byte, error) {
	seeds := make([][]byte, 0, len(args))
	for i, a := range args {
		seed, err := parseSeed(a)
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", i, err)
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}
