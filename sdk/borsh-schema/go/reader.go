package borshschema

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// reader is a forward-only cursor over a Borsh buffer. Every read either
// consumes exactly its width or fails with ErrTruncatedInput and leaves the
// offset untouched.
type reader struct {
	data   []byte
	offset int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) remaining() int {
	return len(r.data) - r.offset
}

func (r *reader) take(n int, what string) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, fmt.Errorf("%w: need %d bytes for %s at offset %d, have %d", ErrTruncatedInput, n, what, r.offset, r.remaining())
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

func (r *reader) readU8() (uint8, error) {
	b, err := r.take(SizeU8, "u8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) readU32() (uint32, error) {
	b, err := r.take(sequenceCountSize, "u32")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readU64() (uint64, error) {
	b, err := r.take(SizeU64, "u64")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// readU128 reads 16 little-endian bytes into a new big.Int.
func (r *reader) readU128() (*big.Int, error) {
	b, err := r.take(SizeU128, "u128")
	if err != nil {
		return nil, err
	}
	var be [SizeU128]byte
	for i := range be {
		be[i] = b[SizeU128-1-i]
	}
	return new(big.Int).SetBytes(be[:]), nil
}

func (r *reader) readAddress() (solana.PublicKey, error) {
	b, err := r.take(SizeAddress, "address")
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}
