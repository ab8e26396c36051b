package borshschema

import (
	"encoding/binary"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

type writer struct {
	buf []byte
}

func (w *writer) writeU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) writeU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) writeU64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// writeU128 expects 0 <= v < 2^128; callers range-check first.
func (w *writer) writeU128(v *big.Int) {
	var le [SizeU128]byte
	be := v.Bytes()
	for i := range be {
		le[i] = be[len(be)-1-i]
	}
	w.buf = append(w.buf, le[:]...)
}

func (w *writer) writeAddress(v solana.PublicKey) {
	w.buf = append(w.buf, v[:]...)
}
