package borshschema

import (
	"fmt"
	"math"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

var (
	maxU8   = big.NewInt(math.MaxUint8)
	maxU64  = new(big.Int).SetUint64(math.MaxUint64)
	maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// Decode decodes data against the named schema and requires the buffer to be
// consumed exactly. Use it for tight payloads such as instruction arguments.
func (r *Registry) Decode(name string, data []byte) (Record, error) {
	rd := newReader(data)
	rec, err := r.decodeNamed(name, rd)
	if err != nil {
		return Record{}, err
	}
	if rd.remaining() > 0 {
		return Record{}, fmt.Errorf("%w: %d bytes left after %s", ErrTrailingBytes, rd.remaining(), name)
	}
	return rec, nil
}

// DecodeUnchecked decodes data against the named schema and ignores any bytes
// left over. Account slots are usually allocated larger than the record they
// hold, so this is the form used for loading accounts.
func (r *Registry) DecodeUnchecked(name string, data []byte) (Record, error) {
	return r.decodeNamed(name, newReader(data))
}

func (r *Registry) decodeNamed(name string, rd *reader) (Record, error) {
	s, ok := r.schemas[name]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	values := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		v, err := r.decodeValue(f.Type, rd)
		if err != nil {
			return Record{}, fmt.Errorf("%s.%s: %w", s.Name, f.Name, err)
		}
		values[f.Name] = v
	}
	return Record{schema: s.Name, values: values}, nil
}

func (r *Registry) decodeValue(t FieldType, rd *reader) (any, error) {
	switch t.Kind {
	case KindU8:
		return rd.readU8()
	case KindU64:
		return rd.readU64()
	case KindU128:
		return rd.readU128()
	case KindAddress:
		return rd.readAddress()
	case KindFixedArray:
		if t.Elem.Kind == KindU8 {
			b, err := rd.take(t.Len, t.String())
			if err != nil {
				return nil, err
			}
			out := make([]byte, t.Len)
			copy(out, b)
			return out, nil
		}
		out := make([]any, t.Len)
		for i := range out {
			v, err := r.decodeValue(*t.Elem, rd)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case KindStruct:
		return r.decodeNamed(t.Ref, rd)
	case KindSequence:
		count, err := rd.readU32()
		if err != nil {
			return nil, err
		}
		// Every element needs at least its minimum size, so a count larger
		// than the buffer can hold is reported before allocating.
		elemSize := max(r.sizes[t.Ref], 1)
		if uint64(count)*uint64(elemSize) > uint64(rd.remaining()) {
			return nil, fmt.Errorf("%w: %s count %d needs at least %d bytes at offset %d, have %d",
				ErrTruncatedInput, t, count, uint64(count)*uint64(elemSize), rd.offset, rd.remaining())
		}
		out := make([]Record, 0, min(int(count), rd.remaining()+1))
		for i := range int(count) {
			rec, err := r.decodeNamed(t.Ref, rd)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out = append(out, rec)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown field kind %s", ErrInvalidSchema, t.Kind)
}

// Encode serializes a record against the named schema. Values that do not
// fit their declared width fail with ErrOutOfRange; nothing wraps around.
func (r *Registry) Encode(name string, rec Record) ([]byte, error) {
	w := &writer{}
	if err := r.encodeNamed(name, rec, w); err != nil {
		return nil, err
	}
	return w.buf, nil
}

func (r *Registry) encodeNamed(name string, rec Record, w *writer) error {
	s, ok := r.schemas[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	if rec.schema != name {
		return fmt.Errorf("%w: record is %q, want %q", ErrTypeMismatch, rec.schema, name)
	}
	for _, f := range s.Fields {
		v, ok := rec.values[f.Name]
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrMissingField, s.Name, f.Name)
		}
		if err := r.encodeValue(f.Type, v, w); err != nil {
			return fmt.Errorf("%s.%s: %w", s.Name, f.Name, err)
		}
	}
	return nil
}

func (r *Registry) encodeValue(t FieldType, v any, w *writer) error {
	switch t.Kind {
	case KindU8:
		n, err := checkedInt(v, maxU8, t)
		if err != nil {
			return err
		}
		w.writeU8(uint8(n.Uint64()))
	case KindU64:
		n, err := checkedInt(v, maxU64, t)
		if err != nil {
			return err
		}
		w.writeU64(n.Uint64())
	case KindU128:
		n, err := checkedInt(v, maxU128, t)
		if err != nil {
			return err
		}
		w.writeU128(n)
	case KindAddress:
		switch pk := v.(type) {
		case solana.PublicKey:
			w.writeAddress(pk)
		case [32]byte:
			w.writeAddress(solana.PublicKey(pk))
		default:
			return fmt.Errorf("%w: %T for address", ErrTypeMismatch, v)
		}
	case KindFixedArray:
		return r.encodeArray(t, v, w)
	case KindStruct:
		rec, ok := v.(Record)
		if !ok {
			return fmt.Errorf("%w: %T for %s", ErrTypeMismatch, v, t)
		}
		return r.encodeNamed(t.Ref, rec, w)
	case KindSequence:
		recs, ok := v.([]Record)
		if !ok {
			return fmt.Errorf("%w: %T for %s", ErrTypeMismatch, v, t)
		}
		if uint64(len(recs)) > math.MaxUint32 {
			return fmt.Errorf("%w: %s length %d exceeds u32", ErrOutOfRange, t, len(recs))
		}
		w.writeU32(uint32(len(recs)))
		for i, rec := range recs {
			if err := r.encodeNamed(t.Ref, rec, w); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("%w: unknown field kind %s", ErrInvalidSchema, t.Kind)
	}
	return nil
}

func (r *Registry) encodeArray(t FieldType, v any, w *writer) error {
	if b, ok := v.([]byte); ok {
		if t.Elem.Kind != KindU8 {
			return fmt.Errorf("%w: []byte for %s", ErrTypeMismatch, t)
		}
		if len(b) != t.Len {
			return fmt.Errorf("%w: %s has %d elements", ErrOutOfRange, t, len(b))
		}
		w.buf = append(w.buf, b...)
		return nil
	}
	elems, ok := v.([]any)
	if !ok {
		return fmt.Errorf("%w: %T for %s", ErrTypeMismatch, v, t)
	}
	if len(elems) != t.Len {
		return fmt.Errorf("%w: %s has %d elements", ErrOutOfRange, t, len(elems))
	}
	for i, e := range elems {
		if err := r.encodeValue(*t.Elem, e, w); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

// checkedInt converts v to a big.Int and requires 0 <= v <= limit.
func checkedInt(v any, limit *big.Int, t FieldType) (*big.Int, error) {
	n, err := toBig(v)
	if err != nil {
		return nil, fmt.Errorf("%w for %s", err, t)
	}
	if n.Sign() < 0 || n.Cmp(limit) > 0 {
		return nil, fmt.Errorf("%w: %s does not fit %s", ErrOutOfRange, n, t)
	}
	return n, nil
}

func toBig(v any) (*big.Int, error) {
	switch n := v.(type) {
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case int:
		return big.NewInt(int64(n)), nil
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("%w: nil *big.Int", ErrTypeMismatch)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: %T is not an integer", ErrTypeMismatch, v)
}
