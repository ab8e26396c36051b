package borshschema

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// Record is a decoded (or to-be-encoded) instance of a schema. Values are
// keyed by field name and have these Go types:
//
//	u8        uint8
//	u64       uint64
//	u128      *big.Int
//	address   solana.PublicKey
//	[u8; n]   []byte
//	[T; n]    []any
//	struct    Record
//	seq<T>    []Record
//
// Encoding additionally accepts any Go integer type (and *big.Int) for the
// integer kinds, range-checked against the declared width.
//
// Records returned by decoding are not shared with anything else; accessors
// return copies of big integers and byte slices so callers cannot mutate them.
type Record struct {
	schema string
	values map[string]any
}

// NewRecord builds a record for encoding. The values map is copied.
func NewRecord(schema string, values map[string]any) Record {
	cp := make(map[string]any, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Record{schema: schema, values: cp}
}

// Schema returns the name of the schema the record was built for.
func (r Record) Schema() string { return r.schema }

// Get returns a copy of the value of a field.
func (r Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *big.Int:
		if val == nil {
			return val
		}
		return new(big.Int).Set(val)
	case []byte:
		return bytes.Clone(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case []Record:
		out := make([]Record, len(val))
		copy(out, val)
		return out
	}
	return v
}

func (r Record) lookup(name string) (any, error) {
	v, ok := r.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrMissingField, r.schema, name)
	}
	return v, nil
}

func mismatch(schema, name string, want string, got any) error {
	return fmt.Errorf("%w: %s.%s is %T, want %s", ErrTypeMismatch, schema, name, got, want)
}

func (r Record) Uint8(name string) (uint8, error) {
	v, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	u, ok := v.(uint8)
	if !ok {
		return 0, mismatch(r.schema, name, "uint8", v)
	}
	return u, nil
}

func (r Record) Uint64(name string) (uint64, error) {
	v, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	u, ok := v.(uint64)
	if !ok {
		return 0, mismatch(r.schema, name, "uint64", v)
	}
	return u, nil
}

// Uint128 returns a copy of a u128 field.
func (r Record) Uint128(name string) (*big.Int, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	u, ok := v.(*big.Int)
	if !ok || u == nil {
		return nil, mismatch(r.schema, name, "*big.Int", v)
	}
	return new(big.Int).Set(u), nil
}

func (r Record) Address(name string) (solana.PublicKey, error) {
	v, err := r.lookup(name)
	if err != nil {
		return solana.PublicKey{}, err
	}
	pk, ok := v.(solana.PublicKey)
	if !ok {
		return solana.PublicKey{}, mismatch(r.schema, name, "solana.PublicKey", v)
	}
	return pk, nil
}

// Bytes returns a copy of a [u8; n] field.
func (r Record) Bytes(name string) ([]byte, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, mismatch(r.schema, name, "[]byte", v)
	}
	return bytes.Clone(b), nil
}

// Array returns a fixed array field whose element type is not u8.
func (r Record) Array(name string) ([]any, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	a, ok := v.([]any)
	if !ok {
		return nil, mismatch(r.schema, name, "[]any", v)
	}
	return cloneValue(a).([]any), nil
}

func (r Record) Struct(name string) (Record, error) {
	v, err := r.lookup(name)
	if err != nil {
		return Record{}, err
	}
	s, ok := v.(Record)
	if !ok {
		return Record{}, mismatch(r.schema, name, "Record", v)
	}
	return s, nil
}

func (r Record) Sequence(name string) ([]Record, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	s, ok := v.([]Record)
	if !ok {
		return nil, mismatch(r.schema, name, "[]Record", v)
	}
	out := make([]Record, len(s))
	copy(out, s)
	return out, nil
}

// Equal reports whether two records hold the same schema name and values.
// Integers compare by numeric value regardless of Go type.
func (r Record) Equal(o Record) bool {
	if r.schema != o.schema || len(r.values) != len(o.values) {
		return false
	}
	for k, a := range r.values {
		b, ok := o.values[k]
		if !ok || !valueEqual(a, b) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case Record:
		bv, ok := b.(Record)
		return ok && av.Equal(bv)
	case []Record:
		bv, ok := b.([]Record)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !av[i].Equal(bv[i]) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case solana.PublicKey:
		bv, ok := b.(solana.PublicKey)
		return ok && av.Equals(bv)
	}
	ai, aerr := toBig(a)
	bi, berr := toBig(b)
	if aerr == nil && berr == nil {
		return ai.Cmp(bi) == 0
	}
	return false
}
