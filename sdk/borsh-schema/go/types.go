// Package borshschema decodes and encodes fixed-layout Borsh records using
// explicit schemas.
//
// A schema is an ordered list of fields. Field order defines the byte layout:
// fields are read and written strictly in declared order, little-endian, with
// no padding. Sequences carry a u32 element count followed by the elements.
package borshschema

import "fmt"

// Kind identifies the wire representation of a field.
type Kind uint8

const (
	KindU8 Kind = iota + 1
	KindU64
	KindU128
	KindAddress
	KindFixedArray
	KindStruct
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindU8:
		return "u8"
	case KindU64:
		return "u64"
	case KindU128:
		return "u128"
	case KindAddress:
		return "address"
	case KindFixedArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindSequence:
		return "seq"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Widths in bytes of the scalar kinds.
const (
	SizeU8      = 1
	SizeU64     = 8
	SizeU128    = 16
	SizeAddress = 32

	sequenceCountSize = 4
)

// FieldType is a tagged variant describing one field. Use the constructor
// functions rather than building values by hand.
type FieldType struct {
	Kind Kind
	// Elem is the element type of a fixed array.
	Elem *FieldType
	// Len is the element count of a fixed array.
	Len int
	// Ref names the schema of a struct or sequence element.
	Ref string
}

func U8() FieldType      { return FieldType{Kind: KindU8} }
func U64() FieldType     { return FieldType{Kind: KindU64} }
func U128() FieldType    { return FieldType{Kind: KindU128} }
func Address() FieldType { return FieldType{Kind: KindAddress} }

// FixedArray is n consecutive values of elem with no length prefix.
func FixedArray(elem FieldType, n int) FieldType {
	return FieldType{Kind: KindFixedArray, Elem: &elem, Len: n}
}

// Struct embeds the named schema inline.
func Struct(name string) FieldType {
	return FieldType{Kind: KindStruct, Ref: name}
}

// Sequence is a u32-count-prefixed repetition of the named schema.
func Sequence(name string) FieldType {
	return FieldType{Kind: KindSequence, Ref: name}
}

func (t FieldType) String() string {
	switch t.Kind {
	case KindFixedArray:
		if t.Elem == nil {
			return fmt.Sprintf("[?; %d]", t.Len)
		}
		return fmt.Sprintf("[%s; %d]", t.Elem, t.Len)
	case KindStruct:
		return t.Ref
	case KindSequence:
		return fmt.Sprintf("seq<%s>", t.Ref)
	default:
		return t.Kind.String()
	}
}

// Field is a named, typed slot in a schema.
type Field struct {
	Name string
	Type FieldType
}

// Schema is a named, ordered field list.
type Schema struct {
	Name   string
	Fields []Field
}

// NewSchema builds a schema from fields in wire order.
func NewSchema(name string, fields ...Field) Schema {
	return Schema{Name: name, Fields: fields}
}

// F is shorthand for declaring a field.
func F(name string, t FieldType) Field {
	return Field{Name: name, Type: t}
}
