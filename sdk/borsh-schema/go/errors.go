package borshschema

import "errors"

var (
	// ErrTruncatedInput is returned when the buffer ends before the schema is
	// fully consumed.
	ErrTruncatedInput = errors.New("borsh: truncated input")
	// ErrTrailingBytes is returned by strict decoding when bytes remain after
	// the last field.
	ErrTrailingBytes = errors.New("borsh: trailing bytes")
	// ErrOutOfRange is returned by encoding when a value does not fit its
	// declared width.
	ErrOutOfRange = errors.New("borsh: value out of range")
	// ErrTypeMismatch is returned when a record value has the wrong Go type
	// for its field.
	ErrTypeMismatch = errors.New("borsh: type mismatch")
	// ErrMissingField is returned when a record lacks a field its schema
	// declares.
	ErrMissingField = errors.New("borsh: missing field")

	ErrUnknownSchema   = errors.New("borsh: unknown schema")
	ErrDuplicateSchema = errors.New("borsh: duplicate schema")
	ErrRecursiveSchema = errors.New("borsh: recursive struct schema")
	ErrInvalidSchema   = errors.New("borsh: invalid schema")
)
