package borshschema

import (
	"fmt"
	"slices"
)

// Registry holds a closed set of schemas indexed by name. It is immutable
// after construction and safe for concurrent use.
type Registry struct {
	schemas map[string]Schema
	sizes   map[string]int
}

// NewRegistry validates the given schemas and indexes them by name. Every
// Struct and Sequence reference must resolve within the same set, and struct
// embedding must not be cyclic.
func NewRegistry(schemas ...Schema) (*Registry, error) {
	r := &Registry{
		schemas: make(map[string]Schema, len(schemas)),
		sizes:   make(map[string]int, len(schemas)),
	}
	for _, s := range schemas {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: schema without a name", ErrInvalidSchema)
		}
		if _, ok := r.schemas[s.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSchema, s.Name)
		}
		if len(s.Fields) == 0 {
			return nil, fmt.Errorf("%w: %s has no fields", ErrInvalidSchema, s.Name)
		}
		seen := make(map[string]struct{}, len(s.Fields))
		for _, f := range s.Fields {
			if f.Name == "" {
				return nil, fmt.Errorf("%w: %s has an unnamed field", ErrInvalidSchema, s.Name)
			}
			if _, dup := seen[f.Name]; dup {
				return nil, fmt.Errorf("%w: %s declares %s twice", ErrInvalidSchema, s.Name, f.Name)
			}
			seen[f.Name] = struct{}{}
		}
		r.schemas[s.Name] = s
	}
	for _, s := range schemas {
		for _, f := range s.Fields {
			if err := r.validateType(f.Type); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", s.Name, f.Name, err)
			}
		}
	}
	visiting := make(map[string]bool)
	for _, s := range schemas {
		if _, err := r.size(s.Name, visiting); err != nil {
			return nil, err
		}
	}
	for _, s := range schemas {
		for _, f := range s.Fields {
			if err := r.checkSequenceElems(f.Type); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", s.Name, f.Name, err)
			}
		}
	}
	return r, nil
}

// checkSequenceElems rejects sequences of zero-width elements. A count for
// those is not bounded by the input length.
func (r *Registry) checkSequenceElems(t FieldType) error {
	switch t.Kind {
	case KindFixedArray:
		return r.checkSequenceElems(*t.Elem)
	case KindSequence:
		if r.sizes[t.Ref] == 0 {
			return fmt.Errorf("%w: %s has zero-width elements", ErrInvalidSchema, t)
		}
	}
	return nil
}

// MustNewRegistry is NewRegistry for package-level schema sets; it panics on
// an invalid schema.
func MustNewRegistry(schemas ...Schema) *Registry {
	r, err := NewRegistry(schemas...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) validateType(t FieldType) error {
	switch t.Kind {
	case KindU8, KindU64, KindU128, KindAddress:
		return nil
	case KindFixedArray:
		if t.Elem == nil {
			return fmt.Errorf("%w: array without element type", ErrInvalidSchema)
		}
		if t.Len < 0 {
			return fmt.Errorf("%w: negative array length %d", ErrInvalidSchema, t.Len)
		}
		return r.validateType(*t.Elem)
	case KindStruct, KindSequence:
		if _, ok := r.schemas[t.Ref]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSchema, t.Ref)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown field kind %s", ErrInvalidSchema, t.Kind)
	}
}

// size computes the minimum encoded size of a schema, counting sequences as
// empty, and rejects struct cycles.
func (r *Registry) size(name string, visiting map[string]bool) (int, error) {
	if n, ok := r.sizes[name]; ok {
		return n, nil
	}
	if visiting[name] {
		return 0, fmt.Errorf("%w: %s", ErrRecursiveSchema, name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	total := 0
	for _, f := range r.schemas[name].Fields {
		n, err := r.typeSize(f.Type, visiting)
		if err != nil {
			return 0, err
		}
		total += n
	}
	r.sizes[name] = total
	return total, nil
}

func (r *Registry) typeSize(t FieldType, visiting map[string]bool) (int, error) {
	switch t.Kind {
	case KindU8:
		return SizeU8, nil
	case KindU64:
		return SizeU64, nil
	case KindU128:
		return SizeU128, nil
	case KindAddress:
		return SizeAddress, nil
	case KindFixedArray:
		n, err := r.typeSize(*t.Elem, visiting)
		if err != nil {
			return 0, err
		}
		return n * t.Len, nil
	case KindStruct:
		return r.size(t.Ref, visiting)
	case KindSequence:
		return sequenceCountSize, nil
	}
	return 0, fmt.Errorf("%w: unknown field kind %s", ErrInvalidSchema, t.Kind)
}

// Schema returns the named schema.
func (r *Registry) Schema(name string) (Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the registered schema names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Size returns the minimum number of bytes a buffer must hold to decode the
// named schema, i.e. its encoded size with every sequence empty.
func (r *Registry) Size(name string) (int, error) {
	n, ok := r.sizes[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return n, nil
}
