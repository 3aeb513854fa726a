// =============================
// File: internal/dex/pumpfun/amount_config.go
// =============================
package pumpfun

import (
	"encoding/binary"
	"fmt"
	"slices"

	bin "github.com/gagliardetto/binary"
)

// Amount is the set of integer types an AmountConfig can bound.
type Amount interface {
	uint8 | uint64
}

// AmountConfigKind selects the AmountConfig variant. Values match the Borsh enum index.
type AmountConfigKind uint8

const (
	AmountRange AmountConfigKind = iota
	AmountEnum
)

// AmountConfig constrains a launch parameter either to an inclusive range with optional
// bounds or to an explicit list of allowed values.
type AmountConfig[T Amount] struct {
	Kind   AmountConfigKind
	Min    *T  // Range only; nil means unbounded below.
	Max    *T  // Range only; nil means unbounded above.
	Values []T // Enum only.
}

// Bound returns a pointer to v, for building Range configs inline.
func Bound[T Amount](v T) *T {
	return &v
}

// RangeConfig builds a Range variant. Either bound may be nil.
func RangeConfig[T Amount](min, max *T) AmountConfig[T] {
	return AmountConfig[T]{Kind: AmountRange, Min: min, Max: max}
}

// EnumConfig builds an Enum variant accepting exactly the given values.
func EnumConfig[T Amount](values ...T) AmountConfig[T] {
	return AmountConfig[T]{Kind: AmountEnum, Values: slices.Clone(values)}
}

// Validate checks value against the constraint.
func (c AmountConfig[T]) Validate(value T) error {
	switch c.Kind {
	case AmountRange:
		if c.Min != nil && value < *c.Min {
			return fmt.Errorf("value %d too small, expected at least %d: %w", value, *c.Min, ErrValueTooSmall)
		}
		if c.Max != nil && value > *c.Max {
			return fmt.Errorf("value %d too large, expected at most %d: %w", value, *c.Max, ErrValueTooLarge)
		}
		return nil
	case AmountEnum:
		if slices.Contains(c.Values, value) {
			return nil
		}
		return fmt.Errorf("invalid value %d, expected one of: %v: %w", value, c.Values, ErrValueInvalid)
	default:
		return fmt.Errorf("unknown amount config kind %d: %w", c.Kind, ErrValueInvalid)
	}
}

func (c AmountConfig[T]) String() string {
	if c.Kind == AmountEnum {
		return fmt.Sprintf("enum%v", c.Values)
	}
	lo, hi := "-inf", "+inf"
	if c.Min != nil {
		lo = fmt.Sprint(*c.Min)
	}
	if c.Max != nil {
		hi = fmt.Sprint(*c.Max)
	}
	return fmt.Sprintf("[%s, %s]", lo, hi)
}

// MarshalWithEncoder writes the Borsh enum layout: variant byte, then
// Option<T> min + Option<T> max for Range, or Vec<T> for Enum.
func (c AmountConfig[T]) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint8(uint8(c.Kind)); err != nil {
		return err
	}
	switch c.Kind {
	case AmountRange:
		if err := writeOptionalAmount(enc, c.Min); err != nil {
			return err
		}
		return writeOptionalAmount(enc, c.Max)
	case AmountEnum:
		if err := enc.WriteUint32(uint32(len(c.Values)), binary.LittleEndian); err != nil {
			return err
		}
		for _, v := range c.Values {
			if err := writeAmount(enc, v); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown amount config kind %d", c.Kind)
	}
}

// UnmarshalWithDecoder reads the layout written by MarshalWithEncoder.
func (c *AmountConfig[T]) UnmarshalWithDecoder(dec *bin.Decoder) error {
	kind, err := dec.ReadUint8()
	if err != nil {
		return err
	}
	*c = AmountConfig[T]{Kind: AmountConfigKind(kind)}
	switch c.Kind {
	case AmountRange:
		if c.Min, err = readOptionalAmount[T](dec); err != nil {
			return err
		}
		c.Max, err = readOptionalAmount[T](dec)
		return err
	case AmountEnum:
		n, err := dec.ReadUint32(binary.LittleEndian)
		if err != nil {
			return err
		}
		c.Values = make([]T, 0, n)
		for i := uint32(0); i < n; i++ {
			v, err := readAmount[T](dec)
			if err != nil {
				return err
			}
			c.Values = append(c.Values, v)
		}
		return nil
	default:
		return fmt.Errorf("unknown amount config kind %d", kind)
	}
}

func writeOptionalAmount[T Amount](enc *bin.Encoder, v *T) error {
	if err := enc.WriteBool(v != nil); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return writeAmount(enc, *v)
}

func readOptionalAmount[T Amount](dec *bin.Decoder) (*T, error) {
	present, err := dec.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	v, err := readAmount[T](dec)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func writeAmount[T Amount](enc *bin.Encoder, v T) error {
	switch x := any(v).(type) {
	case uint8:
		return enc.WriteUint8(x)
	case uint64:
		return enc.WriteUint64(x, binary.LittleEndian)
	}
	return fmt.Errorf("unsupported amount type %T", v)
}

func readAmount[T Amount](dec *bin.Decoder) (T, error) {
	var v T
	var err error
	switch p := any(&v).(type) {
	case *uint8:
		*p, err = dec.ReadUint8()
	case *uint64:
		*p, err = dec.ReadUint64(binary.LittleEndian)
	default:
		err = fmt.Errorf("unsupported amount type %T", v)
	}
	return v, err
}
