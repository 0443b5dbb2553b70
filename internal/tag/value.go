package tag

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Type names the variant of a Value as it appears in rule files.
type Type string

const (
	TypeInt    Type = "int"
	TypeByte   Type = "byte"
	TypeString Type = "string"
)

var (
	// ErrUnknownValueType is returned when a type tag is outside {int, byte, string}.
	ErrUnknownValueType = errors.New("unknown value type")

	// ErrTypeMismatch is returned when a payload does not fit its declared type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Value is a sealed interface over the property value variants.
// Only Int, Byte and String implement it.
type Value interface {
	Type() Type
	String() string
	tagValue()
}

// Int is a 32-bit signed property value.
type Int int32

func (Int) tagValue()        {}
func (Int) Type() Type       { return TypeInt }
func (v Int) String() string { return fmt.Sprintf("int(%d)", int32(v)) }

// Byte is an 8-bit signed property value.
type Byte int8

func (Byte) tagValue()        {}
func (Byte) Type() Type       { return TypeByte }
func (v Byte) String() string { return fmt.Sprintf("byte(%d)", int8(v)) }

// String is a text property value.
type String string

func (String) tagValue()        {}
func (String) Type() Type       { return TypeString }
func (v String) String() string { return fmt.Sprintf("string(%s)", strconv.Quote(string(v))) }

// ParseType validates a type tag.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeInt, TypeByte, TypeString:
		return t, nil
	default:
		return "", fmt.Errorf("%w %q: must be one of int, byte, string", ErrUnknownValueType, s)
	}
}

// New builds a Value from a type tag and a loosely typed payload.
//
// Integers may be any Go integer kind or a json.Number-like value; floats are
// rejected even when integral. No coercion happens between variants.
func New(typ string, v any) (Value, error) {
	t, err := ParseType(typ)
	if err != nil {
		return nil, err
	}

	switch t {
	case TypeInt:
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("%w: value for type int: %v", ErrTypeMismatch, err)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("%w: value %d out of range for type int", ErrTypeMismatch, n)
		}
		return Int(n), nil

	case TypeByte:
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("%w: value for type byte: %v", ErrTypeMismatch, err)
		}
		if n < math.MinInt8 || n > math.MaxInt8 {
			return nil, fmt.Errorf("%w: value %d out of range for type byte", ErrTypeMismatch, n)
		}
		return Byte(n), nil

	default:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: value for type string must be a string, got %T", ErrTypeMismatch, v)
		}
		return String(s), nil
	}
}

// Native returns the payload of v as int32, int8 or string.
func Native(v Value) any {
	switch val := v.(type) {
	case Int:
		return int32(val)
	case Byte:
		return int8(val)
	case String:
		return string(val)
	default:
		panic(fmt.Sprintf("tag: unknown Value type %T", v))
	}
}

// int64er matches json.Number from both encoding/json and goccy/go-json.
type int64er interface {
	Int64() (int64, error)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", n)
		}
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", n)
		}
		return int64(n), nil
	case int64er:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("must be an integer, got %v", v)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("must be an integer, got %T", v)
	}
}
