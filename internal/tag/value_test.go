package tag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	var _ Value = Int(1)
	var _ Value = Byte(1)
	var _ Value = String("x")
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		in   any
		want Value
	}{
		{"int from int", "int", 42, Int(42)},
		{"int from json.Number", "int", json.Number("-7"), Int(-7)},
		{"int max", "int", int64(2147483647), Int(2147483647)},
		{"byte from int8", "byte", int8(-3), Byte(-3)},
		{"byte from uint8", "byte", uint8(1), Byte(1)},
		{"byte from json.Number", "byte", json.Number("127"), Byte(127)},
		{"string", "string", "north", String("north")},
		{"empty string", "string", "", String("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.typ, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		in   any
	}{
		{"int with text", "int", "abc"},
		{"int with float", "int", 1.0},
		{"int with decimal number", "int", json.Number("1.5")},
		{"int with exponent", "int", json.Number("1e3")},
		{"int overflow", "int", int64(1) << 40},
		{"byte overflow", "byte", 128},
		{"byte underflow", "byte", -129},
		{"byte with text", "byte", "0"},
		{"string with number", "string", 5},
		{"string with nil", "string", nil},
		{"int with bool", "int", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.typ, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTypeMismatch)
			assert.NotErrorIs(t, err, ErrUnknownValueType)
		})
	}
}

func TestNewUnknownValueType(t *testing.T) {
	for _, typ := range []string{"float", "", "INT", "short", "compound"} {
		t.Run(typ, func(t *testing.T) {
			_, err := New(typ, 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnknownValueType)
		})
	}
}

func TestEqualityIsStructural(t *testing.T) {
	assert.True(t, Value(Int(0)) == Value(Int(0)))
	assert.False(t, Value(Int(0)) == Value(Byte(0)))
	assert.False(t, Value(String("0")) == Value(Int(0)))
}

func TestNative(t *testing.T) {
	assert.Equal(t, int32(5), Native(Int(5)))
	assert.Equal(t, int8(-1), Native(Byte(-1)))
	assert.Equal(t, "oak", Native(String("oak")))
}

func TestNativeRoundTrip(t *testing.T) {
	for _, v := range []Value{Int(-40), Byte(3), String("birch")} {
		got, err := New(string(v.Type()), Native(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "int(5)", Int(5).String())
	assert.Equal(t, "byte(0)", Byte(0).String())
	assert.Equal(t, `string("top")`, String("top").String())
}
