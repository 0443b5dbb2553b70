package blockstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/statemig/internal/tag"
)

func TestCloneIsIndependent(t *testing.T) {
	orig := New("minecraft:log", map[string]tag.Value{"axis": tag.String("y")})
	clone := orig.Clone()
	clone.Properties["axis"] = tag.String("x")
	clone.Properties["extra"] = tag.Int(1)

	assert.Equal(t, tag.String("y"), orig.Properties["axis"])
	assert.Len(t, orig.Properties, 1)
}

func TestEqual(t *testing.T) {
	a := New("minecraft:stone", nil)
	b := State{Name: "minecraft:stone"}
	assert.True(t, a.Equal(b))

	c := New("minecraft:stone", map[string]tag.Value{"stone_type": tag.Byte(0)})
	d := New("minecraft:stone", map[string]tag.Value{"stone_type": tag.Int(0)})
	assert.False(t, c.Equal(d))
	assert.False(t, a.Equal(c))
}

func TestPropertyNames(t *testing.T) {
	s := New("minecraft:wall", map[string]tag.Value{
		"wall_post_bit":        tag.Byte(1),
		"wall_connection_east": tag.String("none"),
		"age":                  tag.Int(0),
	})
	assert.Equal(t, []string{"age", "wall_connection_east", "wall_post_bit"}, s.PropertyNames())
}

func TestJSONRoundTrip(t *testing.T) {
	s := New("minecraft:stone", map[string]tag.Value{
		"stone_type": tag.String("granite"),
		"age":        tag.Int(-4),
		"bit":        tag.Byte(1),
	})

	data, err := s.MarshalJSON()
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.True(t, s.Equal(got), "got %v", got)
}

func TestParseRejectsTypeMismatch(t *testing.T) {
	_, err := Parse([]byte(`{"name":"minecraft:stone","states":{"age":{"type":"int","value":"abc"}}}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, tag.ErrTypeMismatch)
}

func TestParseRejectsUnknownType(t *testing.T) {
	_, err := Parse([]byte(`{"name":"minecraft:stone","states":{"age":{"type":"float","value":1.5}}}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, tag.ErrUnknownValueType)
}

func TestParseRequiresName(t *testing.T) {
	_, err := Parse([]byte(`{"states":{}}`))
	assert.Error(t, err)
}

func TestParseWithoutStates(t *testing.T) {
	s, err := Parse([]byte(`{"name":"minecraft:air"}`))
	require.NoError(t, err)
	assert.Equal(t, "minecraft:air", s.Name)
	assert.Empty(t, s.Properties)
}
