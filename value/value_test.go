package value_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shroomkit/wz/value"
)

func TestObjectRoundTrip(t *testing.T) {
	m := value.NewMap()
	m.Set("str", value.Value{Kind: value.KindString, Str: "hi"})
	m.Set("num", value.Value{Kind: value.KindInt, Int: 7})
	m.Set("vec", value.Value{Kind: value.KindVec, Vec: value.Vec2Val{X: 1, Y: 2}})
	m.Set("link", value.Value{Kind: value.KindLink, Str: "Link"})
	m.Set("nested", value.Value{Kind: value.KindObject, Object: value.NewMap()})

	v := value.Value{Kind: value.KindObject, Object: m}

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var out value.Value
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, value.KindObject, out.Kind)
	require.Equal(t, 5, out.Object.Len())

	str, ok := out.Object.Get("str")
	require.True(t, ok)
	assert.Equal(t, "hi", str.Str)

	num, ok := out.Object.Get("num")
	require.True(t, ok)
	assert.Equal(t, int32(7), num.Int)

	vec, ok := out.Object.Get("vec")
	require.True(t, ok)
	assert.Equal(t, value.KindVec, vec.Kind)
	assert.Equal(t, int32(1), vec.Vec.X)
	assert.Equal(t, int32(2), vec.Vec.Y)

	link, ok := out.Object.Get("link")
	require.True(t, ok)
	assert.Equal(t, value.KindLink, link.Kind)
	assert.Equal(t, "Link", link.Str)

	nested, ok := out.Object.Get("nested")
	require.True(t, ok)
	assert.Equal(t, value.KindObject, nested.Kind)
	assert.Equal(t, 0, nested.Object.Len())
}

func TestMinimalLinkObjectRoundTrip(t *testing.T) {
	m := value.NewMap()
	m.Set("mylink", value.Value{Kind: value.KindLink, Str: "Link"})
	v := value.Value{Kind: value.KindObject, Object: m}

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var out value.Value
	require.NoError(t, json.Unmarshal(data, &out))

	got, ok := out.Object.Get("mylink")
	require.True(t, ok)
	assert.Equal(t, "Link", got.Str)
}

func TestSoundMarshalsAsBareString(t *testing.T) {
	v := value.Value{Kind: value.KindSound, Sound: &value.SoundVal{}}

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `"SOUND"`, string(data))
}

func TestConvexDeserializeUnsupported(t *testing.T) {
	var v value.Value
	err := json.Unmarshal([]byte(`{"$type":"vex2","vex":[]}`), &v)
	assert.Error(t, err)
}

func TestCanvasDiscriminatorNotRecognizedOnRead(t *testing.T) {
	// Canvas serializes with "$ty", but the deserializer only recognizes
	// "$type" — so a canvas value round-tripped through JSON comes back
	// as a plain Object whose first key is literally "$ty".
	var v value.Value
	err := json.Unmarshal([]byte(`{"$ty":"canvas","scale":0,"sub":null}`), &v)
	require.NoError(t, err)
	assert.Equal(t, value.KindObject, v.Kind)

	got, ok := v.Object.Get("$ty")
	require.True(t, ok)
	assert.Equal(t, "canvas", got.Str)
}

func TestGetPathIntoNestedObject(t *testing.T) {
	inner := value.NewMap()
	inner.Set("hp", value.Value{Kind: value.KindInt, Int: 100})

	outer := value.NewMap()
	outer.Set("stats", value.Value{Kind: value.KindObject, Object: inner})

	root := value.Value{Kind: value.KindObject, Object: outer}

	got, ok := root.GetPath("stats/hp")
	require.True(t, ok)
	assert.Equal(t, int32(100), got.Int)

	_, ok = root.GetPath("stats/mp")
	assert.False(t, ok)
}
