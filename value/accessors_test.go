package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shroomkit/wz/value"
)

func TestAsAccessorsMatchKind(t *testing.T) {
	m := value.NewMap()
	m.Set("x", value.Value{Kind: value.KindInt, Int: 1})
	obj := value.Value{Kind: value.KindObject, Object: m}

	got, ok := obj.AsObject()
	assert.True(t, ok)
	assert.Same(t, m, got)

	_, ok = obj.AsString()
	assert.False(t, ok)

	str := value.Value{Kind: value.KindString, Str: "hi"}
	s, ok := str.AsString()
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	link := value.Value{Kind: value.KindLink, Str: "Link"}
	_, ok = link.AsString()
	assert.False(t, ok)
	l, ok := link.AsLink()
	assert.True(t, ok)
	assert.Equal(t, "Link", l)

	i := value.Value{Kind: value.KindInt, Int: -1}
	u, ok := i.AsUint32()
	assert.True(t, ok)
	assert.Equal(t, uint32(0xFFFFFFFF), u)

	nonzero := value.Value{Kind: value.KindInt, Int: 5}
	b, ok := nonzero.AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	zero := value.Value{Kind: value.KindInt, Int: 0}
	b, ok = zero.AsBool()
	assert.True(t, ok)
	assert.False(t, b)
}

func TestIntoDispatchesOnType(t *testing.T) {
	v := value.Value{Kind: value.KindInt, Int: 42}

	i, ok := value.Into[int32](v)
	assert.True(t, ok)
	assert.Equal(t, int32(42), i)

	_, ok = value.Into[string](v)
	assert.False(t, ok)

	str := value.Value{Kind: value.KindString, Str: "hello"}
	s, ok := value.Into[string](str)
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	vec := value.Value{Kind: value.KindVec, Vec: value.Vec2Val{X: 1, Y: 2}}
	got, ok := value.Into[value.Vec2Val](vec)
	assert.True(t, ok)
	assert.Equal(t, value.Vec2Val{X: 1, Y: 2}, got)
}
