package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shroomkit/wz/format"
)

func TestObjectTypeOf(t *testing.T) {
	cases := map[string]format.ObjectType{
		"Property":         format.ObjectProperty,
		"Canvas":           format.ObjectCanvas,
		"UOL":              format.ObjectUOL,
		"Shape2D#Vector2D": format.ObjectVector2D,
		"Shape2D#Convex2D": format.ObjectConvex2D,
		"Sound_DX8":        format.ObjectSoundDX8,
	}

	for s, want := range cases {
		got, ok := format.ObjectTypeOf(s)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := format.ObjectTypeOf("Nope")
	assert.False(t, ok)
}

func TestCanvasDepthBytesPerPixel(t *testing.T) {
	n, ok := format.DepthBGRA4444.BytesPerPixel()
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = format.DepthBGRA8888.BytesPerPixel()
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	n, ok = format.DepthBGR565.BytesPerPixel()
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = format.DepthBC3.BytesPerPixel()
	assert.False(t, ok)

	_, ok = format.DepthBC5.BytesPerPixel()
	assert.False(t, ok)
}

func TestCanvasDepthDepthSize(t *testing.T) {
	n, ok := format.DepthBGRA4444.DepthSize()
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = format.DepthBGRA8888.DepthSize()
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	n, ok = format.DepthBGR565.DepthSize()
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = format.DepthBC3.DepthSize()
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok = format.DepthBC5.DepthSize()
	assert.True(t, ok)
	assert.Equal(t, 1, n)
}

func TestIsZlibPayload(t *testing.T) {
	assert.True(t, format.IsZlibPayload(0x0178))
	assert.True(t, format.IsZlibPayload(0x9C78))
	assert.False(t, format.IsZlibPayload(0x2078)) // bit 13 set
	assert.False(t, format.IsZlibPayload(0x0001))
}
