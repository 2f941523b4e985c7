package scalar_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shroomkit/wz/internal/scalar"
)

// posReader adapts a bytes.Reader to scalar.Source by tracking the
// absolute read position, the same role stream.Source plays for real
// archive reads.
type posReader struct {
	*bytes.Reader
}

func newPosReader(b []byte) *posReader { return &posReader{bytes.NewReader(b)} }

func (r *posReader) Pos() int64 { return int64(r.Size()) - int64(r.Len()) }

type noopTransform struct{}

func (noopTransform) Transform([]byte) {}

// xorTransform is a trivial stand-in for *crypto.Crypto in round-trip
// tests: it XORs with a fixed repeating key, which is enough to prove
// ReadString and WriteString invert each other regardless of what the
// transform does, since both apply the identical operation.
type xorTransform struct{ key byte }

func (x xorTransform) Transform(buf []byte) {
	for i := range buf {
		buf[i] ^= x.key
	}
}

func TestReadIntRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 100, -127, 127, 128, -128, -129, 1 << 20, -(1 << 20)}

	for _, v := range cases {
		buf := scalar.WriteInt(nil, v)
		got, err := scalar.ReadInt(newPosReader(buf))
		require.NoError(t, err)
		assert.Equal(t, v, got, "value %d", v)
	}
}

func TestReadLongRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 127, -127, 128, -128, 1 << 40, -(1 << 40)}

	for _, v := range cases {
		buf := scalar.WriteLong(nil, v)
		got, err := scalar.ReadLong(newPosReader(buf))
		require.NoError(t, err)
		assert.Equal(t, v, got, "value %d", v)
	}
}

func TestReadF32RoundTrip(t *testing.T) {
	cases := []float32{0, 1.5, -1.5, 3.14159, -0.0001}

	for _, v := range cases {
		buf := scalar.WriteF32(nil, v)
		got, err := scalar.ReadF32(newPosReader(buf))
		require.NoError(t, err)
		assert.InDelta(t, float64(v), float64(got), 1e-6)
	}
}

func TestReadF64RoundTrip(t *testing.T) {
	buf := scalar.WriteF64(nil, 12345.6789)
	got, err := scalar.ReadF64(newPosReader(buf))
	require.NoError(t, err)
	assert.InDelta(t, 12345.6789, got, 1e-9)
}

func TestStringRoundTripLatin1(t *testing.T) {
	tr := xorTransform{key: 0x5A}

	cases := []string{"", "a", "hello world", "Property"}
	for _, s := range cases {
		buf := scalar.WriteString(nil, s, tr)
		got, err := scalar.ReadString(newPosReader(buf), tr)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestStringRoundTripUnicode(t *testing.T) {
	tr := xorTransform{key: 0xC3}

	cases := []string{"héllo", "日本語", "emoji 🎮 text"}
	for _, s := range cases {
		buf := scalar.WriteString(nil, s, tr)
		got, err := scalar.ReadString(newPosReader(buf), tr)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestStringRoundTripLongBody(t *testing.T) {
	tr := noopTransform{}

	long := bytes.Repeat([]byte("x"), 500)
	buf := scalar.WriteString(nil, string(long), tr)
	got, err := scalar.ReadString(newPosReader(buf), tr)
	require.NoError(t, err)
	assert.Equal(t, string(long), got)

	longUnicode := make([]rune, 200)
	for i := range longUnicode {
		longUnicode[i] = rune('あ' + i%50)
	}
	buf = scalar.WriteString(nil, string(longUnicode), tr)
	got, err = scalar.ReadString(newPosReader(buf), tr)
	require.NoError(t, err)
	assert.Equal(t, string(longUnicode), got)
}

func TestReadStringUnpairedSurrogateIsError(t *testing.T) {
	tr := noopTransform{}

	// Flag 1 (one UTF-16 code unit), followed by an unpaired high
	// surrogate, masked and (no-op) transformed.
	var body [2]byte
	unit := uint16(0xD800) ^ 0xAAAA
	body[0] = byte(unit)
	body[1] = byte(unit >> 8)

	buf := append([]byte{1}, body[:]...)
	_, err := scalar.ReadString(newPosReader(buf), tr)
	assert.Error(t, err)
}
