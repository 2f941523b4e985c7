package image_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shroomkit/wz/crypto"
	"github.com/shroomkit/wz/errs"
	"github.com/shroomkit/wz/format"
	"github.com/shroomkit/wz/image"
	"github.com/shroomkit/wz/internal/keys"
	"github.com/shroomkit/wz/internal/scalar"
	"github.com/shroomkit/wz/internal/stream"
)

// synthImage builds a minimal property-tree image body byte-for-byte with
// the library's own scalar encoders, exercising: an inline string value, a
// back-referenced string (the name "name" reused via a string-table
// lookup rather than re-encoded), a plain int value, and a nested Obj
// property value (a UOL) whose declared length must be honored on exit
// regardless of how many bytes its own parse consumed.
func synthImage(t *testing.T, c *crypto.Crypto) ([]byte, uint32) {
	t.Helper()

	var buf []byte

	buf = append(buf, 0x73) // type-string, inline
	buf = scalar.WriteString(buf, "Property", c)

	var unknownBuf [2]byte
	buf = append(buf, unknownBuf[:]...)

	buf = scalar.WriteInt(buf, 4) // entry count

	// entry 1: name "name" (inline, remember its body offset for the
	// back-reference below), value Str "hello".
	buf = append(buf, 0) // imgStr inline
	nameOffset := uint32(len(buf))
	buf = scalar.WriteString(buf, "name", c)

	buf = append(buf, byte(format.ValueStr))
	buf = append(buf, 0) // imgStr inline
	buf = scalar.WriteString(buf, "hello", c)

	// entry 2: name "width" (inline), value Int 42.
	buf = append(buf, 0)
	buf = scalar.WriteString(buf, "width", c)
	buf = append(buf, byte(format.ValueInt))
	buf = scalar.WriteInt(buf, 42)

	// entry 3: name back-references entry 1's "name" string, value Short 7.
	buf = append(buf, 1) // imgStr back-reference
	var offBuf [4]byte
	binary.LittleEndian.PutUint32(offBuf[:], nameOffset)
	buf = append(buf, offBuf[:]...)
	buf = append(buf, byte(format.ValueShort))
	buf = scalar.WriteInt(buf, 7)

	// entry 4: name "link" (inline), value Obj wrapping a UOL naming
	// "parent/target".
	buf = append(buf, 0)
	buf = scalar.WriteString(buf, "link", c)
	buf = append(buf, byte(format.ValueObj))

	var nested []byte
	nested = append(nested, 0x73)
	nested = scalar.WriteString(nested, "UOL", c)
	nested = append(nested, 0) // UOL.Unknown
	nested = append(nested, 0) // imgStr inline
	nested = scalar.WriteString(nested, "parent/target", c)

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(nested)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, nested...)

	return buf, nameOffset
}

func newTestCrypto(t *testing.T) *crypto.Crypto {
	t.Helper()

	c, err := crypto.New(keys.DefaultContext, 95, 0)
	require.NoError(t, err)

	return c
}

func TestReadRootObjectProperty(t *testing.T) {
	c := newTestCrypto(t)
	buf, _ := synthImage(t, c)

	r := image.NewReader(stream.New(bytes.NewReader(buf), 0, int64(len(buf))), c)

	obj, err := r.ReadRootObject()
	require.NoError(t, err)
	require.Equal(t, image.ObjectKindProperty, obj.Kind)
	require.NotNil(t, obj.Property)
	require.Len(t, obj.Property.Entries, 4)

	name, ok := obj.Property.Get("name")
	require.True(t, ok)
	assert.Equal(t, format.ValueStr, name.Value.Tag)
	assert.Equal(t, "hello", name.Value.Str)

	width, ok := obj.Property.Get("width")
	require.True(t, ok)
	assert.Equal(t, format.ValueInt, width.Value.Tag)
	assert.Equal(t, int32(42), width.Value.Int)

	// The third entry's name was written as a back-reference to the same
	// offset as entry 1's "name" string; it must resolve to the same text.
	assert.Equal(t, "name", obj.Property.Entries[2].Name)
	assert.Equal(t, int16(7), obj.Property.Entries[2].Value.Short)

	link := obj.Property.Entries[3]
	require.Equal(t, format.ValueObj, link.Value.Tag)
	require.NotNil(t, link.Value.Object)
	require.Equal(t, image.ObjectKindUOL, link.Value.Object.Kind)
	assert.Equal(t, "parent/target", link.Value.Object.UOL.Target)
}

func TestReadPathIntoProperty(t *testing.T) {
	c := newTestCrypto(t)
	buf, _ := synthImage(t, c)

	r := image.NewReader(stream.New(bytes.NewReader(buf), 0, int64(len(buf))), c)

	v, err := r.ReadPath("width")
	require.NoError(t, err)
	assert.Equal(t, int32(42), v.Int)

	_, err = r.ReadPath("missing")
	require.Error(t, err)

	var pathErr *errs.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "missing", pathErr.ValuePath)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestReadRootObjectBadTypeString(t *testing.T) {
	c := newTestCrypto(t)

	var buf []byte
	buf = append(buf, 0x73)
	buf = scalar.WriteString(buf, "NotAType", c)

	r := image.NewReader(stream.New(bytes.NewReader(buf), 0, int64(len(buf))), c)

	_, err := r.ReadRootObject()
	assert.Error(t, err)
}
