package archive_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shroomkit/wz/archive"
	"github.com/shroomkit/wz/crypto"
	"github.com/shroomkit/wz/errs"
	"github.com/shroomkit/wz/format"
	"github.com/shroomkit/wz/internal/scalar"
	"github.com/shroomkit/wz/section"
)

// synthArchive builds a minimal, well-formed archive byte-for-byte the way
// a real client would, using the library's own encoders so the resulting
// bytes are a faithful round-trip fixture rather than a hand-picked blob.
// The root directory holds one plain Img entry ("char.img") and one Link
// entry ("mob.img") that resolves to a second Img header stored elsewhere
// in the file, mirroring scenario S5's traversal shape.
func synthArchive(t *testing.T, cfg archive.Config, dataOffset uint32) []byte {
	t.Helper()

	c, err := crypto.New(cfg.Region.Context(), cfg.Version, dataOffset)
	require.NoError(t, err)

	var buf []byte
	buf = append(buf, []byte(section.ArchiveMagic)...)

	sizePos := len(buf)
	buf = append(buf, make([]byte, 8)...)

	var doBuf [4]byte
	binary.LittleEndian.PutUint32(doBuf[:], dataOffset)
	buf = append(buf, doBuf[:]...)

	buf = append(buf, []byte("Package file v1.0 Copyright 2002 Wizet, ZMS\x00")...)

	for len(buf) < int(dataOffset) {
		buf = append(buf, 0)
	}
	require.Equal(t, int(dataOffset), len(buf))

	var verBuf [2]byte
	binary.LittleEndian.PutUint16(verBuf[:], crypto.EncryptedVersion(crypto.VersionHash(cfg.Version)))
	buf = append(buf, verBuf[:]...)

	buf = scalar.WriteInt(buf, 2) // two directory entries

	// Entry 1: a plain Img.
	buf = append(buf, byte(format.DirEntryImg))
	buf = scalar.WriteString(buf, "char.img", c)
	buf = scalar.WriteInt(buf, 111) // blob size
	buf = scalar.WriteInt(buf, 7)   // checksum
	buf = appendEncryptedOffset(buf, c, 500)

	// Entry 2: a Link to an Img stored later in the file. Reserve the raw
	// (unobfuscated) link-offset field now and patch it once the target's
	// position is known.
	buf = append(buf, byte(format.DirEntryLink))
	linkOffsetIdx := len(buf)
	buf = append(buf, make([]byte, 4)...)
	buf = scalar.WriteInt(buf, 222) // the Link's own blob size, unused by readers
	buf = scalar.WriteInt(buf, 9)   // the Link's own checksum, unused by readers
	buf = appendEncryptedOffset(buf, c, 600)

	// The linked-to Img, stored at an arbitrary later position.
	buf = append(buf, 0, 0, 0, 0) // padding so the target isn't adjacent
	targetPos := len(buf)
	buf = append(buf, byte(format.DirEntryImg))
	buf = scalar.WriteString(buf, "mob.img", c)
	buf = scalar.WriteInt(buf, 333)
	buf = scalar.WriteInt(buf, 11)
	buf = appendEncryptedOffset(buf, c, 700)

	linkOffset := uint32(targetPos) - dataOffset
	binary.LittleEndian.PutUint32(buf[linkOffsetIdx:linkOffsetIdx+4], linkOffset)

	binary.LittleEndian.PutUint64(buf[sizePos:sizePos+8], uint64(len(buf)))

	return buf
}

func appendEncryptedOffset(buf []byte, c *crypto.Crypto, plain uint32) []byte {
	pos := uint32(len(buf))
	enc := c.EncryptOffset(plain, pos)

	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], enc)

	return append(buf, b[:]...)
}

func TestOpenAndReadRootDir(t *testing.T) {
	cfg := archive.DefaultConfig()
	const dataOffset = 60

	data := synthArchive(t, cfg, dataOffset)

	r, err := archive.Open(bytes.NewReader(data), int64(len(data)), cfg)
	require.NoError(t, err)
	assert.Equal(t, uint32(dataOffset+2), r.RootOffset())

	dir, err := r.ReadRootDir()
	require.NoError(t, err)
	require.Len(t, dir.Entries, 2)

	img, ok := dir.Get("char.img")
	require.True(t, ok)
	assert.Equal(t, format.DirEntryImg, img.Tag)
	assert.Equal(t, int32(111), img.Img.BlobSize)
	assert.Equal(t, uint32(500), img.Img.Offset)

	link, ok := dir.Get("mob.img")
	require.True(t, ok)
	assert.Equal(t, format.DirEntryLink, link.Tag)
	// The Link resolves transparently to the target Img's own header.
	assert.Equal(t, int32(333), link.Img.BlobSize)
	assert.Equal(t, uint32(700), link.Img.Offset)
}

func TestOpenRejectsBadVersion(t *testing.T) {
	cfg := archive.DefaultConfig()
	const dataOffset = 60

	data := synthArchive(t, cfg, dataOffset)

	wrongCfg := cfg
	wrongCfg.Version = cfg.Version + 1

	_, err := archive.Open(bytes.NewReader(data), int64(len(data)), wrongCfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrBadVersion)
}

func TestTraverseImages(t *testing.T) {
	cfg := archive.DefaultConfig()
	const dataOffset = 60

	data := synthArchive(t, cfg, dataOffset)

	r, err := archive.Open(bytes.NewReader(data), int64(len(data)), cfg)
	require.NoError(t, err)

	seen := map[string]archive.ImgHeader{}
	for entry, err := range r.TraverseImages() {
		require.NoError(t, err)
		seen[entry.Path] = entry.Hdr
	}

	require.Contains(t, seen, "root/char.img")
	require.Contains(t, seen, "root/mob.img")
	assert.Equal(t, int32(111), seen["root/char.img"].BlobSize)
	assert.Equal(t, int32(333), seen["root/mob.img"].BlobSize)
}

func TestTraverseImagesWrapsReadErrorWithPath(t *testing.T) {
	cfg := archive.DefaultConfig()
	const dataOffset = 60

	data := synthArchive(t, cfg, dataOffset)
	truncated := data[:dataOffset+2] // cuts off before the root dir's entry count

	r, err := archive.Open(bytes.NewReader(truncated), int64(len(truncated)), cfg)
	require.NoError(t, err)

	var gotErr error
	for _, e := range r.TraverseImages() {
		gotErr = e
		break
	}

	require.Error(t, gotErr)

	var pathErr *errs.PathError
	require.ErrorAs(t, gotErr, &pathErr)
	assert.Equal(t, "", pathErr.ImagePath)
}

func TestTreeLookup(t *testing.T) {
	cfg := archive.DefaultConfig()
	const dataOffset = 60

	data := synthArchive(t, cfg, dataOffset)

	r, err := archive.Open(bytes.NewReader(data), int64(len(data)), cfg)
	require.NoError(t, err)

	tree, err := archive.NewTree(r, "root")
	require.NoError(t, err)

	hdr, ok := tree.GetImageByPath("char.img")
	require.True(t, ok)
	assert.Equal(t, uint32(500), hdr.Offset)

	hdr, ok = tree.GetImageByPath("mob.img")
	require.True(t, ok)
	assert.Equal(t, uint32(700), hdr.Offset)

	_, ok = tree.GetImageByPath("nope.img")
	assert.False(t, ok)
}
