// Package crypto implements the WZ archive's stream obfuscation: an
// AES-256-derived key stream used to mask string bodies and chunked canvas
// payloads, and the version-hash-keyed offset scrambling used on every
// directory entry offset.
//
// A Crypto value is immutable after construction and safe for concurrent
// use by multiple readers, matching the "Crypto is immutable after
// construction" lifecycle rule: archive readers and every image reader
// derived from them share one Crypto by reference.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"math/bits"

	"github.com/shroomkit/wz/internal/keys"
)

// keyBufBlocks is the number of precomputed 16-byte key-stream blocks
// (4096 bytes total), the size up to which Transform reuses the
// precomputed buffer instead of regenerating the stream from the IV.
const keyBufBlocks = 256

const keyBufLen = keyBufBlocks * keys.IVLen

// Crypto holds the derived key stream and offset-obfuscation parameters for
// one archive. It is constructed once per archive from a region context,
// the configured client version, and the archive's data offset.
type Crypto struct {
	block       cipher.Block
	iv          [keys.IVLen]byte
	versionHash uint32
	dataOffset  uint32
	offsetMagic uint32
	keyBuf      [keyBufLen]byte
}

// New constructs a Crypto for the given region context, client version, and
// archive data offset. It precomputes the first keyBufBlocks key-stream
// blocks to accelerate small transforms.
func New(ctx keys.Context, version uint16, dataOffset uint32) (*Crypto, error) {
	block, err := aes.NewCipher(ctx.Key[:])
	if err != nil {
		return nil, err
	}

	c := &Crypto{
		block:       block,
		iv:          ctx.InitialIV,
		versionHash: VersionHash(version),
		dataOffset:  dataOffset,
		offsetMagic: ctx.OffsetMagic,
	}

	c.fillKeyBuf(c.keyBuf[:])

	return c, nil
}

// fillKeyBuf fills dst with successive AES-encrypted key blocks, starting
// from the configured initial IV.
func (c *Crypto) fillKeyBuf(dst []byte) {
	cur := c.iv
	for off := 0; off < len(dst); off += keys.IVLen {
		c.block.Encrypt(cur[:], cur[:])
		copy(dst[off:off+keys.IVLen], cur[:])
	}
}

// Transform XORs buf in place with the AES-derived key stream. Each call
// re-seeds the stream from the initial IV: the transform is stateless with
// respect to stream position, a format requirement rather than a property
// of a general stream cipher (spec §4.1).
func (c *Crypto) Transform(buf []byte) {
	if len(buf) <= keyBufLen {
		for i := range buf {
			buf[i] ^= c.keyBuf[i]
		}

		return
	}

	cur := c.iv
	i := 0
	for i+keys.IVLen <= len(buf) {
		c.block.Encrypt(cur[:], cur[:])
		for j := 0; j < keys.IVLen; j++ {
			buf[i+j] ^= cur[j]
		}
		i += keys.IVLen
	}

	if i < len(buf) {
		c.block.Encrypt(cur[:], cur[:])
		for j := 0; i+j < len(buf); j++ {
			buf[i+j] ^= cur[j]
		}
	}
}

// offsetKeyAt derives the offset obfuscation key for a field stored at
// absolute position pos.
func (c *Crypto) offsetKeyAt(pos uint32) uint32 {
	x := ^(pos - c.dataOffset)
	x *= c.versionHash
	x -= c.offsetMagic

	return bits.RotateLeft32(x, int(x&0x1F))
}

// DecryptOffset recovers the plaintext absolute offset stored, obfuscated,
// at position pos.
func (c *Crypto) DecryptOffset(encrypted uint32, pos uint32) uint32 {
	k := c.offsetKeyAt(pos)

	return (k ^ encrypted) + c.dataOffset*2
}

// EncryptOffset obfuscates a plaintext absolute offset for storage at
// position pos.
func (c *Crypto) EncryptOffset(plain uint32, pos uint32) uint32 {
	k := c.offsetKeyAt(pos)

	return (plain - c.dataOffset*2) ^ k
}

// OffsetLink resolves a directory Link entry's raw link offset to an
// absolute archive position. Link offsets are not obfuscated.
func (c *Crypto) OffsetLink(linkOffset uint32) uint64 {
	return uint64(c.dataOffset) + uint64(linkOffset)
}

// DataOffset returns the archive's configured data offset.
func (c *Crypto) DataOffset() uint32 { return c.dataOffset }
