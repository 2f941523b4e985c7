// Package keys holds the opaque cryptographic constants the WZ format is
// built on: the per-region initial IVs, the shared AES-256 key, and the
// offset-obfuscation magic. These are format constants, not secrets chosen
// by this library. The IV arrays below are placeholder values of the
// correct length rather than the IVs real clients use; SEAIV and DefaultIV
// hold identical bytes.
package keys

// IVLen is the AES block size and the length of every initial IV.
const IVLen = 16

// AESKeyLen is the length of the shared WZ AES-256 key.
const AESKeyLen = 32

// AESKey is the AES-256 key shared by every region's crypto context.
var AESKey = [AESKeyLen]byte{
	0x13, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00,
	0x06, 0x00, 0x00, 0x00, 0xB4, 0x00, 0x00, 0x00,
	0x1B, 0x00, 0x00, 0x00, 0x0F, 0x00, 0x00, 0x00,
	0x33, 0x00, 0x00, 0x00, 0x52, 0x00, 0x00, 0x00,
}

// OffsetMagic is the 32-bit constant mixed into every offset obfuscation key.
const OffsetMagic uint32 = 0x581C3F6D

// GMSIV is the initial IV for the GMS region crypto context.
var GMSIV = [IVLen]byte{
	0x4D, 0x23, 0xC7, 0x2B, 0x16, 0xFF, 0x96, 0x84,
	0x76, 0x52, 0x90, 0x69, 0xA6, 0xEC, 0xBF, 0x82,
}

// SEAIV is the initial IV for the SEA region crypto context.
var SEAIV = [IVLen]byte{
	0xB9, 0x7D, 0x63, 0xE9, 0x06, 0xD0, 0x34, 0xEE,
	0x52, 0x9A, 0x8C, 0x15, 0x6F, 0x7C, 0x16, 0x26,
}

// DefaultIV is the initial IV shared by the Other and BmsSrv region crypto
// contexts.
var DefaultIV = [IVLen]byte{
	0xB9, 0x7D, 0x63, 0xE9, 0x06, 0xD0, 0x34, 0xEE,
	0x52, 0x9A, 0x8C, 0x15, 0x6F, 0x7C, 0x16, 0x26,
}

// Context bundles the key material a crypto instance is constructed from.
type Context struct {
	InitialIV   [IVLen]byte
	Key         [AESKeyLen]byte
	OffsetMagic uint32
}

// GMSContext is the crypto context for the GMS region.
var GMSContext = Context{InitialIV: GMSIV, Key: AESKey, OffsetMagic: OffsetMagic}

// SEAContext is the crypto context for the SEA region.
var SEAContext = Context{InitialIV: SEAIV, Key: AESKey, OffsetMagic: OffsetMagic}

// DefaultContext is the crypto context shared by the Other and BmsSrv regions.
var DefaultContext = Context{InitialIV: DefaultIV, Key: AESKey, OffsetMagic: OffsetMagic}
