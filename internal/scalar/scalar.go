// Package scalar implements the WZ archive's primitive wire encodings: the
// compressed integer forms, the compressed-float form, and the masked,
// ciphered string form every image and directory entry is built from.
//
// Every decode function tags its own errors with the stream position (via
// errs.AtPos), so callers in archive and image can return them without
// re-deriving the position themselves.
package scalar

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf16"

	"github.com/shroomkit/wz/errs"
)

// Source is the minimal interface scalar decoding needs: a byte-at-a-time
// and buffer reader over a seekable stream, so callers can report the
// position a value started at.
type Source interface {
	io.Reader
	io.ByteReader
	// Pos returns the current absolute read position.
	Pos() int64
}

// Transformer applies the archive's key-stream XOR to a byte slice in
// place. *crypto.Crypto satisfies this without internal/scalar importing
// the crypto package, avoiding an import cycle with archive/image.
type Transformer interface {
	Transform(buf []byte)
}

func readExact(s Source, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s, buf); err != nil {
		return nil, errs.AtPos(s.Pos(), err)
	}

	return buf, nil
}

// ReadInt reads a WzInt: an i8 flag, or -128 followed by a full i32 when
// the value doesn't fit in the flag byte.
func ReadInt(s Source) (int32, error) {
	pos := s.Pos()

	flag, err := s.ReadByte()
	if err != nil {
		return 0, errs.AtPos(pos, err)
	}

	if int8(flag) != -128 {
		return int32(int8(flag)), nil
	}

	buf, err := readExact(s, 4)
	if err != nil {
		return 0, err
	}

	return int32(binary.LittleEndian.Uint32(buf)), nil
}

// ReadLong reads a WzLong: an i8 flag, or -128 followed by a full i64.
func ReadLong(s Source) (int64, error) {
	pos := s.Pos()

	flag, err := s.ReadByte()
	if err != nil {
		return 0, errs.AtPos(pos, err)
	}

	if int8(flag) != -128 {
		return int64(int8(flag)), nil
	}

	buf, err := readExact(s, 8)
	if err != nil {
		return 0, err
	}

	return int64(binary.LittleEndian.Uint64(buf)), nil
}

// ReadF32 reads a WzF32: a WzInt holding the value's raw bit pattern.
func ReadF32(s Source) (float32, error) {
	bits, err := ReadInt(s)
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(uint32(bits)), nil
}

// ReadF64 reads a raw little-endian IEEE-754 double with no compression,
// the encoding property values and canvas headers use for double fields.
func ReadF64(s Source) (float64, error) {
	buf, err := readExact(s, 8)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(binary.LittleEndian.Uint64(buf)), nil
}

// WriteInt appends the WzInt encoding of v to dst.
func WriteInt(dst []byte, v int32) []byte {
	if v >= -127 && v <= 127 {
		return append(dst, byte(int8(v)))
	}

	dst = append(dst, 0x80)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))

	return append(dst, buf[:]...)
}

// WriteLong appends the WzLong encoding of v to dst.
func WriteLong(dst []byte, v int64) []byte {
	if v >= -127 && v <= 127 {
		return append(dst, byte(int8(v)))
	}

	dst = append(dst, 0x80)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))

	return append(dst, buf[:]...)
}

// WriteF32 appends the WzF32 encoding of v to dst.
func WriteF32(dst []byte, v float32) []byte {
	return WriteInt(dst, int32(math.Float32bits(v)))
}

// WriteF64 appends a raw little-endian double to dst.
func WriteF64(dst []byte, v float64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))

	return append(dst, buf[:]...)
}

// asciiMaskStart and unicodeMaskStart are the rolling XOR mask seeds
// applied to string bodies alongside the crypto transform. Mask and
// transform are both XORs over the same bytes, so their order does not
// change the result. Both masks are their own inverse under repeated
// application with the same starting seed, so the same helper serves read
// and write.
const (
	asciiMaskStart   byte   = 0xAA
	unicodeMaskStart uint16 = 0xAAAA
)

func maskASCII(data []byte) {
	mask := asciiMaskStart
	for i := range data {
		data[i] ^= mask
		mask++
	}
}

func maskUnicode(units []uint16) {
	mask := unicodeMaskStart
	for i := range units {
		units[i] ^= mask
		mask++
	}
}

// ReadString reads a WzStr: a length-flagged, masked, and crypto-ciphered
// string body. A non-positive flag byte selects a Latin-1 body; a
// positive flag selects a UTF-16LE body. Either flag form falls back to a
// full i32 length when the flag value hits its respective sentinel
// (-128 for Latin-1, 127 for UTF-16).
func ReadString(s Source, tr Transformer) (string, error) {
	pos := s.Pos()

	flagByte, err := s.ReadByte()
	if err != nil {
		return "", errs.AtPos(pos, err)
	}
	flag := int8(flagByte)

	if flag <= 0 {
		n := int(-flag)
		if flag == -128 {
			lenBuf, err := readExact(s, 4)
			if err != nil {
				return "", err
			}
			n = int(int32(binary.LittleEndian.Uint32(lenBuf)))
		}

		data, err := readExact(s, n)
		if err != nil {
			return "", err
		}

		maskASCII(data)
		tr.Transform(data)

		return decodeLatin1(data), nil
	}

	n := int(flag)
	if flag == 127 {
		lenBuf, err := readExact(s, 4)
		if err != nil {
			return "", err
		}
		n = int(int32(binary.LittleEndian.Uint32(lenBuf)))
	}

	raw, err := readExact(s, n*2)
	if err != nil {
		return "", err
	}

	tr.Transform(raw)

	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	maskUnicode(units)

	decoded, ok := decodeUTF16(units)
	if !ok {
		return "", errs.AtPos(pos, errs.ErrBadString)
	}

	return decoded, nil
}

// decodeUTF16 decodes units strictly: an unpaired surrogate is reported as
// a failure rather than silently replaced with U+FFFD, so malformed
// archives surface errs.ErrBadString instead of producing mojibake.
func decodeUTF16(units []uint16) (string, bool) {
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u < 0xD800 || u > 0xDFFF:
			continue
		case u <= 0xDBFF:
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] > 0xDFFF {
				return "", false
			}
			i++
		default:
			return "", false
		}
	}

	return string(utf16.Decode(units)), true
}

func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}

	return string(runes)
}

// isLatin1 reports whether s encodes entirely in the Latin-1 range,
// matching the write-path encoder's choice between the ASCII and
// UTF-16 string forms.
func isLatin1(s string) bool {
	for _, r := range s {
		if r > 0xFF {
			return false
		}
	}

	return true
}

// WriteString appends the WzStr encoding of s to dst, masking and
// transforming the body with tr exactly as ReadString reverses it.
func WriteString(dst []byte, s string, tr Transformer) []byte {
	if isLatin1(s) {
		runes := []rune(s)
		data := make([]byte, len(runes))
		for i, r := range runes {
			data[i] = byte(r)
		}

		n := len(data)
		if n >= 128 {
			dst = append(dst, 0x80) // int8(-128)
			var buf [4]byte
			binary.LittleEndian.PutUint32(buf[:], uint32(n))
			dst = append(dst, buf[:]...)
		} else {
			dst = append(dst, byte(int8(-int8(n))))
		}

		maskASCII(data)
		tr.Transform(data)

		return append(dst, data...)
	}

	units := utf16.Encode([]rune(s))
	n := len(units)
	if n >= 127 {
		dst = append(dst, byte(int8(127)))
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(n))
		dst = append(dst, buf[:]...)
	} else {
		dst = append(dst, byte(int8(n)))
	}

	maskUnicode(units)

	body := make([]byte, n*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(body[i*2:], u)
	}
	tr.Transform(body)

	return append(dst, body...)
}
