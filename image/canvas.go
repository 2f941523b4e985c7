package image

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/shroomkit/wz/errs"
	"github.com/shroomkit/wz/format"
)

// CanvasScale is a canvas's power-of-two down-scaling factor: the raw
// on-disk bitmap is width/factor by height/factor pixels, upscaled by the
// client at render time. Only 0 (no scaling) and 4 (1/16 scale) are valid.
type CanvasScale uint8

// Factor returns 2^s.
func (s CanvasScale) Factor() uint32 { return 1 << uint(s) }

func parseCanvasScale(raw uint8) (CanvasScale, error) {
	switch raw {
	case 0, 4:
		return CanvasScale(raw), nil
	default:
		return 0, errs.ErrBadCanvasScale
	}
}

// CanvasHeader is a Canvas object's fixed header: an optional nested
// property map, the canvas's full dimensions, pixel depth, down-scaling
// factor, and the position/length of the pixel payload that follows.
type CanvasHeader struct {
	Unknown     uint8
	Property    *Property
	Width       int32
	Height      int32
	Depth       format.CanvasDepth
	Scale       CanvasScale
	Unknown1    uint32
	lenFieldPos int64
	lenVal      uint32
}

// Pixels returns the canvas's full pixel count (width * height).
func (h CanvasHeader) Pixels() uint32 { return uint32(h.Width) * uint32(h.Height) }

// RawWidth and RawHeight are the on-disk bitmap's dimensions after
// down-scaling by Scale.
func (h CanvasHeader) RawWidth() uint32  { return uint32(h.Width) / h.Scale.Factor() }
func (h CanvasHeader) RawHeight() uint32 { return uint32(h.Height) / h.Scale.Factor() }

// RawPixels returns the on-disk bitmap's pixel count.
func (h CanvasHeader) RawPixels() uint32 { return h.RawWidth() * h.RawHeight() }

// RawBitmapSize is the inflated pixel payload's byte length: RawPixels
// times the depth's per-pixel byte density (DepthSize, not BytesPerPixel —
// block-compressed depths still occupy one byte per pixel at this stage).
func (h CanvasHeader) RawBitmapSize() uint32 {
	size, _ := h.Depth.DepthSize()
	return h.RawPixels() * uint32(size)
}

// DataLen is the pixel payload's on-disk framed length, excluding the
// one-byte marker between the length field and the payload itself.
func (h CanvasHeader) DataLen() int64 { return int64(h.lenVal) - 1 }

// DataOffset is the local position the pixel payload starts at: just past
// the length field and its trailing one-byte marker.
func (h CanvasHeader) DataOffset() int64 { return h.lenFieldPos + 4 + 1 }

// ReadCanvasPixels reads, de-chunks if necessary, and zlib-inflates a
// canvas's raw pixel payload to exactly RawBitmapSize bytes.
func (r *Reader) ReadCanvasPixels(hdr CanvasHeader) ([]byte, error) {
	off := hdr.DataOffset()
	if err := r.src.SeekToLocal(off); err != nil {
		return nil, errs.AtPos(r.src.Pos(), err)
	}

	var prefix [2]byte
	if _, err := io.ReadFull(r.src, prefix[:]); err != nil {
		return nil, errs.AtPos(r.src.Pos(), err)
	}
	if err := r.src.SeekToLocal(off); err != nil {
		return nil, errs.AtPos(r.src.Pos(), err)
	}

	prefixVal := uint16(prefix[0]) | uint16(prefix[1])<<8
	n := hdr.DataLen()

	var zlibSrc io.Reader
	if format.IsZlibPayload(prefixVal) {
		zlibSrc = io.LimitReader(r.src, n)
	} else {
		raw, err := r.readChunkedPayload(n)
		if err != nil {
			return nil, err
		}
		zlibSrc = bytes.NewReader(raw)
	}

	zr, err := zlib.NewReader(zlibSrc)
	if err != nil {
		return nil, errs.AtPos(off, err)
	}
	defer zr.Close()

	out := make([]byte, hdr.RawBitmapSize())
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, errs.AtPos(off, err)
	}

	return out, nil
}

// readChunkedPayload reassembles a crypto-transformed chunk sequence
// ((u32 chunk_size, bytes) records totalling n framed bytes) into one
// contiguous buffer, the still-zlib-compressed stream the chunks carry.
func (r *Reader) readChunkedPayload(n int64) ([]byte, error) {
	var buf []byte

	var read int64
	for read < n {
		var szBuf [4]byte
		if _, err := io.ReadFull(r.src, szBuf[:]); err != nil {
			return nil, errs.AtPos(r.src.Pos(), err)
		}
		read += 4

		chunkSize := int64(int32(binary.LittleEndian.Uint32(szBuf[:])))
		if chunkSize < 0 || read+chunkSize > n {
			return nil, errs.AtPos(r.src.Pos(), errs.ErrBadChunkSize)
		}

		chunk := make([]byte, chunkSize)
		if _, err := io.ReadFull(r.src, chunk); err != nil {
			return nil, errs.AtPos(r.src.Pos(), err)
		}
		r.crypto.Transform(chunk)

		buf = append(buf, chunk...)
		read += chunkSize
	}

	return buf, nil
}
