package image

import (
	stdimage "image"
	"image/color"

	"github.com/shroomkit/wz/errs"
	"github.com/shroomkit/wz/format"
)

// bitPix expands the n-bit field at bit offset shift within v into a full
// 8-bit channel value by left-shifting it into the high bits, mirroring
// the original decoder's bit_pix<N>(v, shift) helper exactly (including
// its rounding behavior: this is a pure bit shift, not the replication
// scheme BC1/BC3 block endpoints use below).
func bitPix(v uint32, n, shift uint8) uint8 {
	mask := uint32(1)<<n - 1
	scale := uint8(1) << (8 - n)

	return uint8((v>>shift)&mask) * scale
}

func bgra4ToRGBA(v uint16) color.RGBA {
	b := bitPix(uint32(v), 4, 0)
	g := bitPix(uint32(v), 4, 4)
	r := bitPix(uint32(v), 4, 8)
	a := bitPix(uint32(v), 4, 12)

	return color.RGBA{R: r, G: g, B: b, A: a}
}

func bgr565ToRGBA(v uint16) color.RGBA {
	b := bitPix(uint32(v), 5, 0)
	g := bitPix(uint32(v), 6, 5)
	r := bitPix(uint32(v), 5, 11)

	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// bgra8ToRGBA reassembles four raw bytes into RGBA positionally, with no
// B/R swap despite the depth's BGRA name: the original decoder reads the
// four bytes as a little-endian u32 and immediately re-emits its
// little-endian bytes, an identity transform, so byte 0 lands in R rather
// than B. Preserved here rather than "corrected" to keep decoded pixels
// bit-for-bit identical to the original tooling's output.
func bgra8ToRGBA(b0, b1, b2, b3 byte) color.RGBA {
	return color.RGBA{R: b0, G: b1, B: b2, A: b3}
}

// DecodeCanvasRGBA expands a canvas's inflated raw pixel buffer (as
// returned by ReadCanvasPixels) into a standard image.RGBA at the raw
// (scale-reduced) dimensions, per the depth's packing.
func DecodeCanvasRGBA(hdr CanvasHeader, raw []byte) (*stdimage.RGBA, error) {
	switch hdr.Depth {
	case format.DepthBGRA4444:
		return decodeBGRA4444(hdr, raw), nil
	case format.DepthBGRA8888:
		return decodeBGRA8888(hdr, raw), nil
	case format.DepthBGR565:
		return decodeBGR565(hdr, raw), nil
	case format.DepthBC3:
		return decodeBC3(hdr.RawWidth(), hdr.RawHeight(), raw), nil
	case format.DepthBC5:
		return decodeBC5(int32(hdr.RawWidth()), int32(hdr.RawHeight()), raw), nil
	default:
		return nil, errs.ErrBadCanvasDepth
	}
}

func decodeBGRA4444(hdr CanvasHeader, raw []byte) *stdimage.RGBA {
	w, h := int(hdr.RawWidth()), int(hdr.RawHeight())
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))

	for i := 0; i+1 < len(raw) && i/2 < w*h; i += 2 {
		v := uint16(raw[i]) | uint16(raw[i+1])<<8
		px := i / 2
		x, y := px%w, px/w
		img.SetRGBA(x, y, bgra4ToRGBA(v))
	}

	return img
}

func decodeBGRA8888(hdr CanvasHeader, raw []byte) *stdimage.RGBA {
	w, h := int(hdr.RawWidth()), int(hdr.RawHeight())
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))

	for i := 0; i+3 < len(raw) && i/4 < w*h; i += 4 {
		px := i / 4
		x, y := px%w, px/w
		img.SetRGBA(x, y, bgra8ToRGBA(raw[i], raw[i+1], raw[i+2], raw[i+3]))
	}

	return img
}

func decodeBGR565(hdr CanvasHeader, raw []byte) *stdimage.RGBA {
	w, h := int(hdr.RawWidth()), int(hdr.RawHeight())
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))

	for i := 0; i+1 < len(raw) && i/2 < w*h; i += 2 {
		v := uint16(raw[i]) | uint16(raw[i+1])<<8
		px := i / 2
		x, y := px%w, px/w
		img.SetRGBA(x, y, bgr565ToRGBA(v))
	}

	return img
}

// unpack565 expands a packed RGB565 color into 8-bit channels by bit
// replication (the high bits of the field repeated into its low bits),
// the standard block-codec endpoint expansion — distinct from bitPix's
// plain left-shift used for the raw (non-block-compressed) depths above.
func unpack565(c uint16) (r, g, b uint8) {
	r5 := uint8((c >> 11) & 0x1f)
	g6 := uint8((c >> 5) & 0x3f)
	b5 := uint8(c & 0x1f)

	r = (r5 << 3) | (r5 >> 2)
	g = (g6 << 2) | (g6 >> 4)
	b = (b5 << 3) | (b5 >> 2)

	return r, g, b
}

// bc1ColorBlock decodes the 8-byte color half of a BC1/BC3 block into its
// 16 pixel colors (alpha left at 0xff; BC3's own alpha block supplies the
// real alpha channel).
func bc1ColorBlock(block []byte) [16]color.RGBA {
	c0 := uint16(block[0]) | uint16(block[1])<<8
	c1 := uint16(block[2]) | uint16(block[3])<<8
	indices := uint32(block[4]) | uint32(block[5])<<8 | uint32(block[6])<<16 | uint32(block[7])<<24

	r0, g0, b0 := unpack565(c0)
	r1, g1, b1 := unpack565(c1)

	var palette [4]color.RGBA
	palette[0] = color.RGBA{R: r0, G: g0, B: b0, A: 0xff}
	palette[1] = color.RGBA{R: r1, G: g1, B: b1, A: 0xff}

	if c0 > c1 {
		palette[2] = color.RGBA{
			R: uint8((2*uint16(r0) + uint16(r1)) / 3),
			G: uint8((2*uint16(g0) + uint16(g1)) / 3),
			B: uint8((2*uint16(b0) + uint16(b1)) / 3),
			A: 0xff,
		}
		palette[3] = color.RGBA{
			R: uint8((uint16(r0) + 2*uint16(r1)) / 3),
			G: uint8((uint16(g0) + 2*uint16(g1)) / 3),
			B: uint8((uint16(b0) + 2*uint16(b1)) / 3),
			A: 0xff,
		}
	} else {
		palette[2] = color.RGBA{
			R: uint8((uint16(r0) + uint16(r1)) / 2),
			G: uint8((uint16(g0) + uint16(g1)) / 2),
			B: uint8((uint16(b0) + uint16(b1)) / 2),
			A: 0xff,
		}
		palette[3] = color.RGBA{}
	}

	var out [16]color.RGBA
	for i := 0; i < 16; i++ {
		idx := (indices >> uint(2*i)) & 0x3
		out[i] = palette[idx]
	}

	return out
}

// bc4AlphaBlock decodes an 8-byte interpolated single-channel block (BC3's
// alpha half, and each of BC5's two color-channel halves) into its 16
// channel values.
func bc4AlphaBlock(block []byte) [16]uint8 {
	a0, a1 := block[0], block[1]

	var idxBits uint64
	for i := 0; i < 6; i++ {
		idxBits |= uint64(block[2+i]) << uint(8*i)
	}

	var palette [8]uint8
	palette[0] = a0
	palette[1] = a1

	if a0 > a1 {
		for i := uint16(0); i < 6; i++ {
			palette[2+i] = uint8(((6-i)*uint16(a0) + (i+1)*uint16(a1) + 3) / 7)
		}
	} else {
		for i := uint16(0); i < 4; i++ {
			palette[2+i] = uint8(((4-i)*uint16(a0) + (i+1)*uint16(a1) + 2) / 5)
		}
		palette[6] = 0
		palette[7] = 0xff
	}

	var out [16]uint8
	for i := 0; i < 16; i++ {
		idx := (idxBits >> uint(3*i)) & 0x7
		out[i] = palette[idx]
	}

	return out
}

// decodeBC3 decompresses BC3 (alpha block + BC1 color block per 4x4 tile,
// 16 bytes/block) into an image.RGBA sized w x h, reading as many whole
// blocks as raw actually holds.
func decodeBC3(w, h uint32, raw []byte) *stdimage.RGBA {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, int(w), int(h)))

	blocksX := (int(w) + 3) / 4
	blocksY := (int(h) + 3) / 4

	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			off := (by*blocksX + bx) * 16
			if off+16 > len(raw) {
				return img
			}

			alpha := bc4AlphaBlock(raw[off : off+8])
			colors := bc1ColorBlock(raw[off+8 : off+16])

			for py := 0; py < 4; py++ {
				y := by*4 + py
				if y >= int(h) {
					continue
				}
				for px := 0; px < 4; px++ {
					x := bx*4 + px
					if x >= int(w) {
						continue
					}
					i := py*4 + px
					c := colors[i]
					c.A = alpha[i]
					img.SetRGBA(x, y, c)
				}
			}
		}
	}

	return img
}

// decodeBC5 decompresses BC5 (two independent single-channel interpolated
// blocks per 4x4 tile, read as R then G, 16 bytes/block) into an
// image.RGBA sized w x h; B is left 0 and A fully opaque, matching the
// block codec's normal-map-oriented two-channel output.
func decodeBC5(w, h int32, raw []byte) *stdimage.RGBA {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, int(w), int(h)))

	blocksX := (int(w) + 3) / 4
	blocksY := (int(h) + 3) / 4

	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			off := (by*blocksX + bx) * 16
			if off+16 > len(raw) {
				return img
			}

			rCh := bc4AlphaBlock(raw[off : off+8])
			gCh := bc4AlphaBlock(raw[off+8 : off+16])

			for py := 0; py < 4; py++ {
				y := by*4 + py
				if y >= int(h) {
					continue
				}
				for px := 0; px < 4; px++ {
					x := bx*4 + px
					if x >= int(w) {
						continue
					}
					i := py*4 + px
					img.SetRGBA(x, y, color.RGBA{R: rCh[i], G: gCh[i], B: 0, A: 0xff})
				}
			}
		}
	}

	return img
}
