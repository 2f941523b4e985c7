// Package image implements the WZ format's Layer 1: the object and
// property tree inside one image (a ".img" entry or a whole ".img" file),
// including the per-image string-interning table, canvas and sound object
// headers, and path-based lookup into the property tree.
package image

import (
	"encoding/binary"
	"io"

	"github.com/shroomkit/wz/crypto"
	"github.com/shroomkit/wz/errs"
	"github.com/shroomkit/wz/format"
	"github.com/shroomkit/wz/internal/scalar"
	"github.com/shroomkit/wz/internal/stream"
)

// typeStrInline and typeStrRef are the one-byte interning tags preceding
// an object's type-name string.
const (
	typeStrInline = 0x73
	typeStrRef    = 0x1B
)

// imgStrInline and imgStrRef are the one-byte interning tags preceding a
// property name or string value.
const (
	imgStrInline = 0
	imgStrRef    = 1
)

// Reader parses one image's object tree. Positions it reports and accepts
// (via the underlying Source's LocalPos/SeekToLocal) are relative to the
// image's own start, matching how the original client's per-image reader
// reports position to itself — string table keys and canvas/sound payload
// offsets are all image-local, never archive-absolute.
type Reader struct {
	src    *stream.Source
	crypto *crypto.Crypto
	strs   *strTable
}

// NewReader constructs an image Reader over src, sharing c for string and
// payload decryption.
func NewReader(src *stream.Source, c *crypto.Crypto) *Reader {
	return &Reader{src: src, crypto: c, strs: newStrTable()}
}

func (r *Reader) readInt() (int32, error)   { return scalar.ReadInt(r.src) }
func (r *Reader) readLong() (int64, error)  { return scalar.ReadLong(r.src) }
func (r *Reader) readF32() (float32, error) { return scalar.ReadF32(r.src) }
func (r *Reader) readF64() (float64, error) { return scalar.ReadF64(r.src) }

func (r *Reader) readU8() (uint8, error) {
	b, err := r.src.ReadByte()
	if err != nil {
		return 0, errs.AtPos(r.src.Pos(), err)
	}

	return b, nil
}

func (r *Reader) readU16() (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r.src, buf[:]); err != nil {
		return 0, errs.AtPos(r.src.Pos(), err)
	}

	return binary.LittleEndian.Uint16(buf[:]), nil
}

func (r *Reader) readU32() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r.src, buf[:]); err != nil {
		return 0, errs.AtPos(r.src.Pos(), err)
	}

	return binary.LittleEndian.Uint32(buf[:]), nil
}

// readInternedStr implements the two-mode string-interning dispatch every
// type-name and image string body goes through: an inline-body tag reads
// and caches a fresh WzStr keyed by the offset its body started at; a
// back-reference tag looks that offset up in the table, failing if the
// table has not seen it yet.
func (r *Reader) readInternedStr(inlineTag, refTag uint8) (string, error) {
	pos := r.src.Pos()

	tag, err := r.readU8()
	if err != nil {
		return "", err
	}

	switch tag {
	case inlineTag:
		bodyOffset := uint32(r.src.LocalPos())

		s, err := scalar.ReadString(r.src, r.crypto)
		if err != nil {
			return "", err
		}

		r.strs.insert(bodyOffset, s)

		return s, nil

	case refTag:
		offset, err := r.readU32()
		if err != nil {
			return "", err
		}

		s, ok := r.strs.get(offset)
		if !ok {
			return "", errs.AtPos(pos, errs.ErrMissingStringTableEntry)
		}

		return s, nil

	default:
		return "", errs.AtPos(pos, errs.ErrBadTag)
	}
}

// readTypeStr reads an object's type-name string.
func (r *Reader) readTypeStr() (string, error) {
	return r.readInternedStr(typeStrInline, typeStrRef)
}

// readImgStr reads a property name or string value.
func (r *Reader) readImgStr() (string, error) {
	return r.readInternedStr(imgStrInline, imgStrRef)
}

// ReadRootObject rewinds to the image's start and reads its root object,
// the entry point every top-level image traversal starts from.
func (r *Reader) ReadRootObject() (Object, error) {
	if err := r.src.SeekToLocal(0); err != nil {
		return Object{}, errs.AtPos(r.src.Pos(), err)
	}

	return r.readObject()
}

// readObject reads one object header: a type-name string dispatching to
// one of the six recognized object kinds.
func (r *Reader) readObject() (Object, error) {
	pos := r.src.Pos()

	typeStr, err := r.readTypeStr()
	if err != nil {
		return Object{}, err
	}

	kind, ok := format.ObjectTypeOf(typeStr)
	if !ok {
		return Object{}, errs.AtPos(pos, errs.ErrBadTag)
	}

	switch kind {
	case format.ObjectProperty:
		prop, err := r.readProperty()
		if err != nil {
			return Object{}, err
		}

		return Object{Kind: ObjectKindProperty, Property: &prop}, nil

	case format.ObjectCanvas:
		canvas, err := r.readCanvasHeader()
		if err != nil {
			return Object{}, err
		}

		return Object{Kind: ObjectKindCanvas, Canvas: &canvas}, nil

	case format.ObjectUOL:
		uol, err := r.readUOL()
		if err != nil {
			return Object{}, err
		}

		return Object{Kind: ObjectKindUOL, UOL: &uol}, nil

	case format.ObjectVector2D:
		v, err := r.readVector2D()
		if err != nil {
			return Object{}, err
		}

		return Object{Kind: ObjectKindVector2D, Vector2D: &v}, nil

	case format.ObjectConvex2D:
		points, err := r.readConvex2D()
		if err != nil {
			return Object{}, err
		}

		return Object{Kind: ObjectKindConvex2D, Convex2D: points}, nil

	case format.ObjectSoundDX8:
		sound, err := readSound(r)
		if err != nil {
			return Object{}, err
		}

		return Object{Kind: ObjectKindSound, Sound: &sound}, nil

	default:
		return Object{}, errs.AtPos(pos, errs.ErrBadTag)
	}
}

func (r *Reader) readVector2D() (Vector2D, error) {
	x, err := r.readInt()
	if err != nil {
		return Vector2D{}, err
	}

	y, err := r.readInt()
	if err != nil {
		return Vector2D{}, err
	}

	return Vector2D{X: x, Y: y}, nil
}

func (r *Reader) readUOL() (UOL, error) {
	unknown, err := r.readU8()
	if err != nil {
		return UOL{}, err
	}

	target, err := r.readImgStr()
	if err != nil {
		return UOL{}, err
	}

	return UOL{Unknown: unknown, Target: target}, nil
}

// readConvex2D reads a Shape2D#Convex2D object's point list. Each point is
// preceded by a type-name string that the original leaves unvalidated
// (assumed but never checked to name Shape2D#Vector2D); this port reads
// and discards it rather than over-verifying a field the format itself
// does not enforce.
func (r *Reader) readConvex2D() (Convex2D, error) {
	n, err := r.readInt()
	if err != nil {
		return nil, err
	}

	points := make(Convex2D, 0, n)
	for i := int32(0); i < n; i++ {
		if _, err := r.readTypeStr(); err != nil {
			return nil, err
		}

		v, err := r.readVector2D()
		if err != nil {
			return nil, err
		}

		points = append(points, v)
	}

	return points, nil
}

// readProperty reads a property map: an unknown u16 field followed by a
// WzInt-counted sequence of name/value entries.
func (r *Reader) readProperty() (Property, error) {
	unknown, err := r.readU16()
	if err != nil {
		return Property{}, err
	}

	n, err := r.readInt()
	if err != nil {
		return Property{}, err
	}

	entries := make([]PropertyEntry, 0, n)
	for i := int32(0); i < n; i++ {
		name, err := r.readImgStr()
		if err != nil {
			return Property{}, err
		}

		val, err := r.readPropValue()
		if err != nil {
			return Property{}, err
		}

		entries = append(entries, PropertyEntry{Name: name, Value: val})
	}

	return Property{Unknown: unknown, Entries: entries}, nil
}

// readPropValue reads one property entry's tagged value.
func (r *Reader) readPropValue() (PropValue, error) {
	pos := r.src.Pos()

	tagByte, err := r.readU8()
	if err != nil {
		return PropValue{}, err
	}
	tag := format.ValueTag(tagByte)

	switch tag {
	case format.ValueNull:
		return PropValue{Tag: tag}, nil

	case format.ValueShort, format.ValueShort2:
		v, err := r.readInt()
		if err != nil {
			return PropValue{}, err
		}

		return PropValue{Tag: tag, Short: int16(v)}, nil

	case format.ValueInt, format.ValueInt2:
		v, err := r.readInt()
		if err != nil {
			return PropValue{}, err
		}

		return PropValue{Tag: tag, Int: v}, nil

	case format.ValueLong:
		v, err := r.readLong()
		if err != nil {
			return PropValue{}, err
		}

		return PropValue{Tag: tag, Long: v}, nil

	case format.ValueF32:
		v, err := r.readF32()
		if err != nil {
			return PropValue{}, err
		}

		return PropValue{Tag: tag, F32: v}, nil

	case format.ValueF64:
		v, err := r.readF64()
		if err != nil {
			return PropValue{}, err
		}

		return PropValue{Tag: tag, F64: v}, nil

	case format.ValueStr:
		s, err := r.readImgStr()
		if err != nil {
			return PropValue{}, err
		}

		return PropValue{Tag: tag, Str: s}, nil

	case format.ValueObj:
		obj, err := r.readObjectValue()
		if err != nil {
			return PropValue{}, err
		}

		return PropValue{Tag: tag, Object: obj}, nil

	default:
		return PropValue{}, errs.AtPos(pos, errs.ErrBadTag)
	}
}

// readObjectValue reads an embedded Obj property value: a u32 byte length
// not counting itself, the nested object, then an unconditional seek to
// just past the declared length regardless of how many bytes the nested
// object's own parse consumed. This is what lets a canvas or sound
// payload — whose bytes this layer intentionally never reads — be safely
// skipped over by a sibling property's parse.
func (r *Reader) readObjectValue() (*Object, error) {
	length, err := r.readU32()
	if err != nil {
		return nil, err
	}

	start := r.src.LocalPos()

	obj, err := r.readObject()
	if err != nil {
		return nil, err
	}

	if err := r.src.SeekToLocal(start + int64(length)); err != nil {
		return nil, errs.AtPos(r.src.Pos(), err)
	}

	return &obj, nil
}

// readCanvasHeader reads a Canvas object's fixed header, stopping just
// before its pixel payload.
func (r *Reader) readCanvasHeader() (CanvasHeader, error) {
	unknown, err := r.readU8()
	if err != nil {
		return CanvasHeader{}, err
	}

	hasProperty, err := r.readU8()
	if err != nil {
		return CanvasHeader{}, err
	}

	var property *Property
	if hasProperty == 1 {
		prop, err := r.readProperty()
		if err != nil {
			return CanvasHeader{}, err
		}
		property = &prop
	}

	width, err := r.readInt()
	if err != nil {
		return CanvasHeader{}, err
	}

	height, err := r.readInt()
	if err != nil {
		return CanvasHeader{}, err
	}

	depthPos := r.src.Pos()
	depthVal, err := r.readInt()
	if err != nil {
		return CanvasHeader{}, err
	}
	depth := format.CanvasDepth(depthVal)
	if _, ok := depth.DepthSize(); !ok {
		return CanvasHeader{}, errs.AtPos(depthPos, errs.ErrBadCanvasDepth)
	}

	scaleRaw, err := r.readU8()
	if err != nil {
		return CanvasHeader{}, err
	}
	scale, err := parseCanvasScale(scaleRaw)
	if err != nil {
		return CanvasHeader{}, errs.AtPos(r.src.Pos(), err)
	}

	unknown1, err := r.readU32()
	if err != nil {
		return CanvasHeader{}, err
	}

	lenFieldPos := r.src.LocalPos()
	lenVal, err := r.readU32()
	if err != nil {
		return CanvasHeader{}, err
	}

	return CanvasHeader{
		Unknown:     unknown,
		Property:    property,
		Width:       width,
		Height:      height,
		Depth:       depth,
		Scale:       scale,
		Unknown1:    unknown1,
		lenFieldPos: lenFieldPos,
		lenVal:      lenVal,
	}, nil
}

// ReadPath walks a '/'-separated path through this image's root property
// tree, stepping transparently into a Canvas object's nested property map
// (its "sub" property) the same way the original path resolver does.
func (r *Reader) ReadPath(path string) (PropValue, error) {
	root, err := r.ReadRootObject()
	if err != nil {
		return PropValue{}, &errs.PathError{ValuePath: path, Err: err}
	}

	cur := PropValue{Tag: format.ValueObj, Object: &root}

	segments := splitPath(path)
	for _, seg := range segments {
		next, ok := stepInto(cur, seg)
		if !ok {
			return PropValue{}, &errs.PathError{ValuePath: path, Err: errs.ErrNotFound}
		}
		cur = next
	}

	return cur, nil
}

func stepInto(v PropValue, seg string) (PropValue, bool) {
	if v.Tag != format.ValueObj || v.Object == nil {
		return PropValue{}, false
	}

	switch v.Object.Kind {
	case ObjectKindProperty:
		e, ok := v.Object.Property.Get(seg)
		if !ok {
			return PropValue{}, false
		}

		return e.Value, true

	case ObjectKindCanvas:
		if v.Object.Canvas.Property == nil {
			return PropValue{}, false
		}

		e, ok := v.Object.Canvas.Property.Get(seg)
		if !ok {
			return PropValue{}, false
		}

		return e.Value, true

	default:
		return PropValue{}, false
	}
}

func splitPath(path string) []string {
	var segments []string

	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}

	return segments
}
