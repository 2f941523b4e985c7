// Package format defines the on-disk tag values and enums the WZ archive
// format is built from: directory entry tags, object type strings,
// property value tags, and canvas pixel depths.
package format

// DirEntryTag is the leading byte of a directory entry.
type DirEntryTag uint8

const (
	DirEntryNil  DirEntryTag = 1 // placeholder entry, ignored in traversal
	DirEntryLink DirEntryTag = 2 // link offset into the data region
	DirEntryDir  DirEntryTag = 3 // nested directory
	DirEntryImg  DirEntryTag = 4 // image
)

func (t DirEntryTag) String() string {
	switch t {
	case DirEntryNil:
		return "Nil"
	case DirEntryLink:
		return "Link"
	case DirEntryDir:
		return "Dir"
	case DirEntryImg:
		return "Img"
	default:
		return "Unknown"
	}
}

// ObjectType identifies the kind of object an image's type string names.
type ObjectType uint8

const (
	ObjectUnknown ObjectType = iota
	ObjectProperty
	ObjectCanvas
	ObjectUOL
	ObjectVector2D
	ObjectConvex2D
	ObjectSoundDX8
)

// objectTypeStrings maps the exact ASCII type string read from an object's
// header to its ObjectType.
var objectTypeStrings = map[string]ObjectType{
	"Property":         ObjectProperty,
	"Canvas":           ObjectCanvas,
	"UOL":              ObjectUOL,
	"Shape2D#Vector2D": ObjectVector2D,
	"Shape2D#Convex2D": ObjectConvex2D,
	"Sound_DX8":        ObjectSoundDX8,
}

// ObjectTypeOf returns the ObjectType for a decoded type string, and false
// if the string does not name a recognized object kind.
func ObjectTypeOf(typeString string) (ObjectType, bool) {
	t, ok := objectTypeStrings[typeString]
	return t, ok
}

func (t ObjectType) String() string {
	switch t {
	case ObjectProperty:
		return "Property"
	case ObjectCanvas:
		return "Canvas"
	case ObjectUOL:
		return "UOL"
	case ObjectVector2D:
		return "Vector2D"
	case ObjectConvex2D:
		return "Convex2D"
	case ObjectSoundDX8:
		return "SoundDX8"
	default:
		return "Unknown"
	}
}

// ValueTag is the one-byte tag preceding a property's value.
type ValueTag uint8

const (
	ValueNull   ValueTag = 0
	ValueShort  ValueTag = 2
	ValueInt    ValueTag = 3
	ValueF32    ValueTag = 4
	ValueF64    ValueTag = 5
	ValueStr    ValueTag = 8
	ValueObj    ValueTag = 9
	ValueShort2 ValueTag = 11 // alternate Short tag, same payload shape
	ValueInt2   ValueTag = 19 // alternate Int tag, same payload shape
	ValueLong   ValueTag = 20
)

func (t ValueTag) String() string {
	switch t {
	case ValueNull:
		return "Null"
	case ValueShort, ValueShort2:
		return "Short"
	case ValueInt, ValueInt2:
		return "Int"
	case ValueLong:
		return "Long"
	case ValueF32:
		return "F32"
	case ValueF64:
		return "F64"
	case ValueStr:
		return "Str"
	case ValueObj:
		return "Obj"
	default:
		return "Unknown"
	}
}

// CanvasDepth is the pixel format tag carried by a canvas header.
type CanvasDepth uint32

const (
	DepthBGRA4444 CanvasDepth = 1
	DepthBGRA8888 CanvasDepth = 2
	DepthBGR565   CanvasDepth = 513
	DepthBC3      CanvasDepth = 1026
	DepthBC5      CanvasDepth = 2050
)

func (d CanvasDepth) String() string {
	switch d {
	case DepthBGRA4444:
		return "BGRA4444"
	case DepthBGRA8888:
		return "BGRA8888"
	case DepthBGR565:
		return "BGR565"
	case DepthBC3:
		return "BC3"
	case DepthBC5:
		return "BC5"
	default:
		return "Unknown"
	}
}

// BytesPerPixel returns the packed size of one pixel in the on-disk raw
// bitmap for depths that are not block-compressed. BC3/BC5 are
// block-compressed and have no fixed per-pixel byte count.
func (d CanvasDepth) BytesPerPixel() (int, bool) {
	switch d {
	case DepthBGRA4444, DepthBGR565:
		return 2, true
	case DepthBGRA8888:
		return 4, true
	default:
		return 0, false
	}
}

// DepthSize returns the per-pixel byte density used to size the inflated
// raw bitmap buffer before pixel expansion: the packed encoding's own byte
// count for BGRA4444/BGR565 (2) and BGRA8888 (4), and 1 for the
// block-compressed BC3/BC5 depths, whose inflated form is still one byte
// per pixel of compressed block data rather than a decoded RGBA pixel.
func (d CanvasDepth) DepthSize() (int, bool) {
	switch d {
	case DepthBGRA4444, DepthBGR565:
		return 2, true
	case DepthBGRA8888:
		return 4, true
	case DepthBC3, DepthBC5:
		return 1, true
	default:
		return 0, false
	}
}

// zlibMagic is the first byte of a zlib stream's two-byte header for the
// compression levels the format ever emits.
const zlibMagic = 0x78

// IsZlibPayload reports whether the two-byte canvas payload prefix marks a
// plain zlib stream: low byte is the zlib magic and bit 13 of the
// little-endian 16-bit header is clear.
func IsZlibPayload(prefix uint16) bool {
	return byte(prefix) == zlibMagic && prefix&(1<<13) == 0
}
