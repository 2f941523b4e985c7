package value

import "github.com/shroomkit/wz/image"

// Kind names which of Value's fields is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindObject
	KindF32
	KindF64
	KindShort
	KindInt
	KindLong
	KindString
	KindVec
	KindConvex
	KindSound
	KindCanvas
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindObject:
		return "Object"
	case KindF32:
		return "F32"
	case KindF64:
		return "F64"
	case KindShort:
		return "Short"
	case KindInt:
		return "Int"
	case KindLong:
		return "Long"
	case KindString:
		return "String"
	case KindVec:
		return "Vec"
	case KindConvex:
		return "Convex"
	case KindSound:
		return "Sound"
	case KindCanvas:
		return "Canvas"
	case KindLink:
		return "Link"
	default:
		return "Unknown"
	}
}

// Vec2Val is a Vec value's (x, y) pair.
type Vec2Val struct {
	X int32
	Y int32
}

// Vex2Val is a Convex value's point list.
type Vex2Val struct {
	Points []Vec2Val
}

// CanvasVal is a Canvas value: its decoded header plus an optional nested
// property map (the canvas's own "sub" property, when present). Pixel
// bytes are never part of the value tree — a caller reads them
// separately via image.Reader.ReadCanvasPixels.
type CanvasVal struct {
	Canvas image.CanvasHeader
	Sub    *Value
}

// SoundVal is a Sound value: its decoded header and data descriptor.
// Audio bytes are never part of the value tree — a caller reads them
// separately via image.Reader.ReadData.
type SoundVal struct {
	Sound image.Sound
}

// Value is the uniform tagged value tree every image's object/property
// tree is lifted into.
type Value struct {
	Kind Kind

	Object *Map
	F32    float32
	F64    float64
	Short  int16
	Int    int32
	Long   int64
	Str    string // String and Link both carry their payload here
	Vec    Vec2Val
	Convex Vex2Val
	Sound  *SoundVal
	Canvas *CanvasVal
}

// Read lifts r's root object into a Value, recursively converting every
// nested Property, Canvas, UOL, Vector2D, Convex2D, and SoundDX8 object.
func Read(r *image.Reader) (Value, error) {
	obj, err := r.ReadRootObject()
	if err != nil {
		return Value{}, err
	}

	return readObject(obj)
}

func readObject(obj image.Object) (Value, error) {
	switch obj.Kind {
	case image.ObjectKindProperty:
		return readProperty(*obj.Property)

	case image.ObjectKindCanvas:
		var sub *Value
		if obj.Canvas.Property != nil {
			v, err := readProperty(*obj.Canvas.Property)
			if err != nil {
				return Value{}, err
			}
			sub = &v
		}

		return Value{Kind: KindCanvas, Canvas: &CanvasVal{Canvas: *obj.Canvas, Sub: sub}}, nil

	case image.ObjectKindUOL:
		return Value{Kind: KindLink, Str: obj.UOL.Target}, nil

	case image.ObjectKindVector2D:
		return Value{Kind: KindVec, Vec: Vec2Val{X: obj.Vector2D.X, Y: obj.Vector2D.Y}}, nil

	case image.ObjectKindConvex2D:
		points := make([]Vec2Val, len(obj.Convex2D))
		for i, p := range obj.Convex2D {
			points[i] = Vec2Val{X: p.X, Y: p.Y}
		}

		return Value{Kind: KindConvex, Convex: Vex2Val{Points: points}}, nil

	case image.ObjectKindSound:
		return Value{Kind: KindSound, Sound: &SoundVal{Sound: *obj.Sound}}, nil

	default:
		return Value{Kind: KindNull}, nil
	}
}

func readProperty(p image.Property) (Value, error) {
	m := NewMap()

	for _, e := range p.Entries {
		v, err := readPropValue(e.Value)
		if err != nil {
			return Value{}, err
		}

		m.Set(e.Name, v)
	}

	return Value{Kind: KindObject, Object: m}, nil
}

func readPropValue(pv image.PropValue) (Value, error) {
	switch pv.Tag.String() {
	case "Null":
		return Value{Kind: KindNull}, nil
	case "Short":
		return Value{Kind: KindShort, Short: pv.Short}, nil
	case "Int":
		return Value{Kind: KindInt, Int: pv.Int}, nil
	case "Long":
		return Value{Kind: KindLong, Long: pv.Long}, nil
	case "F32":
		return Value{Kind: KindF32, F32: pv.F32}, nil
	case "F64":
		return Value{Kind: KindF64, F64: pv.F64}, nil
	case "Str":
		return Value{Kind: KindString, Str: pv.Str}, nil
	case "Obj":
		return readObject(*pv.Object)
	default:
		return Value{Kind: KindNull}, nil
	}
}

// GetPath walks a '/'-separated path through this value's Object map,
// stepping transparently into a Canvas value's Sub map (only when Sub is
// itself an Object) exactly as image.Reader.ReadPath does inside one
// image; GetPath additionally crosses value boundaries built by Read.
func (v Value) GetPath(path string) (Value, bool) {
	cur := v

	for _, seg := range splitPath(path) {
		next, ok := cur.stepInto(seg)
		if !ok {
			return Value{}, false
		}
		cur = next
	}

	return cur, true
}

func (v Value) stepInto(seg string) (Value, bool) {
	switch v.Kind {
	case KindObject:
		return v.Object.Get(seg)

	case KindCanvas:
		if v.Canvas == nil || v.Canvas.Sub == nil || v.Canvas.Sub.Kind != KindObject {
			return Value{}, false
		}

		return v.Canvas.Sub.Object.Get(seg)

	default:
		return Value{}, false
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
