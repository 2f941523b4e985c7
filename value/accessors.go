package value

// AsObject returns v's Map if v is an Object, mirroring the original
// value tree's as_object/TryFrom<&WzValue> extraction surface.
func (v Value) AsObject() (*Map, bool) {
	if v.Kind != KindObject {
		return nil, false
	}

	return v.Object, true
}

// AsF32 returns v's float32 if v is an F32.
func (v Value) AsF32() (float32, bool) {
	if v.Kind != KindF32 {
		return 0, false
	}

	return v.F32, true
}

// AsF64 returns v's float64 if v is an F64.
func (v Value) AsF64() (float64, bool) {
	if v.Kind != KindF64 {
		return 0, false
	}

	return v.F64, true
}

// AsShort returns v's int16 if v is a Short.
func (v Value) AsShort() (int16, bool) {
	if v.Kind != KindShort {
		return 0, false
	}

	return v.Short, true
}

// AsInt returns v's int32 if v is an Int.
func (v Value) AsInt() (int32, bool) {
	if v.Kind != KindInt {
		return 0, false
	}

	return v.Int, true
}

// AsUint32 reinterprets v's Int bits as an unsigned value, matching the
// original's as_u32 (also backed by the Int variant, not a distinct Kind).
func (v Value) AsUint32() (uint32, bool) {
	if v.Kind != KindInt {
		return 0, false
	}

	return uint32(v.Int), true
}

// AsLong returns v's int64 if v is a Long.
func (v Value) AsLong() (int64, bool) {
	if v.Kind != KindLong {
		return 0, false
	}

	return v.Long, true
}

// AsBool treats v's Int as a boolean (nonzero is true), matching the
// original's bool TryFrom impl; only Int values convert.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindInt {
		return false, false
	}

	return v.Int != 0, true
}

// AsString returns v's string if v is a String (not a Link — use AsLink
// for that variant).
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}

	return v.Str, true
}

// AsLink returns v's link target if v is a Link.
func (v Value) AsLink() (string, bool) {
	if v.Kind != KindLink {
		return "", false
	}

	return v.Str, true
}

// AsVec returns v's Vec2Val if v is a Vec.
func (v Value) AsVec() (Vec2Val, bool) {
	if v.Kind != KindVec {
		return Vec2Val{}, false
	}

	return v.Vec, true
}

// AsConvex returns v's Vex2Val if v is a Convex.
func (v Value) AsConvex() (Vex2Val, bool) {
	if v.Kind != KindConvex {
		return Vex2Val{}, false
	}

	return v.Convex, true
}

// AsSound returns v's SoundVal if v is a Sound.
func (v Value) AsSound() (*SoundVal, bool) {
	if v.Kind != KindSound {
		return nil, false
	}

	return v.Sound, true
}

// AsCanvas returns v's CanvasVal if v is a Canvas.
func (v Value) AsCanvas() (*CanvasVal, bool) {
	if v.Kind != KindCanvas {
		return nil, false
	}

	return v.Canvas, true
}

// Into extracts v's payload as T, dispatching on T the same way the
// original's per-type TryFrom<&WzValue> impls do. Returns false (not an
// error) on a Kind mismatch, matching this package's other As* accessors.
func Into[T any](v Value) (T, bool) {
	var zero T

	switch any(zero).(type) {
	case *Map:
		obj, ok := v.AsObject()
		return any(obj).(T), ok
	case float32:
		f, ok := v.AsF32()
		return any(f).(T), ok
	case float64:
		f, ok := v.AsF64()
		return any(f).(T), ok
	case int16:
		s, ok := v.AsShort()
		return any(s).(T), ok
	case int32:
		i, ok := v.AsInt()
		return any(i).(T), ok
	case uint32:
		u, ok := v.AsUint32()
		return any(u).(T), ok
	case int64:
		l, ok := v.AsLong()
		return any(l).(T), ok
	case bool:
		b, ok := v.AsBool()
		return any(b).(T), ok
	case string:
		s, ok := v.AsString()
		return any(s).(T), ok
	case Vec2Val:
		vec, ok := v.AsVec()
		return any(vec).(T), ok
	case Vex2Val:
		vex, ok := v.AsConvex()
		return any(vex).(T), ok
	case *SoundVal:
		snd, ok := v.AsSound()
		return any(snd).(T), ok
	case *CanvasVal:
		cv, ok := v.AsCanvas()
		return any(cv).(T), ok
	default:
		return zero, false
	}
}
