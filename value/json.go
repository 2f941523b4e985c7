package value

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shroomkit/wz/errs"
)

// MarshalJSON implements the value tree's serializer. Note the two
// discriminator keys the schema uses are not consistent with each other:
// Vec/Convex/Link use "$type", while Canvas/Sound use "$ty" — preserved
// here exactly rather than unified, since the deserializer below only
// ever recognizes "$type" and so never round-trips a Canvas or Sound
// value's own discriminator key.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindF32:
		return json.Marshal(v.F32)
	case KindF64:
		return json.Marshal(v.F64)
	case KindShort:
		return json.Marshal(v.Short)
	case KindInt:
		return json.Marshal(v.Int)
	case KindLong:
		return json.Marshal(v.Long)
	case KindString:
		return json.Marshal(v.Str)
	case KindObject:
		return v.Object.MarshalJSON()
	case KindVec:
		return v.Vec.MarshalJSON()
	case KindConvex:
		return v.Convex.MarshalJSON()
	case KindCanvas:
		return v.Canvas.MarshalJSON()
	case KindSound:
		// A Sound value serializes as the bare string "SOUND", bypassing
		// SoundVal's own richer {"$ty":"sound",...} serializer — the
		// latter is only ever reachable by marshaling a SoundVal
		// directly, never through a top-level Value.
		return json.Marshal("SOUND")
	case KindLink:
		return json.Marshal(struct {
			Type string `json:"$type"`
			Link string `json:"$link"`
		}{"link", v.Str})
	default:
		return []byte("null"), nil
	}
}

// MarshalJSON renders an Object's entries as a JSON object preserving
// insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	for i, k := range m.keys {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := json.Marshal(m.vals[i])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalJSON renders {"$type":"vec2","x":x,"y":y}.
func (v Vec2Val) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"$type"`
		X    int32  `json:"x"`
		Y    int32  `json:"y"`
	}{"vec2", v.X, v.Y})
}

// MarshalJSON renders {"$type":"vex2","vex":[...]}. Each point is itself
// rendered through Vec2Val's own Serialize, so each entry in "vex" is a
// full {"$type":"vec2",...} object rather than a bare {"x":..,"y":..}
// pair.
func (v Vex2Val) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string    `json:"$type"`
		Vex  []Vec2Val `json:"vex"`
	}{"vex2", v.Points})
}

// MarshalJSON renders {"$ty":"canvas","scale":n,"sub":<sub or null>}.
// Pixel bytes are never serialized.
func (c *CanvasVal) MarshalJSON() ([]byte, error) {
	var sub *Value
	if c.Sub != nil {
		sub = c.Sub
	}

	return json.Marshal(struct {
		Ty    string `json:"$ty"`
		Scale uint8  `json:"scale"`
		Sub   *Value `json:"sub"`
	}{"canvas", uint8(c.Canvas.Scale), sub})
}

// MarshalJSON renders {"$ty":"sound","playTime":ms}. Unreachable from a
// top-level Value (see Value.MarshalJSON's KindSound case) but kept as
// SoundVal's own serializer, matching the same dead-but-present shape in
// the source this format is drawn from.
func (s *SoundVal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Ty       string `json:"$ty"`
		PlayTime int32  `json:"playTime"`
	}{"sound", s.Sound.LenMs})
}

// UnmarshalJSON implements the value tree's deserializer: any JSON map is
// accepted; if its first key is literally "$type", the value dispatches
// on "link"/"vec2"/"vex2", otherwise the map is read as a plain Object.
// "vex2" is a known, intentionally unimplemented gap (returns
// errs.ErrUnsupported) rather than a silently wrong decode.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	val, err := decodeValue(dec)
	if err != nil {
		return err
	}

	*v = val

	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Value{Kind: KindNull}, nil
	case string:
		return Value{Kind: KindString, Str: t}, nil
	case json.Number:
		return numberValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObjectBody(dec)
		default:
			return Value{}, errs.ErrUnsupported
		}
	default:
		return Value{}, errs.ErrUnsupported
	}
}

func numberValue(n json.Number) Value {
	if i, err := strconv.ParseInt(n.String(), 10, 32); err == nil {
		return Value{Kind: KindInt, Int: int32(i)}
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return Value{Kind: KindLong, Long: i}
	}

	f, _ := n.Float64()

	return Value{Kind: KindF64, F64: f}
}

// decodeObjectBody reads a JSON object's entries after its opening '{' has
// already been consumed, peeking the first key to decide between the
// "$type"-dispatched shapes and a plain Object.
func decodeObjectBody(dec *json.Decoder) (Value, error) {
	if !dec.More() {
		if _, err := dec.Token(); err != nil { // consume '}'
			return Value{}, err
		}

		return Value{Kind: KindObject, Object: NewMap()}, nil
	}

	keyTok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	firstKey, _ := keyTok.(string)

	if firstKey == "$type" {
		return decodeTypedBody(dec)
	}

	firstVal, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}

	m := NewMap()
	m.Set(firstKey, firstVal)

	for dec.More() {
		kTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, _ := kTok.(string)

		val, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}

		m.Set(key, val)
	}

	if _, err := dec.Token(); err != nil { // consume '}'
		return Value{}, err
	}

	return Value{Kind: KindObject, Object: m}, nil
}

func decodeTypedBody(dec *json.Decoder) (Value, error) {
	typeTok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	typeVal, _ := typeTok.(string)

	switch typeVal {
	case "link":
		return decodeLinkBody(dec)
	case "vec2":
		return decodeVec2Body(dec)
	case "vex2":
		return Value{}, errs.ErrUnsupported
	default:
		return Value{}, errs.ErrBadTag
	}
}

func decodeLinkBody(dec *json.Decoder) (Value, error) {
	if _, err := dec.Token(); err != nil { // "$link" key
		return Value{}, err
	}

	linkTok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	link, _ := linkTok.(string)

	if _, err := dec.Token(); err != nil { // consume '}'
		return Value{}, err
	}

	return Value{Kind: KindLink, Str: link}, nil
}

func decodeVec2Body(dec *json.Decoder) (Value, error) {
	if _, err := dec.Token(); err != nil { // "x" key
		return Value{}, err
	}
	xTok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); err != nil { // "y" key
		return Value{}, err
	}
	yTok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); err != nil { // consume '}'
		return Value{}, err
	}

	x, err := numberToInt32(xTok)
	if err != nil {
		return Value{}, err
	}
	y, err := numberToInt32(yTok)
	if err != nil {
		return Value{}, err
	}

	return Value{Kind: KindVec, Vec: Vec2Val{X: x, Y: y}}, nil
}

func numberToInt32(tok json.Token) (int32, error) {
	n, ok := tok.(json.Number)
	if !ok {
		return 0, errs.ErrBadTag
	}

	i, err := strconv.ParseInt(n.String(), 10, 32)
	if err != nil {
		return 0, err
	}

	return int32(i), nil
}
