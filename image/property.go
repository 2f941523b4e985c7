package image

import "github.com/shroomkit/wz/format"

// Vector2D is a pair of compressed-int coordinates, the payload of a
// Shape2D#Vector2D object and of each point in a Shape2D#Convex2D.
type Vector2D struct {
	X int32
	Y int32
}

// UOL is a "Use Other Location" object: a single string naming another
// object's path, resolved by the caller rather than this package.
type UOL struct {
	Unknown uint8
	Target  string
}

// PropValue is the tagged union of a property entry's value, one of the
// ten wire value shapes a property map entry can hold.
type PropValue struct {
	Tag    format.ValueTag
	Short  int16
	Int    int32
	Long   int64
	F32    float32
	F64    float64
	Str    string
	Object *Object // non-nil only when Tag == format.ValueObj
}

// PropertyEntry is one name/value pair in a property map, in on-disk order.
type PropertyEntry struct {
	Name  string
	Value PropValue
}

// Property is an ordered property map: a u16 field of unknown purpose
// (carried through verbatim, never interpreted) followed by the entries.
type Property struct {
	Unknown uint16
	Entries []PropertyEntry
}

// Get returns the first entry named name.
func (p Property) Get(name string) (PropertyEntry, bool) {
	for _, e := range p.Entries {
		if e.Name == name {
			return e, true
		}
	}

	return PropertyEntry{}, false
}
