// Package errs defines the sentinel errors returned by every layer of the
// wz archive decoder. Callers use errors.Is against these values; layers
// wrap them in a PosError (via AtPos) or a PathError to attach position and
// path context without losing the underlying sentinel.
package errs

import "errors"

var (
	// ErrIO wraps an underlying I/O failure (short read, seek past end, ...).
	ErrIO = errors.New("wz: io error")

	// ErrBadMagic is returned when the archive header magic is not "PKG1".
	ErrBadMagic = errors.New("wz: bad header magic")

	// ErrBadVersion is returned when the archive's encrypted version does
	// not match the configured version's derived hash.
	ErrBadVersion = errors.New("wz: bad version")

	// ErrBadTag is returned for an unexpected directory entry, object, or
	// property value tag byte.
	ErrBadTag = errors.New("wz: bad tag")

	// ErrBadString is returned when a string body cannot be decoded
	// (invalid UTF-16 sequence).
	ErrBadString = errors.New("wz: bad string")

	// ErrBadCanvasDepth is returned for an unrecognized canvas depth enum.
	ErrBadCanvasDepth = errors.New("wz: bad canvas depth")

	// ErrBadCanvasScale is returned for an unrecognized canvas scale factor.
	ErrBadCanvasScale = errors.New("wz: bad canvas scale")

	// ErrBadChunkSize is returned when a chunked canvas payload's chunk
	// sizes overrun the declared total payload length.
	ErrBadChunkSize = errors.New("wz: bad chunk size")

	// ErrBadSoundMajor is returned when a sound object's media major type
	// GUID is not the DirectShow media-stream type.
	ErrBadSoundMajor = errors.New("wz: bad sound major type")

	// ErrBadSoundSubtype is returned for an unrecognized sound sub-type GUID.
	ErrBadSoundSubtype = errors.New("wz: bad sound subtype")

	// ErrBadWaveFormat is returned for an unrecognized WAVEFORMATEX format tag.
	ErrBadWaveFormat = errors.New("wz: bad wave format")

	// ErrMissingStringTableEntry is returned when a string back-reference
	// points at an offset the image's string table has not seen yet.
	ErrMissingStringTableEntry = errors.New("wz: missing string table entry")

	// ErrNotFound is returned by path lookups that cannot resolve a segment.
	ErrNotFound = errors.New("wz: not found")

	// ErrUnsupported is returned by the value JSON decoder for input it
	// does not decode ("vex2" values, JSON arrays and booleans).
	// No archive, sound or canvas write path exists in this module.
	ErrUnsupported = errors.New("wz: unsupported")

	// ErrInvalidHeaderSize is returned when a fixed-size header section is
	// parsed from a byte slice of the wrong length.
	ErrInvalidHeaderSize = errors.New("wz: invalid header size")
)
