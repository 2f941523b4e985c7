// Package stream adapts a random-access input (a file, a memory-mapped
// region, or an in-memory buffer) into the position-tracking byte source
// the scalar, archive, and image packages parse against.
//
// A Source wraps an io.SectionReader over a caller-supplied io.ReaderAt, so
// reads report *absolute* file positions even when the Source is bounded to
// one image's sub-range. Two Sources over the same ReaderAt are independent:
// each owns its own cursor, so an archive reader and every image reader it
// derives can be driven from different goroutines as long as the backing
// ReaderAt (an *os.File, a *bytes.Reader, a memory map) is safe for
// concurrent ReadAt, which all three are.
package stream

import "io"

// ReaderAt is the minimal capability a WZ input needs: positional reads.
// *os.File, *bytes.Reader, and io.NewSectionReader over either satisfy it.
type ReaderAt = io.ReaderAt

// Source is a bounded, position-reporting view over a ReaderAt.
type Source struct {
	sr   *io.SectionReader
	base int64
}

// New constructs a Source over [base, base+size) of ra. Absolute positions
// reported by Pos and accepted by SeekTo are relative to ra, not to this
// Source's own bound.
func New(ra ReaderAt, base, size int64) *Source {
	return &Source{sr: io.NewSectionReader(ra, base, size), base: base}
}

func (s *Source) Read(p []byte) (int, error) { return s.sr.Read(p) }

// ReadByte reads a single byte, satisfying io.ByteReader (and so
// scalar.Source) without introducing any read-ahead buffering that would
// disturb Pos/SeekTo.
func (s *Source) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(s.sr, b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}

// Pos returns the current absolute (archive-relative) read position.
func (s *Source) Pos() int64 {
	return s.base + s.LocalPos()
}

// LocalPos returns the current position relative to this Source's own
// base, i.e. with no offset added. Image parsing uses this: an image's
// string-interning table and its canvas/sound payload offsets are keyed
// by position relative to the image's own start, matching how a bounded
// sub-reader reports its position to the original implementation this
// format is drawn from.
func (s *Source) LocalPos() int64 {
	local, _ := s.sr.Seek(0, io.SeekCurrent)

	return local
}

// SeekTo moves the cursor to an absolute position. The position must lie
// within this Source's bound.
func (s *Source) SeekTo(absolutePos int64) error {
	_, err := s.sr.Seek(absolutePos-s.base, io.SeekStart)

	return err
}

// SeekToLocal moves the cursor to a position relative to this Source's own
// base, the counterpart to LocalPos.
func (s *Source) SeekToLocal(localPos int64) error {
	_, err := s.sr.Seek(localPos, io.SeekStart)

	return err
}

// Base returns the absolute position this Source's local offset 0 maps to.
func (s *Source) Base() int64 { return s.base }

// Size returns the number of bytes in this Source's bound.
func (s *Source) Size() int64 { return s.sr.Size() }
