package section

import (
	"encoding/binary"

	"github.com/shroomkit/wz/errs"
)

// ArchiveMagic is the four-byte magic every WZ archive begins with.
const ArchiveMagic = "PKG1"

// ArchiveHeaderFixedSize is the size of the fixed-layout portion of an
// archive header: magic, file size, data offset. The NUL-terminated
// description that follows is variable-length and is not part of this
// fixed section.
const ArchiveHeaderFixedSize = 4 + 8 + 4

// ArchiveHeader is the fixed-size portion of a WZ archive's file header:
// magic "PKG1", a 64-bit file size, and a 32-bit data offset. An
// arbitrary-length NUL-terminated description follows on disk but is
// parsed separately by the caller, since its length isn't known until the
// NUL byte is found.
type ArchiveHeader struct {
	FileSize   uint64 // byte offset 4-11
	DataOffset uint32 // byte offset 12-15
}

// Parse parses the fixed portion of an archive header from a byte slice
// of exactly ArchiveHeaderFixedSize bytes, validating the magic.
func (h *ArchiveHeader) Parse(data []byte) error {
	if len(data) != ArchiveHeaderFixedSize {
		return errs.ErrInvalidHeaderSize
	}

	if string(data[0:4]) != ArchiveMagic {
		return errs.ErrBadMagic
	}

	h.FileSize = binary.LittleEndian.Uint64(data[4:12])
	h.DataOffset = binary.LittleEndian.Uint32(data[12:16])

	return nil
}

// Bytes serializes the fixed portion of the archive header, magic
// included, into a new byte slice.
func (h *ArchiveHeader) Bytes() []byte {
	b := make([]byte, ArchiveHeaderFixedSize)

	copy(b[0:4], ArchiveMagic)
	binary.LittleEndian.PutUint64(b[4:12], h.FileSize)
	binary.LittleEndian.PutUint32(b[12:16], h.DataOffset)

	return b
}
