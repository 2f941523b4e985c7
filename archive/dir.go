package archive

import "github.com/shroomkit/wz/format"

// ImgHeader identifies one image's location and size within an archive:
// its name, the length of its blob, an opaque checksum, and the absolute
// byte offset its data starts at.
type ImgHeader struct {
	Name     string
	BlobSize int32
	Checksum int32
	Offset   uint32
}

// DirHeader identifies a nested directory the same way an ImgHeader
// identifies an image.
type DirHeader struct {
	Name     string
	BlobSize int32
	Checksum int32
	Offset   uint32
}

// rootDirHeader synthesizes the DirHeader for an archive's implicit root
// directory, which has no on-disk entry of its own.
func rootDirHeader(name string, rootOffset uint32) DirHeader {
	return DirHeader{Name: name, BlobSize: 1, Checksum: 1, Offset: rootOffset}
}

// DirNode is a tagged union over the four kinds of directory entry: Nil
// (a placeholder), Link (resolves to another entry, currently always an
// image), Dir (a nested directory), and Img (an image).
//
// A Link node's Img field is already the resolved target image's header;
// readDirEntry performs the indirection while parsing, so callers never
// see an unresolved link.
type DirNode struct {
	Tag format.DirEntryTag
	Dir DirHeader
	Img ImgHeader
}

// Name returns the entry's name and true, or ("", false) for a Nil entry,
// which carries no name.
func (n DirNode) Name() (string, bool) {
	switch n.Tag {
	case format.DirEntryDir:
		return n.Dir.Name, true
	case format.DirEntryImg, format.DirEntryLink:
		return n.Img.Name, true
	default:
		return "", false
	}
}

// Dir is a directory: an ordered list of entries, the WzVec<WzDirNode>
// read at some directory offset.
type Dir struct {
	Entries []DirNode
}

// Get returns the first entry named name, mirroring the directory lookup
// used by path resolution and by Tree.
func (d Dir) Get(name string) (DirNode, bool) {
	for _, e := range d.Entries {
		if n, ok := e.Name(); ok && n == name {
			return e, true
		}
	}

	return DirNode{}, false
}
