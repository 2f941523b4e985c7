// Package archive implements the WZ format's Layer 0: the file header, the
// directory tree of images/links/nested directories, and breadth-first
// traversal into image headers.
package archive

import (
	"io"
	"iter"

	"github.com/shroomkit/wz/crypto"
	"github.com/shroomkit/wz/errs"
	"github.com/shroomkit/wz/format"
	"github.com/shroomkit/wz/internal/scalar"
	"github.com/shroomkit/wz/internal/stream"
	"github.com/shroomkit/wz/section"
)

// Reader opens a WZ archive over a seekable, randomly-addressable input.
// It owns the input and a Crypto derived from the archive's data offset;
// image readers it constructs borrow both by reference.
type Reader struct {
	ra         stream.ReaderAt
	size       int64
	crypto     *crypto.Crypto
	dataOffset uint32
	rootOffset uint32
}

// Open reads an archive's header, verifies the stored encrypted version
// against cfg, and returns a Reader positioned to read the root directory.
func Open(ra stream.ReaderAt, size int64, cfg Config) (*Reader, error) {
	src := stream.New(ra, 0, size)

	fixed := make([]byte, section.ArchiveHeaderFixedSize)
	if _, err := io.ReadFull(src, fixed); err != nil {
		return nil, errs.AtPos(0, err)
	}

	var hdr section.ArchiveHeader
	if err := hdr.Parse(fixed); err != nil {
		return nil, errs.AtPos(0, err)
	}

	desc, err := readNullString(src)
	if err != nil {
		return nil, err
	}
	_ = desc

	if err := src.SeekTo(int64(hdr.DataOffset)); err != nil {
		return nil, errs.AtPos(int64(hdr.DataOffset), err)
	}

	c, err := crypto.New(cfg.Region.Context(), cfg.Version, hdr.DataOffset)
	if err != nil {
		return nil, err
	}

	var verBuf [2]byte
	if _, err := io.ReadFull(src, verBuf[:]); err != nil {
		return nil, errs.AtPos(src.Pos(), err)
	}
	storedVersion := uint16(verBuf[0]) | uint16(verBuf[1])<<8

	want := crypto.EncryptedVersion(crypto.VersionHash(cfg.Version))
	if storedVersion != want {
		return nil, errs.AtPos(int64(hdr.DataOffset), errs.ErrBadVersion)
	}

	return &Reader{
		ra:         ra,
		size:       size,
		crypto:     c,
		dataOffset: hdr.DataOffset,
		rootOffset: hdr.DataOffset + 2,
	}, nil
}

// OpenImg constructs a Reader for a raw .img file: an image with no
// surrounding archive, whose crypto has a zero data offset.
func OpenImg(ra stream.ReaderAt, size int64, cfg Config) (*Reader, error) {
	c, err := crypto.New(cfg.Region.Context(), cfg.Version, 0)
	if err != nil {
		return nil, err
	}

	return &Reader{ra: ra, size: size, crypto: c}, nil
}

func readNullString(s *stream.Source) (string, error) {
	var buf []byte
	for {
		b, err := s.ReadByte()
		if err != nil {
			return "", errs.AtPos(s.Pos(), err)
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}

	return string(buf), nil
}

// RootOffset is the archive-absolute position the root directory begins
// at: data_offset + 2, skipping the two-byte encrypted version field.
func (r *Reader) RootOffset() uint32 { return r.rootOffset }

// Crypto returns the archive's crypto context, shared by every image
// reader this Reader constructs.
func (r *Reader) Crypto() *crypto.Crypto { return r.crypto }

// ReadRootDir reads the directory at RootOffset.
func (r *Reader) ReadRootDir() (Dir, error) {
	return r.readDirAt(int64(r.rootOffset))
}

// ReadDirNode reads the directory nested at hdr's offset.
func (r *Reader) ReadDirNode(hdr DirHeader) (Dir, error) {
	return r.readDirAt(int64(hdr.Offset))
}

func (r *Reader) readDirAt(pos int64) (Dir, error) {
	src := stream.New(r.ra, pos, r.size-pos)

	count, err := scalar.ReadInt(src)
	if err != nil {
		return Dir{}, err
	}

	entries := make([]DirNode, 0, count)
	for i := int32(0); i < count; i++ {
		node, err := r.readDirEntry(src)
		if err != nil {
			return Dir{}, err
		}
		entries = append(entries, node)
	}

	return Dir{Entries: entries}, nil
}

func (r *Reader) readDirEntry(src *stream.Source) (DirNode, error) {
	pos := src.Pos()

	tagByte, err := src.ReadByte()
	if err != nil {
		return DirNode{}, errs.AtPos(pos, err)
	}
	tag := format.DirEntryTag(tagByte)

	switch tag {
	case format.DirEntryNil:
		var skip [10]byte
		if _, err := io.ReadFull(src, skip[:]); err != nil {
			return DirNode{}, errs.AtPos(pos, err)
		}

		return DirNode{Tag: tag}, nil

	case format.DirEntryLink:
		img, err := r.readLinkEntry(src)
		if err != nil {
			return DirNode{}, err
		}

		return DirNode{Tag: tag, Img: img}, nil

	case format.DirEntryDir:
		hdr, err := r.readDirHeader(src)
		if err != nil {
			return DirNode{}, err
		}

		return DirNode{Tag: tag, Dir: hdr}, nil

	case format.DirEntryImg:
		hdr, err := r.readImgHeader(src)
		if err != nil {
			return DirNode{}, err
		}

		return DirNode{Tag: tag, Img: hdr}, nil

	default:
		return DirNode{}, errs.AtPos(pos, errs.ErrBadTag)
	}
}

func (r *Reader) readDirHeader(src *stream.Source) (DirHeader, error) {
	name, err := scalar.ReadString(src, r.crypto)
	if err != nil {
		return DirHeader{}, err
	}

	blobSize, err := scalar.ReadInt(src)
	if err != nil {
		return DirHeader{}, err
	}

	checksum, err := scalar.ReadInt(src)
	if err != nil {
		return DirHeader{}, err
	}

	offset, err := r.readOffset(src)
	if err != nil {
		return DirHeader{}, err
	}

	return DirHeader{Name: name, BlobSize: blobSize, Checksum: checksum, Offset: offset}, nil
}

func (r *Reader) readImgHeader(src *stream.Source) (ImgHeader, error) {
	hdr, err := r.readDirHeader(src)
	if err != nil {
		return ImgHeader{}, err
	}

	return ImgHeader(hdr), nil
}

// readOffset reads a raw little-endian u32 at the field's own position and
// decrypts it with the crypto's offset key for that position.
func (r *Reader) readOffset(src *stream.Source) (uint32, error) {
	pos := src.Pos()

	var buf [4]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return 0, errs.AtPos(pos, err)
	}

	raw := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24

	return r.crypto.DecryptOffset(raw, uint32(pos)), nil
}

// readLinkEntry reads a Link entry: a raw (unobfuscated) u32 link offset,
// then seeks to the resolved absolute position to read the linked entry
// (which must be tag Img), then restores the stream position and reads
// the Link entry's own trailing blob_size/checksum/offset fields.
func (r *Reader) readLinkEntry(src *stream.Source) (ImgHeader, error) {
	pos := src.Pos()

	var buf [4]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return ImgHeader{}, errs.AtPos(pos, err)
	}
	linkOffset := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24

	afterLinkOffset := src.Pos()

	abs := r.crypto.OffsetLink(linkOffset)
	linkSrc := stream.New(r.ra, int64(abs), r.size-int64(abs))

	targetTag, err := linkSrc.ReadByte()
	if err != nil {
		return ImgHeader{}, errs.AtPos(int64(abs), err)
	}
	if format.DirEntryTag(targetTag) != format.DirEntryImg {
		return ImgHeader{}, errs.AtPos(int64(abs), errs.ErrBadTag)
	}

	linkImg, err := r.readImgHeader(linkSrc)
	if err != nil {
		return ImgHeader{}, err
	}

	// Restore the outer stream to just past the link offset field and read
	// the Link entry's own trailing fields at that position.
	if err := src.SeekTo(afterLinkOffset); err != nil {
		return ImgHeader{}, errs.AtPos(afterLinkOffset, err)
	}

	if _, err := scalar.ReadInt(src); err != nil { // blob_size, unused: the linked Img's own size governs
		return ImgHeader{}, err
	}
	if _, err := scalar.ReadInt(src); err != nil { // checksum, unused for the same reason
		return ImgHeader{}, err
	}
	if _, err := r.readOffset(src); err != nil { // offset, unused: linkImg.Offset is authoritative
		return ImgHeader{}, err
	}

	return linkImg, nil
}

// ImgReader constructs an image reader over hdr's sub-range of the input.
func (r *Reader) ImgReader(hdr ImgHeader) *stream.Source {
	return stream.New(r.ra, int64(hdr.Offset), int64(hdr.BlobSize))
}

// RootImgReader constructs an image reader over the entire input, for raw
// .img files opened via OpenImg.
func (r *Reader) RootImgReader() *stream.Source {
	return stream.New(r.ra, 0, r.size)
}

// Checksum computes a 32-bit wrapping-add byte sum over [offset, offset+n).
// The archive's own stored checksums are opaque and are not verified by
// this package; Checksum exists for tests that want to compute one.
func (r *Reader) Checksum(offset int64, n int64) (int32, error) {
	src := stream.New(r.ra, offset, n)

	var sum uint32
	buf := make([]byte, 4096)
	var remaining = n
	for remaining > 0 {
		chunk := buf
		if int64(len(chunk)) > remaining {
			chunk = chunk[:remaining]
		}

		read, err := io.ReadFull(src, chunk)
		if err != nil && read == 0 {
			return 0, errs.AtPos(offset+n-remaining, err)
		}

		for _, b := range chunk[:read] {
			sum += uint32(b)
		}
		remaining -= int64(read)
	}

	return int32(sum), nil
}

// ImageEntry is one entry yielded by TraverseImages: the entry's '/'-joined
// path from the root, and its resolved image header.
type ImageEntry struct {
	Path string
	Hdr  ImgHeader
}

// TraverseImages walks the directory tree breadth-first, yielding every
// Img entry (and every Link entry, as its resolved image) paired with its
// '/'-joined path from a synthetic "root" directory. A directory that
// fails to read is yielded as a non-nil error (an *errs.PathError carrying
// that directory's path) paired with a zero ImageEntry, and the walk goes
// on with the remaining queued directories, so a malformed subtree doesn't
// hide the rest of the archive from a caller that inspects each entry.
func (r *Reader) TraverseImages() iter.Seq2[ImageEntry, error] {
	return func(yield func(ImageEntry, error) bool) {
		type queued struct {
			path string
			dir  DirHeader
		}

		root := rootDirHeader("root", r.rootOffset)
		queue := []queued{{path: "", dir: root}}

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			dir, err := r.ReadDirNode(cur.dir)
			if err != nil {
				pathErr := &errs.PathError{ImagePath: cur.path, Err: err}
				if !yield(ImageEntry{}, pathErr) {
					return
				}

				continue
			}

			for _, entry := range dir.Entries {
				switch entry.Tag {
				case format.DirEntryDir:
					name, _ := entry.Name()
					queue = append(queue, queued{path: joinPath(cur.path, name), dir: entry.Dir})

				case format.DirEntryImg, format.DirEntryLink:
					name, _ := entry.Name()
					if !yield(ImageEntry{Path: joinPath(cur.path, name), Hdr: entry.Img}, nil) {
						return
					}
				}
			}
		}
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return "root/" + name
	}

	return parent + "/" + name
}
