// Package wz provides convenient top-level wrappers around the archive,
// image, and value packages, simplifying the most common use cases:
// opening an archive or a raw image, traversing its contents, and lifting
// an image into a JSON-serializable value tree.
//
// For advanced usage — direct directory/tree manipulation, raw object
// access, canvas/sound payload decoding — use the archive, image, and
// value packages directly.
//
//	a, _ := wz.Open(file, size, wz.WithRegion(archive.RegionGMS))
//	for entry, err := range a.TraverseImages() {
//	    if err != nil {
//	        continue
//	    }
//	    img := a.OpenImageHeader(entry.Hdr)
//	    v, _ := img.Value()
//	    data, _ := json.Marshal(v)
//	    _ = data
//	}
package wz

import (
	"iter"

	"github.com/shroomkit/wz/archive"
	"github.com/shroomkit/wz/errs"
	"github.com/shroomkit/wz/image"
	"github.com/shroomkit/wz/internal/options"
	"github.com/shroomkit/wz/internal/stream"
	"github.com/shroomkit/wz/value"
)

// Config selects the region and client version an archive or raw image is
// opened with.
type Config = archive.Config

// ConfigOption configures a Config via the functional-options pattern.
type ConfigOption = options.Option[*Config]

// WithRegion selects the crypto region context.
func WithRegion(r archive.Region) ConfigOption {
	return options.NoError(func(c *Config) { c.Region = r })
}

// WithVersion selects the client version whose encrypted form must match
// the archive's stored version.
func WithVersion(v uint16) ConfigOption {
	return options.NoError(func(c *Config) { c.Version = v })
}

// NewConfig builds a Config starting from archive.DefaultConfig and
// applying opts in order.
func NewConfig(opts ...ConfigOption) (Config, error) {
	cfg := archive.DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Archive is a convenience wrapper over archive.Reader: it owns the
// opened archive and constructs Image readers over its entries.
type Archive struct {
	reader *archive.Reader
}

// Open opens an archive: its header, directory tree, and crypto context.
func Open(ra stream.ReaderAt, size int64, opts ...ConfigOption) (*Archive, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	r, err := archive.Open(ra, size, cfg)
	if err != nil {
		return nil, err
	}

	return &Archive{reader: r}, nil
}

// Reader returns the underlying archive.Reader for direct access to
// directory parsing, Link resolution, and checksums.
func (a *Archive) Reader() *archive.Reader { return a.reader }

// TraverseImages walks the archive's directory tree breadth-first,
// yielding every image (including resolved Link targets) with its
// '/'-joined path.
func (a *Archive) TraverseImages() iter.Seq2[archive.ImageEntry, error] {
	return a.reader.TraverseImages()
}

// Tree builds an eagerly-loaded, path-keyed cache over the archive's
// directory tree, rooted at name.
func (a *Archive) Tree(name string) (*archive.Tree, error) {
	return archive.NewTree(a.reader, name)
}

// OpenImageHeader constructs an Image reader over hdr's sub-range of the
// archive.
func (a *Archive) OpenImageHeader(hdr archive.ImgHeader) *Image {
	src := a.reader.ImgReader(hdr)

	return &Image{reader: image.NewReader(src, a.reader.Crypto())}
}

// Image is a convenience wrapper over image.Reader: it adds a one-call
// path from an opened image to its JSON-serializable value tree.
type Image struct {
	reader *image.Reader
}

// OpenImg opens a raw ".img" file: an image without a surrounding
// archive, constructed with a zero data offset.
func OpenImg(ra stream.ReaderAt, size int64, opts ...ConfigOption) (*Image, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	r, err := archive.OpenImg(ra, size, cfg)
	if err != nil {
		return nil, err
	}

	src := r.RootImgReader()

	return &Image{reader: image.NewReader(src, r.Crypto())}, nil
}

// Reader returns the underlying image.Reader for direct object-tree,
// canvas, and sound access.
func (img *Image) Reader() *image.Reader { return img.reader }

// Value lifts the image's root object into a JSON-serializable value
// tree.
func (img *Image) Value() (value.Value, error) {
	return value.Read(img.reader)
}

// ReadPath lifts the image's root object and resolves a '/'-separated
// path through it, stepping transparently into a Canvas value's nested
// property map when present.
func (img *Image) ReadPath(path string) (value.Value, error) {
	v, err := img.Value()
	if err != nil {
		return value.Value{}, &errs.PathError{ValuePath: path, Err: err}
	}

	got, ok := v.GetPath(path)
	if !ok {
		return value.Value{}, &errs.PathError{ValuePath: path, Err: errs.ErrNotFound}
	}

	return got, nil
}
