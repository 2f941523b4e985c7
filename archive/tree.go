package archive

import (
	"strings"

	"github.com/shroomkit/wz/format"
)

// Tree is an eagerly-loaded, in-memory cache of an archive's directory
// structure, built by one recursive, depth-first pass over
// Reader.ReadDirNode. Path
// lookups after construction touch no further I/O.
//
// There is no directory-tree library in the retrieval pack shaped for this:
// the structure is a thin map keyed by '/'-joined path, not a generic tree
// type, so it's hand-rolled rather than grounded on a third-party package.
type Tree struct {
	name  string
	nodes map[string]DirNode
	dirs  map[string]Dir
}

// NewTree walks r's entire directory structure starting at the root and
// returns a Tree with every directory and image entry cached by path. name
// is used only as the root's own name in returned paths.
func NewTree(r *Reader, name string) (*Tree, error) {
	t := &Tree{
		name:  name,
		nodes: make(map[string]DirNode),
		dirs:  make(map[string]Dir),
	}

	root := rootDirHeader(name, r.rootOffset)
	if err := t.load(r, name, root); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Tree) load(r *Reader, path string, hdr DirHeader) error {
	dir, err := r.ReadDirNode(hdr)
	if err != nil {
		return err
	}
	t.dirs[path] = dir

	for _, entry := range dir.Entries {
		name, ok := entry.Name()
		if !ok {
			continue
		}
		childPath := path + "/" + name
		t.nodes[childPath] = entry

		if entry.Tag == format.DirEntryDir {
			if err := t.load(r, childPath, entry.Dir); err != nil {
				return err
			}
		}
	}

	return nil
}

// GetByPath resolves a '/'-separated path, rooted at the tree's own name,
// to the DirNode at that path.
func (t *Tree) GetByPath(path string) (DirNode, bool) {
	n, ok := t.nodes[normalizeTreePath(t.name, path)]
	return n, ok
}

// GetImageByPath resolves path to an image header, failing if the path
// does not name an Img (or resolved Link) entry.
func (t *Tree) GetImageByPath(path string) (ImgHeader, bool) {
	n, ok := t.GetByPath(path)
	if !ok {
		return ImgHeader{}, false
	}

	switch n.Tag {
	case format.DirEntryImg, format.DirEntryLink:
		return n.Img, true
	default:
		return ImgHeader{}, false
	}
}

// Dir returns the cached directory listing at path, or the root directory
// when path is empty.
func (t *Tree) Dir(path string) (Dir, bool) {
	if path == "" {
		d, ok := t.dirs[t.name]
		return d, ok
	}

	d, ok := t.dirs[normalizeTreePath(t.name, path)]
	return d, ok
}

func normalizeTreePath(rootName, path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return rootName
	}

	return rootName + "/" + path
}
