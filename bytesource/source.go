// Package bytesource gives read-only random access to a blob on disk,
// either through a memory mapping or through buffered file reads.
package bytesource

import (
	"io"
)

// A Source is a blob opened for one comparison: randomly addressable,
// read-only, with a known total length. Sources are safe for
// concurrent reads and must stay unmodified on disk for as long as
// they're open.
type Source interface {
	io.ReaderAt
	io.Closer

	// Size returns the blob's total length in bytes.
	Size() int64
}

// A Slicer can hand out zero-copy views into the blob. Only sources
// backed by a memory mapping offer it; callers fall back to ReadAt
// when the capability is missing.
type Slicer interface {
	// Slice returns the bytes in [lo, hi). The returned slice aliases
	// the source's storage and is only valid until Close.
	Slice(lo, hi int64) ([]byte, error)
}

// Open opens the blob at path with the fastest available strategy: a
// read-only memory mapping where the platform supports it, buffered
// reads otherwise.
func Open(path string) (Source, error) {
	src, err := OpenMapped(path)
	if err == nil {
		return src, nil
	}

	return OpenBuffered(path)
}
