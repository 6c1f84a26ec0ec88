package bytesource

import (
	"io"

	"github.com/pkg/errors"
)

// memSource serves a byte slice already in memory. Tests and callers
// that assemble blobs on the fly use it; it slices like a mapping
// does.
type memSource struct {
	data []byte
}

var _ Source = (*memSource)(nil)
var _ Slicer = (*memSource)(nil)

// FromBytes returns a Source reading from data. The slice must stay
// unmodified while the source is open.
func FromBytes(data []byte) Source {
	return &memSource{data: data}
}

func (ms *memSource) Size() int64 {
	return int64(len(ms.data))
}

func (ms *memSource) Slice(lo, hi int64) ([]byte, error) {
	if lo < 0 || hi < lo || hi > int64(len(ms.data)) {
		return nil, errors.Errorf("invalid slice [%d, %d) of %d-byte source", lo, hi, len(ms.data))
	}

	return ms.data[lo:hi:hi], nil
}

func (ms *memSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.Errorf("negative read offset %d", off)
	}
	if off >= int64(len(ms.data)) {
		return 0, io.EOF
	}

	n := copy(p, ms.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (ms *memSource) Close() error {
	return nil
}
