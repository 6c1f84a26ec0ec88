//go:build darwin || linux

package bytesource

import (
	"io"
	"os"
	"runtime/debug"

	"github.com/itchio/screw"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MappedSource exposes a blob through a read-only memory mapping.
// The file must not be mutated while the source is open; that's a
// precondition, not something we can detect. If the underlying
// storage fails mid-read, the fault surfaces as an error rather than
// crashing the process.
type MappedSource struct {
	f    *os.File
	data []byte
	size int64
}

var _ Source = (*MappedSource)(nil)
var _ Slicer = (*MappedSource)(nil)

// OpenMapped opens the blob at path through a memory mapping.
func OpenMapped(path string) (Source, error) {
	f, err := screw.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stats, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.WithStack(err)
	}

	size := stats.Size()
	if size == 0 {
		// can't map zero bytes, and don't need to
		return &MappedSource{f: f}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "mapping %s", path)
	}

	return &MappedSource{
		f:    f,
		data: data,
		size: size,
	}, nil
}

func (ms *MappedSource) Size() int64 {
	return ms.size
}

func (ms *MappedSource) Slice(lo, hi int64) ([]byte, error) {
	if lo < 0 || hi < lo || hi > ms.size {
		return nil, errors.Errorf("invalid slice [%d, %d) of %d-byte source", lo, hi, ms.size)
	}

	return ms.data[lo:hi:hi], nil
}

func (ms *MappedSource) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, errors.Errorf("negative read offset %d", off)
	}
	if off >= ms.size {
		return 0, io.EOF
	}

	// a page fault here means the file shrank or the disk is failing,
	// surface it instead of letting SIGBUS take the process down
	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)
		if r := recover(); r != nil {
			err = errors.Errorf("page fault reading mapped source at offset %d: %v", off, r)
		}
	}()

	n = copy(p, ms.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (ms *MappedSource) Close() error {
	if ms.data != nil {
		err := unix.Munmap(ms.data)
		ms.data = nil
		if err != nil {
			ms.f.Close()
			return errors.WithStack(err)
		}
	}

	return ms.f.Close()
}
