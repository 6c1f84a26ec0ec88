package bytesource

import (
	"io"
	"os"

	lru "github.com/hashicorp/golang-lru"
	"github.com/itchio/screw"
	"github.com/pkg/errors"
)

const (
	// DefaultPageSize is a compromise between syscall amortization for
	// chunk-by-chunk scans and memory held by the cache.
	DefaultPageSize int64 = 256 * 1024
	// DefaultNumPages bounds the cache at 16MiB with default pages.
	DefaultNumPages = 64
)

// BufferedSource reads a blob through plain file reads, keeping an
// LRU cache of recently-used pages so chunk-by-chunk scans don't pay
// one syscall per chunk. It's the fallback for platforms or files
// where mapping is undesirable.
type BufferedSource struct {
	f        *os.File
	size     int64
	pageSize int64
	cache    *lru.Cache
}

var _ Source = (*BufferedSource)(nil)

// OpenBuffered opens the blob at path for buffered reads with default
// paging.
func OpenBuffered(path string) (Source, error) {
	return OpenBufferedPages(path, DefaultPageSize, DefaultNumPages)
}

// OpenBufferedPages opens the blob at path, caching up to numPages
// pages of pageSize bytes each.
func OpenBufferedPages(path string, pageSize int64, numPages int) (Source, error) {
	if pageSize <= 0 {
		return nil, errors.Errorf("page size must be positive, got %d", pageSize)
	}

	f, err := screw.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stats, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.WithStack(err)
	}

	cache, err := lru.New(numPages)
	if err != nil {
		f.Close()
		return nil, errors.WithStack(err)
	}

	return &BufferedSource{
		f:        f,
		size:     stats.Size(),
		pageSize: pageSize,
		cache:    cache,
	}, nil
}

func (bs *BufferedSource) Size() int64 {
	return bs.size
}

func (bs *BufferedSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.Errorf("negative read offset %d", off)
	}
	if off >= bs.size {
		return 0, io.EOF
	}

	// reads of a page or more bypass the cache entirely
	if int64(len(p)) >= bs.pageSize {
		return bs.f.ReadAt(p, off)
	}

	read := 0
	for read < len(p) {
		abs := off + int64(read)
		if abs >= bs.size {
			return read, io.EOF
		}

		pageIndex := abs / bs.pageSize
		page, err := bs.page(pageIndex)
		if err != nil {
			return read, err
		}

		read += copy(p[read:], page[abs-pageIndex*bs.pageSize:])
	}

	return read, nil
}

func (bs *BufferedSource) page(index int64) ([]byte, error) {
	if cached, ok := bs.cache.Get(index); ok {
		return cached.([]byte), nil
	}

	lo := index * bs.pageSize
	hi := lo + bs.pageSize
	if hi > bs.size {
		hi = bs.size
	}

	page := make([]byte, hi-lo)
	_, err := bs.f.ReadAt(page, lo)
	if err != nil && err != io.EOF {
		return nil, errors.WithStack(err)
	}

	bs.cache.Add(index, page)
	return page, nil
}

func (bs *BufferedSource) Close() error {
	bs.cache.Purge()
	return bs.f.Close()
}
