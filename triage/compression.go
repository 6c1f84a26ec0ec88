package triage

import (
	"fmt"
	"io"

	"github.com/itchio/gash/wire"
	"github.com/pkg/errors"
)

// CompressionAlgorithm identifies how a report file's payload section
// is compressed.
type CompressionAlgorithm int32

const (
	CompressionAlgorithm_NONE   CompressionAlgorithm = 0
	CompressionAlgorithm_BROTLI CompressionAlgorithm = 1
	CompressionAlgorithm_ZSTD   CompressionAlgorithm = 2
)

func (a CompressionAlgorithm) String() string {
	switch a {
	case CompressionAlgorithm_NONE:
		return "none"
	case CompressionAlgorithm_BROTLI:
		return "brotli"
	case CompressionAlgorithm_ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("CompressionAlgorithm(%d)", int32(a))
	}
}

// ParseCompressionAlgorithm is the inverse of String for known
// algorithms.
func ParseCompressionAlgorithm(s string) (CompressionAlgorithm, error) {
	switch s {
	case "none":
		return CompressionAlgorithm_NONE, nil
	case "brotli":
		return CompressionAlgorithm_BROTLI, nil
	case "zstd":
		return CompressionAlgorithm_ZSTD, nil
	default:
		return CompressionAlgorithm_NONE, errors.Errorf("unknown compression algorithm: %q", s)
	}
}

// CompressionSettings pick an algorithm and a quality for report
// files.
type CompressionSettings struct {
	Algorithm CompressionAlgorithm
	Quality   int32
}

func (cs CompressionSettings) String() string {
	return fmt.Sprintf("%s-q%d", cs.Algorithm, cs.Quality)
}

// CompressionDefault returns brotli at quality 1: a lot faster than
// high qualities and more than good enough for record streams.
func CompressionDefault() *CompressionSettings {
	return &CompressionSettings{
		Algorithm: CompressionAlgorithm_BROTLI,
		Quality:   1,
	}
}

// A Compressor wraps a writer so everything written to the returned
// writer comes out compressed. If the returned writer needs flushing,
// it implements io.Closer.
type Compressor interface {
	Apply(writer io.Writer, quality int32) (io.Writer, error)
}

// A Decompressor undoes a Compressor.
type Decompressor interface {
	Apply(reader io.Reader) (io.Reader, error)
}

var compressors = make(map[CompressionAlgorithm]Compressor)
var decompressors = make(map[CompressionAlgorithm]Decompressor)

// RegisterCompressor makes an algorithm available for writing report
// files. Algorithm packages call it from init; blank-import one to
// enable it.
func RegisterCompressor(a CompressionAlgorithm, c Compressor) {
	compressors[a] = c
}

// RegisterDecompressor makes an algorithm available for reading
// report files.
func RegisterDecompressor(a CompressionAlgorithm, d Decompressor) {
	decompressors[a] = d
}

// CompressWire wraps ctx according to compression, so that messages
// written to the returned context come out compressed.
func CompressWire(ctx *wire.WriteContext, compression *CompressionSettings) (*wire.WriteContext, error) {
	if compression == nil {
		compression = CompressionDefault()
	}

	if compression.Algorithm == CompressionAlgorithm_NONE {
		return ctx, nil
	}

	compressor := compressors[compression.Algorithm]
	if compressor == nil {
		return nil, errors.Errorf("no compressor registered for %s", compression.Algorithm)
	}

	w, err := compressor.Apply(ctx.Writer(), compression.Quality)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return wire.NewWriteContext(w), nil
}

// UncompressWire wraps ctx according to compression, so that messages
// read from the returned context come out decompressed.
func UncompressWire(ctx *wire.ReadContext, compression *CompressionSettings) (*wire.ReadContext, error) {
	if compression == nil {
		return nil, errors.New("missing compression settings")
	}

	if compression.Algorithm == CompressionAlgorithm_NONE {
		return ctx, nil
	}

	decompressor := decompressors[compression.Algorithm]
	if decompressor == nil {
		return nil, errors.Errorf("no decompressor registered for %s", compression.Algorithm)
	}

	r, err := decompressor.Apply(ctx.Reader())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return wire.NewReadContext(r), nil
}
