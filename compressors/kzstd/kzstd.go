// Package kzstd registers zstd compression for report files.
// Blank-import it to enable the algorithm.
package kzstd

import (
	"io"

	"github.com/itchio/gash/triage"
	"github.com/klauspost/compress/zstd"
)

type Writer struct{}

var _ triage.Compressor = (*Writer)(nil)

func (zc *Writer) Apply(writer io.Writer, quality int32) (io.Writer, error) {
	return zstd.NewWriter(writer, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(int(quality))))
}

type Reader struct{}

var _ triage.Decompressor = (*Reader)(nil)

func (zr *Reader) Apply(reader io.Reader) (io.Reader, error) {
	// concurrency 1 keeps decoding synchronous, nothing to close
	return zstd.NewReader(reader, zstd.WithDecoderConcurrency(1))
}

func init() {
	triage.RegisterCompressor(triage.CompressionAlgorithm_ZSTD, &Writer{})
	triage.RegisterDecompressor(triage.CompressionAlgorithm_ZSTD, &Reader{})
}
