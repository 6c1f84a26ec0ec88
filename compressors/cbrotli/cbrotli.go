// Package cbrotli registers brotli compression for report files.
// Blank-import it to enable the algorithm.
package cbrotli

import (
	"io"

	"github.com/itchio/gash/triage"
	"github.com/itchio/go-brotli/dec"
	"github.com/itchio/go-brotli/enc"
)

type Writer struct{}

var _ triage.Compressor = (*Writer)(nil)

func (bc *Writer) Apply(writer io.Writer, quality int32) (io.Writer, error) {
	return enc.NewBrotliWriter(writer, &enc.BrotliWriterOptions{
		Quality: int(quality),
	}), nil
}

type Reader struct{}

var _ triage.Decompressor = (*Reader)(nil)

func (br *Reader) Apply(reader io.Reader) (io.Reader, error) {
	return dec.NewBrotliReader(reader), nil
}

func init() {
	triage.RegisterCompressor(triage.CompressionAlgorithm_BROTLI, &Writer{})
	triage.RegisterDecompressor(triage.CompressionAlgorithm_BROTLI, &Reader{})
}
