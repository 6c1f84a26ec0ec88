package triage

import (
	"bytes"
	"io"
	"testing"

	"github.com/itchio/gash/wire"
	"github.com/itchio/savior/seeksource"
	"github.com/stretchr/testify/assert"
)

const fakeAlgo = CompressionAlgorithm(42)

type fakeCompressor struct {
	called  bool
	quality int32
}

var _ Compressor = (*fakeCompressor)(nil)

func (fc *fakeCompressor) Apply(writer io.Writer, quality int32) (io.Writer, error) {
	fc.called = true
	fc.quality = quality
	return writer, nil
}

type fakeDecompressor struct {
	called bool
}

var _ Decompressor = (*fakeDecompressor)(nil)

func (fd *fakeDecompressor) Apply(reader io.Reader) (io.Reader, error) {
	fd.called = true
	return reader, nil
}

func Test_Compression(t *testing.T) {
	fc := &fakeCompressor{}
	RegisterCompressor(fakeAlgo, fc)

	fd := &fakeDecompressor{}
	RegisterDecompressor(fakeAlgo, fd)

	assert.EqualValues(t, false, fc.called)

	buf := new(bytes.Buffer)
	wc := wire.NewWriteContext(buf)

	// brotli is only registered when its package is imported, and
	// this test binary doesn't import it
	_, err := CompressWire(wc, &CompressionSettings{
		Algorithm: CompressionAlgorithm_BROTLI,
		Quality:   3,
	})
	assert.NotNil(t, err)

	cwc, err := CompressWire(wc, &CompressionSettings{
		Algorithm: fakeAlgo,
		Quality:   3,
	})
	assert.NoError(t, err)

	assert.EqualValues(t, true, fc.called)
	assert.EqualValues(t, 3, fc.quality)

	assert.NoError(t, cwc.WriteMessage(&reportInfo{
		BlobSize: 672,
	}))

	ss := seeksource.FromBytes(buf.Bytes())
	_, err = ss.Resume(nil)
	assert.NoError(t, err)

	rc := wire.NewReadContext(ss)

	crc, err := UncompressWire(rc, &CompressionSettings{Algorithm: fakeAlgo})
	assert.NoError(t, err)
	assert.EqualValues(t, true, fd.called)

	info := &reportInfo{}
	assert.NoError(t, crc.ReadMessage(info))

	assert.EqualValues(t, 672, info.BlobSize)
	assert.NotNil(t, crc.ReadMessage(info))
}

func Test_CompressionNone(t *testing.T) {
	buf := new(bytes.Buffer)
	wc := wire.NewWriteContext(buf)

	cwc, err := CompressWire(wc, &CompressionSettings{Algorithm: CompressionAlgorithm_NONE})
	assert.NoError(t, err)
	assert.Equal(t, wc, cwc)

	rc := wire.NewReadContext(bytes.NewReader(nil))

	crc, err := UncompressWire(rc, &CompressionSettings{Algorithm: CompressionAlgorithm_NONE})
	assert.NoError(t, err)
	assert.Equal(t, rc, crc)

	_, err = UncompressWire(rc, nil)
	assert.Error(t, err)
}

func Test_CompressionAlgorithmString(t *testing.T) {
	assert.EqualValues(t, "none", CompressionAlgorithm_NONE.String())
	assert.EqualValues(t, "brotli", CompressionAlgorithm_BROTLI.String())
	assert.EqualValues(t, "zstd", CompressionAlgorithm_ZSTD.String())
	assert.EqualValues(t, "CompressionAlgorithm(99)", CompressionAlgorithm(99).String())

	assert.EqualValues(t, "brotli-q1", CompressionDefault().String())

	for _, a := range []CompressionAlgorithm{
		CompressionAlgorithm_NONE,
		CompressionAlgorithm_BROTLI,
		CompressionAlgorithm_ZSTD,
	} {
		parsed, err := ParseCompressionAlgorithm(a.String())
		assert.NoError(t, err)
		assert.EqualValues(t, a, parsed)
	}

	_, err := ParseCompressionAlgorithm("lzham")
	assert.Error(t, err)
}

func Test_ReadReportUnknownAlgorithm(t *testing.T) {
	buf := new(bytes.Buffer)
	wc := wire.NewWriteContext(buf)

	assert.NoError(t, wc.WriteMagic(reportMagic))
	assert.NoError(t, wc.WriteMessage(&reportHeader{
		Version: reportVersion,
		Compression: CompressionSettings{
			Algorithm: CompressionAlgorithm(99),
		},
	}))

	_, err := ReadReportSource(seeksource.FromBytes(buf.Bytes()))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no decompressor")
}
