package triage_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/itchio/gash/triage"
	"github.com/itchio/gash/wire"
	"github.com/itchio/gash/wtest"
	"github.com/itchio/headway/united"
	"github.com/itchio/savior/seeksource"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	_ "github.com/itchio/gash/compressors/cbrotli"
	_ "github.com/itchio/gash/compressors/kzstd"
)

func sampleReport() *triage.Report {
	return &triage.Report{
		BlobSize:  16 * 1024 * 1024,
		ChunkSize: 4096,
		Corruptions: []triage.Corruption{
			{Offset: 4096, Length: 4096},
			{Offset: 40960, Length: 8192},
			{Offset: 16*1024*1024 - 1000, Length: 1000},
		},
	}
}

func Test_ReportRoundtrip(t *testing.T) {
	report := sampleReport()
	wtest.Must(t, report.EnsureValid())

	settings := []*triage.CompressionSettings{
		nil,
		{Algorithm: triage.CompressionAlgorithm_NONE},
		{Algorithm: triage.CompressionAlgorithm_BROTLI, Quality: 1},
		{Algorithm: triage.CompressionAlgorithm_BROTLI, Quality: 9},
		{Algorithm: triage.CompressionAlgorithm_ZSTD, Quality: 1},
		{Algorithm: triage.CompressionAlgorithm_ZSTD, Quality: 9},
	}

	for _, cs := range settings {
		buf := new(bytes.Buffer)
		wtest.Must(t, triage.WriteReport(buf, report, cs))

		t.Logf("%v: %s", cs, united.FormatBytes(int64(buf.Len())))

		got, err := triage.ReadReportSource(seeksource.FromBytes(buf.Bytes()))
		wtest.Must(t, err)

		assert.EqualValues(t, report, got)
	}
}

func Test_ReportRoundtripEmpty(t *testing.T) {
	report := &triage.Report{
		BlobSize:  1024,
		ChunkSize: 512,
	}

	buf := new(bytes.Buffer)
	wtest.Must(t, triage.WriteReport(buf, report, nil))

	got, err := triage.ReadReportSource(seeksource.FromBytes(buf.Bytes()))
	wtest.Must(t, err)

	assert.EqualValues(t, report, got)
	assert.Empty(t, got.Corruptions)
}

func Test_ReportFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "reportfile")
	wtest.Must(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "blob.gash")
	report := sampleReport()

	wtest.Must(t, triage.WriteReportFile(path, report, nil))

	got, err := triage.ReadReport(path)
	wtest.Must(t, err)
	assert.EqualValues(t, report, got)

	_, err = triage.ReadReport(filepath.Join(dir, "nope.gash"))
	assert.Error(t, err)
}

func Test_ReportTamper(t *testing.T) {
	report := sampleReport()

	buf := new(bytes.Buffer)
	none := &triage.CompressionSettings{Algorithm: triage.CompressionAlgorithm_NONE}
	wtest.Must(t, triage.WriteReport(buf, report, none))

	data := buf.Bytes()

	// the file ends with the digest, flipping a bit there must not
	// go unnoticed
	tampered := make([]byte, len(data))
	copy(tampered, data)
	tampered[len(tampered)-2] ^= 0x01

	_, err := triage.ReadReportSource(seeksource.FromBytes(tampered))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "digest")

	// truncation must not go unnoticed either
	_, err = triage.ReadReportSource(seeksource.FromBytes(data[:len(data)-6]))
	assert.Error(t, err)
}

func Test_ReportBadMagic(t *testing.T) {
	_, err := triage.ReadReportSource(seeksource.FromBytes([]byte("definitely not a report file")))
	assert.Error(t, err)
	assert.Equal(t, wire.ErrInvalidMagic, errors.Cause(err))
}

func Test_ReportUnknownCompressor(t *testing.T) {
	buf := new(bytes.Buffer)
	err := triage.WriteReport(buf, sampleReport(), &triage.CompressionSettings{
		Algorithm: triage.CompressionAlgorithm(99),
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no compressor")
}

func Test_ReportRejectsInvalid(t *testing.T) {
	// adjacent records are a malformed report, whoever wrote it
	// skipped merging
	report := &triage.Report{
		BlobSize:  65536,
		ChunkSize: 4096,
		Corruptions: []triage.Corruption{
			{Offset: 0, Length: 4096},
			{Offset: 4096, Length: 4096},
		},
	}

	buf := new(bytes.Buffer)
	wtest.Must(t, triage.WriteReport(buf, report, nil))

	_, err := triage.ReadReportSource(seeksource.FromBytes(buf.Bytes()))
	assert.Error(t, err)
}
