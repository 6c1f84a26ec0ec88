package triage

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/itchio/gash/wire"
	"github.com/itchio/savior"
	"github.com/itchio/savior/seeksource"
	"github.com/itchio/screw"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// Report files: gash magic, then a plain header naming the
// compression, then a compressed section holding the report info,
// every record in order, and a BLAKE3 digest so tampering and
// truncation are caught on read.

type reportHeader struct {
	Version     int32
	Compression CompressionSettings
}

type reportInfo struct {
	BlobSize   int64
	ChunkSize  int64
	NumRecords int64
}

type reportTrailer struct {
	Digest []byte
}

// WriteReport serializes report to w. A nil compression means
// CompressionDefault.
func WriteReport(w io.Writer, report *Report, compression *CompressionSettings) error {
	if report == nil {
		return errors.New("nil report")
	}
	if compression == nil {
		compression = CompressionDefault()
	}

	wc := wire.NewWriteContext(w)

	err := wc.WriteMagic(reportMagic)
	if err != nil {
		return err
	}

	err = wc.WriteMessage(&reportHeader{
		Version:     reportVersion,
		Compression: *compression,
	})
	if err != nil {
		return err
	}

	cwc, err := CompressWire(wc, compression)
	if err != nil {
		return err
	}

	err = cwc.WriteMessage(&reportInfo{
		BlobSize:   report.BlobSize,
		ChunkSize:  report.ChunkSize,
		NumRecords: int64(len(report.Corruptions)),
	})
	if err != nil {
		return err
	}

	for _, c := range report.Corruptions {
		err = cwc.WriteMessage(&c)
		if err != nil {
			return err
		}
	}

	err = cwc.WriteMessage(&reportTrailer{
		Digest: hashReport(report),
	})
	if err != nil {
		return err
	}

	// flush the compressor, but leave w itself open
	if cwc != wc {
		return cwc.Close()
	}
	return nil
}

// WriteReportFile writes report to a fresh file at path.
func WriteReportFile(path string, report *Report, compression *CompressionSettings) error {
	f, err := screw.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}

	err = WriteReport(f, report, compression)
	if err != nil {
		f.Close()
		return err
	}

	return errors.WithStack(f.Close())
}

// ReadReport reads a report file written by WriteReport, verifying
// magic, version and digest, and validating the report's invariants.
func ReadReport(path string) (*Report, error) {
	f, err := screw.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	return ReadReportSource(seeksource.FromFile(f))
}

// ReadReportSource reads a report from source, rewinding it first.
func ReadReportSource(source savior.Source) (*Report, error) {
	_, err := source.Resume(nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	rc := wire.NewReadContext(source)

	err = rc.ExpectMagic(reportMagic)
	if err != nil {
		return nil, err
	}

	header := &reportHeader{}
	err = rc.ReadMessage(header)
	if err != nil {
		return nil, err
	}

	if header.Version != reportVersion {
		return nil, errors.Errorf("unsupported report version %d", header.Version)
	}

	crc, err := UncompressWire(rc, &header.Compression)
	if err != nil {
		return nil, err
	}

	info := &reportInfo{}
	err = crc.ReadMessage(info)
	if err != nil {
		return nil, err
	}

	if info.NumRecords < 0 {
		return nil, errors.Errorf("report declares %d records", info.NumRecords)
	}

	report := &Report{
		BlobSize:  info.BlobSize,
		ChunkSize: info.ChunkSize,
	}

	for i := int64(0); i < info.NumRecords; i++ {
		var c Corruption
		err = crc.ReadMessage(&c)
		if err != nil {
			return nil, err
		}
		report.Corruptions = append(report.Corruptions, c)
	}

	trailer := &reportTrailer{}
	err = crc.ReadMessage(trailer)
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(trailer.Digest, hashReport(report)) {
		return nil, errors.Errorf("report digest mismatch, file is corrupted or truncated")
	}

	err = report.EnsureValid()
	if err != nil {
		return nil, err
	}

	return report, nil
}

// hashReport digests the report's canonical form: blob size, chunk
// size, then every record's offset and length, all little-endian.
func hashReport(report *Report) []byte {
	hasher := blake3.New()

	var buf [8]byte
	put := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		hasher.Write(buf[:])
	}

	put(report.BlobSize)
	put(report.ChunkSize)
	for _, c := range report.Corruptions {
		put(c.Offset)
		put(c.Length)
	}

	return hasher.Sum(nil)
}
