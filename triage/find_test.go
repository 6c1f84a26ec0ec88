package triage_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/itchio/gash/blobgen"
	"github.com/itchio/gash/bytesource"
	"github.com/itchio/gash/triage"
	"github.com/itchio/gash/wtest"
	"github.com/stretchr/testify/assert"
)

func writePairFiles(t *testing.T, dir string, params blobgen.Params) (string, string, []blobgen.Window) {
	refPath := filepath.Join(dir, "reference.bin")
	candPath := filepath.Join(dir, "candidate.bin")

	refFile, err := os.Create(refPath)
	wtest.Must(t, err)
	defer refFile.Close()

	candFile, err := os.Create(candPath)
	wtest.Must(t, err)
	defer candFile.Close()

	windows, err := blobgen.WritePair(refFile, candFile, params)
	wtest.Must(t, err)

	return refPath, candPath, windows
}

func Test_FindCorruptions(t *testing.T) {
	dir, err := ioutil.TempDir("", "findcorruptions")
	wtest.Must(t, err)
	defer os.RemoveAll(dir)

	chunkSize := int64(4096)

	refPath, candPath, windows := writePairFiles(t, dir, blobgen.Params{
		Size:     2 * 1024 * 1024,
		Count:    5,
		AlignGap: chunkSize,
		Seed:     0xbeef,
	})
	assert.EqualValues(t, 5, len(windows))

	report, err := triage.FindCorruptions(context.Background(), refPath, candPath, chunkSize)
	wtest.Must(t, err)
	wtest.Must(t, report.EnsureValid())

	expected := make([]triage.Corruption, 0, len(windows))
	for _, w := range windows {
		lo := w.Offset / chunkSize * chunkSize
		hi := (w.End() + chunkSize - 1) / chunkSize * chunkSize
		expected = append(expected, triage.Corruption{Offset: lo, Length: hi - lo})
	}
	assert.EqualValues(t, expected, report.Corruptions)

	// a blob is never corrupted relative to itself
	clean, err := triage.FindCorruptions(context.Background(), refPath, refPath, chunkSize)
	wtest.Must(t, err)
	assert.Empty(t, clean.Corruptions)
}

func Test_FindCorruptionsMissingFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "findmissing")
	wtest.Must(t, err)
	defer os.RemoveAll(dir)

	present := filepath.Join(dir, "present.bin")
	wtest.Must(t, ioutil.WriteFile(present, []byte("some bytes"), 0644))

	_, err = triage.FindCorruptions(context.Background(), filepath.Join(dir, "absent.bin"), present, 1024)
	assert.Error(t, err)

	_, err = triage.FindCorruptions(context.Background(), present, filepath.Join(dir, "absent.bin"), 1024)
	assert.Error(t, err)
}

func Test_FindCorruptionsSizeMismatch(t *testing.T) {
	dir, err := ioutil.TempDir("", "findmismatch")
	wtest.Must(t, err)
	defer os.RemoveAll(dir)

	shorter := filepath.Join(dir, "shorter.bin")
	longer := filepath.Join(dir, "longer.bin")
	wtest.Must(t, ioutil.WriteFile(shorter, make([]byte, 4096), 0644))
	wtest.Must(t, ioutil.WriteFile(longer, make([]byte, 8192), 0644))

	_, err = triage.FindCorruptions(context.Background(), shorter, longer, 1024)
	assert.Error(t, err)
	assert.True(t, triage.IsSizeMismatch(err))
}

func Test_FindCorruptionsBufferedEquivalence(t *testing.T) {
	dir, err := ioutil.TempDir("", "findbuffered")
	wtest.Must(t, err)
	defer os.RemoveAll(dir)

	chunkSize := int64(1024)

	refPath, candPath, _ := writePairFiles(t, dir, blobgen.Params{
		Size:     1024*1024 + 137,
		Count:    8,
		AlignGap: chunkSize,
		Seed:     0xf00d,
	})

	fast, err := triage.FindCorruptions(context.Background(), refPath, candPath, chunkSize)
	wtest.Must(t, err)

	refSource, err := bytesource.OpenBuffered(refPath)
	wtest.Must(t, err)
	defer refSource.Close()

	candSource, err := bytesource.OpenBuffered(candPath)
	wtest.Must(t, err)
	defer candSource.Close()

	cctx := &triage.CompareContext{ChunkSize: chunkSize}
	slow, err := cctx.Compare(context.Background(), refSource, candSource)
	wtest.Must(t, err)

	assert.EqualValues(t, fast, slow)
}
