package triage

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/itchio/gash/bytesource"
	"github.com/itchio/headway/state"
	"github.com/itchio/headway/united"
	"github.com/pkg/errors"
)

// CompareContext holds the settings for one comparison. ChunkSize is
// the only required field.
type CompareContext struct {
	ChunkSize int64

	// optional
	WorkUnitChunks int64
	// optional
	NumWorkers int
	// optional
	Comparator Comparator
	// optional
	SizeMismatch SizeMismatchPolicy
	// optional
	Consumer *state.Consumer
}

// Compare scans candidate against reference chunk by chunk and
// returns every range where they differ, in offset order. The report
// is byte-identical no matter how many workers run or how the blobs
// are partitioned; a single worker over a single unit degenerates to
// the sequential scan.
//
// Both sources must stay readable and unmodified for the duration of
// the call. Any read failure aborts the comparison; there is no
// partial report.
func (cctx *CompareContext) Compare(ctx context.Context, reference bytesource.Source, candidate bytesource.Source) (*Report, error) {
	err := validation.ValidateStruct(cctx,
		validation.Field(&cctx.ChunkSize, validation.Required, validation.Min(int64(1))),
		validation.Field(&cctx.WorkUnitChunks, validation.Min(int64(0))),
		validation.Field(&cctx.NumWorkers, validation.Min(0)),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if reference == nil || candidate == nil {
		return nil, errors.New("Compare needs both a reference and a candidate source")
	}

	consumer := cctx.Consumer
	if consumer == nil {
		consumer = &state.Consumer{}
	}

	comparator := cctx.Comparator
	if comparator == nil {
		comparator = DefaultComparator
	}

	unitChunks := cctx.WorkUnitChunks
	if unitChunks == 0 {
		unitChunks = DefaultWorkUnitChunks
	}

	numWorkers := cctx.NumWorkers
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU() + 1
	}

	refSize := reference.Size()
	candSize := candidate.Size()

	// common is the range compared chunk by chunk, blobSize what the
	// report covers, tail the excess of the longer blob if tolerated
	common := refSize
	blobSize := refSize
	var tail *Corruption

	if refSize != candSize {
		if cctx.SizeMismatch != SizeMismatchTail {
			return nil, errors.WithStack(&SizeMismatchError{
				ReferenceSize: refSize,
				CandidateSize: candSize,
			})
		}

		common = refSize
		if candSize < common {
			common = candSize
		}
		blobSize = refSize
		if candSize > blobSize {
			blobSize = candSize
		}
		tail = &Corruption{Offset: common, Length: blobSize - common}
	}

	chunkSize := cctx.ChunkSize
	unitSize := chunkSize * unitChunks

	numUnits := 0
	if common > 0 {
		numUnits = int((common + unitSize - 1) / unitSize)
	}

	consumer.ProgressLabel(fmt.Sprintf("Scanning %s (%d units of %s)...", united.FormatBytes(common), numUnits, united.FormatBytes(unitSize)))

	bytesDone := int64(0)
	onProgress := func(delta int64) {
		atomic.AddInt64(&bytesDone, delta)
		consumer.Progress(float64(atomic.LoadInt64(&bytesDone)) / float64(common))
	}

	sctx := &scanContext{
		reference:  reference,
		candidate:  candidate,
		chunkSize:  chunkSize,
		unitSize:   unitSize,
		common:     common,
		comparator: comparator,
		partials:   make([][]Corruption, numUnits),
		onProgress: onProgress,
	}

	unitIndices := make(chan int, numUnits)
	for unitIndex := 0; unitIndex < numUnits; unitIndex++ {
		unitIndices <- unitIndex
	}
	close(unitIndices)

	errs := make(chan error, numWorkers)
	done := make(chan bool, numWorkers)
	cancelled := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		go sctx.work(ctx, unitIndices, done, errs, cancelled)
	}

	var firstErr error
	for i := 0; i < numWorkers; i++ {
		select {
		case err := <-errs:
			if firstErr == nil {
				firstErr = err
				close(cancelled)
			}
		case <-done:
			// good!
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}

	// partial runs combine in partition order, never completion order,
	// so runs that straddle a unit boundary come out whole
	merger := &RunMerger{}
	for _, runs := range sctx.partials {
		merger.Append(runs)
	}

	if tail != nil {
		merger.Append([]Corruption{*tail})
	}

	report := &Report{
		BlobSize:    blobSize,
		ChunkSize:   chunkSize,
		Corruptions: merger.Runs(),
	}

	consumer.Debugf("Found %d corruptions totalling %s", len(report.Corruptions), united.FormatBytes(report.TotalCorrupted()))

	return report, nil
}

type onProgressFunc func(delta int64)

type scanContext struct {
	reference  bytesource.Source
	candidate  bytesource.Source
	chunkSize  int64
	unitSize   int64
	common     int64
	comparator Comparator
	partials   [][]Corruption
	onProgress onProgressFunc
}

func (sctx *scanContext) work(ctx context.Context, unitIndices chan int, done chan bool, errs chan error, cancelled chan struct{}) {
	var refBuf, candBuf []byte

	for unitIndex := range unitIndices {
		select {
		case <-ctx.Done():
			errs <- errors.WithStack(ctx.Err())
			return
		case <-cancelled:
			// another worker failed, give up
			done <- true
			return
		default:
		}

		err := sctx.scanUnit(unitIndex, &refBuf, &candBuf)
		if err != nil {
			errs <- err
			return
		}
	}

	done <- true
}

func (sctx *scanContext) scanUnit(unitIndex int, refBuf *[]byte, candBuf *[]byte) error {
	lo := int64(unitIndex) * sctx.unitSize
	hi := lo + sctx.unitSize
	if hi > sctx.common {
		hi = sctx.common
	}

	refBytes, err := sctx.bytes(sctx.reference, refBuf, lo, hi)
	if err != nil {
		return err
	}

	candBytes, err := sctx.bytes(sctx.candidate, candBuf, lo, hi)
	if err != nil {
		return err
	}

	merger := &RunMerger{}
	for off := lo; off < hi; off += sctx.chunkSize {
		end := off + sctx.chunkSize
		if end > hi {
			end = hi
		}

		corrupted := !sctx.comparator.Equal(refBytes[off-lo:end-lo], candBytes[off-lo:end-lo])
		merger.Chunk(off, end-off, corrupted)
	}

	// exclusive slot, no lock needed
	sctx.partials[unitIndex] = merger.Runs()
	sctx.onProgress(hi - lo)

	return nil
}

// bytes returns the source's [lo, hi) range: a zero-copy view when
// the source can slice, a read into the worker-owned buffer
// otherwise.
func (sctx *scanContext) bytes(src bytesource.Source, buf *[]byte, lo int64, hi int64) ([]byte, error) {
	if slicer, ok := src.(bytesource.Slicer); ok {
		return slicer.Slice(lo, hi)
	}

	n := hi - lo
	if int64(cap(*buf)) < n {
		*buf = make([]byte, n)
	}

	b := (*buf)[:n]
	_, err := src.ReadAt(b, lo)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return b, nil
}
