package triage

import (
	"context"

	"github.com/itchio/gash/bytesource"
	"github.com/pkg/errors"
)

// FindCorruptions compares the blobs at the reference and candidate
// paths chunk by chunk and returns the corruption report. It opens
// both blobs with the fastest available strategy and uses defaults
// for everything else; build a CompareContext directly for control
// over workers, comparator or mismatch policy.
func FindCorruptions(ctx context.Context, reference string, candidate string, chunkSize int64) (*Report, error) {
	refSource, err := bytesource.Open(reference)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer refSource.Close()

	candSource, err := bytesource.Open(candidate)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer candSource.Close()

	cctx := &CompareContext{
		ChunkSize: chunkSize,
	}

	return cctx.Compare(ctx, refSource, candSource)
}
