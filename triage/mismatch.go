package triage

import (
	"fmt"

	"github.com/pkg/errors"
)

// SizeMismatchPolicy decides what happens when reference and
// candidate differ in total length. Chunk-for-chunk comparison only
// makes sense over the common prefix, so the excess has to be either
// an error or corruption, never silently dropped.
type SizeMismatchPolicy int

const (
	// SizeMismatchReject fails the comparison outright. The default.
	SizeMismatchReject SizeMismatchPolicy = iota
	// SizeMismatchTail compares the common prefix normally and
	// reports the excess tail of the longer blob as corrupted. The
	// tail merges with a corruption reaching the end of the common
	// prefix; otherwise it's the one record that may start
	// unaligned.
	SizeMismatchTail
)

// SizeMismatchError reports that the two blobs can't be compared
// chunk-for-chunk because their lengths differ.
type SizeMismatchError struct {
	ReferenceSize int64
	CandidateSize int64
}

var _ error = (*SizeMismatchError)(nil)

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("blob size mismatch: reference is %d bytes, candidate is %d bytes", e.ReferenceSize, e.CandidateSize)
}

// IsSizeMismatch tells whether err (or its cause) is a
// *SizeMismatchError.
func IsSizeMismatch(err error) bool {
	_, ok := errors.Cause(err).(*SizeMismatchError)
	return ok
}
