// Package triage detects corruption in binary blobs: it compares a
// candidate against a trusted reference chunk by chunk and reports
// every byte range where they differ, as a minimal ordered list of
// contiguous corrupted ranges.
package triage

import (
	"fmt"

	"github.com/pkg/errors"
)

// A Corruption is a maximal contiguous byte range where the candidate
// differs from the reference.
type Corruption struct {
	Offset int64
	Length int64
}

// End returns the first offset past the corruption.
func (c Corruption) End() int64 {
	return c.Offset + c.Length
}

func (c Corruption) String() string {
	return fmt.Sprintf("[%d, %d)", c.Offset, c.End())
}

// A Report is the outcome of one comparison: every corruption in
// increasing offset order, plus the geometry of the scan that
// produced it. It's a plain value, valid after its sources close.
type Report struct {
	BlobSize  int64
	ChunkSize int64

	Corruptions []Corruption
}

// TotalCorrupted sums the lengths of all corruptions.
func (r *Report) TotalCorrupted() int64 {
	var total int64
	for _, c := range r.Corruptions {
		total += c.Length
	}
	return total
}

// EnsureValid checks the report's structural invariants: every record
// within the blob, chunk-aligned, in strictly increasing offset
// order, and never adjacent to its neighbor (adjacent runs must have
// been merged into one). Only the record that ends at end-of-blob may
// be unaligned; that's where a truncated final chunk or an excess
// tail lives.
func (r *Report) EnsureValid() error {
	if r.ChunkSize <= 0 {
		return errors.Errorf("report has invalid chunk size %d", r.ChunkSize)
	}
	if r.BlobSize < 0 {
		return errors.Errorf("report has negative blob size %d", r.BlobSize)
	}

	prevEnd := int64(-1)
	for i, c := range r.Corruptions {
		if c.Length <= 0 {
			return errors.Errorf("corruption %d: %s has non-positive length", i, c)
		}
		if c.Offset < 0 || c.End() > r.BlobSize {
			return errors.Errorf("corruption %d: %s overflows blob of size %d", i, c, r.BlobSize)
		}
		if c.Offset%r.ChunkSize != 0 && c.End() != r.BlobSize {
			return errors.Errorf("corruption %d: %s is not chunk-aligned", i, c)
		}
		if c.Length%r.ChunkSize != 0 && c.End() != r.BlobSize {
			return errors.Errorf("corruption %d: %s has length not a multiple of chunk size %d", i, c, r.ChunkSize)
		}
		if c.Offset <= prevEnd {
			return errors.Errorf("corruption %d: %s overlaps or abuts its predecessor ending at %d", i, c, prevEnd)
		}
		prevEnd = c.End()
	}

	return nil
}
