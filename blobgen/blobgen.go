// Package blobgen writes deterministic corrupted-blob fixtures: a
// patterned reference blob, and a candidate that differs from it
// inside pseudo-randomly placed windows. The same params always
// produce the same pair, and the window list comes back to the caller
// so tests and benchmarks know exactly what a scan must find.
package blobgen

import (
	"io"
	"math/rand"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/pkg/errors"
)

const (
	// DefaultMinWindow and DefaultMaxWindow bracket window lengths so
	// a window can straddle a few chunks but never dominate the blob.
	DefaultMinWindow int64 = 512
	DefaultMaxWindow int64 = 4095
)

const writeBufSize = 64 * 1024

// Params describe a fixture pair.
type Params struct {
	// Size of both blobs in bytes.
	Size int64
	// Count of corruption windows in the candidate.
	Count int

	// optional
	MinWindow int64
	// optional
	MaxWindow int64
	// AlignGap, when set, keeps windows apart so that even rounded
	// out to AlignGap boundaries no two windows touch. Generating
	// with AlignGap = chunk size guarantees a scan at that chunk size
	// reports exactly Count records. Optional; zero means windows are
	// only kept from touching byte-wise.
	AlignGap int64
	// Seed for window placement.
	Seed int64
}

// A Window is one corrupted byte range of the candidate blob.
type Window struct {
	Offset int64
	Length int64
}

// End returns the first offset past the window.
func (w Window) End() int64 {
	return w.Offset + w.Length
}

func (p *Params) validate() error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.Size, validation.Required, validation.Min(int64(1))),
		validation.Field(&p.Count, validation.Min(0)),
		validation.Field(&p.MinWindow, validation.Min(int64(0))),
		validation.Field(&p.MaxWindow, validation.Min(int64(0))),
		validation.Field(&p.AlignGap, validation.Min(int64(0))),
	)
	if err != nil {
		return errors.WithStack(err)
	}

	if p.MinWindow == 0 {
		p.MinWindow = DefaultMinWindow
	}
	if p.MaxWindow == 0 {
		p.MaxWindow = DefaultMaxWindow
	}

	if p.MinWindow > p.MaxWindow {
		return errors.Errorf("min window %d exceeds max window %d", p.MinWindow, p.MaxWindow)
	}
	if p.Count > 0 && p.MaxWindow >= p.Size {
		return errors.Errorf("windows of up to %d bytes don't fit in a %d-byte blob", p.MaxWindow, p.Size)
	}

	return nil
}

// Windows returns the corruption windows params describe, in
// increasing offset order.
func Windows(params Params) ([]Window, error) {
	err := params.validate()
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(params.Seed))

	gap := params.AlignGap
	if gap == 0 {
		gap = 1
	}

	windows := make([]Window, 0, params.Count)

	// rejection sampling; dense placements can legitimately fail, so
	// give up loudly rather than spin forever
	attempts := 0
	maxAttempts := 1000 * (params.Count + 1)

	for len(windows) < params.Count {
		if attempts >= maxAttempts {
			return nil, errors.Errorf("gave up placing %d windows after %d attempts, blob too dense", params.Count, attempts)
		}
		attempts++

		length := params.MinWindow + rng.Int63n(params.MaxWindow-params.MinWindow+1)
		offset := rng.Int63n(params.Size - length + 1)
		w := Window{Offset: offset, Length: length}

		if conflicts(windows, w, gap) {
			continue
		}

		windows = append(windows, w)
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Offset < windows[j].Offset
	})

	return windows, nil
}

// conflicts reports whether w's gap-aligned span touches or overlaps
// any accepted window's span.
func conflicts(windows []Window, w Window, gap int64) bool {
	lo := alignDown(w.Offset, gap)
	hi := alignUp(w.End(), gap)

	for _, other := range windows {
		otherLo := alignDown(other.Offset, gap)
		otherHi := alignUp(other.End(), gap)

		if hi >= otherLo && otherHi >= lo {
			return true
		}
	}

	return false
}

func alignDown(v int64, gap int64) int64 {
	return v / gap * gap
}

func alignUp(v int64, gap int64) int64 {
	return (v + gap - 1) / gap * gap
}

// WriteReference writes the size-byte reference pattern to w: each
// byte is its offset modulo 256.
func WriteReference(w io.Writer, size int64) error {
	return writeBlob(w, size, nil)
}

// WriteCandidate writes the reference pattern with every byte inside
// the windows flipped (XOR 0xFF), so every chunk a window touches is
// guaranteed to differ.
func WriteCandidate(w io.Writer, size int64, windows []Window) error {
	return writeBlob(w, size, windows)
}

// WritePair writes a reference and its corrupted candidate, returning
// the windows that were applied.
func WritePair(ref io.Writer, cand io.Writer, params Params) ([]Window, error) {
	windows, err := Windows(params)
	if err != nil {
		return nil, err
	}

	err = WriteReference(ref, params.Size)
	if err != nil {
		return nil, err
	}

	err = WriteCandidate(cand, params.Size, windows)
	if err != nil {
		return nil, err
	}

	return windows, nil
}

func writeBlob(w io.Writer, size int64, windows []Window) error {
	buf := make([]byte, writeBufSize)
	wi := 0

	for off := int64(0); off < size; {
		n := int64(len(buf))
		if off+n > size {
			n = size - off
		}

		for i := int64(0); i < n; i++ {
			buf[i] = byte((off + i) % 256)
		}

		// flip the parts of this block that windows cover
		for wi < len(windows) && windows[wi].End() <= off {
			wi++
		}
		for j := wi; j < len(windows) && windows[j].Offset < off+n; j++ {
			lo := windows[j].Offset
			if lo < off {
				lo = off
			}
			hi := windows[j].End()
			if hi > off+n {
				hi = off + n
			}
			for i := lo; i < hi; i++ {
				buf[i-off] ^= 0xFF
			}
		}

		_, err := w.Write(buf[:n])
		if err != nil {
			return errors.WithStack(err)
		}

		off += n
	}

	return nil
}
