package triage

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// A Comparator decides whether two equal-length byte ranges hold the
// same bytes. Implementations must agree with bytes.Equal on every
// input; they only differ in how fast they get there.
type Comparator interface {
	Equal(a []byte, b []byte) bool
}

// DefaultComparator is what CompareContext uses when given none.
var DefaultComparator Comparator = &LaneComparator{width: DefaultLaneWidth}

// ScalarComparator compares byte ranges directly, short-circuiting on
// the first mismatch.
type ScalarComparator struct{}

var _ Comparator = ScalarComparator{}

func (ScalarComparator) Equal(a []byte, b []byte) bool {
	return bytes.Equal(a, b)
}

// LaneComparator compares a fixed-width lane at a time: each lane is
// folded as 8-byte words into a not-equal accumulator, and the scan
// stops at the first lane that differs. The trailing remainder, when
// the range length isn't a multiple of the lane width, is compared
// byte-wise.
type LaneComparator struct {
	width int
}

var _ Comparator = (*LaneComparator)(nil)

// NewLaneComparator returns a comparator with the given lane width in
// bytes. The width must be a positive multiple of 8; callers that
// can't meet that fall back to ScalarComparator.
func NewLaneComparator(width int) (*LaneComparator, error) {
	if width <= 0 || width%8 != 0 {
		return nil, errors.Errorf("lane width must be a positive multiple of 8, got %d", width)
	}

	return &LaneComparator{width: width}, nil
}

// Width returns the lane width in bytes.
func (lc *LaneComparator) Width() int {
	return lc.width
}

func (lc *LaneComparator) Equal(a []byte, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	i := 0
	for ; i+lc.width <= len(a); i += lc.width {
		var ne uint64
		for j := i; j < i+lc.width; j += 8 {
			ne |= binary.LittleEndian.Uint64(a[j:]) ^ binary.LittleEndian.Uint64(b[j:])
		}
		if ne != 0 {
			return false
		}
	}

	return bytes.Equal(a[i:], b[i:])
}
