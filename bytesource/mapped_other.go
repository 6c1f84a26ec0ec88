//go:build !darwin && !linux

package bytesource

import (
	"github.com/pkg/errors"
)

var ErrUnsupportedMapping = errors.New("Memory mapping is not supported on this platform")

// OpenMapped always fails on this platform. Open falls back to
// OpenBuffered.
func OpenMapped(path string) (Source, error) {
	return nil, errors.WithStack(ErrUnsupportedMapping)
}
