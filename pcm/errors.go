// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is matched by every UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported PCM format")

	// ErrFrameAlignment indicates a byte buffer that does not hold a whole
	// number of frames.
	ErrFrameAlignment = errors.New("buffer is not frame aligned")
)

// UnsupportedFormatError names the option that failed validation and the
// value that was received for it.
type UnsupportedFormatError struct {
	Option string
	Value  any
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: %s = %v", ErrUnsupportedFormat, e.Option, e.Value)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}
