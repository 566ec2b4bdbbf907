// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize  = errors.New("dst size must be multiple of channels")
	ErrInvalidChannels = errors.New("channel count must be positive")
	ErrInvalidRate     = errors.New("sample rate must be positive")
	ErrUnknownFormat   = errors.New("no decoder registered for format")
	ErrShortBuffer     = errors.New("buffer smaller than one frame")
)
