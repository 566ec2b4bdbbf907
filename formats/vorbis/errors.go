// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	// ErrNoHeaders means the stream ended before the three header packets.
	ErrNoHeaders = errors.New("vorbis: stream ended inside the headers")

	// ErrNoAnalyzer means Encode was called without a codec engine.
	ErrNoAnalyzer = errors.New("vorbis: no encoding engine")
)
