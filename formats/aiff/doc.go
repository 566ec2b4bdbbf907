// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff.
//
// Signed PCM of 8, 16, 24 and 32 bits is supported with any channel count
// and sample rate. Samples come out as float32 in [-1, 1):
//
//	f, _ := os.Open("in.aif")
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // try another format
//	}
//
// AIFF stores samples big-endian; go-audio hides that. Input that cannot
// seek is read into memory first.
package aiff
