// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"
	"math"
)

// Float32ToBytes appends samples to dst as native-endian float32 and returns
// the extended slice.
func Float32ToBytes(dst []byte, samples []float32) []byte {
	start := len(dst)
	need := start + len(samples)*4
	if cap(dst) < need {
		grown := make([]byte, start, need)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:need]

	for i, s := range samples {
		binary.NativeEndian.PutUint32(dst[start+i*4:], math.Float32bits(s))
	}
	return dst
}

// BytesToFloat32 decodes native-endian float32 samples from src into dst and
// returns the number of samples written. Trailing bytes that do not form a
// whole sample are ignored.
func BytesToFloat32(dst []float32, src []byte) int {
	n := min(len(dst), len(src)/4)
	for i := range n {
		dst[i] = math.Float32frombits(binary.NativeEndian.Uint32(src[i*4:]))
	}
	return n
}
