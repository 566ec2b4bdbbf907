// SPDX-License-Identifier: EPL-2.0

package utils

// Clamp limits x to [-1, 1].
func Clamp(x float32) float32 {
	switch {
	case x > 1:
		return 1
	case x < -1:
		return -1
	}
	return x
}

// fullScale is 2^(bitDepth-1), the magnitude of the most negative value
// of a signed integer sample.
func fullScale(bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}
	return float32(uint64(1) << (bitDepth - 1))
}

// IntToFloat32 converts a signed integer sample of bitDepth bits to
// [-1, 1).
func IntToFloat32(v, bitDepth int) float32 {
	return float32(v) / fullScale(bitDepth)
}

// Float32ToInt converts x to a signed integer sample of bitDepth bits,
// clamping out of range input.
func Float32ToInt(x float32, bitDepth int) int {
	scale := float64(fullScale(bitDepth))
	x = Clamp(x)
	if x >= 0 {
		return int(float64(x) * (scale - 1))
	}
	return int(float64(x) * scale)
}

// Float32ToInt16 converts x to a 16-bit sample.
func Float32ToInt16(x float32) int16 {
	return int16(Float32ToInt(x, 16))
}
