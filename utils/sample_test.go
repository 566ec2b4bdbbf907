// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{"zero", 0, 0},
		{"max positive", 1, math.MaxInt16},
		{"max negative", -1, math.MinInt16},
		{"half positive", 0.5, 16383},
		{"half negative", -0.5, -16384},
		{"clamp above", 1.5, math.MaxInt16},
		{"clamp below", -3, math.MinInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Float32ToInt16(tt.input); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestIntToFloat32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v, bitDepth int
		want        float32
	}{
		{0, 16, 0},
		{math.MinInt16, 16, -1},
		{16384, 16, 0.5},
		{-128, 8, -1},
		{-8388608, 24, -1},
		{1 << 30, 32, 0.5},
		{-16384, 0, -0.5}, // unknown depth falls back to 16 bits
	}

	for _, tt := range tests {
		if got := IntToFloat32(tt.v, tt.bitDepth); got != tt.want {
			t.Errorf("IntToFloat32(%d, %d) = %v, want %v", tt.v, tt.bitDepth, got, tt.want)
		}
	}
}

func TestFloat32ToInt_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, depth := range []int{8, 16, 24} {
		for _, x := range []float32{-1, -0.25, 0, 0.25, 0.75} {
			back := IntToFloat32(Float32ToInt(x, depth), depth)
			if math.Abs(float64(back-x)) > 2/float64(fullScale(depth)) {
				t.Errorf("depth %d: %v -> %v", depth, x, back)
			}
		}
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	for in, want := range map[float32]float32{2: 1, -2: -1, 0.3: 0.3} {
		if got := Clamp(in); got != want {
			t.Errorf("Clamp(%v) = %v, want %v", in, got, want)
		}
	}
}
