// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestCubicInterpolate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		y0, y1, y2, y3 float32
		x              float32
		want           float32
		tolerance      float32
	}{
		{"start returns y1", 0, 1, 2, 3, 0, 1, 0.001},
		{"end returns y2", 0, 1, 2, 3, 1, 2, 0.001},
		{"linear ramp stays linear", 1, 2, 3, 4, 0.25, 2.25, 0.001},
		{"zero crossing", -1, -0.5, 0.5, 1, 0.5, 0, 0.001},
		{"peak overshoot is bounded", 0.5, 0.9, 0.7, 0.3, 0.3, 0.85, 0.1},
		{"silence", 0, 0, 0, 0, 0.5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CubicInterpolate(tt.y0, tt.y1, tt.y2, tt.y3, tt.x)
			if diff := float32(math.Abs(float64(got - tt.want))); diff > tt.tolerance {
				t.Errorf("CubicInterpolate() = %v, want %v (±%v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestCubicInterpolate_Endpoints(t *testing.T) {
	t.Parallel()

	for i := range 50 {
		y := float32(i)
		if got := CubicInterpolate(y, y+1, y+2, y+3, 0); got != y+1 {
			t.Errorf("x=0: got %v, want %v", got, y+1)
		}
		if got := CubicInterpolate(y, y+1, y+2, y+3, 1); got != y+2 {
			t.Errorf("x=1: got %v, want %v", got, y+2)
		}
	}
}

func BenchmarkCubicInterpolate(b *testing.B) {
	var sink float32
	b.ReportAllocs()
	for i := range b.N {
		sink = CubicInterpolate(0.1, 0.5, 0.3, -0.2, float32(i%100)/100)
	}
	_ = sink
}
