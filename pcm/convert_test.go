// SPDX-License-Identifier: EPL-2.0

package pcm

import "testing"

func TestFloat32Bytes_RoundTrip(t *testing.T) {
	t.Parallel()

	in := []float32{0, 1, -1, 0.5, -0.25, 3.5e-5}
	buf := Float32ToBytes(nil, in)
	if len(buf) != len(in)*4 {
		t.Fatalf("len(buf) = %d, want %d", len(buf), len(in)*4)
	}

	out := make([]float32, len(in))
	if n := BytesToFloat32(out, buf); n != len(in) {
		t.Fatalf("BytesToFloat32() = %d, want %d", n, len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestFloat32ToBytes_Appends(t *testing.T) {
	t.Parallel()

	buf := []byte{0xAA}
	buf = Float32ToBytes(buf, []float32{1})
	if len(buf) != 5 || buf[0] != 0xAA {
		t.Errorf("Float32ToBytes() did not append: % x", buf)
	}
}

func TestBytesToFloat32_IgnoresPartialSample(t *testing.T) {
	t.Parallel()

	buf := Float32ToBytes(nil, []float32{0.75})
	buf = append(buf, 0x01, 0x02)

	out := make([]float32, 4)
	if n := BytesToFloat32(out, buf); n != 1 {
		t.Errorf("BytesToFloat32() = %d, want 1", n)
	}
}
