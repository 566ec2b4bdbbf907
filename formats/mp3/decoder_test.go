// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ik5/vorbispipe/audio"
	"github.com/ik5/vorbispipe/internal/audiotest"
)

// mockMP3Reader serves 16-bit stereo PCM in chunks of at most step bytes,
// like gomp3.Decoder does.
type mockMP3Reader struct {
	r    *bytes.Reader
	size int64
	step int
	err  error
}

func newMockReader(samples []int16, step int) *mockMP3Reader {
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return &mockMP3Reader{r: bytes.NewReader(buf), size: int64(len(buf)), step: step}
}

func (m *mockMP3Reader) SampleRate() int { return 44100 }
func (m *mockMP3Reader) Length() int64   { return m.size }

func (m *mockMP3Reader) Read(p []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if len(p) > m.step {
		p = p[:m.step]
	}
	return m.r.Read(p)
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	// Odd sized chunks split frames across reads.
	src := &source{dec: newMockReader([]int16{-32768, 16384, 0, 8192, 32767, -16384}, 3)}

	got, err := audiotest.Collect(src, 4)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	want := []float32{-1, 0.5, 0, 0.25, 32767.0 / 32768, -0.5}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}

	if src.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", src.Frames())
	}
	if src.Channels() != 2 || src.SampleRate() != 44100 {
		t.Errorf("layout = %d ch %d Hz, want 2 ch 44100 Hz", src.Channels(), src.SampleRate())
	}
}

func TestSource_TrailingPartialFrame(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockReader([]int16{100, 200, 300}, 64)}
	got, err := audiotest.Collect(src, 16)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestSource_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	src := &source{dec: &mockMP3Reader{err: boom, step: 8}}
	if _, err := src.ReadSamples(make([]float32, 8)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
	if _, err := src.ReadSamples(make([]float32, 1)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(1) error = %v, want %v", err, audio.ErrInvalidDstSize)
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader(nil)); err == nil {
		t.Error("Decode(empty) error = nil, want error")
	}
}
