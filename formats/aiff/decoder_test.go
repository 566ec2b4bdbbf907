// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/vorbispipe/internal/audiotest"
)

// writeAIFF encodes raw integer samples into a temporary AIFF file and
// returns its contents.
func writeAIFF(t *testing.T, rate, channels, bitDepth int, data []int) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "in.aiff")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create() error = %v", err)
	}
	enc := aiff.NewEncoder(f, rate, bitDepth, channels)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Encoder.Write() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Encoder.Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestDecoder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bitDepth int
		data     []int
		want     []float32
	}{
		{16, []int{-32768, 16384, 0, -16384}, []float32{-1, 0.5, 0, -0.5}},
		{24, []int{-8388608, 4194304, 0, -4194304}, []float32{-1, 0.5, 0, -0.5}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d bit", tt.bitDepth), func(t *testing.T) {
			t.Parallel()

			raw := writeAIFF(t, 48000, 2, tt.bitDepth, tt.data)

			// A plain io.Reader is buffered into memory.
			src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(raw)))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			defer src.Close()

			if src.SampleRate() != 48000 || src.Channels() != 2 {
				t.Errorf("Decode() = %d Hz %d ch, want 48000 Hz 2 ch", src.SampleRate(), src.Channels())
			}

			got, err := audiotest.Collect(src, 2)
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("sample %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecoder_NotAiff(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("RIFF....WAVEfmt definitely not aiff")))
	if !errors.Is(err, ErrNotAiffFile) {
		t.Errorf("Decode() error = %v, want %v", err, ErrNotAiffFile)
	}
}
