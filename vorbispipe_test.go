// SPDX-License-Identifier: EPL-2.0

package vorbispipe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ik5/vorbispipe/audio"
	"github.com/ik5/vorbispipe/formats/vorbis"
	"github.com/ik5/vorbispipe/formats/wav"
	"github.com/ik5/vorbispipe/internal/audiotest"
	"github.com/ik5/vorbispipe/internal/vorbistest"
)

func tempFile(t *testing.T, name string) *os.File {
	t.Helper()

	f, err := os.Create(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	want := []string{"aiff", "mp3", "ogg", "wav"}
	if got := NewRegistry(nil, nil).Formats(); !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

// TestWAVToOggToWAV runs the whole pipeline with the identity engine:
// WAV file, Transcode, DecodeToWAV, WAV file.
func TestWAVToOggToWAV(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	in := tempFile(t, "in.wav")
	if _, err := wav.WriteSource(in, audiotest.NewChannelSource(16000, 4000, 0.5, -0.5), 16); err != nil {
		t.Fatalf("WriteSource() error = %v", err)
	}
	if _, err := in.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}

	var ogg bytes.Buffer
	engine := vorbistest.NewEngine()
	st, err := Transcode(ctx, in, "WAV", &ogg, engine,
		vorbis.WithLayout(1, 8000),
		vorbis.WithComment("TITLE", "Pipeline"))
	if err != nil {
		t.Fatalf("Transcode() error = %v", err)
	}
	if st.Format.Channels != 1 || st.Format.SampleRate != 8000 {
		t.Errorf("Transcode() format = %v, want 1ch 8000Hz", st.Format)
	}

	out := tempFile(t, "out.wav")
	frames, err := DecodeToWAV(ctx, bytes.NewReader(ogg.Bytes()), out, DecodeOptions{
		Engine:   vorbistest.NewEngine(),
		Channels: 2,
	})
	if err != nil {
		t.Fatalf("DecodeToWAV() error = %v", err)
	}
	if frames < 1990 || frames > 2010 {
		t.Errorf("DecodeToWAV() frames = %d, want about 2000", frames)
	}

	if _, err := out.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	src, err := wav.Decoder{}.Decode(out)
	if err != nil {
		t.Fatalf("Decode(out.wav) error = %v", err)
	}
	if src.Channels() != 2 || src.SampleRate() != 8000 {
		t.Errorf("out.wav = %d ch %d Hz, want 2 ch 8000 Hz", src.Channels(), src.SampleRate())
	}

	// Folding (0.5, -0.5) to mono gives silence.
	samples, err := audiotest.Collect(src, 512)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	for i, v := range samples {
		if v > 1e-3 || v < -1e-3 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestTranscode_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := Transcode(context.Background(), bytes.NewReader(nil), "flac", io.Discard, vorbistest.NewEngine())
	if !errors.Is(err, audio.ErrUnknownFormat) {
		t.Errorf("Transcode(flac) error = %v, want %v", err, audio.ErrUnknownFormat)
	}
}

func TestDecodeToWAV_NotOgg(t *testing.T) {
	t.Parallel()

	out := tempFile(t, "out.wav")
	if _, err := DecodeToWAV(context.Background(), bytes.NewReader(nil), out, DecodeOptions{}); !errors.Is(err, vorbis.ErrNoHeaders) {
		t.Errorf("DecodeToWAV(empty) error = %v, want %v", err, vorbis.ErrNoHeaders)
	}
}
