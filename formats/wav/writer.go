// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/vorbispipe/audio"
	"github.com/ik5/vorbispipe/utils"
)

// Writer writes float32 samples as integer PCM WAV. The header sizes are
// patched on Close, so the destination must be seekable.
type Writer struct {
	enc      *wav.Encoder
	buf      *goaudio.IntBuffer
	channels int
	bitDepth int
	frames   int64
	closed   bool
}

// NewWriter starts a WAV stream of the given layout. bitDepth is 8, 16,
// 24 or 32.
func NewWriter(w io.WriteSeeker, sampleRate, channels, bitDepth int) (*Writer, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidChannels, channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidRate, sampleRate)
	}

	return &Writer{
		enc: wav.NewEncoder(w, sampleRate, bitDepth, channels, formatPCM),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		channels: channels,
		bitDepth: bitDepth,
	}, nil
}

// Frames is the number of frames written so far.
func (w *Writer) Frames() int64 { return w.frames }

// Write appends interleaved samples. len(samples) must be a whole number
// of frames.
func (w *Writer) Write(samples []float32) error {
	if w.closed {
		return ErrWriterClosed
	}
	if len(samples)%w.channels != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", audio.ErrInvalidDstSize, len(samples), w.channels)
	}
	if len(samples) == 0 {
		return nil
	}

	data := w.buf.Data[:0]
	for _, s := range samples {
		v := utils.Float32ToInt(s, w.bitDepth)
		if w.bitDepth == 8 {
			v += 128
		}
		data = append(data, v)
	}
	w.buf.Data = data

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	w.frames += int64(len(samples) / w.channels)
	return nil
}

// Close finalises the header. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}

// WriteSource copies src to w as WAV until src ends and returns the
// number of frames written.
func WriteSource(w io.WriteSeeker, src audio.Source, bitDepth int) (int64, error) {
	ww, err := NewWriter(w, src.SampleRate(), src.Channels(), bitDepth)
	if err != nil {
		return 0, err
	}

	size := src.BufSize()
	size -= size % src.Channels()
	if size <= 0 {
		size = 1024 * src.Channels()
	}
	buf := make([]float32, size)

	for {
		n, rerr := src.ReadSamples(buf)
		if err := ww.Write(buf[:n-n%src.Channels()]); err != nil {
			return ww.Frames(), err
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return ww.Frames(), fmt.Errorf("wav: %w", rerr)
		}
	}

	return ww.Frames(), ww.Close()
}
