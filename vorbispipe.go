// SPDX-License-Identifier: EPL-2.0

package vorbispipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/vorbispipe/audio"
	"github.com/ik5/vorbispipe/formats/aiff"
	"github.com/ik5/vorbispipe/formats/mp3"
	"github.com/ik5/vorbispipe/formats/vorbis"
	"github.com/ik5/vorbispipe/formats/wav"
	"github.com/ik5/vorbispipe/stream"
)

// NewRegistry returns a registry with every bundled decoder. Ogg Vorbis is
// decoded with s, or the pure Go engine when s is nil.
func NewRegistry(s stream.Synthesizer, logger *slog.Logger) *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{Engine: s, Logger: logger})
	return reg
}

// Transcode decodes r as format with the bundled decoders and encodes it
// to w as Ogg Vorbis with a.
func Transcode(ctx context.Context, r io.Reader, format string, w io.Writer, a stream.Analyzer, opts ...vorbis.EncodeOption) (vorbis.Stats, error) {
	var synth stream.Synthesizer
	if s, ok := a.(stream.Synthesizer); ok {
		synth = s
	}

	src, err := NewRegistry(synth, nil).Decode(format, r)
	if err != nil {
		return vorbis.Stats{}, err
	}
	defer src.Close()

	return vorbis.Encode(ctx, src, w, a, opts...)
}

// DecodeOptions controls DecodeToWAV.
type DecodeOptions struct {
	// Engine decodes the packets; nil selects the pure Go engine.
	Engine stream.Synthesizer
	// BitDepth of the WAV samples, 16 when zero.
	BitDepth int
	// Channels and SampleRate convert the output when non-zero.
	Channels   int
	SampleRate int
	Logger     *slog.Logger
}

// DecodeToWAV decodes the Ogg Vorbis stream in r into a WAV file and
// returns the number of frames written.
func DecodeToWAV(ctx context.Context, r io.Reader, w io.WriteSeeker, opts DecodeOptions) (int64, error) {
	src, err := vorbis.Decoder{Engine: opts.Engine, Logger: opts.Logger}.Open(ctx, r)
	if err != nil {
		return 0, err
	}

	var out audio.Source = src
	if opts.Channels > 0 || opts.SampleRate > 0 {
		channels, rate := src.Channels(), src.SampleRate()
		if opts.Channels > 0 {
			channels = opts.Channels
		}
		if opts.SampleRate > 0 {
			rate = opts.SampleRate
		}
		if out, err = audio.Conform(src, channels, rate); err != nil {
			return 0, errors.Join(err, src.Close())
		}
	}

	bitDepth := opts.BitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}

	frames, err := wav.WriteSource(w, out, bitDepth)
	if cerr := out.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("closing decoder: %w", cerr))
	}
	return frames, err
}
