// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts go-audio integer PCM decoders to audio.Source.
package intpcm

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/vorbispipe/audio"
	"github.com/ik5/vorbispipe/utils"
)

// DefaultBufSize is the read size, in samples, reported by BufSize.
const DefaultBufSize = 4096

// Reader is the part of the go-audio wav and aiff decoders a Source needs.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source reads integer samples from a Reader and scales them to float32.
type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	bitDepth   int
	// bias is subtracted from every raw value, 128 for unsigned 8-bit.
	bias   int
	intBuf *goaudio.IntBuffer
	closer io.Closer
	eof    bool
}

var _ audio.Source = (*Source)(nil)

// New returns a Source. bias is subtracted from raw values before scaling.
func New(dec Reader, bitDepth, bias int) (*Source, error) {
	f := dec.Format()
	if f == nil || f.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: no channel layout", audio.ErrInvalidChannels)
	}
	if f.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidRate, f.SampleRate)
	}
	return &Source{
		dec:        dec,
		sampleRate: f.SampleRate,
		channels:   f.NumChannels,
		bitDepth:   bitDepth,
		bias:       bias,
	}, nil
}

// CloseWith makes Close close c.
func (s *Source) CloseWith(c io.Closer) *Source {
	s.closer = c
	return s
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BitDepth() int   { return s.bitDepth }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return DefaultBufSize
}

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, audio.ErrInvalidDstSize
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < want {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, want),
			Format:         s.dec.Format(),
			SourceBitDepth: s.bitDepth,
		}
	}
	s.intBuf.Data = s.intBuf.Data[:want]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("reading pcm: %w", err)
	}
	n -= n % s.channels

	for i, v := range s.intBuf.Data[:n] {
		dst[i] = utils.IntToFloat32(v-s.bias, s.bitDepth)
	}

	// Decoders report the end as a short read, with or without io.EOF.
	if n < want || err != nil {
		s.eof = true
		if n == 0 {
			return 0, io.EOF
		}
		return n, io.EOF
	}
	return n, nil
}
