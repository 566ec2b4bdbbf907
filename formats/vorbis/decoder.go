// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/vorbispipe/audio"
	"github.com/ik5/vorbispipe/container/ogg"
	"github.com/ik5/vorbispipe/engine/native"
	"github.com/ik5/vorbispipe/pcm"
	"github.com/ik5/vorbispipe/stream"
)

// Decoder opens Ogg Vorbis streams. The zero value decodes with the pure
// Go engine and logs nothing.
type Decoder struct {
	Engine stream.Synthesizer
	Logger *slog.Logger
}

func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	src, err := d.Open(context.Background(), r)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Open reads the header packets of the first logical stream in r. ctx
// bounds every later read of the returned Source.
func (d Decoder) Open(ctx context.Context, r io.Reader) (*Source, error) {
	engine := d.Engine
	if engine == nil {
		engine = native.New(native.WithLogger(d.Logger))
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Source{
		ctx:    ctx,
		pr:     ogg.NewPacketReader(r, ogg.WithReaderLogger(logger)),
		dec:    stream.NewDecoder(engine, stream.WithDecoderLogger(logger)),
		engine: engine,
	}

	for !s.dec.Ready() {
		pkt, err := s.pr.ReadPacket()
		if errors.Is(err, io.EOF) {
			s.dec.Close()
			return nil, ErrNoHeaders
		}
		if err != nil {
			s.dec.Close()
			return nil, fmt.Errorf("vorbis: %w", err)
		}
		if _, err := s.dec.Ingest(ctx, pkt); err != nil {
			s.dec.Close()
			return nil, err
		}
	}

	s.info, _ = s.dec.Info()
	s.comments, _ = s.dec.Comments()
	return s, nil
}

// Source is an audio.Source over a decoding Vorbis stream.
type Source struct {
	ctx      context.Context
	pr       *ogg.PacketReader
	dec      *stream.Decoder
	engine   stream.Synthesizer
	info     stream.StreamInfo
	comments stream.CommentTable
	frames   int64
	eof      bool
}

var _ audio.Source = (*Source)(nil)

func (s *Source) SampleRate() int { return s.info.SampleRate }
func (s *Source) Channels() int   { return s.info.Channels }

// BufSize is one long block of every channel.
func (s *Source) BufSize() int {
	if n := s.info.BlockSizes[1]; n > 0 {
		return n * s.info.Channels
	}
	return 4096
}

// Info returns the stream parameters.
func (s *Source) Info() stream.StreamInfo { return s.info }

// Format is the PCM layout ReadSamples produces.
func (s *Source) Format() pcm.Format { return s.info.Format() }

// Vendor is the encoder vendor string.
func (s *Source) Vendor() string { return s.comments.Vendor }

// Comments returns a copy of the user comments.
func (s *Source) Comments() stream.CommentTable { return s.comments.Clone() }

// Serial is the Ogg serial number of the stream being decoded.
func (s *Source) Serial() uint32 { return s.pr.Serial() }

// Position is the number of frames returned so far.
func (s *Source) Position() int64 { return s.frames }

// EngineVersion describes the codec engine.
func (s *Source) EngineVersion() string { return stream.EngineVersion(s.engine) }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}
	ch := s.info.Channels
	maxFrames := len(dst) / ch
	if maxFrames == 0 {
		return 0, audio.ErrInvalidDstSize
	}

	for {
		ev, err := s.dec.Drain(s.ctx, maxFrames)
		if err != nil {
			return 0, err
		}

		switch ev.Kind {
		case stream.EventPCM:
			n := pcm.BytesToFloat32(dst, ev.Block.Data)
			s.frames += int64(n / ch)
			return n, nil

		case stream.EventStreamEnd:
			s.eof = true
			return 0, io.EOF

		case stream.EventNeedInput:
			pkt, err := s.pr.ReadPacket()
			if errors.Is(err, io.EOF) {
				s.eof = true
				return 0, io.EOF
			}
			if err != nil {
				return 0, fmt.Errorf("vorbis: %w", err)
			}
			if _, err := s.dec.Ingest(s.ctx, pkt); err != nil {
				return 0, err
			}
		}
	}
}

// Close releases the codec state. It does not close the input.
func (s *Source) Close() error {
	return s.dec.Close()
}
