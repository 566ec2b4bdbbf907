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
	"github.com/ik5/vorbispipe/pcm"
	"github.com/ik5/vorbispipe/stream"
)

type encodeConfig struct {
	quality  float32
	channels int
	rate     int
	comments [][2]string
	serial   *uint32
	fill     int
	logger   *slog.Logger
}

// EncodeOption configures Encode.
type EncodeOption func(*encodeConfig)

// WithQuality sets the VBR quality in [-0.1, 1.0].
func WithQuality(q float32) EncodeOption {
	return func(c *encodeConfig) { c.quality = q }
}

// WithLayout converts the input to channels and rate before encoding.
// Zero keeps the input value.
func WithLayout(channels, rate int) EncodeOption {
	return func(c *encodeConfig) {
		c.channels = channels
		c.rate = rate
	}
}

// WithComment adds a KEY=value user comment.
func WithComment(key, value string) EncodeOption {
	return func(c *encodeConfig) { c.comments = append(c.comments, [2]string{key, value}) }
}

// WithSerial fixes the Ogg serial number instead of picking a random one.
func WithSerial(serial uint32) EncodeOption {
	return func(c *encodeConfig) { c.serial = &serial }
}

// WithPageFill sets the body size at which audio pages are emitted.
func WithPageFill(n int) EncodeOption {
	return func(c *encodeConfig) { c.fill = n }
}

// WithLogger sets the logger passed to the encoder and the page writer.
func WithLogger(l *slog.Logger) EncodeOption {
	return func(c *encodeConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Stats summarises an Encode run.
type Stats struct {
	Format  pcm.Format
	Frames  int64
	Packets int
	Pages   int
	Serial  uint32
}

// Encode reads src to the end and writes it to w as one Ogg Vorbis
// stream encoded by a. src is not closed.
func Encode(ctx context.Context, src audio.Source, w io.Writer, a stream.Analyzer, opts ...EncodeOption) (st Stats, err error) {
	if a == nil {
		return st, ErrNoAnalyzer
	}

	cfg := encodeConfig{
		quality: stream.DefaultQuality,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	channels, rate := src.Channels(), src.SampleRate()
	if cfg.channels > 0 {
		channels = cfg.channels
	}
	if cfg.rate > 0 {
		rate = cfg.rate
	}
	in, err := audio.Conform(src, channels, rate)
	if err != nil {
		return st, fmt.Errorf("vorbis: %w", err)
	}

	enc, err := stream.NewEncoder(a,
		stream.WithQuality(cfg.quality),
		stream.WithFormat(pcm.Options{Channels: pcm.Int(channels), SampleRate: pcm.Int(rate)}),
		stream.WithEncoderLogger(cfg.logger))
	if err != nil {
		return st, err
	}
	defer func() {
		err = errors.Join(err, enc.Close())
	}()

	for _, kv := range cfg.comments {
		if err := enc.AddComment(kv[0], kv[1]); err != nil {
			return st, err
		}
	}

	wopts := []ogg.WriterOption{ogg.WithWriterLogger(cfg.logger)}
	if cfg.serial != nil {
		wopts = append(wopts, ogg.WithSerial(*cfg.serial))
	}
	if cfg.fill > 0 {
		wopts = append(wopts, ogg.WithPageFill(cfg.fill))
	}
	pw := ogg.NewPacketWriter(w, wopts...)

	st.Format = enc.Format()
	st.Serial = pw.Serial()

	emit := func(events []stream.Event) error {
		for _, ev := range events {
			if ev.Kind == stream.EventPacket {
				st.Packets++
			}
		}
		if err := pw.WriteEvents(events); err != nil {
			return fmt.Errorf("vorbis: %w", err)
		}
		return nil
	}

	events, err := enc.WriteHeader(ctx)
	if err != nil {
		return st, err
	}
	if err := emit(events); err != nil {
		return st, err
	}

	fr := audio.NewFloatReader(in)
	chunk := max(in.BufSize()/channels, 1024)
	buf := make([]byte, chunk*fr.FrameSize())

	for {
		n, rerr := fr.Read(buf)
		if n > 0 {
			events, err := enc.Submit(ctx, buf[:n])
			if err != nil {
				return st, err
			}
			if err := emit(events); err != nil {
				return st, err
			}
			st.Frames += int64(n / fr.FrameSize())
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return st, fmt.Errorf("vorbis: reading input: %w", rerr)
		}
	}

	events, err = enc.Finish(ctx)
	if err != nil {
		return st, err
	}
	if err := emit(events); err != nil {
		return st, err
	}
	if err := pw.Close(); err != nil {
		return st, fmt.Errorf("vorbis: %w", err)
	}
	st.Pages = pw.Pages()

	cfg.logger.Debug("encode finished",
		"frames", st.Frames, "packets", st.Packets, "pages", st.Pages, "serial", st.Serial)
	return st, nil
}
