// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/ik5/vorbispipe/pcm"
)

type encoderState int

const (
	encConfiguring encoderState = iota
	encStreaming
	encFinished
	encFailed
	encClosed
)

// Encoder turns interleaved float32 PCM into codec packets carrying page
// placement hints.
type Encoder struct {
	an  Analyzer
	log *slog.Logger

	state   encoderState
	err     error
	quality float32
	format  pcm.Format

	info     StreamInfo
	comments CommentTable
	header   bool

	dsp DSPState
	blk Block
}

// NewEncoder returns an encoder for the default format (stereo 44.1kHz
// float32) unless WithFormat says otherwise.
func NewEncoder(a Analyzer, opts ...EncoderOption) (*Encoder, error) {
	cfg := encoderConfig{
		quality: DefaultQuality,
		logger:  discardLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if !ValidQuality(cfg.quality) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidQuality, cfg.quality)
	}

	format := pcm.DefaultFormat()
	if cfg.format != nil {
		f, err := pcm.Negotiate(format, *cfg.format)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		format = f
	}

	return &Encoder{
		an:      a,
		log:     cfg.logger,
		quality: cfg.quality,
		format:  format,
	}, nil
}

// ValidQuality reports whether q is an accepted VBR quality.
func ValidQuality(q float32) bool {
	if math.IsNaN(float64(q)) {
		return false
	}
	return q >= MinQuality && q <= MaxQuality
}

// Format returns the negotiated PCM format.
func (e *Encoder) Format() pcm.Format { return e.format }

// Quality returns the VBR quality the encoder was built with.
func (e *Encoder) Quality() float32 { return e.quality }

// HeaderWritten reports whether the header packets were produced.
func (e *Encoder) HeaderWritten() bool { return e.header }

// Comments returns a copy of the comment table.
func (e *Encoder) Comments() CommentTable { return e.comments.Clone() }

// Info returns the stream info filled by the engine, valid once the header
// packets were produced.
func (e *Encoder) Info() (StreamInfo, bool) {
	if !e.header {
		return StreamInfo{}, false
	}
	return e.info.public(), true
}

// Err returns the terminal error, if any.
func (e *Encoder) Err() error { return e.err }

func (e *Encoder) fail(err error) error {
	e.state = encFailed
	e.err = err
	e.log.Debug("encoder failed", "error", err)
	return err
}

func (e *Encoder) usable() error {
	switch e.state {
	case encClosed:
		return ErrClosed
	case encFailed:
		return e.err
	}
	return nil
}

func (e *Encoder) checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return e.fail(fmt.Errorf("vorbis: encoder: %w", err))
	}
	return nil
}

// SetFormat renegotiates the PCM format. A rejected option keeps the prior
// format and fails the encoder. Once the header packets exist a change of
// channel count or rate fails it too.
func (e *Encoder) SetFormat(opts pcm.Options) error {
	if err := e.usable(); err != nil {
		return err
	}

	next, err := pcm.Negotiate(e.format, opts)
	if err != nil {
		return e.fail(fmt.Errorf("%w: %w", ErrConfiguration, err))
	}

	if e.header && (next.Channels != e.format.Channels || next.SampleRate != e.format.SampleRate) {
		return e.fail(fmt.Errorf("%w: have %s, asked for %s", ErrFormatLocked, e.format, next))
	}

	e.log.Debug("format negotiated", "format", next.String())
	e.format = next
	return nil
}

// AddComment appends a KEY=value comment. It must be called before the
// header packets are produced.
func (e *Encoder) AddComment(key, value string) error {
	if err := e.usable(); err != nil {
		return err
	}
	if e.header {
		return fmt.Errorf("%w: cannot add %q", ErrHeaderAlreadyWritten, key)
	}
	e.comments.Add(key, value)
	return nil
}

// WriteHeader initialises the engine and returns the three header packets.
// It runs at most once; later calls return no events.
func (e *Encoder) WriteHeader(ctx context.Context) ([]Event, error) {
	if err := e.usable(); err != nil {
		return nil, err
	}
	if e.header {
		return nil, nil
	}

	e.log.Debug("encode init",
		"channels", e.format.Channels,
		"rate", e.format.SampleRate,
		"quality", e.quality)

	if err := e.checkCtx(ctx); err != nil {
		return nil, err
	}
	if code := e.an.EncodeInitVBR(ctx, &e.info, e.format.Channels, e.format.SampleRate, e.quality); code != 0 {
		return nil, e.fail(engineError(OpEncodeInit, code))
	}

	if err := e.checkCtx(ctx); err != nil {
		return nil, err
	}
	dsp, code := e.an.AnalysisInit(ctx, &e.info)
	if code != 0 {
		return nil, e.fail(engineError(OpAnalysisInit, code))
	}
	e.dsp = dsp

	if err := e.checkCtx(ctx); err != nil {
		return nil, err
	}
	blk, code := e.an.BlockInit(ctx, dsp)
	if code != 0 {
		return nil, e.fail(engineError(OpBlockInit, code))
	}
	e.blk = blk

	if err := e.checkCtx(ctx); err != nil {
		return nil, err
	}
	id, comment, setup, code := e.an.AnalysisHeaderOut(ctx, dsp, &e.comments)
	if code != 0 {
		return nil, e.fail(engineError(OpHeaderOut, code))
	}

	id = id.Clone()
	id.BOS = true
	id.OwnPage = true
	comment = comment.Clone()
	setup = setup.Clone()
	setup.Flush = true

	e.header = true
	e.state = encStreaming
	e.log.Debug("header packets written",
		"id", len(id.Data), "comment", len(comment.Data), "setup", len(setup.Data))

	return []Event{
		{Kind: EventPacket, Packet: id},
		{Kind: EventPacket, Packet: comment},
		{Kind: EventPacket, Packet: setup},
	}, nil
}

// Submit encodes buf, which must hold a whole number of frames in the
// negotiated format. The returned events hold the header packets on the
// first call followed by every packet the engine completed.
func (e *Encoder) Submit(ctx context.Context, buf []byte) ([]Event, error) {
	if err := e.usable(); err != nil {
		return nil, err
	}
	if e.state == encFinished {
		return nil, ErrFinished
	}

	frames, err := e.format.Frames(len(buf))
	if err != nil {
		return nil, e.fail(fmt.Errorf("%w: %d bytes, frame size %d",
			ErrFrameAlignment, len(buf), e.format.FrameSize()))
	}

	events, err := e.WriteHeader(ctx)
	if err != nil {
		return nil, err
	}

	if frames == 0 {
		return events, nil
	}

	e.log.Debug("analysis write", "frames", frames)
	if err := e.checkCtx(ctx); err != nil {
		return nil, err
	}
	if code := e.an.AnalysisWrite(ctx, e.dsp, buf, e.format.Channels, frames); code != 0 {
		return nil, e.fail(engineError(OpAnalysisWrite, code))
	}

	return e.drain(ctx, events)
}

// Finish marks the end of input, drains the engine and ends the stream.
// Calling it again returns EventStreamEnd without touching the engine.
func (e *Encoder) Finish(ctx context.Context) ([]Event, error) {
	if err := e.usable(); err != nil {
		return nil, err
	}
	if e.state == encFinished {
		return []Event{{Kind: EventStreamEnd}}, nil
	}

	events, err := e.WriteHeader(ctx)
	if err != nil {
		return nil, err
	}

	e.log.Debug("analysis eos")
	if err := e.checkCtx(ctx); err != nil {
		return nil, err
	}
	if code := e.an.AnalysisEOS(ctx, e.dsp); code != 0 {
		return nil, e.fail(engineError(OpAnalysisEOS, code))
	}

	events, err = e.drain(ctx, events)
	if err != nil {
		return nil, err
	}

	e.state = encFinished
	return append(events, Event{Kind: EventStreamEnd}), nil
}

// drain pulls every available block out of the engine and every packet out
// of each block.
func (e *Encoder) drain(ctx context.Context, events []Event) ([]Event, error) {
	for {
		if err := e.checkCtx(ctx); err != nil {
			return nil, err
		}
		code := e.an.AnalysisBlockout(ctx, e.dsp, e.blk)
		if code < 0 {
			return nil, e.fail(engineError(OpBlockout, code))
		}
		if code == 0 {
			return events, nil
		}

		if code := e.an.Analysis(ctx, e.blk); code != 0 {
			return nil, e.fail(engineError(OpAnalysis, code))
		}
		if code := e.an.BitrateAddBlock(ctx, e.blk); code != 0 {
			return nil, e.fail(engineError(OpBitrateAddBlock, code))
		}

		for {
			if err := e.checkCtx(ctx); err != nil {
				return nil, err
			}
			pkt, code := e.an.BitrateFlushPacket(ctx, e.dsp)
			if code < 0 {
				return nil, e.fail(engineError(OpFlushPacket, code))
			}
			if code == 0 {
				break
			}

			pkt = pkt.Clone()
			pkt.PageOut = true
			e.log.Debug("packet", "seq", pkt.Seq, "granule", pkt.GranulePos, "bytes", len(pkt.Data), "eos", pkt.EOS)
			events = append(events, Event{Kind: EventPacket, Packet: pkt})
		}
	}
}

// Close releases the engine resources. It is safe to call more than once.
func (e *Encoder) Close() error {
	if e.state == encClosed {
		return nil
	}
	e.state = encClosed

	var errs []error
	if e.blk != nil {
		errs = append(errs, e.blk.Close())
		e.blk = nil
	}
	if e.dsp != nil {
		errs = append(errs, e.dsp.Close())
		e.dsp = nil
	}
	e.an.ClearInfo(&e.info, &e.comments)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("vorbis: encoder close: %w", err)
	}
	return nil
}
