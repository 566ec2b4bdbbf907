// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type decoderState int

const (
	decAwaitingHeader decoderState = iota
	decReady
	decFailed
	decClosed
)

// Decoder turns codec packets into PCM blocks.
type Decoder struct {
	synth Synthesizer
	log   *slog.Logger

	state       decoderState
	err         error
	headersLeft int

	info     StreamInfo
	comments CommentTable

	dsp DSPState
	blk Block

	// blockin is set while the integrated block may still hold PCM.
	blockin bool
	pending []Packet
	lastEOS bool
	ended   bool
}

// NewDecoder returns a decoder awaiting the three header packets.
func NewDecoder(s Synthesizer, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		synth:       s,
		log:         discardLogger(),
		headersLeft: HeaderPackets,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Ready reports whether all header packets were parsed.
func (d *Decoder) Ready() bool { return d.state == decReady }

// Info returns the stream info once the headers were parsed.
func (d *Decoder) Info() (StreamInfo, bool) {
	if d.headersLeft > 0 {
		return StreamInfo{}, false
	}
	return d.info.public(), true
}

// Comments returns the comment table once the headers were parsed.
func (d *Decoder) Comments() (CommentTable, bool) {
	if d.headersLeft > 0 {
		return CommentTable{}, false
	}
	return d.comments.Clone(), true
}

// Err returns the terminal error, if any.
func (d *Decoder) Err() error { return d.err }

// Pending is the number of packets queued behind the current block.
func (d *Decoder) Pending() int { return len(d.pending) }

func (d *Decoder) usable(ctx context.Context) error {
	switch d.state {
	case decClosed:
		return ErrClosed
	case decFailed:
		return d.err
	}
	if err := ctx.Err(); err != nil {
		return d.fail(fmt.Errorf("vorbis: decoder: %w", err))
	}
	return nil
}

func (d *Decoder) fail(err error) error {
	d.state = decFailed
	d.err = err
	d.log.Debug("decoder failed", "error", err)
	return err
}

// Ingest accepts the next packet in arrival order.
//
// The first three packets must be the header packets; after the third the
// returned events are EventFormat followed by EventComments. Later packets
// are integrated immediately (EventBlockReady) or, while the previous block
// still holds PCM, queued for a later Drain (EventQueued).
func (d *Decoder) Ingest(ctx context.Context, pkt Packet) ([]Event, error) {
	if err := d.usable(ctx); err != nil {
		return nil, err
	}

	if d.state == decAwaitingHeader {
		return d.headerIn(ctx, &pkt)
	}

	d.lastEOS = pkt.EOS
	if d.blockin {
		d.log.Debug("block not drained, queueing packet", "seq", pkt.Seq, "pending", len(d.pending)+1)
		d.pending = append(d.pending, pkt.Clone())
		return []Event{{Kind: EventQueued}}, nil
	}

	if err := d.integrate(ctx, &pkt); err != nil {
		return nil, err
	}
	return []Event{{Kind: EventBlockReady}}, nil
}

func (d *Decoder) headerIn(ctx context.Context, pkt *Packet) ([]Event, error) {
	d.log.Debug("headerin", "seq", pkt.Seq, "remaining", d.headersLeft)

	if code := d.synth.HeaderIn(ctx, &d.info, &d.comments, pkt); code != 0 {
		return nil, d.fail(engineError(OpHeaderIn, code))
	}

	d.headersLeft--
	if d.headersLeft > 0 {
		return []Event{{Kind: EventHeaderProgress, HeadersLeft: d.headersLeft}}, nil
	}

	d.log.Debug("header parsed",
		"channels", d.info.Channels,
		"rate", d.info.SampleRate,
		"vendor", d.comments.Vendor,
		"comments", len(d.comments.Comments))

	if err := ctx.Err(); err != nil {
		return nil, d.fail(fmt.Errorf("vorbis: decoder: %w", err))
	}
	dsp, code := d.synth.SynthesisInit(ctx, &d.info)
	if code != 0 {
		return nil, d.fail(engineError(OpSynthesisInit, code))
	}
	d.dsp = dsp

	if err := ctx.Err(); err != nil {
		return nil, d.fail(fmt.Errorf("vorbis: decoder: %w", err))
	}
	blk, code := d.synth.BlockInit(ctx, dsp)
	if code != 0 {
		return nil, d.fail(engineError(OpBlockInit, code))
	}
	d.blk = blk
	d.state = decReady

	return []Event{
		{Kind: EventFormat, Info: d.info.public()},
		{Kind: EventComments, Comments: d.comments.Clone()},
	}, nil
}

func (d *Decoder) integrate(ctx context.Context, pkt *Packet) error {
	d.log.Debug("synthesis", "seq", pkt.Seq, "bytes", len(pkt.Data), "eos", pkt.EOS)

	if code := d.synth.Synthesis(ctx, d.blk, pkt); code != 0 {
		return d.fail(engineError(OpSynthesis, code))
	}
	if err := ctx.Err(); err != nil {
		return d.fail(fmt.Errorf("vorbis: decoder: %w", err))
	}
	if code := d.synth.SynthesisBlockin(ctx, d.dsp, d.blk); code != 0 {
		return d.fail(engineError(OpBlockin, code))
	}

	d.blockin = true
	return nil
}

// Drain pulls at most maxFrames frames of decoded PCM (no limit when
// maxFrames <= 0).
//
// It returns EventPCM with a non-empty block, EventNeedInput when another
// packet must be ingested first, or EventStreamEnd once the end-of-stream
// packet has been fully drained. Queued packets are integrated here as the
// current block runs dry.
func (d *Decoder) Drain(ctx context.Context, maxFrames int) (Event, error) {
	if err := d.usable(ctx); err != nil {
		return Event{}, err
	}
	if d.state != decReady {
		return Event{}, ErrNotReady
	}
	if d.ended {
		return Event{Kind: EventStreamEnd}, nil
	}

	for {
		if !d.blockin {
			if len(d.pending) == 0 {
				if d.lastEOS {
					d.log.Debug("end of stream")
					d.ended = true
					return Event{Kind: EventStreamEnd}, nil
				}
				return Event{Kind: EventNeedInput}, nil
			}

			next := d.pending[0]
			d.pending[0] = Packet{}
			d.pending = d.pending[1:]
			if err := d.integrate(ctx, &next); err != nil {
				return Event{}, err
			}
		}

		if err := ctx.Err(); err != nil {
			return Event{}, d.fail(fmt.Errorf("vorbis: decoder: %w", err))
		}

		data, n := d.synth.SynthesisPCMOut(ctx, d.dsp, d.info.Channels, maxFrames)
		switch {
		case n > 0:
			return Event{Kind: EventPCM, Block: PCMBlock{Data: data, Channels: d.info.Channels}}, nil
		case n == 0:
			d.log.Debug("block drained", "pending", len(d.pending))
			d.blockin = false
		default:
			return Event{}, d.fail(engineError(OpPCMOut, n))
		}
	}
}

// Close releases the engine resources. It is safe to call more than once.
func (d *Decoder) Close() error {
	if d.state == decClosed {
		return nil
	}
	d.state = decClosed
	d.pending = nil

	var errs []error
	if d.blk != nil {
		errs = append(errs, d.blk.Close())
		d.blk = nil
	}
	if d.dsp != nil {
		errs = append(errs, d.dsp.Close())
		d.dsp = nil
	}
	d.synth.ClearInfo(&d.info, &d.comments)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("vorbis: decoder close: %w", err)
	}
	return nil
}
