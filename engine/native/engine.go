// SPDX-License-Identifier: EPL-2.0

package native

import (
	"context"
	"log/slog"

	"github.com/jfreymuth/vorbis"

	"github.com/ik5/vorbispipe/pcm"
	"github.com/ik5/vorbispipe/stream"
)

// Engine decodes Vorbis packets in pure Go.
type Engine struct {
	log *slog.Logger
}

var _ stream.Synthesizer = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report library errors that are
// reduced to return codes.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New returns a decode engine.
func New(opts ...Option) *Engine {
	e := &Engine{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Version implements stream.Versioner.
func (e *Engine) Version() string { return "jfreymuth/vorbis (pure Go)" }

// streamState lives in StreamInfo.Engine until ClearInfo.
type streamState struct {
	dec     *vorbis.Decoder
	headers int
}

func stateOf(info *stream.StreamInfo) *streamState {
	st, ok := info.Engine.(*streamState)
	if !ok {
		st = &streamState{dec: new(vorbis.Decoder)}
		info.Engine = st
	}
	return st
}

type dspState struct {
	dec     *vorbis.Decoder
	pending []float32
	closed  bool
}

func (d *dspState) Close() error {
	d.closed = true
	d.pending = nil
	return nil
}

type block struct {
	dsp     *dspState
	samples []float32
}

func (b *block) Close() error {
	b.samples = nil
	return nil
}

// HeaderIn implements stream.Synthesizer.
func (e *Engine) HeaderIn(_ context.Context, info *stream.StreamInfo, comments *stream.CommentTable, pkt *stream.Packet) int {
	typ, ok := headerType(pkt.Data)
	if !ok {
		return stream.CodeNotVorbis
	}

	st := stateOf(info)
	want := [...]byte{packetID, packetComment, packetSetup}
	if st.headers >= len(want) {
		return stream.CodeBadHeader
	}
	if typ != want[st.headers] {
		if st.headers == 0 {
			return stream.CodeNotVorbis
		}
		return stream.CodeBadHeader
	}

	var blocks [2]int
	switch typ {
	case packetID:
		version, bs, err := idPrivate(pkt.Data)
		if err != nil {
			return stream.CodeBadHeader
		}
		if version != 0 {
			return stream.CodeVersion
		}
		blocks = bs
	case packetComment:
		if err := checkComments(pkt.Data); err != nil {
			return stream.CodeBadHeader
		}
	}

	if err := st.dec.ReadHeader(pkt.Data); err != nil {
		e.log.Debug("read header", "type", typ, "error", err)
		return stream.CodeBadHeader
	}

	switch typ {
	case packetID:
		info.Version = 0
		info.Channels = st.dec.Channels()
		info.SampleRate = st.dec.SampleRate()
		// The library reads the bitrates unsigned, -1 means unset.
		info.BitrateUpper = int(int32(st.dec.Bitrate.Maximum))
		info.BitrateNominal = int(int32(st.dec.Bitrate.Nominal))
		info.BitrateLower = int(int32(st.dec.Bitrate.Minimum))
		info.BlockSizes = blocks
	case packetComment:
		comments.Vendor = st.dec.Vendor
		comments.Comments = append([]string(nil), st.dec.Comments...)
	}

	st.headers++
	return 0
}

// SynthesisInit implements stream.Synthesizer.
func (e *Engine) SynthesisInit(_ context.Context, info *stream.StreamInfo) (stream.DSPState, int) {
	st, ok := info.Engine.(*streamState)
	if !ok || st.headers != stream.HeaderPackets || !st.dec.HeadersRead() {
		return nil, stream.CodeInval
	}
	return &dspState{dec: st.dec}, 0
}

// BlockInit implements stream.Synthesizer.
func (e *Engine) BlockInit(_ context.Context, dsp stream.DSPState) (stream.Block, int) {
	d, ok := dsp.(*dspState)
	if !ok || d.closed {
		return nil, stream.CodeFault
	}
	return &block{dsp: d}, 0
}

// Synthesis implements stream.Synthesizer.
func (e *Engine) Synthesis(_ context.Context, blk stream.Block, pkt *stream.Packet) int {
	b, ok := blk.(*block)
	if !ok {
		return stream.CodeFault
	}
	if len(pkt.Data) == 0 {
		// EOS pages may end with an empty packet.
		b.samples = b.samples[:0]
		return 0
	}
	if pkt.Data[0]&1 != 0 {
		return stream.CodeNotAudio
	}

	samples, err := b.dsp.dec.Decode(pkt.Data)
	if err != nil {
		e.log.Debug("decode packet", "seq", pkt.Seq, "error", err)
		return stream.CodeBadPacket
	}
	// Decode reuses its output buffer.
	b.samples = append(b.samples[:0], samples...)
	return 0
}

// SynthesisBlockin implements stream.Synthesizer.
func (e *Engine) SynthesisBlockin(_ context.Context, dsp stream.DSPState, blk stream.Block) int {
	d, ok := dsp.(*dspState)
	b, ok2 := blk.(*block)
	if !ok || !ok2 || d.closed {
		return stream.CodeFault
	}
	d.pending = append(d.pending, b.samples...)
	b.samples = b.samples[:0]
	return 0
}

// SynthesisPCMOut implements stream.Synthesizer.
func (e *Engine) SynthesisPCMOut(_ context.Context, dsp stream.DSPState, channels, maxFrames int) ([]byte, int) {
	d, ok := dsp.(*dspState)
	if !ok || d.closed || channels <= 0 {
		return nil, stream.CodeFault
	}

	frames := len(d.pending) / channels
	if maxFrames > 0 && frames > maxFrames {
		frames = maxFrames
	}
	if frames == 0 {
		d.pending = d.pending[:0]
		return nil, 0
	}

	n := frames * channels
	out := pcm.Float32ToBytes(nil, d.pending[:n])
	d.pending = append(d.pending[:0], d.pending[n:]...)
	return out, frames
}

// ClearInfo implements stream.Synthesizer.
func (e *Engine) ClearInfo(info *stream.StreamInfo, comments *stream.CommentTable) {
	*info = stream.StreamInfo{}
	*comments = stream.CommentTable{}
}
