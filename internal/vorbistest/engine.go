// SPDX-License-Identifier: EPL-2.0

package vorbistest

import (
	"context"
	"encoding/binary"

	"github.com/ik5/vorbispipe/stream"
)

// Bookkeeping operations recorded next to the engine primitives.
const (
	OpDSPClose   stream.Op = "dsp_close"
	OpBlockClose stream.Op = "block_close"
	OpClearInfo  stream.Op = "clear_info"
)

// DefaultBlockFrames is the number of frames per encoded packet.
const DefaultBlockFrames = 256

// Vendor is the vendor string written by the engine.
const Vendor = "vorbistest identity engine"

type failure struct {
	after int
	code  int
}

// Engine is an identity stream.Engine. The zero value is not usable, call
// NewEngine.
type Engine struct {
	// BlockFrames is the number of frames per encoded packet.
	BlockFrames int

	calls    []stream.Op
	failures map[stream.Op]failure
}

var _ stream.Engine = (*Engine)(nil)

// NewEngine returns an engine with DefaultBlockFrames.
func NewEngine() *Engine {
	return &Engine{
		BlockFrames: DefaultBlockFrames,
		failures:    make(map[stream.Op]failure),
	}
}

// Version implements stream.Versioner.
func (e *Engine) Version() string { return "vorbistest 1.0" }

// Fail makes every call of op return code.
func (e *Engine) Fail(op stream.Op, code int) { e.FailAfter(op, 0, code) }

// FailAfter lets n calls of op succeed, then returns code from every
// later call.
func (e *Engine) FailAfter(op stream.Op, n, code int) {
	e.failures[op] = failure{after: n, code: code}
}

// Calls returns every recorded call in order.
func (e *Engine) Calls() []stream.Op {
	return append([]stream.Op(nil), e.calls...)
}

// Count returns how many times op was called.
func (e *Engine) Count(op stream.Op) int {
	n := 0
	for _, c := range e.calls {
		if c == op {
			n++
		}
	}
	return n
}

// Reset forgets the recorded calls.
func (e *Engine) Reset() { e.calls = nil }

// call records op and returns the injected failure code, or 0.
func (e *Engine) call(op stream.Op) int {
	e.calls = append(e.calls, op)
	f, ok := e.failures[op]
	if !ok || e.Count(op) <= f.after {
		return 0
	}
	return f.code
}

type streamState struct {
	headers int
}

// DSP is the engine state of one stream.
type DSP struct {
	engine   *Engine
	channels int
	rate     int

	// decode
	pcm []byte

	// encode
	input   []byte
	eos     bool
	eosSent bool
	queue   []stream.Packet
	seq     int64
	granule int64
}

func (d *DSP) Close() error {
	d.engine.calls = append(d.engine.calls, OpDSPClose)
	return nil
}

// Block holds one packet worth of data.
type Block struct {
	engine *Engine
	dsp    *DSP
	data   []byte
	frames int
	eos    bool
}

func (b *Block) Close() error {
	b.engine.calls = append(b.engine.calls, OpBlockClose)
	return nil
}

func streamOf(info *stream.StreamInfo) *streamState {
	st, ok := info.Engine.(*streamState)
	if !ok {
		st = &streamState{}
		info.Engine = st
	}
	return st
}

// HeaderIn implements stream.Synthesizer.
func (e *Engine) HeaderIn(_ context.Context, info *stream.StreamInfo, comments *stream.CommentTable, pkt *stream.Packet) int {
	if code := e.call(stream.OpHeaderIn); code != 0 {
		return code
	}

	typ, ok := headerType(pkt)
	if !ok {
		return stream.CodeNotVorbis
	}

	st := streamOf(info)
	switch st.headers {
	case 0:
		if typ != typeID {
			return stream.CodeNotVorbis
		}
		body := pkt.Data[1+len(magic):]
		if len(body) < 5 {
			return stream.CodeBadHeader
		}
		info.Channels = int(body[0])
		info.SampleRate = int(binary.LittleEndian.Uint32(body[1:]))
		if info.Channels == 0 || info.SampleRate == 0 {
			return stream.CodeBadHeader
		}
		info.BlockSizes = [2]int{e.BlockFrames, e.BlockFrames}
	case 1:
		if typ != typeComment {
			return stream.CodeBadHeader
		}
		c, err := parseComments(pkt.Data[1+len(magic):])
		if err != nil {
			return stream.CodeBadHeader
		}
		*comments = c
	case 2:
		if typ != typeSetup {
			return stream.CodeBadHeader
		}
	default:
		return stream.CodeBadHeader
	}

	st.headers++
	return 0
}

// SynthesisInit implements stream.Synthesizer.
func (e *Engine) SynthesisInit(_ context.Context, info *stream.StreamInfo) (stream.DSPState, int) {
	if code := e.call(stream.OpSynthesisInit); code != 0 {
		return nil, code
	}
	if streamOf(info).headers != stream.HeaderPackets {
		return nil, stream.CodeInval
	}
	return &DSP{engine: e, channels: info.Channels}, 0
}

// BlockInit implements stream.Synthesizer and stream.Analyzer.
func (e *Engine) BlockInit(_ context.Context, dsp stream.DSPState) (stream.Block, int) {
	if code := e.call(stream.OpBlockInit); code != 0 {
		return nil, code
	}
	d, ok := dsp.(*DSP)
	if !ok {
		return nil, stream.CodeFault
	}
	return &Block{engine: e, dsp: d}, 0
}

// Synthesis implements stream.Synthesizer.
func (e *Engine) Synthesis(_ context.Context, blk stream.Block, pkt *stream.Packet) int {
	if code := e.call(stream.OpSynthesis); code != 0 {
		return code
	}
	b := blk.(*Block)
	if len(pkt.Data)%(b.dsp.channels*4) != 0 {
		return stream.CodeBadPacket
	}
	b.data = append(b.data[:0], pkt.Data...)
	return 0
}

// SynthesisBlockin implements stream.Synthesizer.
func (e *Engine) SynthesisBlockin(_ context.Context, dsp stream.DSPState, blk stream.Block) int {
	if code := e.call(stream.OpBlockin); code != 0 {
		return code
	}
	d, b := dsp.(*DSP), blk.(*Block)
	d.pcm = append(d.pcm, b.data...)
	b.data = b.data[:0]
	return 0
}

// SynthesisPCMOut implements stream.Synthesizer.
func (e *Engine) SynthesisPCMOut(_ context.Context, dsp stream.DSPState, channels, maxFrames int) ([]byte, int) {
	if code := e.call(stream.OpPCMOut); code != 0 {
		return nil, code
	}
	d := dsp.(*DSP)
	frameSize := channels * 4
	frames := len(d.pcm) / frameSize
	if maxFrames > 0 && frames > maxFrames {
		frames = maxFrames
	}
	if frames == 0 {
		return nil, 0
	}
	out := append([]byte(nil), d.pcm[:frames*frameSize]...)
	d.pcm = d.pcm[frames*frameSize:]
	return out, frames
}

// ClearInfo implements stream.Synthesizer and stream.Analyzer.
func (e *Engine) ClearInfo(info *stream.StreamInfo, comments *stream.CommentTable) {
	e.calls = append(e.calls, OpClearInfo)
	*info = stream.StreamInfo{}
	*comments = stream.CommentTable{}
}

// EncodeInitVBR implements stream.Analyzer.
func (e *Engine) EncodeInitVBR(_ context.Context, info *stream.StreamInfo, channels, sampleRate int, quality float32) int {
	if code := e.call(stream.OpEncodeInit); code != 0 {
		return code
	}
	if channels <= 0 || channels > 255 || sampleRate <= 0 || !stream.ValidQuality(quality) {
		return stream.CodeInval
	}
	info.Version = 0
	info.Channels = channels
	info.SampleRate = sampleRate
	info.BitrateNominal = int(float32(sampleRate*channels*32) * (quality + 0.1) / 1.1)
	info.BlockSizes = [2]int{e.BlockFrames, e.BlockFrames}
	streamOf(info).headers = stream.HeaderPackets
	return 0
}

// AnalysisInit implements stream.Analyzer.
func (e *Engine) AnalysisInit(_ context.Context, info *stream.StreamInfo) (stream.DSPState, int) {
	if code := e.call(stream.OpAnalysisInit); code != 0 {
		return nil, code
	}
	if info.Channels <= 0 {
		return nil, stream.CodeInval
	}
	return &DSP{engine: e, channels: info.Channels, rate: info.SampleRate, seq: stream.HeaderPackets}, 0
}

// AnalysisHeaderOut implements stream.Analyzer.
func (e *Engine) AnalysisHeaderOut(_ context.Context, dsp stream.DSPState, comments *stream.CommentTable) (id, comment, setup stream.Packet, code int) {
	if code := e.call(stream.OpHeaderOut); code != 0 {
		return id, comment, setup, code
	}
	d := dsp.(*DSP)
	c := comments.Clone()
	c.Vendor = Vendor
	return IDHeader(d.channels, d.rate), CommentHeader(c), SetupHeader(), 0
}

// AnalysisWrite implements stream.Analyzer.
func (e *Engine) AnalysisWrite(_ context.Context, dsp stream.DSPState, buf []byte, channels, frames int) int {
	if code := e.call(stream.OpAnalysisWrite); code != 0 {
		return code
	}
	d := dsp.(*DSP)
	if d.eos || len(buf) != channels*frames*4 {
		return stream.CodeInval
	}
	d.input = append(d.input, buf...)
	return 0
}

// AnalysisEOS implements stream.Analyzer.
func (e *Engine) AnalysisEOS(_ context.Context, dsp stream.DSPState) int {
	if code := e.call(stream.OpAnalysisEOS); code != 0 {
		return code
	}
	dsp.(*DSP).eos = true
	return 0
}

// AnalysisBlockout implements stream.Analyzer.
func (e *Engine) AnalysisBlockout(_ context.Context, dsp stream.DSPState, blk stream.Block) int {
	if code := e.call(stream.OpBlockout); code != 0 {
		return code
	}
	d, b := dsp.(*DSP), blk.(*Block)
	frameSize := d.channels * 4
	buffered := len(d.input) / frameSize

	switch {
	case buffered >= e.BlockFrames && !(d.eos && buffered == e.BlockFrames):
		b.frames = e.BlockFrames
	case d.eos && !d.eosSent:
		b.frames = buffered
		b.eos = true
		d.eosSent = true
	default:
		return 0
	}

	n := b.frames * frameSize
	b.data = append(b.data[:0], d.input[:n]...)
	d.input = d.input[n:]
	return 1
}

// Analysis implements stream.Analyzer.
func (e *Engine) Analysis(_ context.Context, _ stream.Block) int {
	return e.call(stream.OpAnalysis)
}

// BitrateAddBlock implements stream.Analyzer.
func (e *Engine) BitrateAddBlock(_ context.Context, blk stream.Block) int {
	if code := e.call(stream.OpBitrateAddBlock); code != 0 {
		return code
	}
	b := blk.(*Block)
	d := b.dsp
	d.granule += int64(b.frames)
	d.queue = append(d.queue, stream.Packet{
		Data:       append([]byte(nil), b.data...),
		Seq:        d.seq,
		GranulePos: d.granule,
		EOS:        b.eos,
	})
	d.seq++
	b.data, b.frames, b.eos = b.data[:0], 0, false
	return 0
}

// BitrateFlushPacket implements stream.Analyzer.
func (e *Engine) BitrateFlushPacket(_ context.Context, dsp stream.DSPState) (stream.Packet, int) {
	if code := e.call(stream.OpFlushPacket); code != 0 {
		return stream.Packet{}, code
	}
	d := dsp.(*DSP)
	if len(d.queue) == 0 {
		return stream.Packet{}, 0
	}
	pkt := d.queue[0]
	d.queue = d.queue[1:]
	return pkt, 1
}
