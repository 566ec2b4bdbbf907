// SPDX-License-Identifier: EPL-2.0

//go:build cgo && libvorbis

package libvorbis

/*
#cgo pkg-config: vorbisenc vorbis ogg
#include <stdlib.h>
#include <string.h>
#include <vorbis/codec.h>
#include <vorbis/vorbisenc.h>

static ogg_packet *vp_packet_new(const void *data, long bytes, int bos, int eos,
                                 ogg_int64_t granule, ogg_int64_t packetno) {
	ogg_packet *op = calloc(1, sizeof(ogg_packet));
	if (op == NULL) {
		return NULL;
	}
	if (bytes > 0) {
		op->packet = malloc(bytes);
		if (op->packet == NULL) {
			free(op);
			return NULL;
		}
		memcpy(op->packet, data, bytes);
	}
	op->bytes = bytes;
	op->b_o_s = bos;
	op->e_o_s = eos;
	op->granulepos = granule;
	op->packetno = packetno;
	return op;
}

static void vp_packet_free(ogg_packet *op) {
	if (op != NULL) {
		free(op->packet);
		free(op);
	}
}

static char *vp_comment(vorbis_comment *vc, int i, int *len) {
	*len = vc->comment_lengths[i];
	return vc->user_comments[i];
}

static void vp_interleave(float **pcm, int channels, int frames, float *out) {
	for (int f = 0; f < frames; f++) {
		for (int c = 0; c < channels; c++) {
			out[f * channels + c] = pcm[c][f];
		}
	}
}

static int vp_write(vorbis_dsp_state *vd, const float *in, int channels, int frames) {
	float **buf = vorbis_analysis_buffer(vd, frames);
	if (buf == NULL) {
		return OV_EFAULT;
	}
	for (int f = 0; f < frames; f++) {
		for (int c = 0; c < channels; c++) {
			buf[c][f] = in[f * channels + c];
		}
	}
	return vorbis_analysis_wrote(vd, frames);
}
*/
import "C"

import (
	"context"
	"log/slog"
	"unsafe"

	"github.com/ik5/vorbispipe/stream"
)

// Engine calls into libvorbis. It holds no per-stream state and can serve
// any number of streams.
type Engine struct {
	log *slog.Logger
}

var _ stream.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for allocation failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New returns a libvorbis engine.
func New(opts ...Option) *Engine {
	e := &Engine{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Version reports the libvorbis version string.
func (e *Engine) Version() string {
	return C.GoString(C.vorbis_version_string())
}

// streamState is kept in StreamInfo.Engine.
type streamState struct {
	vi *C.vorbis_info
	vc *C.vorbis_comment
}

func stateOf(info *stream.StreamInfo) *streamState {
	if st, ok := info.Engine.(*streamState); ok {
		return st
	}
	st := &streamState{
		vi: (*C.vorbis_info)(C.calloc(1, C.sizeof_vorbis_info)),
		vc: (*C.vorbis_comment)(C.calloc(1, C.sizeof_vorbis_comment)),
	}
	C.vorbis_info_init(st.vi)
	C.vorbis_comment_init(st.vc)
	info.Engine = st
	return st
}

func (st *streamState) fill(info *stream.StreamInfo) {
	info.Version = int(st.vi.version)
	info.Channels = int(st.vi.channels)
	info.SampleRate = int(st.vi.rate)
	info.BitrateUpper = int(st.vi.bitrate_upper)
	info.BitrateNominal = int(st.vi.bitrate_nominal)
	info.BitrateLower = int(st.vi.bitrate_lower)
	if st.vi.codec_setup != nil {
		info.BlockSizes = [2]int{
			int(C.vorbis_info_blocksize(st.vi, 0)),
			int(C.vorbis_info_blocksize(st.vi, 1)),
		}
	}
}

func (st *streamState) comments(c *stream.CommentTable) {
	if st.vc.vendor != nil {
		c.Vendor = C.GoString(st.vc.vendor)
	}
	c.Comments = c.Comments[:0]
	for i := range int(st.vc.comments) {
		var n C.int
		p := C.vp_comment(st.vc, C.int(i), &n)
		c.Comments = append(c.Comments, C.GoStringN(p, n))
	}
}

type dspState struct {
	vd     *C.vorbis_dsp_state
	st     *streamState
	op     *C.ogg_packet
	closed bool
}

func (d *dspState) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	C.vorbis_dsp_clear(d.vd)
	C.free(unsafe.Pointer(d.vd))
	C.free(unsafe.Pointer(d.op))
	return nil
}

type block struct {
	vb     *C.vorbis_block
	closed bool
}

func (b *block) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	C.vorbis_block_clear(b.vb)
	C.free(unsafe.Pointer(b.vb))
	return nil
}

func newPacket(pkt *stream.Packet) *C.ogg_packet {
	var data unsafe.Pointer
	if len(pkt.Data) > 0 {
		data = unsafe.Pointer(&pkt.Data[0])
	}
	return C.vp_packet_new(data, C.long(len(pkt.Data)),
		boolInt(pkt.BOS), boolInt(pkt.EOS),
		C.ogg_int64_t(pkt.GranulePos), C.ogg_int64_t(pkt.Seq))
}

func boolInt(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

// toPacket copies op out of libvorbis memory.
func toPacket(op *C.ogg_packet) stream.Packet {
	return stream.Packet{
		Data:       C.GoBytes(unsafe.Pointer(op.packet), C.int(op.bytes)),
		Seq:        int64(op.packetno),
		GranulePos: int64(op.granulepos),
		BOS:        op.b_o_s != 0,
		EOS:        op.e_o_s != 0,
	}
}

func (e *Engine) HeaderIn(_ context.Context, info *stream.StreamInfo, comments *stream.CommentTable, pkt *stream.Packet) int {
	st := stateOf(info)
	op := newPacket(pkt)
	if op == nil {
		return stream.CodeFault
	}
	defer C.vp_packet_free(op)

	if code := int(C.vorbis_synthesis_headerin(st.vi, st.vc, op)); code != 0 {
		return code
	}
	st.fill(info)
	st.comments(comments)
	return 0
}

func (e *Engine) SynthesisInit(_ context.Context, info *stream.StreamInfo) (stream.DSPState, int) {
	return e.dspInit(info, false)
}

func (e *Engine) AnalysisInit(_ context.Context, info *stream.StreamInfo) (stream.DSPState, int) {
	return e.dspInit(info, true)
}

func (e *Engine) dspInit(info *stream.StreamInfo, analysis bool) (stream.DSPState, int) {
	st, ok := info.Engine.(*streamState)
	if !ok {
		return nil, stream.CodeInval
	}
	d := &dspState{
		vd: (*C.vorbis_dsp_state)(C.calloc(1, C.sizeof_vorbis_dsp_state)),
		op: (*C.ogg_packet)(C.calloc(1, C.sizeof_ogg_packet)),
		st: st,
	}

	var code C.int
	if analysis {
		code = C.vorbis_analysis_init(d.vd, st.vi)
	} else {
		code = C.vorbis_synthesis_init(d.vd, st.vi)
	}
	if code != 0 {
		C.free(unsafe.Pointer(d.vd))
		C.free(unsafe.Pointer(d.op))
		e.log.Debug("dsp init failed", "analysis", analysis, "code", int(code))
		return nil, int(code)
	}
	return d, 0
}

func (e *Engine) BlockInit(_ context.Context, dsp stream.DSPState) (stream.Block, int) {
	d, ok := dsp.(*dspState)
	if !ok {
		return nil, stream.CodeInval
	}
	b := &block{vb: (*C.vorbis_block)(C.calloc(1, C.sizeof_vorbis_block))}
	if code := int(C.vorbis_block_init(d.vd, b.vb)); code != 0 {
		C.free(unsafe.Pointer(b.vb))
		return nil, code
	}
	return b, 0
}

func (e *Engine) Synthesis(_ context.Context, blk stream.Block, pkt *stream.Packet) int {
	b, ok := blk.(*block)
	if !ok {
		return stream.CodeInval
	}
	op := newPacket(pkt)
	if op == nil {
		return stream.CodeFault
	}
	defer C.vp_packet_free(op)

	return int(C.vorbis_synthesis(b.vb, op))
}

func (e *Engine) SynthesisBlockin(_ context.Context, dsp stream.DSPState, blk stream.Block) int {
	d, ok := dsp.(*dspState)
	b, ok2 := blk.(*block)
	if !ok || !ok2 {
		return stream.CodeInval
	}
	return int(C.vorbis_synthesis_blockin(d.vd, b.vb))
}

func (e *Engine) SynthesisPCMOut(_ context.Context, dsp stream.DSPState, channels, maxFrames int) ([]byte, int) {
	d, ok := dsp.(*dspState)
	if !ok {
		return nil, stream.CodeInval
	}

	var pcm **C.float
	n := int(C.vorbis_synthesis_pcmout(d.vd, &pcm))
	if n <= 0 {
		return nil, n
	}
	if maxFrames > 0 {
		n = min(n, maxFrames)
	}

	out := make([]byte, n*channels*4)
	C.vp_interleave(pcm, C.int(channels), C.int(n), (*C.float)(unsafe.Pointer(&out[0])))
	if code := int(C.vorbis_synthesis_read(d.vd, C.int(n))); code != 0 {
		return nil, code
	}
	return out, n
}

func (e *Engine) ClearInfo(info *stream.StreamInfo, comments *stream.CommentTable) {
	if st, ok := info.Engine.(*streamState); ok {
		C.vorbis_comment_clear(st.vc)
		C.vorbis_info_clear(st.vi)
		C.free(unsafe.Pointer(st.vc))
		C.free(unsafe.Pointer(st.vi))
	}
	*info = stream.StreamInfo{}
	*comments = stream.CommentTable{}
}

func (e *Engine) EncodeInitVBR(_ context.Context, info *stream.StreamInfo, channels, sampleRate int, quality float32) int {
	st := stateOf(info)
	code := int(C.vorbis_encode_init_vbr(st.vi, C.long(channels), C.long(sampleRate), C.float(quality)))
	if code != 0 {
		return code
	}
	st.fill(info)
	return 0
}

func (e *Engine) AnalysisHeaderOut(_ context.Context, dsp stream.DSPState, comments *stream.CommentTable) (id, comment, setup stream.Packet, code int) {
	d, ok := dsp.(*dspState)
	if !ok {
		return id, comment, setup, stream.CodeInval
	}

	C.vorbis_comment_clear(d.st.vc)
	C.vorbis_comment_init(d.st.vc)
	for _, c := range comments.Comments {
		cs := C.CString(c)
		C.vorbis_comment_add(d.st.vc, cs)
		C.free(unsafe.Pointer(cs))
	}

	var h1, h2, h3 C.ogg_packet
	if code := int(C.vorbis_analysis_headerout(d.vd, d.st.vc, &h1, &h2, &h3)); code != 0 {
		return id, comment, setup, code
	}

	// headerout fills in the library vendor.
	if d.st.vc.vendor != nil {
		comments.Vendor = C.GoString(d.st.vc.vendor)
	}
	return toPacket(&h1), toPacket(&h2), toPacket(&h3), 0
}

func (e *Engine) AnalysisWrite(_ context.Context, dsp stream.DSPState, buf []byte, channels, frames int) int {
	d, ok := dsp.(*dspState)
	if !ok {
		return stream.CodeInval
	}
	if frames == 0 {
		return 0
	}
	return int(C.vp_write(d.vd, (*C.float)(unsafe.Pointer(&buf[0])), C.int(channels), C.int(frames)))
}

func (e *Engine) AnalysisEOS(_ context.Context, dsp stream.DSPState) int {
	d, ok := dsp.(*dspState)
	if !ok {
		return stream.CodeInval
	}
	return int(C.vorbis_analysis_wrote(d.vd, 0))
}

func (e *Engine) AnalysisBlockout(_ context.Context, dsp stream.DSPState, blk stream.Block) int {
	d, ok := dsp.(*dspState)
	b, ok2 := blk.(*block)
	if !ok || !ok2 {
		return stream.CodeInval
	}
	return int(C.vorbis_analysis_blockout(d.vd, b.vb))
}

func (e *Engine) Analysis(_ context.Context, blk stream.Block) int {
	b, ok := blk.(*block)
	if !ok {
		return stream.CodeInval
	}
	return int(C.vorbis_analysis(b.vb, nil))
}

func (e *Engine) BitrateAddBlock(_ context.Context, blk stream.Block) int {
	b, ok := blk.(*block)
	if !ok {
		return stream.CodeInval
	}
	return int(C.vorbis_bitrate_addblock(b.vb))
}

func (e *Engine) BitrateFlushPacket(_ context.Context, dsp stream.DSPState) (stream.Packet, int) {
	d, ok := dsp.(*dspState)
	if !ok {
		return stream.Packet{}, stream.CodeInval
	}
	code := int(C.vorbis_bitrate_flushpacket(d.vd, d.op))
	if code <= 0 {
		return stream.Packet{}, code
	}
	return toPacket(d.op), code
}
