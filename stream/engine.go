// SPDX-License-Identifier: EPL-2.0

package stream

import "context"

// DSPState is the engine's synthesis or analysis state for one stream.
// It is created after the StreamInfo is final and closed exactly once.
type DSPState interface {
	Close() error
}

// Block is the engine's per-packet scratch space, paired with one DSPState.
type Block interface {
	Close() error
}

// Synthesizer is the decode half of a codec engine.
//
// Methods returning an int code use the libvorbis convention: 0 (or a
// positive count where documented) is success and a negative value is one
// of the codes understood by Classify. Calls on one stream are never made
// concurrently, but an implementation may block on ctx.
type Synthesizer interface {
	// HeaderIn parses one of the three header packets into info and
	// comments.
	HeaderIn(ctx context.Context, info *StreamInfo, comments *CommentTable, pkt *Packet) int

	// SynthesisInit allocates decode state for a complete info.
	SynthesisInit(ctx context.Context, info *StreamInfo) (DSPState, int)

	// BlockInit allocates the block paired with dsp.
	BlockInit(ctx context.Context, dsp DSPState) (Block, int)

	// Synthesis decodes pkt into blk.
	Synthesis(ctx context.Context, blk Block, pkt *Packet) int

	// SynthesisBlockin merges blk into the PCM held by dsp.
	SynthesisBlockin(ctx context.Context, dsp DSPState, blk Block) int

	// SynthesisPCMOut returns up to maxFrames interleaved float32 frames
	// (maxFrames <= 0 means no limit) and consumes them. It returns the
	// frame count, 0 when the integrated block is exhausted, or a negative
	// code.
	SynthesisPCMOut(ctx context.Context, dsp DSPState, channels, maxFrames int) ([]byte, int)

	// ClearInfo releases whatever the engine attached to info and comments.
	ClearInfo(info *StreamInfo, comments *CommentTable)
}

// Analyzer is the encode half of a codec engine.
type Analyzer interface {
	// EncodeInitVBR fills info for VBR encoding at quality in [-0.1, 1.0].
	EncodeInitVBR(ctx context.Context, info *StreamInfo, channels, sampleRate int, quality float32) int

	// AnalysisInit allocates encode state for info.
	AnalysisInit(ctx context.Context, info *StreamInfo) (DSPState, int)

	// BlockInit allocates the block paired with dsp.
	BlockInit(ctx context.Context, dsp DSPState) (Block, int)

	// AnalysisHeaderOut builds the identification, comment and setup
	// packets. The returned packets may alias engine memory that is reused
	// by the next call.
	AnalysisHeaderOut(ctx context.Context, dsp DSPState, comments *CommentTable) (id, comment, setup Packet, code int)

	// AnalysisWrite submits frames interleaved native-endian float32
	// frames held in buf.
	AnalysisWrite(ctx context.Context, dsp DSPState, buf []byte, channels, frames int) int

	// AnalysisEOS marks the end of input, a zero-length final write.
	AnalysisEOS(ctx context.Context, dsp DSPState) int

	// AnalysisBlockout extracts the next block: 1 when a block was
	// produced, 0 when more PCM is needed, negative on error.
	AnalysisBlockout(ctx context.Context, dsp DSPState, blk Block) int

	// Analysis runs the transform on an extracted block.
	Analysis(ctx context.Context, blk Block) int

	// BitrateAddBlock hands an analysed block to bitrate management.
	BitrateAddBlock(ctx context.Context, blk Block) int

	// BitrateFlushPacket returns the next finished packet: code 1 with a
	// packet, 0 when none is pending, negative on error. The packet may
	// alias engine memory.
	BitrateFlushPacket(ctx context.Context, dsp DSPState) (Packet, int)

	// ClearInfo releases whatever the engine attached to info and comments.
	ClearInfo(info *StreamInfo, comments *CommentTable)
}

// Engine implements both directions.
type Engine interface {
	Synthesizer
	Analyzer
}

// Versioner is implemented by engines that can report their version.
type Versioner interface {
	Version() string
}

// EngineVersion returns the version string of an engine, or "unknown".
func EngineVersion(engine any) string {
	if v, ok := engine.(Versioner); ok {
		return v.Version()
	}
	return "unknown"
}

// IsVorbis reports whether pkt is a Vorbis identification header, i.e. a
// valid first packet of a Vorbis stream.
func IsVorbis(ctx context.Context, s Synthesizer, pkt Packet) bool {
	if len(pkt.Data) == 0 || pkt.Data[0] != 1 {
		return false
	}

	var (
		info     StreamInfo
		comments CommentTable
	)
	defer s.ClearInfo(&info, &comments)

	return s.HeaderIn(ctx, &info, &comments, &pkt) == 0
}
