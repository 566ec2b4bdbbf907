// SPDX-License-Identifier: EPL-2.0

// Package pcm describes the raw sample format exchanged with the Vorbis
// stream adapter and negotiates it.
//
// Only one wire format is accepted: interleaved 32-bit signed float samples
// in the host's native byte order. Negotiate merges caller supplied options
// into a previous format and rejects anything else instead of coercing it:
//
//	format, err := pcm.Negotiate(pcm.DefaultFormat(), pcm.Options{
//	    Channels:   pcm.Int(1),
//	    SampleRate: pcm.Int(48000),
//	})
//	if errors.Is(err, pcm.ErrUnsupportedFormat) {
//	    // bad option, previous format still valid
//	}
//
// Float32ToBytes and BytesToFloat32 convert between sample slices and the
// byte buffers consumed by stream.Encoder.Submit and produced by
// stream.Decoder.Drain.
package pcm
