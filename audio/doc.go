// SPDX-License-Identifier: EPL-2.0

// Package audio provides the float32 PCM plumbing that sits between the
// container decoders and the Vorbis encoder.
//
// A Source is a pull based stream of interleaved float32 samples in
// [-1, 1]. Decoders in formats/ produce Sources, and the processors in
// this package wrap them:
//
//   - Resampler changes the sample rate with cubic interpolation.
//   - ChannelMixer folds or spreads channels. NewMonoMixer folds to mono.
//   - Conform chains the two to reach a target layout.
//   - FloatReader turns a Source into an io.Reader of native-endian
//     float32 bytes, the buffer shape the encoder accepts.
//
// Registry maps format names to Decoders:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	src, err := reg.Decode(audio.FormatOf(path), f)
//
// Every Source returns io.EOF once drained; the final read may carry
// samples together with io.EOF.
package audio
