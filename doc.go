// SPDX-License-Identifier: EPL-2.0

// Package vorbispipe converts between Ogg Vorbis and PCM audio.
//
// The work is split into layers:
//
//   - stream holds the decoder and encoder state machines that sit between
//     codec packets and PCM, plus the engine interfaces and error
//     classification.
//   - pcm negotiates and validates the raw sample format.
//   - container/ogg frames packets into Ogg pages and back.
//   - engine/native (pure Go, decode only) and engine/libvorbis (cgo,
//     both directions) do the codec work.
//   - audio and formats/... decode WAV, AIFF, MP3 and Ogg Vorbis files into
//     float32 sources.
//
// This package ties them together for whole-file jobs:
//
//	f, _ := os.Open("in.wav")
//	out, _ := os.Create("out.ogg")
//	st, err := vorbispipe.Transcode(ctx, f, "wav", out, libvorbis.New(),
//	    vorbis.WithQuality(0.5))
//
// and in the other direction:
//
//	in, _ := os.Open("in.ogg")
//	out, _ := os.Create("out.wav")
//	frames, err := vorbispipe.DecodeToWAV(ctx, in, out, vorbispipe.DecodeOptions{})
//
// Everything is streamed; no function holds a whole file in memory except
// where a container format needs to seek and the input cannot.
package vorbispipe
