// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes integer PCM WAV files through
// github.com/go-audio/wav.
//
// Decoder accepts 8, 16, 24 and 32-bit PCM with any channel count and
// sample rate and yields an audio.Source of float32 samples:
//
//	f, _ := os.Open("in.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// Writer does the opposite, scaling float32 samples to the chosen bit
// depth. The RIFF sizes are patched when the writer is closed, so the
// destination must implement io.WriteSeeker:
//
//	out, _ := os.Create("out.wav")
//	frames, err := wav.WriteSource(out, src, 16)
package wav
