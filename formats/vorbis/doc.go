// SPDX-License-Identifier: EPL-2.0

// Package vorbis reads and writes Ogg Vorbis files.
//
// Decoder drives a stream.Decoder with packets from container/ogg and
// exposes the result as an audio.Source. The zero value uses the pure Go
// engine in engine/native:
//
//	src, err := vorbis.Decoder{}.Decode(f)
//	fmt.Println(src.(*vorbis.Source).Comments().Lookup("TITLE"))
//
// Encode is the other direction. It needs an engine that can analyse,
// such as engine/libvorbis:
//
//	st, err := vorbis.Encode(ctx, src, out, libvorbis.New(),
//	    vorbis.WithQuality(0.4), vorbis.WithComment("TITLE", "Tone"))
//
// Probe reads the headers and length of a file through
// github.com/jfreymuth/oggvorbis without decoding any audio.
package vorbis
