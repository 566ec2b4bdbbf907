// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// The decoder always yields stereo float32 at the file's sample rate;
// go-mp3 upmixes mono streams. Use audio.Conform to reach the layout an
// encoder wants:
//
//	src, err := mp3.Decoder{}.Decode(f)
//	src, err = audio.Conform(src, 1, 44100)
package mp3
