// SPDX-License-Identifier: EPL-2.0

// Package libvorbis is a codec engine for the stream package backed by the
// reference libvorbis and libvorbisenc C libraries. It implements both
// stream.Synthesizer and stream.Analyzer, so it is the engine used for
// encoding.
//
// The package needs cgo and is only built with the libvorbis tag:
//
//	go build -tags libvorbis ./...
//
// All codec structures live in C memory. Each stream.DSPState and
// stream.Block must be closed before ClearInfo is called on the info they
// were created from; stream.Decoder and stream.Encoder do so.
package libvorbis
