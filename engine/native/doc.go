// SPDX-License-Identifier: EPL-2.0

// Package native is a pure Go decode engine for the stream package, built
// on github.com/jfreymuth/vorbis.
//
// It implements stream.Synthesizer only. Encoding needs the libvorbis
// engine.
package native
