// SPDX-License-Identifier: EPL-2.0

// Package vorbistest provides a scripted codec engine for exercising the
// stream state machines without a real Vorbis implementation.
//
// The engine is an identity codec: an audio packet holds the raw
// native-endian float32 frames it decodes to. Header packets use a compact
// made-up layout that only this package understands. Every primitive call
// is recorded and any primitive can be made to fail with a chosen code.
package vorbistest
