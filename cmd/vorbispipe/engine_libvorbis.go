// SPDX-License-Identifier: EPL-2.0

//go:build cgo && libvorbis

package main

import (
	"log/slog"

	"github.com/ik5/vorbispipe/engine/libvorbis"
	"github.com/ik5/vorbispipe/stream"
)

func encodeEngine(log *slog.Logger) (stream.Analyzer, error) {
	return libvorbis.New(libvorbis.WithLogger(log)), nil
}

func decodeEngine(log *slog.Logger) stream.Synthesizer {
	return libvorbis.New(libvorbis.WithLogger(log))
}
