// SPDX-License-Identifier: EPL-2.0

//go:build !(cgo && libvorbis)

package main

import (
	"errors"
	"log/slog"

	"github.com/ik5/vorbispipe/engine/native"
	"github.com/ik5/vorbispipe/stream"
)

var errNoEncoder = errors.New("encoding needs a build with -tags libvorbis")

func encodeEngine(*slog.Logger) (stream.Analyzer, error) {
	return nil, errNoEncoder
}

func decodeEngine(log *slog.Logger) stream.Synthesizer {
	return native.New(native.WithLogger(log))
}
