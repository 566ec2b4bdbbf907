// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"log/slog"

	"github.com/ik5/vorbispipe/pcm"
)

// Quality bounds for VBR encoding.
const (
	MinQuality     float32 = -0.1
	MaxQuality     float32 = 1.0
	DefaultQuality float32 = 0.6
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithDecoderLogger sets the logger used for debug traces.
func WithDecoderLogger(l *slog.Logger) DecoderOption {
	return func(d *Decoder) {
		if l != nil {
			d.log = l
		}
	}
}

type encoderConfig struct {
	quality float32
	format  *pcm.Options
	logger  *slog.Logger
}

// EncoderOption configures an Encoder.
type EncoderOption func(*encoderConfig)

// WithQuality sets the VBR quality, from -0.1 (smallest) to 1.0 (best).
func WithQuality(q float32) EncoderOption {
	return func(c *encoderConfig) { c.quality = q }
}

// WithFormat negotiates the initial PCM format against the defaults.
func WithFormat(opts pcm.Options) EncoderOption {
	return func(c *encoderConfig) { c.format = &opts }
}

// WithEncoderLogger sets the logger used for debug traces.
func WithEncoderLogger(l *slog.Logger) EncoderOption {
	return func(c *encoderConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
