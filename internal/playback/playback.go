// SPDX-License-Identifier: EPL-2.0

// Package playback streams an audio.Source to an output device.
package playback

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/vorbispipe/audio"
	"github.com/ik5/vorbispipe/utils"
	"golang.org/x/sync/errgroup"
)

// Sink consumes interleaved 16-bit little-endian PCM.
type Sink interface {
	Open(sampleRate, channels int) error
	Write(pcm []byte) error
	Close() error
}

// queueDepth is the number of converted chunks buffered ahead of the sink.
const queueDepth = 8

// Options tunes Play.
type Options struct {
	// Volume in percent, 0 to 100. Zero value plays at full volume unless
	// Muted is set.
	Volume int
	Muted  bool
	// Frames per chunk handed to the sink. Zero picks the source BufSize.
	Frames int
}

func (o Options) gain() float32 {
	switch {
	case o.Muted:
		return 0
	case o.Volume <= 0:
		return 1
	}
	return float32(min(o.Volume, 100)) / 100
}

// Play reads src until it ends and writes it to sink. Reading and writing
// run in separate goroutines so a slow decoder does not starve the device.
// The sink is opened but not closed.
func Play(ctx context.Context, src audio.Source, sink Sink, opts Options) error {
	ch := src.Channels()
	if err := sink.Open(src.SampleRate(), ch); err != nil {
		return fmt.Errorf("playback: %w", err)
	}

	frames := opts.Frames
	if frames <= 0 {
		frames = max(src.BufSize()/ch, 1024)
	}
	gain := opts.gain()

	chunks := make(chan []byte, queueDepth)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chunks)

		buf := make([]float32, frames*ch)
		for {
			n, err := src.ReadSamples(buf)
			if n > 0 {
				select {
				case chunks <- toInt16LE(buf[:n], gain):
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("playback: decode: %w", err)
			}
		}
	})

	g.Go(func() error {
		for chunk := range chunks {
			if err := sink.Write(chunk); err != nil {
				return fmt.Errorf("playback: write: %w", err)
			}
			if err := gctx.Err(); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

func toInt16LE(samples []float32, gain float32) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(utils.Float32ToInt16(s*gain)))
	}
	return out
}
