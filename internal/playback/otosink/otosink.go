// SPDX-License-Identifier: EPL-2.0

// Package otosink plays PCM on the default audio device through
// github.com/ebitengine/oto/v3.
package otosink

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/vorbispipe/internal/playback"
)

var ErrNotOpen = errors.New("otosink: output not open")

const drainPoll = 20 * time.Millisecond

// Sink feeds a single persistent oto player through a pipe. oto allows
// one context per process, so a Sink can only be opened once.
type Sink struct {
	log    *slog.Logger
	otoCtx *oto.Context
	player *oto.Player
	pr     *io.PipeReader
	pw     *io.PipeWriter
}

var _ playback.Sink = (*Sink)(nil)

func New(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sink{log: logger}
}

func (s *Sink) Open(sampleRate, channels int) error {
	if s.otoCtx != nil {
		return errors.New("otosink: already open")
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("otosink: creating context: %w", err)
	}
	<-ready

	s.otoCtx = ctx
	s.pr, s.pw = io.Pipe()
	s.player = ctx.NewPlayer(s.pr)
	s.player.Play()

	s.log.Debug("audio output open", "rate", sampleRate, "channels", channels)
	return nil
}

// Write blocks until the player has taken p.
func (s *Sink) Write(p []byte) error {
	if s.pw == nil {
		return ErrNotOpen
	}
	if _, err := s.pw.Write(p); err != nil {
		return fmt.Errorf("otosink: %w", err)
	}
	return nil
}

// Close stops playback after the player drained what it buffered.
func (s *Sink) Close() error {
	var errs []error
	if s.pw != nil {
		errs = append(errs, s.pw.Close())
		s.pw = nil
	}
	if s.player != nil {
		for s.player.IsPlaying() {
			time.Sleep(drainPoll)
		}
		errs = append(errs, s.player.Close())
		s.player = nil
	}
	if s.otoCtx != nil {
		errs = append(errs, s.otoCtx.Suspend())
	}
	return errors.Join(errs...)
}
