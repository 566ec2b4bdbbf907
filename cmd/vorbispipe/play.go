// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/ik5/vorbispipe"
	"github.com/ik5/vorbispipe/audio"
	"github.com/ik5/vorbispipe/internal/playback"
	"github.com/ik5/vorbispipe/internal/playback/otosink"
)

func runPlay(ctx context.Context, e *env, args []string) (err error) {
	var (
		format string
		opts   playback.Options
	)
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.StringVar(&format, "format", "", "input format (default: from the file extension)")
	fs.IntVar(&opts.Volume, "volume", 100, "volume in percent")
	fs.BoolVar(&opts.Muted, "mute", false, "decode without sound")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("%w: play takes one input file", errUsage)
	}
	path := fs.Arg(0)
	if format == "" {
		format = audio.FormatOf(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	src, err := vorbispipe.NewRegistry(decodeEngine(e.log), e.log).Decode(format, f)
	if err != nil {
		return err
	}
	defer src.Close()

	sink := otosink.New(e.log)
	defer func() {
		err = errors.Join(err, sink.Close())
	}()

	e.log.Info("playing", "file", path, "rate", src.SampleRate(), "channels", src.Channels())
	return playback.Play(ctx, src, sink, opts)
}
