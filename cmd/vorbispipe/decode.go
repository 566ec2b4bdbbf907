// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/vorbispipe"
	"github.com/ik5/vorbispipe/audio"
	"github.com/ik5/vorbispipe/formats/vorbis"
)

type decodeConfig struct {
	Input    string
	Output   string
	Raw      bool
	BitDepth int
	Channels int
	Rate     int
}

func parseDecode(args []string, stderr io.Writer) (decodeConfig, error) {
	var cfg decodeConfig
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Output, "o", "", "output file (default: input with .wav, or stdout with -raw)")
	fs.BoolVar(&cfg.Raw, "raw", false, "write native-endian float32 PCM instead of WAV")
	fs.IntVar(&cfg.BitDepth, "bits", 16, "WAV bit depth: 8, 16, 24 or 32")
	fs.IntVar(&cfg.Channels, "channels", 0, "output channel count (default: as stream)")
	fs.IntVar(&cfg.Rate, "rate", 0, "output sample rate (default: as stream)")

	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return cfg, fmt.Errorf("%w: decode takes one input file", errUsage)
	}
	cfg.Input = fs.Arg(0)

	switch {
	case cfg.Output != "":
	case cfg.Raw:
		cfg.Output = "-"
	default:
		cfg.Output = strings.TrimSuffix(cfg.Input, filepath.Ext(cfg.Input)) + ".wav"
	}
	if cfg.Output == "-" && !cfg.Raw {
		return cfg, fmt.Errorf("%w: WAV output needs a file, use -raw for stdout", errUsage)
	}
	return cfg, nil
}

func runDecode(ctx context.Context, e *env, args []string) (err error) {
	cfg, err := parseDecode(args, e.stderr)
	if err != nil {
		return err
	}

	in, err := os.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	if cfg.Raw {
		return decodeRaw(ctx, e, cfg, in)
	}

	out, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	frames, err := vorbispipe.DecodeToWAV(ctx, in, out, vorbispipe.DecodeOptions{
		Engine:     decodeEngine(e.log),
		BitDepth:   cfg.BitDepth,
		Channels:   cfg.Channels,
		SampleRate: cfg.Rate,
		Logger:     e.log,
	})
	if err != nil {
		return err
	}
	e.log.Info("decoded", "input", cfg.Input, "output", cfg.Output, "frames", frames)
	return nil
}

func decodeRaw(ctx context.Context, e *env, cfg decodeConfig, in io.Reader) (err error) {
	src, err := vorbis.Decoder{Engine: decodeEngine(e.log), Logger: e.log}.Open(ctx, in)
	if err != nil {
		return err
	}

	var pcmSrc audio.Source = src
	if cfg.Channels > 0 || cfg.Rate > 0 {
		pcmSrc, err = audio.Conform(src, orDefault(cfg.Channels, src.Channels()), orDefault(cfg.Rate, src.SampleRate()))
		if err != nil {
			return errors.Join(err, src.Close())
		}
	}
	defer func() {
		err = errors.Join(err, pcmSrc.Close())
	}()

	out := e.stdout
	if cfg.Output != "-" {
		f, cerr := os.Create(cfg.Output)
		if cerr != nil {
			return cerr
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()
		out = f
	}

	n, err := io.Copy(out, audio.NewFloatReader(pcmSrc))
	if err != nil {
		return err
	}
	e.log.Info("decoded",
		"input", cfg.Input,
		"format", src.Format().String(),
		"bytes", n,
		"vendor", src.Vendor())
	return nil
}

// orDefault returns v when set, else def.
func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
