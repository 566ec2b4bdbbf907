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
	"github.com/ik5/vorbispipe/stream"
)

type encodeConfig struct {
	Input    string
	Output   string
	Format   string
	Quality  float64
	Channels int
	Rate     int
	Serial   uint
	Comments []string
}

func parseEncode(args []string, stderr io.Writer) (encodeConfig, error) {
	var cfg encodeConfig
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Output, "o", "", "output file (default: input with .ogg, - for stdout)")
	fs.StringVar(&cfg.Format, "format", "", "input format (default: from the file extension)")
	fs.Float64Var(&cfg.Quality, "q", float64(stream.DefaultQuality), "VBR quality from -0.1 to 1.0")
	fs.IntVar(&cfg.Channels, "channels", 0, "output channel count (default: as input)")
	fs.IntVar(&cfg.Rate, "rate", 0, "output sample rate (default: as input)")
	fs.UintVar(&cfg.Serial, "serial", 0, "Ogg serial number (default: random)")
	fs.Func("comment", "KEY=value comment, may repeat", func(s string) error {
		if !strings.Contains(s, "=") {
			return fmt.Errorf("comment %q is not KEY=value", s)
		}
		cfg.Comments = append(cfg.Comments, s)
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return cfg, fmt.Errorf("%w: encode takes one input file", errUsage)
	}
	cfg.Input = fs.Arg(0)

	if cfg.Format == "" {
		cfg.Format = audio.FormatOf(cfg.Input)
	}
	if cfg.Output == "" {
		cfg.Output = strings.TrimSuffix(cfg.Input, filepath.Ext(cfg.Input)) + ".ogg"
	}
	if !stream.ValidQuality(float32(cfg.Quality)) {
		return cfg, fmt.Errorf("%w: got %v", stream.ErrInvalidQuality, cfg.Quality)
	}
	return cfg, nil
}

func (c encodeConfig) options(e *env) []vorbis.EncodeOption {
	opts := []vorbis.EncodeOption{
		vorbis.WithQuality(float32(c.Quality)),
		vorbis.WithLayout(c.Channels, c.Rate),
		vorbis.WithLogger(e.log),
		vorbis.WithComment("ENCODER", "vorbispipe"),
	}
	if c.Serial != 0 {
		opts = append(opts, vorbis.WithSerial(uint32(c.Serial)))
	}
	for _, kv := range c.Comments {
		k, v, _ := strings.Cut(kv, "=")
		opts = append(opts, vorbis.WithComment(k, v))
	}
	return opts
}

func runEncode(ctx context.Context, e *env, args []string) (err error) {
	cfg, err := parseEncode(args, e.stderr)
	if err != nil {
		return err
	}

	analyzer, err := encodeEngine(e.log)
	if err != nil {
		return err
	}

	in, err := os.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer in.Close()

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

	st, err := vorbispipe.Transcode(ctx, in, cfg.Format, out, analyzer, cfg.options(e)...)
	if err != nil {
		return err
	}

	e.log.Info("encoded",
		"input", cfg.Input,
		"output", cfg.Output,
		"format", st.Format.String(),
		"frames", st.Frames,
		"packets", st.Packets,
		"pages", st.Pages,
		"serial", st.Serial,
		"engine", stream.EngineVersion(analyzer))
	return nil
}
