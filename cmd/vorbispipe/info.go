// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ik5/vorbispipe/formats/vorbis"
)

func runInfo(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("%w: info takes one input file", errUsage)
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := vorbis.Probe(f)
	if err != nil {
		return err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	src, err := vorbis.Decoder{Engine: decodeEngine(e.log), Logger: e.log}.Open(ctx, f)
	if err != nil {
		return err
	}
	defer src.Close()

	printInfo(e.stdout, path, info, src)
	return nil
}

func printInfo(w io.Writer, path string, info vorbis.Info, src *vorbis.Source) {
	si := src.Info()
	fmt.Fprintf(w, "file:      %s\n", path)
	fmt.Fprintf(w, "serial:    %d\n", src.Serial())
	fmt.Fprintf(w, "channels:  %d\n", info.Channels)
	fmt.Fprintf(w, "rate:      %d Hz\n", info.SampleRate)
	fmt.Fprintf(w, "length:    %d frames (%s)\n", info.Frames, info.Duration)
	fmt.Fprintf(w, "bitrate:   %d nominal, %d..%d\n", info.BitrateNominal, info.BitrateMin, info.BitrateMax)
	fmt.Fprintf(w, "blocks:    %d/%d\n", si.BlockSizes[0], si.BlockSizes[1])
	fmt.Fprintf(w, "vendor:    %s\n", src.Vendor())
	fmt.Fprintf(w, "engine:    %s\n", src.EngineVersion())
	for _, c := range src.Comments().Comments {
		fmt.Fprintf(w, "comment:   %s\n", c)
	}
}
