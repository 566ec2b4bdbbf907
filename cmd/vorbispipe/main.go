// SPDX-License-Identifier: EPL-2.0

// Command vorbispipe converts audio files to and from Ogg Vorbis.
//
//	vorbispipe encode [flags] input
//	vorbispipe decode [flags] input.ogg
//	vorbispipe info input.ogg
//	vorbispipe play [flags] input
//
// Encoding needs a binary built with -tags libvorbis.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var errUsage = errors.New("usage")

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, env *env, args []string) error
}

var commands = []command{
	{"encode", "encode any supported file to Ogg Vorbis", runEncode},
	{"decode", "decode Ogg Vorbis to WAV or raw float32 PCM", runDecode},
	{"info", "print stream parameters and comments", runInfo},
	{"play", "play any supported file", runPlay},
}

// env carries what every subcommand shares.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: vorbispipe [-v] <command> [flags] <input>")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.usage)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	verbose := false
	if len(args) > 0 && (args[0] == "-v" || args[0] == "--verbose") {
		verbose = true
		args = args[1:]
	}
	if len(args) == 0 {
		usage(stderr)
		return errUsage
	}

	e := &env{stdin: stdin, stdout: stdout, stderr: stderr, log: newLogger(stderr, verbose)}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(ctx, e, args[1:])
		}
	}

	usage(stderr)
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "vorbispipe:", err)
		}
		stop()
		os.Exit(1)
	}
}
