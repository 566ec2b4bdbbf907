// SPDX-License-Identifier: EPL-2.0

package pcm

// Options holds the format options announced by a PCM producer. A nil field
// keeps the value of the previous format.
type Options struct {
	Channels   *int
	SampleRate *int
	BitDepth   *int
	Float      *bool
	Signed     *bool
	Endianness *Endianness
}

// Int returns a pointer to v, for filling Options.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for filling Options.
func Bool(v bool) *bool { return &v }

// Endian returns a pointer to v, for filling Options.
func Endian(v Endianness) *Endianness { return &v }

// OptionsFrom turns a complete Format back into Options with every field set.
func OptionsFrom(f Format) Options {
	return Options{
		Channels:   Int(f.Channels),
		SampleRate: Int(f.SampleRate),
		BitDepth:   Int(f.BitDepth),
		Float:      Bool(f.Float),
		Signed:     Bool(f.Signed),
		Endianness: Endian(f.Endianness),
	}
}

// Negotiate merges opts into prev and validates the result. On failure prev
// is returned unchanged together with an *UnsupportedFormatError naming the
// first offending option.
func Negotiate(prev Format, opts Options) (Format, error) {
	next := prev

	if opts.Channels != nil {
		if *opts.Channels <= 0 {
			return prev, &UnsupportedFormatError{Option: "channels", Value: *opts.Channels}
		}
		next.Channels = *opts.Channels
	}

	if opts.SampleRate != nil {
		if *opts.SampleRate <= 0 {
			return prev, &UnsupportedFormatError{Option: "sampleRate", Value: *opts.SampleRate}
		}
		next.SampleRate = *opts.SampleRate
	}

	if opts.BitDepth != nil {
		if *opts.BitDepth != SampleBits {
			return prev, &UnsupportedFormatError{Option: "bitDepth", Value: *opts.BitDepth}
		}
		next.BitDepth = *opts.BitDepth
	}

	if opts.Float != nil {
		if !*opts.Float {
			return prev, &UnsupportedFormatError{Option: "float", Value: *opts.Float}
		}
		next.Float = true
	}

	if opts.Signed != nil {
		if !*opts.Signed {
			return prev, &UnsupportedFormatError{Option: "signed", Value: *opts.Signed}
		}
		next.Signed = true
	}

	if opts.Endianness != nil {
		if *opts.Endianness != NativeEndian() {
			return prev, &UnsupportedFormatError{Option: "endianness", Value: *opts.Endianness}
		}
		next.Endianness = *opts.Endianness
	}

	return next, nil
}
