// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"errors"
	"testing"
)

func foreignEndian() Endianness {
	if NativeEndian() == LittleEndian {
		return BigEndian
	}
	return LittleEndian
}

func TestDefaultFormat(t *testing.T) {
	t.Parallel()

	f := DefaultFormat()
	if f.Channels != 2 || f.SampleRate != 44100 {
		t.Errorf("DefaultFormat() = %v, want 2ch 44100Hz", f)
	}
	if f.BitDepth != 32 || !f.Float || !f.Signed {
		t.Errorf("DefaultFormat() = %v, want signed float32", f)
	}
	if f.Endianness != NativeEndian() {
		t.Errorf("DefaultFormat().Endianness = %v, want %v", f.Endianness, NativeEndian())
	}
	if f.FrameSize() != 8 {
		t.Errorf("FrameSize() = %d, want 8", f.FrameSize())
	}
}

func TestNegotiate_Accepts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		want Format
	}{
		{
			name: "empty options keep defaults",
			opts: Options{},
			want: DefaultFormat(),
		},
		{
			name: "mono 48kHz",
			opts: Options{Channels: Int(1), SampleRate: Int(48000)},
			want: Format{1, 48000, 32, true, true, NativeEndian()},
		},
		{
			name: "fixed options restated",
			opts: Options{BitDepth: Int(32), Float: Bool(true), Signed: Bool(true), Endianness: Endian(NativeEndian())},
			want: DefaultFormat(),
		},
		{
			name: "6 channels",
			opts: Options{Channels: Int(6)},
			want: Format{6, 44100, 32, true, true, NativeEndian()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Negotiate(DefaultFormat(), tt.opts)
			if err != nil {
				t.Fatalf("Negotiate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Negotiate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNegotiate_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       Options
		wantOption string
	}{
		{"zero channels", Options{Channels: Int(0)}, "channels"},
		{"negative rate", Options{SampleRate: Int(-1)}, "sampleRate"},
		{"16 bit", Options{BitDepth: Int(16)}, "bitDepth"},
		{"integer samples", Options{Float: Bool(false)}, "float"},
		{"unsigned", Options{Signed: Bool(false)}, "signed"},
		{"foreign endianness", Options{Endianness: Endian(foreignEndian())}, "endianness"},
		{"first bad option wins", Options{Channels: Int(-2), BitDepth: Int(8)}, "channels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prev := Format{1, 8000, 32, true, true, NativeEndian()}
			got, err := Negotiate(prev, tt.opts)
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("Negotiate() error = %v, want ErrUnsupportedFormat", err)
			}

			var ufe *UnsupportedFormatError
			if !errors.As(err, &ufe) {
				t.Fatalf("Negotiate() error %T is not *UnsupportedFormatError", err)
			}
			if ufe.Option != tt.wantOption {
				t.Errorf("Option = %q, want %q", ufe.Option, tt.wantOption)
			}
			if got != prev {
				t.Errorf("Negotiate() = %v, want previous format %v retained", got, prev)
			}
		})
	}
}

func TestNegotiate_ErrorNamesValue(t *testing.T) {
	t.Parallel()

	_, err := Negotiate(DefaultFormat(), Options{BitDepth: Int(24)})
	want := "unsupported PCM format: bitDepth = 24"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func TestFormat_Frames(t *testing.T) {
	t.Parallel()

	f := DefaultFormat()

	n, err := f.Frames(8 * 100)
	if err != nil || n != 100 {
		t.Errorf("Frames(800) = %d, %v; want 100, nil", n, err)
	}

	_, err = f.Frames(801)
	if !errors.Is(err, ErrFrameAlignment) {
		t.Errorf("Frames(801) error = %v, want ErrFrameAlignment", err)
	}

	if n, err := f.Frames(0); err != nil || n != 0 {
		t.Errorf("Frames(0) = %d, %v; want 0, nil", n, err)
	}
}
