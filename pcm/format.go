// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"
	"fmt"
)

// Endianness is the byte order of samples in a PCM buffer.
type Endianness int

const (
	LittleEndian Endianness = iota + 1
	BigEndian
)

func (e Endianness) String() string {
	switch e {
	case LittleEndian:
		return "LE"
	case BigEndian:
		return "BE"
	default:
		return fmt.Sprintf("Endianness(%d)", int(e))
	}
}

// NativeEndian reports the byte order of the running host.
func NativeEndian() Endianness {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] == 1 {
		return LittleEndian
	}
	return BigEndian
}

// SampleBits is the only accepted sample width.
const SampleBits = 32

// Format is a fully specified PCM layout.
type Format struct {
	Channels   int
	SampleRate int
	BitDepth   int
	Float      bool
	Signed     bool
	Endianness Endianness
}

// DefaultFormat is the format in effect before anything was negotiated:
// stereo, 44.1kHz, native-endian float32.
func DefaultFormat() Format {
	return Format{
		Channels:   2,
		SampleRate: 44100,
		BitDepth:   SampleBits,
		Float:      true,
		Signed:     true,
		Endianness: NativeEndian(),
	}
}

// BytesPerSample is the size of a single sample of one channel.
func (f Format) BytesPerSample() int { return f.BitDepth / 8 }

// FrameSize is the size in bytes of one sample for every channel.
func (f Format) FrameSize() int { return f.Channels * f.BytesPerSample() }

// Frames returns the number of whole frames in n bytes and an error when n
// is not an exact multiple of the frame size.
func (f Format) Frames(n int) (int, error) {
	size := f.FrameSize()
	if size <= 0 {
		return 0, fmt.Errorf("%w: frame size %d", ErrFrameAlignment, size)
	}
	if n%size != 0 {
		return n / size, fmt.Errorf("%w: %d bytes, frame size %d (%d bytes leftover)",
			ErrFrameAlignment, n, size, n%size)
	}
	return n / size, nil
}

func (f Format) String() string {
	kind := "int"
	if f.Float {
		kind = "float"
	}
	sign := "u"
	if f.Signed {
		sign = "s"
	}
	return fmt.Sprintf("%dch %dHz %s%s%d%s", f.Channels, f.SampleRate, sign, kind, f.BitDepth, f.Endianness)
}
