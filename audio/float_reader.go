// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/vorbispipe/pcm"
)

// FloatReader exposes a Source as an io.Reader of interleaved native-endian
// float32 bytes. Every Read returns whole frames.
type FloatReader struct {
	src Source
	tmp []float32
	eof bool
}

// NewFloatReader wraps src.
func NewFloatReader(src Source) *FloatReader {
	return &FloatReader{src: src}
}

// FrameSize is the size in bytes of one frame.
func (r *FloatReader) FrameSize() int { return r.src.Channels() * 4 }

// Read fills p with as many whole frames as fit. A p shorter than one frame
// fails with ErrShortBuffer.
func (r *FloatReader) Read(p []byte) (int, error) {
	if r.eof {
		return 0, io.EOF
	}

	ch := r.src.Channels()
	frames := len(p) / (ch * 4)
	if frames == 0 {
		return 0, fmt.Errorf("%w: %d bytes, frame is %d", ErrShortBuffer, len(p), ch*4)
	}

	want := frames * ch
	if cap(r.tmp) < want {
		r.tmp = make([]float32, want)
	}

	n, err := r.src.ReadSamples(r.tmp[:want])
	n -= n % ch
	if err == io.EOF {
		r.eof = true
		if n > 0 {
			err = nil
		}
	}
	pcm.Float32ToBytes(p[:0], r.tmp[:n])
	return n * 4, err
}
