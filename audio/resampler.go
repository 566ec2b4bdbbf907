// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/vorbispipe/utils"
)

// Resampler streams src at another sample rate using cubic interpolation.
// It works on interleaved samples and keeps the channel count. A one-pole
// low-pass runs on the input when downsampling.
type Resampler struct {
	src      Source
	channels int
	dstRate  int
	step     float64 // source frames per output frame

	// win holds source frames; pos is the read position in win, in frames.
	win   []float32
	pos   float64
	chunk []float32
	eof   bool

	lowpass bool
	alpha   float32
	state   []float32
	primed  bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	chunk := src.BufSize()
	if chunk < channels {
		chunk = 4096
	}
	chunk -= chunk % channels

	return &Resampler{
		src:      src,
		channels: channels,
		dstRate:  dstRate,
		step:     step,
		chunk:    make([]float32, chunk),
		lowpass:  step > 1,
		alpha:    float32(1 / step),
		state:    make([]float32, channels),
	}
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler: %w", err)
	}
	return nil
}

func (r *Resampler) passthrough() bool {
	return r.step == 1
}

// fill reads from src until win holds frame index need or src ends.
func (r *Resampler) fill(need int) error {
	ch := r.channels
	for !r.eof && len(r.win)/ch <= need {
		// Keep one frame of history before the read position. A large
		// step can leave pos past the end of the window.
		if drop := min(int(r.pos)-1, len(r.win)/ch); drop > 0 {
			r.win = append(r.win[:0], r.win[drop*ch:]...)
			r.pos -= float64(drop)
			need -= drop
		}

		n, err := r.src.ReadSamples(r.chunk)
		n -= n % ch
		if n > 0 {
			in := r.chunk[:n]
			if r.lowpass {
				r.filter(in)
			}
			r.win = append(r.win, in...)
		}
		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return fmt.Errorf("resampler: %w", err)
		}
	}
	return nil
}

func (r *Resampler) filter(in []float32) {
	ch := r.channels
	if !r.primed {
		copy(r.state, in[:ch])
		r.primed = true
	}
	for i := 0; i < len(in); i += ch {
		for c := range ch {
			y := r.alpha*in[i+c] + (1-r.alpha)*r.state[c]
			r.state[c] = y
			in[i+c] = y
		}
	}
}

func (r *Resampler) at(frame, c, frames int) float32 {
	frame = max(0, min(frame, frames-1))
	return r.win[frame*r.channels+c]
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.passthrough() {
		return r.src.ReadSamples(dst)
	}

	ch := r.channels
	want := len(dst) / ch
	written := 0

	for written < want {
		if err := r.fill(int(r.pos) + 2); err != nil {
			return written * ch, err
		}
		// fill may have moved the window
		i := int(r.pos)

		frames := len(r.win) / ch
		if i >= frames {
			if written == 0 {
				return 0, io.EOF
			}
			break
		}

		x := float32(r.pos - float64(i))
		out := dst[written*ch : (written+1)*ch]
		for c := range ch {
			out[c] = utils.CubicInterpolate(
				r.at(i-1, c, frames), r.at(i, c, frames),
				r.at(i+1, c, frames), r.at(i+2, c, frames), x)
		}

		written++
		r.pos += r.step
	}

	return written * ch, nil
}
