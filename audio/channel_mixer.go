// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer changes the channel count of a Source.
//
// Reducing channels averages every input channel k into output channel
// k mod n, so any layout folds down to mono and 4.0 folds to stereo.
// Adding channels repeats input channel c mod m.
type ChannelMixer struct {
	src Source
	in  int
	out int
	tmp []float32

	// weight[c] is 1 / number of inputs folded into output c.
	weight []float32
}

// NewChannelMixer returns a Source with channels channels.
func NewChannelMixer(src Source, channels int) (*ChannelMixer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	m := &ChannelMixer{
		src:    src,
		in:     src.Channels(),
		out:    channels,
		tmp:    make([]float32, 4096),
		weight: make([]float32, channels),
	}
	for k := range m.in {
		m.weight[k%channels]++
	}
	for c, n := range m.weight {
		if n > 0 {
			m.weight[c] = 1 / n
		}
	}
	return m, nil
}

// NewMonoMixer folds src down to one channel.
func NewMonoMixer(src Source) *ChannelMixer {
	m, _ := NewChannelMixer(src, 1)
	return m
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.out }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }

func (m *ChannelMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("channel mixer: %w", err)
	}
	return nil
}

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}
	if m.in == m.out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.out
	need := frames * m.in
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	in := m.tmp[:need]

	n, err := m.src.ReadSamples(in)
	got := n / m.in
	if got == 0 {
		return 0, err
	}

	if m.out < m.in {
		m.fold(dst, in, got)
	} else {
		m.spread(dst, in, got)
	}
	return got * m.out, err
}

func (m *ChannelMixer) fold(dst, in []float32, frames int) {
	for f := range frames {
		o := dst[f*m.out : (f+1)*m.out]
		clear(o)
		for k, s := range in[f*m.in : (f+1)*m.in] {
			o[k%m.out] += s
		}
		for c := range o {
			o[c] *= m.weight[c]
		}
	}
}

func (m *ChannelMixer) spread(dst, in []float32, frames int) {
	for f := range frames {
		src := in[f*m.in : (f+1)*m.in]
		o := dst[f*m.out : (f+1)*m.out]
		for c := range o {
			o[c] = src[c%m.in]
		}
	}
}
