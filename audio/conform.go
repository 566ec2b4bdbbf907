// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Conform adapts src to the given channel count and sample rate, mixing
// before resampling when that reduces the work.
func Conform(src Source, channels, rate int) (Source, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if rate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, rate)
	}

	mix := func(s Source) (Source, error) {
		if s.Channels() == channels {
			return s, nil
		}
		return NewChannelMixer(s, channels)
	}
	resample := func(s Source) Source {
		if s.SampleRate() == rate {
			return s
		}
		return NewResampler(s, rate)
	}

	if channels < src.Channels() {
		mixed, err := mix(src)
		if err != nil {
			return nil, err
		}
		return resample(mixed), nil
	}
	return mix(resample(src))
}
