// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"
	"time"

	"github.com/jfreymuth/oggvorbis"
)

// Info is the metadata of an Ogg Vorbis file.
type Info struct {
	Channels   int
	SampleRate int
	// Frames is the length in samples per channel, 0 when unknown.
	Frames   int64
	Duration time.Duration

	BitrateNominal int
	BitrateMin     int
	BitrateMax     int

	Vendor   string
	Comments []string
}

// Probe reads the headers of an Ogg Vorbis file and, when r can seek,
// its length.
func Probe(r io.Reader) (Info, error) {
	rd, err := oggvorbis.NewReader(r)
	if err != nil {
		return Info{}, fmt.Errorf("vorbis: probe: %w", err)
	}

	br := rd.Bitrate()
	ch := rd.CommentHeader()
	info := Info{
		Channels:       rd.Channels(),
		SampleRate:     rd.SampleRate(),
		Frames:         rd.Length(),
		BitrateNominal: br.Nominal,
		BitrateMin:     br.Minimum,
		BitrateMax:     br.Maximum,
		Vendor:         ch.Vendor,
		Comments:       ch.Comments,
	}
	if info.SampleRate > 0 {
		info.Duration = time.Duration(info.Frames) * time.Second / time.Duration(info.SampleRate)
	}
	return info, nil
}
