// SPDX-License-Identifier: EPL-2.0

//go:build cgo && libvorbis

package libvorbis_test

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/ik5/vorbispipe/engine/libvorbis"
	"github.com/ik5/vorbispipe/pcm"
	"github.com/ik5/vorbispipe/stream"
)

func sine(frames, channels, rate int) []byte {
	samples := make([]float32, frames*channels)
	for f := range frames {
		v := float32(0.5 * math.Sin(2*math.Pi*440*float64(f)/float64(rate)))
		for c := range channels {
			samples[f*channels+c] = v
		}
	}
	return pcm.Float32ToBytes(nil, samples)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := libvorbis.New()

	enc, err := stream.NewEncoder(engine, stream.WithFormat(pcm.Options{
		Channels:   pcm.Int(2),
		SampleRate: pcm.Int(44100),
	}))
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	defer enc.Close()
	if err := enc.AddComment("TITLE", "Tone"); err != nil {
		t.Fatal(err)
	}

	var packets []stream.Packet
	collect := func(events []stream.Event, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("encode error = %v", err)
		}
		for _, ev := range events {
			if ev.Kind == stream.EventPacket {
				packets = append(packets, ev.Packet)
			}
		}
	}
	collect(enc.Submit(ctx, sine(44100, 2, 44100)))
	collect(enc.Finish(ctx))

	if len(packets) < 4 {
		t.Fatalf("got %d packets, want headers and audio", len(packets))
	}
	if !packets[len(packets)-1].EOS {
		t.Error("last packet has no EOS flag")
	}
	if !stream.IsVorbis(ctx, engine, packets[0]) {
		t.Error("IsVorbis(first packet) = false, want true")
	}

	dec := stream.NewDecoder(engine)
	defer dec.Close()

	var frames int
	for _, pkt := range packets {
		if _, err := dec.Ingest(ctx, pkt); err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
		for dec.Ready() {
			ev, err := dec.Drain(ctx, 0)
			if err != nil {
				t.Fatalf("Drain() error = %v", err)
			}
			if ev.Kind != stream.EventPCM {
				break
			}
			frames += ev.Block.Frames()
		}
	}

	if frames != 44100 {
		t.Errorf("decoded %d frames, want 44100", frames)
	}
	comments, _ := dec.Comments()
	if got := comments.Lookup("TITLE"); len(got) != 1 || got[0] != "Tone" {
		t.Errorf("comments TITLE = %v, want [Tone]", got)
	}
	if !strings.Contains(comments.Vendor, "Xiph") {
		t.Errorf("vendor = %q, want libvorbis vendor", comments.Vendor)
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	if v := libvorbis.New().Version(); !strings.Contains(v, "libVorbis") {
		t.Errorf("Version() = %q, want a libVorbis version string", v)
	}
}
