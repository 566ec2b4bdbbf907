// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ik5/vorbispipe/container/ogg"
	"github.com/ik5/vorbispipe/internal/audiotest"
	"github.com/ik5/vorbispipe/internal/vorbistest"
	"github.com/ik5/vorbispipe/stream"
)

func encodeTest(t *testing.T, src *audiotest.MockSource, opts ...EncodeOption) ([]byte, Stats) {
	t.Helper()

	var out bytes.Buffer
	st, err := Encode(context.Background(), src, &out, vorbistest.NewEngine(), opts...)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return out.Bytes(), st
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	src := audiotest.NewChannelSource(8000, 1000, 0.5, -0.5)
	data, st := encodeTest(t, src,
		WithSerial(42),
		WithComment("TITLE", "Tone"),
		WithComment("ARTIST", "Nobody"))

	if st.Frames != 1000 {
		t.Errorf("Stats.Frames = %d, want 1000", st.Frames)
	}
	if st.Serial != 42 {
		t.Errorf("Stats.Serial = %d, want 42", st.Serial)
	}
	if st.Packets < 4 || st.Pages < 3 {
		t.Errorf("Stats = %d packets %d pages, want at least 4 and 3", st.Packets, st.Pages)
	}
	if st.Format.Channels != 2 || st.Format.SampleRate != 8000 {
		t.Errorf("Stats.Format = %v, want 2ch 8000Hz", st.Format)
	}

	src2, err := Decoder{Engine: vorbistest.NewEngine()}.Open(context.Background(), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src2.Close()

	if src2.Channels() != 2 || src2.SampleRate() != 8000 {
		t.Errorf("decoded layout = %d ch %d Hz, want 2 ch 8000 Hz", src2.Channels(), src2.SampleRate())
	}
	if src2.Serial() != 42 {
		t.Errorf("Serial() = %d, want 42", src2.Serial())
	}
	if got := src2.Comments().Lookup("title"); len(got) != 1 || got[0] != "Tone" {
		t.Errorf("Comments().Lookup(title) = %v, want [Tone]", got)
	}
	if src2.Vendor() != vorbistest.Vendor {
		t.Errorf("Vendor() = %q, want %q", src2.Vendor(), vorbistest.Vendor)
	}
	if src2.EngineVersion() != "vorbistest 1.0" {
		t.Errorf("EngineVersion() = %q", src2.EngineVersion())
	}

	samples, err := audiotest.Collect(src2, 300)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(samples) != 2000 {
		t.Fatalf("decoded %d samples, want 2000", len(samples))
	}
	for i := 0; i < len(samples); i += 2 {
		if samples[i] != 0.5 || samples[i+1] != -0.5 {
			t.Fatalf("frame %d = (%v, %v), want (0.5, -0.5)", i/2, samples[i], samples[i+1])
		}
	}
	if src2.Position() != 1000 {
		t.Errorf("Position() = %d, want 1000", src2.Position())
	}
}

func TestEncode_Layout(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(16000, 2, 1600, 0.25)
	data, st := encodeTest(t, src, WithLayout(1, 8000))
	if st.Format.Channels != 1 || st.Format.SampleRate != 8000 {
		t.Fatalf("Stats.Format = %v, want 1ch 8000Hz", st.Format)
	}

	dec, err := Decoder{Engine: vorbistest.NewEngine()}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	samples, err := audiotest.Collect(dec, 512)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if math.Abs(float64(len(samples))-800) > 2 {
		t.Errorf("decoded %d frames, want about 800", len(samples))
	}
	for i, v := range samples {
		if math.Abs(float64(v-0.25)) > 1e-4 {
			t.Fatalf("sample %d = %v, want 0.25", i, v)
		}
	}
}

func TestEncode_PageFill(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 1, 8000)
	_, small := encodeTest(t, src, WithPageFill(512))
	src.Reset()
	_, large := encodeTest(t, src, WithPageFill(64*1024))
	if small.Pages <= large.Pages {
		t.Errorf("pages with small fill = %d, large fill = %d, want more with the small fill", small.Pages, large.Pages)
	}
}

func TestEncode_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var out bytes.Buffer

	src := audiotest.NewSilentSource(8000, 1, 100)
	if _, err := Encode(ctx, src, &out, nil); !errors.Is(err, ErrNoAnalyzer) {
		t.Errorf("Encode(nil engine) error = %v, want %v", err, ErrNoAnalyzer)
	}
	if _, err := Encode(ctx, src, &out, vorbistest.NewEngine(), WithQuality(2)); !errors.Is(err, stream.ErrInvalidQuality) {
		t.Errorf("Encode(quality 2) error = %v, want %v", err, stream.ErrInvalidQuality)
	}

	failing := audiotest.NewSilentSource(8000, 1, 10000).FailAfter(100)
	if _, err := Encode(ctx, failing, &out, vorbistest.NewEngine()); !errors.Is(err, audiotest.ErrInjected) {
		t.Errorf("Encode(failing source) error = %v, want %v", err, audiotest.ErrInjected)
	}

	eng := vorbistest.NewEngine()
	eng.Fail(stream.OpAnalysis, stream.CodeFault)
	_, err := Encode(ctx, audiotest.NewSilentSource(8000, 1, 10000), &out, eng)
	if !errors.Is(err, stream.ErrProtocol) {
		t.Errorf("Encode(failing engine) error = %v, want %v", err, stream.ErrProtocol)
	}
}

func TestDecoder_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dec := Decoder{Engine: vorbistest.NewEngine()}

	if _, err := dec.Open(ctx, strings.NewReader("not an ogg stream")); !errors.Is(err, ogg.ErrInvalidPage) {
		t.Errorf("Open(garbage) error = %v, want %v", err, ogg.ErrInvalidPage)
	}
	if _, err := dec.Open(ctx, bytes.NewReader(nil)); !errors.Is(err, ErrNoHeaders) {
		t.Errorf("Open(empty) error = %v, want %v", err, ErrNoHeaders)
	}

	// Only the identification header.
	var buf bytes.Buffer
	pw := ogg.NewPacketWriter(&buf)
	id := vorbistest.IDHeader(1, 8000)
	id.BOS = true
	if err := pw.WritePacket(id); err != nil {
		t.Fatal(err)
	}
	if err := pw.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := dec.Open(ctx, &buf); !errors.Is(err, ErrNoHeaders) {
		t.Errorf("Open(id only) error = %v, want %v", err, ErrNoHeaders)
	}

	// A first packet that is not an identification header.
	buf.Reset()
	pw = ogg.NewPacketWriter(&buf)
	if err := pw.WritePacket(vorbistest.SetupHeader()); err != nil {
		t.Fatal(err)
	}
	if err := pw.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := dec.Open(ctx, &buf); !errors.Is(err, stream.ErrProtocol) {
		t.Errorf("Open(setup first) error = %v, want %v", err, stream.ErrProtocol)
	}
}

func TestDecoder_Cancelled(t *testing.T) {
	t.Parallel()

	data, _ := encodeTest(t, audiotest.NewSilentSource(8000, 1, 4000))

	ctx, cancel := context.WithCancel(context.Background())
	src, err := Decoder{Engine: vorbistest.NewEngine()}.Open(ctx, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	cancel()
	if _, err := src.ReadSamples(make([]float32, 64)); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadSamples() error = %v, want %v", err, context.Canceled)
	}
}

func TestProbe_NotVorbis(t *testing.T) {
	t.Parallel()

	if _, err := Probe(strings.NewReader("definitely not ogg")); err == nil {
		t.Error("Probe(garbage) error = nil, want error")
	}
}
