// SPDX-License-Identifier: EPL-2.0

package native

import (
	"context"
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/ik5/vorbispipe/stream"
)

func idHeader(channels, rate int) []byte {
	b := []byte{packetID}
	b = append(b, signature...)
	b = binary.LittleEndian.AppendUint32(b, 0)
	b = append(b, byte(channels))
	b = binary.LittleEndian.AppendUint32(b, uint32(rate))
	b = binary.LittleEndian.AppendUint32(b, 0)
	b = binary.LittleEndian.AppendUint32(b, 128000)
	b = binary.LittleEndian.AppendUint32(b, 0)
	b = append(b, 8|11<<4) // 256 and 2048 sample blocks
	return append(b, 1)
}

func commentHeader(vendor string, comments ...string) []byte {
	b := []byte{packetComment}
	b = append(b, signature...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(vendor)))
	b = append(b, vendor...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(comments)))
	for _, c := range comments {
		b = binary.LittleEndian.AppendUint32(b, uint32(len(c)))
		b = append(b, c...)
	}
	return append(b, 1)
}

func TestHeaderIn_Identification(t *testing.T) {
	t.Parallel()

	e := New()
	var (
		info     stream.StreamInfo
		comments stream.CommentTable
	)
	defer e.ClearInfo(&info, &comments)

	pkt := stream.Packet{Data: idHeader(2, 44100), BOS: true}
	if code := e.HeaderIn(context.Background(), &info, &comments, &pkt); code != 0 {
		t.Fatalf("HeaderIn() = %d, want 0", code)
	}

	if info.Channels != 2 || info.SampleRate != 44100 {
		t.Errorf("info = %d ch %d Hz, want 2 ch 44100 Hz", info.Channels, info.SampleRate)
	}
	if info.BitrateNominal != 128000 {
		t.Errorf("BitrateNominal = %d, want 128000", info.BitrateNominal)
	}
	if info.BlockSizes != [2]int{256, 2048} {
		t.Errorf("BlockSizes = %v, want [256 2048]", info.BlockSizes)
	}
}

func TestHeaderIn_Comments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := New()
	var (
		info     stream.StreamInfo
		comments stream.CommentTable
	)

	id := stream.Packet{Data: idHeader(1, 22050)}
	if code := e.HeaderIn(ctx, &info, &comments, &id); code != 0 {
		t.Fatalf("HeaderIn(id) = %d", code)
	}
	c := stream.Packet{Data: commentHeader("libVorbis I 20200704", "TITLE=A", "ARTIST=B")}
	if code := e.HeaderIn(ctx, &info, &comments, &c); code != 0 {
		t.Fatalf("HeaderIn(comment) = %d", code)
	}

	want := stream.CommentTable{Vendor: "libVorbis I 20200704", Comments: []string{"TITLE=A", "ARTIST=B"}}
	if !reflect.DeepEqual(comments, want) {
		t.Errorf("comments = %+v, want %+v", comments, want)
	}

	if _, code := e.SynthesisInit(ctx, &info); code != stream.CodeInval {
		t.Errorf("SynthesisInit() before setup = %d, want %d", code, stream.CodeInval)
	}
}

func TestHeaderIn_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"empty", nil, stream.CodeNotVorbis},
		{"not vorbis", []byte("OpusHead\x01\x02"), stream.CodeNotVorbis},
		{"comment first", commentHeader("v"), stream.CodeNotVorbis},
		{"truncated id", idHeader(2, 44100)[:12], stream.CodeBadHeader},
		{"unknown version", func() []byte {
			b := idHeader(2, 44100)
			b[7] = 1
			return b
		}(), stream.CodeVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var (
				info     stream.StreamInfo
				comments stream.CommentTable
			)
			pkt := stream.Packet{Data: tt.data}
			if got := New().HeaderIn(context.Background(), &info, &comments, &pkt); got != tt.want {
				t.Errorf("HeaderIn() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHeaderIn_UnsetBitrate(t *testing.T) {
	t.Parallel()

	data := idHeader(2, 44100)
	binary.LittleEndian.PutUint32(data[16:], 0xffffffff) // upper
	var (
		info     stream.StreamInfo
		comments stream.CommentTable
	)
	pkt := stream.Packet{Data: data}
	if code := New().HeaderIn(context.Background(), &info, &comments, &pkt); code != 0 {
		t.Fatalf("HeaderIn() = %d, want 0", code)
	}
	if info.BitrateUpper != -1 || info.BitrateNominal != 128000 || info.BitrateLower != 0 {
		t.Errorf("bitrates = %d/%d/%d, want -1/128000/0",
			info.BitrateUpper, info.BitrateNominal, info.BitrateLower)
	}
}

func TestHeaderIn_TruncatedComments(t *testing.T) {
	t.Parallel()

	full := commentHeader("libVorbis I 20200704", "TITLE=A", "ARTIST=B")
	tests := []struct {
		name string
		data []byte
	}{
		{"vendor length only", full[:9]},
		{"vendor cut", full[:20]},
		{"no comment count", full[:7+4+20]},
		{"comment cut", full[:len(full)-4]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			e := New()
			var (
				info     stream.StreamInfo
				comments stream.CommentTable
			)
			id := stream.Packet{Data: idHeader(2, 44100)}
			if code := e.HeaderIn(ctx, &info, &comments, &id); code != 0 {
				t.Fatalf("HeaderIn(id) = %d", code)
			}
			c := stream.Packet{Data: tt.data}
			if code := e.HeaderIn(ctx, &info, &comments, &c); code != stream.CodeBadHeader {
				t.Errorf("HeaderIn(comment) = %d, want %d", code, stream.CodeBadHeader)
			}
		})
	}
}

func TestHeaderIn_OutOfOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := New()
	var (
		info     stream.StreamInfo
		comments stream.CommentTable
	)

	id := stream.Packet{Data: idHeader(2, 48000)}
	if code := e.HeaderIn(ctx, &info, &comments, &id); code != 0 {
		t.Fatalf("HeaderIn(id) = %d", code)
	}
	again := stream.Packet{Data: idHeader(2, 48000)}
	if code := e.HeaderIn(ctx, &info, &comments, &again); code != stream.CodeBadHeader {
		t.Errorf("HeaderIn(id twice) = %d, want %d", code, stream.CodeBadHeader)
	}
}

func TestIsVorbis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := New()

	if !stream.IsVorbis(ctx, e, stream.Packet{Data: idHeader(2, 44100)}) {
		t.Error("IsVorbis(identification header) = false")
	}
	if stream.IsVorbis(ctx, e, stream.Packet{Data: []byte("OggS")}) {
		t.Error("IsVorbis(garbage) = true")
	}
}

func TestSynthesisPCMOut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := New()
	d := &dspState{pending: []float32{1, -1, 2, -2, 3, -3}}

	data, n := e.SynthesisPCMOut(ctx, d, 2, 2)
	if n != 2 {
		t.Fatalf("SynthesisPCMOut() = %d frames, want 2", n)
	}
	got := stream.PCMBlock{Data: data, Channels: 2}.Samples()
	if !reflect.DeepEqual(got, []float32{1, -1, 2, -2}) {
		t.Errorf("samples = %v", got)
	}

	if _, n = e.SynthesisPCMOut(ctx, d, 2, 0); n != 1 {
		t.Errorf("SynthesisPCMOut() = %d frames, want 1", n)
	}
	if _, n = e.SynthesisPCMOut(ctx, d, 2, 0); n != 0 {
		t.Errorf("SynthesisPCMOut() on empty state = %d, want 0", n)
	}

	d.Close()
	if _, n = e.SynthesisPCMOut(ctx, d, 2, 0); n != stream.CodeFault {
		t.Errorf("SynthesisPCMOut() after Close = %d, want %d", n, stream.CodeFault)
	}
}

func TestSynthesis_RejectsHeaderPacket(t *testing.T) {
	t.Parallel()

	e := New()
	blk := &block{dsp: &dspState{}}
	pkt := stream.Packet{Data: idHeader(2, 44100)}
	if code := e.Synthesis(context.Background(), blk, &pkt); code != stream.CodeNotAudio {
		t.Errorf("Synthesis(header) = %d, want %d", code, stream.CodeNotAudio)
	}

	empty := stream.Packet{EOS: true}
	if code := e.Synthesis(context.Background(), blk, &empty); code != 0 {
		t.Errorf("Synthesis(empty) = %d, want 0", code)
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	if got := stream.EngineVersion(New()); got == "unknown" || got == "" {
		t.Errorf("EngineVersion() = %q", got)
	}
}
