// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"strings"

	"github.com/ik5/vorbispipe/pcm"
)

// HeaderPackets is the number of header packets preceding audio data:
// identification, comments and setup.
const HeaderPackets = 3

// StreamInfo is the codec metadata of one logical stream.
type StreamInfo struct {
	Version    int
	Channels   int
	SampleRate int

	BitrateUpper   int
	BitrateNominal int
	BitrateLower   int

	// BlockSizes holds the short and long block sizes in samples.
	BlockSizes [2]int

	// Engine is private state of the codec engine that filled this info.
	// It is never copied into events.
	Engine any
}

// Format returns the PCM layout produced or consumed for this stream.
func (i StreamInfo) Format() pcm.Format {
	f := pcm.DefaultFormat()
	f.Channels = i.Channels
	f.SampleRate = i.SampleRate
	return f
}

func (i StreamInfo) public() StreamInfo {
	i.Engine = nil
	return i
}

// CommentTable holds the vendor string and the KEY=value user comments of
// a stream, in order.
type CommentTable struct {
	Vendor   string
	Comments []string
}

// Add appends a KEY=value comment.
func (c *CommentTable) Add(key, value string) {
	c.Comments = append(c.Comments, key+"="+value)
}

// Lookup returns the values of all comments whose key equals key, ignoring
// case as Vorbis comment keys are case insensitive.
func (c CommentTable) Lookup(key string) []string {
	var values []string
	for _, comment := range c.Comments {
		k, v, ok := strings.Cut(comment, "=")
		if ok && strings.EqualFold(k, key) {
			values = append(values, v)
		}
	}
	return values
}

// Clone returns a deep copy.
func (c CommentTable) Clone() CommentTable {
	out := CommentTable{Vendor: c.Vendor}
	if c.Comments != nil {
		out.Comments = append([]string(nil), c.Comments...)
	}
	return out
}

// Packet is one compressed codec packet.
type Packet struct {
	Data       []byte
	Seq        int64
	GranulePos int64
	BOS        bool
	EOS        bool

	// Container hints, set on packets produced by an Encoder.

	// OwnPage asks for the packet to be placed alone on its page.
	OwnPage bool
	// Flush asks for the current page to be closed after the packet.
	Flush bool
	// PageOut asks the container to emit any page that is complete after
	// the packet was added.
	PageOut bool
}

// Clone returns a copy that does not share Data with p.
func (p Packet) Clone() Packet {
	p.Data = append([]byte(nil), p.Data...)
	return p
}

// PCMBlock is a run of interleaved native-endian float32 samples.
type PCMBlock struct {
	Data     []byte
	Channels int
}

// Frames is the number of samples per channel in the block.
func (b PCMBlock) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Data) / (b.Channels * 4)
}

// Samples decodes the block into a new float32 slice.
func (b PCMBlock) Samples() []float32 {
	out := make([]float32, len(b.Data)/4)
	pcm.BytesToFloat32(out, b.Data)
	return out
}
