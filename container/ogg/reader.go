// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/vorbispipe/stream"
)

// PacketReader reads the packets of the first logical stream found in an
// Ogg byte stream. Pages of other logical streams are skipped.
type PacketReader struct {
	r   io.Reader
	log *slog.Logger

	serial  uint32
	started bool
	nextSeq uint32
	eos     bool

	partial []byte
	queue   []stream.Packet
	seq     int64
	pages   int
}

// ReaderOption configures a PacketReader.
type ReaderOption func(*PacketReader)

// WithReaderLogger sets the logger used for debug traces.
func WithReaderLogger(l *slog.Logger) ReaderOption {
	return func(pr *PacketReader) {
		if l != nil {
			pr.log = l
		}
	}
}

// NewPacketReader returns a reader over r.
func NewPacketReader(r io.Reader, opts ...ReaderOption) *PacketReader {
	pr := &PacketReader{
		r:   bufio.NewReader(r),
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(pr)
	}
	return pr
}

// Serial returns the serial number of the stream being read, valid after
// the first packet.
func (pr *PacketReader) Serial() uint32 { return pr.serial }

// Pages returns the number of pages consumed from the stream.
func (pr *PacketReader) Pages() int { return pr.pages }

// ReadPacket returns the next packet. The last packet of the stream has
// EOS set, after which io.EOF is returned.
func (pr *PacketReader) ReadPacket() (stream.Packet, error) {
	for len(pr.queue) == 0 {
		if pr.eos {
			return stream.Packet{}, io.EOF
		}
		if err := pr.readPage(); err != nil {
			return stream.Packet{}, err
		}
	}

	pkt := pr.queue[0]
	pr.queue[0] = stream.Packet{}
	pr.queue = pr.queue[1:]
	return pkt, nil
}

func (pr *PacketReader) readPage() error {
	page, err := ReadPage(pr.r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			if !pr.started {
				return io.EOF
			}
			return ErrUnexpectedEOS
		}
		return err
	}

	if !pr.started {
		if !page.BOS() {
			return ErrNoBOS
		}
		pr.started = true
		pr.serial = page.Serial
		pr.nextSeq = page.Sequence
		pr.log.Debug("ogg stream", "serial", page.Serial)
	}
	if page.Serial != pr.serial {
		pr.log.Debug("skipping page of another stream", "serial", page.Serial)
		return nil
	}

	pr.pages++
	if page.Sequence != pr.nextSeq {
		pr.log.Debug("page sequence gap", "want", pr.nextSeq, "got", page.Sequence)
		pr.partial = nil
	}
	pr.nextSeq = page.Sequence + 1

	segs, body := page.Segments, page.Payload
	if page.Continued() && pr.partial == nil {
		// The start of this packet was lost, skip its tail.
		for len(segs) > 0 {
			n := int(segs[0])
			segs, body = segs[1:], body[n:]
			if n < 255 {
				break
			}
		}
	} else if !page.Continued() && pr.partial != nil {
		return fmt.Errorf("%w: page %d does not continue packet %d", ErrInvalidPage, page.Sequence, pr.seq)
	}

	first := len(pr.queue)
	for _, s := range segs {
		n := int(s)
		pr.partial = append(pr.partial, body[:n]...)
		body = body[n:]
		if n == 255 {
			continue
		}

		pkt := stream.Packet{Data: pr.partial, Seq: pr.seq, GranulePos: NoGranule}
		if pr.seq == 0 {
			pkt.BOS = true
		}
		if pkt.Data == nil {
			pkt.Data = []byte{}
		}
		pr.queue = append(pr.queue, pkt)
		pr.partial = nil
		pr.seq++
	}

	if last := len(pr.queue) - 1; last >= first {
		pr.queue[last].GranulePos = page.GranulePos
		pr.queue[last].EOS = page.EOS()
	} else if page.EOS() {
		// An EOS page that ends no packet still ends the stream.
		pr.queue = append(pr.queue, stream.Packet{Data: []byte{}, Seq: pr.seq, GranulePos: page.GranulePos, EOS: true})
		pr.seq++
	}
	if page.EOS() {
		pr.eos = true
	}
	return nil
}
