// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ik5/vorbispipe/stream"
)

// DefaultPageFill is the payload size at which a PageOut hint closes the
// current page.
const DefaultPageFill = 4096

// PacketWriter frames packets of one logical stream into pages.
type PacketWriter struct {
	w   io.Writer
	log *slog.Logger

	serial   uint32
	fill     int
	sequence uint32

	segs      []byte
	body      []byte
	granule   int64
	continued bool

	bosWritten bool
	closed     bool
	pages      int
}

// WriterOption configures a PacketWriter.
type WriterOption func(*PacketWriter)

// WithSerial sets the stream serial number instead of a random one.
func WithSerial(serial uint32) WriterOption {
	return func(pw *PacketWriter) { pw.serial = serial }
}

// WithPageFill sets the payload size at which PageOut closes a page.
func WithPageFill(n int) WriterOption {
	return func(pw *PacketWriter) {
		if n > 0 {
			pw.fill = n
		}
	}
}

// WithWriterLogger sets the logger used for debug traces.
func WithWriterLogger(l *slog.Logger) WriterOption {
	return func(pw *PacketWriter) {
		if l != nil {
			pw.log = l
		}
	}
}

// NewPacketWriter returns a writer emitting pages to w. The serial number
// is random unless WithSerial is given.
func NewPacketWriter(w io.Writer, opts ...WriterOption) *PacketWriter {
	pw := &PacketWriter{
		w:       w,
		log:     slog.New(slog.DiscardHandler),
		serial:  uuid.New().ID(),
		fill:    DefaultPageFill,
		granule: NoGranule,
	}
	for _, opt := range opts {
		opt(pw)
	}
	return pw
}

// Serial returns the stream serial number.
func (pw *PacketWriter) Serial() uint32 { return pw.serial }

// Pages returns the number of pages written.
func (pw *PacketWriter) Pages() int { return pw.pages }

// WritePacket adds pkt to the stream and writes every page the packet's
// hints close. An EOS packet ends the stream.
func (pw *PacketWriter) WritePacket(pkt stream.Packet) error {
	if pw.closed {
		return ErrWriterClosed
	}

	if pkt.OwnPage && len(pw.segs) > 0 {
		if err := pw.flush(0); err != nil {
			return err
		}
	}

	segs := SegmentTable(len(pkt.Data))
	data := pkt.Data
	for {
		room := maxSegments - len(pw.segs)
		if len(segs) <= room {
			break
		}
		// The packet does not fit, fill this page and continue it on the
		// next one. A full page holds none of it and is not continued.
		n := room * 255
		pw.segs = append(pw.segs, segs[:room]...)
		pw.body = append(pw.body, data[:n]...)
		segs, data = segs[room:], data[n:]
		if err := pw.flush(0); err != nil {
			return err
		}
		pw.continued = room > 0
	}
	pw.segs = append(pw.segs, segs...)
	pw.body = append(pw.body, data...)
	pw.granule = pkt.GranulePos

	switch {
	case pkt.EOS:
		if err := pw.flush(FlagEOS); err != nil {
			return err
		}
		pw.closed = true
		return nil
	case pkt.OwnPage, pkt.Flush:
		return pw.flush(0)
	case pkt.PageOut && len(pw.body) >= pw.fill:
		return pw.flush(0)
	}
	return nil
}

// WriteEvents writes the packets held by events. Other events are ignored.
func (pw *PacketWriter) WriteEvents(events []stream.Event) error {
	for _, ev := range events {
		if ev.Kind != stream.EventPacket {
			continue
		}
		if err := pw.WritePacket(ev.Packet); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered packets as a page.
func (pw *PacketWriter) Flush() error {
	if pw.closed || len(pw.segs) == 0 {
		return nil
	}
	return pw.flush(0)
}

// Close ends the stream. Buffered packets go out on a final EOS page; a
// stream already ended by an EOS packet is left as is.
func (pw *PacketWriter) Close() error {
	if pw.closed {
		return nil
	}
	pw.closed = true
	if len(pw.segs) == 0 && !pw.bosWritten {
		return nil
	}
	return pw.flush(FlagEOS)
}

func (pw *PacketWriter) flush(flags byte) error {
	page := Page{
		Flags:      flags,
		GranulePos: pw.granule,
		Serial:     pw.serial,
		Sequence:   pw.sequence,
		Segments:   pw.segs,
		Payload:    pw.body,
	}
	if pw.continued {
		page.Flags |= FlagContinued
	}
	if !pw.bosWritten {
		page.Flags |= FlagBOS
	}

	if _, err := pw.w.Write(page.Encode()); err != nil {
		return fmt.Errorf("ogg: write page %d: %w", pw.sequence, err)
	}
	pw.log.Debug("page out",
		"seq", pw.sequence, "segments", len(pw.segs), "bytes", len(pw.body),
		"granule", page.GranulePos, "flags", page.Flags)

	pw.pages++
	pw.sequence++
	pw.bosWritten = true
	pw.continued = false
	pw.segs = pw.segs[:0]
	pw.body = pw.body[:0]
	pw.granule = NoGranule
	return nil
}
