// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Page header flags.
const (
	FlagContinued = 0x01
	FlagBOS       = 0x02
	FlagEOS       = 0x04
)

const (
	headerSize   = 27
	maxSegments  = 255
	captureMagic = "OggS"
)

// NoGranule is the granule position of a page on which no packet ends.
const NoGranule int64 = -1

// Page is a single Ogg page.
type Page struct {
	Flags      byte
	GranulePos int64
	Serial     uint32
	Sequence   uint32
	Segments   []byte
	Payload    []byte
}

func (p *Page) BOS() bool       { return p.Flags&FlagBOS != 0 }
func (p *Page) EOS() bool       { return p.Flags&FlagEOS != 0 }
func (p *Page) Continued() bool { return p.Flags&FlagContinued != 0 }

// Complete reports whether the last packet on the page ends on it.
func (p *Page) Complete() bool {
	return len(p.Segments) == 0 || p.Segments[len(p.Segments)-1] < 255
}

// SegmentTable returns the lacing values for a packet of n bytes.
func SegmentTable(n int) []byte {
	segs := make([]byte, n/255+1)
	for i := range len(segs) - 1 {
		segs[i] = 255
	}
	segs[len(segs)-1] = byte(n % 255)
	return segs
}

// Encode serialises the page and fills in its checksum.
func (p *Page) Encode() []byte {
	hdr := headerSize + len(p.Segments)
	data := make([]byte, hdr+len(p.Payload))

	copy(data, captureMagic)
	data[4] = 0
	data[5] = p.Flags
	binary.LittleEndian.PutUint64(data[6:], uint64(p.GranulePos))
	binary.LittleEndian.PutUint32(data[14:], p.Serial)
	binary.LittleEndian.PutUint32(data[18:], p.Sequence)
	data[26] = byte(len(p.Segments))
	copy(data[headerSize:], p.Segments)
	copy(data[hdr:], p.Payload)

	binary.LittleEndian.PutUint32(data[22:], crcUpdate(0, data))
	return data
}

// ReadPage reads one page from r. It returns io.EOF when r is exhausted
// on a page boundary.
func ReadPage(r io.Reader) (*Page, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: short page header", ErrInvalidPage)
		}
		return nil, err
	}
	if string(hdr[:4]) != captureMagic {
		return nil, fmt.Errorf("%w: missing capture pattern", ErrInvalidPage)
	}
	if hdr[4] != 0 {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidPage, hdr[4])
	}

	p := &Page{
		Flags:      hdr[5],
		GranulePos: int64(binary.LittleEndian.Uint64(hdr[6:])),
		Serial:     binary.LittleEndian.Uint32(hdr[14:]),
		Sequence:   binary.LittleEndian.Uint32(hdr[18:]),
		Segments:   make([]byte, hdr[26]),
	}
	stored := binary.LittleEndian.Uint32(hdr[22:])

	if _, err := io.ReadFull(r, p.Segments); err != nil {
		return nil, fmt.Errorf("%w: short segment table", ErrInvalidPage)
	}
	size := 0
	for _, s := range p.Segments {
		size += int(s)
	}
	p.Payload = make([]byte, size)
	if _, err := io.ReadFull(r, p.Payload); err != nil {
		return nil, fmt.Errorf("%w: short payload", ErrInvalidPage)
	}

	clear(hdr[22:26])
	crc := crcUpdate(0, hdr[:])
	crc = crcUpdate(crc, p.Segments)
	crc = crcUpdate(crc, p.Payload)
	if crc != stored {
		return nil, fmt.Errorf("%w: page %d", ErrBadCRC, p.Sequence)
	}
	return p, nil
}
