// SPDX-License-Identifier: EPL-2.0

package vorbistest

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/ik5/vorbispipe/stream"
)

const magic = "vorbis"

// Header packet types, as in real Vorbis streams.
const (
	typeID      = 1
	typeComment = 3
	typeSetup   = 5
)

var errShortHeader = errors.New("vorbistest: short header packet")

// IDHeader builds an identification header for channels and rate.
func IDHeader(channels, rate int) stream.Packet {
	b := make([]byte, 0, 1+len(magic)+5)
	b = append(b, typeID)
	b = append(b, magic...)
	b = append(b, byte(channels))
	b = binary.LittleEndian.AppendUint32(b, uint32(rate))
	return stream.Packet{Data: b, Seq: 0, BOS: true}
}

// CommentHeader builds a comment header holding c.
func CommentHeader(c stream.CommentTable) stream.Packet {
	b := []byte{typeComment}
	b = append(b, magic...)
	b = appendString(b, c.Vendor)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(c.Comments)))
	for _, s := range c.Comments {
		b = appendString(b, s)
	}
	return stream.Packet{Data: b, Seq: 1}
}

// SetupHeader builds a setup header.
func SetupHeader() stream.Packet {
	b := append([]byte{typeSetup}, magic...)
	return stream.Packet{Data: b, Seq: 2}
}

// Headers returns the three header packets of a stream.
func Headers(channels, rate int, c stream.CommentTable) []stream.Packet {
	return []stream.Packet{IDHeader(channels, rate), CommentHeader(c), SetupHeader()}
}

// AudioPacket builds an audio packet that decodes to samples.
func AudioPacket(seq int64, samples []float32) stream.Packet {
	data := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.NativeEndian.PutUint32(data[i*4:], math.Float32bits(s))
	}
	return stream.Packet{Data: data, Seq: seq}
}

func appendString(b []byte, s string) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(s)))
	return append(b, s...)
}

func readString(b []byte) (string, []byte, error) {
	if len(b) < 4 {
		return "", nil, errShortHeader
	}
	n := binary.LittleEndian.Uint32(b)
	b = b[4:]
	if uint32(len(b)) < n {
		return "", nil, errShortHeader
	}
	return string(b[:n]), b[n:], nil
}

func parseComments(b []byte) (stream.CommentTable, error) {
	var c stream.CommentTable
	vendor, b, err := readString(b)
	if err != nil {
		return c, err
	}
	c.Vendor = vendor

	if len(b) < 4 {
		return c, errShortHeader
	}
	count := binary.LittleEndian.Uint32(b)
	b = b[4:]
	for range count {
		var s string
		s, b, err = readString(b)
		if err != nil {
			return c, err
		}
		c.Comments = append(c.Comments, s)
	}
	return c, nil
}

func headerType(pkt *stream.Packet) (byte, bool) {
	if len(pkt.Data) < 1+len(magic) || string(pkt.Data[1:1+len(magic)]) != magic {
		return 0, false
	}
	return pkt.Data[0], true
}
