// SPDX-License-Identifier: EPL-2.0

package native

import (
	"encoding/binary"
	"errors"
)

const signature = "vorbis"

const (
	packetID      = 1
	packetComment = 3
	packetSetup   = 5
)

// idHeaderSize is the length of a complete identification header.
const idHeaderSize = 30

var errTruncated = errors.New("native: truncated header")

// headerType returns the packet type of a header packet.
func headerType(data []byte) (byte, bool) {
	if len(data) < 1+len(signature) || string(data[1:1+len(signature)]) != signature {
		return 0, false
	}
	return data[0], true
}

// idPrivate reads the identification fields vorbis.Decoder keeps
// unexported: the bitstream version and the two block sizes.
func idPrivate(data []byte) (version int, blocks [2]int, err error) {
	if len(data) < idHeaderSize {
		return 0, blocks, errTruncated
	}
	b := data[7:]
	version = int(binary.LittleEndian.Uint32(b[0:]))
	blocks = [2]int{1 << (b[21] & 0x0f), 1 << (b[21] >> 4)}
	return version, blocks, nil
}

// checkComments walks the length prefixes of a comment header.
// vorbis.Decoder accepts a truncated one without error.
func checkComments(data []byte) error {
	b := data[7:]

	skip := func() error {
		if len(b) < 4 {
			return errTruncated
		}
		n := binary.LittleEndian.Uint32(b)
		b = b[4:]
		if uint64(len(b)) < uint64(n) {
			return errTruncated
		}
		b = b[n:]
		return nil
	}

	if err := skip(); err != nil {
		return err
	}
	if len(b) < 4 {
		return errTruncated
	}
	count := binary.LittleEndian.Uint32(b)
	b = b[4:]
	for range count {
		if err := skip(); err != nil {
			return err
		}
	}
	return nil
}
