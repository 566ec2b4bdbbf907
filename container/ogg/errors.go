// SPDX-License-Identifier: EPL-2.0

package ogg

import "errors"

var (
	// ErrInvalidPage is returned for a page without the OggS capture
	// pattern, with an unknown version or truncated data.
	ErrInvalidPage = errors.New("ogg: invalid page structure")

	// ErrBadCRC is returned when the page checksum does not match.
	ErrBadCRC = errors.New("ogg: CRC mismatch")

	// ErrNoBOS is returned when a stream does not start with a BOS page.
	ErrNoBOS = errors.New("ogg: stream does not begin with a BOS page")

	// ErrUnexpectedEOS is returned when the input ends before the EOS page.
	ErrUnexpectedEOS = errors.New("ogg: unexpected end of stream")

	// ErrWriterClosed is returned by a PacketWriter after Close or after
	// an EOS packet.
	ErrWriterClosed = errors.New("ogg: writer closed")
)
