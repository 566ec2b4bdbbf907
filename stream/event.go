// SPDX-License-Identifier: EPL-2.0

package stream

import "fmt"

// EventKind tags the variant held by an Event.
type EventKind int

const (
	// EventHeaderProgress: a header packet was accepted, more are expected.
	EventHeaderProgress EventKind = iota + 1
	// EventFormat: stream info is final, see Event.Info.
	EventFormat
	// EventComments: the comment table is final, see Event.Comments.
	EventComments
	// EventBlockReady: a packet was integrated and PCM may be drained.
	EventBlockReady
	// EventQueued: the packet is held until the current block is drained.
	EventQueued
	// EventPCM: decoded samples, see Event.Block.
	EventPCM
	// EventNeedInput: the decoder needs another packet.
	EventNeedInput
	// EventPacket: an encoded packet, see Event.Packet.
	EventPacket
	// EventStreamEnd: the stream is complete.
	EventStreamEnd
)

var eventKindNames = map[EventKind]string{
	EventHeaderProgress: "header-progress",
	EventFormat:         "format",
	EventComments:       "comments",
	EventBlockReady:     "block-ready",
	EventQueued:         "queued",
	EventPCM:            "pcm",
	EventNeedInput:      "need-input",
	EventPacket:         "packet",
	EventStreamEnd:      "stream-end",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is the outcome of a Decoder or Encoder operation. Only the field
// that belongs to Kind is set.
type Event struct {
	Kind EventKind

	// HeadersLeft is set for EventHeaderProgress.
	HeadersLeft int
	Info        StreamInfo
	Comments    CommentTable
	Block       PCMBlock
	Packet      Packet
}
