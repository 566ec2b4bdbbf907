// SPDX-License-Identifier: EPL-2.0

package stream

import "fmt"

// Kind is the class of a negative engine return code.
type Kind int

const (
	KindFalse Kind = iota + 1
	KindEOF
	KindHole
	KindRead
	KindFault
	KindNotImplemented
	KindInvalid
	KindNotVorbis
	KindBadHeader
	KindVersion
	KindNotAudio
	KindBadPacket
	KindBadLink
	KindNoSeek
)

// Engine return codes, as defined by libvorbis.
const (
	CodeFalse     = -1
	CodeEOF       = -2
	CodeHole      = -3
	CodeRead      = -128
	CodeFault     = -129
	CodeImpl      = -130
	CodeInval     = -131
	CodeNotVorbis = -132
	CodeBadHeader = -133
	CodeVersion   = -134
	CodeNotAudio  = -135
	CodeBadPacket = -136
	CodeBadLink   = -137
	CodeNoSeek    = -138
)

type kindInfo struct {
	code    int
	name    string
	message string
}

var kinds = map[Kind]kindInfo{
	KindFalse:          {CodeFalse, "OV_FALSE", "not true, or no data available"},
	KindEOF:            {CodeEOF, "OV_EOF", "end of stream reached"},
	KindHole:           {CodeHole, "OV_HOLE", "missing or corrupt data in the bitstream, recovery is normally automatic"},
	KindRead:           {CodeRead, "OV_EREAD", "read error while fetching compressed data for decode"},
	KindFault:          {CodeFault, "OV_EFAULT", "internal inconsistency in encode or decode state, continuing is likely not possible"},
	KindNotImplemented: {CodeImpl, "OV_EIMPL", "feature not implemented"},
	KindInvalid:        {CodeInval, "OV_EINVAL", "invalid argument, or incompletely initialized argument passed to a call"},
	KindNotVorbis:      {CodeNotVorbis, "OV_ENOTVORBIS", "data was not recognized as Vorbis data"},
	KindBadHeader:      {CodeBadHeader, "OV_EBADHEADER", "Vorbis stream with a corrupted or undecipherable header"},
	KindVersion:        {CodeVersion, "OV_EVERSION", "bitstream format revision not supported"},
	KindNotAudio:       {CodeNotAudio, "OV_ENOTAUDIO", "packet is not an audio packet"},
	KindBadPacket:      {CodeBadPacket, "OV_EBADPACKET", "invalid packet"},
	KindBadLink:        {CodeBadLink, "OV_EBADLINK", "stream segment is not decipherable due to garbage or corruption"},
	KindNoSeek:         {CodeNoSeek, "OV_ENOSEEK", "stream is not seekable"},
}

var kindByCode = func() map[int]Kind {
	m := make(map[int]Kind, len(kinds))
	for k, info := range kinds {
		m[info.code] = k
	}
	return m
}()

// Classify maps an engine return code to its Kind. Codes outside the known
// set, including success codes, return an *UnknownCodeError.
func Classify(code int) (Kind, error) {
	k, ok := kindByCode[code]
	if !ok {
		return 0, &UnknownCodeError{Code: code}
	}
	return k, nil
}

// Code is the engine return code of the kind.
func (k Kind) Code() int { return kinds[k].code }

// Message is a human readable description of the kind.
func (k Kind) Message() string { return kinds[k].message }

// Recoverable reports whether the condition is informational only.
func (k Kind) Recoverable() bool { return k == KindHole || k == KindFalse }

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}
