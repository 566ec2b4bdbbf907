// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"

	"github.com/ik5/vorbispipe/pcm"
)

// Error categories.
var (
	// ErrConfiguration is matched by every caller error: bad format,
	// quality or buffer alignment, or a late comment.
	ErrConfiguration = errors.New("vorbis: configuration error")

	// ErrProtocol is matched by every *EngineError.
	ErrProtocol = errors.New("vorbis: engine call failed")

	// ErrUnknownCode is matched by every *UnknownCodeError.
	ErrUnknownCode = errors.New("vorbis: unknown engine return code")
)

// Configuration errors.
var (
	ErrInvalidQuality       = fmt.Errorf("%w: quality must be within [-0.1, 1.0]", ErrConfiguration)
	ErrFrameAlignment       = fmt.Errorf("%w: %w", ErrConfiguration, pcm.ErrFrameAlignment)
	ErrHeaderAlreadyWritten = fmt.Errorf("%w: header packets already written", ErrConfiguration)
	ErrFormatLocked         = fmt.Errorf("%w: format cannot change after the header packets", ErrConfiguration)
)

// Lifecycle errors.
var (
	ErrClosed   = errors.New("vorbis: instance closed")
	ErrNotReady = errors.New("vorbis: header packets not yet parsed")
	ErrFinished = errors.New("vorbis: encoder already finished")
)

// Op names the engine primitive an error came from.
type Op string

const (
	OpHeaderIn        Op = "headerin"
	OpSynthesisInit   Op = "synthesis_init"
	OpBlockInit       Op = "block_init"
	OpSynthesis       Op = "synthesis"
	OpBlockin         Op = "synthesis_blockin"
	OpPCMOut          Op = "synthesis_pcmout"
	OpEncodeInit      Op = "encode_init_vbr"
	OpAnalysisInit    Op = "analysis_init"
	OpHeaderOut       Op = "analysis_headerout"
	OpAnalysisWrite   Op = "analysis_write"
	OpAnalysisEOS     Op = "analysis_eos"
	OpBlockout        Op = "analysis_blockout"
	OpAnalysis        Op = "analysis"
	OpBitrateAddBlock Op = "bitrate_addblock"
	OpFlushPacket     Op = "bitrate_flushpacket"
)

// Per operation sentinels, matched by *EngineError and *UnknownCodeError
// with the same Op.
var (
	ErrHeaderParse     = errors.New("vorbis: header parse failed")
	ErrSynthesisInit   = errors.New("vorbis: synthesis init failed")
	ErrBlockInit       = errors.New("vorbis: block init failed")
	ErrSynthesis       = errors.New("vorbis: synthesis failed")
	ErrBlockin         = errors.New("vorbis: block integration failed")
	ErrPCMOut          = errors.New("vorbis: pcm extraction failed")
	ErrEncodeInit      = errors.New("vorbis: encoder init failed")
	ErrAnalysisInit    = errors.New("vorbis: analysis init failed")
	ErrHeaderOut       = errors.New("vorbis: header packet creation failed")
	ErrAnalysisWrite   = errors.New("vorbis: analysis write failed")
	ErrAnalysisEOS     = errors.New("vorbis: end of stream marking failed")
	ErrBlockout        = errors.New("vorbis: block extraction failed")
	ErrAnalysis        = errors.New("vorbis: block analysis failed")
	ErrBitrateAddBlock = errors.New("vorbis: bitrate management failed")
	ErrFlushPacket     = errors.New("vorbis: packet flush failed")
)

var opErrors = map[Op]error{
	OpHeaderIn:        ErrHeaderParse,
	OpSynthesisInit:   ErrSynthesisInit,
	OpBlockInit:       ErrBlockInit,
	OpSynthesis:       ErrSynthesis,
	OpBlockin:         ErrBlockin,
	OpPCMOut:          ErrPCMOut,
	OpEncodeInit:      ErrEncodeInit,
	OpAnalysisInit:    ErrAnalysisInit,
	OpHeaderOut:       ErrHeaderOut,
	OpAnalysisWrite:   ErrAnalysisWrite,
	OpAnalysisEOS:     ErrAnalysisEOS,
	OpBlockout:        ErrBlockout,
	OpAnalysis:        ErrAnalysis,
	OpBitrateAddBlock: ErrBitrateAddBlock,
	OpFlushPacket:     ErrFlushPacket,
}

// EngineError is a classified failure of an engine primitive.
type EngineError struct {
	Op   Op
	Code int
	Kind Kind
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("vorbis: %s(): %s (%s, code %d)", e.Op, e.Kind.Message(), e.Kind, e.Code)
}

func (e *EngineError) Is(target error) bool {
	return target == ErrProtocol || (target != nil && target == opErrors[e.Op])
}

// UnknownCodeError is an engine failure whose code could not be classified.
type UnknownCodeError struct {
	Op   Op
	Code int
}

func (e *UnknownCodeError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %d", ErrUnknownCode, e.Code)
	}
	return fmt.Sprintf("%s: %s() returned %d", ErrUnknownCode, e.Op, e.Code)
}

func (e *UnknownCodeError) Is(target error) bool {
	return target == ErrUnknownCode || (target != nil && target == opErrors[e.Op])
}

// engineError classifies a failed primitive call.
func engineError(op Op, code int) error {
	kind, err := Classify(code)
	if err != nil {
		return &UnknownCodeError{Op: op, Code: code}
	}
	return &EngineError{Op: op, Code: code, Kind: kind}
}
