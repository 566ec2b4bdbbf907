// SPDX-License-Identifier: EPL-2.0

// Package stream converts between Vorbis codec packets and raw PCM blocks
// one unit at a time.
//
// The package does not implement the Vorbis transform itself. All DSP work
// is delegated to a codec engine (see Synthesizer and Analyzer) and all Ogg
// page framing to a container layer (see the container/ogg package). What
// lives here is the orchestration around them: the three-packet header
// handshake, the packet/block conversion loops and end-of-stream handling.
//
// # Decoding
//
// Packets are pushed with Decoder.Ingest in arrival order and PCM is pulled
// with Decoder.Drain:
//
//	dec := stream.NewDecoder(native.New())
//	defer dec.Close()
//
//	for pkt := range packets {
//	    events, err := dec.Ingest(ctx, pkt)
//	    // EventHeaderProgress, then EventFormat + EventComments after the
//	    // third header, then EventBlockReady or EventQueued per packet.
//	    for {
//	        ev, err := dec.Drain(ctx, 4096)
//	        if ev.Kind != stream.EventPCM {
//	            break // EventNeedInput or EventStreamEnd
//	        }
//	        consume(ev.Block)
//	    }
//	}
//
// A packet ingested while the previous block still holds undrained PCM is
// queued and integrated by a later Drain, so the producer and consumer may
// run at different cadences without reordering or dropping anything.
//
// # Encoding
//
// The encoder accepts interleaved native-endian float32 bytes:
//
//	enc, err := stream.NewEncoder(engine, stream.WithQuality(0.4))
//	enc.AddComment("ENCODER", "vorbispipe")
//	events, err := enc.Submit(ctx, pcmBytes) // header packets come first
//	events, err = enc.Finish(ctx)            // trailing packets + EventStreamEnd
//
// Every EventPacket carries the hints the container needs: OwnPage on the
// identification header, Flush on the setup header and PageOut on audio
// packets.
//
// # Errors
//
// Engine failures are reported as *EngineError (matching ErrProtocol and an
// operation sentinel such as ErrSynthesis) or *UnknownCodeError when the
// return code is outside the known range. Bad formats, qualities and
// misaligned buffers match ErrConfiguration. Any failure is terminal: the
// instance returns the same error from every later call.
//
// Decoders and encoders are not safe for concurrent use.
package stream
