// SPDX-License-Identifier: EPL-2.0

// Package ogg frames codec packets into Ogg pages and back.
//
// It handles one logical bitstream at a time. PacketReader splits pages
// into stream.Packet values, setting BOS on the first packet and EOS on
// the last. PacketWriter turns packets into pages and honours the
// placement hints produced by stream.Encoder: OwnPage, Flush and PageOut.
package ogg
