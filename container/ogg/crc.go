// SPDX-License-Identifier: EPL-2.0

package ogg

// The Ogg checksum is CRC-32 with polynomial 0x04C11DB7, no reflection and
// a zero initial value, which hash/crc32 cannot express.

var crcTable = func() (t [256]uint32) {
	const poly = uint32(0x04C11DB7)
	for i := range t {
		crc := uint32(i) << 24
		for range 8 {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}()

func crcUpdate(crc uint32, data []byte) uint32 {
	for _, b := range data {
		crc = crc<<8 ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}
