package protocol

import "math/bits"

// The nRF24 transmits the XN297 preamble as its address; the XN297 address,
// payload and CRC follow inside the nRF payload, scrambled and bit reversed
// the way the XN297 expects them on air.

var xn297Preamble = []byte{0x55, 0x0F, 0x71}

var xn297Scramble = [...]byte{
	0xE3, 0xB1, 0x4B, 0xEA, 0x85, 0xBC, 0xE5, 0x66,
	0x0D, 0xAE, 0x8C, 0x88, 0x12, 0x69, 0xEE, 0x1F,
	0xC7, 0x62, 0x97, 0xD5, 0x0B, 0x79, 0xCA, 0xCC,
	0x1B, 0x5D, 0x19, 0x10, 0x24, 0xD3, 0xDC, 0x3F,
	0x8E, 0xC5, 0x2F,
}

// indexed by address length - 3 + payload length
var xn297CRCXorOut = [...]uint16{
	0x0000, 0x3448, 0x9BA7, 0x8BBB, 0x85E1, 0x3E8C,
	0x451E, 0x18E6, 0x6B24, 0xE7AB, 0x3828, 0x814B,
	0xD461, 0xF494, 0x2503, 0x691D, 0xFE8B, 0x9BA7,
	0x8B17, 0x2920, 0x8B5F, 0x61B1, 0xD391, 0x7401,
	0x2138, 0x129F, 0xB3A0, 0x2988,
}

const xn297CRCInit = 0xB5D2

type xn297 struct {
	addr [5]byte
	n    int
}

func (x *xn297) setAddress(addr []byte) {
	x.n = copy(x.addr[:], addr)
}

// encode appends the framed payload to dst. The caller keeps payloads
// short enough for the scramble table.
func (x *xn297) encode(dst, payload []byte) []byte {
	out := dst[:0]
	for i := 0; i < x.n; i++ {
		out = append(out, x.addr[x.n-i-1]^xn297Scramble[i])
	}
	for i, b := range payload {
		out = append(out, bits.Reverse8(b)^xn297Scramble[x.n+i])
	}

	crc := uint16(xn297CRCInit)
	for _, b := range out {
		crc = crc16(crc, b)
	}
	crc ^= xn297CRCXorOut[x.n-3+len(payload)]
	return append(out, byte(crc>>8), byte(crc))
}

// maxXN297Payload is the longest payload a five byte address leaves room for.
const maxXN297Payload = len(xn297CRCXorOut) - 3

func crc16(crc uint16, b byte) uint16 {
	crc ^= uint16(b) << 8
	for i := 0; i < 8; i++ {
		if crc&0x8000 != 0 {
			crc = crc<<1 ^ 0x1021
		} else {
			crc <<= 1
		}
	}
	return crc
}
