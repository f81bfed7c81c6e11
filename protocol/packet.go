package protocol

import (
	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/radio"
)

// Packet is a module's private transmit buffer.
type Packet [radio.MaxPayload]byte

// scale maps a channel value in [ppm.Min, ppm.Max] linearly onto [lo, hi].
// hi may be below lo to invert the axis.
func scale(v uint16, lo, hi int) int {
	return lo + (int(ppm.Clamp(v))-ppm.Min)*(hi-lo)/(ppm.Max-ppm.Min)
}

func scaleByte(v uint16, lo, hi int) byte { return byte(scale(v, lo, hi)) }

// signMagnitude encodes the deflection from centre as a magnitude up to max,
// with bit 7 set below centre.
func signMagnitude(v uint16, max uint8) byte {
	d := int(ppm.Clamp(v)) - ppm.Mid
	if d < 0 {
		return 0x80 | byte(-d*int(max)/(ppm.Mid-ppm.Min))
	}
	return byte(d * int(max) / (ppm.Max - ppm.Mid))
}

// flag returns mask when channel ch is switched on.
func flag(f ppm.Frame, ch int, mask byte) byte {
	if f.Flag(ch) {
		return mask
	}
	return 0
}

// position3 reads a three position switch as 0, 1 or 2.
func position3(f ppm.Frame, ch int) byte {
	switch {
	case f.Low(ch):
		return 0
	case f.High(ch):
		return 2
	}
	return 1
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func sum(b []byte) byte {
	var s byte
	for _, v := range b {
		s += v
	}
	return s
}

func xor(b []byte) byte {
	var s byte
	for _, v := range b {
		s ^= v
	}
	return s
}

func (p *Packet) clear() { *p = Packet{} }
