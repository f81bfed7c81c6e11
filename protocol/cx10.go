package protocol

import (
	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/timing"
	"github.com/ystepanoff/nrfmulti/txid"
)

const cx10BindChannel = 0x02

var cx10Address = []byte{0xCC, 0xCC, 0xCC, 0xCC, 0xCC}

// cx10 speaks the Cheerson dialect. The blue board packet carries four
// extra bytes for the receiver id, which stay 0xFF since nothing is read
// back from the model.
type cx10 struct {
	link
	blue bool
	id   txid.ID
	hops [4]uint8
	hop  int
}

func (m *cx10) Init() {
	m.reset()
	m.hop = 0
	m.setAddress(cx10Address)
}

func (m *cx10) Bind(id txid.ID) {
	m.id = id
	m.hops = cx10Hops(id, m.blue)
	m.bind(func(int) {
		m.build(ppm.DefaultFrame, true)
		m.send(cx10BindChannel)
	})
}

// cx10Hops derives the four data channels from the first two id bytes. The
// blue board pairs the nibbles the other way round on its own base
// channels, so the two variants never share a table.
func cx10Hops(id txid.ID, blue bool) [4]uint8 {
	if blue {
		return [4]uint8{
			id[0]>>4 + 0x0A,
			id[0]&0x0F + 0x1E,
			id[1]>>4 + 0x32,
			id[1]&0x0F + 0x46,
		}
	}
	return [4]uint8{
		id[0]&0x0F + 0x03,
		id[0]>>4 + 0x16,
		id[1]&0x0F + 0x2D,
		id[1]>>4 + 0x40,
	}
}

func (m *cx10) Process(f ppm.Frame) timing.Micros {
	next := m.start()
	m.build(f, false)
	m.send(m.hops[m.hop])
	m.hop = (m.hop + 1) % len(m.hops)
	return next
}

func (m *cx10) build(f ppm.Frame, bind bool) {
	p := &m.packet
	p[0] = 0x55
	if bind {
		p[0] = 0xAA
	}
	copy(p[1:5], m.id[:])

	off := 5
	if m.blue {
		p[5], p[6], p[7], p[8] = 0xFF, 0xFF, 0xFF, 0xFF
		off = 9
	}
	putLE16(p[off:], uint16(scale(f[ppm.Aileron], ppm.Max, ppm.Min)))
	putLE16(p[off+2:], uint16(scale(f[ppm.Elevator], ppm.Max, ppm.Min)))
	putLE16(p[off+4:], ppm.Clamp(f[ppm.Throttle]))
	putLE16(p[off+6:], ppm.Clamp(f[ppm.Rudder]))
	p[off+7] |= flag(f, ppm.Aux2, 0x10) // flip

	p[off+8] = position3(f, ppm.Aux1) | flag(f, ppm.Aux5, 0x10)  // rate, headless
	p[off+9] = flag(f, ppm.Aux3, 0x08) | flag(f, ppm.Aux4, 0x10) // snapshot, video
}
