package protocol

import (
	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/timing"
	"github.com/ystepanoff/nrfmulti/txid"
)

var h7BindAddress = []byte{0xCC, 0xCC, 0xCC, 0xCC, 0xCC}

var h7Hops = [16]uint8{
	0x02, 0x48, 0x0C, 0x3E, 0x16, 0x34, 0x20, 0x2A,
	0x2A, 0x20, 0x34, 0x16, 0x3E, 0x0C, 0x48, 0x02,
}

// h7 speaks the MT99xx dialect used by the EAchine H7.
type h7 struct {
	link
	id       txid.ID
	checksum byte
	offset   uint8
	hop      int
}

func (m *h7) Init() {
	m.reset()
	m.hop = 0
	m.setAddress(h7BindAddress)
}

func (m *h7) Bind(id txid.ID) {
	m.id = id
	m.checksum = id[0] + id[1]
	m.offset = ((m.checksum&0xF0)>>4 + m.checksum&0x0F) % 8

	p := &m.packet
	p.clear()
	p[0], p[1], p[2], p[3] = 0x20, 0x14, 0x05, 0x11
	copy(p[4:7], id[:3])
	p[7] = m.checksum
	p[8] = m.offset
	m.bind(func(i int) {
		m.send(h7Hops[i%len(h7Hops)])
	})

	m.setAddress([]byte{id[0], id[1], id[2], 0xCC, 0xCC})
}

func (m *h7) Process(f ppm.Frame) timing.Micros {
	next := m.start()
	p := &m.packet
	p[0] = scaleByte(f[ppm.Throttle], 0, 0xE1)
	p[1] = scaleByte(f[ppm.Rudder], 0xE1, 0)
	p[2] = scaleByte(f[ppm.Aileron], 0xE1, 0)
	p[3] = scaleByte(f[ppm.Elevator], 0, 0xE1)
	p[4] = scaleByte(f[ppm.Aux6], 0, 0x3F) // pitch trim
	p[5] = scaleByte(f[ppm.Aux7], 0, 0x3F) // roll trim
	p[6] = 0x20
	p[7] = flag(f, ppm.Aux2, 0x80) | position3(f, ppm.Aux1)
	p[8] = sum(p[:8]) + m.checksum

	m.send(h7Hops[m.hop] + m.offset)
	m.hop = (m.hop + 1) % len(h7Hops)
	return next
}
