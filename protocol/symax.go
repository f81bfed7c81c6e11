package protocol

import (
	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/timing"
	"github.com/ystepanoff/nrfmulti/txid"
)

var (
	symaxBindAddress  = []byte{0xAB, 0xAC, 0xAD, 0xAE, 0xAF}
	symaxBindChannels = [4]uint8{0x4B, 0x30, 0x40, 0x20}
)

type symax struct {
	link
	id   txid.ID
	hops [4]uint8
	hop  int
}

func (m *symax) Init() {
	m.reset()
	m.hop = 0
	m.setAddress(symaxBindAddress)
}

func (m *symax) Bind(id txid.ID) {
	m.id = id
	for i := range m.hops {
		m.hops[i] = 0x0A + (id[0]+id[i])%0x3C
	}

	p := &m.packet
	p[0], p[1], p[2], p[3] = id[3], id[2], id[1], id[0]
	p[4] = 0xA2
	p[5], p[6], p[7] = 0xAA, 0xAA, 0xAA
	p[8] = 0
	p[9] = xor(p[:9]) + 0x55
	m.bind(func(i int) {
		m.send(symaxBindChannels[i%len(symaxBindChannels)])
	})

	m.setAddress([]byte{id[3], id[2], id[1], id[0], 0xA2})
}

func (m *symax) Process(f ppm.Frame) timing.Micros {
	next := m.start()
	p := &m.packet
	p[0] = scaleByte(f[ppm.Throttle], 0, 0xFF)
	p[1] = signMagnitude(f[ppm.Elevator], 0x7F)
	p[2] = signMagnitude(f[ppm.Rudder], 0x7F)
	p[3] = signMagnitude(f[ppm.Aileron], 0x7F)
	p[4] = flag(f, ppm.Aux4, 0x80) | flag(f, ppm.Aux3, 0x40) // video, picture
	p[5] = 0xC0                                              // high rates
	p[6] = flag(f, ppm.Aux2, 0x40)
	p[7] = flag(f, ppm.Aux5, 0x80)
	p[8] = 0
	p[9] = xor(p[:9]) + 0x55

	m.send(m.hops[m.hop])
	m.hop = (m.hop + 1) % len(m.hops)
	return next
}
