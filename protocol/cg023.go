package protocol

import (
	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/timing"
	"github.com/ystepanoff/nrfmulti/txid"
)

const cg023BindChannel = 0x2D

var cg023Address = []byte{0x26, 0xA8, 0x67, 0x35, 0xCC}

// auxFlags maps Aux1..Aux5 onto a dialect's flag bits.
type auxFlags [5]byte

var (
	cg023Flags = auxFlags{0x00, 0x01, 0x10, 0x20, 0x08} // -, flip, still, video, headless
	yd829Flags = auxFlags{0x00, 0x01, 0x04, 0x08, 0x20}
)

// cg023 covers the EAchine CG023 and the YD-829, which share a packet but
// differ in flag bits and period.
type cg023 struct {
	link
	flags   auxFlags
	id      txid.ID
	channel uint8
}

func (m *cg023) Init() {
	m.reset()
	m.setAddress(cg023Address)
}

func (m *cg023) Bind(id txid.ID) {
	m.id = id
	m.channel = cg023BindChannel + id[0]%0x30
	m.bind(func(int) {
		m.build(ppm.DefaultFrame, true)
		m.send(cg023BindChannel)
	})
}

func (m *cg023) Process(f ppm.Frame) timing.Micros {
	next := m.start()
	m.build(f, false)
	m.send(m.channel)
	return next
}

func (m *cg023) build(f ppm.Frame, bind bool) {
	p := &m.packet
	p[0] = 0x55
	if bind {
		p[0] = 0xAA
	}
	p[1], p[2] = m.id[0], m.id[1]
	p[3], p[4] = 0, 0
	p[5] = scaleByte(f[ppm.Throttle], 0, 0xFF)
	p[6] = signMagnitude(f[ppm.Rudder], 0x3C)
	p[7] = signMagnitude(f[ppm.Elevator], 0x3C)
	p[8] = signMagnitude(f[ppm.Aileron], 0x3C)
	p[9], p[10], p[11] = 0x20, 0x20, 0x20
	p[12] = 0

	var flags byte
	for i, mask := range m.flags {
		flags |= flag(f, ppm.Aux1+i, mask)
	}
	p[13] = flags
	p[14] = position3(f, ppm.Aux1)
}
