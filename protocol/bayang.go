package protocol

import (
	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/timing"
	"github.com/ystepanoff/nrfmulti/txid"
)

var bayangBindAddress = []byte{0, 0, 0, 0, 0}

const (
	bayangFlagFlip     = 0x08
	bayangFlagHeadless = 0x02
	bayangFlagRTH      = 0x01
	bayangFlagVideo    = 0x10
	bayangFlagSnapshot = 0x20
	bayangFlagInverted = 0x80 // H101
	bayangTrimMid      = 0x1F << 2
)

type bayang struct {
	link
	id      txid.ID
	address [5]byte
	hops    [4]uint8
	hop     int
}

func (m *bayang) Init() {
	m.reset()
	m.hop = 0
	m.setAddress(bayangBindAddress)
}

func (m *bayang) Bind(id txid.ID) {
	m.id = id
	copy(m.address[:4], id[:])
	m.address[4] = id[0] ^ id[1] ^ id[2] ^ id[3]
	for i := range m.hops {
		m.hops[i] = id[i] % 0x42
	}

	p := &m.packet
	p[0] = 0xA4
	copy(p[1:6], m.address[:])
	copy(p[6:10], m.hops[:])
	p[10], p[11] = id[0], id[1]
	p[12], p[13] = 0, 0x0A
	p[14] = sum(p[:14])
	m.bind(func(i int) {
		m.send(m.hops[i%len(m.hops)])
	})

	m.setAddress(m.address[:])
}

func (m *bayang) Process(f ppm.Frame) timing.Micros {
	next := m.start()
	p := &m.packet
	p[0] = 0xA5
	p[1] = 0xFA
	p[2] = flag(f, ppm.Aux2, bayangFlagFlip) |
		flag(f, ppm.Aux5, bayangFlagHeadless) |
		flag(f, ppm.Aux6, bayangFlagRTH) |
		flag(f, ppm.Aux3, bayangFlagSnapshot) |
		flag(f, ppm.Aux4, bayangFlagVideo)
	p[3] = flag(f, ppm.Aux1, bayangFlagInverted)
	m.axis(p[4:6], f[ppm.Aileron])
	m.axis(p[6:8], f[ppm.Elevator])
	m.axis(p[8:10], f[ppm.Throttle])
	m.axis(p[10:12], f[ppm.Rudder])
	p[12] = m.id[2]
	p[13] = 0x0A
	p[14] = sum(p[:14])

	m.send(m.hops[m.hop])
	m.hop = (m.hop + 1) % len(m.hops)
	return next
}

// axis writes a 10-bit stick value big endian with a centred trim in the
// upper bits.
func (m *bayang) axis(b []byte, v uint16) {
	s := scale(v, 0, 0x3FF)
	b[0] = byte(s>>8) | bayangTrimMid
	b[1] = byte(s)
}
