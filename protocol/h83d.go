package protocol

import (
	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/timing"
	"github.com/ystepanoff/nrfmulti/txid"
)

var h83dAddress = []byte{0xC4, 0x57, 0x09, 0x65, 0x21}

var h83dBase = [4]uint8{0x06, 0x15, 0x24, 0x33}

const (
	h83dFlagFlip     = 0x01
	h83dFlagHeadless = 0x02
	h83dFlagCamera   = 0x08
	h83dFlagVideo    = 0x10
	h83dFlip360      = 0x40 // byte 18
)

// h83d has no separate bind packet; the model latches the first id it
// hears on the shared address.
type h83d struct {
	link
	id      txid.ID
	hops    [4]uint8
	hop     int
	counter byte
}

func (m *h83d) Init() {
	m.reset()
	m.hop = 0
	m.counter = 0
	m.setAddress(h83dAddress)
}

func (m *h83d) Bind(id txid.ID) {
	m.id = id
	for i := range m.hops {
		m.hops[i] = h83dBase[i] + id[i]&0x0F
	}
	m.bind(func(int) {
		m.build(ppm.DefaultFrame)
		m.send(m.hops[m.hop])
		m.hop = (m.hop + 1) % len(m.hops)
	})
}

func (m *h83d) Process(f ppm.Frame) timing.Micros {
	next := m.start()
	m.build(f)
	m.send(m.hops[m.hop])
	m.hop = (m.hop + 1) % len(m.hops)
	return next
}

func (m *h83d) build(f ppm.Frame) {
	p := &m.packet
	p[0] = 0x13
	copy(p[1:5], m.id[:])
	p[5], p[6], p[7], p[8] = 0, 0, 0, 0
	p[9] = m.counter
	m.counter++
	p[10], p[11] = 0, 0
	p[12] = scaleByte(f[ppm.Throttle], 0, 0xFF)
	p[13] = signMagnitude(f[ppm.Rudder], 0x7F)
	p[14] = signMagnitude(f[ppm.Elevator], 0x7F)
	p[15] = signMagnitude(f[ppm.Aileron], 0x7F)
	p[16] = 0x20
	p[17] = flag(f, ppm.Aux2, h83dFlagFlip) |
		flag(f, ppm.Aux5, h83dFlagHeadless) |
		flag(f, ppm.Aux3, h83dFlagCamera) |
		flag(f, ppm.Aux4, h83dFlagVideo)
	p[18] = flag(f, ppm.Aux6, h83dFlip360) | position3(f, ppm.Aux1)
	p[19] = sum(p[:19])
}
